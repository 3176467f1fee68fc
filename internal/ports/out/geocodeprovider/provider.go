package geocodeprovider

import (
	"context"
	"fmt"

	"github.com/Overland-East-Bay/location-finder-api/internal/domain"
)

// Transport resolves free-text addresses through one concrete HTTP client.
//
// Implementations must not retry non-OK provider statuses themselves; the
// geocoder decides whether another transport is tried.
type Transport interface {
	// Name identifies the transport in diagnostics and configuration (e.g. "pooled").
	Name() string
	Geocode(ctx context.Context, address string, key string) (domain.Coordinate, error)
}

// Error describes a failed provider call.
type Error struct {
	// HTTPStatus is zero when no response was received.
	HTTPStatus int
	// ProviderStatus is the provider's top-level status (e.g. ZERO_RESULTS); empty for transport failures.
	ProviderStatus string
	// Message is the provider's error_message, when it sent one.
	Message string
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.ProviderStatus != "" && e.Message != "":
		return fmt.Sprintf("provider status %s: %s", e.ProviderStatus, e.Message)
	case e.ProviderStatus != "":
		return fmt.Sprintf("provider status %s", e.ProviderStatus)
	case e.HTTPStatus != 0:
		return fmt.Sprintf("provider http %d: %v", e.HTTPStatus, e.Err)
	default:
		return fmt.Sprintf("provider request failed: %v", e.Err)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}
