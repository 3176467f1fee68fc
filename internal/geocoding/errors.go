package geocoding

import (
	"errors"
	"strings"
)

var (
	// ErrInvalidInput indicates empty address text.
	ErrInvalidInput = errors.New("geocode: empty address")

	// ErrMissingCredential indicates no provider API key is configured.
	ErrMissingCredential = errors.New("geocode: no API credential configured")

	// ErrGeocodeUnavailable indicates every configured transport failed.
	ErrGeocodeUnavailable = errors.New("geocode: location could not be resolved")
)

// Attempt is the diagnostic for one failed transport call.
type Attempt struct {
	Transport      string
	HTTPStatus     int
	ProviderStatus string
	Err            error
}

// UnavailableError carries per-transport diagnostics. It matches ErrGeocodeUnavailable with errors.Is.
type UnavailableError struct {
	Attempts []Attempt
}

func (e *UnavailableError) Error() string {
	if len(e.Attempts) == 0 {
		return ErrGeocodeUnavailable.Error() + ": no transports configured"
	}
	parts := make([]string, 0, len(e.Attempts))
	for _, a := range e.Attempts {
		parts = append(parts, a.Transport+": "+errString(a.Err))
	}
	return ErrGeocodeUnavailable.Error() + " (" + strings.Join(parts, "; ") + ")"
}

func (e *UnavailableError) Is(target error) bool {
	return target == ErrGeocodeUnavailable
}

// MostSpecific returns the attempt with the most detailed diagnostic: a provider
// status beats an HTTP status, which beats a bare transport error. Later attempts win ties.
func (e *UnavailableError) MostSpecific() (Attempt, bool) {
	best, bestRank := Attempt{}, -1
	for _, a := range e.Attempts {
		rank := 0
		switch {
		case a.ProviderStatus != "":
			rank = 2
		case a.HTTPStatus != 0:
			rank = 1
		}
		if rank >= bestRank {
			best, bestRank = a, rank
		}
	}
	return best, bestRank >= 0
}

func errString(err error) string {
	if err == nil {
		return "unknown error"
	}
	return err.Error()
}
