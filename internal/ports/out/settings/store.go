package settings

import "context"

// Key names one configuration value.
type Key string

const (
	// GeocodingAPIKey holds the geocoding provider credential.
	GeocodingAPIKey Key = "geocoding.api_key"
)

// Store is a persistent key/value store for operator configuration.
type Store interface {
	Get(ctx context.Context, key Key) (string, bool, error)
	Put(ctx context.Context, key Key, value string) error
}
