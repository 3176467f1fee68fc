package geocoding

import (
	"context"
	"fmt"
	"strings"

	"github.com/Overland-East-Bay/location-finder-api/internal/ports/out/settings"
)

// SettingsCredential reads the API key from the settings store and falls back
// to the given value (usually from the environment) when the store has none.
func SettingsCredential(store settings.Store, fallback string) CredentialFunc {
	return func(ctx context.Context) (string, error) {
		if store != nil {
			v, ok, err := store.Get(ctx, settings.GeocodingAPIKey)
			if err != nil {
				return "", fmt.Errorf("read %s: %w", settings.GeocodingAPIKey, err)
			}
			if ok && strings.TrimSpace(v) != "" {
				return v, nil
			}
		}
		return fallback, nil
	}
}
