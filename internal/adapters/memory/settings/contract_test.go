package settings

import (
	"testing"

	"github.com/Overland-East-Bay/location-finder-api/internal/adapters/contracttest"
	settingsport "github.com/Overland-East-Bay/location-finder-api/internal/ports/out/settings"
)

func TestContract_SettingsStore(t *testing.T) {
	contracttest.RunSettingsStore(t, func(t *testing.T) (settingsport.Store, func()) {
		t.Helper()
		return NewStore(), nil
	})
}
