package settings

import (
	"testing"

	"github.com/Overland-East-Bay/location-finder-api/internal/adapters/contracttest"
	"github.com/Overland-East-Bay/location-finder-api/internal/adapters/postgres/testutil"
	settingsport "github.com/Overland-East-Bay/location-finder-api/internal/ports/out/settings"
)

func TestContract_PostgresSettingsStore(t *testing.T) {
	pool := testutil.OpenMigratedPool(t)

	contracttest.RunSettingsStore(t, func(t *testing.T) (settingsport.Store, func()) {
		t.Helper()
		return NewStore(pool), nil
	})
}
