package locationrepo

import (
	"testing"

	"github.com/Overland-East-Bay/location-finder-api/internal/adapters/contracttest"
	locationrepoport "github.com/Overland-East-Bay/location-finder-api/internal/ports/out/locationrepo"
)

func TestContract_LocationRepo(t *testing.T) {
	contracttest.RunLocationRepo(t, func(t *testing.T) (locationrepoport.Repository, func()) {
		t.Helper()
		return NewRepo(), nil
	})
}
