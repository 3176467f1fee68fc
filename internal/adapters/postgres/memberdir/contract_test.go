package memberdir

import (
	"testing"

	"github.com/Overland-East-Bay/location-finder-api/internal/adapters/contracttest"
	"github.com/Overland-East-Bay/location-finder-api/internal/adapters/postgres/testutil"
	memberdirport "github.com/Overland-East-Bay/location-finder-api/internal/ports/out/memberdir"
)

func TestContract_PostgresMemberDirectory(t *testing.T) {
	pool := testutil.OpenMigratedPool(t)

	contracttest.RunMemberDirectory(t, func(t *testing.T) (memberdirport.Directory, func()) {
		t.Helper()
		return NewDirectory(pool), nil
	})
}
