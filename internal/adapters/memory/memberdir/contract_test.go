package memberdir

import (
	"testing"

	"github.com/Overland-East-Bay/location-finder-api/internal/adapters/contracttest"
	memberdirport "github.com/Overland-East-Bay/location-finder-api/internal/ports/out/memberdir"
)

func TestContract_MemberDirectory(t *testing.T) {
	contracttest.RunMemberDirectory(t, func(t *testing.T) (memberdirport.Directory, func()) {
		t.Helper()
		return NewDirectory(), nil
	})
}
