package memberdir

import (
	"context"
	"errors"

	"github.com/Overland-East-Bay/location-finder-api/internal/domain"
)

// ErrNotFound indicates the requested member does not exist in the directory.
var ErrNotFound = errors.New("member not found")

// Directory is the read side of the host platform's member directory,
// plus Upsert for syncing records into it.
//
// List returns members ordered by DisplayName ascending (ties by ID).
type Directory interface {
	GetByID(ctx context.Context, id domain.MemberID) (domain.Member, error)
	GetBySubject(ctx context.Context, subject domain.SubjectID) (domain.Member, error)
	List(ctx context.Context) ([]domain.Member, error)

	Upsert(ctx context.Context, m domain.Member) error
}
