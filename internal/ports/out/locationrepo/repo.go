package locationrepo

import (
	"context"
	"errors"
	"time"

	"github.com/Overland-East-Bay/location-finder-api/internal/domain"
)

// ErrNotFound indicates the member has never set a location.
var ErrNotFound = errors.New("member location not found")

// NearbyQuery selects searchable members around Center.
type NearbyQuery struct {
	Center domain.Coordinate
	// Radius is exclusive: a member exactly Radius away is not returned.
	Radius float64
	Unit   domain.Unit
	// Exclude is omitted from results (usually the requester); empty excludes nobody.
	Exclude domain.MemberID
}

// Match is a stored location and its great-circle distance from the query center, in the query unit.
type Match struct {
	Location domain.MemberLocation
	Distance float64
}

// Repository persists member locations.
type Repository interface {
	Get(ctx context.Context, id domain.MemberID) (domain.MemberLocation, error)
	// Upsert creates or replaces the whole record.
	Upsert(ctx context.Context, loc domain.MemberLocation) error
	// SetCoordinate stores a geocoded coordinate on an existing record.
	SetCoordinate(ctx context.Context, id domain.MemberID, c domain.Coordinate, updatedAt time.Time) error

	// FindWithinRadius returns searchable members with a complete coordinate strictly
	// inside the radius, ascending by distance. Ties keep store (first insert) order.
	FindWithinRadius(ctx context.Context, q NearbyQuery) ([]Match, error)
}
