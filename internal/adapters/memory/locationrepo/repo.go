package locationrepo

import (
	"context"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/Overland-East-Bay/location-finder-api/internal/domain"
	"github.com/Overland-East-Bay/location-finder-api/internal/geo"
	"github.com/Overland-East-Bay/location-finder-api/internal/ports/out/locationrepo"
)

// Logger receives per-record skip messages.
type Logger interface {
	Printf(format string, v ...any)
}

// Repo is an in-memory implementation of locationrepo.Repository.
// It is safe for concurrent use.
type Repo struct {
	mu sync.RWMutex

	byID map[domain.MemberID]domain.MemberLocation
	// order keeps first-insert order so equal distances come back in store order.
	order []domain.MemberID

	logger Logger
}

func NewRepo() *Repo {
	return &Repo{
		byID:   make(map[domain.MemberID]domain.MemberLocation),
		logger: log.Default(),
	}
}

// WithLogger replaces the skip logger.
func (r *Repo) WithLogger(l Logger) *Repo {
	if l != nil {
		r.logger = l
	}
	return r
}

func (r *Repo) Get(ctx context.Context, id domain.MemberID) (domain.MemberLocation, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	loc, ok := r.byID[id]
	if !ok {
		return domain.MemberLocation{}, locationrepo.ErrNotFound
	}
	return cloneLocation(loc), nil
}

func (r *Repo) Upsert(ctx context.Context, loc domain.MemberLocation) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[loc.MemberID]; !ok {
		r.order = append(r.order, loc.MemberID)
	}
	r.byID[loc.MemberID] = cloneLocation(loc)
	return nil
}

func (r *Repo) SetCoordinate(ctx context.Context, id domain.MemberID, c domain.Coordinate, updatedAt time.Time) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	loc, ok := r.byID[id]
	if !ok {
		return locationrepo.ErrNotFound
	}
	lat, lng := c.Lat, c.Lng
	loc.Latitude = &lat
	loc.Longitude = &lng
	loc.UpdatedAt = updatedAt
	r.byID[id] = loc
	return nil
}

func (r *Repo) FindWithinRadius(ctx context.Context, q locationrepo.NearbyQuery) ([]locationrepo.Match, error) {
	_ = ctx
	bb := geo.BoundingBoxFor(q.Center, q.Radius, q.Unit)

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]locationrepo.Match, 0)
	for _, id := range r.order {
		loc := r.byID[id]
		if id == q.Exclude || !loc.IsSearchable() {
			continue
		}
		c, ok := loc.Coordinate()
		if !ok {
			continue
		}
		if !geo.Valid(c) {
			r.logger.Printf("locationrepo: skipping member %s with invalid coordinate (%v, %v)", id, c.Lat, c.Lng)
			continue
		}
		if !bb.Contains(c) {
			continue
		}
		d := geo.Distance(q.Center, c, q.Unit)
		if !geo.Within(d, q.Radius) {
			continue
		}
		out = append(out, locationrepo.Match{Location: cloneLocation(loc), Distance: d})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Distance < out[j].Distance
	})
	return out, nil
}

func cloneLocation(loc domain.MemberLocation) domain.MemberLocation {
	out := loc
	out.Latitude = cloneFloatPtr(loc.Latitude)
	out.Longitude = cloneFloatPtr(loc.Longitude)
	if loc.Searchable != nil {
		v := *loc.Searchable
		out.Searchable = &v
	}
	return out
}

func cloneFloatPtr(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
