package locationrepo

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"
	"testing"

	"github.com/Overland-East-Bay/location-finder-api/internal/domain"
	"github.com/Overland-East-Bay/location-finder-api/internal/geo"
	"github.com/Overland-East-Bay/location-finder-api/internal/ports/out/locationrepo"
)

type recordingLogger struct {
	mu    sync.Mutex
	lines []string
}

func (l *recordingLogger) Printf(format string, v ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, fmt.Sprintf(format, v...))
}

func at(id string, lat, lng float64) domain.MemberLocation {
	return domain.MemberLocation{MemberID: domain.MemberID(id), City: id, Latitude: &lat, Longitude: &lng}
}

func TestRepo_FindWithinRadius_SkipsCorruptRecords(t *testing.T) {
	t.Parallel()

	logger := &recordingLogger{}
	r := NewRepo().WithLogger(logger)
	ctx := context.Background()
	center := domain.Coordinate{Lat: 39.0169, Lng: -94.2816}

	_ = r.Upsert(ctx, at("good", 39.0911, -94.4155))
	_ = r.Upsert(ctx, at("nan", math.NaN(), -94.4))
	_ = r.Upsert(ctx, at("off-globe", 95, -94.4))

	got, err := r.FindWithinRadius(ctx, locationrepo.NearbyQuery{Center: center, Radius: 50, Unit: domain.UnitMiles})
	if err != nil {
		t.Fatalf("FindWithinRadius err=%v", err)
	}
	if len(got) != 1 || got[0].Location.MemberID != "good" {
		t.Fatalf("got=%+v, want only the valid record", got)
	}
	if len(logger.lines) != 2 || !strings.Contains(logger.lines[0], "nan") {
		t.Fatalf("log lines=%v, want one per corrupt record", logger.lines)
	}
}

func TestRepo_FindWithinRadius_TiesKeepInsertOrder(t *testing.T) {
	t.Parallel()

	r := NewRepo()
	ctx := context.Background()
	for _, id := range []string{"c", "a", "b"} {
		_ = r.Upsert(ctx, at(id, 39.1, -94.5))
	}
	got, err := r.FindWithinRadius(ctx, locationrepo.NearbyQuery{Center: domain.Coordinate{Lat: 39.0, Lng: -94.5}, Radius: 100, Unit: domain.UnitKilometers})
	if err != nil {
		t.Fatalf("FindWithinRadius err=%v", err)
	}
	order := []domain.MemberID{}
	for _, m := range got {
		order = append(order, m.Location.MemberID)
	}
	if fmt.Sprint(order) != "[c a b]" {
		t.Fatalf("order=%v, want [c a b]", order)
	}
}

func TestRepo_GetReturnsCopies(t *testing.T) {
	t.Parallel()

	r := NewRepo()
	ctx := context.Background()
	_ = r.Upsert(ctx, at("m-1", 1, 2))

	got, _ := r.Get(ctx, "m-1")
	*got.Latitude = 50

	again, _ := r.Get(ctx, "m-1")
	if *again.Latitude != 1 {
		t.Fatalf("stored latitude mutated through returned pointer: %v", *again.Latitude)
	}
}

func TestRepo_FindWithinRadius_BoundaryIsExclusive(t *testing.T) {
	t.Parallel()

	r := NewRepo()
	ctx := context.Background()
	center := domain.Coordinate{Lat: 39.0169, Lng: -94.2816}
	_ = r.Upsert(ctx, at("edge", 39.0911, -94.4155))

	d := geo.Distance(center, domain.Coordinate{Lat: 39.0911, Lng: -94.4155}, domain.UnitMiles)
	got, _ := r.FindWithinRadius(ctx, locationrepo.NearbyQuery{Center: center, Radius: d, Unit: domain.UnitMiles})
	if len(got) != 0 {
		t.Fatalf("radius == distance returned %+v, want none", got)
	}
	got, _ = r.FindWithinRadius(ctx, locationrepo.NearbyQuery{Center: center, Radius: d + 1e-9, Unit: domain.UnitMiles})
	if len(got) != 1 {
		t.Fatalf("radius just past distance returned %d matches, want 1", len(got))
	}
}
