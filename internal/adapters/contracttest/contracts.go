package contracttest

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/Overland-East-Bay/location-finder-api/internal/domain"
	locationrepoport "github.com/Overland-East-Bay/location-finder-api/internal/ports/out/locationrepo"
	memberdirport "github.com/Overland-East-Bay/location-finder-api/internal/ports/out/memberdir"
	settingsport "github.com/Overland-East-Bay/location-finder-api/internal/ports/out/settings"
)

type CleanupFunc = func()

type MemberDirectoryFactory func(t *testing.T) (memberdirport.Directory, CleanupFunc)
type LocationRepoFactory func(t *testing.T) (locationrepoport.Repository, CleanupFunc)
type SettingsStoreFactory func(t *testing.T) (settingsport.Store, CleanupFunc)

func RunSettingsStore(t *testing.T, newStore SettingsStoreFactory) {
	t.Helper()
	ctx := context.Background()

	store, cleanup := newStore(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	key := settingsport.Key("contract." + uuid.NewString())
	if _, ok, err := store.Get(ctx, key); err != nil || ok {
		t.Fatalf("Get missing: ok=%v err=%v, want ok=false", ok, err)
	}
	if err := store.Put(ctx, key, "abc"); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, ok, err := store.Get(ctx, key)
	if err != nil || !ok || got != "abc" {
		t.Fatalf("Get=%q ok=%v err=%v, want abc", got, ok, err)
	}

	// Overwrite semantics.
	if err := store.Put(ctx, key, "def"); err != nil {
		t.Fatalf("Put overwrite: %v", err)
	}
	got, ok, err = store.Get(ctx, key)
	if err != nil || !ok || got != "def" {
		t.Fatalf("expected overwritten value, got %q ok=%v err=%v", got, ok, err)
	}
}

func RunMemberDirectory(t *testing.T, newDir MemberDirectoryFactory) {
	t.Helper()
	ctx := context.Background()

	dir, cleanup := newDir(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	aID := domain.MemberID(uuid.NewString())
	aSub := domain.SubjectID("sub-" + uuid.NewString())
	if err := dir.Upsert(ctx, domain.Member{
		ID:               aID,
		Subject:          aSub,
		DisplayName:      "Aaron Contract",
		AvatarURL:        "https://example.test/a.png",
		ProfileURL:       "https://example.test/members/a",
		ProfileType:      "staff",
		ProfileTypeLabel: "Staff",
	}); err != nil {
		t.Fatalf("Upsert a: %v", err)
	}
	got, err := dir.GetByID(ctx, aID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Subject != aSub || got.ProfileTypeLabel != "Staff" || got.AvatarURL != "https://example.test/a.png" {
		t.Fatalf("GetByID=%+v", got)
	}
	if got, err := dir.GetBySubject(ctx, aSub); err != nil || got.ID != aID {
		t.Fatalf("GetBySubject=%+v err=%v", got, err)
	}
	if _, err := dir.GetByID(ctx, domain.MemberID(uuid.NewString())); !errors.Is(err, memberdirport.ErrNotFound) {
		t.Fatalf("GetByID missing err=%v, want ErrNotFound", err)
	}
	if _, err := dir.GetBySubject(ctx, domain.SubjectID("sub-"+uuid.NewString())); !errors.Is(err, memberdirport.ErrNotFound) {
		t.Fatalf("GetBySubject missing err=%v, want ErrNotFound", err)
	}

	// Upsert replaces the record.
	if err := dir.Upsert(ctx, domain.Member{ID: aID, Subject: aSub, DisplayName: "Aaron Renamed"}); err != nil {
		t.Fatalf("Upsert replace: %v", err)
	}
	if got, _ := dir.GetByID(ctx, aID); got.DisplayName != "Aaron Renamed" || got.ProfileType != "" {
		t.Fatalf("after replace=%+v", got)
	}

	// Deterministic list ordering by displayName (case-insensitive).
	bID := domain.MemberID(uuid.NewString())
	if err := dir.Upsert(ctx, domain.Member{ID: bID, Subject: domain.SubjectID("sub-" + uuid.NewString()), DisplayName: "aaron aardvark"}); err != nil {
		t.Fatalf("Upsert b: %v", err)
	}
	ms, err := dir.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	ia, ib := -1, -1
	for i, m := range ms {
		switch m.ID {
		case aID:
			ia = i
		case bID:
			ib = i
		}
	}
	if ia < 0 || ib < 0 || ib > ia {
		t.Fatalf("unexpected ordering: a=%d b=%d in %d members", ia, ib, len(ms))
	}
}

// RunLocationRepo seeds members around a center chosen far from any other test data.
func RunLocationRepo(t *testing.T, newRepo LocationRepoFactory) {
	t.Helper()
	ctx := context.Background()

	repo, cleanup := newRepo(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	now := time.Unix(3000, 0).UTC()
	ptr := func(v float64) *float64 { return &v }
	no := false

	// Center in the South Atlantic; offsets in degrees of latitude (~111.2 km each).
	center := domain.Coordinate{Lat: -40.0, Lng: -20.0}
	near := domain.MemberID(uuid.NewString())
	mid := domain.MemberID(uuid.NewString())
	far := domain.MemberID(uuid.NewString())
	hidden := domain.MemberID(uuid.NewString())
	half := domain.MemberID(uuid.NewString())
	self := domain.MemberID(uuid.NewString())
	seed := []domain.MemberLocation{
		{MemberID: mid, City: "Mid", Latitude: ptr(-40.5), Longitude: ptr(-20.0), UpdatedAt: now},
		{MemberID: near, City: "Near", State: "ST", Country: "Nowhere", Latitude: ptr(-40.1), Longitude: ptr(-20.0), UpdatedAt: now},
		{MemberID: far, City: "Far", Latitude: ptr(-45.0), Longitude: ptr(-20.0), UpdatedAt: now},
		{MemberID: hidden, City: "Hidden", Latitude: ptr(-40.05), Longitude: ptr(-20.0), Searchable: &no, UpdatedAt: now},
		{MemberID: half, City: "Half", Latitude: ptr(-40.02), UpdatedAt: now},
		{MemberID: self, City: "Self", Latitude: ptr(-40.0), Longitude: ptr(-20.0), UpdatedAt: now},
	}
	for _, loc := range seed {
		if err := repo.Upsert(ctx, loc); err != nil {
			t.Fatalf("Upsert %s: %v", loc.City, err)
		}
	}

	got, err := repo.Get(ctx, near)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.City != "Near" || got.State != "ST" || got.Latitude == nil || *got.Latitude != -40.1 || !got.IsSearchable() {
		t.Fatalf("Get=%+v", got)
	}
	if _, err := repo.Get(ctx, domain.MemberID(uuid.NewString())); !errors.Is(err, locationrepoport.ErrNotFound) {
		t.Fatalf("Get missing err=%v, want ErrNotFound", err)
	}

	ours := map[domain.MemberID]bool{near: true, mid: true, far: true, hidden: true, half: true, self: true}
	search := func(q locationrepoport.NearbyQuery) []locationrepoport.Match {
		t.Helper()
		ms, err := repo.FindWithinRadius(ctx, q)
		if err != nil {
			t.Fatalf("FindWithinRadius: %v", err)
		}
		out := make([]locationrepoport.Match, 0, len(ms))
		for _, m := range ms {
			if ours[m.Location.MemberID] {
				out = append(out, m)
			}
		}
		return out
	}

	ms := search(locationrepoport.NearbyQuery{Center: center, Radius: 100, Unit: domain.UnitKilometers, Exclude: self})
	if len(ms) != 2 || ms[0].Location.MemberID != near || ms[1].Location.MemberID != mid {
		t.Fatalf("100km search=%+v, want [near mid]", ms)
	}
	if math.Abs(ms[0].Distance-11.1) > 0.1 || math.Abs(ms[1].Distance-55.6) > 0.1 {
		t.Fatalf("distances=%v,%v, want ~11.1 and ~55.6", ms[0].Distance, ms[1].Distance)
	}

	// Without an exclusion the requester at the center is returned at distance 0.
	ms = search(locationrepoport.NearbyQuery{Center: center, Radius: 20, Unit: domain.UnitKilometers})
	if len(ms) != 2 || ms[0].Location.MemberID != self || math.IsNaN(ms[0].Distance) || ms[0].Distance > 1e-3 {
		t.Fatalf("20km search=%+v, want [self near]", ms)
	}

	// Miles.
	ms = search(locationrepoport.NearbyQuery{Center: center, Radius: 400, Unit: domain.UnitMiles, Exclude: self})
	if len(ms) != 3 || ms[2].Location.MemberID != far {
		t.Fatalf("400mi search=%+v, want [near mid far]", ms)
	}

	// Boundary: the radius is exclusive, so a zero radius matches nobody, not even the center.
	ms = search(locationrepoport.NearbyQuery{Center: center, Radius: 0, Unit: domain.UnitMiles})
	if len(ms) != 0 {
		t.Fatalf("zero-radius search=%+v, want none", ms)
	}

	// Geocoder write-back completes a half-set coordinate.
	if err := repo.SetCoordinate(ctx, half, domain.Coordinate{Lat: -40.02, Lng: -20.0}, now.Add(time.Minute)); err != nil {
		t.Fatalf("SetCoordinate: %v", err)
	}
	ms = search(locationrepoport.NearbyQuery{Center: center, Radius: 20, Unit: domain.UnitKilometers, Exclude: self})
	if len(ms) != 2 || ms[0].Location.MemberID != half {
		t.Fatalf("after SetCoordinate=%+v, want [half near]", ms)
	}
	if err := repo.SetCoordinate(ctx, domain.MemberID(uuid.NewString()), center, now); !errors.Is(err, locationrepoport.ErrNotFound) {
		t.Fatalf("SetCoordinate missing err=%v, want ErrNotFound", err)
	}

	// Upsert replaces the record, including clearing the coordinate.
	if err := repo.Upsert(ctx, domain.MemberLocation{MemberID: near, City: "Moved", UpdatedAt: now}); err != nil {
		t.Fatalf("Upsert replace: %v", err)
	}
	got, err = repo.Get(ctx, near)
	if err != nil || got.City != "Moved" || got.Latitude != nil || got.State != "" {
		t.Fatalf("after replace=%+v err=%v", got, err)
	}
}
