package geo

import (
	"testing"

	"github.com/Overland-East-Bay/location-finder-api/internal/domain"
)

func TestBoundingBox_ContainsEverythingInsideRadius(t *testing.T) {
	t.Parallel()

	center := blueSprings
	points := []domain.Coordinate{
		kansasCity,
		{Lat: 39.0911, Lng: -94.4155}, // Independence
		{Lat: 38.8814, Lng: -94.8191}, // Olathe
		{Lat: 38.6270, Lng: -90.1994}, // St. Louis
	}
	for _, unit := range []domain.Unit{domain.UnitKilometers, domain.UnitMiles} {
		radius := 50.0
		bb := BoundingBoxFor(center, radius, unit)
		for _, p := range points {
			inside := Within(Distance(center, p, unit), radius)
			if inside && !bb.Contains(p) {
				t.Fatalf("unit=%s: %v within radius but outside box %+v", unit, p, bb)
			}
		}
	}
}

func TestBoundingBox_ExcludesFarPoints(t *testing.T) {
	t.Parallel()

	bb := BoundingBoxFor(blueSprings, 50, domain.UnitMiles)
	if bb.Contains(london) {
		t.Fatalf("box %+v contains london", bb)
	}
	if bb.WrapsLng {
		t.Fatalf("unexpected wrap for mid-latitude box %+v", bb)
	}
}

func TestBoundingBox_WrapsNearAntimeridianAndPoles(t *testing.T) {
	t.Parallel()

	bb := BoundingBoxFor(domain.Coordinate{Lat: 0, Lng: 179.9}, 100, domain.UnitKilometers)
	if !bb.WrapsLng || !bb.Contains(domain.Coordinate{Lat: 0, Lng: -179.9}) {
		t.Fatalf("antimeridian box %+v should wrap", bb)
	}

	polar := BoundingBoxFor(domain.Coordinate{Lat: 89.8, Lng: 10}, 100, domain.UnitKilometers)
	if !polar.WrapsLng || !polar.Contains(domain.Coordinate{Lat: 89.7, Lng: -170}) {
		t.Fatalf("polar box %+v should span all longitudes", polar)
	}
}
