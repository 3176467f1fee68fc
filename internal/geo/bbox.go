package geo

import (
	"math"

	"github.com/Overland-East-Bay/location-finder-api/internal/domain"
)

// BoundingBox is a lat/lng rectangle that contains every point within a radius
// of its center. It is only a prefilter; exact distance decides membership.
type BoundingBox struct {
	MinLat float64
	MaxLat float64
	MinLng float64
	MaxLng float64

	// WrapsLng is set when the box crosses the antimeridian or spans every longitude.
	WrapsLng bool
}

// BoundingBoxFor returns a box around center that covers radius (in unit).
func BoundingBoxFor(center domain.Coordinate, radius float64, unit domain.Unit) BoundingBox {
	radiusKm := radius
	if unit == domain.UnitMiles {
		radiusKm = radius * EarthRadiusKm / EarthRadiusMi
	}
	// Pad slightly so the box never clips a point the exact formula would keep.
	latDelta := radiusKm/kmPerDegreeLat + 0.01

	bb := BoundingBox{
		MinLat: math.Max(-90, center.Lat-latDelta),
		MaxLat: math.Min(90, center.Lat+latDelta),
	}

	// Near the poles every longitude is reachable.
	cosLat := math.Cos(degreesToRadians(math.Max(math.Abs(bb.MinLat), math.Abs(bb.MaxLat))))
	if bb.MinLat <= -90 || bb.MaxLat >= 90 || cosLat < 1e-6 {
		bb.MinLng, bb.MaxLng, bb.WrapsLng = -180, 180, true
		return bb
	}
	lngDelta := latDelta / cosLat
	if lngDelta >= 180 {
		bb.MinLng, bb.MaxLng, bb.WrapsLng = -180, 180, true
		return bb
	}
	bb.MinLng = center.Lng - lngDelta
	bb.MaxLng = center.Lng + lngDelta
	if bb.MinLng < -180 || bb.MaxLng > 180 {
		bb.MinLng, bb.MaxLng, bb.WrapsLng = -180, 180, true
	}
	return bb
}

// Contains checks if a point is within the bounding box.
func (bb BoundingBox) Contains(c domain.Coordinate) bool {
	if c.Lat < bb.MinLat || c.Lat > bb.MaxLat {
		return false
	}
	if bb.WrapsLng {
		return true
	}
	return c.Lng >= bb.MinLng && c.Lng <= bb.MaxLng
}
