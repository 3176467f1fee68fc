// Package geo provides great-circle distance helpers for proximity search.
package geo

import (
	"math"

	"github.com/Overland-East-Bay/location-finder-api/internal/domain"
)

const (
	// EarthRadiusKm is the mean Earth radius used for kilometer results.
	EarthRadiusKm = 6371.0
	// EarthRadiusMi is the Earth radius used for mile results.
	EarthRadiusMi = 3959.0

	kmPerDegreeLat = 111.0
)

// EarthRadius returns the sphere radius for the unit.
func EarthRadius(unit domain.Unit) float64 {
	if unit == domain.UnitMiles {
		return EarthRadiusMi
	}
	return EarthRadiusKm
}

// Distance returns the great-circle distance between a and b in the given unit,
// using the spherical law of cosines.
//
// The acos argument is clamped to [-1, 1]: for coincident points rounding can push
// it just above 1, which would otherwise yield NaN.
func Distance(a, b domain.Coordinate, unit domain.Unit) float64 {
	lat1 := degreesToRadians(a.Lat)
	lat2 := degreesToRadians(b.Lat)
	dLng := degreesToRadians(b.Lng) - degreesToRadians(a.Lng)

	cosC := math.Cos(lat1)*math.Cos(lat2)*math.Cos(dLng) + math.Sin(lat1)*math.Sin(lat2)
	return EarthRadius(unit) * math.Acos(clamp(cosC, -1, 1))
}

// Within reports whether d is strictly inside radius.
func Within(d, radius float64) bool {
	return d < radius
}

// Round1 rounds to one decimal place, half away from zero.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// Round1Below rounds like Round1 but stays strictly under limit when v does:
// a value that would round up to limit is truncated instead. limit <= 0 disables the cap.
func Round1Below(v, limit float64) float64 {
	r := Round1(v)
	if limit > 0 && v < limit && r >= limit {
		return math.Floor(v*10) / 10
	}
	return r
}

// Valid reports whether c is a finite coordinate inside the usual degree ranges.
func Valid(c domain.Coordinate) bool {
	if math.IsNaN(c.Lat) || math.IsNaN(c.Lng) || math.IsInf(c.Lat, 0) || math.IsInf(c.Lng, 0) {
		return false
	}
	return c.Lat >= -90 && c.Lat <= 90 && c.Lng >= -180 && c.Lng <= 180
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func degreesToRadians(degrees float64) float64 {
	return degrees * math.Pi / 180.0
}
