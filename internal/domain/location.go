package domain

import (
	"fmt"
	"strings"
	"time"
)

// Unit is a distance unit accepted by proximity search.
type Unit string

const (
	UnitKilometers Unit = "km"
	UnitMiles      Unit = "mi"
)

// ParseUnit maps user input to a Unit. Empty input defaults to kilometers.
func ParseUnit(s string) (Unit, error) {
	switch Unit(strings.ToLower(strings.TrimSpace(s))) {
	case "", UnitKilometers:
		return UnitKilometers, nil
	case UnitMiles:
		return UnitMiles, nil
	default:
		return "", fmt.Errorf("unsupported unit %q (must be km or mi)", s)
	}
}

// Coordinate is a point in decimal degrees.
type Coordinate struct {
	Lat float64
	Lng float64
}

// MemberLocation is the stored home location of a member.
type MemberLocation struct {
	MemberID MemberID

	City    string
	State   string
	Country string

	// Latitude and Longitude are nil until geocoded or supplied directly.
	// A half-set pair is treated as absent by search.
	Latitude  *float64
	Longitude *float64

	// Searchable is nil when the member never chose; nil counts as true.
	Searchable *bool

	UpdatedAt time.Time
}

// Coordinate returns the stored coordinate when both halves are present.
func (l MemberLocation) Coordinate() (Coordinate, bool) {
	if l.Latitude == nil || l.Longitude == nil {
		return Coordinate{}, false
	}
	return Coordinate{Lat: *l.Latitude, Lng: *l.Longitude}, true
}

// IsSearchable reports whether the member opted in to appear in searches.
func (l MemberLocation) IsSearchable() bool {
	return l.Searchable == nil || *l.Searchable
}

// Parts returns the non-empty text fields in city, state, country order.
func (l MemberLocation) Parts() []string {
	out := make([]string, 0, 3)
	for _, p := range []string{l.City, l.State, l.Country} {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Address joins the non-empty text fields with ", ".
func (l MemberLocation) Address() string {
	return strings.Join(l.Parts(), ", ")
}

// HasText reports whether at least one of city, state or country is set.
func (l MemberLocation) HasText() bool {
	return len(l.Parts()) > 0
}

// SearchResultEntry is one formatted proximity match.
type SearchResultEntry struct {
	MemberID      MemberID
	DisplayName   string
	LocationParts []string
	// Distance is rounded to one decimal place, in the query unit.
	Distance         float64
	Coordinate       Coordinate
	AvatarURL        string
	ProfileURL       string
	ProfileType      string
	ProfileTypeLabel string
}
