package geocoding

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"golang.org/x/text/cases"

	"github.com/Overland-East-Bay/location-finder-api/internal/domain"
)

// Entry maps address text to a fixed coordinate.
//
// Match is a list of term groups: every group needs at least one of its terms
// contained in the address (case-insensitive). A city name plus a list of
// state spellings disambiguates same-named cities.
type Entry struct {
	Name  string     `json:"name"`
	Match [][]string `json:"match"`
	Lat   float64    `json:"lat"`
	Lng   float64    `json:"lng"`
}

func (e Entry) matches(folded string) bool {
	if len(e.Match) == 0 {
		return false
	}
	for _, group := range e.Match {
		hit := false
		for _, term := range group {
			term = fold(strings.TrimSpace(term))
			if term != "" && strings.Contains(folded, term) {
				hit = true
				break
			}
		}
		if !hit {
			return false
		}
	}
	return true
}

// DefaultEntries are the built-in cache rows.
func DefaultEntries() []Entry {
	return []Entry{
		{
			Name:  "Kansas City",
			Match: [][]string{{"kansas city"}},
			Lat:   39.099724,
			Lng:   -94.578331,
		},
		{
			Name:  "Blue Springs, MO",
			Match: [][]string{{"blue springs"}, {"mo", "missouri"}},
			Lat:   39.0169,
			Lng:   -94.2816,
		},
	}
}

// Cache is a fixed, ordered lookup table consulted before any network call.
// It is read-only after construction and safe for concurrent use.
type Cache struct {
	entries []Entry
}

func NewCache(entries []Entry) *Cache {
	cp := make([]Entry, len(entries))
	copy(cp, entries)
	return &Cache{entries: cp}
}

// Lookup returns the coordinate of the first entry matching text.
func (c *Cache) Lookup(text string) (domain.Coordinate, bool) {
	if c == nil {
		return domain.Coordinate{}, false
	}
	folded := fold(text)
	for _, e := range c.entries {
		if e.matches(folded) {
			return domain.Coordinate{Lat: e.Lat, Lng: e.Lng}, true
		}
	}
	return domain.Coordinate{}, false
}

// Len returns the number of entries.
func (c *Cache) Len() int {
	if c == nil {
		return 0
	}
	return len(c.entries)
}

// LoadEntriesFile reads extra entries from a JSON array file.
func LoadEntriesFile(path string) ([]Entry, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read geocode cache file: %w", err)
	}
	var entries []Entry
	if err := json.Unmarshal(b, &entries); err != nil {
		return nil, fmt.Errorf("parse geocode cache file %s: %w", path, err)
	}
	for i, e := range entries {
		if len(e.Match) == 0 {
			return nil, fmt.Errorf("geocode cache file %s: entry %d (%q) has no match terms", path, i, e.Name)
		}
	}
	return entries, nil
}

// fold returns s case-folded for comparison. cases.Caser is stateful, so a new one is made per call.
func fold(s string) string {
	return cases.Fold().String(s)
}
