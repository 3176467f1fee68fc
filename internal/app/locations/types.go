package locations

import "github.com/Overland-East-Bay/location-finder-api/internal/domain"

// Optional is a tri-state field used to distinguish:
// - unspecified (omitted)
// - specified as null
// - specified with a value
type Optional[T any] struct {
	specified bool
	isNull    bool
	value     T
}

func Unspecified[T any]() Optional[T] { return Optional[T]{} }
func Null[T any]() Optional[T]        { return Optional[T]{specified: true, isNull: true} }
func Some[T any](v T) Optional[T]     { return Optional[T]{specified: true, value: v} }

func (o Optional[T]) IsSpecified() bool { return o.specified }
func (o Optional[T]) IsNull() bool      { return o.specified && o.isNull }
func (o Optional[T]) Value() T          { return o.value }

// HasValue reports whether the field was sent with a non-null value.
func (o Optional[T]) HasValue() bool { return o.specified && !o.isNull }

type UpdateLocationInput struct {
	City    string
	State   string
	Country string

	// Lat and Lng are stored as-is when both carry a value; otherwise the address is geocoded.
	Lat Optional[float64]
	Lng Optional[float64]

	// Searchable: unspecified keeps the stored choice, null resets to the default (searchable).
	Searchable Optional[bool]

	Redirect string
}

type UpdateLocationResult struct {
	Message  string
	Redirect string
	// Geocoded is true when the stored coordinate came from the geocoder.
	Geocoded bool
	Location domain.MemberLocation
}

type SearchQuery struct {
	Location string
	Radius   float64
	// Unit is "km" or "mi"; empty means km.
	Unit string
}

type SearchResult struct {
	Center domain.Coordinate
	Unit   domain.Unit
	// Source is where the center coordinate came from ("cache" or a transport name).
	Source string
	Users  []domain.SearchResultEntry
}
