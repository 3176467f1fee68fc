package locations

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"strings"

	"github.com/google/uuid"

	"github.com/Overland-East-Bay/location-finder-api/internal/domain"
	"github.com/Overland-East-Bay/location-finder-api/internal/geo"
	"github.com/Overland-East-Bay/location-finder-api/internal/geocoding"
	clockport "github.com/Overland-East-Bay/location-finder-api/internal/ports/out/clock"
	"github.com/Overland-East-Bay/location-finder-api/internal/ports/out/events"
	"github.com/Overland-East-Bay/location-finder-api/internal/ports/out/locationrepo"
	"github.com/Overland-East-Bay/location-finder-api/internal/ports/out/memberdir"
)

const (
	msgLocationUpdated      = "Your location has been updated successfully."
	msgLocationNotGeocoded  = "Your location has been saved, but it could not be placed on the map."
	msgLocationFieldMissing = "Please enter at least one location field."
	msgInvalidSearch        = "Invalid search parameters"
	msgLocationNotFound     = "Could not find the location"
)

// Geocoder resolves address text to a coordinate.
type Geocoder interface {
	GeocodeAddress(ctx context.Context, text string) (geocoding.Result, error)
}

// Logger is the logging surface the service needs; *log.Logger satisfies it.
type Logger interface {
	Printf(format string, v ...any)
}

type Service struct {
	dir       memberdir.Directory
	locs      locationrepo.Repository
	geocoder  Geocoder
	publisher events.Publisher
	clk       clockport.Clock
	logger    Logger

	newEventID func() string

	// AllowAnonymousSearch lets requests without a directory member search.
	AllowAnonymousSearch bool
	// MaxRadius bounds the search radius in the query unit; 0 means unbounded.
	MaxRadius float64
}

func NewService(dir memberdir.Directory, locs locationrepo.Repository, geocoder Geocoder, publisher events.Publisher, clk clockport.Clock) *Service {
	return &Service{
		dir:        dir,
		locs:       locs,
		geocoder:   geocoder,
		publisher:  publisher,
		clk:        clk,
		logger:     log.Default(),
		newEventID: uuid.NewString,
	}
}

// WithLogger replaces the service logger.
func (s *Service) WithLogger(l Logger) *Service {
	if l != nil {
		s.logger = l
	}
	return s
}

func (s *Service) memberForSubject(ctx context.Context, subject domain.SubjectID) (domain.Member, error) {
	m, err := s.dir.GetBySubject(ctx, subject)
	if err != nil {
		if errors.Is(err, memberdir.ErrNotFound) {
			return domain.Member{}, &Error{
				Status:  404,
				Code:    "MEMBER_NOT_PROVISIONED",
				Message: "No member profile exists for the authenticated subject.",
			}
		}
		return domain.Member{}, err
	}
	return m, nil
}

// GetMyLocation returns the caller's stored location.
func (s *Service) GetMyLocation(ctx context.Context, subject domain.SubjectID) (domain.MemberLocation, error) {
	m, err := s.memberForSubject(ctx, subject)
	if err != nil {
		return domain.MemberLocation{}, err
	}
	loc, err := s.locs.Get(ctx, m.ID)
	if err != nil {
		if errors.Is(err, locationrepo.ErrNotFound) {
			return domain.MemberLocation{}, &Error{
				Status:  404,
				Code:    "LOCATION_NOT_SET",
				Message: "You have not set a location yet.",
			}
		}
		return domain.MemberLocation{}, err
	}
	return loc, nil
}

// UpdateMyLocation replaces the caller's location. Supplied coordinates are stored as-is;
// otherwise the address is geocoded, and a geocoding failure still saves the text fields.
func (s *Service) UpdateMyLocation(ctx context.Context, subject domain.SubjectID, in UpdateLocationInput) (UpdateLocationResult, error) {
	m, err := s.memberForSubject(ctx, subject)
	if err != nil {
		return UpdateLocationResult{}, err
	}

	loc := domain.MemberLocation{
		MemberID: m.ID,
		City:     domain.NormalizeHumanName(in.City),
		State:    domain.NormalizeHumanName(in.State),
		Country:  domain.NormalizeHumanName(in.Country),
	}
	if !loc.HasText() {
		return UpdateLocationResult{}, &Error{
			Status:  422,
			Code:    "VALIDATION_ERROR",
			Message: msgLocationFieldMissing,
			Details: map[string]any{"location": "at least one of city, state or country is required"},
		}
	}

	supplied := in.Lat.HasValue() && in.Lng.HasValue()
	if supplied {
		c := domain.Coordinate{Lat: in.Lat.Value(), Lng: in.Lng.Value()}
		if !geo.Valid(c) {
			return UpdateLocationResult{}, &Error{
				Status:  422,
				Code:    "VALIDATION_ERROR",
				Message: "invalid coordinate",
				Details: map[string]any{
					"lat": "must be within [-90, 90]",
					"lng": "must be within [-180, 180]",
				},
			}
		}
		loc.Latitude = &c.Lat
		loc.Longitude = &c.Lng
	}

	existing, err := s.locs.Get(ctx, m.ID)
	switch {
	case err == nil:
		loc.Searchable = existing.Searchable
	case errors.Is(err, locationrepo.ErrNotFound):
	default:
		return UpdateLocationResult{}, err
	}
	if in.Searchable.IsSpecified() {
		if in.Searchable.IsNull() {
			loc.Searchable = nil
		} else {
			v := in.Searchable.Value()
			loc.Searchable = &v
		}
	}

	loc.UpdatedAt = s.clk.Now()
	if err := s.locs.Upsert(ctx, loc); err != nil {
		return UpdateLocationResult{}, err
	}

	res := UpdateLocationResult{
		Message:  msgLocationUpdated,
		Redirect: strings.TrimSpace(in.Redirect),
	}
	if !supplied {
		ok, err := s.GeocodeMemberLocation(ctx, m.ID)
		if err != nil {
			s.logger.Printf("locations: geocoding member %s failed: %v", m.ID, err)
		}
		res.Geocoded = ok
		if !ok {
			res.Message = msgLocationNotGeocoded
		}
		if ok {
			if loc, err = s.locs.Get(ctx, m.ID); err != nil {
				return UpdateLocationResult{}, err
			}
		}
	}
	res.Location = loc

	s.publishLocationUpdated(ctx, loc, res.Geocoded)
	return res, nil
}

// GeocodeMemberLocation geocodes the member's stored address and saves the coordinate.
// It returns false without calling the geocoder when no address text is stored.
func (s *Service) GeocodeMemberLocation(ctx context.Context, id domain.MemberID) (bool, error) {
	loc, err := s.locs.Get(ctx, id)
	if err != nil {
		if errors.Is(err, locationrepo.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	if !loc.HasText() {
		return false, nil
	}
	res, err := s.geocoder.GeocodeAddress(ctx, loc.Address())
	if err != nil {
		return false, err
	}
	if err := s.locs.SetCoordinate(ctx, id, res.Coordinate, s.clk.Now()); err != nil {
		return false, err
	}
	return true, nil
}

// SearchNearby geocodes the query location and returns searchable members strictly
// inside the radius, nearest first. The requesting member is never included.
func (s *Service) SearchNearby(ctx context.Context, subject domain.SubjectID, q SearchQuery) (SearchResult, error) {
	requester, err := s.authorizeSearch(ctx, subject)
	if err != nil {
		return SearchResult{}, err
	}

	text := strings.TrimSpace(q.Location)
	details := map[string]any{}
	if text == "" {
		details["location"] = "must be non-empty"
	}
	if math.IsNaN(q.Radius) || math.IsInf(q.Radius, 0) || q.Radius <= 0 {
		details["radius"] = "must be a positive number"
	} else if s.MaxRadius > 0 && q.Radius > s.MaxRadius {
		details["radius"] = fmt.Sprintf("must be at most %g", s.MaxRadius)
	}
	unit, err := domain.ParseUnit(q.Unit)
	if err != nil {
		details["unit"] = "must be km or mi"
	}
	if len(details) > 0 {
		return SearchResult{}, &Error{
			Status:  422,
			Code:    "VALIDATION_ERROR",
			Message: msgInvalidSearch,
			Details: details,
		}
	}

	center, err := s.geocoder.GeocodeAddress(ctx, text)
	if err != nil {
		s.logger.Printf("locations: search geocode %q failed: %v", text, err)
		return SearchResult{}, &Error{
			Status:  422,
			Code:    "LOCATION_NOT_FOUND",
			Message: msgLocationNotFound,
		}
	}

	matches, err := s.locs.FindWithinRadius(ctx, locationrepo.NearbyQuery{
		Center:  center.Coordinate,
		Radius:  q.Radius,
		Unit:    unit,
		Exclude: requester,
	})
	if err != nil {
		return SearchResult{}, err
	}

	rows := make([]ResultRow, 0, len(matches))
	for _, mt := range matches {
		if math.IsNaN(mt.Distance) || !geo.Within(mt.Distance, q.Radius) {
			s.logger.Printf("locations: skipping member %s with distance %v", mt.Location.MemberID, mt.Distance)
			continue
		}
		m, err := s.dir.GetByID(ctx, mt.Location.MemberID)
		if err != nil {
			if errors.Is(err, memberdir.ErrNotFound) {
				s.logger.Printf("locations: skipping member %s missing from directory", mt.Location.MemberID)
				continue
			}
			return SearchResult{}, err
		}
		rows = append(rows, ResultRow{Member: m, Location: mt.Location, Distance: mt.Distance, Radius: q.Radius})
	}

	return SearchResult{
		Center: center.Coordinate,
		Unit:   unit,
		Source: center.Source,
		Users:  FormatResults(rows),
	}, nil
}

// authorizeSearch returns the requesting member id, or "" for an allowed anonymous search.
func (s *Service) authorizeSearch(ctx context.Context, subject domain.SubjectID) (domain.MemberID, error) {
	if subject == "" {
		if s.AllowAnonymousSearch {
			return "", nil
		}
		return "", &Error{
			Status:  401,
			Code:    "UNAUTHORIZED",
			Message: "You must be logged in to search for members.",
		}
	}
	m, err := s.dir.GetBySubject(ctx, subject)
	if err != nil {
		if errors.Is(err, memberdir.ErrNotFound) {
			if s.AllowAnonymousSearch {
				return "", nil
			}
			return "", &Error{
				Status:  403,
				Code:    "MEMBER_NOT_PROVISIONED",
				Message: "No member profile exists for the authenticated subject.",
			}
		}
		return "", err
	}
	return m.ID, nil
}

// TestGeocode resolves text for operators checking the geocoding setup.
// Failures carry the per-transport diagnostics that end users never see.
func (s *Service) TestGeocode(ctx context.Context, subject domain.SubjectID, text string) (geocoding.Result, error) {
	if _, err := s.memberForSubject(ctx, subject); err != nil {
		return geocoding.Result{}, err
	}
	res, err := s.geocoder.GeocodeAddress(ctx, text)
	if err == nil {
		return res, nil
	}
	switch {
	case errors.Is(err, geocoding.ErrInvalidInput):
		return geocoding.Result{}, &Error{
			Status:  422,
			Code:    "VALIDATION_ERROR",
			Message: "invalid location",
			Details: map[string]any{"location": "must be non-empty"},
		}
	case errors.Is(err, geocoding.ErrMissingCredential):
		return geocoding.Result{}, &Error{
			Status:  422,
			Code:    "LOCATION_NOT_FOUND",
			Message: msgLocationNotFound,
			Details: map[string]any{"reason": "missing_credential"},
		}
	}
	details := map[string]any{"reason": "unavailable"}
	var ue *geocoding.UnavailableError
	if errors.As(err, &ue) {
		attempts := make([]map[string]any, 0, len(ue.Attempts))
		for _, a := range ue.Attempts {
			row := map[string]any{"transport": a.Transport}
			if a.Err != nil {
				row["error"] = a.Err.Error()
			}
			if a.HTTPStatus != 0 {
				row["httpStatus"] = a.HTTPStatus
			}
			if a.ProviderStatus != "" {
				row["providerStatus"] = a.ProviderStatus
			}
			attempts = append(attempts, row)
		}
		details["attempts"] = attempts
	}
	return geocoding.Result{}, &Error{
		Status:  422,
		Code:    "LOCATION_NOT_FOUND",
		Message: msgLocationNotFound,
		Details: details,
	}
}

func (s *Service) publishLocationUpdated(ctx context.Context, loc domain.MemberLocation, geocoded bool) {
	if s.publisher == nil {
		return
	}
	e := events.LocationUpdated{
		EventID:    s.newEventID(),
		MemberID:   loc.MemberID,
		City:       loc.City,
		State:      loc.State,
		Country:    loc.Country,
		Lat:        loc.Latitude,
		Lng:        loc.Longitude,
		Searchable: loc.IsSearchable(),
		Geocoded:   geocoded,
		OccurredAt: loc.UpdatedAt,
	}
	if err := s.publisher.PublishLocationUpdated(ctx, e); err != nil {
		s.logger.Printf("locations: publish %s for member %s failed: %v", events.SubjectLocationUpdated, loc.MemberID, err)
	}
}
