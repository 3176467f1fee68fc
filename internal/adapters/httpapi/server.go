package httpapi

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/oapi-codegen/nullable"

	"github.com/Overland-East-Bay/location-finder-api/internal/adapters/httpapi/oas"
	"github.com/Overland-East-Bay/location-finder-api/internal/app/locations"
	"github.com/Overland-East-Bay/location-finder-api/internal/domain"
)

const maxBodyBytes = 1 << 20

// Logger is satisfied by *log.Logger.
type Logger interface {
	Printf(format string, v ...any)
}

// Server is the HTTP adapter over the locations service.
type Server struct {
	Locations *locations.Service
	Logger    Logger
}

func NewServer(locationsSvc *locations.Service) *Server {
	return &Server{Locations: locationsSvc, Logger: log.Default()}
}

var _ oas.ServerInterface = (*Server)(nil)

func (s *Server) SearchNearby(w http.ResponseWriter, r *http.Request) {
	var body oas.SearchRequest
	if !s.decodeBody(w, r, &body, "Invalid search parameters") {
		return
	}
	s.search(w, r, locations.SearchQuery{
		Location: body.Location,
		Radius:   body.Radius,
		Unit:     body.Unit,
	})
}

func (s *Server) SearchNearbyByQuery(w http.ResponseWriter, r *http.Request, params oas.SearchParams) {
	var q locations.SearchQuery
	if params.Location != nil {
		q.Location = *params.Location
	}
	if params.Radius != nil {
		q.Radius = *params.Radius
	}
	if params.Unit != nil {
		q.Unit = *params.Unit
	}
	s.search(w, r, q)
}

func (s *Server) search(w http.ResponseWriter, r *http.Request, q locations.SearchQuery) {
	sub, _ := SubjectFromContext(r.Context())
	res, err := s.Locations.SearchNearby(r.Context(), domain.SubjectID(sub), q)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	users := make([]oas.SearchResultEntry, 0, len(res.Users))
	for _, u := range res.Users {
		users = append(users, searchResultEntryToOAS(u))
	}
	writeJSON(w, http.StatusOK, oas.SearchResponse{
		SchemaVersion: oas.SchemaVersion,
		Users:         users,
		Center:        oas.Coordinate{Lat: res.Center.Lat, Lng: res.Center.Lng},
		Count:         len(users),
		Unit:          string(res.Unit),
	})
}

func (s *Server) GetMyLocation(w http.ResponseWriter, r *http.Request) {
	sub, ok := SubjectFromContext(r.Context())
	if !ok {
		writeOASError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing subject", nil)
		return
	}
	loc, err := s.Locations.GetMyLocation(r.Context(), domain.SubjectID(sub))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, oas.MemberLocationResponse{Location: memberLocationToOAS(loc)})
}

func (s *Server) UpdateMyLocation(w http.ResponseWriter, r *http.Request) {
	sub, ok := SubjectFromContext(r.Context())
	if !ok {
		writeOASError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing subject", nil)
		return
	}
	var body oas.UpdateMyLocationRequest
	if !s.decodeBody(w, r, &body, "invalid request body") {
		return
	}

	res, err := s.Locations.UpdateMyLocation(r.Context(), domain.SubjectID(sub), updateLocationInputFromOAS(body))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	out := oas.UpdateMyLocationResponse{
		Message:  res.Message,
		Geocoded: res.Geocoded,
		Location: memberLocationToOAS(res.Location),
	}
	if res.Redirect != "" {
		out.Redirect = &res.Redirect
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) TestGeocode(w http.ResponseWriter, r *http.Request) {
	sub, ok := SubjectFromContext(r.Context())
	if !ok {
		writeOASError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing subject", nil)
		return
	}
	var body oas.GeocodeRequest
	if !s.decodeBody(w, r, &body, "invalid request body") {
		return
	}
	res, err := s.Locations.TestGeocode(r.Context(), domain.SubjectID(sub), body.Location)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, oas.GeocodeResponse{
		Lat:    res.Coordinate.Lat,
		Lng:    res.Coordinate.Lng,
		Method: res.Source,
	})
}

func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, dst any, message string) bool {
	if r.Body == nil || r.Body == http.NoBody {
		writeOASError(w, r, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "missing request body", nil)
		return false
	}
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		writeOASError(w, r, http.StatusUnprocessableEntity, "VALIDATION_ERROR", message, map[string]any{
			"body": err.Error(),
		})
		return false
	}
	return true
}

func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	if ae := (*locations.Error)(nil); errors.As(err, &ae) {
		writeOASError(w, r, ae.Status, ae.Code, ae.Message, ae.Details)
		return
	}
	if s.Logger != nil {
		s.Logger.Printf("httpapi: %s %s: %v", r.Method, r.URL.Path, err)
	}
	writeOASError(w, r, http.StatusInternalServerError, "INTERNAL", "internal error", nil)
}

func updateLocationInputFromOAS(b oas.UpdateMyLocationRequest) locations.UpdateLocationInput {
	in := locations.UpdateLocationInput{
		Lat:        optionalFromNullable(b.Lat),
		Lng:        optionalFromNullable(b.Lng),
		Searchable: optionalFromNullable(b.Searchable),
	}
	if b.City != nil {
		in.City = *b.City
	}
	if b.State != nil {
		in.State = *b.State
	}
	if b.Country != nil {
		in.Country = *b.Country
	}
	if b.Redirect != nil {
		in.Redirect = *b.Redirect
	}
	return in
}

func optionalFromNullable[T any](n nullable.Nullable[T]) locations.Optional[T] {
	if !n.IsSpecified() {
		return locations.Unspecified[T]()
	}
	if n.IsNull() {
		return locations.Null[T]()
	}
	v, err := n.Get()
	if err != nil {
		return locations.Null[T]()
	}
	return locations.Some(v)
}

func memberLocationToOAS(l domain.MemberLocation) oas.MemberLocation {
	out := oas.MemberLocation{
		MemberId:   string(l.MemberID),
		City:       l.City,
		State:      l.State,
		Country:    l.Country,
		Searchable: l.IsSearchable(),
	}
	if c, ok := l.Coordinate(); ok {
		out.Lat = &c.Lat
		out.Lng = &c.Lng
	}
	if !l.UpdatedAt.IsZero() {
		out.UpdatedAt = l.UpdatedAt.UTC().Format(time.RFC3339)
	}
	return out
}

func searchResultEntryToOAS(e domain.SearchResultEntry) oas.SearchResultEntry {
	parts := e.LocationParts
	if parts == nil {
		parts = []string{}
	}
	return oas.SearchResultEntry{
		MemberId:         string(e.MemberID),
		DisplayName:      strings.TrimSpace(e.DisplayName),
		LocationParts:    parts,
		Distance:         e.Distance,
		Coordinate:       oas.Coordinate{Lat: e.Coordinate.Lat, Lng: e.Coordinate.Lng},
		AvatarUrl:        e.AvatarURL,
		ProfileUrl:       e.ProfileURL,
		ProfileType:      e.ProfileType,
		ProfileTypeLabel: e.ProfileTypeLabel,
	}
}
