package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Overland-East-Bay/location-finder-api/internal/adapters/httpapi/oas"
)

func TestClient_Search_Success(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/search" {
			t.Errorf("request=%s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("X-Member-Subject"); got != "sub-1" {
			t.Errorf("subject header=%q", got)
		}
		var body oas.SearchRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Location != "Blue Springs, MO" || body.Radius != 50 || body.Unit != "mi" {
			t.Errorf("body=%+v err=%v", body, err)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(oas.SearchResponse{
			SchemaVersion: oas.SchemaVersion,
			Users: []oas.SearchResultEntry{{
				MemberId:      "m1",
				DisplayName:   "Ann",
				LocationParts: []string{"Independence", "MO"},
				Distance:      8.8,
				ProfileType:   "staff",
			}},
			Center: oas.Coordinate{Lat: 39.0169, Lng: -94.2816},
			Count:  1,
			Unit:   "mi",
		})
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL+"/"), WithSubject("", "sub-1"))
	res, err := c.Search(context.Background(), "Blue Springs, MO", 50, "mi")
	if err != nil {
		t.Fatalf("Search err=%v", err)
	}
	if res.Unit != "mi" || res.Center.Lat != 39.0169 || len(res.Users) != 1 {
		t.Fatalf("res=%+v", res)
	}
	if u := res.Users[0]; u.MemberID != "m1" || u.Distance != 8.8 || u.ProfileType != "staff" || len(u.LocationParts) != 2 {
		t.Fatalf("user=%+v", u)
	}
}

func TestClient_Search_APIError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"error":{"code":"VALIDATION_ERROR","message":"Invalid search parameters","details":{"radius":"must be a positive number"}}}`))
	}))
	defer srv.Close()

	_, err := NewClient(WithBaseURL(srv.URL)).Search(context.Background(), "x", 0, "")
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("err=%v (%T), want *Error", err, err)
	}
	if apiErr.StatusCode != 422 || apiErr.Code != "VALIDATION_ERROR" || apiErr.Details["radius"] == nil {
		t.Fatalf("apiErr=%+v", apiErr)
	}
}

func TestClient_Search_PlainTextError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream exploded", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewClient(WithBaseURL(srv.URL)).Search(context.Background(), "x", 1, "")
	var apiErr *Error
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusBadGateway || apiErr.Message != "upstream exploded" {
		t.Fatalf("err=%v", err)
	}
}

func TestClient_Search_UnknownSchemaVersion(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"schemaVersion":99,"users":[],"center":{"lat":0,"lng":0},"count":0,"unit":"km"}`))
	}))
	defer srv.Close()

	if _, err := NewClient(WithBaseURL(srv.URL)).Search(context.Background(), "x", 1, ""); err == nil {
		t.Fatalf("expected schema version error")
	}
}

func TestClient_Search_WrongContentType(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html></html>"))
	}))
	defer srv.Close()

	if _, err := NewClient(WithBaseURL(srv.URL)).Search(context.Background(), "x", 1, ""); err == nil {
		t.Fatalf("expected content-type error")
	}
}
