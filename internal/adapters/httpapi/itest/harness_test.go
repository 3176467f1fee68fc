package itest

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/Overland-East-Bay/location-finder-api/internal/adapters/googlemaps"
	"github.com/Overland-East-Bay/location-finder-api/internal/adapters/httpapi"
	memclock "github.com/Overland-East-Bay/location-finder-api/internal/adapters/memory/clock"
	memevents "github.com/Overland-East-Bay/location-finder-api/internal/adapters/memory/events"
	memlocationrepo "github.com/Overland-East-Bay/location-finder-api/internal/adapters/memory/locationrepo"
	memmemberdir "github.com/Overland-East-Bay/location-finder-api/internal/adapters/memory/memberdir"
	memsettings "github.com/Overland-East-Bay/location-finder-api/internal/adapters/memory/settings"
	pglocationrepo "github.com/Overland-East-Bay/location-finder-api/internal/adapters/postgres/locationrepo"
	pgmemberdir "github.com/Overland-East-Bay/location-finder-api/internal/adapters/postgres/memberdir"
	pgsettings "github.com/Overland-East-Bay/location-finder-api/internal/adapters/postgres/settings"
	postgres_testutil "github.com/Overland-East-Bay/location-finder-api/internal/adapters/postgres/testutil"
	"github.com/Overland-East-Bay/location-finder-api/internal/app/locations"
	"github.com/Overland-East-Bay/location-finder-api/internal/domain"
	"github.com/Overland-East-Bay/location-finder-api/internal/geocoding"
	locationrepoport "github.com/Overland-East-Bay/location-finder-api/internal/ports/out/locationrepo"
	memberdirport "github.com/Overland-East-Bay/location-finder-api/internal/ports/out/memberdir"
	settingsport "github.com/Overland-East-Bay/location-finder-api/internal/ports/out/settings"
)

type backend string

const (
	backendMemory   backend = "memory"
	backendPostgres backend = "postgres"
)

func backendsFromEnv(t *testing.T) []backend {
	t.Helper()
	switch strings.ToLower(strings.TrimSpace(os.Getenv("ITEST_BACKEND"))) {
	case "", "memory":
		return []backend{backendMemory}
	case "postgres":
		return []backend{backendPostgres}
	case "all":
		return []backend{backendMemory, backendPostgres}
	default:
		t.Fatalf("unknown ITEST_BACKEND value (expected memory|postgres|all)")
		return nil
	}
}

// springfield is the only address the fake provider resolves.
var springfield = domain.Coordinate{Lat: 39.7817, Lng: -89.6501}

type testServer struct {
	baseURL string
	client  *http.Client

	dir    memberdirport.Directory
	locs   locationrepoport.Repository
	events *memevents.Recorder

	// prefix keeps member ids and subjects unique per run on a shared database.
	prefix string
}

func newTestServer(t *testing.T, b backend) *testServer {
	t.Helper()

	clk := memclock.NewManualClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

	var (
		dir   memberdirport.Directory
		locs  locationrepoport.Repository
		store settingsport.Store
	)
	switch b {
	case backendPostgres:
		pool := postgres_testutil.OpenMigratedPool(t)
		dir = pgmemberdir.NewDirectory(pool)
		locs = pglocationrepo.NewRepo(pool)
		store = pgsettings.NewStore(pool)
	case backendMemory:
		dir = memmemberdir.NewDirectory()
		locs = memlocationrepo.NewRepo()
		store = memsettings.NewStore()
	default:
		t.Fatalf("unknown backend: %s", b)
	}

	if err := store.Put(context.Background(), settingsport.GeocodingAPIKey, "itest-key"); err != nil {
		t.Fatalf("store api key: %v", err)
	}

	provider := httptest.NewServer(http.HandlerFunc(fakeProvider))
	t.Cleanup(provider.Close)
	transports, err := googlemaps.NewTransports(
		[]string{googlemaps.TransportPooled, googlemaps.TransportDirect},
		googlemaps.WithEndpoint(provider.URL),
	)
	if err != nil {
		t.Fatalf("transports: %v", err)
	}
	geocoder := geocoding.New(
		geocoding.NewCache(geocoding.DefaultEntries()),
		transports,
		geocoding.SettingsCredential(store, ""),
		geocoding.WithTimeout(2*time.Second),
	)

	rec := memevents.NewRecorder()
	svc := locations.NewService(dir, locs, geocoder, rec, clk)
	api := httpapi.NewServer(svc)

	// Empty default subject: requests without the header stay anonymous.
	handler := httpapi.NewRouterWithOptions(api, httpapi.RouterOptions{
		SubjectMiddleware: httpapi.NewSubjectMiddleware("", ""),
	})

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return &testServer{
		baseURL: srv.URL,
		client:  srv.Client(),
		dir:     dir,
		locs:    locs,
		events:  rec,
		prefix:  "itest-" + uuid.NewString()[:8] + "-",
	}
}

func fakeProvider(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if r.URL.Query().Get("key") != "itest-key" {
		_, _ = w.Write([]byte(`{"status":"REQUEST_DENIED","error_message":"bad key","results":[]}`))
		return
	}
	if !strings.Contains(strings.ToLower(r.URL.Query().Get("address")), "springfield") {
		_, _ = w.Write([]byte(`{"status":"ZERO_RESULTS","results":[]}`))
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status": "OK",
		"results": []any{map[string]any{
			"geometry": map[string]any{"location": map[string]any{"lat": springfield.Lat, "lng": springfield.Lng}},
		}},
	})
}

func (s *testServer) id(name string) string { return s.prefix + name }

// seedMember adds a directory member and, when coord is non-nil, a searchable location.
func (s *testServer) seedMember(t *testing.T, name string, displayName string, profileType string, city string, coord *domain.Coordinate) string {
	t.Helper()
	ctx := context.Background()
	id := s.id(name)
	if err := s.dir.Upsert(ctx, domain.Member{
		ID:               domain.MemberID(id),
		Subject:          domain.SubjectID("sub|" + id),
		DisplayName:      displayName,
		ProfileURL:       "https://example.test/members/" + id,
		ProfileType:      profileType,
		ProfileTypeLabel: strings.ToUpper(profileType),
	}); err != nil {
		t.Fatalf("seed member %s: %v", name, err)
	}
	if coord == nil {
		return "sub|" + id
	}
	lat, lng := coord.Lat, coord.Lng
	if err := s.locs.Upsert(ctx, domain.MemberLocation{
		MemberID:  domain.MemberID(id),
		City:      city,
		Latitude:  &lat,
		Longitude: &lng,
		UpdatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}); err != nil {
		t.Fatalf("seed location %s: %v", name, err)
	}
	return "sub|" + id
}

func (s *testServer) url(path string) string {
	if strings.HasPrefix(path, "/") {
		return s.baseURL + path
	}
	return s.baseURL + "/" + path
}

func (s *testServer) doJSON(t *testing.T, method string, path string, subject string, body any) (int, []byte, http.Header) {
	t.Helper()

	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		r = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, s.url(path), r)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if subject != "" {
		req.Header.Set(httpapi.DefaultSubjectHeader, subject)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()
	out, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, out, resp.Header
}

type errorResponse struct {
	Error struct {
		Code      string         `json:"code"`
		Message   string         `json:"message"`
		Details   map[string]any `json:"details"`
		RequestId string         `json:"requestId"`
	} `json:"error"`
}

func mustUnmarshal[T any](t *testing.T, b []byte) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("unmarshal: %v\nbody=%s", err, string(b))
	}
	return out
}

func requireErrorCode(t *testing.T, status int, body []byte, wantStatus int, wantCode string) errorResponse {
	t.Helper()
	if status != wantStatus {
		t.Fatalf("status=%d want=%d body=%s", status, wantStatus, string(body))
	}
	got := mustUnmarshal[errorResponse](t, body)
	if got.Error.Code != wantCode {
		t.Fatalf("error.code=%q want=%q body=%s", got.Error.Code, wantCode, string(body))
	}
	return got
}

func requireHeaderPresent(t *testing.T, h http.Header, key string) {
	t.Helper()
	if strings.TrimSpace(h.Get(key)) == "" {
		t.Fatalf("expected header %q to be present", key)
	}
}
