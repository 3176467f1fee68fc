package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/Overland-East-Bay/location-finder-api/internal/adapters/googlemaps"
	"github.com/Overland-East-Bay/location-finder-api/internal/adapters/httpapi"
	memevents "github.com/Overland-East-Bay/location-finder-api/internal/adapters/memory/events"
	memlocationrepo "github.com/Overland-East-Bay/location-finder-api/internal/adapters/memory/locationrepo"
	memmemberdir "github.com/Overland-East-Bay/location-finder-api/internal/adapters/memory/memberdir"
	memsettings "github.com/Overland-East-Bay/location-finder-api/internal/adapters/memory/settings"
	"github.com/Overland-East-Bay/location-finder-api/internal/adapters/natsevents"
	postgres "github.com/Overland-East-Bay/location-finder-api/internal/adapters/postgres"
	pglocationrepo "github.com/Overland-East-Bay/location-finder-api/internal/adapters/postgres/locationrepo"
	pgmemberdir "github.com/Overland-East-Bay/location-finder-api/internal/adapters/postgres/memberdir"
	pgsettings "github.com/Overland-East-Bay/location-finder-api/internal/adapters/postgres/settings"
	"github.com/Overland-East-Bay/location-finder-api/internal/app/locations"
	"github.com/Overland-East-Bay/location-finder-api/internal/geocoding"
	platformclock "github.com/Overland-East-Bay/location-finder-api/internal/platform/clock"
	"github.com/Overland-East-Bay/location-finder-api/internal/platform/config"
	eventsport "github.com/Overland-East-Bay/location-finder-api/internal/ports/out/events"
	locationrepoport "github.com/Overland-East-Bay/location-finder-api/internal/ports/out/locationrepo"
	memberdirport "github.com/Overland-East-Bay/location-finder-api/internal/ports/out/memberdir"
	settingsport "github.com/Overland-East-Bay/location-finder-api/internal/ports/out/settings"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	clk := platformclock.NewSystemClock()

	var (
		dir     memberdirport.Directory
		locs    locationrepoport.Repository
		store   settingsport.Store
		cleanup []func()
	)

	switch cfg.Storage.Backend {
	case "postgres":
		initCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		pool, err := postgres.NewPool(initCtx, cfg.Storage.DatabaseURL, postgres.PoolOptions{
			MaxConns:        cfg.Storage.MaxConns,
			MinConns:        cfg.Storage.MinConns,
			MaxConnLifetime: cfg.Storage.MaxLifetime,
		})
		if err != nil {
			cancel()
			log.Fatalf("invalid postgres config: %v", err)
		}
		if err := postgres.Migrate(initCtx, pool); err != nil {
			cancel()
			log.Fatalf("migrate: %v", err)
		}
		cancel()
		cleanup = append(cleanup, pool.Close)

		dir = pgmemberdir.NewDirectory(pool)
		locs = pglocationrepo.NewRepo(pool)
		store = pgsettings.NewStore(pool)
	default:
		memDir := memmemberdir.NewDirectory()
		if cfg.Storage.MemberSeedFile != "" {
			n, err := memDir.LoadSeedFile(ctx, cfg.Storage.MemberSeedFile)
			if err != nil {
				log.Fatalf("seed members: %v", err)
			}
			log.Printf("loaded %d members from %s", n, cfg.Storage.MemberSeedFile)
		}
		dir = memDir
		locs = memlocationrepo.NewRepo()
		store = memsettings.NewStore()
	}

	defer func() {
		for i := len(cleanup) - 1; i >= 0; i-- {
			cleanup[i]()
		}
	}()

	members, err := dir.List(ctx)
	if err != nil {
		log.Fatalf("member directory: %v", err)
	}
	if len(members) == 0 {
		log.Printf("member directory is empty; every search subject will be rejected as not provisioned")
	} else {
		log.Printf("member directory has %d members", len(members))
	}

	var publisher eventsport.Publisher
	if cfg.NATS.URL != "" {
		nc, err := natsevents.Connect(natsevents.ConnectOptions{
			URL:            cfg.NATS.URL,
			MaxReconnects:  cfg.NATS.MaxReconnects,
			ReconnectWait:  cfg.NATS.ReconnectWait,
			ConnectTimeout: cfg.NATS.ConnectTimeout,
		})
		if err != nil {
			log.Fatalf("nats: %v", err)
		}
		cleanup = append(cleanup, func() { _ = nc.Drain() })
		publisher = natsevents.NewPublisher(nc)
	} else {
		log.Printf("NATS_URL not set; location events are kept in memory only")
		publisher = memevents.NewRecorder()
	}

	geocoder, err := newGeocoder(cfg.Geocoding, store)
	if err != nil {
		log.Fatalf("geocoding: %v", err)
	}

	svc := locations.NewService(dir, locs, geocoder, publisher, clk)
	svc.AllowAnonymousSearch = cfg.Auth.AllowAnonymous
	svc.MaxRadius = cfg.Search.MaxRadius

	api := httpapi.NewServer(svc)
	handler := httpapi.NewRouterWithOptions(api, httpapi.RouterOptions{
		SubjectMiddleware: httpapi.NewSubjectMiddleware(cfg.Auth.SubjectHeader, cfg.Auth.DevSubject),
		SubjectHeader:     cfg.Auth.SubjectHeader,
		AllowedOrigins:    cfg.Server.CorsOrigins,
		AccessLog:         cfg.Server.AccessLog,
		RequestTimeout:    cfg.Server.RequestTimeout,
	})

	addr := ":" + strconv.Itoa(cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
	}

	go func() {
		log.Printf("api listening on %s (storage=%s, transports=%v)", addr, cfg.Storage.Backend, geocoder.TransportNames())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	<-ctx.Done()
	log.Printf("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}

func newGeocoder(cfg config.GeocodingConfig, store settingsport.Store) (*geocoding.Geocoder, error) {
	// Operator entries go first so they can shadow the built-in rows.
	var entries []geocoding.Entry
	if cfg.CacheFile != "" {
		extra, err := geocoding.LoadEntriesFile(cfg.CacheFile)
		if err != nil {
			return nil, err
		}
		entries = append(entries, extra...)
	}
	entries = append(entries, geocoding.DefaultEntries()...)

	opts := []googlemaps.ClientOption{googlemaps.WithEndpoint(cfg.Endpoint)}
	if cfg.UserAgent != "" {
		opts = append(opts, googlemaps.WithUserAgent(cfg.UserAgent))
	}
	transports, err := googlemaps.NewTransports(cfg.Transports, opts...)
	if err != nil {
		return nil, err
	}

	return geocoding.New(
		geocoding.NewCache(entries),
		transports,
		geocoding.SettingsCredential(store, cfg.APIKey),
		geocoding.WithTimeout(cfg.Timeout),
	), nil
}
