// Package geocoding turns free-text addresses into coordinates: a fixed cache
// first, then each configured provider transport in order.
package geocoding

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/Overland-East-Bay/location-finder-api/internal/domain"
	"github.com/Overland-East-Bay/location-finder-api/internal/geo"
	"github.com/Overland-East-Bay/location-finder-api/internal/ports/out/geocodeprovider"
)

const (
	// SourceCache is Result.Source for cache hits.
	SourceCache = "cache"

	defaultTimeout = 5 * time.Second
)

// Logger is the logging surface the geocoder needs; *log.Logger satisfies it.
type Logger interface {
	Printf(format string, v ...any)
}

// CredentialFunc returns the provider API key, or "" when none is configured.
type CredentialFunc func(ctx context.Context) (string, error)

// StaticCredential returns a CredentialFunc that always yields key.
func StaticCredential(key string) CredentialFunc {
	return func(context.Context) (string, error) { return key, nil }
}

// Result is a resolved coordinate and where it came from (SourceCache or a transport name).
type Result struct {
	Coordinate domain.Coordinate
	Source     string
}

// Geocoder resolves addresses. It holds no mutable state and is safe for concurrent use.
type Geocoder struct {
	cache      *Cache
	transports []geocodeprovider.Transport
	credential CredentialFunc
	timeout    time.Duration
	logger     Logger
}

// Option configures a Geocoder.
type Option func(*Geocoder)

// WithTimeout bounds each transport attempt.
func WithTimeout(d time.Duration) Option {
	return func(g *Geocoder) {
		if d > 0 {
			g.timeout = d
		}
	}
}

// WithLogger sets the operator log sink.
func WithLogger(l Logger) Option {
	return func(g *Geocoder) {
		if l != nil {
			g.logger = l
		}
	}
}

// New builds a Geocoder. Transports are tried in the given order.
func New(cache *Cache, transports []geocodeprovider.Transport, credential CredentialFunc, opts ...Option) *Geocoder {
	g := &Geocoder{
		cache:      cache,
		transports: append([]geocodeprovider.Transport(nil), transports...),
		credential: credential,
		timeout:    defaultTimeout,
		logger:     log.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// TransportNames lists the configured transports in attempt order.
func (g *Geocoder) TransportNames() []string {
	out := make([]string, 0, len(g.transports))
	for _, t := range g.transports {
		out = append(out, t.Name())
	}
	return out
}

// GeocodeAddress resolves text to a coordinate. Successful provider lookups are not cached.
func (g *Geocoder) GeocodeAddress(ctx context.Context, text string) (Result, error) {
	address := strings.TrimSpace(text)
	if address == "" {
		return Result{}, ErrInvalidInput
	}

	if c, ok := g.cache.Lookup(address); ok {
		return Result{Coordinate: c, Source: SourceCache}, nil
	}

	key := ""
	if g.credential != nil {
		k, err := g.credential(ctx)
		if err != nil {
			return Result{}, fmt.Errorf("geocode: load credential: %w", err)
		}
		key = strings.TrimSpace(k)
	}
	if key == "" {
		g.logger.Printf("geocoding: no API credential configured; cannot resolve %q", address)
		return Result{}, ErrMissingCredential
	}

	unavailable := &UnavailableError{}
	for _, t := range g.transports {
		if ctx.Err() != nil {
			unavailable.Attempts = append(unavailable.Attempts, Attempt{Transport: t.Name(), Err: ctx.Err()})
			break
		}
		c, err := g.attempt(ctx, t, address, key)
		if err == nil {
			return Result{Coordinate: c, Source: t.Name()}, nil
		}
		a := Attempt{Transport: t.Name(), Err: err}
		var pe *geocodeprovider.Error
		if errors.As(err, &pe) {
			a.HTTPStatus = pe.HTTPStatus
			a.ProviderStatus = pe.ProviderStatus
		}
		unavailable.Attempts = append(unavailable.Attempts, a)
		g.logger.Printf("geocoding: transport %s failed for %q: %v", t.Name(), address, err)
	}

	if best, ok := unavailable.MostSpecific(); ok {
		g.logger.Printf("geocoding: all transports failed for %q; last provider diagnostic from %s: %v", address, best.Transport, best.Err)
	} else {
		g.logger.Printf("geocoding: no transports configured; cannot resolve %q", address)
	}
	return Result{}, unavailable
}

func (g *Geocoder) attempt(ctx context.Context, t geocodeprovider.Transport, address, key string) (domain.Coordinate, error) {
	actx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	c, err := t.Geocode(actx, address, key)
	if err != nil {
		return domain.Coordinate{}, err
	}
	if !geo.Valid(c) {
		return domain.Coordinate{}, fmt.Errorf("provider returned invalid coordinate (%v, %v)", c.Lat, c.Lng)
	}
	return c, nil
}
