// Package googlemaps implements geocoding transports against the Google Maps
// Geocoding API (or any endpoint speaking the same JSON contract).
package googlemaps

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/Overland-East-Bay/location-finder-api/internal/domain"
	"github.com/Overland-East-Bay/location-finder-api/internal/ports/out/geocodeprovider"
)

const (
	DefaultEndpoint = "https://maps.googleapis.com/maps/api/geocode/json"

	// TransportPooled uses a shared, keep-alive transport that honors proxy environment variables.
	TransportPooled = "pooled"
	// TransportDirect dials the provider on a fresh HTTP/1.1 connection without any proxy.
	TransportDirect = "direct"

	maxResponseBytes = 1 << 20
	defaultUserAgent = "location-finder-api"
)

var sharedTransport = &http.Transport{
	Proxy: http.ProxyFromEnvironment,
	DialContext: (&net.Dialer{
		Timeout:   10 * time.Second,
		KeepAlive: 30 * time.Second,
	}).DialContext,
	ForceAttemptHTTP2:   true,
	MaxIdleConns:        20,
	IdleConnTimeout:     90 * time.Second,
	TLSHandshakeTimeout: 10 * time.Second,
}

// Client is one geocoding transport.
type Client struct {
	name       string
	httpClient *http.Client
	endpoint   string
	userAgent  string
}

var _ geocodeprovider.Transport = (*Client)(nil)

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithEndpoint overrides the provider URL.
func WithEndpoint(endpoint string) ClientOption {
	return func(c *Client) {
		if endpoint != "" {
			c.endpoint = endpoint
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// NewPooled returns the primary transport.
func NewPooled(opts ...ClientOption) *Client {
	return newClient(TransportPooled, &http.Client{Transport: sharedTransport}, opts)
}

// NewDirect returns the fallback transport. It avoids the pooled path entirely so
// proxy and connection-reuse failures on the primary do not affect it.
func NewDirect(opts ...ClientOption) *Client {
	tr := &http.Transport{
		Proxy: nil,
		DialContext: (&net.Dialer{
			Timeout: 10 * time.Second,
		}).DialContext,
		DisableKeepAlives:   true,
		ForceAttemptHTTP2:   false,
		TLSNextProto:        map[string]func(string, *tls.Conn) http.RoundTripper{},
		TLSHandshakeTimeout: 10 * time.Second,
	}
	return newClient(TransportDirect, &http.Client{Transport: tr}, opts)
}

// NewTransports builds transports by name, in order.
func NewTransports(names []string, opts ...ClientOption) ([]geocodeprovider.Transport, error) {
	out := make([]geocodeprovider.Transport, 0, len(names))
	seen := map[string]bool{}
	for _, n := range names {
		if seen[n] {
			return nil, fmt.Errorf("geocoding transport %q listed twice", n)
		}
		seen[n] = true
		switch n {
		case TransportPooled:
			out = append(out, NewPooled(opts...))
		case TransportDirect:
			out = append(out, NewDirect(opts...))
		default:
			return nil, fmt.Errorf("unknown geocoding transport %q (want %s or %s)", n, TransportPooled, TransportDirect)
		}
	}
	return out, nil
}

func newClient(name string, hc *http.Client, opts []ClientOption) *Client {
	c := &Client{
		name:       name,
		httpClient: hc,
		endpoint:   DefaultEndpoint,
		userAgent:  defaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Name() string { return c.name }

type geocodeResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Results      []struct {
		Geometry struct {
			Location struct {
				Lat *float64 `json:"lat"`
				Lng *float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

// Geocode issues GET <endpoint>?address=<address>&key=<key> and returns the first result.
func (c *Client) Geocode(ctx context.Context, address string, key string) (domain.Coordinate, error) {
	u, err := url.Parse(c.endpoint)
	if err != nil {
		return domain.Coordinate{}, &geocodeprovider.Error{Err: fmt.Errorf("invalid endpoint: %w", err)}
	}
	q := u.Query()
	q.Set("address", address)
	q.Set("key", key)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return domain.Coordinate{}, &geocodeprovider.Error{Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Strip the URL from the error so the API key never reaches logs.
		var ue *url.Error
		if errors.As(err, &ue) {
			err = ue.Err
		}
		return domain.Coordinate{}, &geocodeprovider.Error{Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return domain.Coordinate{}, &geocodeprovider.Error{
			HTTPStatus: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status code %d", resp.StatusCode),
		}
	}

	var body geocodeResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&body); err != nil {
		return domain.Coordinate{}, &geocodeprovider.Error{
			HTTPStatus: resp.StatusCode,
			Err:        fmt.Errorf("decode response: %w", err),
		}
	}
	if body.Status != "OK" {
		return domain.Coordinate{}, &geocodeprovider.Error{
			HTTPStatus:     resp.StatusCode,
			ProviderStatus: body.Status,
			Message:        body.ErrorMessage,
			Err:            fmt.Errorf("status %q", body.Status),
		}
	}
	if len(body.Results) == 0 {
		return domain.Coordinate{}, &geocodeprovider.Error{
			HTTPStatus: resp.StatusCode,
			Err:        errors.New("response has no results"),
		}
	}
	loc := body.Results[0].Geometry.Location
	if loc.Lat == nil || loc.Lng == nil {
		return domain.Coordinate{}, &geocodeprovider.Error{
			HTTPStatus: resp.StatusCode,
			Err:        errors.New("first result has no geometry.location"),
		}
	}
	return domain.Coordinate{Lat: *loc.Lat, Lng: *loc.Lng}, nil
}
