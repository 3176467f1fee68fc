// Package apiclient calls the location finder HTTP API.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Overland-East-Bay/location-finder-api/internal/adapters/httpapi/oas"
	"github.com/Overland-East-Bay/location-finder-api/internal/domain"
)

const (
	defaultBaseURL = "http://localhost:8080"
	defaultTimeout = 15 * time.Second
	maxBodyBytes   = 4 << 20
)

type Client struct {
	httpClient    *http.Client
	baseURL       string
	subjectHeader string
	subject       string
}

type ClientOption func(*Client)

func WithBaseURL(u string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithSubject sends subject in header on every request.
func WithSubject(header, subject string) ClientOption {
	return func(c *Client) {
		if header != "" {
			c.subjectHeader = header
		}
		c.subject = subject
	}
}

func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient:    &http.Client{Timeout: defaultTimeout},
		baseURL:       defaultBaseURL,
		subjectHeader: "X-Member-Subject",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Error is a non-2xx API response.
type Error struct {
	StatusCode int
	Code       string
	Message    string
	Details    map[string]any
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("API error (status %d, %s): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("API error (status %d): %s", e.StatusCode, e.Message)
}

type SearchResult struct {
	Center domain.Coordinate
	Unit   domain.Unit
	Users  []domain.SearchResultEntry
}

// Search posts a proximity query.
func (c *Client) Search(ctx context.Context, location string, radius float64, unit string) (SearchResult, error) {
	var out oas.SearchResponse
	if err := c.do(ctx, http.MethodPost, "/search", oas.SearchRequest{Location: location, Radius: radius, Unit: unit}, &out); err != nil {
		return SearchResult{}, err
	}
	if out.SchemaVersion != oas.SchemaVersion {
		return SearchResult{}, fmt.Errorf("unsupported response schema version %d", out.SchemaVersion)
	}

	res := SearchResult{
		Center: domain.Coordinate{Lat: out.Center.Lat, Lng: out.Center.Lng},
		Unit:   domain.Unit(out.Unit),
		Users:  make([]domain.SearchResultEntry, 0, len(out.Users)),
	}
	for _, u := range out.Users {
		res.Users = append(res.Users, domain.SearchResultEntry{
			MemberID:         domain.MemberID(u.MemberId),
			DisplayName:      u.DisplayName,
			LocationParts:    u.LocationParts,
			Distance:         u.Distance,
			Coordinate:       domain.Coordinate{Lat: u.Coordinate.Lat, Lng: u.Coordinate.Lng},
			AvatarURL:        u.AvatarUrl,
			ProfileURL:       u.ProfileUrl,
			ProfileType:      u.ProfileType,
			ProfileTypeLabel: u.ProfileTypeLabel,
		})
	}
	return res, nil
}

func (c *Client) do(ctx context.Context, method, path string, body any, dst any) error {
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		r = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, r)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.subject != "" {
		req.Header.Set(c.subjectHeader, c.subject)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &Error{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(raw))}
		var er oas.ErrorResponse
		if json.Unmarshal(raw, &er) == nil && er.Error.Code != "" {
			apiErr.Code = er.Error.Code
			apiErr.Message = er.Error.Message
			if d, err := er.Error.Details.Get(); err == nil {
				apiErr.Details = d
			}
		}
		return apiErr
	}

	if ct := resp.Header.Get("Content-Type"); !strings.Contains(ct, "application/json") {
		return fmt.Errorf("unexpected content-type: %s (expected application/json)", ct)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("failed to parse API response: %w", err)
	}
	return nil
}
