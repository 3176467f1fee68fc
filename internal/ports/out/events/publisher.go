package events

import (
	"context"
	"time"

	"github.com/Overland-East-Bay/location-finder-api/internal/domain"
)

// SubjectLocationUpdated is the message subject for LocationUpdated.
const SubjectLocationUpdated = "members.location.updated"

// LocationUpdated is published after a member's location is saved.
type LocationUpdated struct {
	EventID    string          `json:"eventId"`
	MemberID   domain.MemberID `json:"memberId"`
	City       string          `json:"city,omitempty"`
	State      string          `json:"state,omitempty"`
	Country    string          `json:"country,omitempty"`
	Lat        *float64        `json:"lat,omitempty"`
	Lng        *float64        `json:"lng,omitempty"`
	Searchable bool            `json:"searchable"`
	// Geocoded is true when the coordinate came from the geocoder rather than the client.
	Geocoded   bool      `json:"geocoded"`
	OccurredAt time.Time `json:"occurredAt"`
}

// Publisher emits domain events.
type Publisher interface {
	PublishLocationUpdated(ctx context.Context, e LocationUpdated) error
}
