// Package natsevents publishes domain events to NATS.
package natsevents

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/Overland-East-Bay/location-finder-api/internal/ports/out/events"
)

// Conn is the part of *nats.Conn the publisher uses.
type Conn interface {
	Publish(subj string, data []byte) error
}

// Publisher is a NATS implementation of events.Publisher.
type Publisher struct {
	nc Conn
}

var _ events.Publisher = (*Publisher)(nil)

func NewPublisher(nc Conn) *Publisher {
	return &Publisher{nc: nc}
}

func (p *Publisher) PublishLocationUpdated(ctx context.Context, e events.LocationUpdated) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", events.SubjectLocationUpdated, err)
	}
	if err := p.nc.Publish(events.SubjectLocationUpdated, data); err != nil {
		return fmt.Errorf("publish %s: %w", events.SubjectLocationUpdated, err)
	}
	return nil
}

// ConnectOptions configures Connect.
type ConnectOptions struct {
	URL            string
	MaxReconnects  int
	ReconnectWait  time.Duration
	ConnectTimeout time.Duration
}

// Connect dials NATS with reconnect handling and logs connection state changes.
func Connect(opts ConnectOptions) (*nats.Conn, error) {
	options := []nats.Option{
		nats.Name("location-finder-api"),
		nats.MaxReconnects(opts.MaxReconnects),
		nats.ReconnectWait(opts.ReconnectWait),
		nats.Timeout(opts.ConnectTimeout),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Printf("NATS disconnected: %v", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Printf("NATS reconnected to %s", nc.ConnectedUrl())
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			log.Printf("NATS connection closed")
		}),
	}

	nc, err := nats.Connect(opts.URL, options...)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to NATS: %w", err)
	}
	return nc, nil
}
