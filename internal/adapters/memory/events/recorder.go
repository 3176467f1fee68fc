package events

import (
	"context"
	"sync"

	"github.com/Overland-East-Bay/location-finder-api/internal/ports/out/events"
)

// Recorder keeps published events in memory. It backs the memory storage
// profile when no broker is configured, and lets tests assert on events.
type Recorder struct {
	mu     sync.Mutex
	events []events.LocationUpdated
	err    error
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

// FailWith makes every later publish return err.
func (r *Recorder) FailWith(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.err = err
}

func (r *Recorder) PublishLocationUpdated(ctx context.Context, e events.LocationUpdated) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.events = append(r.events, e)
	return nil
}

// Events returns a copy of everything published so far.
func (r *Recorder) Events() []events.LocationUpdated {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]events.LocationUpdated, len(r.events))
	copy(out, r.events)
	return out
}
