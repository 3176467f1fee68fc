package resultset

import (
	"sync"

	"github.com/Overland-East-Bay/location-finder-api/internal/domain"
)

// Ticket identifies one search submission. Later submissions get larger tickets.
type Ticket uint64

// Session sequences search requests for one Engine. Only the response to the
// most recent submission is applied; older ones are dropped.
type Session struct {
	mu      sync.Mutex
	engine  *Engine
	latest  Ticket
	loading bool
}

func NewSession(e *Engine) *Session {
	if e == nil {
		e = New(DefaultPageSize)
	}
	return &Session{engine: e}
}

// Begin records a new submission and sets the loading flag.
func (s *Session) Begin() Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latest++
	s.loading = true
	return s.latest
}

// Deliver loads entries when t is the latest ticket. The bool is false for a stale response.
func (s *Session) Deliver(t Ticket, entries []domain.SearchResultEntry) (View, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t != s.latest {
		return View{}, false
	}
	s.loading = false
	v, _ := s.engine.Apply(ResultsLoaded{Entries: entries})
	return v, true
}

// Fail clears the loading flag when t is the latest ticket; the loaded results are kept.
func (s *Session) Fail(t Ticket) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t != s.latest {
		return false
	}
	s.loading = false
	return true
}

func (s *Session) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Apply forwards a filter or page event to the engine.
func (s *Session) Apply(ev Event) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Apply(ev)
}

func (s *Session) ProfileTypes() []ProfileType {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.ProfileTypes()
}
