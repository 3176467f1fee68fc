// Package resultset filters and pages a proximity result list on the client
// side. Filter and page changes never re-query the server.
package resultset

import (
	"errors"
	"strings"

	"golang.org/x/text/cases"

	"github.com/Overland-East-Bay/location-finder-api/internal/domain"
)

const (
	DefaultPageSize = 10
	windowSize      = 5
)

var ErrPageOutOfRange = errors.New("resultset: page out of range")

// Event is one input to Engine.Apply.
type Event interface {
	isEvent()
}

// ResultsLoaded replaces the whole result set and clears both filters.
type ResultsLoaded struct {
	Entries []domain.SearchResultEntry
}

// NameFilterChanged keeps entries whose display name contains Text (case-insensitive).
// Text is matched as typed, surrounding spaces included.
type NameFilterChanged struct {
	Text string
}

// ProfileTypeFilterChanged keeps entries with exactly this profile type; empty means all.
type ProfileTypeFilterChanged struct {
	Type string
}

type PageChanged struct {
	Page int
}

func (ResultsLoaded) isEvent()            {}
func (NameFilterChanged) isEvent()        {}
func (ProfileTypeFilterChanged) isEvent() {}
func (PageChanged) isEvent()              {}

// ProfileType is a selectable filter value.
type ProfileType struct {
	Type  string
	Label string
}

// View is what the presentation layer renders for the current page.
type View struct {
	Entries    []domain.SearchResultEntry
	Page       int
	TotalPages int
	// Total is the number of entries after filtering.
	Total int
	// First is the 1-based position of Entries[0] in the filtered list.
	First int

	// Window holds the page numbers to show as direct links.
	Window   []int
	HasPrev  bool
	HasNext  bool
	PrevPage int
	NextPage int

	// Empty is set when no entry passes the filters; no pagination controls apply.
	Empty bool
}

// Engine is not safe for concurrent use; wrap it in a Session when results
// arrive from other goroutines.
type Engine struct {
	pageSize int

	all      []domain.SearchResultEntry
	filtered []domain.SearchResultEntry

	nameFilter string
	typeFilter string
	page       int
}

func New(pageSize int) *Engine {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Engine{pageSize: pageSize, page: 1}
}

func (e *Engine) PageSize() int { return e.pageSize }

// Filters returns the active name and profile-type filters.
func (e *Engine) Filters() (name, profileType string) {
	return e.nameFilter, e.typeFilter
}

// Apply runs one event and returns the view to render. On error the engine
// state is unchanged.
func (e *Engine) Apply(ev Event) (View, error) {
	switch ev := ev.(type) {
	case ResultsLoaded:
		e.all = append([]domain.SearchResultEntry(nil), ev.Entries...)
		e.nameFilter = ""
		e.typeFilter = ""
		e.recompute()
	case NameFilterChanged:
		e.nameFilter = ev.Text
		e.recompute()
	case ProfileTypeFilterChanged:
		e.typeFilter = strings.TrimSpace(ev.Type)
		e.recompute()
	case PageChanged:
		if ev.Page < 1 || ev.Page > e.totalPages() {
			return View{}, ErrPageOutOfRange
		}
		e.page = ev.Page
	default:
		return View{}, errors.New("resultset: unknown event")
	}
	return e.View(), nil
}

func (e *Engine) recompute() {
	needle := cases.Fold().String(e.nameFilter)
	out := make([]domain.SearchResultEntry, 0, len(e.all))
	for _, r := range e.all {
		if needle != "" && !strings.Contains(cases.Fold().String(r.DisplayName), needle) {
			continue
		}
		if e.typeFilter != "" && r.ProfileType != e.typeFilter {
			continue
		}
		out = append(out, r)
	}
	e.filtered = out
	e.page = 1
}

func (e *Engine) totalPages() int {
	return (len(e.filtered) + e.pageSize - 1) / e.pageSize
}

// View renders the current page without changing state.
func (e *Engine) View() View {
	total := e.totalPages()
	if total == 0 {
		return View{Page: 1, Empty: true}
	}
	start := (e.page - 1) * e.pageSize
	end := start + e.pageSize
	if end > len(e.filtered) {
		end = len(e.filtered)
	}
	v := View{
		Entries:    append([]domain.SearchResultEntry(nil), e.filtered[start:end]...),
		Page:       e.page,
		TotalPages: total,
		Total:      len(e.filtered),
		First:      start + 1,
		Window:     Window(e.page, total),
		HasPrev:    e.page > 1,
		HasNext:    e.page < total,
	}
	if v.HasPrev {
		v.PrevPage = e.page - 1
	}
	if v.HasNext {
		v.NextPage = e.page + 1
	}
	return v
}

// ProfileTypes lists the distinct profile types of the loaded results in
// first-seen order. Entries without a type are skipped.
func (e *Engine) ProfileTypes() []ProfileType {
	seen := map[string]bool{}
	var out []ProfileType
	for _, r := range e.all {
		if r.ProfileType == "" || seen[r.ProfileType] {
			continue
		}
		seen[r.ProfileType] = true
		label := r.ProfileTypeLabel
		if label == "" {
			label = r.ProfileType
		}
		out = append(out, ProfileType{Type: r.ProfileType, Label: label})
	}
	return out
}

// Window returns up to five consecutive page numbers around current,
// clamped to [1, total].
func Window(current, total int) []int {
	if total <= 0 {
		return nil
	}
	start := current - windowSize/2
	if start < 1 {
		start = 1
	}
	end := start + windowSize - 1
	if end > total {
		end = total
	}
	if end-start+1 < windowSize {
		start = end - windowSize + 1
		if start < 1 {
			start = 1
		}
	}
	out := make([]int, 0, end-start+1)
	for p := start; p <= end; p++ {
		out = append(out, p)
	}
	return out
}
