// Package session tracks the selected feed and the state of its content
// pane. Every load is stamped with a generation; results, watchdogs and
// post-render passes from older generations are discarded.
package session

import (
	"time"

	"github.com/glabrego/feedsync/internal/feedapi"
	"github.com/glabrego/feedsync/internal/sanitize"
)

type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseRendered
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseRendered:
		return "rendered"
	case PhaseFailed:
		return "failed"
	default:
		return "idle"
	}
}

// Ticket identifies one load. It travels with the request and comes back
// with its result.
type Ticket struct {
	URL        string
	Generation uint64
}

type Session struct {
	generation uint64
	selected   string
	phase      Phase
	slow       bool

	snapshot   feedapi.FeedSnapshot
	bodies     []string
	renderedAt time.Time
	err        error

	now      func() time.Time
	sanitize func(string) string
}

func New(now func() time.Time) *Session {
	if now == nil {
		now = time.Now
	}
	return &Session{now: now, sanitize: sanitize.Fragment}
}

// Begin selects url and starts a new load, superseding any load in flight.
// Selecting the same url again starts a fresh load; nothing is cached.
func (s *Session) Begin(url string) Ticket {
	s.generation++
	s.selected = url
	s.phase = PhaseLoading
	s.slow = false
	s.err = nil
	s.snapshot = feedapi.FeedSnapshot{}
	s.bodies = nil
	return Ticket{URL: url, Generation: s.generation}
}

// Current reports whether t belongs to the latest load.
func (s *Session) Current(t Ticket) bool {
	return t.Generation == s.generation && t.URL == s.selected && s.selected != ""
}

// Succeed applies a fetched snapshot. Item bodies are sanitized here and the
// freshness time is taken from the local clock. Stale tickets are ignored.
func (s *Session) Succeed(t Ticket, snap feedapi.FeedSnapshot) bool {
	if !s.Current(t) {
		return false
	}
	bodies := make([]string, len(snap.Items))
	for i, item := range snap.Items {
		bodies[i] = s.sanitize(item.Body())
	}
	s.snapshot = snap
	s.bodies = bodies
	s.phase = PhaseRendered
	s.slow = false
	s.err = nil
	s.renderedAt = s.now()
	return true
}

// Fail records a failed load. Stale tickets are ignored.
func (s *Session) Fail(t Ticket, err error) bool {
	if !s.Current(t) {
		return false
	}
	s.phase = PhaseFailed
	s.slow = false
	s.err = err
	return true
}

// TimedOut handles the load watchdog: while the load of t is still pending
// the pane gets the slow overlay. The request itself keeps going.
func (s *Session) TimedOut(t Ticket) bool {
	if !s.Current(t) || s.phase != PhaseLoading {
		return false
	}
	s.slow = true
	return true
}

// ApplyNormalized swaps in post-processed bodies for the current render.
func (s *Session) ApplyNormalized(t Ticket, bodies []string) bool {
	if !s.Current(t) || s.phase != PhaseRendered || len(bodies) != len(s.bodies) {
		return false
	}
	s.bodies = append([]string(nil), bodies...)
	return true
}

// Clear drops the selection and empties the pane. In-flight loads become stale.
func (s *Session) Clear() {
	s.generation++
	s.selected = ""
	s.phase = PhaseIdle
	s.slow = false
	s.err = nil
	s.snapshot = feedapi.FeedSnapshot{}
	s.bodies = nil
	s.renderedAt = time.Time{}
}

func (s *Session) Selected() (string, bool) {
	return s.selected, s.selected != ""
}

func (s *Session) Phase() Phase { return s.phase }

// Slow reports whether the "taking longer than expected" overlay is shown.
func (s *Session) Slow() bool { return s.slow }

func (s *Session) Snapshot() feedapi.FeedSnapshot { return s.snapshot }

// Bodies returns the sanitized item bodies, index-aligned with Snapshot().Items.
func (s *Session) Bodies() []string {
	return append([]string(nil), s.bodies...)
}

func (s *Session) RenderedAt() time.Time { return s.renderedAt }

func (s *Session) Err() error { return s.err }

// Ticket returns the ticket of the latest load.
func (s *Session) Ticket() Ticket {
	return Ticket{URL: s.selected, Generation: s.generation}
}
