// Package subscriptions holds the visible subscription list: an ordered map
// keyed by feed URL plus the per-entry flags the list view renders.
package subscriptions

import (
	"strings"

	"github.com/glabrego/feedsync/internal/feedapi"
)

// Entry is one row of the list.
type Entry struct {
	Subscription feedapi.Subscription

	Refreshing     bool
	PendingDelete  bool
	DeleteDisabled bool
	Highlighted    bool
	Removing       bool

	highlightSeq int
}

// Label is the text shown for the entry: the title, else the URL.
func (e Entry) Label() string {
	if title := strings.TrimSpace(e.Subscription.Title); title != "" {
		return title
	}
	return e.Subscription.URL
}

// Store is not safe for concurrent use; it lives on the UI goroutine.
type Store struct {
	order   []string
	entries map[string]*Entry
	seq     int
}

func New(subs []feedapi.Subscription) *Store {
	s := &Store{entries: make(map[string]*Entry, len(subs))}
	s.Replace(subs)
	return s
}

// Insert appends sub. When its URL is already present nothing changes and
// false is returned; callers highlight the existing entry instead.
func (s *Store) Insert(sub feedapi.Subscription) bool {
	if sub.URL == "" {
		return false
	}
	if _, ok := s.entries[sub.URL]; ok {
		return false
	}
	s.entries[sub.URL] = &Entry{Subscription: sub}
	s.order = append(s.order, sub.URL)
	return true
}

// Remove deletes url. It reports false when url is absent, so a second
// removal of the same entry is a no-op.
func (s *Store) Remove(url string) bool {
	if _, ok := s.entries[url]; !ok {
		return false
	}
	delete(s.entries, url)
	for i, u := range s.order {
		if u == url {
			s.order = append(s.order[:i:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// Replace swaps in a full list in the given order. Flags of entries that
// survive the swap are kept; duplicate and blank URLs are dropped.
func (s *Store) Replace(subs []feedapi.Subscription) {
	next := make(map[string]*Entry, len(subs))
	order := make([]string, 0, len(subs))
	for _, sub := range subs {
		if sub.URL == "" {
			continue
		}
		if _, dup := next[sub.URL]; dup {
			continue
		}
		entry := &Entry{Subscription: sub}
		if prev, ok := s.entries[sub.URL]; ok {
			flags := *prev
			flags.Subscription = sub
			entry = &flags
		}
		next[sub.URL] = entry
		order = append(order, sub.URL)
	}
	s.entries = next
	s.order = order
}

func (s *Store) Get(url string) (Entry, bool) {
	e, ok := s.entries[url]
	if !ok {
		return Entry{}, false
	}
	return *e, true
}

func (s *Store) Has(url string) bool {
	_, ok := s.entries[url]
	return ok
}

func (s *Store) Len() int {
	return len(s.order)
}

// At returns the entry at list position i.
func (s *Store) At(i int) (Entry, bool) {
	if i < 0 || i >= len(s.order) {
		return Entry{}, false
	}
	return *s.entries[s.order[i]], true
}

// IndexOf returns the list position of url or -1.
func (s *Store) IndexOf(url string) int {
	for i, u := range s.order {
		if u == url {
			return i
		}
	}
	return -1
}

// Entries returns a copy of the list in display order.
func (s *Store) Entries() []Entry {
	out := make([]Entry, 0, len(s.order))
	for _, url := range s.order {
		out = append(out, *s.entries[url])
	}
	return out
}

// Subscriptions returns the bare subscriptions in display order.
func (s *Store) Subscriptions() []feedapi.Subscription {
	out := make([]feedapi.Subscription, 0, len(s.order))
	for _, url := range s.order {
		out = append(out, s.entries[url].Subscription)
	}
	return out
}

func (s *Store) SetRefreshing(url string, refreshing bool) {
	if e, ok := s.entries[url]; ok {
		e.Refreshing = refreshing
	}
}

// MarkPendingDelete flags url as being deleted and disables its delete
// affordance. It fails when url is absent or a delete is already pending.
func (s *Store) MarkPendingDelete(url string) bool {
	e, ok := s.entries[url]
	if !ok || e.DeleteDisabled || e.Removing {
		return false
	}
	e.PendingDelete = true
	e.DeleteDisabled = true
	return true
}

// RevertPendingDelete undoes MarkPendingDelete after a failed delete.
func (s *Store) RevertPendingDelete(url string) {
	if e, ok := s.entries[url]; ok {
		e.PendingDelete = false
		e.DeleteDisabled = false
	}
}

// BeginRemoval starts the exit transition of url. Only the first call for
// an entry succeeds.
func (s *Store) BeginRemoval(url string) bool {
	e, ok := s.entries[url]
	if !ok || e.Removing {
		return false
	}
	e.Removing = true
	e.DeleteDisabled = true
	return true
}

// Highlight flags url and returns a token for the matching ClearHighlight.
func (s *Store) Highlight(url string) (int, bool) {
	e, ok := s.entries[url]
	if !ok {
		return 0, false
	}
	s.seq++
	e.Highlighted = true
	e.highlightSeq = s.seq
	return s.seq, true
}

// ClearHighlight ends the highlight started with token; later highlights of
// the same entry are left alone.
func (s *Store) ClearHighlight(url string, token int) {
	if e, ok := s.entries[url]; ok && e.highlightSeq == token {
		e.Highlighted = false
	}
}
