package subscriptions

import (
	"sort"

	"github.com/glabrego/feedsync/internal/feedapi"
)

type change struct {
	version int
	sub     feedapi.Subscription
	removed bool
}

// Journal versions the adds and deletes that settle on the list. A full
// list fetched before some of them settled is brought up to date with
// Apply instead of overwriting them.
type Journal struct {
	version int
	changes map[string]change
}

func NewJournal() *Journal {
	return &Journal{changes: make(map[string]change)}
}

// Version is the number of changes recorded so far. Capture it when a list
// fetch is sent.
func (j *Journal) Version() int {
	return j.version
}

// Added records a settled add of sub.
func (j *Journal) Added(sub feedapi.Subscription) {
	j.version++
	j.changes[sub.URL] = change{version: j.version, sub: sub}
}

// Deleted records a settled delete of url.
func (j *Journal) Deleted(url string) {
	j.version++
	j.changes[url] = change{version: j.version, removed: true}
}

// Apply returns fetched with every change newer than since replayed on top:
// later deletes drop their url and later adds missing from fetched are
// appended in the order they settled. changed reports whether the result
// differs from fetched.
func (j *Journal) Apply(fetched []feedapi.Subscription, since int) (merged []feedapi.Subscription, changed bool) {
	if j.version == since {
		return fetched, false
	}

	merged = make([]feedapi.Subscription, 0, len(fetched))
	present := make(map[string]bool, len(fetched))
	for _, sub := range fetched {
		if c, ok := j.changes[sub.URL]; ok && c.version > since && c.removed {
			changed = true
			continue
		}
		present[sub.URL] = true
		merged = append(merged, sub)
	}

	late := make([]change, 0, len(j.changes))
	for _, c := range j.changes {
		if c.version > since && !c.removed && !present[c.sub.URL] {
			late = append(late, c)
		}
	}
	sort.Slice(late, func(a, b int) bool { return late[a].version < late[b].version })
	for _, c := range late {
		merged = append(merged, c.sub)
		changed = true
	}
	return merged, changed
}

// Reset forgets the recorded changes once no fetch is outstanding. The
// version keeps counting.
func (j *Journal) Reset() {
	clear(j.changes)
}
