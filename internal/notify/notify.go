// Package notify keeps the transient notifications shown to the user. Each
// notification expires on its own timer and can be dismissed on its own.
package notify

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Level is the severity of a notification.
type Level int

const (
	LevelInfo Level = iota
	LevelSuccess
	LevelWarning
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelSuccess:
		return "success"
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

type Notification struct {
	ID        int
	Message   string
	Level     Level
	CreatedAt time.Time
}

// ExpiredMsg is delivered when the notification with ID reaches its TTL.
type ExpiredMsg struct {
	ID int
}

type Notifier struct {
	ttl    time.Duration
	nextID int
	items  []Notification
	now    func() time.Time
}

func New(ttl time.Duration) *Notifier {
	return &Notifier{ttl: ttl, now: time.Now}
}

// SetClock replaces the clock used for CreatedAt.
func (n *Notifier) SetClock(now func() time.Time) {
	if now != nil {
		n.now = now
	}
}

// Notify appends a notification and returns the command that expires it.
// It never blocks; the returned command must be handed to the runtime.
func (n *Notifier) Notify(message string, level Level) (Notification, tea.Cmd) {
	n.nextID++
	item := Notification{ID: n.nextID, Message: message, Level: level, CreatedAt: n.now()}
	n.items = append(n.items, item)

	id := item.ID
	return item, tea.Tick(n.ttl, func(time.Time) tea.Msg {
		return ExpiredMsg{ID: id}
	})
}

// Expire handles an ExpiredMsg. Unknown ids (already dismissed) are ignored.
func (n *Notifier) Expire(id int) bool {
	return n.Dismiss(id)
}

// Dismiss removes only the notification with id.
func (n *Notifier) Dismiss(id int) bool {
	for i, item := range n.items {
		if item.ID != id {
			continue
		}
		next := make([]Notification, 0, len(n.items)-1)
		next = append(next, n.items[:i]...)
		next = append(next, n.items[i+1:]...)
		n.items = next
		return true
	}
	return false
}

// DismissLatest removes the newest notification, if any.
func (n *Notifier) DismissLatest() bool {
	if len(n.items) == 0 {
		return false
	}
	return n.Dismiss(n.items[len(n.items)-1].ID)
}

// Active returns the visible notifications, oldest first.
func (n *Notifier) Active() []Notification {
	out := make([]Notification, len(n.items))
	copy(out, n.items)
	return out
}

func (n *Notifier) Len() int {
	return len(n.items)
}
