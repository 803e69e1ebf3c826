package view

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"

	"github.com/glabrego/feedsync/internal/subscriptions"
	tuitheme "github.com/glabrego/feedsync/internal/tui/theme"
)

// ItemDateLayout is how item timestamps are shown, in local time.
const ItemDateLayout = "January 2, 2006 at 3:04 PM"

type SubscriptionLineParams struct {
	Entry    subscriptions.Entry
	Active   bool
	Selected bool
	Spinner  string
	Width    int
}

func RenderSubscriptionLine(p SubscriptionLineParams, th tuitheme.Theme) string {
	cursorMarker := " "
	if p.Active {
		cursorMarker = ">"
	}
	selectedMarker := " "
	if p.Selected {
		selectedMarker = "*"
	}
	prefix := " " + cursorMarker + selectedMarker + " "

	suffix := ""
	switch {
	case p.Entry.Removing:
		suffix = "removed"
	case p.Entry.PendingDelete:
		suffix = "deleting…"
	case p.Entry.Refreshing:
		suffix = strings.TrimSpace(p.Spinner)
		if suffix == "" {
			suffix = "…"
		}
	}

	available := p.Width - visibleLen(prefix)
	if suffix != "" {
		available -= visibleLen(suffix) + 1
	}
	if available < 1 {
		available = 1
	}
	label := truncateRunes(p.Entry.Label(), available)
	line := prefix + th.StyleEntryLabel(p.Entry, label)
	if suffix != "" {
		gap := p.Width - visibleLen(prefix) - visibleLen(label) - visibleLen(suffix)
		if gap < 1 {
			gap = 1
		}
		line += strings.Repeat(" ", gap) + th.MetaLabel.Render(suffix)
	}
	return th.RenderActiveLine(p.Active, line)
}

// FormatItemDate renders a published time in loc, or "" when unknown.
func FormatItemDate(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return ""
	}
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(ItemDateLayout)
}

// FreshnessLabel describes when the pane was rendered, relative to now.
func FreshnessLabel(now, renderedAt time.Time, loc *time.Location) string {
	if renderedAt.IsZero() {
		return ""
	}
	if loc == nil {
		loc = time.Local
	}
	if now.IsZero() {
		now = time.Now()
	}
	rel := "just now"
	if now.Sub(renderedAt) >= time.Minute {
		rel = humanize.RelTime(renderedAt, now, "ago", "from now")
	}
	return "Updated " + renderedAt.In(loc).Format("3:04 PM") + " (" + rel + ")"
}

func truncateRunes(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return strings.Repeat(".", maxLen)
	}
	runes := []rune(s)
	return string(runes[:maxLen-3]) + "..."
}

func visibleLen(s string) int {
	return ansi.StringWidth(s)
}
