package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/glabrego/feedsync/internal/feedapi"
	"github.com/glabrego/feedsync/internal/notify"
	tuiactions "github.com/glabrego/feedsync/internal/tui/actions"
)

func screenLines(m Model) []string {
	return strings.Split(strings.TrimRight(ansi.Strip(m.View()), "\n"), "\n")
}

func TestScreen_ListAndPaneFitTheTerminal(t *testing.T) {
	m := newTestModel(t,
		feedapi.Subscription{URL: feedA, Title: "512 Pixels"},
		feedapi.Subscription{URL: feedB, Title: "Engadget"},
	)

	lines := screenLines(m)
	if len(lines) > 30 {
		t.Fatalf("expected screen to fit 30 rows, got %d", len(lines))
	}
	if !strings.HasPrefix(lines[0], "feedsync") {
		t.Fatalf("unexpected title row: %q", lines[0])
	}
	if !strings.Contains(lines[1], "Add feed:") {
		t.Fatalf("unexpected input row: %q", lines[1])
	}
	if !strings.Contains(lines[3], "512 Pixels") || !strings.Contains(lines[3], "Select a feed from the list") {
		t.Fatalf("expected first feed beside the placeholder, got %q", lines[3])
	}
	if !strings.Contains(lines[len(lines)-2], "2 feeds") {
		t.Fatalf("unexpected status row: %q", lines[len(lines)-2])
	}
	if !strings.HasPrefix(lines[len(lines)-1], "j/k move") {
		t.Fatalf("unexpected toolbar row: %q", lines[len(lines)-1])
	}
	for i := 3; i < len(lines)-2; i++ {
		if w := ansi.StringWidth(lines[i]); w > 100 {
			t.Fatalf("row %d is %d cells wide: %q", i, w, lines[i])
		}
	}
}

func TestScreen_NotificationsAndConfirmKeepHeight(t *testing.T) {
	m := newTestModel(t, feedapi.Subscription{URL: feedA, Title: "A"})
	m.notify("first", notify.LevelInfo)
	m.notify("second", notify.LevelError)
	m, _ = update(t, m, runes("d"))

	lines := screenLines(m)
	if len(lines) > 30 {
		t.Fatalf("expected screen to fit 30 rows, got %d", len(lines))
	}
	view := strings.Join(lines, "\n")
	for _, want := range []string{"first", "second", `Delete "A"? (y/n)`} {
		if !strings.Contains(view, want) {
			t.Fatalf("expected %q on screen, got:\n%s", want, view)
		}
	}
}

func TestScreen_RenderedFeedShowsFreshnessAndItems(t *testing.T) {
	m := newTestModel(t, feedapi.Subscription{URL: feedA, Title: "A"})
	m, _ = update(t, m, tuiactions.RefreshSuccessMsg{Subscriptions: []feedapi.Subscription{{URL: feedA, Title: "A"}}})
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m, _ = update(t, m, tuiactions.LoadSuccessMsg{Ticket: m.session.Ticket(), Snapshot: feedapi.FeedSnapshot{
		Title: "Feed A",
		Items: []feedapi.FeedItem{
			{Title: "First post", Link: "https://a.example/1", PublishedAt: fixedNow.Add(-time.Hour), Description: "<p>one</p>"},
			{Title: "Second post", Link: "https://a.example/2", PublishedAt: fixedNow.Add(-2 * time.Hour), Description: "<p>two</p>"},
		},
	}})

	view := strings.Join(screenLines(m), "\n")
	for _, want := range []string{"Feed A", "Updated 3:04 PM (just now)", "First post", "Second post", "synced 3:04 PM"} {
		if !strings.Contains(view, want) {
			t.Fatalf("expected %q on screen, got:\n%s", want, view)
		}
	}
}
