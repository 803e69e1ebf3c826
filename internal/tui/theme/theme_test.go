package theme

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"

	"github.com/glabrego/feedsync/internal/notify"
	"github.com/glabrego/feedsync/internal/subscriptions"
)

func TestStyleEntryLabel_ByState(t *testing.T) {
	lipgloss.SetColorProfile(termenv.ANSI)
	th := Default()

	for name, entry := range map[string]subscriptions.Entry{
		"normal":      {},
		"highlighted": {Highlighted: true},
		"pending":     {PendingDelete: true},
		"removing":    {Removing: true, PendingDelete: true},
	} {
		got := th.StyleEntryLabel(entry, "Feed")
		if !strings.Contains(got, "\x1b[") || !strings.Contains(ansi.Strip(got), "Feed") {
			t.Fatalf("expected styled %s label, got %q", name, got)
		}
	}

	if got := th.StyleEntryLabel(subscriptions.Entry{}, ""); got != "" {
		t.Fatalf("expected empty label to stay empty, got %q", got)
	}
}

func TestStyleEntryLabel_RemovalWins(t *testing.T) {
	lipgloss.SetColorProfile(termenv.ANSI)
	th := Default()

	removing := th.StyleEntryLabel(subscriptions.Entry{Removing: true, PendingDelete: true, Highlighted: true}, "Feed")
	if removing != th.EntryRemoving.Render("Feed") {
		t.Fatalf("expected removing style, got %q", removing)
	}
}

func TestNoticeStyle_DistinctPerLevel(t *testing.T) {
	lipgloss.SetColorProfile(termenv.ANSI256)
	th := Default()

	seen := map[string]notify.Level{}
	for _, level := range []notify.Level{notify.LevelInfo, notify.LevelSuccess, notify.LevelWarning, notify.LevelError} {
		out := th.NoticeStyle(level).Render("x")
		if prev, dup := seen[out]; dup {
			t.Fatalf("levels %s and %s render identically: %q", prev, level, out)
		}
		seen[out] = level
	}
}

func TestRenderActiveLine(t *testing.T) {
	lipgloss.SetColorProfile(termenv.ANSI)
	th := Default()
	if got := th.RenderActiveLine(false, "line"); got != "line" {
		t.Fatalf("inactive line should be untouched, got %q", got)
	}
	if got := th.RenderActiveLine(true, "line"); !strings.Contains(got, "\x1b[") {
		t.Fatalf("expected styled active line, got %q", got)
	}
}
