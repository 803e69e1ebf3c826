package view

import (
	"fmt"
	"strings"

	"github.com/glabrego/feedsync/internal/notify"
	tuitheme "github.com/glabrego/feedsync/internal/tui/theme"
)

const (
	FocusList  = "list"
	FocusPane  = "pane"
	FocusInput = "input"
)

func Toolbar(focus string) string {
	switch focus {
	case FocusInput:
		return "enter add feed | esc cancel"
	case FocusPane:
		return "j/k scroll | [ ] prev/next item | o open | y copy | e export | tab list | x dismiss | q quit"
	default:
		return "j/k move | enter open | a add | d delete | e export | r refresh | tab pane | x dismiss | ? help | q quit"
	}
}

// StatusLine summarizes the list and the work in flight.
func StatusLine(feeds, inFlight int, adding bool, lastSync string, th tuitheme.Theme) string {
	state := th.StateIdle.Render("idle")
	switch {
	case adding:
		state = th.StateLoad.Render("adding")
	case inFlight > 0:
		state = th.StateLoad.Render(fmt.Sprintf("loading %d", inFlight))
	}
	parts := []string{
		th.MetaLabel.Render("state") + " " + state,
		th.MetaValue.Render(fmt.Sprintf("%d feeds", feeds)),
	}
	if lastSync != "" {
		parts = append(parts, th.MetaLabel.Render("synced")+" "+th.MetaValue.Render(lastSync))
	}
	return strings.Join(parts, " • ")
}

// RenderNotifications stacks the active notifications, newest last.
func RenderNotifications(items []notify.Notification, width int, th tuitheme.Theme) string {
	if len(items) == 0 {
		return ""
	}
	lines := make([]string, 0, len(items))
	for _, item := range items {
		text := truncateRunes(item.Message, max(1, width-2))
		lines = append(lines, th.NoticeStyle(item.Level).Render(text))
	}
	return strings.Join(lines, "\n")
}

func RenderConfirm(label string, width int, th tuitheme.Theme) string {
	prompt := fmt.Sprintf("Delete %q? (y/n)", label)
	return th.Confirm.Render(truncateRunes(prompt, max(1, width)))
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
