package theme

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/glabrego/feedsync/internal/notify"
	"github.com/glabrego/feedsync/internal/subscriptions"
)

type Theme struct {
	Title      lipgloss.Style
	ModePill   lipgloss.Style
	Section    lipgloss.Style
	ActiveLine lipgloss.Style
	MetaLabel  lipgloss.Style
	MetaValue  lipgloss.Style
	StateIdle  lipgloss.Style
	StateWarn  lipgloss.Style
	StateLoad  lipgloss.Style

	EntryNormal      lipgloss.Style
	EntryHighlighted lipgloss.Style
	EntryPending     lipgloss.Style
	EntryRemoving    lipgloss.Style

	PaneTitle lipgloss.Style
	ItemTitle lipgloss.Style
	Overlay   lipgloss.Style
	Confirm   lipgloss.Style

	NoticeInfo    lipgloss.Style
	NoticeSuccess lipgloss.Style
	NoticeWarning lipgloss.Style
	NoticeError   lipgloss.Style
}

func Default() Theme {
	cpRosewater := lipgloss.Color("#f5e0dc")
	cpMauve := lipgloss.Color("#cba6f7")
	cpRed := lipgloss.Color("#f38ba8")
	cpPeach := lipgloss.Color("#fab387")
	cpYellow := lipgloss.Color("#f9e2af")
	cpGreen := lipgloss.Color("#a6e3a1")
	cpTeal := lipgloss.Color("#94e2d5")
	cpBlue := lipgloss.Color("#89b4fa")
	cpLavender := lipgloss.Color("#b4befe")
	cpText := lipgloss.Color("#cdd6f4")
	cpSubtext1 := lipgloss.Color("#bac2de")
	cpOverlay0 := lipgloss.Color("#6c7086")
	cpOverlay1 := lipgloss.Color("#7f849c")
	cpSurface0 := lipgloss.Color("#313244")
	cpBase := lipgloss.Color("#1e1e2e")

	notice := lipgloss.NewStyle().Padding(0, 1).Foreground(cpBase)

	return Theme{
		Title:      lipgloss.NewStyle().Bold(true).Foreground(cpMauve),
		ModePill:   lipgloss.NewStyle().Foreground(cpLavender).Background(cpSurface0).Padding(0, 1),
		Section:    lipgloss.NewStyle().Bold(true).Foreground(cpTeal),
		ActiveLine: lipgloss.NewStyle().Background(cpSurface0).Foreground(cpText),
		MetaLabel:  lipgloss.NewStyle().Foreground(cpOverlay1),
		MetaValue:  lipgloss.NewStyle().Foreground(cpSubtext1),
		StateIdle:  lipgloss.NewStyle().Foreground(cpGreen),
		StateWarn:  lipgloss.NewStyle().Foreground(cpRed),
		StateLoad:  lipgloss.NewStyle().Foreground(cpPeach),

		EntryNormal:      lipgloss.NewStyle().Foreground(cpText),
		EntryHighlighted: lipgloss.NewStyle().Bold(true).Foreground(cpYellow),
		EntryPending:     lipgloss.NewStyle().Italic(true).Foreground(cpPeach),
		EntryRemoving: lipgloss.NewStyle().
			Strikethrough(true).
			Foreground(cpOverlay0),

		PaneTitle: lipgloss.NewStyle().Bold(true).Foreground(cpRosewater),
		ItemTitle: lipgloss.NewStyle().Bold(true).Foreground(cpBlue),
		Overlay:   lipgloss.NewStyle().Italic(true).Foreground(cpPeach),
		Confirm:   lipgloss.NewStyle().Bold(true).Foreground(cpRed),

		NoticeInfo:    notice.Background(cpBlue),
		NoticeSuccess: notice.Background(cpGreen),
		NoticeWarning: notice.Background(cpYellow),
		NoticeError:   notice.Background(cpRed),
	}
}

// StyleEntryLabel styles a list label by the entry state. Removal wins over
// a pending delete, which wins over a highlight.
func (t Theme) StyleEntryLabel(entry subscriptions.Entry, label string) string {
	if label == "" {
		return label
	}
	switch {
	case entry.Removing:
		return t.EntryRemoving.Render(label)
	case entry.PendingDelete:
		return t.EntryPending.Render(label)
	case entry.Highlighted:
		return t.EntryHighlighted.Render(label)
	default:
		return t.EntryNormal.Render(label)
	}
}

func (t Theme) NoticeStyle(level notify.Level) lipgloss.Style {
	switch level {
	case notify.LevelSuccess:
		return t.NoticeSuccess
	case notify.LevelWarning:
		return t.NoticeWarning
	case notify.LevelError:
		return t.NoticeError
	default:
		return t.NoticeInfo
	}
}

func (t Theme) RenderActiveLine(active bool, line string) string {
	if !active {
		return line
	}
	return t.ActiveLine.Render(line)
}
