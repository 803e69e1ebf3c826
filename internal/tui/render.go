package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	tuistate "github.com/glabrego/feedsync/internal/tui/state"
	tuiview "github.com/glabrego/feedsync/internal/tui/view"
)

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.theme.Title.Render("feedsync"))
	if url, ok := m.session.Selected(); ok {
		b.WriteString(" " + m.theme.ModePill.Render(truncateLabel(url, m.width/2)))
	}
	b.WriteString("\n")
	b.WriteString(m.inputLine())
	b.WriteString("\n\n")

	if m.showHelp {
		help := m.help
		help.ShowAll = true
		b.WriteString(help.View(m.keys))
		b.WriteString("\n\n")
	} else {
		b.WriteString(m.bodyView())
		b.WriteString("\n")
	}

	if m.confirmURL != "" {
		label := m.confirmURL
		if entry, ok := m.subs.Get(m.confirmURL); ok {
			label = entry.Label()
		}
		b.WriteString(tuiview.RenderConfirm(label, m.width, m.theme))
		b.WriteString("\n")
	}
	if notes := tuiview.RenderNotifications(m.notifier.Active(), m.width, m.theme); notes != "" {
		b.WriteString(notes)
		b.WriteString("\n")
	}
	b.WriteString(m.statusLine())
	b.WriteString("\n")
	b.WriteString(m.theme.MetaLabel.Render(tuiview.Toolbar(m.focus)))
	b.WriteString("\n")
	return b.String()
}

func (m Model) inputLine() string {
	line := m.input.View()
	if m.addLock != 0 {
		line += " " + m.theme.StateLoad.Render(m.spinner.View()+"adding...")
	}
	return line
}

func (m Model) bodyView() string {
	height := m.bodyHeight()
	listWidth := m.listWidth()

	var list string
	if m.subs.Len() == 0 {
		list = m.theme.MetaLabel.Render("No feeds yet. Press a to add one.")
	} else {
		start, end := tuistate.CenteredWindow(m.subs.Len(), m.cursor, height)
		selected, _ := m.session.Selected()
		list = tuiview.RenderListBody(tuiview.ListRenderInput{
			Count:  m.subs.Len(),
			Start:  start,
			End:    end,
			Cursor: m.cursor,
			RenderLine: func(i int, active bool) string {
				entry, _ := m.subs.At(i)
				return tuiview.RenderSubscriptionLine(tuiview.SubscriptionLineParams{
					Entry:    entry,
					Active:   active && m.focus != tuiview.FocusPane,
					Selected: entry.Subscription.URL == selected,
					Spinner:  m.spinner.View(),
					Width:    listWidth,
				}, m.theme)
			},
		})
	}
	listColumn := lipgloss.NewStyle().Width(listWidth).Height(height).MaxHeight(height).Render(strings.TrimRight(list, "\n"))

	separator := strings.TrimRight(strings.Repeat(" │ \n", height), "\n")
	return lipgloss.JoinHorizontal(lipgloss.Top, listColumn, separator, m.viewport.View())
}

func (m Model) statusLine() string {
	lastSync := ""
	if !m.lastSync.IsZero() {
		lastSync = m.lastSync.In(m.loc).Format("3:04 PM")
	}
	return tuiview.StatusLine(m.subs.Len(), len(m.loadsInFlight), m.addLock != 0, lastSync, m.theme)
}

func truncateLabel(s string, maxLen int) string {
	runes := []rune(s)
	if maxLen <= 3 || len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-3]) + "..."
}
