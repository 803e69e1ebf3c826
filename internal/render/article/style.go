package article

import "github.com/charmbracelet/lipgloss"

// articleStyles paints item bodies with the Catppuccin Mocha palette used by
// the rest of the interface.
type articleStyles struct {
	heading     lipgloss.Style
	headingBars []lipgloss.Style
	body        lipgloss.Style
	link        lipgloss.Style
	linkTarget  lipgloss.Style
	rule        lipgloss.Style
	quoteBar    lipgloss.Style
	quote       lipgloss.Style
	caption     lipgloss.Style
	code        lipgloss.Style
	tableBorder lipgloss.Style
	tableHeader lipgloss.Style
	imageLabel  lipgloss.Style
	imageAlt    lipgloss.Style
}

var styles = newStyles()

func newStyles() articleStyles {
	fg := func(hex string) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(hex))
	}
	bold := func(hex string) lipgloss.Style {
		return fg(hex).Bold(true)
	}
	return articleStyles{
		headingBars: []lipgloss.Style{
			bold("#89b4fa"), bold("#cba6f7"), bold("#94e2d5"),
			bold("#a6e3a1"), bold("#f9e2af"), bold("#fab387"),
		},
		heading:     bold("#b4befe"),
		body:        fg("#cdd6f4"),
		link:        fg("#74c7ec").Underline(true),
		linkTarget:  fg("#89b4fa").Faint(true),
		rule:        fg("#585b70"),
		quoteBar:    fg("#7f849c"),
		quote:       fg("#a6adc8").Italic(true),
		caption:     fg("#6c7086").Italic(true).Faint(true),
		code:        fg("#fab387"),
		tableBorder: fg("#585b70"),
		tableHeader: bold("#f9e2af"),
		imageLabel:  fg("#cba6f7").Faint(true).Italic(true),
		imageAlt:    fg("#bac2de").Italic(true),
	}
}
