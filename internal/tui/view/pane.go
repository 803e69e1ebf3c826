package view

import (
	"strings"
	"time"

	"github.com/glabrego/feedsync/internal/feedapi"
	article "github.com/glabrego/feedsync/internal/render/article"
	"github.com/glabrego/feedsync/internal/session"
	tuitheme "github.com/glabrego/feedsync/internal/tui/theme"
)

const (
	EmptySelectionText = "Select a feed from the list to view its contents"
	LoadingText        = "Loading feed..."
	SlowOverlayText    = "This is taking longer than expected..."
	LoadErrorText      = "Error loading feed"
	NoItemsText        = "No items found in this feed"
)

type PaneInput struct {
	Phase session.Phase
	Slow  bool

	Title      string
	Items      []feedapi.FeedItem
	Bodies     []string
	RenderedAt time.Time
	Now        time.Time
	Loc        *time.Location

	FocusedItem int
	Width       int
	Margin      int
	Options     article.Options
}

// PaneContent is the rendered pane. ItemOffsets[i] is the first line of
// item i inside Lines.
type PaneContent struct {
	Lines       []string
	ItemOffsets []int
}

func RenderPane(in PaneInput, th tuitheme.Theme) PaneContent {
	width := in.Width - 2*in.Margin
	if width < 10 {
		width = 10
	}

	var out PaneContent
	switch in.Phase {
	case session.PhaseIdle:
		out.Lines = []string{th.MetaLabel.Render(EmptySelectionText)}
	case session.PhaseLoading:
		out.Lines = []string{th.StateLoad.Render(LoadingText)}
		if in.Slow {
			out.Lines = append(out.Lines, "", th.Overlay.Render(SlowOverlayText))
		}
	case session.PhaseFailed:
		out.Lines = []string{th.StateWarn.Render(LoadErrorText)}
	default:
		out = renderedPane(in, width, th)
	}
	out.Lines = leftPadLines(out.Lines, in.Margin)
	return out
}

func renderedPane(in PaneInput, width int, th tuitheme.Theme) PaneContent {
	lines := make([]string, 0, 8+len(in.Items)*8)
	title := strings.TrimSpace(in.Title)
	if title == "" {
		title = "(untitled feed)"
	}
	for _, line := range wrapPlain(title, width) {
		lines = append(lines, th.PaneTitle.Render(line))
	}
	if fresh := FreshnessLabel(in.Now, in.RenderedAt, in.Loc); fresh != "" {
		lines = append(lines, th.MetaLabel.Render(fresh))
	}
	lines = append(lines, "")

	if len(in.Items) == 0 {
		lines = append(lines, th.MetaValue.Render(NoItemsText))
		return PaneContent{Lines: lines}
	}

	offsets := make([]int, 0, len(in.Items))
	for i, item := range in.Items {
		offsets = append(offsets, len(lines))

		marker := "  "
		if i == in.FocusedItem {
			marker = "▸ "
		}
		itemTitle := strings.TrimSpace(item.Title)
		if itemTitle == "" {
			itemTitle = "(untitled)"
		}
		for j, line := range wrapPlain(itemTitle, width-2) {
			if j > 0 {
				marker = "  "
			}
			lines = append(lines, marker+th.ItemTitle.Render(line))
		}
		if date := FormatItemDate(item.PublishedAt, in.Loc); date != "" {
			lines = append(lines, "  "+th.MetaValue.Render(date))
		}

		body := item.Body()
		if i < len(in.Bodies) {
			body = in.Bodies[i]
		}
		if bodyLines := article.LinesWithOptions(body, width-2, in.Options); len(bodyLines) > 0 {
			lines = append(lines, "")
			lines = append(lines, leftPadLines(bodyLines, 2)...)
		}
		lines = append(lines, "")
	}
	return PaneContent{Lines: lines, ItemOffsets: offsets}
}

func wrapPlain(s string, width int) []string {
	if width <= 0 {
		return []string{s}
	}
	words := strings.Fields(s)
	if len(words) == 0 {
		return nil
	}
	var lines []string
	current := ""
	for _, word := range words {
		for visibleLen(word) > width {
			if current != "" {
				lines = append(lines, current)
				current = ""
			}
			runes := []rune(word)
			lines = append(lines, string(runes[:width]))
			word = string(runes[width:])
		}
		switch {
		case current == "":
			current = word
		case visibleLen(current)+1+visibleLen(word) <= width:
			current += " " + word
		default:
			lines = append(lines, current)
			current = word
		}
	}
	if current != "" {
		lines = append(lines, current)
	}
	return lines
}

func leftPadLines(lines []string, padding int) []string {
	if padding <= 0 || len(lines) == 0 {
		return lines
	}
	prefix := strings.Repeat(" ", padding)
	out := make([]string, len(lines))
	for i, line := range lines {
		if line == "" {
			continue
		}
		out[i] = prefix + line
	}
	return out
}
