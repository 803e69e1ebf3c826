package article

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	nethtml "golang.org/x/net/html"
)

// lineBuffer joins rendered blocks with a single blank line between them.
type lineBuffer struct {
	lines []string
}

func (b *lineBuffer) add(block []string) {
	if len(block) == 0 {
		return
	}
	if n := len(b.lines); n > 0 && b.lines[n-1] != "" {
		b.lines = append(b.lines, "")
	}
	b.lines = append(b.lines, block...)
}

func (b *lineBuffer) result() []string {
	return trimBlankLines(b.lines)
}

// renderNodes lays out a run of siblings. Consecutive text and inline
// elements are gathered into one wrapped paragraph.
func (r renderer) renderNodes(nodes []*nethtml.Node, depth int) []string {
	var buf lineBuffer
	inline := make([]string, 0, 4)
	flush := func() {
		if text := normalizeInlineText(strings.Join(inline, " ")); text != "" {
			buf.add(wrapText(text, r.width))
		}
		inline = inline[:0]
	}

	for _, node := range nodes {
		switch {
		case node.Type == nethtml.TextNode:
			inline = append(inline, node.Data)
		case node.Type != nethtml.ElementNode:
		case isBlockElement(node.Data):
			flush()
			buf.add(r.renderBlock(node, depth))
		default:
			inline = append(inline, r.renderInlineNode(node))
		}
	}
	flush()
	return buf.result()
}

func (r renderer) renderBlock(node *nethtml.Node, depth int) []string {
	tag := strings.ToLower(node.Data)
	switch tag {
	case "script", "style", "noscript":
		return nil
	case "h1", "h2", "h3", "h4", "h5", "h6":
		return r.renderHeading(node, int(tag[1]-'0'))
	case "blockquote":
		return r.renderQuote(node, depth)
	case "ul", "ol":
		return r.renderList(node, tag == "ol", depth+1)
	case "li":
		return r.renderListItem(node, depth, "- ")
	case "dl":
		return r.renderDefinitions(node, depth)
	case "table":
		return r.renderTable(node)
	case "figure":
		return r.renderNodes(elementChildren(node), depth)
	case "figcaption", "caption":
		return styleNonBlankLines(wrapPrefixedText(r.inlineText(node), r.width, "~ ", "  "), styles.caption)
	case "img":
		if r.opts.ImageMode == ImageModeNone {
			return nil
		}
		return r.renderImageLabel(node)
	case "pre":
		return renderPreformatted(node)
	case "hr":
		return []string{styles.rule.Render(strings.Repeat("─", min(max(r.width, 3), 24)))}
	}

	if isContainer(tag) && hasBlockChild(node) {
		return r.renderNodes(elementChildren(node), depth)
	}
	if text := r.inlineText(node); text != "" {
		return r.themeLines(node, wrapText(text, r.width))
	}
	return r.renderNodes(elementChildren(node), depth)
}

func (r renderer) inlineText(node *nethtml.Node) string {
	return normalizeInlineText(r.renderInlineChildren(node))
}

// themeLines paints text of data-theme elements with the body style.
func (r renderer) themeLines(node *nethtml.Node, lines []string) []string {
	if !r.opts.ThemeText || !themed(node) {
		return lines
	}
	return styleNonBlankLines(lines, styles.body)
}

func (r renderer) renderHeading(node *nethtml.Node, level int) []string {
	prefix := headingPrefix(level)
	indent := strings.Repeat(" ", visibleLen(prefix))
	return styleNonBlankLines(wrapPrefixedText(r.inlineText(node), r.width, prefix, indent), styles.heading)
}

func (r renderer) renderQuote(node *nethtml.Node, depth int) []string {
	inner := r.renderNodes(elementChildren(node), depth)
	if len(inner) == 0 {
		text := r.inlineText(node)
		if text == "" {
			return nil
		}
		inner = wrapText(text, r.width-2)
	}
	bar := styles.quoteBar.Render("│ ")
	out := make([]string, len(inner))
	for i, line := range inner {
		if strings.TrimSpace(line) != "" {
			out[i] = bar + styles.quote.Render(line)
		}
	}
	return out
}

func renderPreformatted(node *nethtml.Node) []string {
	text := strings.ReplaceAll(collectRawText(node), "\r\n", "\n")
	raw := strings.Split(text, "\n")
	out := make([]string, len(raw))
	for i, line := range raw {
		if line = strings.TrimRight(line, " \t"); line != "" {
			out[i] = "    " + styles.code.Render(line)
		}
	}
	return trimBlankLines(out)
}

func (r renderer) renderList(node *nethtml.Node, ordered bool, depth int) []string {
	var buf lineBuffer
	n := 0
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if child.Type != nethtml.ElementNode || !strings.EqualFold(child.Data, "li") {
			continue
		}
		n++
		buf.add(r.renderListItem(child, depth, listMarker(ordered, depth, n)))
	}
	return buf.result()
}

// renderListItem wraps the item text behind marker and renders nested lists
// one level deeper below it.
func (r renderer) renderListItem(node *nethtml.Node, depth int, marker string) []string {
	indent := strings.Repeat("  ", max(0, depth-1))
	inline := make([]string, 0, 4)
	var nested []*nethtml.Node
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if isList(child) {
			nested = append(nested, child)
			continue
		}
		inline = append(inline, r.renderInlineNode(child))
	}

	var buf lineBuffer
	if text := normalizeInlineText(strings.Join(inline, " ")); text != "" {
		hanging := indent + strings.Repeat(" ", visibleLen(marker))
		buf.add(wrapPrefixedText(text, r.width, indent+marker, hanging))
	}
	for _, list := range nested {
		buf.add(r.renderList(list, strings.EqualFold(list.Data, "ol"), depth+1))
	}
	return buf.result()
}

func (r renderer) renderDefinitions(node *nethtml.Node, depth int) []string {
	indent := strings.Repeat("  ", max(0, depth-1))
	lines := make([]string, 0, 8)
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if child.Type != nethtml.ElementNode {
			continue
		}
		var first string
		switch strings.ToLower(child.Data) {
		case "dt":
			first = indent + "• "
		case "dd":
			first = indent + "  "
		default:
			continue
		}
		lines = append(lines, wrapPrefixedText(r.inlineText(child), r.width, first, indent+"  ")...)
	}
	return trimBlankLines(lines)
}

func listMarker(ordered bool, depth, n int) string {
	if ordered {
		return strconv.Itoa(n) + ". "
	}
	switch depth {
	case 1:
		return "• "
	case 2:
		return "◦ "
	case 3:
		return "▪ "
	default:
		return "▫ "
	}
}

// wrapPrefixedText wraps text so that the first line starts with first and
// the following ones with rest, both counted toward width.
func wrapPrefixedText(text string, width int, first, rest string) []string {
	text = normalizeInlineText(text)
	if text == "" {
		return nil
	}
	if width < 1 {
		return []string{first + text}
	}

	out := make([]string, 0, 4)
	prefix := first
	for _, paragraph := range strings.Split(text, "\n") {
		paragraph = normalizeInlineText(paragraph)
		if paragraph == "" {
			if n := len(out); n > 0 && out[n-1] != "" {
				out = append(out, "")
			}
			continue
		}
		for _, line := range wrapText(paragraph, max(1, width-visibleLen(prefix))) {
			out = append(out, prefix+line)
			prefix = rest
		}
	}
	return trimBlankLines(out)
}

func headingPrefix(level int) string {
	level = min(max(level, 1), len(styles.headingBars))
	return styles.headingBars[level-1].Render("▌") + strings.Repeat(" ", max(1, level-1))
}

func styleNonBlankLines(lines []string, style lipgloss.Style) []string {
	if len(lines) == 0 {
		return nil
	}
	out := make([]string, len(lines))
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			out[i] = line
			continue
		}
		out[i] = style.Render(line)
	}
	return out
}

func isList(node *nethtml.Node) bool {
	if node.Type != nethtml.ElementNode {
		return false
	}
	tag := strings.ToLower(node.Data)
	return tag == "ul" || tag == "ol"
}

func isContainer(tag string) bool {
	switch tag {
	case "p", "div", "section", "article", "main", "header", "footer", "aside", "nav":
		return true
	default:
		return false
	}
}

func isBlockElement(tag string) bool {
	switch strings.ToLower(tag) {
	case "h1", "h2", "h3", "h4", "h5", "h6",
		"p", "div", "section", "article", "main", "header", "footer", "aside", "nav",
		"blockquote", "ul", "ol", "li", "table", "thead", "tbody", "tfoot", "tr", "td", "th", "img",
		"dl", "dt", "dd", "pre", "figure", "figcaption", "caption", "hr":
		return true
	default:
		return false
	}
}

func hasBlockChild(node *nethtml.Node) bool {
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == nethtml.ElementNode && isBlockElement(child.Data) {
			return true
		}
	}
	return false
}
