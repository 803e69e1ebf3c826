// Package article turns sanitized feed item HTML into terminal lines.
package article

import (
	"html"
	"strings"

	"github.com/charmbracelet/x/ansi"
	nethtml "golang.org/x/net/html"
)

type ImageMode int

const (
	ImageModeLabel ImageMode = iota
	ImageModeNone
)

type Options struct {
	// ThemeText paints elements tagged data-theme with the body text style.
	ThemeText bool
	ImageMode ImageMode
}

var DefaultOptions = Options{
	ThemeText: true,
	ImageMode: ImageModeLabel,
}

func withDefaults(opts Options) Options {
	out := opts
	if out.ImageMode != ImageModeLabel && out.ImageMode != ImageModeNone {
		out.ImageMode = DefaultOptions.ImageMode
	}
	return out
}

type renderer struct {
	width int
	opts  Options
}

// Lines renders body at width with DefaultOptions.
func Lines(body string, width int) []string {
	return LinesWithOptions(body, width, DefaultOptions)
}

func LinesWithOptions(body string, width int, opts Options) []string {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil
	}
	if lines := renderFragment(body, width, withDefaults(opts)); len(lines) > 0 {
		return lines
	}
	text := strings.TrimSpace(html.UnescapeString(body))
	if text == "" || strings.HasPrefix(text, "<") {
		return nil
	}
	return wrapText(text, width)
}

// PlainText renders body without styling, for clipboard use and logs.
func PlainText(body string) string {
	return ansi.Strip(strings.Join(Lines(body, 80), "\n"))
}

func renderFragment(raw string, width int, opts Options) []string {
	doc, err := nethtml.Parse(strings.NewReader("<html><body>" + raw + "</body></html>"))
	if err != nil {
		return wrapText(strings.TrimSpace(html.UnescapeString(raw)), width)
	}
	body := findBodyNode(doc)
	if body == nil {
		return wrapText(strings.TrimSpace(html.UnescapeString(raw)), width)
	}
	r := renderer{width: max(1, width), opts: opts}
	return trimBlankLines(r.renderNodes(elementChildren(body), 0))
}

func trimBlankLines(lines []string) []string {
	if len(lines) == 0 {
		return lines
	}
	start := 0
	for start < len(lines) && isBlank(lines[start]) {
		start++
	}
	end := len(lines) - 1
	for end >= start && isBlank(lines[end]) {
		end--
	}
	if end < start {
		return nil
	}
	out := make([]string, 0, end-start+1)
	prevBlank := false
	for i := start; i <= end; i++ {
		blank := isBlank(lines[i])
		if blank && prevBlank {
			continue
		}
		out = append(out, lines[i])
		prevBlank = blank
	}
	return out
}

func isBlank(line string) bool {
	return strings.TrimSpace(ansi.Strip(line)) == ""
}

// wrapText breaks text on word boundaries so no line is wider than width
// cells. Escape sequences do not count toward the width.
func wrapText(text string, width int) []string {
	if width < 1 {
		return []string{text}
	}
	paragraphs := strings.Split(text, "\n")
	out := make([]string, 0, len(paragraphs))

	for _, p := range paragraphs {
		words := strings.Fields(p)
		if len(words) == 0 {
			out = append(out, "")
			continue
		}
		line := ""
		lineWidth := 0
		for _, word := range words {
			wordWidth := visibleLen(word)
			if wordWidth > width {
				if line != "" {
					out = append(out, line)
					line, lineWidth = "", 0
				}
				pieces := strings.Split(ansi.Hardwrap(word, width, false), "\n")
				out = append(out, pieces[:len(pieces)-1]...)
				word = pieces[len(pieces)-1]
				wordWidth = visibleLen(word)
			}

			switch {
			case line == "":
				line, lineWidth = word, wordWidth
			case lineWidth+1+wordWidth <= width:
				line += " " + word
				lineWidth += 1 + wordWidth
			default:
				out = append(out, line)
				line, lineWidth = word, wordWidth
			}
		}
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

func visibleLen(s string) int {
	return ansi.StringWidth(s)
}

func findBodyNode(node *nethtml.Node) *nethtml.Node {
	if node == nil {
		return nil
	}
	if node.Type == nethtml.ElementNode && strings.EqualFold(node.Data, "body") {
		return node
	}
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if found := findBodyNode(child); found != nil {
			return found
		}
	}
	return nil
}

func elementChildren(node *nethtml.Node) []*nethtml.Node {
	children := make([]*nethtml.Node, 0, 4)
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == nethtml.TextNode && strings.TrimSpace(child.Data) == "" {
			continue
		}
		children = append(children, child)
	}
	return children
}

func nodeAttr(node *nethtml.Node, name string) string {
	for _, attr := range node.Attr {
		if strings.EqualFold(attr.Key, name) {
			return strings.TrimSpace(attr.Val)
		}
	}
	return ""
}

func themed(node *nethtml.Node) bool {
	return nodeAttr(node, "data-theme") != ""
}

func collectRawText(node *nethtml.Node) string {
	if node == nil {
		return ""
	}
	if node.Type == nethtml.TextNode {
		return node.Data
	}
	var b strings.Builder
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		b.WriteString(collectRawText(child))
	}
	return b.String()
}
