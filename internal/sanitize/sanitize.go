// Package sanitize rewrites feed-supplied HTML fragments so they follow the
// terminal theme. It never drops elements or text and never runs scripts.
package sanitize

import (
	"strings"

	"github.com/aymerick/douceur/parser"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ThemeAttr marks elements whose text is painted with the theme colors.
const ThemeAttr = "data-theme"

var themedElements = map[string]struct{}{
	"p": {}, "div": {}, "span": {}, "a": {},
	"h1": {}, "h2": {}, "h3": {}, "h4": {}, "h5": {}, "h6": {},
	"li": {}, "dt": {}, "dd": {}, "td": {}, "th": {},
	"blockquote": {}, "pre": {}, "code": {}, "kbd": {}, "samp": {},
	"em": {}, "strong": {}, "b": {}, "i": {}, "u": {}, "s": {},
	"small": {}, "mark": {}, "cite": {}, "q": {}, "abbr": {}, "time": {},
	"sub": {}, "sup": {}, "del": {}, "ins": {}, "font": {}, "label": {},
	"figcaption": {}, "caption": {},
	"section": {}, "article": {}, "header": {}, "footer": {}, "aside": {}, "main": {}, "nav": {},
}

// stripped lists the declarations that would fight the theme.
var stripped = []string{"color", "background-color"}

// Fragment removes color and background-color declarations from inline
// styles, drops style attributes left empty, and tags text-bearing elements
// with data-theme="auto". Elements already carrying data-theme keep it.
// Fragment(Fragment(x)) == Fragment(x).
func Fragment(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return raw
	}
	nodes, err := parseFragment(raw)
	if err != nil {
		return html.EscapeString(raw)
	}
	for _, n := range nodes {
		walkElements(n, func(el *html.Node) {
			cleanStyle(el)
			if _, ok := themedElements[strings.ToLower(el.Data)]; ok && !hasAttr(el, ThemeAttr) {
				el.Attr = append(el.Attr, html.Attribute{Key: ThemeAttr, Val: "auto"})
			}
		})
	}
	return renderNodes(nodes, raw)
}

func parseFragment(raw string) ([]*html.Node, error) {
	context := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	return html.ParseFragment(strings.NewReader(raw), context)
}

func renderNodes(nodes []*html.Node, fallback string) string {
	var b strings.Builder
	for _, n := range nodes {
		if err := html.Render(&b, n); err != nil {
			return html.EscapeString(fallback)
		}
	}
	return b.String()
}

func walkElements(n *html.Node, fn func(*html.Node)) {
	if n.Type == html.ElementNode {
		fn(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walkElements(c, fn)
	}
}

func cleanStyle(el *html.Node) {
	idx := attrIndex(el, "style")
	if idx < 0 {
		return
	}
	cleaned, changed := StripDeclarations(el.Attr[idx].Val, stripped...)
	if !changed {
		return
	}
	if cleaned == "" {
		el.Attr = append(el.Attr[:idx], el.Attr[idx+1:]...)
		return
	}
	el.Attr[idx].Val = cleaned
}

type declaration struct {
	property  string
	value     string
	important bool
}

// StripDeclarations removes the named properties from an inline style.
// When nothing matches the style is returned untouched and changed is false.
func StripDeclarations(style string, properties ...string) (cleaned string, changed bool) {
	decls := parseDeclarations(style)
	kept := make([]declaration, 0, len(decls))
	for _, d := range decls {
		if containsFold(properties, d.property) {
			changed = true
			continue
		}
		kept = append(kept, d)
	}
	if !changed {
		return style, false
	}
	return formatDeclarations(kept), true
}

func parseDeclarations(style string) []declaration {
	text := strings.TrimSpace(style)
	if text == "" {
		return nil
	}
	if !strings.HasSuffix(text, ";") {
		text += ";"
	}
	parsed, err := parser.ParseDeclarations(text)
	if err != nil {
		return splitDeclarations(style)
	}
	out := make([]declaration, 0, len(parsed))
	for _, d := range parsed {
		prop := strings.TrimSpace(d.Property)
		if prop == "" {
			continue
		}
		out = append(out, declaration{property: prop, value: strings.TrimSpace(d.Value), important: d.Important})
	}
	return out
}

// splitDeclarations handles styles douceur rejects.
func splitDeclarations(style string) []declaration {
	out := make([]declaration, 0, 4)
	for _, part := range strings.Split(style, ";") {
		prop, value, ok := strings.Cut(part, ":")
		if !ok || strings.TrimSpace(prop) == "" {
			continue
		}
		value = strings.TrimSpace(value)
		important := false
		if lower := strings.ToLower(value); strings.HasSuffix(lower, "!important") {
			important = true
			value = strings.TrimSpace(value[:len(value)-len("!important")])
		}
		out = append(out, declaration{property: strings.TrimSpace(prop), value: value, important: important})
	}
	return out
}

func formatDeclarations(decls []declaration) string {
	parts := make([]string, 0, len(decls))
	for _, d := range decls {
		part := d.property + ":" + d.value
		if d.important {
			part += " !important"
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, ";")
}

func attrIndex(n *html.Node, key string) int {
	for i, attr := range n.Attr {
		if attr.Namespace == "" && strings.EqualFold(attr.Key, key) {
			return i
		}
	}
	return -1
}

func hasAttr(n *html.Node, key string) bool {
	return attrIndex(n, key) >= 0
}

func containsFold(list []string, s string) bool {
	for _, item := range list {
		if strings.EqualFold(item, s) {
			return true
		}
	}
	return false
}
