package sanitize

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// LinkAttr asks the renderer to paint an anchor with the theme link color.
const LinkAttr = "data-link"

var fluidImage = []declaration{
	{property: "max-width", value: "100%"},
	{property: "height", value: "auto"},
}

// Normalize is the post-render pass over an already sanitized fragment:
// images lose fixed width/height and become fluid, anchors are tagged for
// the theme link color. It is safe to run more than once.
func Normalize(fragment string) (string, error) {
	if strings.TrimSpace(fragment) == "" {
		return fragment, nil
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return "", fmt.Errorf("parse fragment: %w", err)
	}
	body := doc.Find("body")

	body.Find("img").Each(func(_ int, img *goquery.Selection) {
		img.RemoveAttr("width")
		img.RemoveAttr("height")
		style, _ := img.Attr("style")
		img.SetAttr("style", mergeDeclarations(style, fluidImage))
	})
	body.Find("a").Each(func(_ int, a *goquery.Selection) {
		a.SetAttr(LinkAttr, "themed")
	})

	out, err := body.Html()
	if err != nil {
		return "", fmt.Errorf("render fragment: %w", err)
	}
	return out, nil
}

// mergeDeclarations overrides or appends each of add in style.
func mergeDeclarations(style string, add []declaration) string {
	decls := parseDeclarations(style)
	for _, d := range add {
		replaced := false
		for i := range decls {
			if strings.EqualFold(decls[i].property, d.property) {
				decls[i] = d
				replaced = true
			}
		}
		if !replaced {
			decls = append(decls, d)
		}
	}
	return formatDeclarations(decls)
}
