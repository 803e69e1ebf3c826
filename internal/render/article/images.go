package article

import (
	"strings"

	nethtml "golang.org/x/net/html"
)

// renderImageLabel stands in for an image. Images that still carry fixed
// dimensions (the post-render pass has not run yet) show them.
func (r renderer) renderImageLabel(imgNode *nethtml.Node) []string {
	if imgNode == nil {
		return nil
	}
	label := "◌◌◌ Image"
	w, h := nodeAttr(imgNode, "width"), nodeAttr(imgNode, "height")
	if w != "" && h != "" {
		label += " " + w + "x" + h
	}
	line := styles.imageLabel.Render(label)

	text := normalizeInlineText(nodeAttr(imgNode, "alt"))
	if text == "" {
		text = normalizeInlineText(nodeAttr(imgNode, "title"))
	}
	if text != "" {
		line += " " + styles.imageAlt.Render(strings.TrimSpace(text))
	}
	return wrapText(line, max(1, r.width))
}
