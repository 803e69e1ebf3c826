package article

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	nethtml "golang.org/x/net/html"
)

func (r renderer) renderTable(tableNode *nethtml.Node) []string {
	rows := tableRows(tableNode)
	if len(rows) == 0 {
		return nil
	}
	columns := 0
	for _, row := range rows {
		columns = max(columns, len(row))
	}
	for i := range rows {
		for len(rows[i]) < columns {
			rows[i] = append(rows[i], "")
		}
	}

	header := hasHeaderCell(tableNode)
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(styles.tableBorder).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return styles.tableHeader.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
	if header {
		t = t.Headers(rows[0]...).Rows(rows[1:]...)
	} else {
		t = t.Rows(rows...)
	}

	rendered := t.String()
	if lipgloss.Width(rendered) > r.width {
		rendered = t.Width(r.width).String()
	}
	return trimBlankLines(strings.Split(rendered, "\n"))
}

func tableRows(tableNode *nethtml.Node) [][]string {
	rows := make([][]string, 0, 8)
	cellRenderer := renderer{width: 1000}
	var walk func(*nethtml.Node)
	walk = func(node *nethtml.Node) {
		if node == nil {
			return
		}
		if node.Type == nethtml.ElementNode && strings.ToLower(node.Data) == "tr" {
			row := make([]string, 0, 4)
			for c := node.FirstChild; c != nil; c = c.NextSibling {
				if c.Type != nethtml.ElementNode {
					continue
				}
				tag := strings.ToLower(c.Data)
				if tag != "th" && tag != "td" {
					continue
				}
				row = append(row, normalizeInlineText(cellRenderer.renderInlineChildren(c)))
			}
			if len(row) > 0 {
				rows = append(rows, row)
			}
			return
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(tableNode)
	return rows
}

func hasHeaderCell(node *nethtml.Node) bool {
	if node == nil {
		return false
	}
	if node.Type == nethtml.ElementNode && strings.ToLower(node.Data) == "th" {
		return true
	}
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if hasHeaderCell(child) {
			return true
		}
	}
	return false
}
