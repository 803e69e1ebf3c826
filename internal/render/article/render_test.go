package article

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"

	"github.com/glabrego/feedsync/internal/sanitize"
)

func plainLines(lines []string) string {
	return ansi.Strip(strings.Join(lines, "\n"))
}

func TestLines_EmptyBody(t *testing.T) {
	if got := Lines("   ", 40); got != nil {
		t.Fatalf("expected nil lines, got %#v", got)
	}
}

func TestLines_PlainTextBody(t *testing.T) {
	got := plainLines(Lines("Just a plain summary &amp; nothing else", 80))
	if got != "Just a plain summary & nothing else" {
		t.Fatalf("unexpected plain rendering: %q", got)
	}
}

func TestLines_RendersCommonElements(t *testing.T) {
	body := `<article>
		<h1>Main Title</h1>
		<h2>Subtitle</h2>
		<p>Intro with a <a href="https://example.com/link">reference</a>.</p>
		<ul><li>First point</li><li>Second point</li></ul>
		<ol><li>Step one</li><li>Step two</li></ol>
		<blockquote><p>Quoted claim</p></blockquote>
		<table>
			<tr><th>Metric</th><th>Value</th></tr>
			<tr><td>Speed</td><td>Fast</td></tr>
		</table>
		<pre>go test ./...</pre>
	</article>`

	got := plainLines(Lines(body, 80))
	for _, want := range []string{
		"▌ Main Title",
		"▌ Subtitle",
		"reference (https://example.com/link)",
		"• First point",
		"1. Step one",
		"│ Quoted claim",
		"Metric",
		"Speed",
		"    go test ./...",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("expected %q in rendered output, got %q", want, got)
		}
	}
}

func TestLines_ImageLabelFollowsContentOrder(t *testing.T) {
	body := `<p>First paragraph.</p><p><img src="https://example.com/one.jpg" alt="Figure one" width="600" height="400"></p><p>Second paragraph.</p>`

	got := plainLines(Lines(body, 80))
	first := strings.Index(got, "First paragraph.")
	image := strings.Index(got, "Image 600x400 Figure one")
	second := strings.Index(got, "Second paragraph.")
	if first == -1 || image == -1 || second == -1 || !(first < image && image < second) {
		t.Fatalf("expected image label between paragraphs, got %q", got)
	}
	if strings.Contains(got, "one.jpg") {
		t.Fatalf("expected raw image URL hidden, got %q", got)
	}

	normalized, err := sanitize.Normalize(body)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if got := plainLines(Lines(normalized, 80)); strings.Contains(got, "600x400") {
		t.Fatalf("expected fluid image without dimensions, got %q", got)
	}
}

func TestLines_ImageModeNone(t *testing.T) {
	got := plainLines(LinesWithOptions(`<p>a</p><img alt="pic">`, 40, Options{ImageMode: ImageModeNone}))
	if strings.Contains(got, "Image") {
		t.Fatalf("expected no image label, got %q", got)
	}
}

func TestLines_WrapsToWidth(t *testing.T) {
	body := `<p>` + strings.Repeat("word ", 40) + `averyveryverylongtokenthatcannotfit</p>`
	for _, line := range Lines(body, 20) {
		if w := visibleLen(line); w > 20 {
			t.Fatalf("line wider than 20 cells (%d): %q", w, line)
		}
	}
}

func TestLines_ThemedTextAndLinksAreStyled(t *testing.T) {
	lipgloss.SetColorProfile(termenv.ANSI256)
	t.Cleanup(func() { lipgloss.SetColorProfile(termenv.Ascii) })

	body, err := sanitize.Normalize(sanitize.Fragment(`<p style="color:red">Read <a href="https://example.com">this</a></p>`))
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}

	lines := Lines(body, 80)
	joined := strings.Join(lines, "\n")
	if !strings.Contains(joined, "\x1b[") {
		t.Fatalf("expected styled output, got %q", joined)
	}
	if got := ansi.Strip(joined); got != "Read this (https://example.com)" {
		t.Fatalf("unexpected text: %q", got)
	}

	unthemed := strings.Join(LinesWithOptions(`<p>Read <a href="https://example.com">this</a></p>`, 80, Options{}), "\n")
	if strings.Contains(unthemed, "\x1b[") {
		t.Fatalf("expected untagged content to stay unstyled, got %q", unthemed)
	}
}

func TestPlainText_ScriptsDropped(t *testing.T) {
	got := PlainText(`<p>Visible</p><script>alert(1)</script>`)
	if got != "Visible" {
		t.Fatalf("unexpected text: %q", got)
	}
}

func TestLines_NestedListsAndDefinitions(t *testing.T) {
	body := `<ul><li>Parent<ul><li>Child</li></ul></li></ul><dl><dt>Term</dt><dd>Meaning</dd></dl>`

	got := plainLines(Lines(body, 40))
	want := "• Parent\n\n  ◦ Child\n\n• Term\n  Meaning"
	if got != want {
		t.Fatalf("unexpected layout:\n%s\nwant:\n%s", got, want)
	}
}

func TestWrapPrefixedText_HangingIndent(t *testing.T) {
	got := wrapPrefixedText("alpha beta gamma delta", 12, "1. ", "   ")
	want := []string{"1. alpha", "   beta", "   gamma", "   delta"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("unexpected wrap: %q", got)
	}
}
