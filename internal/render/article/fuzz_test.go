package article

import (
	"testing"

	"github.com/glabrego/feedsync/internal/sanitize"
)

func FuzzLines(f *testing.F) {
	seeds := []string{
		"",
		"<p>Hello world</p>",
		"<article><h1>Title</h1><p>Paragraph</p></article>",
		"<div><img src='https://example.com/image.jpg' alt='Image' width='10' height='10'></div>",
		"<table><tr><th>a</th><th>b</th></tr><tr><td>1</td></tr></table>",
		"<blockquote><p>Quote</p><cite>Author</cite></blockquote>",
		"<<<<<<<<",
		"\x00\x01\x02<script>alert(1)</script>",
		`<p style="color:red;;;background-color">x</p>`,
	}
	for _, s := range seeds {
		f.Add(s)
	}

	f.Fuzz(func(t *testing.T, raw string) {
		if len(raw) > 10_000 {
			raw = raw[:10_000]
		}
		clean := sanitize.Fragment(raw)
		if again := sanitize.Fragment(clean); again != clean {
			t.Fatalf("sanitize not idempotent for %q", raw)
		}
		for _, width := range []int{1, 20, 72} {
			_ = Lines(clean, width)
			_ = LinesWithOptions(clean, width, Options{ImageMode: ImageModeNone})
		}
		if normalized, err := sanitize.Normalize(clean); err == nil {
			_ = Lines(normalized, 40)
		}
	})
}
