package article

import (
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

var updateArticleGolden = flag.Bool("update-article-golden", false, "update article golden files")

func TestLines_GoldenSimpleItem(t *testing.T) {
	body := `<h1>Title</h1><p>Hello world.</p><ul><li>One</li><li>Two</li></ul>`
	assertGolden(t, "simple_item.golden", plainLines(Lines(body, 40)))
}

func assertGolden(t *testing.T, name, got string) {
	t.Helper()
	path := filepath.Join("testdata", name)
	if *updateArticleGolden {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("create golden dir: %v", err)
		}
		if err := os.WriteFile(path, []byte(got+"\n"), 0o644); err != nil {
			t.Fatalf("write golden: %v", err)
		}
	}

	wantBytes, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	want := strings.TrimRight(string(wantBytes), "\n")
	got = strings.TrimRight(got, "\n")
	if got != want {
		t.Fatalf("golden mismatch for %s\n--- got ---\n%s\n--- want ---\n%s", name, got, want)
	}
}
