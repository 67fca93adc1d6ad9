package reader

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const samplePage = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>Cyclone Gezani strikes Madagascar coast</title>
  <meta property="og:title" content="Cyclone Gezani strikes Madagascar coast">
</head>
<body>
  <nav><a href="/">Home</a> <a href="/world">World</a></nav>
  <article>
    <h1>Cyclone Gezani strikes Madagascar coast</h1>
    <p>Cyclone Gezani made landfall near Toamasina on Tuesday, bringing sustained winds
    and heavy rainfall to the eastern coast of Madagascar. Authorities reported flooding
    in several districts and opened evacuation centres for displaced families.</p>
    <p>Humanitarian partners are assessing needs in the most affected communes, where
    access roads remain cut off and power outages have been reported across the region.</p>
    <p>The national meteorological office said the storm is expected to weaken as it moves
    inland over the highlands during the next twenty-four hours.</p>
  </article>
</body>
</html>`

func TestTitleFromFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "gezani.html")
	if err := os.WriteFile(path, []byte(samplePage), 0o644); err != nil {
		t.Fatalf("write page: %v", err)
	}

	title, err := TitleFromFile(path)
	if err != nil {
		t.Fatalf("TitleFromFile failed: %v", err)
	}
	if !strings.Contains(title, "Cyclone Gezani") {
		t.Fatalf("unexpected title: %q", title)
	}
	if strings.Contains(title, "\n") {
		t.Fatalf("expected single-line title, got %q", title)
	}
}

func TestTitleFromFileMissing(t *testing.T) {
	t.Parallel()

	if _, err := TitleFromFile(filepath.Join(t.TempDir(), "missing.html")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestTitleFromHTMLNilReader(t *testing.T) {
	t.Parallel()

	if _, err := TitleFromHTML(nil, nil); err == nil {
		t.Fatalf("expected error for nil reader")
	}
}

func TestCleanTitleFlattensWhitespace(t *testing.T) {
	t.Parallel()

	got := CleanTitle("  Cyclone\n\tGezani \x00strikes\r\n  Madagascar ")
	if got != "Cyclone Gezani strikes Madagascar" {
		t.Fatalf("CleanTitle mismatch: %q", got)
	}
	if got := CleanTitle(" \n\t "); got != "" {
		t.Fatalf("expected empty title, got %q", got)
	}
}

func TestClipTitle(t *testing.T) {
	t.Parallel()

	got, clipped := ClipTitle("Cyclone Gezani strikes Madagascar coast", 20)
	if !clipped || got != "Cyclone Gezani…" {
		t.Fatalf("unexpected word-boundary clip: %q clipped=%t", got, clipped)
	}

	got, clipped = ClipTitle("abcdefghijklmnopqrstuvwxyz", 10)
	if !clipped || got != "abcdefghi…" {
		t.Fatalf("unexpected clip without spaces: %q clipped=%t", got, clipped)
	}

	full, wasClipped := ClipTitle("short", 10)
	if wasClipped || full != "short" {
		t.Fatalf("unexpected short title: %q clipped=%t", full, wasClipped)
	}

	if got, _ := ClipTitle("abc", 1); got != "…" {
		t.Fatalf("unexpected single-char clip: %q", got)
	}
	if got, clipped := ClipTitle("abc", 0); clipped || got != "abc" {
		t.Fatalf("expected no clipping when disabled, got %q", got)
	}
}
