package reader

import (
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"

	readability "codeberg.org/readeck/go-readability/v2"
)

// DefaultMaxTitleChars bounds extracted titles so a page without a real
// headline cannot feed a whole article body into the scorer.
const DefaultMaxTitleChars = 300

// TitleFromHTML extracts the article headline from an HTML document.
// pageURL resolves relative references and may be nil.
func TitleFromHTML(r io.Reader, pageURL *url.URL) (string, error) {
	if r == nil {
		return "", fmt.Errorf("reader is nil")
	}

	article, err := readability.FromReader(r, pageURL)
	if err != nil {
		return "", fmt.Errorf("readability parse: %w", err)
	}

	title := CleanTitle(article.Title())
	if title == "" {
		title = CleanTitle(article.Excerpt())
	}
	if title == "" {
		return "", fmt.Errorf("reader extracted empty title")
	}

	clipped, _ := ClipTitle(title, DefaultMaxTitleChars)
	return clipped, nil
}

// TitleFromFile extracts the headline from a saved HTML page on disk.
func TitleFromFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	pageURL := &url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}

	title, err := TitleFromHTML(f, pageURL)
	if err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}
	return title, nil
}
