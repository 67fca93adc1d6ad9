package app

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"horse.fit/headline-dedup/internal/reader"
	payloadschema "horse.fit/headline-dedup/schema"
)

const (
	formatJSON  = "json"
	formatLines = "lines"

	maxLineBytes = 1024 * 1024
)

// openInput opens path for reading; "-" or "" selects stdin.
func openInput(path string, stdin io.Reader) (io.ReadCloser, error) {
	clean := strings.TrimSpace(path)
	if clean == "" || clean == "-" {
		return io.NopCloser(stdin), nil
	}
	f, err := os.Open(clean)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", clean, err)
	}
	return f, nil
}

// readLines returns every line of r without line terminators. Blank lines
// are kept so positions line up with line numbers.
func readLines(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	lines := make([]string, 0)
	for scanner.Scan() {
		lines = append(lines, strings.TrimSuffix(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read lines: %w", err)
	}
	return lines, nil
}

// loadBatch reads a headline batch from r in the given format.
func loadBatch(r io.Reader, format string) (*payloadschema.Batch, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case formatJSON:
		raw, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("read batch: %w", err)
		}
		return payloadschema.ValidateBatchPayload(json.RawMessage(raw))
	case formatLines:
		lines, err := readLines(r)
		if err != nil {
			return nil, err
		}
		return batchFromTitles(lines), nil
	default:
		return nil, fmt.Errorf("unsupported format %q (want %s or %s)", format, formatJSON, formatLines)
	}
}

// loadHTMLBatch extracts one headline per saved HTML page under dir.
func loadHTMLBatch(dir string, recursive bool) (*payloadschema.Batch, error) {
	files, err := collectFiles(dir, recursive, ".html", ".htm")
	if err != nil {
		return nil, err
	}

	batch := batchFromTitles(nil)
	for _, path := range files {
		title, err := reader.TitleFromFile(path)
		if err != nil {
			return nil, fmt.Errorf("extract title: %w", err)
		}
		source := filepath.Base(path)
		batch.Items = append(batch.Items, payloadschema.BatchItem{
			Title:  title,
			Source: &source,
		})
	}
	return batch, nil
}

func batchFromTitles(titles []string) *payloadschema.Batch {
	items := make([]payloadschema.BatchItem, len(titles))
	for i, title := range titles {
		items[i] = payloadschema.BatchItem{Title: title}
	}
	return &payloadschema.Batch{
		PayloadVersion: payloadschema.PayloadVersion,
		Items:          items,
	}
}

// collectFiles lists files under root whose extension matches one of exts,
// skipping dot-files and dot-directories. Results are sorted.
func collectFiles(root string, recursive bool, exts ...string) ([]string, error) {
	cleanRoot := strings.TrimSpace(root)
	if cleanRoot == "" {
		return nil, fmt.Errorf("directory path is empty")
	}

	info, err := os.Stat(cleanRoot)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", cleanRoot, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", cleanRoot)
	}

	matches := func(name string) bool {
		if strings.HasPrefix(name, ".") {
			return false
		}
		ext := filepath.Ext(name)
		for _, want := range exts {
			if strings.EqualFold(ext, want) {
				return true
			}
		}
		return false
	}

	var files []string
	if !recursive {
		entries, err := os.ReadDir(cleanRoot)
		if err != nil {
			return nil, fmt.Errorf("read directory %s: %w", cleanRoot, err)
		}
		for _, entry := range entries {
			if !entry.IsDir() && matches(entry.Name()) {
				files = append(files, filepath.Join(cleanRoot, entry.Name()))
			}
		}
		sort.Strings(files)
		return files, nil
	}

	err = filepath.WalkDir(cleanRoot, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && path != cleanRoot {
				return filepath.SkipDir
			}
			return nil
		}
		if matches(d.Name()) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk directory %s: %w", cleanRoot, err)
	}

	sort.Strings(files)
	return files, nil
}

func writeJSON(w io.Writer, value any, pretty bool) error {
	encoder := json.NewEncoder(w)
	if pretty {
		encoder.SetIndent("", "  ")
	}
	if err := encoder.Encode(value); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}
