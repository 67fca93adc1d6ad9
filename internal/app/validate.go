package app

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"horse.fit/headline-dedup/internal/dedup"
	payloadschema "horse.fit/headline-dedup/schema"
)

type validateResult struct {
	Scanned int
	Valid   int
	Invalid int
}

func runValidate(args []string) int {
	fs := flag.NewFlagSet("validate", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	dir := fs.String("dir", "testdata/batches", "Directory containing .json batch files")
	recursive := fs.Bool("recursive", true, "Recursively scan subdirectories")
	maxItems := fs.Int("max-items", 0, "Reject batches with more items (0 disables the check)")
	maxTitleBytes := fs.Int("max-title-bytes", 0, "Reject titles longer than this many bytes (0 disables the check)")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	files, err := collectFiles(strings.TrimSpace(*dir), *recursive, ".json")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Validation setup failed: %v\n", err)
		return 1
	}

	result := validateResult{}
	for _, path := range files {
		result.Scanned++
		if err := validateBatchFile(path, *maxItems, *maxTitleBytes); err != nil {
			result.Invalid++
			fmt.Fprintf(os.Stderr, "INVALID %s: %v\n", path, err)
			continue
		}
		result.Valid++
	}

	fmt.Printf(
		"validate scanned=%d valid=%d invalid=%d dir=%s recursive=%t\n",
		result.Scanned,
		result.Valid,
		result.Invalid,
		strings.TrimSpace(*dir),
		*recursive,
	)

	if result.Scanned == 0 {
		fmt.Fprintf(os.Stderr, "Validation failed: no .json files found under %s\n", strings.TrimSpace(*dir))
		return 1
	}
	if result.Invalid > 0 {
		return 1
	}
	return 0
}

func validateBatchFile(path string, maxItems, maxTitleBytes int) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read failed: %w", err)
	}
	if !json.Valid(raw) {
		return errors.New("malformed JSON")
	}

	batch, err := payloadschema.ValidateBatchPayload(json.RawMessage(raw))
	if err != nil {
		return err
	}
	return dedup.CheckBounds(batch.Titles(), maxItems, maxTitleBytes)
}
