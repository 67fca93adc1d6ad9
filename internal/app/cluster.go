package app

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"horse.fit/headline-dedup/internal/cli"
	"horse.fit/headline-dedup/internal/dedup"
	"horse.fit/headline-dedup/internal/langdetect"
	payloadschema "horse.fit/headline-dedup/schema"
)

func runCluster(args []string) int {
	return clusterCommand(args, os.Stdin, os.Stdout)
}

func clusterCommand(args []string, stdin io.Reader, stdout io.Writer) int {
	fs := flag.NewFlagSet("cluster", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	input := fs.String("input", "-", "Batch file, or - for stdin")
	format := fs.String("format", formatJSON, "Input format: json (v1 batch payload) or lines (one headline per line)")
	htmlDir := fs.String("html-dir", "", "Directory of saved HTML pages; one headline is extracted per page (overrides --input)")
	recursive := fs.Bool("recursive", false, "Recurse into subdirectories of --html-dir")
	keyed := fs.Bool("keyed", false, "Only compare items sharing the same key")
	detectLanguage := fs.Bool("detect-language", false, "Annotate clusters with the representative's language")
	pretty := fs.Bool("pretty", false, "Indent JSON output")
	var threshold optionalFloat
	fs.Var(&threshold, "threshold", "Similarity threshold (defaults to the batch value, then DEDUP_THRESHOLD)")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	cfg, logger, ok := bootstrap(envLoader, os.Stderr)
	if !ok {
		return 1
	}

	var (
		batch *payloadschema.Batch
		err   error
	)
	if dir := strings.TrimSpace(*htmlDir); dir != "" {
		batch, err = loadHTMLBatch(dir, *recursive)
	} else {
		var in io.ReadCloser
		in, err = openInput(*input, stdin)
		if err == nil {
			batch, err = loadBatch(in, *format)
			in.Close()
		}
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid input: %v\n", err)
		return 2
	}

	if err := dedup.CheckBounds(batch.Titles(), cfg.MaxBatchItems, cfg.MaxTitleBytes); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid input: %v\n", err)
		return 2
	}

	if threshold.set {
		value := threshold.value
		batch.Threshold = &value
	}
	if *keyed {
		batch.Keyed = true
	}

	var detector dedup.LanguageDetector
	if *detectLanguage {
		detector = langdetect.NewDetector(cfg.DetectLanguagesList())
	}

	svc := dedup.NewService(logger, detector)
	report := svc.Cluster(*batch, dedup.Options{
		Threshold:      cfg.Threshold,
		DetectLanguage: *detectLanguage,
	})

	if err := writeJSON(stdout, report, *pretty); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write report: %v\n", err)
		return 1
	}
	return 0
}
