package app

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"horse.fit/headline-dedup/internal/cli"
	"horse.fit/headline-dedup/internal/dedup"
)

func runMatch(args []string) int {
	return matchCommand(args, os.Stdin, os.Stdout)
}

func matchCommand(args []string, stdin io.Reader, stdout io.Writer) int {
	fs := flag.NewFlagSet("match", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	title := fs.String("title", "", "Headline to classify")
	previousFile := fs.String("previous-file", "-", "File with previously seen headlines, one per line, or - for stdin")
	var threshold optionalFloat
	fs.Var(&threshold, "threshold", "Update threshold (defaults to DEDUP_UPDATE_THRESHOLD)")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if !isFlagSet(fs, "title") {
		fmt.Fprintln(os.Stderr, "--title is required")
		return 2
	}

	cfg, logger, ok := bootstrap(envLoader, os.Stderr)
	if !ok {
		return 1
	}

	in, err := openInput(*previousFile, stdin)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid input: %v\n", err)
		return 2
	}
	previous, err := readLines(in)
	in.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid input: %v\n", err)
		return 2
	}

	if err := dedup.CheckBounds(append([]string{*title}, previous...), cfg.MaxBatchItems, cfg.MaxTitleBytes); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid input: %v\n", err)
		return 2
	}

	svc := dedup.NewService(logger, nil)
	result := svc.Match(*title, previous, threshold.or(cfg.UpdateThreshold))

	if err := writeJSON(stdout, result, false); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write result: %v\n", err)
		return 1
	}
	return 0
}
