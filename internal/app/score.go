package app

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"horse.fit/headline-dedup/internal/fuzzy"
)

func runNormalize(args []string) int {
	return normalizeCommand(args, os.Stdin, os.Stdout)
}

func normalizeCommand(args []string, stdin io.Reader, stdout io.Writer) int {
	fs := flag.NewFlagSet("normalize", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	text := fs.String("text", "", "Headline to normalize (reads stdin lines when omitted)")
	input := fs.String("input", "-", "File with one headline per line, or - for stdin")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if isFlagSet(fs, "text") {
		fmt.Fprintln(stdout, fuzzy.NormalizeText(*text))
		return 0
	}

	in, err := openInput(*input, stdin)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open input: %v\n", err)
		return 1
	}
	defer in.Close()

	lines, err := readLines(in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read input: %v\n", err)
		return 1
	}
	for _, line := range lines {
		fmt.Fprintln(stdout, fuzzy.NormalizeText(line))
	}
	return 0
}

func runSimilarity(args []string) int {
	return similarityCommand(args, os.Stdout)
}

func similarityCommand(args []string, stdout io.Writer) int {
	fs := flag.NewFlagSet("similarity", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	a := fs.String("a", "", "First headline")
	b := fs.String("b", "", "Second headline")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if !isFlagSet(fs, "a") || !isFlagSet(fs, "b") {
		fmt.Fprintln(os.Stderr, "--a and --b are required (empty strings are allowed)")
		return 2
	}

	fmt.Fprintf(stdout, "%.6f\n", fuzzy.SimilarityRatio(*a, *b))
	return 0
}

func isFlagSet(fs *flag.FlagSet, name string) bool {
	found := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}
