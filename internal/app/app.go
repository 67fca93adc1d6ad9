package app

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"horse.fit/headline-dedup/internal/cli"
	"horse.fit/headline-dedup/internal/config"
	"horse.fit/headline-dedup/internal/logging"
)

// Run executes the CLI command and returns a process exit code.
func Run(args []string) int {
	if len(args) == 0 {
		printUsage()
		return 2
	}

	switch strings.ToLower(strings.TrimSpace(args[0])) {
	case "help", "--help", "-h":
		printUsage()
		return 0
	case "normalize":
		return runNormalize(args[1:])
	case "similarity":
		return runSimilarity(args[1:])
	case "cluster":
		return runCluster(args[1:])
	case "match":
		return runMatch(args[1:])
	case "validate":
		return runValidate(args[1:])
	case "serve":
		return runServe(args[1:])
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", args[0])
		printUsage()
		return 2
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "headline-dedup CLI")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  headline-dedup <command> [flags]")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  normalize   Print the comparison form of headlines")
	fmt.Fprintln(os.Stderr, "  similarity  Score two headlines (0.0-1.0)")
	fmt.Fprintln(os.Stderr, "  cluster     Group a headline batch into near-duplicate clusters")
	fmt.Fprintln(os.Stderr, "  match       Classify a headline as new or an update of previous ones")
	fmt.Fprintln(os.Stderr, "  validate    Validate batch JSON files against the v1 schema")
	fmt.Fprintln(os.Stderr, "  serve       Start Echo API server")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Use \"headline-dedup <command> -h\" for command-specific flags.")
}

// bootstrap loads the .env file, configuration and logger shared by the
// subcommands. Logs go to logOut so commands that print results on stdout
// can keep it clean.
func bootstrap(envLoader *cli.EnvLoader, logOut io.Writer) (*config.Config, zerolog.Logger, bool) {
	if envLoader != nil {
		if _, err := envLoader.Load(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return nil, zerolog.Nop(), false
	}

	logger, err := logging.NewWithWriter(logOut, cfg.Environment, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		return nil, zerolog.Nop(), false
	}

	return cfg, logger, true
}
