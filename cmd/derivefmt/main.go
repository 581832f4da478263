package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"derivefmt/internal/version"
)

// newRootCmd builds the formatting command with its flags. Subcommands are
// attached in main.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "derivefmt [flags] [path...]",
		Short: "Sort the traits in Rust #[derive(...)] attributes",
		Long: `derivefmt sorts the trait lists of #[derive(...)] attributes alphabetically,
keeping comments and formatting in place.

Without paths it formats every target of the nearest Cargo.toml, or the
working directory when there is none. It also runs as "cargo derivefmt".`,
		Version:           version.Version,
		Args:              cobra.ArbitraryArgs,
		RunE:              runFormat,
		PersistentPreRunE: setupLogging,
		PersistentPostRun: syncLogging,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}
	addGlobalFlags(cmd)
	addFormatFlags(cmd)
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{msg: err.Error()}
	})
	return cmd
}

func addGlobalFlags(cmd *cobra.Command) {
	// Глобальные флаги
	pf := cmd.PersistentFlags()
	pf.String("color", "auto", "colorize output (auto|on|off)")
	pf.Bool("quiet", false, "suppress non-essential output")
	pf.String("log-level", "warn", "log level (debug|info|warn|error)")
	pf.String("trace", "", "trace output file (- for stderr)")
	pf.String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	pf.String("trace-mode", "stream", "trace storage (stream|ring|both|log)")
	pf.String("trace-format", "auto", "trace event format (auto|text|ndjson); auto picks ndjson for .ndjson and .jsonl files")
	pf.Int("trace-ring-size", 4096, "events kept by the ring tracer")
	pf.Bool("timings", false, "show timing information")
	pf.String("cpu-profile", "", "write a CPU profile to file")
	pf.String("mem-profile", "", "write a heap profile to file")
	pf.String("runtime-trace", "", "write a Go runtime trace to file")
}

// main executes the root command. Any error exits with status 1, or 2 for
// usage errors.
func main() {
	rootCmd := newRootCmd()
	rootCmd.AddCommand(newTokenizeCmd(), newVersionCmd(), newCacheCmd())
	rootCmd.SetArgs(stripCargoSubcommand(os.Args[1:]))
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "derivefmt: %v\n", err)
		var ue usageError
		if errors.As(err, &ue) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

// stripCargoSubcommand drops the "derivefmt" argument cargo passes when the
// binary runs as "cargo derivefmt".
func stripCargoSubcommand(args []string) []string {
	if len(args) > 0 && args[0] == "derivefmt" {
		return args[1:]
	}
	return args
}

// usageError marks invalid flag combinations.
type usageError struct{ msg string }

func (e usageError) Error() string { return e.msg }

func usagef(format string, args ...any) error {
	return usageError{msg: fmt.Sprintf(format, args...)}
}
