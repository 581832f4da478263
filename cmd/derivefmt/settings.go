package main

import (
	"errors"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"derivefmt/internal/config"
	"derivefmt/internal/lexer"
	"derivefmt/internal/observ"
)

// settings are the effective options of one run: config file values
// overridden by the flags the user set.
type settings struct {
	check  bool
	stdout bool
	diff   bool
	format string
	watch  bool

	files        []string
	manifestPath string
	paths        []string

	edition    lexer.Edition
	editionSet bool // from --edition, applies to every file
	// looseEdition lexes files outside a Cargo package
	looseEdition lexer.Edition

	jobs        int
	verify      bool
	rustfmt     bool
	rustfmtPath string
	cache       bool
	exclude     []string

	quiet bool
	ui    autoSwitch
	color bool
	// timer is nil unless --timings is set
	timer *observ.Timer
}

func addFormatFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringSliceP("file", "f", nil, "file or directory to format (repeatable)")
	f.String("manifest-path", "", "path to Cargo.toml")
	f.Bool("check", false, "report files whose derives are unsorted without writing")
	f.Bool("stdout", false, "print sorted code to stdout instead of rewriting files")
	f.Bool("diff", false, "print a unified diff instead of rewriting files")
	f.String("format", "text", "report format (text|json)")
	f.String("edition", "", "Rust edition for every file (2015|2018|2021|2024)")
	f.Int("jobs", 0, "parallel jobs (0 = GOMAXPROCS)")
	f.Bool("verify", false, "check input and output with tree-sitter")
	f.Bool("rustfmt", false, "run rustfmt over rewritten files")
	f.String("rustfmt-path", "rustfmt", "rustfmt binary")
	f.Bool("no-cache", false, "do not use the result cache")
	f.String("config", "", "config file (default: nearest derivefmt.toml)")
	f.String("ui", "auto", "progress UI (auto|on|off)")
	f.Bool("watch", false, "keep running and re-format files as they change")
}

func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path != "" {
		return config.Load(path)
	}
	wd, err := os.Getwd()
	if err != nil {
		return config.Config{}, err
	}
	return config.Discover(wd)
}

func readSettings(cmd *cobra.Command, args []string, cfg config.Config) (settings, error) {
	f := cmd.Flags()
	s := settings{
		verify:      cfg.Format.Verify,
		rustfmt:     cfg.Format.Rustfmt,
		rustfmtPath: cfg.Format.RustfmtPath,
		jobs:        cfg.Run.Jobs,
		cache:       cfg.Run.Cache,
		exclude:     cfg.Files.Exclude,
		paths:       args,
	}

	var err error
	get := func(name string, dst *bool) {
		if err == nil {
			*dst, err = f.GetBool(name)
		}
	}
	get("check", &s.check)
	get("stdout", &s.stdout)
	get("diff", &s.diff)
	get("watch", &s.watch)
	if err != nil {
		return s, err
	}
	if s.files, err = f.GetStringSlice("file"); err != nil {
		return s, err
	}
	if s.manifestPath, err = f.GetString("manifest-path"); err != nil {
		return s, err
	}
	if s.format, err = f.GetString("format"); err != nil {
		return s, err
	}
	s.format = strings.ToLower(s.format)
	if s.quiet, err = cmd.Root().PersistentFlags().GetBool("quiet"); err != nil {
		return s, err
	}

	// флаги перекрывают конфиг, только если заданы явно
	if f.Changed("verify") {
		get("verify", &s.verify)
	}
	if f.Changed("rustfmt") {
		get("rustfmt", &s.rustfmt)
	}
	if f.Changed("no-cache") {
		var noCache bool
		get("no-cache", &noCache)
		s.cache = !noCache
	}
	if err != nil {
		return s, err
	}
	if f.Changed("rustfmt-path") {
		if s.rustfmtPath, err = f.GetString("rustfmt-path"); err != nil {
			return s, err
		}
	}
	if f.Changed("jobs") {
		if s.jobs, err = f.GetInt("jobs"); err != nil {
			return s, err
		}
	}

	s.looseEdition = lexer.Edition2021
	if ed, ok := cfg.Edition(); ok {
		s.looseEdition = ed
	}
	if f.Changed("edition") {
		raw, _ := f.GetString("edition")
		ed, perr := lexer.ParseEdition(raw)
		if perr != nil {
			return s, usagef("invalid --edition: %v", perr)
		}
		s.edition, s.editionSet, s.looseEdition = ed, true, ed
	}

	uiRaw, _ := f.GetString("ui")
	if s.ui, err = parseSwitch("ui", uiRaw); err != nil {
		return s, usagef("%v", err)
	}
	s.color = useColor(cmd, os.Stdout)
	if timings, _ := cmd.Root().PersistentFlags().GetBool("timings"); timings {
		s.timer = observ.NewTimer()
	}

	return s, s.validate()
}

func (s settings) validate() error {
	switch s.format {
	case "text", "json":
	default:
		return usagef("unsupported --format %q (expected text|json)", s.format)
	}
	modes := 0
	for _, on := range []bool{s.check, s.stdout, s.diff} {
		if on {
			modes++
		}
	}
	if modes > 1 {
		return usagef("--check, --stdout and --diff are mutually exclusive")
	}
	if len(s.files) > 0 && s.manifestPath != "" {
		return usagef("--file cannot be combined with --manifest-path")
	}
	if s.stdout && s.format != "text" {
		return usagef("--stdout is only supported with text output")
	}
	if len(s.paths) > 0 && s.manifestPath != "" {
		return usagef("paths cannot be combined with --manifest-path")
	}
	if s.watch && (s.check || s.stdout || s.diff) {
		return usagef("--watch rewrites files and cannot be combined with --check, --stdout or --diff")
	}
	if s.jobs < 0 {
		return usagef("--jobs must not be negative")
	}
	if s.rustfmt && s.rustfmtPath == "" {
		return usagef("--rustfmt-path must not be empty")
	}
	return nil
}

// writes reports whether the run rewrites files on disk.
func (s settings) writes() bool {
	return !s.check && !s.stdout && !s.diff
}

var errChangesRequired = errors.New("derive lists need sorting")
