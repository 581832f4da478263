package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"derivefmt/internal/cache"
	"derivefmt/internal/driver"
	"derivefmt/internal/trace"
)

const appName = "derivefmt"

func runFormat(cmd *cobra.Command, args []string) (err error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	s, err := readSettings(cmd, args, cfg)
	if err != nil {
		return err
	}
	log := logger
	if cfg.Path != "" {
		log.Debug("config loaded", zap.String("path", cfg.Path))
	}

	stopProfiles, err := setupProfiling(cmd, log)
	if err != nil {
		return err
	}
	defer stopProfiles()

	cleanup, err := setupTracing(cmd, log)
	if err != nil {
		return err
	}
	defer cleanup()
	defer func() {
		if err != nil && !errors.Is(err, errChangesRequired) {
			dumpTraceRing(cmd, cmd.ErrOrStderr())
		}
	}()

	span, ctx := trace.Start(cmd.Context(), trace.ScopeDriver, appName)
	defer func() {
		if err != nil && !errors.Is(err, errChangesRequired) {
			span.Fail(err)
			return
		}
		span.End("ok")
	}()

	ex, err := driver.NewExcluder(s.exclude)
	if err != nil {
		return err
	}
	stopResolve := s.timer.Start("resolve")
	p, err := resolveInputs(ctx, s, ex, log)
	if err != nil {
		return err
	}
	stopResolve(fmt.Sprintf("%d files", len(p.inputs)))
	span.WithExtra("files", strconv.Itoa(len(p.inputs)))

	opts := driver.FormatOptions{
		Check:  s.check,
		Stdout: s.stdout,
		Diff:   s.diff,
		Jobs:   s.jobs,
		Verify: s.verify,
		Logger: log,
	}
	if s.cache {
		c, cerr := cache.Open(appName)
		if cerr != nil {
			log.Warn("result cache disabled", zap.Error(cerr))
		} else {
			opts.Cache = c
		}
	}

	if s.watch {
		return runWatch(ctx, cmd, p, s, ex, opts, log)
	}
	return formatOnce(ctx, cmd, p.inputs, s, opts, log)
}

// formatOnce formats inputs, runs the rustfmt post-pass and reports.
func formatOnce(ctx context.Context, cmd *cobra.Command, inputs []driver.Input, s settings, opts driver.FormatOptions, log *zap.Logger) error {
	var (
		results []driver.FormatResult
		err     error
	)
	defer s.timer.Reset()

	stopFormat := s.timer.Start("format")
	if s.format == "text" && !s.stdout && !s.quiet && s.ui.enabled(os.Stdout) {
		results, err = runFormatWithUI(ctx, appName, inputs, opts)
	} else {
		results, err = driver.FormatFiles(ctx, inputs, opts)
	}
	if err != nil {
		return err
	}
	stopFormat(fmt.Sprintf("%d changed", driver.Summarize(results).Changed))

	var rustfmtErr error
	if s.rustfmt && s.writes() {
		stopRustfmt := s.timer.Start("rustfmt")
		rustfmtErr = driver.RunRustfmt(ctx, s.rustfmtPath, results, nil, log)
		stopRustfmt("")
	}

	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
	switch {
	case s.format == "json":
		err = renderJSON(out, results, s, rustfmtErr)
	case s.stdout:
		err = renderStdout(out, errOut, results)
	default:
		err = renderText(out, errOut, results, s, rustfmtErr)
	}
	if err != nil {
		return err
	}
	return runStatus(results, s, rustfmtErr)
}

// runStatus turns the results into the command's error: per-file failures
// first, then unsorted files under --check, then a failed rustfmt.
func runStatus(results []driver.FormatResult, s settings, rustfmtErr error) error {
	sum := driver.Summarize(results)
	if sum.Failed > 0 {
		return fmt.Errorf("failed to format %d of %d files", sum.Failed, sum.Files)
	}
	if s.check && sum.Changed > 0 {
		return errChangesRequired
	}
	if rustfmtErr != nil {
		return fmt.Errorf("rustfmt: %w", rustfmtErr)
	}
	return nil
}
