package driver

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"slices"
	"strings"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"derivefmt/internal/lexer"
	"derivefmt/internal/trace"
)

// RunRustfmt runs rustfmt once per edition over the files FormatFiles wrote.
// Files that were not written are left alone. Failures of the separate
// invocations are combined; the sorted files stay on disk either way.
func RunRustfmt(ctx context.Context, bin string, results []FormatResult, sink ProgressSink, log *zap.Logger) error {
	if log == nil {
		log = zap.NewNop()
	}
	groups := make(map[lexer.Edition][]string)
	for _, r := range results {
		if r.Written {
			groups[r.Edition] = append(groups[r.Edition], r.Path)
		}
	}
	if len(groups) == 0 {
		return nil
	}

	editions := make([]lexer.Edition, 0, len(groups))
	for e := range groups {
		editions = append(editions, e)
	}
	slices.Sort(editions)

	span, ctx := trace.Start(ctx, trace.ScopePass, "rustfmt")
	emit(sink, Event{Stage: StageRustfmt, Status: StatusWorking})

	var errs error
	for _, e := range editions {
		files := groups[e]
		if err := rustfmt(ctx, bin, e, files); err != nil {
			log.Warn("rustfmt failed", zap.Stringer("edition", e), zap.Int("files", len(files)), zap.Error(err))
			errs = multierr.Append(errs, err)
			continue
		}
		log.Debug("rustfmt done", zap.Stringer("edition", e), zap.Int("files", len(files)))
	}

	if errs != nil {
		emit(sink, Event{Stage: StageRustfmt, Status: StatusError, Err: errs})
		span.Fail(errs)
		return errs
	}
	emit(sink, Event{Stage: StageRustfmt, Status: StatusDone})
	span.End("")
	return nil
}

func rustfmt(ctx context.Context, bin string, edition lexer.Edition, files []string) error {
	args := append([]string{"--edition", edition.String()}, files...)
	cmd := exec.CommandContext(ctx, bin, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return fmt.Errorf("rustfmt --edition %s: %w", edition, err)
		}
		return fmt.Errorf("rustfmt --edition %s: %w: %s", edition, err, msg)
	}
	return nil
}
