package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"derivefmt/internal/trace"
)

// setupTracing builds the tracer selected by the --trace flags and stores it
// in the command context. The returned function closes it.
func setupTracing(cmd *cobra.Command, log *zap.Logger) (func(), error) {
	pf := cmd.Root().PersistentFlags()
	output, _ := pf.GetString("trace")
	levelStr, _ := pf.GetString("trace-level")
	modeStr, _ := pf.GetString("trace-mode")
	formatStr, _ := pf.GetString("trace-format")
	ringSize, _ := pf.GetInt("trace-ring-size")

	level, err := trace.ParseLevel(levelStr)
	if err != nil {
		return nil, usagef("%v", err)
	}
	mode, err := trace.ParseMode(modeStr)
	if err != nil {
		return nil, usagef("%v", err)
	}
	format, err := trace.ParseFormat(formatStr)
	if err != nil {
		return nil, usagef("%v", err)
	}
	// --trace без уровня включает фазы
	if level == trace.LevelOff && output != "" {
		level = trace.LevelPhase
	}

	tracer, err := trace.New(trace.Config{
		Level:      level,
		Mode:       mode,
		Format:     format,
		OutputPath: output,
		RingSize:   ringSize,
		Logger:     log,
	})
	if err != nil {
		return nil, err
	}
	cmd.SetContext(trace.WithTracer(cmd.Context(), tracer))

	return func() {
		if err := tracer.Close(); err != nil {
			log.Warn("closing trace output", zap.Error(err))
		}
	}, nil
}

// dumpTraceRing writes the recent events of a ring tracer, if one is active.
func dumpTraceRing(cmd *cobra.Command, w io.Writer) {
	ring, ok := trace.FindRing(trace.FromContext(cmd.Context()))
	if !ok {
		return
	}
	fmt.Fprintln(w, "trace: last events before the failure:")
	if err := ring.Dump(w, trace.FormatText); err != nil {
		fmt.Fprintf(w, "trace: dump error: %v\n", err)
	}
}
