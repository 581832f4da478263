package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"derivefmt/internal/driver"
	"derivefmt/internal/watch"
)

// runWatch formats everything once and then re-formats files as they change,
// until interrupted.
func runWatch(ctx context.Context, cmd *cobra.Command, p plan, s settings, ex *driver.Excluder, opts driver.FormatOptions, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// прогресс-UI мешает потоковому выводу
	s.ui = switchOff
	if err := formatOnce(ctx, cmd, p.inputs, s, opts, log); err != nil {
		log.Warn("initial run reported problems", zap.Error(err))
	}

	editions := make(map[string]driver.Input, len(p.inputs))
	for _, in := range p.inputs {
		editions[in.Path] = in
	}

	w, err := watch.New(watch.Options{Roots: p.roots, Exclude: ex, Logger: log}, func(ctx context.Context, paths []string) error {
		inputs := make([]driver.Input, 0, len(paths))
		for _, path := range paths {
			in, ok := editions[path]
			if !ok {
				// a file created after start; cargo targets are not re-read
				in = driver.Input{Path: path, Edition: s.looseEdition}
			}
			inputs = append(inputs, in)
		}
		return formatOnce(ctx, cmd, inputs, s, opts, log)
	})
	if err != nil {
		return err
	}
	log.Info("watching for changes", zap.Strings("roots", p.roots))
	return w.Run(ctx)
}
