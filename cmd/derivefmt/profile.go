package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"derivefmt/internal/prof"
)

// setupProfiling starts the runtime profiles named by the persistent
// profiling flags. The returned stop function is safe to call more than once.
func setupProfiling(cmd *cobra.Command, log *zap.Logger) (func(), error) {
	pf := cmd.Root().PersistentFlags()
	var opts prof.Options
	var err error
	if opts.CPU, err = pf.GetString("cpu-profile"); err != nil {
		return nil, fmt.Errorf("failed to get cpu-profile flag: %w", err)
	}
	if opts.Mem, err = pf.GetString("mem-profile"); err != nil {
		return nil, fmt.Errorf("failed to get mem-profile flag: %w", err)
	}
	if opts.Trace, err = pf.GetString("runtime-trace"); err != nil {
		return nil, fmt.Errorf("failed to get runtime-trace flag: %w", err)
	}
	if !opts.Enabled() {
		return func() {}, nil
	}

	session, err := prof.Start(opts)
	if err != nil {
		return nil, err
	}
	return func() {
		if err := session.Stop(); err != nil {
			log.Warn("failed to write profiles", zap.Error(err))
		}
	}, nil
}
