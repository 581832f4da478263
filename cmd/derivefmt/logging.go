package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var logger = zap.NewNop()

// setupLogging builds the stderr logger from --log-level.
func setupLogging(cmd *cobra.Command, _ []string) error {
	flags := cmd.Root().PersistentFlags()
	if raw, _ := flags.GetString("color"); raw != "" {
		if _, err := parseSwitch("color", raw); err != nil {
			return usagef("%v", err)
		}
	}
	levelStr, err := flags.GetString("log-level")
	if err != nil {
		return err
	}
	l, err := newLogger(levelStr)
	if err != nil {
		return usagef("%v", err)
	}
	logger = l
	return nil
}

func syncLogging(*cobra.Command, []string) {
	_ = logger.Sync()
}

func newLogger(levelStr string) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(levelStr)
	if err != nil {
		return nil, fmt.Errorf("invalid --log-level: %w", err)
	}
	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(level)
	config.Encoding = "console"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.DisableStacktrace = true
	config.Sampling = nil
	return config.Build()
}
