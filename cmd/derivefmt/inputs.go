package main

import (
	"context"
	"errors"
	"os"

	"go.uber.org/zap"

	"derivefmt/internal/cargo"
	"derivefmt/internal/driver"
)

// plan is the set of files one run formats and the roots a watch follows.
type plan struct {
	inputs []driver.Input
	roots  []string
	// manifest is the Cargo.toml the files came from, empty for loose files.
	manifest string
}

// resolveInputs picks the files to format:
// explicit --file values and positional paths first, then the targets of
// the given or nearest Cargo.toml, then the working directory.
func resolveInputs(ctx context.Context, s settings, ex *driver.Excluder, log *zap.Logger) (plan, error) {
	explicit := append(append([]string(nil), s.files...), s.paths...)
	if len(explicit) > 0 {
		return loosePlan(ctx, explicit, s, ex)
	}

	manifestPath := s.manifestPath
	if manifestPath == "" {
		wd, err := os.Getwd()
		if err != nil {
			return plan{}, err
		}
		manifestPath, err = cargo.Find(wd)
		if errors.Is(err, cargo.ErrNotFound) {
			log.Info("no Cargo.toml found, formatting the working directory", zap.String("dir", wd))
			return loosePlan(ctx, []string{wd}, s, ex)
		}
		if err != nil {
			return plan{}, err
		}
	}

	m, err := cargo.Load(manifestPath)
	if err != nil {
		return plan{}, err
	}
	targets, err := m.Targets()
	if err != nil {
		return plan{}, err
	}
	sources, err := cargo.Sources(targets)
	if err != nil {
		return plan{}, err
	}
	log.Debug("cargo targets resolved",
		zap.String("manifest", m.Path),
		zap.Int("targets", len(targets)),
		zap.Int("files", len(sources)))

	p := plan{roots: []string{m.Dir}, manifest: m.Path}
	for _, src := range sources {
		if ex.Match(src.Path) {
			continue
		}
		edition := src.Edition
		if s.editionSet {
			edition = s.edition
		}
		p.inputs = append(p.inputs, driver.Input{Path: src.Path, Edition: edition})
	}
	if len(p.inputs) == 0 {
		return p, driver.ErrNoFiles
	}
	return p, nil
}

func loosePlan(ctx context.Context, paths []string, s settings, ex *driver.Excluder) (plan, error) {
	files, err := driver.CollectFiles(ctx, paths, ex)
	if err != nil {
		return plan{}, err
	}
	if len(files) == 0 {
		return plan{}, driver.ErrNoFiles
	}
	p := plan{roots: paths}
	for _, f := range files {
		p.inputs = append(p.inputs, driver.Input{Path: f, Edition: s.looseEdition})
	}
	return p, nil
}

func inputPaths(inputs []driver.Input) []string {
	out := make([]string, len(inputs))
	for i, in := range inputs {
		out[i] = in.Path
	}
	return out
}
