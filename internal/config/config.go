// Package config loads the project configuration file derivefmt.toml.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"derivefmt/internal/lexer"
)

// FileNames are the config file names looked up in every directory, in order.
var FileNames = []string{"derivefmt.toml", ".derivefmt.toml"}

// ErrNotFound is returned by Find when no config file exists up to the root.
var ErrNotFound = errors.New("config: no derivefmt.toml found")

type Config struct {
	// Path is the file the config was loaded from, empty for defaults.
	Path   string       `toml:"-"`
	Format FormatConfig `toml:"format"`
	Files  FilesConfig  `toml:"files"`
	Run    RunConfig    `toml:"run"`
}

type FormatConfig struct {
	Edition     string `toml:"edition"`
	Verify      bool   `toml:"verify"`
	Rustfmt     bool   `toml:"rustfmt"`
	RustfmtPath string `toml:"rustfmt-path"`
}

type FilesConfig struct {
	Exclude []string `toml:"exclude"`
}

type RunConfig struct {
	Jobs  int  `toml:"jobs"`
	Cache bool `toml:"cache"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Format: FormatConfig{RustfmtPath: "rustfmt"},
		Run:    RunConfig{Cache: true},
	}
}

// Edition returns the configured edition, or false when none is set.
func (c Config) Edition() (lexer.Edition, bool) {
	if c.Format.Edition == "" {
		return 0, false
	}
	ed, err := lexer.ParseEdition(c.Format.Edition)
	if err != nil {
		return 0, false
	}
	return ed, true
}

// Find walks up from startDir and returns the first config file it meets.
func Find(startDir string) (string, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("config: failed to resolve start directory: %w", err)
	}
	for {
		for _, name := range FileNames {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, nil
			} else if !errors.Is(err, os.ErrNotExist) {
				return "", fmt.Errorf("config: failed to stat %q: %w", candidate, err)
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", ErrNotFound
}

// Load decodes path over the defaults. Unknown keys are an error.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		sort.Strings(keys)
		return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if meta.IsDefined("format", "edition") {
		if _, err := lexer.ParseEdition(cfg.Format.Edition); err != nil {
			return Config{}, fmt.Errorf("%s: [format].edition: %w", path, err)
		}
	}
	if meta.IsDefined("format", "rustfmt-path") && strings.TrimSpace(cfg.Format.RustfmtPath) == "" {
		return Config{}, fmt.Errorf("%s: [format].rustfmt-path is empty", path)
	}
	if cfg.Run.Jobs < 0 {
		return Config{}, fmt.Errorf("%s: [run].jobs must not be negative", path)
	}
	cfg.Path = path
	return cfg, nil
}

// Discover finds and loads the config for startDir. Without a config file it
// returns the defaults.
func Discover(startDir string) (Config, error) {
	path, err := Find(startDir)
	if errors.Is(err, ErrNotFound) {
		return Default(), nil
	}
	if err != nil {
		return Config{}, err
	}
	return Load(path)
}
