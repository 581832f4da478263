// Package cargo reads Cargo.toml manifests and resolves the Rust source
// files of a package or workspace together with their editions.
package cargo

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"

	"derivefmt/internal/lexer"
)

// ManifestName is the file cargo reads.
const ManifestName = "Cargo.toml"

// ErrNotFound is returned by Find when no Cargo.toml exists up to the root.
var ErrNotFound = errors.New("cargo: could not find Cargo.toml")

// Manifest is a decoded Cargo.toml.
type Manifest struct {
	// Path is the absolute path of the manifest file.
	Path string `toml:"-"`
	// Dir is the package (or workspace) root.
	Dir string `toml:"-"`

	Package   *PackageSection   `toml:"package"`
	Lib       *TargetSection    `toml:"lib"`
	Bins      []TargetSection   `toml:"bin"`
	Examples  []TargetSection   `toml:"example"`
	Tests     []TargetSection   `toml:"test"`
	Benches   []TargetSection   `toml:"bench"`
	Workspace *WorkspaceSection `toml:"workspace"`
}

type PackageSection struct {
	Name string `toml:"name"`
	// Edition is a string or {workspace = true}.
	Edition any `toml:"edition"`
	// Build is a path, or false to disable build.rs discovery.
	Build any `toml:"build"`
	// Auto* turn off target auto-discovery.
	AutoBins     *bool `toml:"autobins"`
	AutoExamples *bool `toml:"autoexamples"`
	AutoTests    *bool `toml:"autotests"`
	AutoBenches  *bool `toml:"autobenches"`
}

type TargetSection struct {
	Name    string `toml:"name"`
	Path    string `toml:"path"`
	Edition string `toml:"edition"`
}

type WorkspaceSection struct {
	Members []string `toml:"members"`
	Exclude []string `toml:"exclude"`
	Package struct {
		Edition string `toml:"edition"`
	} `toml:"package"`
}

// Find walks up from startDir to the nearest Cargo.toml.
func Find(startDir string) (string, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("cargo: failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, ManifestName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("cargo: failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", ErrNotFound
}

// Load reads and decodes the manifest at path.
func Load(path string) (*Manifest, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("cargo: %w", err)
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("cargo: failed to read %s: %w", abs, err)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", abs, err)
	}
	m.Path = abs
	m.Dir = filepath.Dir(abs)
	return m, nil
}

// Parse decodes manifest bytes. Path and Dir are left empty.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return nil, fmt.Errorf("cargo: failed to parse manifest at %d:%d: %w", row, col, err)
		}
		return nil, fmt.Errorf("cargo: failed to parse manifest: %w", err)
	}
	if m.Package == nil && m.Workspace == nil {
		return nil, errors.New("cargo: manifest has neither [package] nor [workspace]")
	}
	return &m, nil
}

// PackageEdition resolves [package].edition, inheriting from ws when the
// manifest says edition.workspace = true. A missing edition means 2015.
func (m *Manifest) PackageEdition(ws *Manifest) (lexer.Edition, error) {
	if m.Package == nil {
		return lexer.DefaultEdition, nil
	}
	switch v := m.Package.Edition.(type) {
	case nil:
		return lexer.DefaultEdition, nil
	case string:
		return parseEdition(v)
	case map[string]any:
		if inherit, _ := v["workspace"].(bool); inherit {
			if ws == nil || ws.Workspace == nil || ws.Workspace.Package.Edition == "" {
				return 0, errors.New("cargo: edition.workspace = true without [workspace.package].edition")
			}
			return parseEdition(ws.Workspace.Package.Edition)
		}
	}
	return 0, fmt.Errorf("cargo: unsupported [package].edition value %v", m.Package.Edition)
}

func parseEdition(s string) (lexer.Edition, error) {
	ed, err := lexer.ParseEdition(s)
	if err != nil {
		return 0, fmt.Errorf("cargo: %w", err)
	}
	return ed, nil
}
