package cargo

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"derivefmt/internal/lexer"
)

// TargetKind is the cargo target type.
type TargetKind string

const (
	KindLib     TargetKind = "lib"
	KindBin     TargetKind = "bin"
	KindExample TargetKind = "example"
	KindTest    TargetKind = "test"
	KindBench   TargetKind = "bench"
	KindBuild   TargetKind = "custom-build"
)

// Target is one compilation root of a package.
type Target struct {
	Package string
	Name    string
	Kind    TargetKind
	// Root is the absolute path of the crate root file.
	Root    string
	Edition lexer.Edition
}

// Targets lists the targets of the manifest's package and of every workspace
// member, in manifest order.
func (m *Manifest) Targets() ([]Target, error) {
	var out []Target
	if m.Package != nil {
		ts, err := m.packageTargets(m)
		if err != nil {
			return nil, err
		}
		out = append(out, ts...)
	}
	if m.Workspace == nil {
		return out, nil
	}

	members, err := m.memberDirs()
	if err != nil {
		return nil, err
	}
	for _, dir := range members {
		if dir == m.Dir {
			continue
		}
		member, err := Load(filepath.Join(dir, ManifestName))
		if err != nil {
			return nil, err
		}
		if member.Package == nil {
			continue
		}
		ts, err := member.packageTargets(m)
		if err != nil {
			return nil, err
		}
		out = append(out, ts...)
	}
	return out, nil
}

// memberDirs expands [workspace].members globs minus [workspace].exclude.
func (m *Manifest) memberDirs() ([]string, error) {
	excluded := make(map[string]bool, len(m.Workspace.Exclude))
	for _, e := range m.Workspace.Exclude {
		excluded[filepath.Join(m.Dir, filepath.FromSlash(e))] = true
	}
	var dirs []string
	for _, pattern := range m.Workspace.Members {
		matches, err := filepath.Glob(filepath.Join(m.Dir, filepath.FromSlash(pattern)))
		if err != nil {
			return nil, fmt.Errorf("cargo: bad workspace member pattern %q: %w", pattern, err)
		}
		slices.Sort(matches)
		for _, dir := range matches {
			if excluded[dir] || slices.Contains(dirs, dir) {
				continue
			}
			if !isFile(filepath.Join(dir, ManifestName)) {
				continue
			}
			dirs = append(dirs, dir)
		}
	}
	return dirs, nil
}

func (m *Manifest) packageTargets(ws *Manifest) ([]Target, error) {
	edition, err := m.PackageEdition(ws)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", m.Path, err)
	}
	name := m.Package.Name
	var out []Target
	add := func(kind TargetKind, sec TargetSection, defaultRoot string) error {
		root := sec.Path
		if root == "" {
			root = defaultRoot
		}
		ed := edition
		if sec.Edition != "" {
			if ed, err = parseEdition(sec.Edition); err != nil {
				return fmt.Errorf("%s: %w", m.Path, err)
			}
		}
		abs := filepath.Join(m.Dir, filepath.FromSlash(root))
		if !isFile(abs) {
			return nil
		}
		for _, t := range out {
			if t.Root == abs && t.Kind == kind {
				return nil
			}
		}
		tname := sec.Name
		if tname == "" {
			tname = strings.TrimSuffix(filepath.Base(root), ".rs")
			if tname == "main" || tname == "lib" {
				tname = name
			}
		}
		out = append(out, Target{Package: name, Name: tname, Kind: kind, Root: abs, Edition: ed})
		return nil
	}

	lib := TargetSection{}
	if m.Lib != nil {
		lib = *m.Lib
	}
	if err := add(KindLib, lib, "src/lib.rs"); err != nil {
		return nil, err
	}

	groups := []struct {
		kind     TargetKind
		explicit []TargetSection
		dir      string
		auto     *bool
	}{
		{KindBin, m.Bins, "src/bin", m.Package.AutoBins},
		{KindExample, m.Examples, "examples", m.Package.AutoExamples},
		{KindTest, m.Tests, "tests", m.Package.AutoTests},
		{KindBench, m.Benches, "benches", m.Package.AutoBenches},
	}
	for _, g := range groups {
		for _, sec := range g.explicit {
			def := ""
			if sec.Name != "" {
				def = g.dir + "/" + sec.Name + ".rs"
				if g.kind == KindBin && sec.Name == name {
					def = "src/main.rs"
				}
			}
			if err := add(g.kind, sec, def); err != nil {
				return nil, err
			}
		}
		if g.auto != nil && !*g.auto {
			continue
		}
		if g.kind == KindBin {
			if err := add(KindBin, TargetSection{}, "src/main.rs"); err != nil {
				return nil, err
			}
		}
		for _, root := range autoTargets(filepath.Join(m.Dir, g.dir)) {
			rel, _ := filepath.Rel(m.Dir, root)
			// tests/it/main.rs is the target "it"
			tname := strings.TrimSuffix(filepath.Base(root), ".rs")
			if tname == "main" {
				tname = filepath.Base(filepath.Dir(root))
			}
			if err := add(g.kind, TargetSection{Name: tname}, filepath.ToSlash(rel)); err != nil {
				return nil, err
			}
		}
	}

	switch b := m.Package.Build.(type) {
	case nil:
		if err := add(KindBuild, TargetSection{Name: "build-script-build"}, "build.rs"); err != nil {
			return nil, err
		}
	case string:
		if err := add(KindBuild, TargetSection{Name: "build-script-build", Path: b}, ""); err != nil {
			return nil, err
		}
	case bool:
		if b {
			if err := add(KindBuild, TargetSection{Name: "build-script-build"}, "build.rs"); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}

// autoTargets finds dir/*.rs and dir/*/main.rs, as cargo's discovery does.
func autoTargets(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var out []string
	for _, e := range entries {
		p := filepath.Join(dir, e.Name())
		switch {
		case !e.IsDir() && strings.HasSuffix(e.Name(), ".rs"):
			out = append(out, p)
		case e.IsDir() && isFile(filepath.Join(p, "main.rs")):
			out = append(out, filepath.Join(p, "main.rs"))
		}
	}
	return out
}

// Files returns the .rs files that belong to t: the crate root plus the
// module tree next to it. A lib.rs, main.rs or mod.rs root owns its whole
// directory; any other root owns the directory named after its stem.
func (t Target) Files() ([]string, error) {
	files := []string{t.Root}
	dir := filepath.Dir(t.Root)
	switch base := filepath.Base(t.Root); base {
	case "lib.rs", "main.rs", "mod.rs":
	default:
		dir = filepath.Join(dir, strings.TrimSuffix(base, ".rs"))
	}
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if d.IsDir() {
			if path != dir && (d.Name() == "target" || strings.HasPrefix(d.Name(), ".")) {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(path, ".rs") && path != t.Root {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("cargo: walking %s: %w", dir, err)
	}
	slices.Sort(files[1:])
	return files, nil
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// SourceFile is a file to format and the edition to lex it with.
type SourceFile struct {
	Path    string
	Edition lexer.Edition
}

// Sources collects the files of all targets. A file shared by several
// targets is listed once, with the edition of the first target owning it.
func Sources(targets []Target) ([]SourceFile, error) {
	seen := make(map[string]bool)
	var out []SourceFile
	for _, t := range targets {
		files, err := t.Files()
		if err != nil {
			return nil, err
		}
		for _, f := range files {
			if seen[f] {
				continue
			}
			seen[f] = true
			out = append(out, SourceFile{Path: f, Edition: t.Edition})
		}
	}
	return out, nil
}
