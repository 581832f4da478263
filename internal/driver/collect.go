package driver

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrNoFiles is returned when the inputs name no Rust source files.
var ErrNoFiles = errors.New("format: no source files found")

// Excluder matches paths against [files] exclude patterns.
//
// A pattern without a slash matches any single path element ("target").
// A pattern ending in "/**" matches the directory and everything below it
// wherever it appears. Any other pattern is matched against the whole
// slash-separated path.
type Excluder struct {
	patterns []string
}

// NewExcluder validates patterns.
func NewExcluder(patterns []string) (*Excluder, error) {
	ex := &Excluder{}
	for _, p := range patterns {
		p = strings.TrimSpace(filepath.ToSlash(p))
		if p == "" {
			continue
		}
		if _, err := filepath.Match(strings.TrimSuffix(p, "/**"), ""); err != nil {
			return nil, fmt.Errorf("exclude pattern %q: %w", p, err)
		}
		ex.patterns = append(ex.patterns, p)
	}
	return ex, nil
}

// Match reports whether path is excluded.
func (ex *Excluder) Match(path string) bool {
	if ex == nil || len(ex.patterns) == 0 {
		return false
	}
	slash := filepath.ToSlash(filepath.Clean(path))
	elems := strings.Split(slash, "/")
	for _, p := range ex.patterns {
		switch {
		case strings.HasSuffix(p, "/**"):
			dir := strings.TrimSuffix(p, "/**")
			if slash == dir || strings.HasPrefix(slash, dir+"/") || strings.Contains("/"+slash+"/", "/"+dir+"/") {
				return true
			}
		case !strings.Contains(p, "/"):
			for _, e := range elems {
				if ok, _ := filepath.Match(p, e); ok {
					return true
				}
			}
		default:
			if ok, _ := filepath.Match(p, slash); ok {
				return true
			}
		}
	}
	return false
}

// CollectFiles expands paths into a sorted, deduplicated list of files.
// Directories are walked for *.rs files, skipping hidden and excluded
// directories. Files named explicitly are kept whatever their extension.
func CollectFiles(ctx context.Context, paths []string, ex *Excluder) ([]string, error) {
	var files []string
	seen := make(map[string]struct{})
	addFile := func(path string) {
		path = filepath.Clean(path)
		if _, ok := seen[path]; ok {
			return
		}
		seen[path] = struct{}{}
		files = append(files, path)
	}

	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			addFile(p)
			continue
		}

		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			if d.IsDir() {
				if path != p && (isHidden(d.Name()) || ex.Match(path)) {
					return filepath.SkipDir
				}
				return nil
			}
			if filepath.Ext(path) == ".rs" && !ex.Match(path) {
				addFile(path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	sort.Strings(files)
	return files, nil
}

func isHidden(name string) bool {
	return len(name) > 1 && name[0] == '.' && name != ".."
}
