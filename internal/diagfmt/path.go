package diagfmt

import (
	"os"
	"path/filepath"
	"strings"
)

// autoMaxLen is the longest absolute path PathModeAuto prints unshortened.
const autoMaxLen = 40

func formatPath(path string, mode PathMode) string {
	switch mode {
	case PathModeAbsolute:
		if abs, err := filepath.Abs(path); err == nil {
			return abs
		}
		return path
	case PathModeRelative:
		return relativeToWD(path)
	case PathModeBasename:
		return filepath.Base(path)
	default:
		if !filepath.IsAbs(path) {
			return path
		}
		if rel := relativeToWD(path); rel != path {
			return rel
		}
		if len(path) > autoMaxLen {
			return filepath.Base(path)
		}
		return path
	}
}

// relativeToWD returns path relative to the working directory, or path itself
// when it lies outside of it.
func relativeToWD(path string) string {
	wd, err := os.Getwd()
	if err != nil {
		return path
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	rel, err := filepath.Rel(wd, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return path
	}
	return rel
}
