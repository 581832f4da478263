// Package version holds the build identity of derivefmt. The variables are
// set with -ldflags "-X derivefmt/internal/version.Version=...".
package version

import (
	"strings"

	"github.com/fatih/color"
)

var (
	// Version also salts the result cache: entries written by another
	// release are never trusted.
	Version    = "0.1.0-dev"
	GitCommit  = ""
	GitMessage = ""
	// BuildDate is ISO-8601.
	BuildDate = ""
)

// Info is a trimmed snapshot of the build variables. Missing fields are "".
type Info struct {
	Version    string `json:"version"`
	GitCommit  string `json:"git_commit,omitempty"`
	GitMessage string `json:"git_message,omitempty"`
	BuildDate  string `json:"build_date,omitempty"`
}

func Current() Info {
	info := Info{
		Version:    strings.TrimSpace(Version),
		GitCommit:  strings.TrimSpace(GitCommit),
		GitMessage: strings.TrimSpace(GitMessage),
		BuildDate:  strings.TrimSpace(BuildDate),
	}
	if info.Version == "" {
		info.Version = "dev"
	}
	return info
}

var numberColors = [3]*color.Color{
	color.New(color.FgYellow, color.Bold),
	color.New(color.FgGreen, color.Bold),
	color.New(color.FgBlue, color.Bold),
}

// Colored paints the major, minor and patch numbers of a semantic version.
// Suffixes after '-' or '+' stay plain; other strings come back unchanged.
func Colored(v string) string {
	core, suffix := v, ""
	if i := strings.IndexAny(v, "-+"); i >= 0 {
		core, suffix = v[:i], v[i:]
	}
	parts := strings.Split(core, ".")
	if len(parts) != len(numberColors) {
		return v
	}
	for i, p := range parts {
		parts[i] = numberColors[i].Sprint(p)
	}
	return strings.Join(parts, ".") + suffix
}
