package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"derivefmt/internal/version"
)

const versionTagline = "sorted derives, untouched comments"

type versionFlags struct {
	format              string
	hash, message, date bool
	full                bool
}

// versionPayload is the --format json document.
type versionPayload struct {
	Tool    string `json:"tool"`
	Tagline string `json:"tagline"`
	version.Info
}

func newVersionCmd() *cobra.Command {
	var vf versionFlags
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show derivefmt build fingerprints",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if vf.full {
				vf.hash, vf.message, vf.date = true, true, true
			}
			info := vf.filter(version.Current())
			switch strings.ToLower(vf.format) {
			case "json":
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(versionPayload{Tool: appName, Tagline: versionTagline, Info: info})
			case "pretty":
				vf.pretty(cmd.OutOrStdout(), info, useColor(cmd, os.Stdout))
				return nil
			}
			return usagef("unsupported format %q (must be pretty or json)", vf.format)
		},
	}
	f := cmd.Flags()
	f.StringVar(&vf.format, "format", "pretty", "output format (pretty|json)")
	f.BoolVar(&vf.hash, "hash", false, "include git commit hash")
	f.BoolVar(&vf.message, "message", false, "include git commit message")
	f.BoolVar(&vf.date, "date", false, "include build timestamp")
	f.BoolVar(&vf.full, "full", false, "show every recorded bit of build metadata")
	return cmd
}

// filter keeps the requested fields; requested but unknown ones read "unknown".
func (vf versionFlags) filter(info version.Info) version.Info {
	pick := func(on bool, v string) string {
		switch {
		case !on:
			return ""
		case v == "":
			return "unknown"
		}
		return v
	}
	return version.Info{
		Version:    info.Version,
		GitCommit:  pick(vf.hash, info.GitCommit),
		GitMessage: pick(vf.message, info.GitMessage),
		BuildDate:  pick(vf.date, info.BuildDate),
	}
}

func (vf versionFlags) pretty(w io.Writer, info version.Info, colored bool) {
	v := info.Version
	if colored {
		v = version.Colored(v)
	}
	fmt.Fprintf(w, "%s %s: %s\n", appName, v, versionTagline)
	for _, line := range []struct{ label, value string }{
		{"commit: ", info.GitCommit},
		{"message:", info.GitMessage},
		{"built:  ", info.BuildDate},
	} {
		if line.value != "" {
			fmt.Fprintf(w, "%s %s\n", line.label, line.value)
		}
	}
	if !vf.hash && !vf.message && !vf.date {
		fmt.Fprintln(w, "set --hash, --message, --date, or --full for more build trivia")
	}
}
