package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// autoSwitch is the value of an auto|on|off flag.
type autoSwitch uint8

const (
	switchAuto autoSwitch = iota
	switchOn
	switchOff
)

var switchNames = map[string]autoSwitch{"": switchAuto, "auto": switchAuto, "on": switchOn, "off": switchOff}

func parseSwitch(flag, value string) (autoSwitch, error) {
	sw, ok := switchNames[strings.ToLower(strings.TrimSpace(value))]
	if !ok {
		return switchAuto, fmt.Errorf("invalid --%s value %q (expected auto|on|off)", flag, value)
	}
	return sw, nil
}

// enabled resolves auto against whether f is a terminal.
func (sw autoSwitch) enabled(f *os.File) bool {
	switch sw {
	case switchOn:
		return true
	case switchOff:
		return false
	}
	return isTerminal(f)
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd())) // #nosec G115 -- descriptors fit in int
}

// useColor reads the persistent --color flag. Invalid values were already
// rejected by setupLogging, so they fall back to auto here.
func useColor(cmd *cobra.Command, f *os.File) bool {
	raw, _ := cmd.Root().PersistentFlags().GetString("color")
	sw, _ := parseSwitch("color", raw)
	return sw.enabled(f)
}
