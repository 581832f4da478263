// Package diffview renders the change a rewrite makes to a file as a
// unified diff.
package diffview

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/pmezard/go-difflib/difflib"
	godiff "github.com/sourcegraph/go-diff/diff"

	"fortio.org/safecast"
)

// DefaultContext is the number of unchanged lines around each hunk.
const DefaultContext = 3

// Unified computes the diff from before to after. It returns nil when the
// contents are equal.
func Unified(name string, before, after []byte, context int) (*godiff.FileDiff, error) {
	if bytes.Equal(before, after) {
		return nil, nil
	}
	a, b := splitLines(before), splitLines(after)
	m := difflib.NewMatcherWithJunk(a, b, false, nil)

	fd := &godiff.FileDiff{OrigName: "a/" + name, NewName: "b/" + name}
	for _, group := range m.GetGroupedOpCodes(context) {
		h, err := hunk(group, a, b)
		if err != nil {
			return nil, fmt.Errorf("diffview: %s: %w", name, err)
		}
		fd.Hunks = append(fd.Hunks, h)
	}
	return fd, nil
}

func hunk(group []difflib.OpCode, a, b []string) (*godiff.Hunk, error) {
	first, last := group[0], group[len(group)-1]
	var body bytes.Buffer
	for _, op := range group {
		switch op.Tag {
		case 'e':
			writeLines(&body, ' ', a[op.I1:op.I2])
		case 'r':
			writeLines(&body, '-', a[op.I1:op.I2])
			writeLines(&body, '+', b[op.J1:op.J2])
		case 'd':
			writeLines(&body, '-', a[op.I1:op.I2])
		case 'i':
			writeLines(&body, '+', b[op.J1:op.J2])
		}
	}

	origStart, origLines, err := hunkRange(first.I1, last.I2)
	if err != nil {
		return nil, err
	}
	newStart, newLines, err := hunkRange(first.J1, last.J2)
	if err != nil {
		return nil, err
	}
	return &godiff.Hunk{
		OrigStartLine: origStart,
		OrigLines:     origLines,
		NewStartLine:  newStart,
		NewLines:      newLines,
		Body:          body.Bytes(),
	}, nil
}

// hunkRange converts a half-open line range to unified-diff start/count.
// An empty range starts at the line before it, as diff(1) prints it.
func hunkRange(lo, hi int) (start, count int32, err error) {
	if start, err = safecast.Conv[int32](lo + 1); err != nil {
		return 0, 0, err
	}
	if count, err = safecast.Conv[int32](hi - lo); err != nil {
		return 0, 0, err
	}
	if count == 0 {
		start--
	}
	return start, count, nil
}

// writeLines prefixes each line. A last line without '\n' is terminated so
// the body stays line-oriented; the missing newline is on both sides.
func writeLines(buf *bytes.Buffer, prefix byte, lines []string) {
	for _, l := range lines {
		buf.WriteByte(prefix)
		buf.WriteString(l)
		if !strings.HasSuffix(l, "\n") {
			buf.WriteByte('\n')
		}
	}
}

func splitLines(content []byte) []string {
	lines := strings.SplitAfter(string(content), "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// Printer writes file diffs, optionally colorized.
type Printer struct {
	w       io.Writer
	header  *color.Color
	section *color.Color
	added   *color.Color
	deleted *color.Color
}

// NewPrinter returns a printer writing to w. Colors are forced on or off
// by colorize regardless of the terminal.
func NewPrinter(w io.Writer, colorize bool) *Printer {
	p := &Printer{
		w:       w,
		header:  color.New(color.Bold),
		section: color.New(color.FgCyan),
		added:   color.New(color.FgGreen),
		deleted: color.New(color.FgRed),
	}
	for _, c := range []*color.Color{p.header, p.section, p.added, p.deleted} {
		if colorize {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// Print renders fd. A nil diff prints nothing.
func (p *Printer) Print(fd *godiff.FileDiff) error {
	if fd == nil {
		return nil
	}
	text, err := godiff.PrintFileDiff(fd)
	if err != nil {
		return fmt.Errorf("diffview: %w", err)
	}
	sc := bufio.NewScanner(bytes.NewReader(text))
	sc.Buffer(make([]byte, 0, 64*1024), len(text)+1)
	for sc.Scan() {
		line := sc.Text()
		c := p.colorFor(line)
		if _, err := c.Fprintln(p.w, line); err != nil {
			return err
		}
	}
	return sc.Err()
}

func (p *Printer) colorFor(line string) *color.Color {
	switch {
	case strings.HasPrefix(line, "--- "), strings.HasPrefix(line, "+++ "):
		return p.header
	case strings.HasPrefix(line, "@@"):
		return p.section
	case strings.HasPrefix(line, "+"):
		return p.added
	case strings.HasPrefix(line, "-"):
		return p.deleted
	}
	return noColor
}

var noColor = func() *color.Color {
	c := color.New()
	c.DisableColor()
	return c
}()

// Text renders fd without colors.
func Text(fd *godiff.FileDiff) (string, error) {
	var sb strings.Builder
	if err := NewPrinter(&sb, false).Print(fd); err != nil {
		return "", err
	}
	return sb.String(), nil
}
