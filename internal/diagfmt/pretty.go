package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"derivefmt/internal/diag"
	"derivefmt/internal/source"
)

type palette struct {
	sev    map[diag.Severity]*color.Color
	code   *color.Color
	gutter *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		sev: map[diag.Severity]*color.Color{
			diag.SevError:   color.New(color.FgRed, color.Bold),
			diag.SevWarning: color.New(color.FgYellow, color.Bold),
			diag.SevInfo:    color.New(color.FgCyan, color.Bold),
		},
		code:   color.New(color.Faint),
		gutter: color.New(color.FgBlue),
	}
	all := []*color.Color{p.code, p.gutter}
	for _, c := range p.sev {
		all = append(all, c)
	}
	for _, c := range all {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// Pretty writes bag in the compiler-style layout:
//
//	src/lib.rs:3:9: ERROR LEX1002: unterminated string
//	   3 | let s = "abc
//	     |         ^^^^
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	if bag == nil || fs == nil {
		return
	}
	pal := newPalette(opts.Color)
	for _, d := range bag.Items() {
		sev := pal.sev[d.Severity]
		if sev == nil {
			sev = pal.sev[diag.SevError]
		}
		file := fs.Get(d.Primary.File)
		if file == nil {
			fmt.Fprintf(w, "%s %s: %s\n", sev.Sprint(d.Severity), pal.code.Sprint(d.Code.ID()), d.Message)
			continue
		}
		start, end := fs.Resolve(d.Primary)
		fmt.Fprintf(w, "%s:%d:%d: %s %s: %s\n",
			formatPath(file.Path, opts.PathMode), start.Line, start.Col,
			sev.Sprint(d.Severity), pal.code.Sprint(d.Code.ID()), d.Message)
		writeSnippet(w, file, start, end, int(opts.Context), pal, sev)

		if opts.ShowNotes {
			for _, n := range d.Notes {
				nf := fs.Get(n.Span.File)
				if nf == nil {
					fmt.Fprintf(w, "  note: %s\n", n.Msg)
					continue
				}
				pos := nf.Position(n.Span.Start)
				fmt.Fprintf(w, "  note: %s:%d:%d: %s\n", formatPath(nf.Path, opts.PathMode), pos.Line, pos.Col, n.Msg)
			}
		}
	}
}

func writeSnippet(w io.Writer, file *source.File, start, end source.LineCol, context int, pal palette, sev *color.Color) {
	lines := file.LineCount()
	first := start.Line
	if context > 0 {
		first = uint32(max(1, int(start.Line)-context))
	}
	last := min(lines, start.Line+uint32(max(context, 0)))
	width := len(fmt.Sprint(last))

	for n := first; n <= last; n++ {
		text := file.Line(n)
		fmt.Fprintf(w, "%s %s\n", pal.gutter.Sprintf("%*d |", width+3, n), text)
		if n != start.Line {
			continue
		}
		col := int(start.Col) - 1
		if col > len(text) {
			col = len(text)
		}
		stop := len(text)
		if end.Line == start.Line {
			stop = min(len(text), int(end.Col)-1)
		}
		pad := runewidth.StringWidth(text[:col])
		marks := max(1, runewidth.StringWidth(text[col:max(col, stop)]))
		fmt.Fprintf(w, "%s %s%s\n", pal.gutter.Sprintf("%*s |", width+3, ""), strings.Repeat(" ", pad), sev.Sprint(strings.Repeat("^", marks)))
	}
}
