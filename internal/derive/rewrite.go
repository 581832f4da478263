package derive

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"

	"derivefmt/internal/diag"
	"derivefmt/internal/edit"
	"derivefmt/internal/lexer"
	"derivefmt/internal/source"
	"derivefmt/internal/syntax"
	"derivefmt/internal/token"
	"derivefmt/internal/trace"
)

var (
	// ErrParse is returned when the file does not lex or its delimiters do
	// not balance. The file is left untouched.
	ErrParse = errors.New("derive: parse error")
	// ErrInvariant is returned when a rewrite would lose or overlap tokens.
	ErrInvariant = errors.New("derive: invariant violation")
)

// Options configure Rewrite.
type Options struct {
	Edition lexer.Edition
	// Tracer receives attr-scope events; nil disables tracing.
	Tracer trace.Tracer
	// Parent is the span the attr events hang under.
	Parent uint64
}

// SkippedAttr is an attribute Rewrite left alone.
type SkippedAttr struct {
	Span   source.Span
	Name   string
	Reason Skip
}

// Result is the outcome of rewriting one file.
type Result struct {
	Content []byte
	Changed bool
	// Sites counts derive attributes that were planned.
	Sites int
	// Reordered counts sites whose text changed.
	Reordered int
	Edits     int
	Skipped   []SkippedAttr
}

// Rewrite sorts every outer derive list in file and returns the new content.
// On error the returned result is nil and nothing should be written.
func Rewrite(file *source.File, opts Options) (*Result, error) {
	bag := diag.NewBag(16)
	// предупреждения лексера не должны вытеснить ошибки из ограниченного bag
	errorsOnly := diag.ReporterFunc(func(d diag.Diagnostic) {
		if d.Severity >= diag.SevError {
			bag.Add(d)
		}
	})
	lx := lexer.New(file, lexer.Options{Reporter: errorsOnly, Edition: opts.Edition})
	toks := lx.All()
	if bag.HasErrors() {
		bag.Sort()
		d, _ := bag.First()
		return nil, parseError(file, d)
	}

	root, err := syntax.Parse(toks)
	if err != nil {
		var de *syntax.DelimiterError
		if errors.As(err, &de) {
			return nil, parseError(file, de.Diag)
		}
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}

	res := &Result{}
	acc := &edit.Script{}
	for _, attr := range syntax.FindAttributes(root) {
		site, skip := Classify(attr)
		if skip != SkipNone {
			name, _ := attr.Path()
			res.Skipped = append(res.Skipped, SkippedAttr{Span: attr.Span(), Name: name, Reason: skip})
			if skip != SkipNotDerive {
				trace.Point(opts.Tracer, trace.ScopeAttr, "skip", opts.Parent, skip.String())
			}
			continue
		}

		res.Sites++
		script, err := planSite(site, opts)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", position(file, attr.Span()), err)
		}
		if script.IsEmpty() {
			continue
		}
		if err := acc.Union(script); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrInvariant, position(file, attr.Span()), err)
		}
		res.Reordered++
	}

	if acc.IsEmpty() {
		res.Content = file.Content
		return res, nil
	}
	out, err := acc.Apply(file.Content)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvariant, err)
	}
	res.Content = out
	res.Edits = acc.Len()
	res.Changed = !bytes.Equal(out, file.Content)
	return res, nil
}

// planSite computes the edits that sort one derive list.
func planSite(site Site, opts Options) (*edit.Script, error) {
	span := trace.Begin(opts.Tracer, trace.ScopeAttr, "derive", opts.Parent)

	toks := site.Tokens()
	parsed := Segment(toks)
	if got := parsed.TokenCount(); got != len(toks) {
		span.End("error")
		return nil, fmt.Errorf("%w: segmented %d of %d tokens", ErrInvariant, got, len(toks))
	}

	groups := Reorder(parsed.Groups)
	rebuilt := Build(parsed.Leading, groups, parsed.Separators)
	if err := checkAccounting(toks, rebuilt.Tokens()); err != nil {
		span.End("error")
		return nil, err
	}

	updated := site.Args.Clone()
	if err := updated.Splice(1, len(updated.Children)-1, rebuilt); err != nil {
		span.End("error")
		return nil, fmt.Errorf("%w: %w", ErrInvariant, err)
	}
	script, err := syntax.Diff(site.Args, updated)
	if err != nil {
		span.End("error")
		return nil, fmt.Errorf("%w: %w", ErrInvariant, err)
	}

	span.WithExtra("groups", strconv.Itoa(len(groups))).
		WithExtra("edits", strconv.Itoa(script.Len()))
	if script.IsEmpty() {
		span.End("sorted")
	} else {
		if span.ID() != 0 {
			span.WithExtra("sorted", updated.Text())
		}
		span.End("reordered")
	}
	return script, nil
}

// checkAccounting verifies that rebuilding neither dropped nor invented text.
func checkAccounting(before, after []token.Token) error {
	if len(before) != len(after) {
		return fmt.Errorf("%w: rebuilt %d tokens from %d", ErrInvariant, len(after), len(before))
	}
	if lb, la := textLen(before), textLen(after); lb != la {
		return fmt.Errorf("%w: rebuilt text is %d bytes, was %d", ErrInvariant, la, lb)
	}
	return nil
}

func textLen(toks []token.Token) int {
	n := 0
	for _, t := range toks {
		n += len(t.Text)
	}
	return n
}

func parseError(file *source.File, d diag.Diagnostic) error {
	return fmt.Errorf("%w: %s: %s %s", ErrParse, position(file, d.Primary), d.Code.ID(), d.Message)
}

func position(file *source.File, sp source.Span) string {
	lc := file.Position(sp.Start)
	return fmt.Sprintf("%s:%d:%d", file.Path, lc.Line, lc.Col)
}

// RewriteString sorts the derive lists of a Rust source string.
func RewriteString(src string) (string, error) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("<input>", []byte(src))
	res, err := Rewrite(fs.Get(id), Options{Edition: lexer.Edition2021})
	if err != nil {
		return "", err
	}
	return string(res.Content), nil
}
