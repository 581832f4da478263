package syntax

import (
	"github.com/pmezard/go-difflib/difflib"

	"derivefmt/internal/edit"
	"derivefmt/internal/source"
	"derivefmt/internal/token"
)

// Diff computes the text edits turning old into updated. Spans come from the
// tokens of old, which must be contiguous source tokens; updated may reuse
// them in any order. Tokens are compared by text.
func Diff(old, updated *Node) (*edit.Script, error) {
	oldToks := old.Tokens()
	newToks := updated.Tokens()
	script := &edit.Script{}
	if len(oldToks) == 0 {
		return script, nil
	}

	// без autojunk: иначе частые токены вроде ", " в длинных списках считаются мусором
	m := difflib.NewMatcherWithJunk(texts(oldToks), texts(newToks), false, nil)
	for _, op := range m.GetOpCodes() {
		if op.Tag == 'e' {
			continue
		}
		sp := anchor(oldToks, op.I1, op.I2)
		e := edit.TextEdit{
			Span:    sp,
			NewText: token.Concat(newToks[op.J1:op.J2]),
			OldText: token.Concat(oldToks[op.I1:op.I2]),
		}
		if err := script.Add(e); err != nil {
			return nil, err
		}
	}
	return script, nil
}

// anchor maps the old token range [i1, i2) to a byte span; an empty range
// maps to the position before token i1 (or after the last token).
func anchor(toks []token.Token, i1, i2 int) (sp source.Span) {
	switch {
	case i1 < i2:
		return toks[i1].Span.Cover(toks[i2-1].Span)
	case i1 < len(toks):
		sp = toks[i1].Span
		sp.End = sp.Start
	default:
		sp = toks[len(toks)-1].Span
		sp.Start = sp.End
	}
	return sp
}

func texts(toks []token.Token) []string {
	out := make([]string, len(toks))
	for i, t := range toks {
		out[i] = t.Text
	}
	return out
}
