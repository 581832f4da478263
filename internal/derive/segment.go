package derive

import (
	"derivefmt/internal/token"
)

// Parsed is a derive list split into groups and separators.
//
// Leading ++ g0 ++ s0 ++ g1 ++ s1 ++ ... reproduces the input tokens, and
// len(Separators) is len(Groups) or len(Groups)-1.
type Parsed struct {
	Leading    []token.Token
	Groups     [][]token.Token
	Separators [][]token.Token
}

// Segment splits the tokens strictly inside derive(...) into groups and
// separators. A group starts and ends with a token that is neither trivia nor
// a comma; trivia before a group is glued to the previous separator (or to
// Leading), trivia after it goes into its own separator together with the
// comma. A comma with nothing before it yields an empty group.
func Segment(toks []token.Token) Parsed {
	var p Parsed
	var buf []token.Token

	flush := func(comma *token.Token) {
		start, end := significantBounds(buf)
		if start < 0 {
			p.glue(buf)
			if comma != nil {
				// `Default,, Apples`: пустая группа держит запятую на месте
				p.Groups = append(p.Groups, []token.Token{})
				p.Separators = append(p.Separators, []token.Token{*comma})
			}
			buf = nil
			return
		}
		p.glue(buf[:start])
		p.Groups = append(p.Groups, clone(buf[start:end+1]))
		sep := clone(buf[end+1:])
		if comma != nil {
			sep = append(sep, *comma)
		}
		if len(sep) > 0 {
			p.Separators = append(p.Separators, sep)
		}
		buf = nil
	}

	for _, tok := range toks {
		if tok.Kind == token.Comma {
			c := tok
			flush(&c)
			continue
		}
		buf = append(buf, tok)
	}
	if len(buf) > 0 {
		flush(nil)
	}
	return p
}

// glue attaches tokens that precede a group (or trail the list) to the last
// separator, or to Leading when there is none yet.
func (p *Parsed) glue(toks []token.Token) {
	if len(toks) == 0 {
		return
	}
	if n := len(p.Separators); n > 0 {
		p.Separators[n-1] = append(p.Separators[n-1], toks...)
		return
	}
	p.Leading = append(p.Leading, toks...)
}

// TokenCount returns the number of tokens held by p.
func (p *Parsed) TokenCount() int {
	n := len(p.Leading)
	for _, g := range p.Groups {
		n += len(g)
	}
	for _, s := range p.Separators {
		n += len(s)
	}
	return n
}

// significantBounds returns the indexes of the first and last tokens that
// are neither trivia nor commas, or -1, -1.
func significantBounds(toks []token.Token) (start, end int) {
	start, end = -1, -1
	for i, t := range toks {
		if isSignificant(t) {
			if start < 0 {
				start = i
			}
			end = i
		}
	}
	return start, end
}

func isSignificant(t token.Token) bool {
	return !t.IsTrivia() && t.Kind != token.Comma
}

func clone(toks []token.Token) []token.Token {
	return append([]token.Token(nil), toks...)
}
