package syntax

import (
	"strings"

	"derivefmt/internal/source"
	"derivefmt/internal/token"
)

// Attr is an attribute: `#[...]` (outer) or `#![...]` (inner).
type Attr struct {
	Inner bool
	Pound token.Token
	// Tree is the bracketed body, including the [ and ] leaves.
	Tree *Node
}

// Span covers the attribute from '#' to ']'.
func (a Attr) Span() source.Span {
	return a.Pound.Span.Cover(a.Tree.Span())
}

// Path returns the attribute path with trivia removed, e.g. "derive" or
// "serde::rename", and the index in Tree.Inner() just past it.
func (a Attr) Path() (string, int) {
	var sb strings.Builder
	kids := a.Tree.Inner()
	i := nextSignificant(kids, 0)
	if i < len(kids) && isTokenKind(kids[i], token.ColonColon) {
		sb.WriteString("::")
		i = nextSignificant(kids, i+1)
	}
	for i < len(kids) && isTokenKind(kids[i], token.Ident) {
		sb.WriteString(kids[i].Token.Text)
		j := nextSignificant(kids, i+1)
		if j >= len(kids) || !isTokenKind(kids[j], token.ColonColon) {
			return sb.String(), j
		}
		sb.WriteString("::")
		i = nextSignificant(kids, j+1)
	}
	return sb.String(), i
}

// SimpleName returns the attribute name when its path is a single
// unqualified segment.
func (a Attr) SimpleName() (string, bool) {
	path, _ := a.Path()
	if path == "" || strings.Contains(path, "::") {
		return "", false
	}
	return path, true
}

// TokenTreeArgument returns the parenthesized tree following the path,
// as in derive(...).
func (a Attr) TokenTreeArgument() (*Node, bool) {
	_, next := a.Path()
	kids := a.Tree.Inner()
	if next >= len(kids) || kids[next].Delimiter() != token.LParen {
		return nil, false
	}
	return kids[next], true
}

// FindAttributes returns every attribute in the tree, in source order.
// Bodies of attributes and macro invocations are not searched: their
// contents are opaque token streams.
func FindAttributes(root *Node) []Attr {
	var out []Attr
	walkAttrs(root, &out)
	return out
}

func walkAttrs(n *Node, out *[]Attr) {
	kids := n.Children
	for i := 0; i < len(kids); i++ {
		c := kids[i]
		if !c.IsToken() {
			walkAttrs(c, out)
			continue
		}
		switch {
		case c.Token.Kind == token.Pound:
			j := nextSignificant(kids, i+1)
			inner := false
			if j < len(kids) && isTokenKind(kids[j], token.Bang) {
				inner = true
				j = nextSignificant(kids, j+1)
			}
			if j < len(kids) && kids[j].Delimiter() == token.LBracket {
				*out = append(*out, Attr{Inner: inner, Pound: c.Token, Tree: kids[j]})
				i = j
			}

		case c.Token.Kind == token.Ident && !isReserved(c.Token.Text):
			if body := macroBody(kids, i); body > i {
				i = body
			}
		}
	}
}

// macroBody returns the index of the delimited body of a macro invocation
// (`name!(...)`) or definition (`macro_rules! name {...}`) starting at the
// identifier kids[i], or -1.
func macroBody(kids []*Node, i int) int {
	j := nextSignificant(kids, i+1)
	if j >= len(kids) || !isTokenKind(kids[j], token.Bang) {
		return -1
	}
	k := nextSignificant(kids, j+1)
	if kids[i].Token.Text == "macro_rules" && k < len(kids) && isTokenKind(kids[k], token.Ident) {
		k = nextSignificant(kids, k+1)
	}
	if k < len(kids) && kids[k].Delimiter() != token.Invalid {
		return k
	}
	return -1
}

func nextSignificant(kids []*Node, from int) int {
	for from < len(kids) && kids[from].IsTrivia() {
		from++
	}
	return from
}

func isTokenKind(n *Node, k token.Kind) bool {
	return n.IsToken() && n.Token.Kind == k
}

// Keywords that may be directly followed by `!` without forming a macro call
// (`if !x`, `return !(a)`, `impl !Send`).
var reserved = map[string]struct{}{
	"as": {}, "async": {}, "await": {}, "box": {}, "break": {}, "const": {}, "continue": {},
	"dyn": {}, "else": {}, "for": {}, "if": {}, "impl": {}, "in": {}, "let": {}, "loop": {},
	"match": {}, "move": {}, "mut": {}, "ref": {}, "return": {}, "static": {}, "unsafe": {},
	"where": {}, "while": {}, "yield": {},
}

func isReserved(ident string) bool {
	_, ok := reserved[ident]
	return ok
}
