package derive

import (
	"derivefmt/internal/syntax"
	"derivefmt/internal/token"
)

// Skip explains why an attribute is not rewritten.
type Skip uint8

const (
	SkipNone Skip = iota
	// SkipInner: #![...] attributes apply to the enclosing item.
	SkipInner
	SkipNotDerive
	// SkipNoArguments: `#[derive]`, `#[derive = ...]` or a non-parenthesized list.
	SkipNoArguments
	// SkipNestedTree: the list contains a delimited group, e.g. a macro call.
	SkipNestedTree
)

func (s Skip) String() string {
	switch s {
	case SkipNone:
		return "none"
	case SkipInner:
		return "inner attribute"
	case SkipNotDerive:
		return "not a derive"
	case SkipNoArguments:
		return "no argument list"
	case SkipNestedTree:
		return "nested token tree"
	}
	return "unknown"
}

// Site is an outer derive attribute whose argument list holds only tokens.
type Site struct {
	Attr syntax.Attr
	// Args is the parenthesized argument tree, delimiters included.
	Args *syntax.Node
}

// Tokens returns the tokens strictly inside the parentheses.
func (s Site) Tokens() []token.Token {
	inner := s.Args.Inner()
	out := make([]token.Token, 0, len(inner))
	for _, n := range inner {
		out = append(out, n.Token)
	}
	return out
}

// Classify decides whether attr is a rewritable derive site.
func Classify(attr syntax.Attr) (Site, Skip) {
	if attr.Inner {
		return Site{}, SkipInner
	}
	if name, ok := attr.SimpleName(); !ok || name != "derive" {
		return Site{}, SkipNotDerive
	}
	args, ok := attr.TokenTreeArgument()
	if !ok {
		return Site{}, SkipNoArguments
	}
	for _, n := range args.Inner() {
		if !n.IsToken() {
			return Site{}, SkipNestedTree
		}
	}
	return Site{Attr: attr, Args: args}, SkipNone
}
