package derive

import (
	"derivefmt/internal/syntax"
	"derivefmt/internal/token"
)

// Build regenerates the derive list as an undelimited token tree: leading,
// then each group followed by the separator at the same position, then any
// separators left over.
func Build(leading []token.Token, groups, separators [][]token.Token) *syntax.Node {
	children := make([]*syntax.Node, 0, len(leading)+2*len(groups))
	children = appendLeaves(children, leading)
	for i, g := range groups {
		children = appendLeaves(children, g)
		if i < len(separators) {
			children = appendLeaves(children, separators[i])
		}
	}
	for i := len(groups); i < len(separators); i++ {
		children = appendLeaves(children, separators[i])
	}
	return syntax.NewTree(children...)
}

func appendLeaves(out []*syntax.Node, toks []token.Token) []*syntax.Node {
	for _, t := range toks {
		out = append(out, syntax.Leaf(t))
	}
	return out
}
