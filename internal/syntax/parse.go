package syntax

import (
	"fmt"

	"derivefmt/internal/diag"
	"derivefmt/internal/token"
)

// DelimiterError reports unbalanced delimiters.
type DelimiterError struct {
	Diag diag.Diagnostic
}

func (e *DelimiterError) Error() string {
	return fmt.Sprintf("syntax: %s at byte %d", e.Diag.Message, e.Diag.Primary.Start)
}

// Parse groups tokens into a tree of matched (), [] and {} pairs.
// Every input token ends up as exactly one leaf.
func Parse(toks []token.Token) (*Node, error) {
	root := &Node{Kind: KindRoot, Children: make([]*Node, 0, len(toks))}
	stack := []*Node{root}

	for _, tok := range toks {
		top := stack[len(stack)-1]
		switch {
		case tok.Kind.IsOpenDelim():
			tree := NewTree(Leaf(tok))
			top.Children = append(top.Children, tree)
			stack = append(stack, tree)

		case tok.Kind.IsCloseDelim():
			if len(stack) == 1 {
				return nil, &DelimiterError{Diag: diag.NewError(
					diag.SynUnexpectedCloser, tok.Span,
					fmt.Sprintf("unexpected closing delimiter %q", tok.Text))}
			}
			open := top.Children[0].Token
			if open.Kind.Closing() != tok.Kind {
				return nil, &DelimiterError{Diag: diag.NewError(
					diag.SynMismatchedDelimiter, tok.Span,
					fmt.Sprintf("mismatched closing delimiter %q", tok.Text)).
					WithNote(open.Span, fmt.Sprintf("%q opened here", open.Text))}
			}
			top.Children = append(top.Children, Leaf(tok))
			stack = stack[:len(stack)-1]

		default:
			top.Children = append(top.Children, Leaf(tok))
		}
	}

	if len(stack) > 1 {
		open := stack[len(stack)-1].Children[0].Token
		return nil, &DelimiterError{Diag: diag.NewError(
			diag.SynUnclosedDelimiter, open.Span,
			fmt.Sprintf("unclosed delimiter %q", open.Text))}
	}
	return root, nil
}
