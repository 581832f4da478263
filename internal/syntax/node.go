package syntax

import (
	"fmt"
	"strings"

	"derivefmt/internal/source"
	"derivefmt/internal/token"
)

// Kind classifies a Node.
type Kind uint8

const (
	KindRoot Kind = iota
	KindTokenTree
	KindToken
)

func (k Kind) String() string {
	switch k {
	case KindRoot:
		return "Root"
	case KindTokenTree:
		return "TokenTree"
	case KindToken:
		return "Token"
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Node is an element of the token tree. Token is set only for KindToken.
type Node struct {
	Kind     Kind
	Token    token.Token
	Children []*Node
}

// Leaf wraps a single token.
func Leaf(tok token.Token) *Node {
	return &Node{Kind: KindToken, Token: tok}
}

// NewTree returns a token tree with the given children.
func NewTree(children ...*Node) *Node {
	return &Node{Kind: KindTokenTree, Children: children}
}

// IsToken reports whether n is a leaf.
func (n *Node) IsToken() bool { return n.Kind == KindToken }

// IsTrivia reports whether n is a whitespace or comment leaf.
func (n *Node) IsTrivia() bool { return n.Kind == KindToken && n.Token.IsTrivia() }

// Delimiter returns the opening delimiter kind of a delimited tree, or
// token.Invalid for leaves, the root and undelimited trees.
func (n *Node) Delimiter() token.Kind {
	if n.Kind != KindTokenTree || len(n.Children) < 2 {
		return token.Invalid
	}
	first := n.Children[0]
	if !first.IsToken() || !first.Token.Kind.IsOpenDelim() {
		return token.Invalid
	}
	return first.Token.Kind
}

// Inner returns the children between the delimiters of a delimited tree,
// or all children otherwise.
func (n *Node) Inner() []*Node {
	if n.Delimiter() == token.Invalid {
		return n.Children
	}
	return n.Children[1 : len(n.Children)-1]
}

// Tokens flattens n into its leaf tokens in source order.
func (n *Node) Tokens() []token.Token {
	return n.appendTokens(nil)
}

func (n *Node) appendTokens(out []token.Token) []token.Token {
	if n.IsToken() {
		return append(out, n.Token)
	}
	for _, c := range n.Children {
		out = c.appendTokens(out)
	}
	return out
}

// Text returns the concatenated text of every token below n.
func (n *Node) Text() string {
	var sb strings.Builder
	n.writeText(&sb)
	return sb.String()
}

func (n *Node) writeText(sb *strings.Builder) {
	if n.IsToken() {
		sb.WriteString(n.Token.Text)
		return
	}
	for _, c := range n.Children {
		c.writeText(sb)
	}
}

// Span covers the first through the last token of n. The result is only
// meaningful for nodes whose tokens come from one contiguous source range.
func (n *Node) Span() source.Span {
	toks := n.Tokens()
	if len(toks) == 0 {
		return source.Span{}
	}
	return toks[0].Span.Cover(toks[len(toks)-1].Span)
}

// Clone returns a deep copy of n. Tokens are values and are shared by copy.
func (n *Node) Clone() *Node {
	cp := &Node{Kind: n.Kind, Token: n.Token}
	if n.Children != nil {
		cp.Children = make([]*Node, len(n.Children))
		for i, c := range n.Children {
			cp.Children[i] = c.Clone()
		}
	}
	return cp
}

// Splice replaces the children in [from, to) with repl.
func (n *Node) Splice(from, to int, repl ...*Node) error {
	if n.IsToken() {
		return fmt.Errorf("syntax: splice into a token leaf")
	}
	if from < 0 || to < from || to > len(n.Children) {
		return fmt.Errorf("syntax: splice range [%d,%d) out of bounds (%d children)", from, to, len(n.Children))
	}
	out := make([]*Node, 0, len(n.Children)-(to-from)+len(repl))
	out = append(out, n.Children[:from]...)
	out = append(out, repl...)
	out = append(out, n.Children[to:]...)
	n.Children = out
	return nil
}

// Dump renders the tree structure for debugging.
func (n *Node) Dump() string {
	var sb strings.Builder
	n.dump(&sb, 0)
	return sb.String()
}

func (n *Node) dump(sb *strings.Builder, depth int) {
	sb.WriteString(strings.Repeat("  ", depth))
	if n.IsToken() {
		fmt.Fprintf(sb, "%v %q\n", n.Token.Kind, n.Token.Text)
		return
	}
	fmt.Fprintf(sb, "%v\n", n.Kind)
	for _, c := range n.Children {
		c.dump(sb, depth+1)
	}
}
