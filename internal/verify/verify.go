// Package verify checks that Rust source still parses, using the
// tree-sitter Rust grammar.
package verify

import (
	"context"
	"errors"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/rust"
)

// ErrSyntax matches every *SyntaxError.
var ErrSyntax = errors.New("verify: syntax error")

// SyntaxError locates the first error node of a parse. Line and Column are
// 1-based; Column counts bytes.
type SyntaxError struct {
	Line    int
	Column  int
	Node    string
	Missing bool
}

func (e *SyntaxError) Error() string {
	if e.Missing {
		return fmt.Sprintf("verify: %d:%d: missing %s", e.Line, e.Column, e.Node)
	}
	return fmt.Sprintf("verify: %d:%d: syntax error", e.Line, e.Column)
}

func (e *SyntaxError) Is(target error) bool { return target == ErrSyntax }

// Check parses content and returns a *SyntaxError for the first error node,
// or nil when the tree is clean.
func Check(ctx context.Context, content []byte) error {
	// Parser не потокобезопасен, на каждый вызов свой
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(rust.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, content)
	if err != nil {
		return fmt.Errorf("verify: parse failed: %w", err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if !root.HasError() {
		return nil
	}
	n := firstError(root)
	if n == nil {
		n = root
	}
	pt := n.StartPoint()
	return &SyntaxError{
		Line:    int(pt.Row) + 1,
		Column:  int(pt.Column) + 1,
		Node:    n.Type(),
		Missing: n.IsMissing(),
	}
}

// firstError returns the first ERROR or MISSING node in document order.
func firstError(n *sitter.Node) *sitter.Node {
	if n.IsError() || n.IsMissing() {
		return n
	}
	if !n.HasError() {
		return nil
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		if found := firstError(n.Child(i)); found != nil {
			return found
		}
	}
	return nil
}

// Pair verifies a rewrite. An input that does not parse is reported with
// inputOK false. An output that stops parsing is an error.
func Pair(ctx context.Context, before, after []byte) (inputOK bool, err error) {
	if err := Check(ctx, before); err != nil {
		return false, err
	}
	if err := Check(ctx, after); err != nil {
		return true, fmt.Errorf("verify: rewritten source no longer parses: %w", err)
	}
	return true, nil
}
