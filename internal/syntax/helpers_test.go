package syntax

import (
	"testing"

	"derivefmt/internal/lexer"
	"derivefmt/internal/source"
	"derivefmt/internal/token"
)

func lexString(t *testing.T, src string) []token.Token {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.rs", []byte(src))
	return lexer.New(fs.Get(id), lexer.Options{Edition: lexer.Edition2021}).All()
}

func parseString(t *testing.T, src string) *Node {
	t.Helper()
	root, err := Parse(lexString(t, src))
	if err != nil {
		t.Fatalf("Parse(%q): %v", src, err)
	}
	return root
}
