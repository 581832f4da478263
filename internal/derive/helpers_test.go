package derive

import (
	"strings"
	"testing"

	"derivefmt/internal/lexer"
	"derivefmt/internal/source"
	"derivefmt/internal/token"
)

func lexList(t *testing.T, src string) []token.Token {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("list.rs", []byte(src))
	return lexer.New(fs.Get(id), lexer.Options{Edition: lexer.Edition2021}).All()
}

func texts(groups [][]token.Token) []string {
	out := make([]string, 0, len(groups))
	for _, g := range groups {
		out = append(out, token.Concat(g))
	}
	return out
}

func mustRewrite(t *testing.T, src string) string {
	t.Helper()
	got, err := RewriteString(src)
	if err != nil {
		t.Fatalf("RewriteString(%q): %v", src, err)
	}
	return got
}

// tokenBag counts token texts, ignoring order.
func tokenBag(t *testing.T, src string) map[string]int {
	t.Helper()
	bag := map[string]int{}
	for _, tok := range lexList(t, src) {
		bag[strings.Clone(tok.Text)]++
	}
	return bag
}

func lexGroups(t *testing.T, srcs []string) [][]token.Token {
	t.Helper()
	out := make([][]token.Token, 0, len(srcs))
	for _, s := range srcs {
		out = append(out, lexList(t, s))
	}
	return out
}
