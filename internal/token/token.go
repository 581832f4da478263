package token

import (
	"strings"

	"derivefmt/internal/source"
)

// Token represents a single source token with its location.
type Token struct {
	Kind Kind
	Span source.Span
	Text string
}

// IsTrivia reports whether the token is whitespace or a comment.
func (t Token) IsTrivia() bool { return t.Kind.IsTrivia() }

// IsLiteral reports whether the token is a character, string, or numeric literal.
func (t Token) IsLiteral() bool { return t.Kind.IsLiteral() }

// IsIdent reports whether the token is an identifier (keywords included).
func (t Token) IsIdent() bool { return t.Kind == Ident }

// Is reports whether the token has kind k and, for identifiers, text text.
func (t Token) Is(k Kind, text string) bool {
	return t.Kind == k && t.Text == text
}

// Concat joins token texts in order.
func Concat(toks []Token) string {
	var sb strings.Builder
	for _, t := range toks {
		sb.WriteString(t.Text)
	}
	return sb.String()
}
