// Package token defines lexical token kinds for Rust source text.
// Invariants:
//   - Token.Text is a slice of the original source (no copies).
//   - Token.Span matches Text exactly (Start..End).
//   - Trivia (whitespace and comments) stays in the token stream, so the
//     concatenation of all Text values reproduces the file byte for byte.
//   - Keywords are lexed as Ident; only the parser-level code cares about them.
package token
