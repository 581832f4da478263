package lexer_test

import (
	"fmt"
	"strings"
	"testing"

	"derivefmt/internal/diag"
	"derivefmt/internal/lexer"
	"derivefmt/internal/source"
	"derivefmt/internal/token"
)

// testReporter собирает все диагностики, полученные от лексера
type testReporter struct {
	diagnostics []diag.Diagnostic
}

func (r *testReporter) Report(d diag.Diagnostic) {
	r.diagnostics = append(r.diagnostics, d)
}

func (r *testReporter) codes() []diag.Code {
	out := make([]diag.Code, 0, len(r.diagnostics))
	for _, d := range r.diagnostics {
		out = append(out, d.Code)
	}
	return out
}

func lex(input string, edition lexer.Edition) ([]token.Token, *testReporter) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.rs", []byte(input))
	reporter := &testReporter{}
	lx := lexer.New(fs.Get(fileID), lexer.Options{Reporter: reporter, Edition: edition})
	return lx.All(), reporter
}

// expectTokens проверяет последовательность токенов и lossless-инвариант
func expectTokens(t *testing.T, input string, expected []token.Kind) {
	t.Helper()
	tokens, reporter := lex(input, lexer.Edition2021)
	if got := token.Concat(tokens); got != input {
		t.Fatalf("round trip mismatch: %q != %q", got, input)
	}
	if len(tokens) != len(expected) {
		t.Fatalf("Expected %d tokens, got %d\nInput: %q\nTokens: %v\nErrors: %v",
			len(expected), len(tokens), input, tokensToString(tokens), reporter.codes())
	}
	for i, tok := range tokens {
		if tok.Kind != expected[i] {
			t.Errorf("Token %d: expected %v, got %v (text: %q)", i, expected[i], tok.Kind, tok.Text)
		}
	}
}

// expectSingleToken проверяет, что вход создаёт ровно один токен
func expectSingleToken(t *testing.T, input string, expectedKind token.Kind) {
	t.Helper()
	expectTokens(t, input, []token.Kind{expectedKind})
}

func tokensToString(tokens []token.Token) string {
	parts := make([]string, len(tokens))
	for i, tok := range tokens {
		parts[i] = fmt.Sprintf("%v(%q)", tok.Kind, tok.Text)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func TestDeriveAttribute(t *testing.T) {
	expectTokens(t, "#[derive(Debug, std::fmt::Display)]", []token.Kind{
		token.Pound, token.LBracket, token.Ident, token.LParen,
		token.Ident, token.Comma, token.Whitespace,
		token.Ident, token.ColonColon, token.Ident, token.ColonColon, token.Ident,
		token.RParen, token.RBracket,
	})
}

func TestInnerAttributeIsNotShebang(t *testing.T) {
	expectTokens(t, "#![allow(dead_code)]", []token.Kind{
		token.Pound, token.Bang, token.LBracket, token.Ident,
		token.LParen, token.Ident, token.RParen, token.RBracket,
	})
}

func TestShebangAndBOM(t *testing.T) {
	expectTokens(t, "\xEF\xBB\xBF#!/usr/bin/env run-cargo-script\nfn", []token.Kind{
		token.ByteOrderMark, token.LineComment, token.Whitespace, token.Ident,
	})
}

func TestIdentifiers(t *testing.T) {
	tests := []string{"foo", "_bar", "_", "x123", "r#type", "привет", "café"}
	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			expectSingleToken(t, input, token.Ident)
		})
	}
}

func TestIdentNotNFCWarns(t *testing.T) {
	tests := []struct {
		input string
		warn  bool
	}{
		{"e\u0301", true},
		{"r#e\u0301", true},
		{"\u00e9", false},
		{"caf\u00e9", false},
		{"plain", false},
	}
	for _, tt := range tests {
		tokens, reporter := lex(tt.input, lexer.Edition2021)
		if len(tokens) != 1 || tokens[0].Kind != token.Ident || tokens[0].Text != tt.input {
			t.Fatalf("%q: unexpected tokens: %s", tt.input, tokensToString(tokens))
		}
		if !tt.warn {
			if len(reporter.diagnostics) != 0 {
				t.Fatalf("%q: unexpected diagnostics: %v", tt.input, reporter.codes())
			}
			continue
		}
		if len(reporter.diagnostics) != 1 {
			t.Fatalf("%q: expected one warning, got %v", tt.input, reporter.codes())
		}
		d := reporter.diagnostics[0]
		if d.Code != diag.LexIdentNotNFC || d.Severity != diag.SevWarning {
			t.Fatalf("%q: got %v %v", tt.input, d.Severity, d.Code)
		}
		if !strings.Contains(d.Message, "\u00e9") {
			t.Fatalf("%q: message lacks the NFC form: %s", tt.input, d.Message)
		}
	}
}

func TestComments(t *testing.T) {
	expectTokens(t, "a // line\n/* outer /* inner */ still */b", []token.Kind{
		token.Ident, token.Whitespace, token.LineComment, token.Whitespace,
		token.BlockComment, token.Ident,
	})
	expectTokens(t, "/// doc\n//! inner doc", []token.Kind{
		token.LineComment, token.Whitespace, token.LineComment,
	})
}

func TestUnterminatedBlockComment(t *testing.T) {
	tokens, reporter := lex("/* never closed", lexer.Edition2021)
	if len(tokens) != 1 || tokens[0].Kind != token.BlockComment {
		t.Fatalf("unexpected tokens: %s", tokensToString(tokens))
	}
	if codes := reporter.codes(); len(codes) != 1 || codes[0] != diag.LexUnterminatedBlockComment {
		t.Fatalf("unexpected diagnostics: %v", codes)
	}
}

func TestWhitespaceCoalesced(t *testing.T) {
	expectTokens(t, "a \t\r\n\n  b", []token.Kind{token.Ident, token.Whitespace, token.Ident})
}

func TestLifetimesAndChars(t *testing.T) {
	tests := []struct {
		input string
		kind  token.Kind
	}{
		{"'a", token.Lifetime},
		{"'static", token.Lifetime},
		{"'r#fn", token.Lifetime},
		{"'a'", token.CharLit},
		{"'\\n'", token.CharLit},
		{"'\\''", token.CharLit},
		{"'\\u{1F600}'", token.CharLit},
		{"' '", token.CharLit},
		{"'я'", token.CharLit},
		{"b'x'", token.ByteLit},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			expectSingleToken(t, tt.input, tt.kind)
		})
	}
	expectTokens(t, "<'a>", []token.Kind{token.Lt, token.Lifetime, token.Gt})
}

func TestStrings(t *testing.T) {
	tests := []struct {
		input string
		kind  token.Kind
	}{
		{`"plain"`, token.StringLit},
		{`"esc \" quote"`, token.StringLit},
		{"\"multi\nline\"", token.StringLit},
		{`b"bytes"`, token.ByteStringLit},
		{`r"raw \ string"`, token.RawStringLit},
		{`r#"has "quotes""#`, token.RawStringLit},
		{`r##"a "# b"##`, token.RawStringLit},
		{`br#"raw bytes"#`, token.RawByteStringLit},
		{`c"cstr"`, token.CStringLit},
		{`cr#"raw c"#`, token.RawCStringLit},
		{`"suffix"sfx`, token.StringLit},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			expectSingleToken(t, tt.input, tt.kind)
		})
	}
}

func TestCStringRequiresEdition2021(t *testing.T) {
	tokens, _ := lex(`c"x"`, lexer.Edition2018)
	if len(tokens) != 2 || tokens[0].Kind != token.Ident || tokens[1].Kind != token.StringLit {
		t.Fatalf("edition 2018: %s", tokensToString(tokens))
	}
}

func TestUnterminatedString(t *testing.T) {
	tokens, reporter := lex(`"open`, lexer.Edition2021)
	if len(tokens) != 1 || tokens[0].Kind != token.Invalid || tokens[0].Text != `"open` {
		t.Fatalf("unexpected tokens: %s", tokensToString(tokens))
	}
	if codes := reporter.codes(); len(codes) != 1 || codes[0] != diag.LexUnterminatedString {
		t.Fatalf("unexpected diagnostics: %v", codes)
	}
}

func TestNumbers(t *testing.T) {
	tests := []struct {
		input string
		kind  token.Kind
	}{
		{"0", token.IntLit},
		{"1_000", token.IntLit},
		{"42u8", token.IntLit},
		{"0xFFu32", token.IntLit},
		{"0b1010", token.IntLit},
		{"0o777", token.IntLit},
		{"1.5", token.FloatLit},
		{"1.", token.FloatLit},
		{"1e10", token.FloatLit},
		{"2.5E-3f64", token.FloatLit},
		{"1f32", token.IntLit},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			expectSingleToken(t, tt.input, tt.kind)
		})
	}
	expectTokens(t, "0..10", []token.Kind{token.IntLit, token.DotDot, token.IntLit})
	expectTokens(t, "1.max(2)", []token.Kind{
		token.IntLit, token.Dot, token.Ident, token.LParen, token.IntLit, token.RParen,
	})
}

func TestOperators(t *testing.T) {
	expectTokens(t, "a::b->c=>d..e..=f...g==h!=i<=j>=k&&l||m", []token.Kind{
		token.Ident, token.ColonColon, token.Ident, token.Arrow, token.Ident, token.FatArrow,
		token.Ident, token.DotDot, token.Ident, token.DotDotEq, token.Ident, token.DotDotDot,
		token.Ident, token.EqEq, token.Ident, token.BangEq, token.Ident, token.LtEq,
		token.Ident, token.GtEq, token.Ident, token.AndAnd, token.Ident, token.OrOr, token.Ident,
	})
	expectTokens(t, "Vec<Vec<u8>>", []token.Kind{
		token.Ident, token.Lt, token.Ident, token.Lt, token.Ident, token.Gt, token.Gt,
	})
	expectTokens(t, "$x:ident", []token.Kind{token.Dollar, token.Ident, token.Colon, token.Ident})
}

func TestUnknownCharacter(t *testing.T) {
	tokens, reporter := lex("a ∆ b", lexer.Edition2021)
	if len(tokens) != 5 || tokens[2].Kind != token.Invalid || tokens[2].Text != "∆" {
		t.Fatalf("unexpected tokens: %s", tokensToString(tokens))
	}
	if codes := reporter.codes(); len(codes) != 1 || codes[0] != diag.LexUnknownChar {
		t.Fatalf("unexpected diagnostics: %v", codes)
	}
}

func TestSpansMatchText(t *testing.T) {
	input := "#[derive(Clone)] // комментарий\nstruct S<'a>(&'a str, r#\"x\"#);\n"
	tokens, _ := lex(input, lexer.Edition2021)
	for _, tok := range tokens {
		if got := input[tok.Span.Start:tok.Span.End]; got != tok.Text {
			t.Fatalf("span %v covers %q, token text %q", tok.Span, got, tok.Text)
		}
	}
}

func TestPeekDoesNotConsume(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("peek.rs", []byte("a b"))
	lx := lexer.New(fs.Get(id), lexer.Options{})
	if p := lx.Peek(); p.Text != "a" {
		t.Fatalf("Peek = %q", p.Text)
	}
	if n := lx.Next(); n.Text != "a" {
		t.Fatalf("Next after Peek = %q", n.Text)
	}
	lx.All()
	if eof := lx.Next(); eof.Kind != token.EOF {
		t.Fatalf("expected EOF, got %v", eof.Kind)
	}
}

func TestParseEdition(t *testing.T) {
	for _, s := range []string{"2015", "2018", "2021", "2024"} {
		e, err := lexer.ParseEdition(s)
		if err != nil {
			t.Fatalf("ParseEdition(%q): %v", s, err)
		}
		if e.String() != s {
			t.Fatalf("round trip %q -> %q", s, e.String())
		}
	}
	if _, err := lexer.ParseEdition("2020"); err == nil {
		t.Fatalf("expected error for unknown edition")
	}
}
