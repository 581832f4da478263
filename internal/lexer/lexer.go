package lexer

import (
	"bytes"

	"derivefmt/internal/diag"
	"derivefmt/internal/source"
	"derivefmt/internal/token"
)

// maxTokenLength bounds a single token; anything longer is treated as garbage.
const maxTokenLength = 1 << 24

type Lexer struct {
	file   *source.File
	cursor Cursor
	opts   Options
	look   *token.Token // 1 элементный буфер для токена
}

func New(file *source.File, opts Options) *Lexer {
	return &Lexer{
		file:   file,
		cursor: NewCursor(file),
		opts:   opts,
		look:   nil,
	}
}

// Next возвращает следующий токен, включая trivia (пробелы и комментарии).
// После EOF всегда возвращает EOF.
func (lx *Lexer) Next() token.Token {
	if lx.look != nil {
		tok := *lx.look
		lx.look = nil
		return tok
	}

	if lx.cursor.EOF() {
		return token.Token{
			Kind: token.EOF,
			Span: lx.emptySpan(),
			Text: "",
		}
	}

	tok := lx.scan()
	if tok.Span.Len() > maxTokenLength {
		lx.errLex(diag.LexTokenTooLong, tok.Span, "token exceeds maximum length")
		// остаток файла не лексим: дальше только EOF
		lx.cursor.Off = lx.cursor.Limit
		sp := tok.Span
		sp.End = lx.cursor.Off
		return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
	}
	return tok
}

// Peek возвращает следующий токен, не потребляя его.
func (lx *Lexer) Peek() token.Token {
	t := lx.Next()
	lx.look = &t
	return t
}

// All lexes the remainder of the file. The EOF token is not included, so
// token.Concat(All()) equals the file content.
func (lx *Lexer) All() []token.Token {
	var out []token.Token
	for {
		tok := lx.Next()
		if tok.Kind == token.EOF {
			return out
		}
		out = append(out, tok)
	}
}

func (lx *Lexer) scan() token.Token {
	switch {
	case lx.cursor.Off == 0:
		if tok, ok := lx.scanFileStart(); ok {
			return tok
		}
	case lx.cursor.Off == uint32(len(bom)) && bytes.HasPrefix(lx.file.Content, []byte(bom)):
		if tok, ok := lx.scanShebang(); ok {
			return tok
		}
	}

	ch := lx.cursor.Peek()
	switch {
	case isWhitespaceByte(ch):
		return lx.scanWhitespace()
	case ch == '/' && (lx.cursor.PeekAt(1) == '/' || lx.cursor.PeekAt(1) == '*'):
		return lx.scanComment()
	case ch == '\'':
		return lx.scanQuote()
	case ch == '"':
		return lx.scanString(lx.cursor.Mark(), token.StringLit)
	case isDec(ch):
		return lx.scanNumber()
	case isIdentStartByte(ch):
		return lx.scanIdentOrPrefixed()
	case ch >= utf8RuneSelf:
		r, _ := lx.cursor.Rune()
		if isUnicodeWhitespace(r) {
			return lx.scanWhitespace()
		}
		if isIdentStartRune(r) {
			return lx.scanIdentOrPrefixed()
		}
		return lx.scanUnknown()
	default:
		return lx.scanOperatorOrPunct()
	}
}

func (lx *Lexer) emit(k token.Kind, start Mark) token.Token {
	sp := lx.cursor.SpanFrom(start)
	return token.Token{Kind: k, Span: sp, Text: lx.text(sp)}
}

func (lx *Lexer) text(sp source.Span) string {
	return string(lx.file.Content[sp.Start:sp.End])
}

func (lx *Lexer) emptySpan() source.Span {
	return source.Span{File: lx.file.ID, Start: lx.cursor.Off, End: lx.cursor.Off}
}
