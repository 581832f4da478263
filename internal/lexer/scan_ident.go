package lexer

import (
	"fmt"

	"golang.org/x/text/unicode/norm"

	"derivefmt/internal/diag"
	"derivefmt/internal/token"
)

// scanIdentOrPrefixed сканирует идентификатор, raw-идентификатор (r#name)
// или литерал с префиксом: r"..", b'x', b"..", br"..", c"..", cr"..".
// Ключевые слова остаются Ident. Token.Text — ровно исходный срез.
func (lx *Lexer) scanIdentOrPrefixed() token.Token {
	start := lx.cursor.Mark()
	b1, b2 := lx.cursor.PeekAt(1), lx.cursor.PeekAt(2)

	switch lx.cursor.Peek() {
	case 'r':
		if b1 == '"' || (b1 == '#' && (b2 == '#' || b2 == '"')) {
			lx.cursor.Bump()
			return lx.scanRawString(start, token.RawStringLit)
		}
		if b1 == '#' && lx.identStartsAt(2) {
			lx.cursor.Off += 2
			lx.eatIdentContinue()
			return lx.emitIdent(start)
		}
	case 'b':
		switch {
		case b1 == '\'':
			lx.cursor.Bump()
			return lx.scanCharLit(start, token.ByteLit)
		case b1 == '"':
			lx.cursor.Bump()
			return lx.scanString(start, token.ByteStringLit)
		case b1 == 'r' && (b2 == '"' || b2 == '#'):
			lx.cursor.Off += 2
			return lx.scanRawString(start, token.RawByteStringLit)
		}
	case 'c':
		// C-строки появились в edition 2021; раньше c"..." — это ident + строка.
		if lx.opts.Edition >= Edition2021 {
			switch {
			case b1 == '"':
				lx.cursor.Bump()
				return lx.scanString(start, token.CStringLit)
			case b1 == 'r' && (b2 == '"' || b2 == '#'):
				lx.cursor.Off += 2
				return lx.scanRawString(start, token.RawCStringLit)
			}
		}
	}

	lx.eatIdentContinue()
	return lx.emitIdent(start)
}

// emitIdent предупреждает об идентификаторах не в NFC; rustc читает их
// нормализованными, Token.Text остаётся исходным.
func (lx *Lexer) emitIdent(start Mark) token.Token {
	tok := lx.emit(token.Ident, start)
	if !isASCII(tok.Text) && !norm.NFC.IsNormalString(tok.Text) {
		lx.warnLex(diag.LexIdentNotNFC, tok.Span,
			fmt.Sprintf("identifier %q is not in NFC; rustc reads it as %q", tok.Text, norm.NFC.String(tok.Text)))
	}
	return tok
}

// eatSuffix съедает суффикс литерала (1u8, "x"suffix).
func (lx *Lexer) eatSuffix() {
	if lx.identStartsAt(0) {
		lx.eatIdentContinue()
	}
}
