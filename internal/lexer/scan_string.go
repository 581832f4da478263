package lexer

import (
	"derivefmt/internal/diag"
	"derivefmt/internal/token"
)

// scanString сканирует "..." (курсор на открывающей кавычке). Перевод строки
// внутри литерала допустим; escape-последовательности не валидируются.
func (lx *Lexer) scanString(start Mark, kind token.Kind) token.Token {
	lx.cursor.Bump() // opening '"'
	for !lx.cursor.EOF() {
		switch lx.cursor.Bump() {
		case '"':
			lx.eatSuffix()
			return lx.emit(kind, start)
		case '\\':
			lx.cursor.Bump()
		}
	}
	tok := lx.emit(token.Invalid, start)
	lx.errLex(diag.LexUnterminatedString, tok.Span, "unterminated string literal")
	return tok
}

// scanRawString сканирует #*"..."#* (курсор после префикса r/br/cr).
func (lx *Lexer) scanRawString(start Mark, kind token.Kind) token.Token {
	hashes := 0
	for lx.cursor.Eat('#') {
		hashes++
	}
	if !lx.cursor.Eat('"') {
		tok := lx.emit(token.Invalid, start)
		lx.errLex(diag.LexBadRawString, tok.Span, "expected '\"' after raw string prefix")
		return tok
	}
	for !lx.cursor.EOF() {
		if lx.cursor.Bump() != '"' {
			continue
		}
		closing := 0
		for closing < hashes && lx.cursor.Peek() == '#' {
			lx.cursor.Bump()
			closing++
		}
		if closing == hashes {
			lx.eatSuffix()
			return lx.emit(kind, start)
		}
	}
	tok := lx.emit(token.Invalid, start)
	lx.errLex(diag.LexUnterminatedString, tok.Span, "unterminated raw string literal")
	return tok
}

// scanQuote различает лайфтайм ('a, 'static, 'r#a) и символьный литерал ('a', '\n').
func (lx *Lexer) scanQuote() token.Token {
	start := lx.cursor.Mark()
	if lx.cursor.PeekAt(1) == 'r' && lx.cursor.PeekAt(2) == '#' && lx.identStartsAt(3) {
		lx.cursor.Off += 3
		lx.eatIdentContinue()
		return lx.emit(token.Lifetime, start)
	}
	if lx.identStartsAt(1) {
		lx.cursor.Bump() // '\''
		lx.cursor.BumpRune()
		if lx.cursor.Peek() == '\'' {
			// 'a' — односимвольный литерал
			lx.cursor.Bump()
			lx.eatSuffix()
			return lx.emit(token.CharLit, start)
		}
		lx.eatIdentContinue()
		return lx.emit(token.Lifetime, start)
	}
	return lx.scanCharLit(start, token.CharLit)
}

// scanCharLit сканирует '...' (курсор на открывающей кавычке).
func (lx *Lexer) scanCharLit(start Mark, kind token.Kind) token.Token {
	lx.cursor.Bump() // opening '\''
	if lx.cursor.Peek() == '\\' {
		lx.cursor.Bump()
		lx.cursor.BumpRune()
		// \u{...} и \x.. — до закрывающей кавычки в пределах строки
		for !lx.cursor.EOF() && lx.cursor.Peek() != '\'' && lx.cursor.Peek() != '\n' {
			lx.cursor.Bump()
		}
	} else if !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
		lx.cursor.BumpRune()
	}
	if lx.cursor.Eat('\'') {
		lx.eatSuffix()
		return lx.emit(kind, start)
	}
	tok := lx.emit(token.Invalid, start)
	lx.errLex(diag.LexUnterminatedChar, tok.Span, "unterminated character literal")
	return tok
}
