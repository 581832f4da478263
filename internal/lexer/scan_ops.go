package lexer

import (
	"derivefmt/internal/diag"
	"derivefmt/internal/token"
)

// Жадность: сначала 3-символьные, затем 2-символьные, затем 1-символьные.
// Склеиваются только .., ..=, ..., ::, ->, =>, ==, !=, <=, >=, && и ||;
// << и >> остаются двумя токенами, чтобы не мешать закрытию дженериков.
func (lx *Lexer) scanOperatorOrPunct() token.Token {
	start := lx.cursor.Mark()

	switch {
	case lx.cursor.EatPrefix("..="):
		return lx.emit(token.DotDotEq, start)
	case lx.cursor.EatPrefix("..."):
		return lx.emit(token.DotDotDot, start)
	case lx.cursor.EatPrefix(".."):
		return lx.emit(token.DotDot, start)
	case lx.cursor.EatPrefix("::"):
		return lx.emit(token.ColonColon, start)
	case lx.cursor.EatPrefix("->"):
		return lx.emit(token.Arrow, start)
	case lx.cursor.EatPrefix("=>"):
		return lx.emit(token.FatArrow, start)
	case lx.cursor.EatPrefix("&&"):
		return lx.emit(token.AndAnd, start)
	case lx.cursor.EatPrefix("||"):
		return lx.emit(token.OrOr, start)
	case lx.cursor.EatPrefix("=="):
		return lx.emit(token.EqEq, start)
	case lx.cursor.EatPrefix("!="):
		return lx.emit(token.BangEq, start)
	case lx.cursor.EatPrefix("<="):
		return lx.emit(token.LtEq, start)
	case lx.cursor.EatPrefix(">="):
		return lx.emit(token.GtEq, start)
	}

	kind, ok := singlePunct[lx.cursor.Peek()]
	if !ok {
		return lx.scanUnknown()
	}
	lx.cursor.Bump()
	return lx.emit(kind, start)
}

var singlePunct = map[byte]token.Kind{
	'+': token.Plus,
	'-': token.Minus,
	'*': token.Star,
	'/': token.Slash,
	'%': token.Percent,
	'^': token.Caret,
	'!': token.Bang,
	'&': token.Amp,
	'|': token.Pipe,
	'=': token.Eq,
	'<': token.Lt,
	'>': token.Gt,
	'@': token.At,
	'.': token.Dot,
	',': token.Comma,
	';': token.Semicolon,
	':': token.Colon,
	'#': token.Pound,
	'$': token.Dollar,
	'?': token.Question,
	'~': token.Tilde,
	'(': token.LParen,
	')': token.RParen,
	'{': token.LBrace,
	'}': token.RBrace,
	'[': token.LBracket,
	']': token.RBracket,
}

// scanUnknown съедает одну руну и репортит её как неизвестный символ.
func (lx *Lexer) scanUnknown() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.BumpRune()
	tok := lx.emit(token.Invalid, start)
	lx.errLex(diag.LexUnknownChar, tok.Span, "unknown character")
	return tok
}
