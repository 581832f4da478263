package lexer

import (
	"derivefmt/internal/diag"
	"derivefmt/internal/token"
)

// Поддержка: 0, 1_000, 0b..., 0o..., 0x..., 1.0, 1., 1e-3, 1.0e+10 и суффиксы (u8, f32, ...).
// Суффикс остаётся частью Token.Text.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()

	if lx.cursor.Peek() == '0' {
		digit := isDecOrUnderscore
		switch lx.cursor.PeekAt(1) {
		case 'b', 'o':
		case 'x':
			digit = isHexOrUnderscore
		default:
			digit = nil
		}
		if digit != nil {
			lx.cursor.Off += 2
			n := lx.eatWhile(digit)
			if n == 0 {
				tok := lx.emit(token.Invalid, start)
				lx.errLex(diag.LexBadNumber, tok.Span, "expected digits after base prefix")
				return tok
			}
			lx.eatSuffix()
			return lx.emit(token.IntLit, start)
		}
	}

	kind := token.IntLit
	lx.eatWhile(isDecOrUnderscore)

	// дробная часть: "1.5", "1." но не "1..2" и не "1.foo()"
	if lx.cursor.Peek() == '.' && lx.cursor.PeekAt(1) != '.' && !lx.identStartsAt(1) {
		lx.cursor.Bump()
		kind = token.FloatLit
		if !isDec(lx.cursor.Peek()) {
			return lx.emit(kind, start)
		}
		lx.eatWhile(isDecOrUnderscore)
	}

	// экспонента
	if b := lx.cursor.Peek(); b == 'e' || b == 'E' {
		b1 := lx.cursor.PeekAt(1)
		signed := (b1 == '+' || b1 == '-') && isDec(lx.cursor.PeekAt(2))
		if isDec(b1) || signed {
			kind = token.FloatLit
			lx.cursor.Bump()
			if signed {
				lx.cursor.Bump()
			}
			lx.eatWhile(isDecOrUnderscore)
		}
	}

	lx.eatSuffix()
	return lx.emit(kind, start)
}

func (lx *Lexer) eatWhile(pred func(byte) bool) int {
	n := 0
	for !lx.cursor.EOF() && pred(lx.cursor.Peek()) {
		lx.cursor.Bump()
		n++
	}
	return n
}

func isDecOrUnderscore(b byte) bool { return isDec(b) || b == '_' }
func isHexOrUnderscore(b byte) bool { return isHex(b) || b == '_' }
