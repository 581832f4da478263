package lexer

import (
	"unicode"
	"unicode/utf8"
)

const utf8RuneSelf = utf8.RuneSelf

// eatIdentContinue consumes the rest of an identifier.
func (lx *Lexer) eatIdentContinue() {
	for !lx.cursor.EOF() {
		if b := lx.cursor.Peek(); b < utf8RuneSelf {
			if !isIdentContinueByte(b) {
				return
			}
			lx.cursor.Bump()
			continue
		}
		if r, _ := lx.cursor.Rune(); !isIdentContinueRune(r) {
			return
		}
		lx.cursor.BumpRune()
	}
}

// identStartsAt reports whether an identifier starts n bytes ahead.
func (lx *Lexer) identStartsAt(n uint32) bool {
	b := lx.cursor.PeekAt(n)
	if b < utf8RuneSelf {
		return isIdentStartByte(b)
	}
	r, _ := utf8.DecodeRune(lx.cursor.Rest()[n:])
	return isIdentStartRune(r)
}

func isIdentStartByte(b byte) bool {
	return b == '_' || 'a' <= b && b <= 'z' || 'A' <= b && b <= 'Z'
}

func isIdentContinueByte(b byte) bool { return isIdentStartByte(b) || isDec(b) }

// XID_Start и XID_Continue приближены категориями unicode.
func isIdentStartRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.In(r, unicode.Nl, unicode.Other_ID_Start)
}

func isIdentContinueRune(r rune) bool {
	return isIdentStartRune(r) || unicode.IsDigit(r) ||
		unicode.In(r, unicode.Mn, unicode.Mc, unicode.Pc, unicode.Other_ID_Continue)
}

func isWhitespaceByte(b byte) bool {
	return b == ' ' || '\t' <= b && b <= '\r'
}

// isUnicodeWhitespace covers Pattern_White_Space above ASCII.
func isUnicodeWhitespace(r rune) bool {
	switch r {
	case '\u0085', '\u200E', '\u200F', '\u2028', '\u2029':
		return true
	}
	return false
}

func isASCII(s string) bool {
	for i := range len(s) {
		if s[i] >= utf8RuneSelf {
			return false
		}
	}
	return true
}

func isDec(b byte) bool { return '0' <= b && b <= '9' }

func isHex(b byte) bool {
	return isDec(b) || 'a' <= b && b <= 'f' || 'A' <= b && b <= 'F'
}
