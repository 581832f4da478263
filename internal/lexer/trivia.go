package lexer

import (
	"bytes"

	"derivefmt/internal/diag"
	"derivefmt/internal/token"
)

const bom = "\xEF\xBB\xBF"

// scanFileStart распознаёт BOM и shebang-строку в начале файла.
func (lx *Lexer) scanFileStart() (token.Token, bool) {
	start := lx.cursor.Mark()
	if lx.cursor.EatPrefix(bom) {
		return lx.emit(token.ByteOrderMark, start), true
	}
	return lx.scanShebang()
}

// scanShebang: "#!" в начале файла — комментарий, если дальше не идёт '['
// (иначе это внутренний атрибут #![...]).
func (lx *Lexer) scanShebang() (token.Token, bool) {
	if !lx.cursor.HasPrefix("#!") || nextSignificant(lx.cursor.Rest()[2:]) == '[' {
		return token.Token{}, false
	}
	start := lx.cursor.Mark()
	for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
		lx.cursor.Bump()
	}
	return lx.emit(token.LineComment, start), true
}

// nextSignificant returns the first byte that is not whitespace or inside a comment.
func nextSignificant(rest []byte) byte {
	for i := 0; i < len(rest); {
		switch {
		case isWhitespaceByte(rest[i]):
			i++
		case bytes.HasPrefix(rest[i:], []byte("//")):
			nl := bytes.IndexByte(rest[i:], '\n')
			if nl < 0 {
				return 0
			}
			i += nl
		case bytes.HasPrefix(rest[i:], []byte("/*")):
			end := bytes.Index(rest[i+2:], []byte("*/"))
			if end < 0 {
				return 0
			}
			i += end + 4
		default:
			return rest[i]
		}
	}
	return 0
}

// scanWhitespace коалесцирует подряд идущие пробельные символы в один токен.
func (lx *Lexer) scanWhitespace() token.Token {
	start := lx.cursor.Mark()
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		if isWhitespaceByte(b) {
			lx.cursor.Bump()
			continue
		}
		if b >= utf8RuneSelf {
			if r, _ := lx.cursor.Rune(); isUnicodeWhitespace(r) {
				lx.cursor.BumpRune()
				continue
			}
		}
		break
	}
	return lx.emit(token.Whitespace, start)
}

// scanComment: "//..." до '\n' (не включая) и "/* ... */" с вложенностью.
// Doc-комментарии (///, //!, /** */) остаются обычными комментариями.
func (lx *Lexer) scanComment() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // '/'
	if lx.cursor.Eat('/') {
		for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
			lx.cursor.Bump()
		}
		return lx.emit(token.LineComment, start)
	}

	lx.cursor.Bump() // '*'
	depth := 1
	for !lx.cursor.EOF() && depth > 0 {
		switch {
		case lx.cursor.EatPrefix("/*"):
			depth++
		case lx.cursor.EatPrefix("*/"):
			depth--
		default:
			lx.cursor.Bump()
		}
	}
	tok := lx.emit(token.BlockComment, start)
	if depth > 0 {
		lx.errLex(diag.LexUnterminatedBlockComment, tok.Span, "unterminated block comment")
	}
	return tok
}
