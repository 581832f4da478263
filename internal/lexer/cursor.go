package lexer

import (
	"fmt"
	"unicode/utf8"

	"derivefmt/internal/source"

	"fortio.org/safecast"
)

// Cursor walks the bytes of one file. Off never exceeds Limit.
type Cursor struct {
	File  *source.File
	Off   uint32
	Limit uint32
}

// NewCursor positions a cursor at the first byte of f.
func NewCursor(f *source.File) Cursor {
	limit, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		panic(fmt.Errorf("file %q is too large to lex: %w", f.Path, err))
	}
	return Cursor{File: f, Limit: limit}
}

// EOF reports whether the cursor has reached Limit.
func (c *Cursor) EOF() bool { return c.Off >= c.Limit }

// Rest is the unread part of the file.
func (c *Cursor) Rest() []byte { return c.File.Content[c.Off:c.Limit] }

// Peek returns the current byte or 0 at EOF.
func (c *Cursor) Peek() byte { return c.PeekAt(0) }

// PeekAt looks n bytes ahead; 0 past Limit.
func (c *Cursor) PeekAt(n uint32) byte {
	if n >= c.Limit-min(c.Off, c.Limit) {
		return 0
	}
	return c.File.Content[c.Off+n]
}

// Bump consumes one byte and returns it.
func (c *Cursor) Bump() byte {
	b := c.Peek()
	if !c.EOF() {
		c.Off++
	}
	return b
}

// Eat consumes b if it is next.
func (c *Cursor) Eat(b byte) bool {
	if c.EOF() || c.File.Content[c.Off] != b {
		return false
	}
	c.Off++
	return true
}

// EatPrefix consumes s if the unread input starts with it.
func (c *Cursor) EatPrefix(s string) bool {
	if !c.HasPrefix(s) {
		return false
	}
	c.Off += uint32(len(s)) // #nosec G115 -- s fits in Rest()
	return true
}

// HasPrefix is EatPrefix without consuming.
func (c *Cursor) HasPrefix(s string) bool {
	rest := c.Rest()
	return len(rest) >= len(s) && string(rest[:len(s)]) == s
}

// Rune decodes the rune under the cursor. size is 0 at EOF.
func (c *Cursor) Rune() (r rune, size int) {
	if c.EOF() {
		return utf8.RuneError, 0
	}
	if b := c.File.Content[c.Off]; b < utf8.RuneSelf {
		return rune(b), 1
	}
	return utf8.DecodeRune(c.Rest())
}

// BumpRune consumes the rune under the cursor, however many bytes it takes.
func (c *Cursor) BumpRune() {
	_, size := c.Rune()
	c.Off += uint32(size) // #nosec G115 -- at most utf8.UTFMax
}

// Mark remembers a position for SpanFrom and Reset.
type Mark uint32

func (c *Cursor) Mark() Mark { return Mark(c.Off) }

// SpanFrom covers everything consumed since m.
func (c *Cursor) SpanFrom(m Mark) source.Span {
	return source.Span{File: c.File.ID, Start: uint32(m), End: c.Off}
}

func (c *Cursor) Reset(m Mark) { c.Off = uint32(m) }
