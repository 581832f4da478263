package source

import (
	"bytes"
	"fmt"
	"sort"

	"fortio.org/safecast"
)

// FileID indexes a File inside its FileSet.
type FileID uint32

// LineCol is a 1-based position. Col counts bytes, not runes.
type LineCol struct {
	Line uint32
	Col  uint32
}

func (lc LineCol) String() string { return fmt.Sprintf("%d:%d", lc.Line, lc.Col) }

// File is one source file. Content is exactly what was read: rewrites are
// spliced into it and written back, so newlines and a leading BOM survive.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	// Virtual files never came from disk (stdin, tests, re-parsed output).
	Virtual bool
	// offsets of every '\n'
	newlines []uint32
}

func newFile(id FileID, path string, content []byte) File {
	nl := make([]uint32, 0, bytes.Count(content, []byte{'\n'}))
	for i, b := range content {
		if b == '\n' {
			nl = append(nl, toOffset(i))
		}
	}
	return File{ID: id, Path: path, Content: content, newlines: nl}
}

// LineCount is the number of lines; a trailing newline opens an empty last line.
func (f *File) LineCount() uint32 { return toOffset(len(f.newlines) + 1) }

// Position maps a byte offset to a line and column. The offset of a '\n'
// belongs to the line it terminates.
func (f *File) Position(off uint32) LineCol {
	// строк, закрытых строго до off
	line := sort.Search(len(f.newlines), func(i int) bool { return f.newlines[i] >= off })
	var lineStart uint32
	if line > 0 {
		lineStart = f.newlines[line-1] + 1
	}
	return LineCol{Line: toOffset(line + 1), Col: off - lineStart + 1}
}

// Line returns line n (1-based) without its terminator, "" when out of range.
func (f *File) Line(n uint32) string {
	if n == 0 || n > f.LineCount() {
		return ""
	}
	var start uint32
	if n > 1 {
		start = f.newlines[n-2] + 1
	}
	end := toOffset(len(f.Content))
	if int(n) <= len(f.newlines) {
		end = f.newlines[n-1]
	}
	return string(bytes.TrimSuffix(f.Content[start:end], []byte{'\r'}))
}

func toOffset(i int) uint32 {
	v, err := safecast.Conv[uint32](i)
	if err != nil {
		panic(fmt.Errorf("source offset %d does not fit a span: %w", i, err))
	}
	return v
}
