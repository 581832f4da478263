// Package edit models text edit scripts over a single source file: edits are
// merged with overlap detection and applied to the original bytes in one pass.
package edit

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"derivefmt/internal/source"
)

var (
	// ErrOverlap is returned when two edits touch the same bytes.
	ErrOverlap = errors.New("edit: overlapping edits")
	// ErrMismatch is returned when an edit's OldText differs from the buffer.
	ErrMismatch = errors.New("edit: existing text does not match expected content")
	// ErrRange is returned when an edit span lies outside the buffer.
	ErrRange = errors.New("edit: span out of range")
)

// TextEdit replaces the bytes of Span with NewText. When OldText is set it
// must equal the replaced bytes at apply time.
type TextEdit struct {
	Span    source.Span
	NewText string
	OldText string
}

func (e TextEdit) String() string {
	return fmt.Sprintf("%d..%d %q -> %q", e.Span.Start, e.Span.End, e.OldText, e.NewText)
}

// Script is an ordered set of non-conflicting edits for one file.
// The zero value is an empty script.
type Script struct {
	edits []TextEdit
}

// Edits returns the edits sorted by span start. Do not modify the slice.
func (s *Script) Edits() []TextEdit {
	return s.edits
}

func (s *Script) Len() int { return len(s.edits) }

func (s *Script) IsEmpty() bool { return len(s.edits) == 0 }

// Add inserts e, failing with ErrOverlap if it conflicts with an existing edit.
func (s *Script) Add(e TextEdit) error {
	if e.Span.End < e.Span.Start {
		return fmt.Errorf("%w: %s", ErrRange, e)
	}
	for _, prev := range s.edits {
		if spansConflict(prev, e) {
			return fmt.Errorf("%w: %s conflicts with %s", ErrOverlap, e, prev)
		}
	}
	s.edits = insertEditSorted(s.edits, e)
	return nil
}

// Union merges other into s. Either every edit of other is merged or, on
// ErrOverlap, s is left unchanged.
func (s *Script) Union(other *Script) error {
	if other == nil || other.IsEmpty() {
		return nil
	}
	for _, prev := range s.edits {
		for _, cand := range other.edits {
			if spansConflict(prev, cand) {
				return fmt.Errorf("%w: %s conflicts with %s", ErrOverlap, cand, prev)
			}
		}
	}
	for _, e := range other.edits {
		s.edits = insertEditSorted(s.edits, e)
	}
	return nil
}

// Apply returns content with every edit applied. Offsets refer to content as
// given; content itself is not modified.
func (s *Script) Apply(content []byte) ([]byte, error) {
	if s.IsEmpty() {
		return append([]byte(nil), content...), nil
	}
	var out strings.Builder
	out.Grow(len(content))
	prev := 0
	for _, e := range s.edits {
		start, end := int(e.Span.Start), int(e.Span.End)
		if start < prev || end > len(content) {
			return nil, fmt.Errorf("%w: %s (buffer %d bytes)", ErrRange, e, len(content))
		}
		if e.OldText != "" && string(content[start:end]) != e.OldText {
			return nil, fmt.Errorf("%w: %s found %q", ErrMismatch, e, content[start:end])
		}
		out.Write(content[prev:start])
		out.WriteString(e.NewText)
		prev = end
	}
	out.Write(content[prev:])
	return []byte(out.String()), nil
}

// spansConflict reports whether two text edits' spans overlap.
// Spans are treated as half-open intervals [Start, End). Two zero-length edits
// (Start == End) never conflict. A zero-length edit conflicts with a non-zero
// span if its position is within that span (Start <= pos < End). For two
// non-zero spans, any overlap yields a conflict.
func spansConflict(a, b TextEdit) bool {
	if a.Span.File != b.Span.File {
		return true
	}
	aStart, aEnd := a.Span.Start, a.Span.End
	bStart, bEnd := b.Span.Start, b.Span.End

	if aStart == aEnd && bStart == bEnd {
		return false
	}
	if aStart == aEnd {
		return bStart <= aStart && aStart < bEnd
	}
	if bStart == bEnd {
		return aStart <= bStart && bStart < aEnd
	}
	return aStart < bEnd && bStart < aEnd
}

// insertEditSorted keeps edits ordered by start; zero-length edits at the same
// position stay in insertion order.
func insertEditSorted(edits []TextEdit, edit TextEdit) []TextEdit {
	insertIdx := sort.Search(len(edits), func(i int) bool {
		if edits[i].Span.Start == edit.Span.Start {
			return edits[i].Span.End > edit.Span.End
		}
		return edits[i].Span.Start > edit.Span.Start
	})
	edits = append(edits, TextEdit{})
	copy(edits[insertIdx+1:], edits[insertIdx:])
	edits[insertIdx] = edit
	return edits
}
