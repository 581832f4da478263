package diagfmt

import (
	"derivefmt/internal/diag"
	"derivefmt/internal/source"
)

// Location is a span with its resolved start position.
type Location struct {
	File  string `json:"file"`
	Start uint32 `json:"start"`
	End   uint32 `json:"end"`
	Line  uint32 `json:"line"`
	Col   uint32 `json:"col"`
}

type NoteRecord struct {
	Message  string   `json:"message"`
	Location Location `json:"location"`
}

// Record is the machine-readable form of one diagnostic.
type Record struct {
	Severity string       `json:"severity"`
	Code     string       `json:"code"`
	Message  string       `json:"message"`
	Location Location     `json:"location"`
	Notes    []NoteRecord `json:"notes,omitempty"`
}

func locate(fs *source.FileSet, sp source.Span, mode PathMode) Location {
	f := fs.Get(sp.File)
	pos := f.Position(sp.Start)
	return Location{File: formatPath(f.Path, mode), Start: sp.Start, End: sp.End, Line: pos.Line, Col: pos.Col}
}

// Records converts the bag in its current order.
func Records(bag *diag.Bag, fs *source.FileSet, mode PathMode) []Record {
	out := make([]Record, 0, bag.Len())
	for _, d := range bag.Items() {
		r := Record{
			Severity: d.Severity.String(),
			Code:     d.Code.ID(),
			Message:  d.Message,
			Location: locate(fs, d.Primary, mode),
		}
		for _, n := range d.Notes {
			r.Notes = append(r.Notes, NoteRecord{Message: n.Msg, Location: locate(fs, n.Span, mode)})
		}
		out = append(out, r)
	}
	return out
}
