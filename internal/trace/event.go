package trace

import "time"

// Kind is the type of a trace event.
type Kind uint8

const (
	KindSpanBegin Kind = iota + 1
	KindSpanEnd
	KindPoint
)

func (k Kind) String() string {
	switch k {
	case KindSpanBegin:
		return "begin"
	case KindSpanEnd:
		return "end"
	case KindPoint:
		return "point"
	}
	return "unknown"
}

// Scope is the granularity of an event; coarser scopes have lower values.
type Scope uint8

const (
	// ScopeDriver is a whole run over all inputs.
	ScopeDriver Scope = iota + 1
	// ScopePass is a run-wide stage such as formatting or the rustfmt pass.
	ScopePass
	// ScopeFile is one source file.
	ScopeFile
	// ScopeAttr is one attribute inside a file.
	ScopeAttr
)

func (s Scope) String() string {
	switch s {
	case ScopeDriver:
		return "driver"
	case ScopePass:
		return "pass"
	case ScopeFile:
		return "file"
	case ScopeAttr:
		return "attr"
	}
	return "unknown"
}

func (k Kind) MarshalText() ([]byte, error)  { return []byte(k.String()), nil }
func (s Scope) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Event is a single trace record. Its JSON form is one NDJSON line.
type Event struct {
	Time     time.Time `json:"time"`
	Seq      uint64    `json:"seq"` // process-wide, increasing
	Kind     Kind      `json:"kind"`
	Scope    Scope     `json:"scope"`
	SpanID   uint64    `json:"span_id"`
	ParentID uint64    `json:"parent_id,omitempty"` // 0 for a root span
	Name     string    `json:"name"`                // pass name, file path or attribute name
	Detail   string    `json:"detail,omitempty"`
	// Failed marks the end of a span closed with Span.Fail.
	Failed bool              `json:"failed,omitempty"`
	Extra  map[string]string `json:"extra,omitempty"`
}
