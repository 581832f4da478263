package trace

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Format selects how stream and ring dumps render events.
type Format uint8

const (
	// FormatAuto resolves to NDJSON for .ndjson and .jsonl paths, text otherwise.
	FormatAuto Format = iota
	FormatText
	FormatNDJSON
)

var formatNames = map[string]Format{"": FormatAuto, "auto": FormatAuto, "text": FormatText, "ndjson": FormatNDJSON, "json": FormatNDJSON}

func ParseFormat(s string) (Format, error) {
	if f, ok := formatNames[strings.ToLower(s)]; ok {
		return f, nil
	}
	return FormatAuto, fmt.Errorf("invalid trace format: %q (expected: auto|text|ndjson)", s)
}

// resolve picks the concrete format for an output path.
func (f Format) resolve(path string) Format {
	if f != FormatAuto {
		return f
	}
	if strings.HasSuffix(path, ".ndjson") || strings.HasSuffix(path, ".jsonl") {
		return FormatNDJSON
	}
	return FormatText
}

// FormatEvent renders ev as one line, newline included.
func FormatEvent(ev *Event, format Format) []byte {
	if format == FormatNDJSON {
		data, err := json.Marshal(ev)
		if err != nil {
			data = fmt.Appendf(nil, `{"seq":%d,"error":%q}`, ev.Seq, err.Error())
		}
		return append(data, '\n')
	}
	return formatText(ev)
}

var kindMarks = map[Kind]string{
	KindSpanBegin: "→ ",
	KindSpanEnd:   "← ",
	KindPoint:     "• ",
}

// formatText: "15:04:05.000 [indent]→ scope:name (detail) {k=v, ...}".
// Failures are marked with ✗ whatever their kind.
func formatText(ev *Event) []byte {
	var b strings.Builder
	b.WriteString(ev.Time.Format("15:04:05.000"))
	b.WriteByte(' ')
	b.WriteString(strings.Repeat("  ", max(int(ev.Scope)-1, 0)))
	if ev.Failed {
		b.WriteString("✗ ")
	} else {
		b.WriteString(kindMarks[ev.Kind])
	}
	fmt.Fprintf(&b, "%s:%s", ev.Scope, ev.Name)
	if ev.Detail != "" {
		fmt.Fprintf(&b, " (%s)", ev.Detail)
	}
	if len(ev.Extra) > 0 {
		pairs := make([]string, 0, len(ev.Extra))
		for _, k := range slices.Sorted(maps.Keys(ev.Extra)) {
			pairs = append(pairs, k+"="+ev.Extra[k])
		}
		b.WriteString(" {" + strings.Join(pairs, ", ") + "}")
	}
	b.WriteByte('\n')
	return []byte(b.String())
}
