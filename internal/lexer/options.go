package lexer

import (
	"fmt"

	"derivefmt/internal/diag"
	"derivefmt/internal/source"
)

// Edition selects the Rust edition whose lexical rules apply.
type Edition uint8

const (
	Edition2015 Edition = iota
	Edition2018
	Edition2021
	Edition2024
)

// DefaultEdition is what cargo assumes when a manifest names none.
const DefaultEdition = Edition2015

func (e Edition) String() string {
	switch e {
	case Edition2015:
		return "2015"
	case Edition2018:
		return "2018"
	case Edition2021:
		return "2021"
	case Edition2024:
		return "2024"
	}
	return fmt.Sprintf("Edition(%d)", uint8(e))
}

// ParseEdition parses "2015", "2018", "2021" or "2024".
func ParseEdition(s string) (Edition, error) {
	switch s {
	case "2015":
		return Edition2015, nil
	case "2018":
		return Edition2018, nil
	case "2021":
		return Edition2021, nil
	case "2024":
		return Edition2024, nil
	}
	return 0, fmt.Errorf("lexer: unknown edition %q", s)
}

type Options struct {
	Reporter diag.Reporter // может быть nil — тогда ошибки игнорируем (но продолжаем лексить)
	Edition  Edition
}

func (lx *Lexer) errLex(code diag.Code, sp source.Span, msg string) {
	if lx.opts.Reporter == nil {
		return
	}
	lx.opts.Reporter.Report(diag.NewError(code, sp, msg))
}

func (lx *Lexer) warnLex(code diag.Code, sp source.Span, msg string) {
	if lx.opts.Reporter == nil {
		return
	}
	lx.opts.Reporter.Report(diag.New(diag.SevWarning, code, sp, msg))
}
