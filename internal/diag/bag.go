package diag

import (
	"cmp"
	"slices"
)

// Bag collects diagnostics up to a fixed limit.
type Bag struct {
	items []Diagnostic
	limit int
}

// NewBag returns a bag keeping at most limit diagnostics; limit < 1 keeps one.
func NewBag(limit int) *Bag {
	limit = max(limit, 1)
	return &Bag{items: make([]Diagnostic, 0, min(limit, 16)), limit: limit}
}

// Add добавляет диагностику и возвращает false, если лимит уже достигнут.
func (b *Bag) Add(d Diagnostic) bool {
	if len(b.items) >= b.limit {
		return false
	}
	b.items = append(b.items, d)
	return true
}

func (b *Bag) Len() int { return len(b.items) }

// Items возвращает внутренний срез; не модифицируйте его.
func (b *Bag) Items() []Diagnostic { return b.items }

// HasErrors reports whether any diagnostic is an error.
func (b *Bag) HasErrors() bool {
	_, ok := b.First()
	return ok
}

// First returns the first error-level diagnostic in bag order.
func (b *Bag) First() (Diagnostic, bool) {
	i := slices.IndexFunc(b.items, func(d Diagnostic) bool { return d.Severity >= SevError })
	if i < 0 {
		return Diagnostic{}, false
	}
	return b.items[i], true
}

// Sort orders diagnostics by file and position, errors before warnings at
// the same span, then by code.
func (b *Bag) Sort() {
	slices.SortStableFunc(b.items, func(x, y Diagnostic) int {
		return cmp.Or(
			cmp.Compare(x.Primary.File, y.Primary.File),
			cmp.Compare(x.Primary.Start, y.Primary.Start),
			cmp.Compare(x.Primary.End, y.Primary.End),
			cmp.Compare(y.Severity, x.Severity),
			cmp.Compare(x.Code, y.Code),
		)
	})
}
