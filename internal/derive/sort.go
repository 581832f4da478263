package derive

import (
	"slices"
	"sort"

	"derivefmt/internal/token"
)

// SortKey returns the text of the last token in group that is neither
// trivia nor a comma: the unqualified trait name. A group without such a
// token has no key and is a fixed point.
func SortKey(group []token.Token) (string, bool) {
	for i := len(group) - 1; i >= 0; i-- {
		if isSignificant(group[i]) {
			return group[i].Text, true
		}
	}
	return "", false
}

// Reorder stable-sorts groups by SortKey. Keys are compared byte-wise as
// written, without normalization. Groups without a key keep their original
// index.
func Reorder(groups [][]token.Token) [][]token.Token {
	type keyed struct {
		key   string
		group []token.Token
	}
	type fixed struct {
		idx   int
		group []token.Token
	}

	sortable := make([]keyed, 0, len(groups))
	var fixedPoints []fixed
	for i, g := range groups {
		if k, ok := SortKey(g); ok {
			sortable = append(sortable, keyed{key: k, group: g})
			continue
		}
		fixedPoints = append(fixedPoints, fixed{idx: i, group: g})
	}

	sort.SliceStable(sortable, func(i, j int) bool {
		return sortable[i].key < sortable[j].key
	})

	out := make([][]token.Token, 0, len(groups))
	for _, s := range sortable {
		out = append(out, s.group)
	}
	// по возрастанию индекса: каждая вставка не сдвигает уже вставленные
	for _, f := range fixedPoints {
		out = slices.Insert(out, f.idx, f.group)
	}
	return out
}
