package derive

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSortKey(t *testing.T) {
	tests := []struct {
		src  string
		key  string
		want bool
	}{
		{"Debug", "Debug", true},
		{"std :: fmt :: Debug", "Debug", true},
		{"core::cmp::Eq", "Eq", true},
		{"Default Hash", "Hash", true},
		{"r#Type", "r#Type", true},
		{"Debug /* trailing */", "Debug", true},
		{"", "", false},
		{"  // only trivia\n", "", false},
	}
	for _, tt := range tests {
		key, ok := SortKey(lexList(t, tt.src))
		if ok != tt.want || key != tt.key {
			t.Fatalf("SortKey(%q) = %q, %v; want %q, %v", tt.src, key, ok, tt.key, tt.want)
		}
	}
}

func TestReorder(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"sorted", []string{"A", "B"}, []string{"A", "B"}},
		{"reverse", []string{"Ord", "Eq", "Copy"}, []string{"Copy", "Eq", "Ord"}},
		{"qualified", []string{"std::fmt::Debug", "Clone"}, []string{"Clone", "std::fmt::Debug"}},
		{"stable on equal keys", []string{"b::Hash", "Clone", "a::Hash"}, []string{"Clone", "b::Hash", "a::Hash"}},
		{"uppercase before lowercase", []string{"a", "B"}, []string{"B", "a"}},
		{"fixed point keeps index", []string{"Z", "", "B", "A"}, []string{"A", "", "B", "Z"}},
		{"fixed point at ends", []string{"", "B", "A", ""}, []string{"", "A", "B", ""}},
		{"all fixed", []string{"", ""}, []string{"", ""}},
		{"empty", nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := lexGroups(t, tt.in)
			got := texts(Reorder(in))
			if diff := cmp.Diff(tt.want, got, emptyAsNil); diff != "" {
				t.Fatalf("Reorder mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestReorderComparesRawBytes(t *testing.T) {
	// e + U+0301 (65 cc 81) и U+00E9 (c3 a9) выглядят одинаково,
	// но ключи не нормализуются: решает порядок байтов
	tests := []struct {
		in   []string
		want []string
	}{
		{[]string{"\u00e9", "e\u0301"}, []string{"e\u0301", "\u00e9"}},
		{[]string{"e\u0301", "\u00e9"}, []string{"e\u0301", "\u00e9"}},
		{[]string{"E\u0301clair", "Zeta", "Alpha"}, []string{"Alpha", "E\u0301clair", "Zeta"}},
	}
	for _, tt := range tests {
		got := texts(Reorder(lexGroups(t, tt.in)))
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Fatalf("Reorder(%q) mismatch (-want +got):\n%s", tt.in, diff)
		}
	}

	got := mustRewrite(t, "#[derive(\u00e9, e\u0301)]\nstruct S;\n")
	if want := "#[derive(e\u0301, \u00e9)]\nstruct S;\n"; got != want {
		t.Fatalf("RewriteString = %q, want %q", got, want)
	}
}
