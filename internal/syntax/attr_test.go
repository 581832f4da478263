package syntax

import (
	"testing"
)

func TestFindAttributes(t *testing.T) {
	src := `#![allow(dead_code)]
#[derive(Debug)]
struct A;

mod m {
    # [ derive ( Clone ) ]
    enum B {}
    fn f() { #[cfg(test)] let x = !true; }
}

macro_rules! gen { () => { #[derive(Hidden)] struct Z; } }
vec![#[derive(NotAnAttrSite)] 1];
#[cfg_attr(test, derive(Nested))]
struct C;
`
	attrs := FindAttributes(parseString(t, src))

	type want struct {
		inner bool
		name  string
	}
	wants := []want{
		{true, "allow"},
		{false, "derive"},
		{false, "derive"},
		{false, "cfg"},
		{false, "cfg_attr"},
	}
	if len(attrs) != len(wants) {
		for _, a := range attrs {
			t.Logf("found %q", a.Tree.Text())
		}
		t.Fatalf("found %d attributes, want %d", len(attrs), len(wants))
	}
	for i, w := range wants {
		name, ok := attrs[i].SimpleName()
		if !ok || name != w.name || attrs[i].Inner != w.inner {
			t.Errorf("attr %d: name=%q ok=%v inner=%v, want %q inner=%v",
				i, name, ok, attrs[i].Inner, w.name, w.inner)
		}
	}
}

func TestAttrPathAndArgument(t *testing.T) {
	tests := []struct {
		src    string
		path   string
		simple bool
		arg    string
	}{
		{"#[derive(Debug, Clone)]", "derive", true, "(Debug, Clone)"},
		{"#[ derive /* c */ ( A ) ]", "derive", true, "( A )"},
		{"#[serde::derive(A)]", "serde::derive", false, "(A)"},
		{"#[::derive(A)]", "::derive", false, "(A)"},
		{"#[derive = \"x\"]", "derive", true, ""},
		{"#[derive]", "derive", true, ""},
		{"#[derive[Debug]]", "derive", true, ""},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			attrs := FindAttributes(parseString(t, tt.src))
			if len(attrs) != 1 {
				t.Fatalf("found %d attributes", len(attrs))
			}
			a := attrs[0]
			if path, _ := a.Path(); path != tt.path {
				t.Fatalf("Path() = %q, want %q", path, tt.path)
			}
			if _, ok := a.SimpleName(); ok != tt.simple {
				t.Fatalf("SimpleName ok = %v, want %v", ok, tt.simple)
			}
			arg, ok := a.TokenTreeArgument()
			if tt.arg == "" {
				if ok {
					t.Fatalf("unexpected argument %q", arg.Text())
				}
				return
			}
			if !ok || arg.Text() != tt.arg {
				t.Fatalf("TokenTreeArgument() = %v", arg)
			}
		})
	}
}

func TestAttrSpan(t *testing.T) {
	src := "struct S;\n#[derive(A)]\n"
	attrs := FindAttributes(parseString(t, src))
	if len(attrs) != 1 {
		t.Fatalf("found %d attributes", len(attrs))
	}
	sp := attrs[0].Span()
	if got := src[sp.Start:sp.End]; got != "#[derive(A)]" {
		t.Fatalf("span covers %q", got)
	}
}
