package derive

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"derivefmt/internal/lexer"
	"derivefmt/internal/source"
	"derivefmt/internal/trace"
)

func TestRewriteString(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "missing comma",
			src:  "#[derive(Debug, Clone, Default Hash)]\nstruct S;\n",
			want: "#[derive(Clone, Debug, Default Hash)]\nstruct S;\n",
		},
		{
			name: "ordering",
			src:  "#[derive(Eq, Ord, PartialOrd, Copy, Clone, Debug, PartialEq, Hash)]\nstruct Wrapped<T>(T);\n",
			want: "#[derive(Clone, Copy, Debug, Eq, Hash, Ord, PartialEq, PartialOrd)]\nstruct Wrapped<T>(T);\n",
		},
		{
			name: "qualified with spacing",
			src:  "#[derive ( PartialEq, Copy, PartialOrd, std :: fmt :: Debug, Hash, Eq, Ord )]\nstruct S;\n",
			want: "#[derive ( Copy, std :: fmt :: Debug, Eq, Hash, Ord, PartialEq, PartialOrd )]\nstruct S;\n",
		},
		{
			name: "comments",
			src: "#[derive(\n/* ---------- Some really important comment --------- */\nDebug,\nClone, // And what about this?\nEq, PartialEq,\n)]\n" +
				"struct Foo {\n    a: i32,\n}\n",
			want: "#[derive(\n/* ---------- Some really important comment --------- */\nClone,\nDebug, // And what about this?\nEq, PartialEq,\n)]\n" +
				"struct Foo {\n    a: i32,\n}\n",
		},
		{
			name: "double comma",
			src:  "#[derive(Debug, Clone, Default,, Apples, Hash)]\nstruct T;\n",
			want: "#[derive(Apples, Clone, Debug,, Default, Hash)]\nstruct T;\n",
		},
		{
			name: "multiline qualified",
			src:  "#[derive(\n    std::fmt::Debug,\n    std::clone::Clone,\n    std::marker::Copy,\n    std::cmp::PartialEq,\n)]\nstruct Std;\n",
			want: "#[derive(\n    std::clone::Clone,\n    std::marker::Copy,\n    std::fmt::Debug,\n    std::cmp::PartialEq,\n)]\nstruct Std;\n",
		},
		{
			name: "two attributes",
			src: "#[derive(Debug, Clone)]\nstruct A;\n\n" +
				"#[cfg(test)]\n#[derive(PartialEq, Eq)]\nenum B { X }\n",
			want: "#[derive(Clone, Debug)]\nstruct A;\n\n" +
				"#[cfg(test)]\n#[derive(Eq, PartialEq)]\nenum B { X }\n",
		},
		{
			name: "nested items",
			src:  "mod m {\n    #[derive(B, A)]\n    struct S {\n        #[serde(skip)]\n        f: u8,\n    }\n}\n",
			want: "mod m {\n    #[derive(A, B)]\n    struct S {\n        #[serde(skip)]\n        f: u8,\n    }\n}\n",
		},
		{
			name: "crlf",
			src:  "#[derive(B,\r\n A)]\r\nstruct S;\r\n",
			want: "#[derive(A,\r\n B)]\r\nstruct S;\r\n",
		},
		{
			name: "trailing comment migrates with the slot",
			src:  "#[derive(B, // first\nA)]\nstruct S;\n",
			want: "#[derive(A, // first\nB)]\nstruct S;\n",
		},
		{
			name: "already sorted",
			src:  "#[derive(Clone, Copy)]\nstruct S;\n",
			want: "#[derive(Clone, Copy)]\nstruct S;\n",
		},
		{
			name: "empty list",
			src:  "#[derive()]\nstruct S;\n",
			want: "#[derive()]\nstruct S;\n",
		},
		{
			name: "inner attribute untouched",
			src:  "#![derive(B, A)]\n",
			want: "#![derive(B, A)]\n",
		},
		{
			name: "nested tree untouched",
			src:  "#[derive(B, m!(x), A)]\nstruct S;\n",
			want: "#[derive(B, m!(x), A)]\nstruct S;\n",
		},
		{
			name: "qualified attribute path untouched",
			src:  "#[foo::derive(B, A)]\nstruct S;\n",
			want: "#[foo::derive(B, A)]\nstruct S;\n",
		},
		{
			name: "macro body untouched",
			src:  "macro_rules! m {\n    () => { #[derive(B, A)] struct S; };\n}\n",
			want: "macro_rules! m {\n    () => { #[derive(B, A)] struct S; };\n}\n",
		},
		{
			name: "derive text in strings and comments",
			src:  "// #[derive(B, A)]\nconst S: &str = \"#[derive(B, A)]\";\n",
			want: "// #[derive(B, A)]\nconst S: &str = \"#[derive(B, A)]\";\n",
		},
		{
			name: "bom and shebang",
			src:  "\uFEFF#!/usr/bin/env run-cargo-script\n#[derive(B, A)]\nstruct S;\n",
			want: "\uFEFF#!/usr/bin/env run-cargo-script\n#[derive(A, B)]\nstruct S;\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mustRewrite(t, tt.src)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("RewriteString mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRewriteIdempotent(t *testing.T) {
	inputs := []string{
		"#[derive(Debug, Clone, Default Hash)]\nstruct S;\n",
		"#[derive(Debug, Clone, Default,, Apples, Hash)]\nstruct T;\n",
		"#[derive(\n/* c */\nDebug,\nClone, // x\nEq, PartialEq,\n)]\nstruct F;\n",
		"#[derive(b::Hash, Clone, a::Hash)]\nstruct H;\n",
	}
	for _, src := range inputs {
		once := mustRewrite(t, src)
		twice := mustRewrite(t, once)
		if once != twice {
			t.Fatalf("not idempotent for %q:\nonce:  %q\ntwice: %q", src, once, twice)
		}
	}
}

func TestRewriteKeepsTokens(t *testing.T) {
	inputs := []string{
		"#[derive(Z, /* a */ Y, X // b\n, W,)]\nstruct S;\n",
		"#[derive(,,C,B,,A,)]\nstruct S;\n",
		"#[derive(core::cmp::Ord, std::cmp::Eq, Hash, Default Debug)]\nstruct S;\n",
	}
	for _, src := range inputs {
		got := mustRewrite(t, src)
		if len(got) != len(src) {
			t.Fatalf("length changed: %d -> %d", len(src), len(got))
		}
		if diff := cmp.Diff(tokenBag(t, src), tokenBag(t, got)); diff != "" {
			t.Fatalf("tokens of %q changed (-before +after):\n%s", src, diff)
		}
	}
}

func TestRewriteSortsKeys(t *testing.T) {
	src := "#[derive(PartialOrd, Ord, std::hash::Hash, Eq, PartialEq, Default, Copy, Clone, Debug)]\nstruct S;\n"
	got := mustRewrite(t, src)

	fs := source.NewFileSet()
	id := fs.AddVirtual("out.rs", []byte(got))
	res, err := Rewrite(fs.Get(id), Options{Edition: lexer.Edition2021})
	if err != nil {
		t.Fatalf("Rewrite: %v", err)
	}
	if res.Changed {
		t.Fatalf("sorted output was rewritten again: %q", res.Content)
	}
	want := "#[derive(Clone, Copy, Debug, Default, Eq, std::hash::Hash, Ord, PartialEq, PartialOrd)]"
	if !strings.HasPrefix(got, want) {
		t.Fatalf("got %q, want prefix %q", got, want)
	}
}

func TestRewriteResult(t *testing.T) {
	src := "#![allow(dead_code)]\n" +
		"#[derive(B, A)]\nstruct S;\n" +
		"#[derive]\nstruct T;\n" +
		"#[derive(Clone)]\nstruct U;\n" +
		"#[derive(B, f!(), A)]\nstruct V;\n"
	fs := source.NewFileSet()
	id := fs.AddVirtual("lib.rs", []byte(src))
	res, err := Rewrite(fs.Get(id), Options{})
	if err != nil {
		t.Fatalf("Rewrite: %v", err)
	}
	if !res.Changed {
		t.Fatalf("expected a change")
	}
	if res.Sites != 2 || res.Reordered != 1 {
		t.Fatalf("Sites=%d Reordered=%d, want 2 and 1", res.Sites, res.Reordered)
	}
	if res.Edits == 0 {
		t.Fatalf("Edits = 0 for a changed file")
	}

	var reasons []Skip
	for _, s := range res.Skipped {
		reasons = append(reasons, s.Reason)
	}
	want := []Skip{SkipInner, SkipNoArguments, SkipNestedTree}
	if diff := cmp.Diff(want, reasons); diff != "" {
		t.Fatalf("skip reasons mismatch (-want +got):\n%s", diff)
	}
	if res.Skipped[0].Name != "allow" {
		t.Fatalf("skipped name = %q, want allow", res.Skipped[0].Name)
	}
}

func TestRewriteUnchangedSharesContent(t *testing.T) {
	src := []byte("fn main() {}\n")
	fs := source.NewFileSet()
	id := fs.AddVirtual("main.rs", src)
	res, err := Rewrite(fs.Get(id), Options{})
	if err != nil {
		t.Fatalf("Rewrite: %v", err)
	}
	if res.Changed || res.Sites != 0 || string(res.Content) != string(src) {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestRewriteParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		pos  string
	}{
		{"mismatched", "#[derive(Debug]\nstruct S;\n", "bad.rs:1:"},
		{"unclosed", "fn main() {\n    #[derive(B, A)]\n", "bad.rs:"},
		{"unexpected closer", "struct S;\n}\n", "bad.rs:2:1"},
		{"unterminated string", "#[derive(B, A)]\nconst S: &str = \"abc;\n", "bad.rs:2:"},
		{"unterminated comment", "/* open\n#[derive(B, A)]\n", "bad.rs:1:1"},
		// предупреждения о не-NFC не вытесняют ошибку из bag
		{"error after warnings", strings.Repeat("const e\u0301: u8 = 0;\n", 20) + "const S: &str = \"abc;\n", "bad.rs:21:"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := source.NewFileSet()
			id := fs.AddVirtual("bad.rs", []byte(tt.src))
			res, err := Rewrite(fs.Get(id), Options{})
			if !errors.Is(err, ErrParse) {
				t.Fatalf("err = %v, want ErrParse", err)
			}
			if res != nil {
				t.Fatalf("result returned alongside error")
			}
			if !strings.Contains(err.Error(), tt.pos) {
				t.Fatalf("error %q does not mention %q", err, tt.pos)
			}
		})
	}
}

func TestRewriteTracesSites(t *testing.T) {
	tr, err := trace.New(trace.Config{Level: trace.LevelDebug, Mode: trace.ModeRing, RingSize: 64})
	if err != nil {
		t.Fatalf("trace.New: %v", err)
	}
	fs := source.NewFileSet()
	id := fs.AddVirtual("lib.rs", []byte("#![x]\n#[derive(B, A)]\nstruct S;\n"))
	if _, err := Rewrite(fs.Get(id), Options{Tracer: tr, Parent: 7}); err != nil {
		t.Fatalf("Rewrite: %v", err)
	}

	ring, ok := trace.FindRing(tr)
	if !ok {
		t.Fatalf("no ring tracer")
	}
	var details []string
	for _, ev := range ring.Snapshot() {
		if ev.Scope != trace.ScopeAttr || ev.ParentID != 7 {
			continue
		}
		if ev.Kind == trace.KindSpanEnd || ev.Kind == trace.KindPoint {
			details = append(details, ev.Name+":"+ev.Detail)
			if ev.Name == "derive" && ev.Extra["sorted"] != "(A, B)" {
				t.Fatalf("sorted extra = %q", ev.Extra["sorted"])
			}
		}
	}
	want := []string{"skip:inner attribute", "derive:reordered"}
	if diff := cmp.Diff(want, details); diff != "" {
		t.Fatalf("trace mismatch (-want +got):\n%s", diff)
	}
}
