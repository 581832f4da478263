package driver

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"derivefmt/internal/cache"
	"derivefmt/internal/derive"
	"derivefmt/internal/lexer"
	"derivefmt/internal/verify"
)

const (
	unsortedSrc = "#[derive(Debug, Clone, PartialEq)]\nstruct A;\n"
	sortedSrc   = "#[derive(Clone, Debug, PartialEq)]\nstruct A;\n"
	brokenSrc   = "#[derive(Debug, Clone)]\nstruct B;\nconst S: &str = \"never closed;\n"
)

func inputsFor(paths ...string) []Input {
	out := make([]Input, 0, len(paths))
	for _, p := range paths {
		out = append(out, Input{Path: p, Edition: lexer.Edition2021})
	}
	return out
}

func TestFormatFilesRewrites(t *testing.T) {
	dir := t.TempDir()
	paths := writeFiles(t, dir, map[string]string{
		"a.rs": unsortedSrc,
		"b.rs": sortedSrc,
	})
	if err := os.Chmod(paths["a.rs"], 0o600); err != nil {
		t.Fatalf("chmod: %v", err)
	}

	results, err := FormatFiles(context.Background(), inputsFor(paths["a.rs"], paths["b.rs"]), FormatOptions{Jobs: 2})
	if err != nil {
		t.Fatalf("FormatFiles: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}

	a, b := results[0], results[1]
	if a.Err != nil || b.Err != nil {
		t.Fatalf("unexpected errors: %v / %v", a.Err, b.Err)
	}
	if !a.Changed || !a.Written || a.Reordered != 1 || a.Sites != 1 {
		t.Fatalf("a.rs result = %+v", a)
	}
	if b.Changed || b.Written {
		t.Fatalf("b.rs is already sorted, got %+v", b)
	}
	if got := readFile(t, paths["a.rs"]); got != sortedSrc {
		t.Fatalf("a.rs content = %q, want %q", got, sortedSrc)
	}

	info, err := os.Stat(paths["a.rs"])
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Fatalf("mode = %v, want 0600", info.Mode().Perm())
	}

	want := Summary{Files: 2, Changed: 1, Written: 1}
	if diff := cmp.Diff(want, Summarize(results)); diff != "" {
		t.Fatalf("summary mismatch (-want +got):\n%s", diff)
	}
}

func TestFormatFilesReportModes(t *testing.T) {
	tests := []struct {
		name string
		opts FormatOptions
	}{
		{"check", FormatOptions{Check: true}},
		{"stdout", FormatOptions{Stdout: true}},
		{"diff", FormatOptions{Diff: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			paths := writeFiles(t, t.TempDir(), map[string]string{"a.rs": unsortedSrc})
			results, err := FormatFiles(context.Background(), inputsFor(paths["a.rs"]), tt.opts)
			if err != nil {
				t.Fatalf("FormatFiles: %v", err)
			}
			r := results[0]
			if !r.Changed || r.Written {
				t.Fatalf("result = %+v, want changed and not written", r)
			}
			if got := readFile(t, paths["a.rs"]); got != unsortedSrc {
				t.Fatalf("file was modified: %q", got)
			}
			if tt.opts.Stdout && string(r.Formatted) != sortedSrc {
				t.Fatalf("Formatted = %q", r.Formatted)
			}
			if !tt.opts.Stdout && r.Formatted != nil {
				t.Fatalf("Formatted must be empty outside stdout mode")
			}
			if tt.opts.Diff {
				if r.Diff == nil || len(r.Diff.Hunks) != 1 {
					t.Fatalf("Diff = %+v, want one hunk", r.Diff)
				}
				body := string(r.Diff.Hunks[0].Body)
				if !strings.Contains(body, "-#[derive(Debug, Clone, PartialEq)]") ||
					!strings.Contains(body, "+#[derive(Clone, Debug, PartialEq)]") {
					t.Fatalf("hunk body = %q", body)
				}
			} else if r.Diff != nil {
				t.Fatalf("Diff must be nil outside diff mode")
			}
		})
	}
}

func TestFormatFilesParseErrorIsolated(t *testing.T) {
	paths := writeFiles(t, t.TempDir(), map[string]string{
		"bad.rs":  brokenSrc,
		"good.rs": unsortedSrc,
	})
	core, logs := observer.New(zapcore.WarnLevel)

	results, err := FormatFiles(context.Background(), inputsFor(paths["bad.rs"], paths["good.rs"]), FormatOptions{Logger: zap.New(core)})
	if err != nil {
		t.Fatalf("FormatFiles: %v", err)
	}
	bad, good := results[0], results[1]
	if !errors.Is(bad.Err, derive.ErrParse) || !IsParseError(bad.Err) {
		t.Fatalf("bad.rs error = %v, want ErrParse", bad.Err)
	}
	if got := readFile(t, paths["bad.rs"]); got != brokenSrc {
		t.Fatalf("bad.rs must be untouched, got %q", got)
	}
	if good.Err != nil || !good.Written {
		t.Fatalf("good.rs result = %+v", good)
	}

	entries := logs.FilterMessage("file not formatted").All()
	if len(entries) != 1 {
		t.Fatalf("got %d warnings, want 1", len(entries))
	}
	if got := entries[0].ContextMap()["path"]; got != paths["bad.rs"] {
		t.Fatalf("warning path = %v", got)
	}
	if got := entries[0].ContextMap()["stage"]; got != string(StageReorder) {
		t.Fatalf("warning stage = %v", got)
	}

	if err := FirstError(results); err == nil || !strings.Contains(err.Error(), "bad.rs") {
		t.Fatalf("FirstError = %v", err)
	}
	if s := Summarize(results); s.Failed != 1 || s.Written != 1 {
		t.Fatalf("summary = %+v", s)
	}
}

func TestFormatFilesCache(t *testing.T) {
	c, err := cache.OpenDir(t.TempDir())
	if err != nil {
		t.Fatalf("OpenDir: %v", err)
	}
	paths := writeFiles(t, t.TempDir(), map[string]string{
		"a.rs": unsortedSrc,
		"b.rs": sortedSrc,
	})
	inputs := inputsFor(paths["a.rs"], paths["b.rs"])
	opts := FormatOptions{Cache: c, CacheSalt: "test"}

	first, err := FormatFiles(context.Background(), inputs, opts)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	for _, r := range first {
		if r.Cached {
			t.Fatalf("first run must not hit the cache: %+v", r)
		}
	}

	second, err := FormatFiles(context.Background(), inputs, opts)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	for _, r := range second {
		if !r.Cached || r.Changed || r.Err != nil {
			t.Fatalf("second run result = %+v, want cache hit", r)
		}
	}

	// другая соль — другой ключ
	third, err := FormatFiles(context.Background(), inputs, FormatOptions{Cache: c, CacheSalt: "other"})
	if err != nil {
		t.Fatalf("third run: %v", err)
	}
	if third[0].Cached {
		t.Fatalf("a different salt must miss")
	}
}

func TestFormatFilesCacheKeepsUnsortedCheck(t *testing.T) {
	c, err := cache.OpenDir(t.TempDir())
	if err != nil {
		t.Fatalf("OpenDir: %v", err)
	}
	paths := writeFiles(t, t.TempDir(), map[string]string{"a.rs": unsortedSrc})
	opts := FormatOptions{Check: true, Cache: c, CacheSalt: "test"}

	for run := 0; run < 2; run++ {
		results, err := FormatFiles(context.Background(), inputsFor(paths["a.rs"]), opts)
		if err != nil {
			t.Fatalf("run %d: %v", run, err)
		}
		if results[0].Cached || !results[0].Changed {
			t.Fatalf("run %d: an unsorted file must never be cached: %+v", run, results[0])
		}
	}
}

func TestFormatFilesProgress(t *testing.T) {
	paths := writeFiles(t, t.TempDir(), map[string]string{
		"a.rs":   unsortedSrc,
		"bad.rs": brokenSrc,
	})
	sink := &recordingSink{}
	_, err := FormatFiles(context.Background(), inputsFor(paths["a.rs"], paths["bad.rs"]), FormatOptions{Progress: sink})
	if err != nil {
		t.Fatalf("FormatFiles: %v", err)
	}

	type step struct {
		Stage  Stage
		Status Status
	}
	steps := func(events []Event) []step {
		out := make([]step, 0, len(events))
		for _, ev := range events {
			out = append(out, step{ev.Stage, ev.Status})
		}
		return out
	}

	wantA := []step{
		{StageRead, StatusQueued},
		{StageRead, StatusWorking},
		{StageReorder, StatusWorking},
		{StageWrite, StatusWorking},
		{StageWrite, StatusDone},
	}
	if diff := cmp.Diff(wantA, steps(sink.byFile(paths["a.rs"]))); diff != "" {
		t.Fatalf("a.rs events mismatch (-want +got):\n%s", diff)
	}

	wantBad := []step{
		{StageRead, StatusQueued},
		{StageRead, StatusWorking},
		{StageReorder, StatusWorking},
		{StageReorder, StatusError},
	}
	if diff := cmp.Diff(wantBad, steps(sink.byFile(paths["bad.rs"]))); diff != "" {
		t.Fatalf("bad.rs events mismatch (-want +got):\n%s", diff)
	}
}

func TestFormatFilesVerify(t *testing.T) {
	paths := writeFiles(t, t.TempDir(), map[string]string{
		"ok.rs":      unsortedSrc,
		"invalid.rs": "#[derive(Debug, Clone)]\nstruct S { x: }\n",
	})
	results, err := FormatFiles(context.Background(), inputsFor(paths["ok.rs"], paths["invalid.rs"]), FormatOptions{Verify: true})
	if err != nil {
		t.Fatalf("FormatFiles: %v", err)
	}
	if results[0].Err != nil || !results[0].Written {
		t.Fatalf("ok.rs result = %+v", results[0])
	}
	if !errors.Is(results[1].Err, verify.ErrSyntax) || results[1].Written {
		t.Fatalf("invalid.rs result = %+v, want syntax error", results[1])
	}
	if errors.Is(results[1].Err, derive.ErrInvariant) {
		t.Fatalf("an input that never parsed is not an invariant violation")
	}
}

func TestFormatFilesMissingFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "gone.rs")
	results, err := FormatFiles(context.Background(), inputsFor(missing), FormatOptions{})
	if err != nil {
		t.Fatalf("FormatFiles: %v", err)
	}
	if !errors.Is(results[0].Err, os.ErrNotExist) {
		t.Fatalf("err = %v, want not-exist", results[0].Err)
	}
}

func TestFormatFilesNoInputs(t *testing.T) {
	if _, err := FormatFiles(context.Background(), nil, FormatOptions{}); !errors.Is(err, ErrNoFiles) {
		t.Fatalf("err = %v, want ErrNoFiles", err)
	}
}

func TestFormatFilesCancelled(t *testing.T) {
	paths := writeFiles(t, t.TempDir(), map[string]string{"a.rs": unsortedSrc})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := FormatFiles(ctx, inputsFor(paths["a.rs"]), FormatOptions{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if got := readFile(t, paths["a.rs"]); got != unsortedSrc {
		t.Fatalf("cancelled run must not write")
	}
}

func TestTokenizeRoundTrip(t *testing.T) {
	src := "// c\n#[derive(B, A)]\nstruct S;\n"
	paths := writeFiles(t, t.TempDir(), map[string]string{"s.rs": src})
	res, err := Tokenize(paths["s.rs"], lexer.Edition2021, 16)
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	if res.Bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", res.Bag.Items())
	}
	var b strings.Builder
	for _, tok := range res.Tokens {
		b.WriteString(tok.Text)
	}
	if b.String() != src {
		t.Fatalf("tokens do not reproduce the file: %q", b.String())
	}
}

func TestWriteAtomic(t *testing.T) {
	dir := t.TempDir()

	t.Run("keeps mode", func(t *testing.T) {
		path := filepath.Join(dir, "exec.rs")
		if err := os.WriteFile(path, []byte(unsortedSrc), 0o750); err != nil {
			t.Fatal(err)
		}
		if err := writeAtomic(path, []byte(sortedSrc)); err != nil {
			t.Fatalf("writeAtomic: %v", err)
		}
		info, err := os.Stat(path)
		if err != nil {
			t.Fatal(err)
		}
		if info.Mode().Perm() != 0o750 {
			t.Fatalf("mode = %v, want 0750", info.Mode().Perm())
		}
		if got, _ := os.ReadFile(path); string(got) != sortedSrc {
			t.Fatalf("content = %q", got)
		}
	})

	t.Run("follows symlink", func(t *testing.T) {
		target := filepath.Join(dir, "target.rs")
		link := filepath.Join(dir, "link.rs")
		if err := os.WriteFile(target, []byte(unsortedSrc), 0o644); err != nil {
			t.Fatal(err)
		}
		if err := os.Symlink(target, link); err != nil {
			t.Skipf("symlinks unavailable: %v", err)
		}
		if err := writeAtomic(link, []byte(sortedSrc)); err != nil {
			t.Fatalf("writeAtomic: %v", err)
		}
		if info, err := os.Lstat(link); err != nil || info.Mode()&os.ModeSymlink == 0 {
			t.Fatalf("link replaced by a regular file: %v", err)
		}
		if got, _ := os.ReadFile(target); string(got) != sortedSrc {
			t.Fatalf("target content = %q", got)
		}
	})

	t.Run("failed rename leaves no trace", func(t *testing.T) {
		// переименовать файл поверх непустого каталога нельзя
		sub := filepath.Join(dir, "busy.rs")
		if err := os.MkdirAll(filepath.Join(sub, "inner"), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := writeAtomic(sub, []byte(sortedSrc)); err == nil {
			t.Fatalf("expected an error writing over a directory")
		}
		if info, err := os.Stat(sub); err != nil || !info.IsDir() {
			t.Fatalf("directory damaged: %v", err)
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			t.Fatal(err)
		}
		for _, e := range entries {
			if strings.Contains(e.Name(), ".derivefmt-") {
				t.Fatalf("temp file left behind: %s", e.Name())
			}
		}
	})
}
