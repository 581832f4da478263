package driver

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"time"

	godiff "github.com/sourcegraph/go-diff/diff"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"derivefmt/internal/cache"
	"derivefmt/internal/derive"
	"derivefmt/internal/diffview"
	"derivefmt/internal/lexer"
	"derivefmt/internal/source"
	"derivefmt/internal/trace"
	"derivefmt/internal/verify"
	"derivefmt/internal/version"
)

// Input is one file to format together with the edition it is lexed under.
type Input struct {
	Path    string
	Edition lexer.Edition
}

// FormatOptions configures FormatFiles.
type FormatOptions struct {
	// Check reports files that would change without writing them.
	Check bool
	// Stdout returns the formatted content in the results instead of writing.
	Stdout bool
	// Diff attaches a unified diff to changed results instead of writing.
	Diff        bool
	DiffContext int
	// Jobs bounds parallelism; zero means GOMAXPROCS.
	Jobs int
	// Verify runs tree-sitter over the input and output of every rewrite.
	Verify bool
	// Cache remembers files that are already sorted; nil disables it.
	Cache     *cache.DiskCache
	CacheSalt string
	Progress  ProgressSink
	Logger    *zap.Logger
}

// FormatResult captures the result of formatting a single file.
type FormatResult struct {
	Path    string
	Edition lexer.Edition
	// Changed reports whether sorting changes (or would change) the file.
	Changed bool
	// Cached means the file was known to be sorted and was not lexed.
	Cached  bool
	Written bool
	// Formatted holds the sorted content in Stdout mode.
	Formatted []byte
	Diff      *godiff.FileDiff
	Sites     int
	Reordered int
	Skipped   []derive.SkippedAttr
	Err       error
	Elapsed   time.Duration
}

// FormatFiles sorts the derive lists of every input in parallel. Per-file
// failures are reported in FormatResult.Err and do not stop other files; the
// returned error is only set when the run itself is cancelled.
func FormatFiles(ctx context.Context, inputs []Input, opts FormatOptions) ([]FormatResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(inputs) == 0 {
		return nil, ErrNoFiles
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.DiffContext <= 0 {
		opts.DiffContext = diffview.DefaultContext
	}
	if opts.CacheSalt == "" {
		opts.CacheSalt = version.Version
	}
	if opts.Verify {
		// entries written without verification must not vouch for verified runs
		opts.CacheSalt += "+verify"
	}

	pass, ctx := trace.Start(ctx, trace.ScopePass, "format")
	tracer := trace.FromContext(ctx)

	for _, in := range inputs {
		emit(opts.Progress, Event{File: in.Path, Stage: StageRead, Status: StatusQueued})
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// индексы уникальны для каждой горутины, мьютекс не нужен
	results := make([]FormatResult, len(inputs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(inputs)))
	for i, in := range inputs {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				results[i] = FormatResult{Path: in.Path, Edition: in.Edition, Err: gctx.Err()}
				return gctx.Err()
			default:
			}
			results[i] = formatFile(gctx, in, &opts, tracer, pass.ID())
			return nil
		})
	}
	err := g.Wait()

	changed := 0
	for _, r := range results {
		if r.Changed {
			changed++
		}
	}
	pass.WithExtra("files", strconv.Itoa(len(inputs))).
		WithExtra("changed", strconv.Itoa(changed)).
		End("")
	return results, err
}

func formatFile(ctx context.Context, in Input, opts *FormatOptions, tracer trace.Tracer, parent uint64) FormatResult {
	start := time.Now()
	span := trace.Begin(tracer, trace.ScopeFile, in.Path, parent)
	log := opts.Logger.With(zap.String("path", in.Path), zap.Stringer("edition", in.Edition))
	result := FormatResult{Path: in.Path, Edition: in.Edition}

	fail := func(stage Stage, err error) FormatResult {
		result.Err = err
		result.Elapsed = time.Since(start)
		log.Warn("file not formatted", zap.String("stage", string(stage)), zap.Error(err))
		emit(opts.Progress, Event{File: in.Path, Stage: stage, Status: StatusError, Err: err, Elapsed: result.Elapsed})
		span.WithExtra("stage", string(stage)).Fail(err)
		return result
	}

	emit(opts.Progress, Event{File: in.Path, Stage: StageRead, Status: StatusWorking})
	// #nosec G304 -- path is provided by the caller
	data, err := os.ReadFile(in.Path)
	if err != nil {
		return fail(StageRead, err)
	}

	var key cache.Digest
	if opts.Cache != nil {
		key = cache.Key(opts.CacheSalt, in.Edition, data)
		if opts.Cache.Has(key) {
			result.Cached = true
			if opts.Stdout {
				result.Formatted = data
			}
			result.Elapsed = time.Since(start)
			log.Debug("cache hit")
			emit(opts.Progress, Event{File: in.Path, Stage: StageRead, Status: StatusDone, Elapsed: result.Elapsed})
			span.End("cached")
			return result
		}
	}

	emit(opts.Progress, Event{File: in.Path, Stage: StageReorder, Status: StatusWorking})
	fileSet := source.NewFileSet()
	file := fileSet.Get(fileSet.Add(in.Path, data))
	res, err := derive.Rewrite(file, derive.Options{Edition: in.Edition, Tracer: tracer, Parent: span.ID()})
	if err != nil {
		return fail(StageReorder, err)
	}
	result.Changed = res.Changed
	result.Sites = res.Sites
	result.Reordered = res.Reordered
	result.Skipped = res.Skipped

	if opts.Verify && res.Changed {
		emit(opts.Progress, Event{File: in.Path, Stage: StageVerify, Status: StatusWorking})
		inputOK, err := verify.Pair(ctx, data, res.Content)
		if err != nil {
			if inputOK {
				err = fmt.Errorf("%w: %w", derive.ErrInvariant, err)
			} else {
				err = fmt.Errorf("refusing to rewrite: %w", err)
			}
			return fail(StageVerify, err)
		}
	}

	if opts.Stdout {
		result.Formatted = res.Content
	}
	if opts.Diff && res.Changed {
		fd, err := diffview.Unified(in.Path, data, res.Content, opts.DiffContext)
		if err != nil {
			return fail(StageReorder, err)
		}
		result.Diff = fd
	}

	sorted := data
	if res.Changed && !opts.Check && !opts.Stdout && !opts.Diff {
		emit(opts.Progress, Event{File: in.Path, Stage: StageWrite, Status: StatusWorking})
		if err := writeAtomic(in.Path, res.Content); err != nil {
			return fail(StageWrite, err)
		}
		result.Written = true
		sorted = res.Content
	}

	// the file on disk is sorted now, remember it
	if opts.Cache != nil && (!res.Changed || result.Written) {
		if result.Written {
			key = cache.Key(opts.CacheSalt, in.Edition, sorted)
		}
		entry := &cache.Entry{Path: in.Path, Size: int64(len(sorted)), StoredAt: time.Now().Unix()}
		if err := opts.Cache.Put(key, entry); err != nil {
			log.Debug("cache store failed", zap.Error(err))
		}
	}

	result.Elapsed = time.Since(start)
	log.Debug("formatted",
		zap.Int("sites", res.Sites),
		zap.Int("reordered", res.Reordered),
		zap.Int("skipped", len(res.Skipped)),
		zap.Bool("written", result.Written),
		zap.Duration("elapsed", result.Elapsed),
	)
	emit(opts.Progress, Event{File: in.Path, Stage: StageWrite, Status: StatusDone, Elapsed: result.Elapsed})
	detail := "sorted"
	if res.Changed {
		detail = "changed"
	}
	span.WithExtra("sites", strconv.Itoa(res.Sites)).End(detail)
	return result
}

// writeAtomic replaces path with content through a temp file in the same
// directory, so a failed write leaves the original intact. The file mode is
// kept and a symlink is followed to its target.
func writeAtomic(path string, content []byte) (err error) {
	if resolved, rerr := filepath.EvalSymlinks(path); rerr == nil {
		path = resolved
	}
	mode := os.FileMode(0o644)
	if info, serr := os.Stat(path); serr == nil {
		mode = info.Mode().Perm()
	}

	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".derivefmt-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(f.Name())
		}
	}()

	if _, err = f.Write(content); err != nil {
		return err
	}
	if err = f.Chmod(mode); err != nil {
		return err
	}
	if err = f.Sync(); err != nil {
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), path)
}

// Summary counts results by outcome.
type Summary struct {
	Files   int
	Changed int
	Written int
	Cached  int
	Failed  int
}

// Summarize folds results into a Summary.
func Summarize(results []FormatResult) Summary {
	s := Summary{Files: len(results)}
	for _, r := range results {
		switch {
		case r.Err != nil:
			s.Failed++
		case r.Cached:
			s.Cached++
		}
		if r.Changed {
			s.Changed++
		}
		if r.Written {
			s.Written++
		}
	}
	return s
}

// FirstError returns the first per-file error in input order.
func FirstError(results []FormatResult) error {
	for _, r := range results {
		if r.Err != nil {
			return fmt.Errorf("%s: %w", r.Path, r.Err)
		}
	}
	return nil
}

// IsParseError reports whether err means the file could not be lexed.
func IsParseError(err error) bool {
	return errors.Is(err, derive.ErrParse) || errors.Is(err, verify.ErrSyntax)
}
