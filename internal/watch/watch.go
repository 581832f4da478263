// Package watch re-formats Rust files as they change on disk.
package watch

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"derivefmt/internal/driver"
)

// DefaultDebounce is how long a file must stay quiet before it is formatted.
const DefaultDebounce = 300 * time.Millisecond

// Handler formats a batch of changed files. An error is logged and the
// watcher keeps running.
type Handler func(ctx context.Context, paths []string) error

// Options configure a Watcher.
type Options struct {
	// Roots are the directories (walked recursively) and files to watch.
	Roots    []string
	Exclude  *driver.Excluder
	Debounce time.Duration
	Logger   *zap.Logger
}

// Watcher batches file events and hands settled files to a Handler.
type Watcher struct {
	fsw     *fsnotify.Watcher
	opts    Options
	handle  Handler
	files   map[string]struct{} // explicitly named files
	dirs    []string            // directory roots
	pending *debouncer
	log     *zap.Logger
}

// New registers every root with fsnotify.
func New(opts Options, handle Handler) (*Watcher, error) {
	if handle == nil {
		return nil, errors.New("watch: nil handler")
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		fsw:     fsw,
		opts:    opts,
		handle:  handle,
		files:   make(map[string]struct{}),
		pending: newDebouncer(opts.Debounce),
		log:     opts.Logger.Named("watch"),
	}
	for _, root := range opts.Roots {
		if err := w.addRoot(root); err != nil {
			_ = fsw.Close()
			return nil, err
		}
	}
	return w, nil
}

func (w *Watcher) addRoot(root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		// fsnotify loses single files on editors' rename-on-save; watch the directory
		w.files[filepath.Clean(root)] = struct{}{}
		return w.fsw.Add(filepath.Dir(root))
	}
	w.dirs = append(w.dirs, filepath.Clean(root))
	return w.addTree(root)
}

func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && (isHidden(d.Name()) || w.opts.Exclude.Match(path)) {
			return filepath.SkipDir
		}
		w.log.Debug("watching directory", zap.String("dir", path))
		return w.fsw.Add(path)
	})
}

// Run processes events until ctx is cancelled and then closes the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	defer func() {
		if err := w.fsw.Close(); err != nil {
			w.log.Warn("closing watcher", zap.Error(err))
		}
	}()

	ticker := time.NewTicker(max(w.opts.Debounce/4, 10*time.Millisecond))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(ev)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watch error", zap.Error(err))

		case now := <-ticker.C:
			paths := w.pending.due(now)
			if len(paths) == 0 {
				continue
			}
			w.log.Info("formatting changed files", zap.Int("files", len(paths)))
			if err := w.handle(ctx, paths); err != nil {
				w.log.Warn("format failed", zap.Error(err))
			}
		}
	}
}

func (w *Watcher) handleEvent(ev fsnotify.Event) {
	path := filepath.Clean(ev.Name)
	if ev.Has(fsnotify.Create) {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			if !isHidden(filepath.Base(path)) && !w.opts.Exclude.Match(path) {
				if err := w.addTree(path); err != nil {
					w.log.Warn("watching new directory", zap.String("dir", path), zap.Error(err))
				}
			}
			return
		}
	}
	if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) {
		// remove, rename, chmod
		return
	}
	if !w.wants(path) {
		return
	}
	w.log.Debug("file changed", zap.String("path", path), zap.Stringer("op", ev.Op))
	w.pending.add(path, time.Now())
}

func (w *Watcher) wants(path string) bool {
	if _, ok := w.files[path]; ok {
		return true
	}
	if filepath.Ext(path) != ".rs" || w.opts.Exclude.Match(path) {
		return false
	}
	for _, dir := range w.dirs {
		if rel, err := filepath.Rel(dir, path); err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// debouncer holds paths until they have been quiet for wait.
type debouncer struct {
	wait time.Duration
	last map[string]time.Time
}

func newDebouncer(wait time.Duration) *debouncer {
	return &debouncer{wait: wait, last: make(map[string]time.Time)}
}

func (d *debouncer) add(path string, at time.Time) {
	d.last[path] = at
}

// due removes and returns, sorted, the paths quiet since before now-wait.
func (d *debouncer) due(now time.Time) []string {
	var out []string
	for path, at := range d.last {
		if now.Sub(at) >= d.wait {
			out = append(out, path)
			delete(d.last, path)
		}
	}
	sort.Strings(out)
	return out
}

func isHidden(name string) bool {
	return len(name) > 1 && name[0] == '.' && name != ".."
}
