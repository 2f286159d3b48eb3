package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/specialistvlad/assetgrid/internal/ctxlog"
	"github.com/specialistvlad/assetgrid/internal/fsutil"
	"github.com/specialistvlad/assetgrid/internal/notify"
	"github.com/specialistvlad/assetgrid/internal/task"
)

// Runner runs one task by name.
type Runner func(ctx context.Context, name string) *task.Result

// Binding routes changes matching Patterns to Task.
type Binding struct {
	Task     string
	Patterns []string
}

// Watcher is a single watch session over a source tree.
type Watcher struct {
	root     string
	bindings []Binding
	run      Runner
	notifier notify.Notifier
	debounce time.Duration
	ready    chan struct{}

	mu     sync.Mutex
	tasks  map[string]*taskState
	closed bool
	wg     sync.WaitGroup
}

type taskState struct {
	timer   *time.Timer
	running bool
	pending bool
}

// New creates a watcher. A nil notifier discards reports.
func New(root string, bindings []Binding, run Runner, notifier notify.Notifier, debounce time.Duration) *Watcher {
	if notifier == nil {
		notifier = notify.Multi{}
	}
	return &Watcher{
		root:     root,
		bindings: bindings,
		run:      run,
		notifier: notifier,
		debounce: debounce,
		ready:    make(chan struct{}),
		tasks:    make(map[string]*taskState),
	}
}

// Ready is closed once every existing directory is being watched.
func (w *Watcher) Ready() <-chan struct{} { return w.ready }

// Run watches until ctx is canceled, then waits for in-flight runs.
func (w *Watcher) Run(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx).With("component", "watch")

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer fw.Close()

	if _, err := w.addTree(fw, w.root); err != nil {
		return err
	}
	for _, b := range w.bindings {
		logger.Debug("Watching patterns.", "task", b.Task, "patterns", b.Patterns)
	}
	logger.Info("👀 Watching for changes", "root", w.root, "bindings", len(w.bindings))
	close(w.ready)

	for {
		select {
		case <-ctx.Done():
			w.stop()
			logger.Info("🏁 Watch stopped.")
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				w.stop()
				return errors.New("file watcher closed unexpectedly")
			}
			w.handle(ctx, logger, fw, ev)
		case err, ok := <-fw.Errors:
			if !ok {
				w.stop()
				return errors.New("file watcher closed unexpectedly")
			}
			logger.Warn("File watcher reported an error.", "error", err)
		}
	}
}

func (w *Watcher) handle(ctx context.Context, logger *slog.Logger, fw *fsnotify.Watcher, ev fsnotify.Event) {
	if ev.Op == fsnotify.Chmod {
		return
	}
	logger.Debug("File event.", "path", ev.Name, "op", ev.Op.String())

	if ev.Has(fsnotify.Create) {
		// Files created together with a new directory never produce their
		// own events, so they are matched from the walk instead.
		created, err := w.addTree(fw, ev.Name)
		if err != nil {
			logger.Warn("Failed to watch new directory.", "path", ev.Name, "error", err)
		}
		for _, p := range created {
			w.dispatch(ctx, p)
		}
	}
	w.dispatch(ctx, ev.Name)
}

// dispatch schedules every task bound to the changed path.
func (w *Watcher) dispatch(ctx context.Context, abs string) {
	rel, err := filepath.Rel(w.root, abs)
	if err != nil {
		return
	}
	rel = filepath.ToSlash(rel)
	if rel == "." || rel == ".." || strings.HasPrefix(rel, "../") {
		return
	}
	for _, b := range w.bindings {
		if fsutil.MatchAny(b.Patterns, rel) {
			w.schedule(ctx, b.Task)
		}
	}
}

// addTree watches dir and every directory below it. It returns the regular
// files found below dir; a non-directory path yields nothing.
func (w *Watcher) addTree(fw *fsnotify.Watcher, dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if !d.IsDir() {
			if p != dir {
				files = append(files, p)
			}
			return nil
		}
		if err := fw.Add(p); err != nil {
			return fmt.Errorf("failed to watch %s: %w", p, err)
		}
		return nil
	})
	return files, err
}

func (w *Watcher) schedule(ctx context.Context, name string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	st, ok := w.tasks[name]
	if !ok {
		st = &taskState{}
		w.tasks[name] = st
	}
	if st.timer != nil {
		st.timer.Reset(w.debounce)
		return
	}
	st.timer = time.AfterFunc(w.debounce, func() { w.fire(ctx, name, st) })
}

func (w *Watcher) fire(ctx context.Context, name string, st *taskState) {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	if st.running {
		st.pending = true
		w.mu.Unlock()
		return
	}
	st.running = true
	w.wg.Add(1)
	w.mu.Unlock()
	defer w.wg.Done()

	for {
		w.report(ctx, w.run(ctx, name))

		w.mu.Lock()
		if !st.pending || w.closed {
			st.running = false
			st.pending = false
			w.mu.Unlock()
			return
		}
		st.pending = false
		w.mu.Unlock()
	}
}

func (w *Watcher) report(ctx context.Context, res *task.Result) {
	if res == nil {
		return
	}
	for _, ev := range notify.FromResult(res) {
		w.notifier.Notify(ctx, ev)
	}
}

// stop cancels pending timers and waits for running tasks.
func (w *Watcher) stop() {
	w.mu.Lock()
	w.closed = true
	for _, st := range w.tasks {
		if st.timer != nil {
			st.timer.Stop()
		}
	}
	w.mu.Unlock()
	w.wg.Wait()
}
