package app

import (
	"context"
	"fmt"
	"net"
	"strconv"

	"github.com/specialistvlad/assetgrid/internal/config"
	"github.com/specialistvlad/assetgrid/internal/ctxlog"
	"github.com/specialistvlad/assetgrid/internal/devserver"
	"github.com/specialistvlad/assetgrid/internal/livereload"
	"github.com/specialistvlad/assetgrid/internal/notify"
	"github.com/specialistvlad/assetgrid/internal/task"
	"github.com/specialistvlad/assetgrid/internal/watch"
)

// WatchTaskName is the name of the dev server and watch loop task.
const WatchTaskName = "watchFiles"

// watchTask serves the output tree and re-runs tasks whose sources change,
// until the context is canceled.
type watchTask struct {
	app *App
}

func (t *watchTask) Name() string { return WatchTaskName }

// Barrier makes the watch loop start only after the initial build.
func (t *watchTask) Barrier() bool { return true }

func (t *watchTask) Sources(*config.Model) []string { return nil }

func (t *watchTask) Outputs(context.Context, *config.Model) ([]string, error) { return nil, nil }

func (t *watchTask) Run(ctx context.Context, cfg *config.Model) *task.Result {
	logger := ctxlog.FromContext(ctx)
	res := task.Begin(WatchTaskName)

	hub := livereload.New(ctx)
	defer hub.Close()

	srv := devserver.New(ctx, devserver.Options{
		Addr:       net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Root:       cfg.OutputDir,
		LiveReload: hub.Handler(),
	})
	if err := srv.Start(); err != nil {
		return res.Fail(fmt.Errorf("failed to start dev server: %w", err))
	}
	defer func() {
		if err := srv.Shutdown(context.WithoutCancel(ctx)); err != nil {
			logger.Error("Dev server shutdown failed", "error", err)
		}
	}()

	w := watch.New(cfg.SourceDir, t.bindings(cfg), t.app.RunTask, notify.Multi{t.app.notifier, hub}, cfg.Watch.Debounce)
	if err := w.Run(ctx); err != nil {
		return res.Fail(fmt.Errorf("watch loop failed: %w", err))
	}
	return res.Succeed()
}

// bindings maps the source globs of every non-barrier task to that task.
func (t *watchTask) bindings(cfg *config.Model) []watch.Binding {
	var out []watch.Binding
	for _, name := range t.app.registry.Names() {
		tk, _ := t.app.registry.Lookup(name)
		if task.IsBarrier(tk) {
			continue
		}
		if patterns := tk.Sources(cfg); len(patterns) > 0 {
			out = append(out, watch.Binding{Task: name, Patterns: patterns})
		}
	}
	return out
}
