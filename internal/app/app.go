package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"text/tabwriter"

	"github.com/specialistvlad/assetgrid/internal/builder"
	"github.com/specialistvlad/assetgrid/internal/config"
	"github.com/specialistvlad/assetgrid/internal/ctxlog"
	"github.com/specialistvlad/assetgrid/internal/dag"
	"github.com/specialistvlad/assetgrid/internal/feeders"
	"github.com/specialistvlad/assetgrid/internal/notify"
	"github.com/specialistvlad/assetgrid/internal/registry"
	"github.com/specialistvlad/assetgrid/internal/task"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	registry *registry.Registry
	config   *config.Model
	notifier notify.Notifier
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App with its own logger and registry. The core modules are
// always registered; extra modules are registered after them. A nil loader
// selects the extension-dispatching loader.
//
// Configuration problems panic with an error wrapping ErrConfig.
func NewApp(outW io.Writer, appConfig *Config, loader config.Loader, extra ...registry.Module) *App {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	if loader == nil {
		loader = feeders.New()
	}
	model, err := loadModel(ctx, appConfig, loader)
	if err != nil {
		panic(fmt.Errorf("%w: %w", ErrConfig, err))
	}
	logger.Debug("Configuration loaded.",
		"mode", model.Mode.String(),
		"source", model.SourceDir,
		"output", model.OutputDir,
		"workers", model.Workers,
	)

	a := &App{
		outW:     outW,
		logger:   logger,
		registry: registry.New(),
		config:   model,
		notifier: notify.Multi{notify.LogNotifier{}, notify.NewTerminalNotifier(outW)},
	}

	modules := append(append([]registry.Module{}, coreModules...), extra...)
	for _, mod := range modules {
		mod.Register(a.registry)
	}
	a.registry.RegisterTask(&watchTask{app: a})
	logger.Debug("All Go modules registered.", "count", len(modules))

	// A target naming a missing task is a mismatch between code and the
	// target table, so we panic.
	if err := a.registry.ValidateTargets(Targets); err != nil {
		panic(err)
	}
	logger.Debug("Target validation passed.")
	return a
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry { return a.registry }

// Config returns the resolved configuration model.
func (a *App) Config() *config.Model { return a.config }

// RunTarget runs one of the named Targets.
func (a *App) RunTarget(ctx context.Context, target string) error {
	names, ok := Targets[target]
	if !ok {
		return fmt.Errorf("unknown target '%s'", target)
	}
	return a.Run(ctx, names)
}

// Run plans the named tasks into a graph and executes it on the worker pool.
// Results are published to the notifier as tasks finish.
func (a *App) Run(ctx context.Context, names []string) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.", "tasks", names)

	plan, err := builder.Build(ctx, a.registry, a.config, names)
	if err != nil {
		return fmt.Errorf("failed to build execution plan: %w", err)
	}
	a.logger.Debug("Execution plan built.", "node_count", plan.Graph.Len())

	a.logger.Info("🚀 Starting pipeline", "tasks", strings.Join(names, ", "), "mode", a.config.Mode.String())
	report, err := a.execute(ctx, plan, a.config.Workers, a.notifier)
	if err != nil {
		if errors.Is(err, context.Canceled) && ctx.Err() != nil && watchedUntilStopped(report) {
			a.logger.Info("🏁 Watch session ended.")
			return nil
		}
		return err
	}
	a.logger.Info("🏁 Pipeline finished.", "tasks", len(report.Results))
	return nil
}

// RunTask runs a single task and returns its result. Failures are carried
// by the result rather than returned, which is what the watch loop needs.
func (a *App) RunTask(ctx context.Context, name string) *task.Result {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	plan, err := builder.Build(ctx, a.registry, a.config, []string{name})
	if err != nil {
		return task.Begin(name).Fail(err)
	}
	report, err := a.execute(ctx, plan, 1, nil)
	if report != nil {
		if res := report.Result(name); res != nil {
			return res
		}
	}
	if err == nil {
		err = fmt.Errorf("task %s produced no result", name)
	}
	return task.Begin(name).Fail(err)
}

func (a *App) execute(ctx context.Context, plan *builder.Plan, workers int, n notify.Notifier) (*dag.Report, error) {
	exec := dag.NewExecutor(plan.Graph, workers, func(ctx context.Context, id string) *task.Result {
		t, ok := plan.Task(id)
		if !ok {
			return task.Begin(id).Fail(fmt.Errorf("task '%s' is not part of the plan", id))
		}
		res := t.Run(ctxlog.With(ctx, "task", id), a.config)
		if n != nil && res != nil {
			for _, ev := range notify.FromResult(res) {
				n.Notify(ctx, ev)
			}
		}
		return res
	})
	return exec.Run(ctx)
}

// watchedUntilStopped reports whether the run ended because a watch session
// that was part of it was stopped, the normal way out of `dev` and `watch`.
func watchedUntilStopped(report *dag.Report) bool {
	if report == nil {
		return false
	}
	res := report.Result(WatchTaskName)
	return res != nil && res.Status == task.Succeeded
}

// List prints every registered task with its source globs, then the targets.
func (a *App) List(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TASK\tSOURCES")
	for _, name := range a.registry.Names() {
		t, _ := a.registry.Lookup(name)
		globs := strings.Join(t.Sources(a.config), " ")
		switch {
		case name == WatchTaskName:
			globs = "(sources of every task above)"
		case globs == "":
			globs = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\n", name, globs)
	}
	fmt.Fprintln(tw)
	fmt.Fprintln(tw, "TARGET\tTASKS")
	for _, target := range []string{"build", "dev", "watch"} {
		fmt.Fprintf(tw, "%s\t%s\n", target, strings.Join(Targets[target], " → "))
	}
	return tw.Flush()
}
