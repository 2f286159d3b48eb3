// Package styles provides the task that concatenates the stylesheets into a
// single vendor-prefixed main.css.
package styles

import (
	"context"
	"errors"
	"path/filepath"
	"strings"

	"github.com/evanw/esbuild/pkg/api"
	"github.com/specialistvlad/assetgrid/internal/config"
	"github.com/specialistvlad/assetgrid/internal/ctxlog"
	"github.com/specialistvlad/assetgrid/internal/fsutil"
	"github.com/specialistvlad/assetgrid/internal/registry"
	"github.com/specialistvlad/assetgrid/internal/task"
	"github.com/specialistvlad/assetgrid/internal/transform"
)

// Name is the task name used in targets.
const Name = "styles"

var errNoOutput = errors.New("esbuild produced no stylesheet")

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the styles task.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterTask(&Task{})
}

// Task bundles every matched stylesheet, in traversal order, into one file.
type Task struct{}

func (t *Task) Name() string { return Name }

func (t *Task) Sources(cfg *config.Model) []string { return cfg.Styles.Sources }

func (t *Task) Outputs(_ context.Context, cfg *config.Model) ([]string, error) {
	return []string{cfg.Styles.Output}, nil
}

func (t *Task) Run(ctx context.Context, cfg *config.Model) *task.Result {
	logger := ctxlog.FromContext(ctx)
	res := task.Begin(Name)
	res.Reload = true

	matches, err := fsutil.Glob(cfg.SourceDir, cfg.Styles.Sources)
	if err != nil {
		return res.Fail(task.Filesystem(Name, cfg.SourceDir, err))
	}
	if len(matches) == 0 {
		logger.Warn("No stylesheets found, nothing to write.", "patterns", cfg.Styles.Sources)
		return res.Succeed()
	}

	engines, err := transform.Engines(cfg.Styles.Engines)
	if err != nil {
		return res.Fail(task.Transform(Name, "", err))
	}
	srcAbs, err := filepath.Abs(cfg.SourceDir)
	if err != nil {
		return res.Fail(task.Filesystem(Name, cfg.SourceDir, err))
	}
	outAbs, err := filepath.Abs(cfg.OutputPath(cfg.Styles.Output))
	if err != nil {
		return res.Fail(task.Filesystem(Name, cfg.Styles.Output, err))
	}

	opts := api.BuildOptions{
		Stdin: &api.StdinOptions{
			Contents:   entry(matches),
			ResolveDir: srcAbs,
			Sourcefile: "<styles>",
			Loader:     api.LoaderCSS,
		},
		AbsWorkingDir: srcAbs,
		Bundle:        true,
		Write:         false,
		Outfile:       outAbs,
		Engines:       engines,
		LogLevel:      api.LogLevelSilent,
	}
	if cfg.Mode.IsProduction() {
		opts.MinifyWhitespace = true
		opts.MinifySyntax = true
	}
	if cfg.Mode.SourceMaps() {
		opts.Sourcemap = api.SourceMapInline
		// The virtual entry only holds @import lines.
		opts.SourcesContent = api.SourcesContentInclude
	}

	logger.Debug("Bundling stylesheets.", "files", len(matches), "mode", cfg.Mode.String())
	result := api.Build(opts)
	if len(result.Errors) > 0 {
		return res.Fail(task.Transform(Name, transform.FirstFile(srcAbs, result.Errors), transform.Error(srcAbs, result.Errors)))
	}
	css, ok := transform.Output(result.OutputFiles, ".css")
	if !ok {
		return res.Fail(task.Transform(Name, "", errNoOutput))
	}

	if err := fsutil.WriteFile(outAbs, css, 0o644); err != nil {
		return res.Fail(task.Filesystem(Name, cfg.Styles.Output, err))
	}
	res.Wrote(cfg.Styles.Output)
	return res.Succeed()
}

// entry is the virtual stylesheet that imports every match in order.
func entry(matches []fsutil.Match) string {
	var b strings.Builder
	for _, m := range matches {
		b.WriteString(`@import "./`)
		b.WriteString(m.Rel)
		b.WriteString("\";\n")
	}
	return b.String()
}
