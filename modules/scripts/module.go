// Package scripts provides the task that transpiles the script components and
// the entry script into a single app.js bundle.
package scripts

import (
	"context"
	"os"
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
const Name = "scripts"

// MinifyFunc compresses a finished bundle.
type MinifyFunc func(code []byte, target api.Target) ([]byte, error)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the scripts task.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterTask(&Task{})
}

// Task transpiles every component (in traversal order) and then the entry
// script on its own, and concatenates the results into one script. The files
// share the global scope of the page, as if loaded by separate script tags.
type Task struct {
	// Minify replaces the production minifier; nil means Minify.
	Minify MinifyFunc
}

func (t *Task) Name() string { return Name }

func (t *Task) Sources(cfg *config.Model) []string {
	return append(append([]string(nil), cfg.Scripts.Components...), cfg.Scripts.Entry)
}

func (t *Task) Outputs(_ context.Context, cfg *config.Model) ([]string, error) {
	return []string{cfg.Scripts.Output}, nil
}

func (t *Task) Run(ctx context.Context, cfg *config.Model) *task.Result {
	logger := ctxlog.FromContext(ctx)
	res := task.Begin(Name)
	res.Reload = true

	files, err := t.inputs(cfg)
	if err != nil {
		return res.Fail(task.Filesystem(Name, cfg.SourceDir, err))
	}
	if len(files) == 0 {
		logger.Warn("No scripts found, nothing to write.", "patterns", t.Sources(cfg))
		return res.Succeed()
	}

	target, err := transform.Target(cfg.Scripts.Target)
	if err != nil {
		return res.Fail(task.Transform(Name, "", err))
	}
	outAbs, err := filepath.Abs(cfg.OutputPath(cfg.Scripts.Output))
	if err != nil {
		return res.Fail(task.Filesystem(Name, cfg.Scripts.Output, err))
	}

	logger.Debug("Transpiling scripts.", "files", len(files), "mode", cfg.Mode.String(), "target", cfg.Scripts.Target)
	var joined strings.Builder
	for _, rel := range files {
		src, err := os.ReadFile(cfg.SourcePath(rel))
		if err != nil {
			return res.Fail(task.Filesystem(Name, rel, err))
		}
		result := api.Transform(string(src), api.TransformOptions{
			Loader:     api.LoaderJS,
			Target:     target,
			Sourcefile: rel,
			LogLevel:   api.LogLevelSilent,
		})
		if len(result.Errors) > 0 {
			return res.Fail(task.Transform(Name, rel, transform.Error("", result.Errors)))
		}
		joined.WriteString(flatten(string(result.Code)))
	}
	code := []byte(joined.String())

	if cfg.Mode.IsProduction() {
		minify := t.Minify
		if minify == nil {
			minify = Minify
		}
		minified, err := minify(code, target)
		if err != nil {
			logger.Warn("Minification failed, writing the unminified bundle.", "error", err)
			res.Warn(task.Minify(Name, cfg.Scripts.Output, err))
		} else {
			code = minified
		}
	} else {
		mapped, err := withSourceMap(code, target, cfg.Scripts.Output)
		if err != nil {
			return res.Fail(task.Transform(Name, cfg.Scripts.Output, err))
		}
		code = mapped
	}

	if err := fsutil.WriteFile(outAbs, code, 0o644); err != nil {
		return res.Fail(task.Filesystem(Name, cfg.Scripts.Output, err))
	}
	res.Wrote(cfg.Scripts.Output)
	return res.Succeed()
}

// inputs returns the components followed by the entry, each at most once.
// A missing entry is not an error.
func (t *Task) inputs(cfg *config.Model) ([]string, error) {
	matches, err := fsutil.Glob(cfg.SourceDir, cfg.Scripts.Components)
	if err != nil {
		return nil, err
	}
	files := make([]string, 0, len(matches)+1)
	for _, m := range matches {
		if m.Rel != cfg.Scripts.Entry {
			files = append(files, m.Rel)
		}
	}
	if cfg.Scripts.Entry != "" {
		ok, err := fsutil.Exists(cfg.SourcePath(cfg.Scripts.Entry))
		if err != nil {
			return nil, err
		}
		if ok {
			files = append(files, cfg.Scripts.Entry)
		}
	}
	return files, nil
}

// Minify compresses whitespace, identifiers and syntax of a bundle.
func Minify(code []byte, target api.Target) ([]byte, error) {
	result := api.Transform(string(code), api.TransformOptions{
		Loader:            api.LoaderJS,
		Target:            target,
		MinifyWhitespace:  true,
		MinifyIdentifiers: true,
		MinifySyntax:      true,
		LogLevel:          api.LogLevelSilent,
	})
	if len(result.Errors) > 0 {
		return nil, transform.Error("", result.Errors)
	}
	return result.Code, nil
}

// withSourceMap re-prints the joined script with an inline source map.
func withSourceMap(code []byte, target api.Target, name string) ([]byte, error) {
	result := api.Transform(string(code), api.TransformOptions{
		Loader:         api.LoaderJS,
		Target:         target,
		Sourcefile:     name,
		Sourcemap:      api.SourceMapInline,
		SourcesContent: api.SourcesContentInclude,
		LogLevel:       api.LogLevelSilent,
	})
	if len(result.Errors) > 0 {
		return nil, transform.Error("", result.Errors)
	}
	return result.Code, nil
}
