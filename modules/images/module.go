// Package images provides the task that copies raster and vector images into
// the output tree, recompressing them in production.
package images

import (
	"context"
	"os"
	"path"

	"github.com/specialistvlad/assetgrid/internal/config"
	"github.com/specialistvlad/assetgrid/internal/ctxlog"
	"github.com/specialistvlad/assetgrid/internal/fsutil"
	"github.com/specialistvlad/assetgrid/internal/registry"
	"github.com/specialistvlad/assetgrid/internal/task"
)

// Name is the task name used in targets.
const Name = "images"

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the images task.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterTask(&Task{compressor: newCompressor()})
}

// Task copies every matched image to the images output directory.
type Task struct {
	compressor *compressor
}

func (t *Task) Name() string { return Name }

func (t *Task) Sources(cfg *config.Model) []string { return cfg.Images.Sources }

func (t *Task) Outputs(_ context.Context, cfg *config.Model) ([]string, error) {
	matches, err := fsutil.Glob(cfg.SourceDir, cfg.Images.Sources)
	if err != nil {
		return nil, err
	}
	outs := make([]string, 0, len(matches))
	for _, m := range matches {
		outs = append(outs, outputPath(cfg, m.Rel))
	}
	return outs, nil
}

func (t *Task) Run(ctx context.Context, cfg *config.Model) *task.Result {
	logger := ctxlog.FromContext(ctx)
	res := task.Begin(Name)

	matches, err := fsutil.Glob(cfg.SourceDir, cfg.Images.Sources)
	if err != nil {
		return res.Fail(task.Filesystem(Name, cfg.SourceDir, err))
	}

	var saved int
	for _, m := range matches {
		if err := ctx.Err(); err != nil {
			return res.Fail(err)
		}
		rel := outputPath(cfg, m.Rel)
		if !cfg.Mode.IsProduction() {
			if err := fsutil.CopyFile(m.Abs, cfg.OutputPath(rel)); err != nil {
				return res.Fail(task.Filesystem(Name, m.Rel, err))
			}
			res.Wrote(rel)
			continue
		}

		original, err := os.ReadFile(m.Abs)
		if err != nil {
			return res.Fail(task.Filesystem(Name, m.Rel, err))
		}
		out, err := t.compressor.compress(m.Rel, original, cfg.Images.JPEGQuality)
		if err != nil {
			if task.IsKind(err, task.KindMinify) {
				res.Warn(err)
				out = original
			} else {
				return res.Fail(err)
			}
		}
		if len(out) >= len(original) {
			out = original
		}
		saved += len(original) - len(out)
		logger.Debug("Compressed image.", "path", m.Rel, "before", len(original), "after", len(out))
		if err := fsutil.WriteFile(cfg.OutputPath(rel), out, 0o644); err != nil {
			return res.Fail(task.Filesystem(Name, rel, err))
		}
		res.Wrote(rel)
	}
	if cfg.Mode.IsProduction() && len(matches) > 0 {
		logger.Info("Images compressed.", "files", len(matches), "saved_bytes", saved)
	}
	return res.Succeed()
}

func outputPath(cfg *config.Model, rel string) string {
	return path.Join(cfg.Images.OutputDir, fsutil.StripRoot(rel, cfg.Images.Root))
}
