// Package resources provides the task that copies static files (fonts,
// favicons, manifests) verbatim into the output root.
package resources

import (
	"context"

	"github.com/specialistvlad/assetgrid/internal/config"
	"github.com/specialistvlad/assetgrid/internal/ctxlog"
	"github.com/specialistvlad/assetgrid/internal/fsutil"
	"github.com/specialistvlad/assetgrid/internal/registry"
	"github.com/specialistvlad/assetgrid/internal/task"
)

// Name is the task name used in targets.
const Name = "resources"

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the resources task.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterTask(&Task{})
}

// Task copies every matched file byte for byte, keeping permission bits.
type Task struct{}

func (t *Task) Name() string { return Name }

func (t *Task) Sources(cfg *config.Model) []string { return cfg.Resources.Sources }

func (t *Task) Outputs(_ context.Context, cfg *config.Model) ([]string, error) {
	matches, err := fsutil.Glob(cfg.SourceDir, cfg.Resources.Sources)
	if err != nil {
		return nil, err
	}
	outs := make([]string, 0, len(matches))
	for _, m := range matches {
		outs = append(outs, fsutil.StripRoot(m.Rel, cfg.Resources.Root))
	}
	return outs, nil
}

func (t *Task) Run(ctx context.Context, cfg *config.Model) *task.Result {
	logger := ctxlog.FromContext(ctx)
	res := task.Begin(Name)

	matches, err := fsutil.Glob(cfg.SourceDir, cfg.Resources.Sources)
	if err != nil {
		return res.Fail(task.Filesystem(Name, cfg.SourceDir, err))
	}
	for _, m := range matches {
		if err := ctx.Err(); err != nil {
			return res.Fail(err)
		}
		rel := fsutil.StripRoot(m.Rel, cfg.Resources.Root)
		logger.Debug("Copying resource.", "path", m.Rel)
		if err := fsutil.CopyFile(m.Abs, cfg.OutputPath(rel)); err != nil {
			return res.Fail(task.Filesystem(Name, m.Rel, err))
		}
		res.Wrote(rel)
	}
	return res.Succeed()
}
