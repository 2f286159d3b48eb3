// Package markup provides the htmlMinify task, which copies HTML pages into
// the output tree and collapses insignificant whitespace in production.
package markup

import (
	"bytes"
	"context"
	"os"

	"github.com/specialistvlad/assetgrid/internal/config"
	"github.com/specialistvlad/assetgrid/internal/ctxlog"
	"github.com/specialistvlad/assetgrid/internal/fsutil"
	"github.com/specialistvlad/assetgrid/internal/registry"
	"github.com/specialistvlad/assetgrid/internal/task"
	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/html"
)

// Name is the task name used in targets.
const Name = "htmlMinify"

const mediaType = "text/html"

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the htmlMinify task.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterTask(newTask())
}

// Task copies every matched page preserving its relative path.
type Task struct {
	minifier *minify.M
}

func newTask() *Task {
	m := minify.New()
	// Only whitespace is collapsed; document structure, comments and
	// attribute spelling stay as authored.
	m.Add(mediaType, &html.Minifier{
		KeepComments:        true,
		KeepDefaultAttrVals: true,
		KeepDocumentTags:    true,
		KeepEndTags:         true,
		KeepQuotes:          true,
	})
	return &Task{minifier: m}
}

func (t *Task) Name() string { return Name }

func (t *Task) Sources(cfg *config.Model) []string { return cfg.Markup.Sources }

func (t *Task) Outputs(_ context.Context, cfg *config.Model) ([]string, error) {
	matches, err := fsutil.Glob(cfg.SourceDir, cfg.Markup.Sources)
	if err != nil {
		return nil, err
	}
	outs := make([]string, 0, len(matches))
	for _, m := range matches {
		outs = append(outs, m.Rel)
	}
	return outs, nil
}

func (t *Task) Run(ctx context.Context, cfg *config.Model) *task.Result {
	logger := ctxlog.FromContext(ctx)
	res := task.Begin(Name)
	res.Reload = true

	matches, err := fsutil.Glob(cfg.SourceDir, cfg.Markup.Sources)
	if err != nil {
		return res.Fail(task.Filesystem(Name, cfg.SourceDir, err))
	}
	for _, m := range matches {
		if err := ctx.Err(); err != nil {
			return res.Fail(err)
		}
		if !cfg.Mode.IsProduction() {
			if err := fsutil.CopyFile(m.Abs, cfg.OutputPath(m.Rel)); err != nil {
				return res.Fail(task.Filesystem(Name, m.Rel, err))
			}
			res.Wrote(m.Rel)
			continue
		}

		src, err := os.ReadFile(m.Abs)
		if err != nil {
			return res.Fail(task.Filesystem(Name, m.Rel, err))
		}
		var out bytes.Buffer
		if err := t.minifier.Minify(mediaType, &out, bytes.NewReader(src)); err != nil {
			return res.Fail(task.Transform(Name, m.Rel, err))
		}
		logger.Debug("Minified page.", "path", m.Rel, "before", len(src), "after", out.Len())
		if err := fsutil.WriteFile(cfg.OutputPath(m.Rel), out.Bytes(), 0o644); err != nil {
			return res.Fail(task.Filesystem(Name, m.Rel, err))
		}
		res.Wrote(m.Rel)
	}
	return res.Succeed()
}
