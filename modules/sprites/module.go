// Package sprites provides the svgSprites task, which merges individual SVG
// shapes into one "stacked" sprite addressable by fragment identifier
// (sprite.svg#icons--arrow).
package sprites

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/specialistvlad/assetgrid/internal/config"
	"github.com/specialistvlad/assetgrid/internal/ctxlog"
	"github.com/specialistvlad/assetgrid/internal/fsutil"
	"github.com/specialistvlad/assetgrid/internal/registry"
	"github.com/specialistvlad/assetgrid/internal/task"
	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/svg"
)

// Name is the task name used in targets.
const Name = "svgSprites"

const mediaType = "image/svg+xml"

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the svgSprites task.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterTask(newTask())
}

// Task builds the sprite. Its output does not depend on the build mode.
type Task struct {
	minifier *minify.M
}

func newTask() *Task {
	m := minify.New()
	m.Add(mediaType, &svg.Minifier{})
	return &Task{minifier: m}
}

func (t *Task) Name() string { return Name }

func (t *Task) Sources(cfg *config.Model) []string { return cfg.Sprites.Sources }

func (t *Task) Outputs(_ context.Context, cfg *config.Model) ([]string, error) {
	return []string{cfg.Sprites.Output}, nil
}

func (t *Task) Run(ctx context.Context, cfg *config.Model) *task.Result {
	logger := ctxlog.FromContext(ctx)
	res := task.Begin(Name)

	matches, err := fsutil.Glob(cfg.SourceDir, cfg.Sprites.Sources)
	if err != nil {
		return res.Fail(task.Filesystem(Name, cfg.SourceDir, err))
	}
	if len(matches) == 0 {
		logger.Warn("No SVG shapes found, nothing to write.", "patterns", cfg.Sprites.Sources)
		return res.Succeed()
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].Rel < matches[j].Rel })

	shapes := make([]*shape, 0, len(matches))
	owners := make(map[string]string, len(matches))
	for _, m := range matches {
		id := shapeID(m.Rel, cfg.Sprites.Root)
		if prev, taken := owners[id]; taken {
			return res.Fail(task.Transform(Name, m.Rel, fmt.Errorf("symbol id %q is already used by %s", id, prev)))
		}
		owners[id] = m.Rel

		raw, err := os.ReadFile(m.Abs)
		if err != nil {
			return res.Fail(task.Filesystem(Name, m.Rel, err))
		}

		var optimized bytes.Buffer
		if err := t.minifier.Minify(mediaType, &optimized, bytes.NewReader(raw)); err != nil {
			logger.Warn("Shape optimisation failed, using the original.", "path", m.Rel, "error", err)
			res.Warn(task.Minify(Name, m.Rel, err))
			optimized.Reset()
			optimized.Write(raw)
		}

		s, err := parseShape(optimized.Bytes())
		if err != nil {
			return res.Fail(task.Transform(Name, m.Rel, err))
		}
		s.id = id
		shapes = append(shapes, s)
	}

	logger.Debug("Writing sprite.", "shapes", len(shapes), "path", cfg.Sprites.Output)
	if err := fsutil.WriteFile(cfg.OutputPath(cfg.Sprites.Output), render(shapes), 0o644); err != nil {
		return res.Fail(task.Filesystem(Name, cfg.Sprites.Output, err))
	}
	res.Wrote(cfg.Sprites.Output)
	return res.Succeed()
}

// shapeID derives the fragment id from the path below root, without the
// extension, with separators replaced by "--".
func shapeID(rel, root string) string {
	rel = fsutil.StripRoot(rel, root)
	rel = strings.TrimSuffix(rel, path.Ext(rel))
	return strings.ReplaceAll(rel, "/", "--")
}
