package builder

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/specialistvlad/assetgrid/internal/config"
	"github.com/specialistvlad/assetgrid/internal/ctxlog"
	"github.com/specialistvlad/assetgrid/internal/dag"
	"github.com/specialistvlad/assetgrid/internal/task"
)

// linkBarriers orders every task relative to the barriers around it.
func linkBarriers(g *dag.Graph, tasks []task.Task) error {
	for i, t := range tasks {
		if !task.IsBarrier(t) {
			continue
		}
		for _, before := range tasks[:i] {
			if err := g.AddEdge(before.Name(), t.Name()); err != nil {
				return err
			}
		}
		for _, after := range tasks[i+1:] {
			if err := g.AddEdge(t.Name(), after.Name()); err != nil {
				return err
			}
		}
	}
	return nil
}

// linkOverlaps serializes ordinary tasks whose planned outputs collide.
func linkOverlaps(ctx context.Context, g *dag.Graph, tasks []task.Task, cfg *config.Model) error {
	logger := ctxlog.FromContext(ctx)

	outputs := make([][]string, len(tasks))
	for i, t := range tasks {
		if task.IsBarrier(t) {
			continue
		}
		outs, err := t.Outputs(ctx, cfg)
		if err != nil {
			return fmt.Errorf("failed to plan outputs of %s: %w", t.Name(), err)
		}
		outputs[i] = outs
	}

	for i := range tasks {
		for j := i + 1; j < len(tasks); j++ {
			if p, q, ok := firstOverlap(outputs[i], outputs[j]); ok {
				logger.Debug("Serializing tasks with overlapping outputs.",
					"first", tasks[i].Name(), "second", tasks[j].Name(), "path", p, "other", q)
				if err := g.AddEdge(tasks[i].Name(), tasks[j].Name()); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func firstOverlap(a, b []string) (string, string, bool) {
	for _, p := range a {
		for _, q := range b {
			if overlaps(p, q) {
				return p, q, true
			}
		}
	}
	return "", "", false
}

// overlaps reports whether two output paths are the same or one contains the other.
func overlaps(a, b string) bool {
	a, b = path.Clean("/"+a), path.Clean("/"+b)
	if a == b || a == "/" || b == "/" {
		return true
	}
	return strings.HasPrefix(a, b+"/") || strings.HasPrefix(b, a+"/")
}
