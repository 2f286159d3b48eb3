package builder

import (
	"context"
	"fmt"

	"github.com/specialistvlad/assetgrid/internal/config"
	"github.com/specialistvlad/assetgrid/internal/ctxlog"
	"github.com/specialistvlad/assetgrid/internal/dag"
	"github.com/specialistvlad/assetgrid/internal/registry"
	"github.com/specialistvlad/assetgrid/internal/task"
)

// Plan is an executable target: the graph plus the task behind every node.
type Plan struct {
	Graph *dag.Graph
	tasks map[string]task.Task
}

// Task returns the task for a node ID.
func (p *Plan) Task(id string) (task.Task, bool) {
	t, ok := p.tasks[id]
	return t, ok
}

// Build resolves names through reg and links them into a Plan.
func Build(ctx context.Context, reg *registry.Registry, cfg *config.Model, names []string) (*Plan, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Building execution plan.", "tasks", names)

	if len(names) == 0 {
		return nil, fmt.Errorf("target has no tasks")
	}
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if seen[name] {
			return nil, fmt.Errorf("task '%s' is listed more than once", name)
		}
		seen[name] = true
	}

	tasks, err := reg.Resolve(names)
	if err != nil {
		return nil, err
	}

	plan := &Plan{Graph: dag.New(), tasks: make(map[string]task.Task, len(tasks))}
	for _, t := range tasks {
		plan.Graph.AddNode(t.Name())
		plan.tasks[t.Name()] = t
	}

	if err := linkBarriers(plan.Graph, tasks); err != nil {
		return nil, err
	}
	if err := linkOverlaps(ctx, plan.Graph, tasks, cfg); err != nil {
		return nil, err
	}
	if err := plan.Graph.DetectCycles(); err != nil {
		return nil, fmt.Errorf("invalid execution plan: %w", err)
	}

	logger.Debug("Execution plan built.", "nodes", plan.Graph.Len(), "edges", len(plan.Graph.Edges()))
	return plan, nil
}
