package task

import (
	"context"

	"github.com/specialistvlad/assetgrid/internal/config"
)

// Task is one named pipeline step.
type Task interface {
	// Name is the identifier used on the command line and in targets.
	Name() string
	// Sources returns the glob patterns, relative to the source dir, the task
	// reads. The watch loop binds these patterns to the task.
	Sources(cfg *config.Model) []string
	// Outputs returns the paths, relative to the output dir, the task plans to
	// write. A trailing slash marks a directory the task owns.
	Outputs(ctx context.Context, cfg *config.Model) ([]string, error)
	// Run performs the step. It never returns nil.
	Run(ctx context.Context, cfg *config.Model) *Result
}

// Barrier is implemented by tasks that must run after every earlier task of a
// target and before every later one.
type Barrier interface {
	Barrier() bool
}

// IsBarrier reports whether t declares itself a barrier.
func IsBarrier(t Task) bool {
	b, ok := t.(Barrier)
	return ok && b.Barrier()
}
