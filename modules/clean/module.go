// Package clean provides the task that wipes the output directory before a
// build.
package clean

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/specialistvlad/assetgrid/internal/config"
	"github.com/specialistvlad/assetgrid/internal/ctxlog"
	"github.com/specialistvlad/assetgrid/internal/registry"
	"github.com/specialistvlad/assetgrid/internal/task"
)

// Name is the task name used in targets.
const Name = "clean"

// ErrUnsafeOutput is returned when the output directory is a path that must
// never be deleted.
var ErrUnsafeOutput = errors.New("refusing to delete unsafe output directory")

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the clean task.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterTask(&Task{Getwd: os.Getwd})
}

// Task deletes the output directory tree. A missing directory is not an error.
type Task struct {
	Getwd func() (string, error)
}

func (t *Task) Name() string { return Name }

// Barrier makes clean precede every later task of a target.
func (t *Task) Barrier() bool { return true }

func (t *Task) Sources(*config.Model) []string { return nil }

func (t *Task) Outputs(context.Context, *config.Model) ([]string, error) {
	return []string{"."}, nil
}

func (t *Task) Run(ctx context.Context, cfg *config.Model) *task.Result {
	logger := ctxlog.FromContext(ctx)
	res := task.Begin(Name)

	if err := t.checkSafe(cfg); err != nil {
		return res.Fail(task.Filesystem(Name, cfg.OutputDir, err))
	}

	logger.Info("🔥 Cleaning output directory", "path", cfg.OutputDir)
	if err := os.RemoveAll(cfg.OutputDir); err != nil {
		return res.Fail(task.Filesystem(Name, cfg.OutputDir, fmt.Errorf("failed to remove output directory: %w", err)))
	}
	return res.Succeed()
}

// checkSafe rejects output directories that are the filesystem root, contain
// the working directory, or contain the source directory.
func (t *Task) checkSafe(cfg *config.Model) error {
	out, err := filepath.Abs(cfg.OutputDir)
	if err != nil {
		return fmt.Errorf("failed to resolve output directory: %w", err)
	}
	if out == filepath.VolumeName(out)+string(filepath.Separator) {
		return fmt.Errorf("%w: %s is the filesystem root", ErrUnsafeOutput, out)
	}

	getwd := t.Getwd
	if getwd == nil {
		getwd = os.Getwd
	}
	wd, err := getwd()
	if err != nil {
		return fmt.Errorf("failed to resolve working directory: %w", err)
	}
	if within(out, wd) {
		return fmt.Errorf("%w: %s contains the working directory", ErrUnsafeOutput, out)
	}

	src, err := filepath.Abs(cfg.SourceDir)
	if err != nil {
		return fmt.Errorf("failed to resolve source directory: %w", err)
	}
	if within(out, src) {
		return fmt.Errorf("%w: %s contains the source directory", ErrUnsafeOutput, out)
	}
	return nil
}

// within reports whether p is dir or lies below it.
func within(dir, p string) bool {
	rel, err := filepath.Rel(dir, p)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
