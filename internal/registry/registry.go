package registry

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/specialistvlad/assetgrid/internal/task"
)

// Module is the interface that all task modules must implement to be registered.
type Module interface {
	Register(r *Registry)
}

// Registry holds the registered tasks for a single application instance.
type Registry struct {
	tasks map[string]task.Task
	// order keeps registration order for listings.
	order []string
}

// New creates and initializes a new Registry instance.
func New() *Registry {
	return &Registry{tasks: make(map[string]task.Task)}
}

// RegisterTask adds t under its name. Registering the same name twice is a
// programming error and panics.
func (r *Registry) RegisterTask(t task.Task) {
	name := t.Name()
	if _, exists := r.tasks[name]; exists {
		panic(fmt.Sprintf("task with name '%s' already registered", name))
	}
	slog.Debug("Registering task.", "name", name)
	r.tasks[name] = t
	r.order = append(r.order, name)
}

// Lookup returns the task registered under name.
func (r *Registry) Lookup(name string) (task.Task, bool) {
	t, ok := r.tasks[name]
	return t, ok
}

// Resolve looks up every name, in order, and fails on the first unknown one.
func (r *Registry) Resolve(names []string) ([]task.Task, error) {
	out := make([]task.Task, 0, len(names))
	for _, name := range names {
		t, ok := r.tasks[name]
		if !ok {
			return nil, fmt.Errorf("unknown task '%s' (known: %v)", name, r.Sorted())
		}
		out = append(out, t)
	}
	return out, nil
}

// Names returns task names in registration order.
func (r *Registry) Names() []string {
	return append([]string(nil), r.order...)
}

// Sorted returns task names in lexical order.
func (r *Registry) Sorted() []string {
	names := r.Names()
	sort.Strings(names)
	return names
}
