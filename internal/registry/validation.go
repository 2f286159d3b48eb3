package registry

import (
	"errors"
	"fmt"
	"sort"
)

// ValidateTargets checks that every task referenced by a target is registered.
// All problems are reported together.
func (r *Registry) ValidateTargets(targets map[string][]string) error {
	names := make([]string, 0, len(targets))
	for name := range targets {
		names = append(names, name)
	}
	sort.Strings(names)

	var errs []error
	for _, target := range names {
		for _, taskName := range targets[target] {
			if _, ok := r.tasks[taskName]; !ok {
				errs = append(errs, fmt.Errorf("target '%s' references unregistered task '%s'", target, taskName))
			}
		}
	}
	return errors.Join(errs...)
}
