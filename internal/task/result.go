package task

import (
	"errors"
	"time"
)

// Status is the terminal state of one task run.
type Status int

const (
	Succeeded Status = iota
	Failed
	Skipped
)

func (s Status) String() string {
	switch s {
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	case Skipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// Result is what a task reports back to the executor and the watch loop.
type Result struct {
	Task   string
	Status Status
	// Written lists output paths, relative to the output dir, in write order.
	Written []string
	// Reload is set when connected browsers should pick up the new output.
	Reload bool
	// Err is set when Status is Failed or Skipped.
	Err error
	// Warnings are soft failures that did not stop the task.
	Warnings []error
	Started  time.Time
	Finished time.Time
}

// Begin returns an in-progress result for the named task.
func Begin(name string) *Result {
	return &Result{Task: name, Started: time.Now()}
}

// Succeed marks r as succeeded and stamps the finish time.
func (r *Result) Succeed() *Result {
	r.Status = Succeeded
	r.Finished = time.Now()
	return r
}

// Fail marks r as failed with err and stamps the finish time.
func (r *Result) Fail(err error) *Result {
	r.Status = Failed
	r.Err = err
	r.Finished = time.Now()
	return r
}

// Skip returns a skipped result for the named task.
func Skip(name string, reason error) *Result {
	now := time.Now()
	return &Result{Task: name, Status: Skipped, Err: reason, Started: now, Finished: now}
}

// Wrote records an output path.
func (r *Result) Wrote(rel string) {
	r.Written = append(r.Written, rel)
}

// Warn records a soft failure.
func (r *Result) Warn(err error) {
	r.Warnings = append(r.Warnings, err)
}

// Warning joins all soft failures, or returns nil when there are none.
func (r *Result) Warning() error {
	return errors.Join(r.Warnings...)
}

// Duration is the wall-clock time the task took.
func (r *Result) Duration() time.Duration {
	return r.Finished.Sub(r.Started)
}
