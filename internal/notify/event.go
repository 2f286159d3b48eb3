package notify

import (
	"context"
	"path"
	"strings"
	"time"

	"github.com/specialistvlad/assetgrid/internal/task"
)

// Kind is the type of a notification.
type Kind string

const (
	KindSucceeded Kind = "task.succeeded"
	KindFailed    Kind = "task.failed"
	KindWarning   Kind = "task.warning"
	// KindReload asks connected browsers to pick up new output.
	KindReload Kind = "reload"
)

// Event is one notification.
type Event struct {
	Kind Kind
	Task string
	// Message is a one-line human summary.
	Message string
	Err     error
	// Paths are the output paths involved, relative to the output dir.
	Paths []string
	// CSSOnly is set on reload events whose outputs are all stylesheets, so
	// browsers can swap stylesheets instead of reloading the page.
	CSSOnly bool
	Time    time.Time
}

// Notifier receives events. Implementations must be safe for concurrent use
// and must not block for long.
type Notifier interface {
	Notify(ctx context.Context, ev Event)
}

// Multi fans an event out to every notifier in order.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, ev Event) {
	for _, n := range m {
		if n != nil {
			n.Notify(ctx, ev)
		}
	}
}

// FromResult converts a task result into events: one per soft warning, then
// the outcome, then a reload request when the task asked for one.
func FromResult(res *task.Result) []Event {
	now := res.Finished
	if now.IsZero() {
		now = time.Now()
	}

	var events []Event
	for _, w := range res.Warnings {
		events = append(events, Event{Kind: KindWarning, Task: res.Task, Message: w.Error(), Err: w, Time: now})
	}

	switch res.Status {
	case task.Failed:
		return append(events, Event{Kind: KindFailed, Task: res.Task, Message: res.Err.Error(), Err: res.Err, Time: now})
	case task.Skipped:
		return events
	}

	events = append(events, Event{
		Kind:    KindSucceeded,
		Task:    res.Task,
		Message: res.Task + " finished in " + res.Duration().Round(time.Millisecond).String(),
		Paths:   res.Written,
		Time:    now,
	})
	if res.Reload && len(res.Written) > 0 {
		events = append(events, Event{
			Kind:    KindReload,
			Task:    res.Task,
			Message: "reload",
			Paths:   res.Written,
			CSSOnly: allCSS(res.Written),
			Time:    now,
		})
	}
	return events
}

func allCSS(paths []string) bool {
	for _, p := range paths {
		if !strings.EqualFold(path.Ext(p), ".css") {
			return false
		}
	}
	return len(paths) > 0
}
