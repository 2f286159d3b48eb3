// Package watch re-runs tasks when files under the source tree change.
//
// Each Binding maps a set of slash-separated glob patterns to one task.
// Events are coalesced per task within the debounce window, runs of the same
// task never overlap, and an event arriving mid-run schedules exactly one
// follow-up run. Different tasks run concurrently.
package watch
