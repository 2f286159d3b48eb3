package dag

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/specialistvlad/assetgrid/internal/ctxlog"
	"github.com/specialistvlad/assetgrid/internal/task"
)

// RunFunc executes the task behind a node ID.
type RunFunc func(ctx context.Context, id string) *task.Result

// Executor runs a Graph on a bounded worker pool.
type Executor struct {
	graph      *Graph
	run        RunFunc
	numWorkers int
}

// Report is the outcome of one execution.
type Report struct {
	// Results holds one result per node, in graph insertion order.
	Results []*task.Result
	// Order lists node IDs in the order they were started.
	Order []string
}

// Result returns the result for id, or nil.
func (r *Report) Result(id string) *task.Result {
	for _, res := range r.Results {
		if res.Task == id {
			return res
		}
	}
	return nil
}

// NewExecutor creates an executor for g. numWorkers below 1 is treated as 1,
// which runs tasks strictly one after another in insertion order.
func NewExecutor(g *Graph, numWorkers int, run RunFunc) *Executor {
	if numWorkers < 1 {
		numWorkers = 1
	}
	return &Executor{graph: g, run: run, numWorkers: numWorkers}
}

// Run executes the entire graph concurrently. Among the nodes whose
// dependencies are satisfied, the earliest inserted is started first. The
// first failure cancels the run: its dependents and every node not yet
// started are skipped while running nodes finish. The returned error names
// the failed nodes and wraps the first failure.
func (e *Executor) Run(ctx context.Context) (*Report, error) {
	logger := ctxlog.FromContext(ctx)
	if err := e.graph.DetectCycles(); err != nil {
		return nil, err
	}

	e.graph.mutex.RLock()
	nodes := slices.Clone(e.graph.order)
	e.graph.mutex.RUnlock()

	states := make([]*state, len(nodes))
	var ready []*state
	for _, n := range nodes {
		s := &state{node: n}
		s.depCount.Store(int32(len(n.deps)))
		states[n.index] = s
		if len(n.deps) == 0 {
			logger.Debug("Found root node.", "task", n.id)
			ready = append(ready, s)
		}
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	work := make(chan *state)
	done := make(chan *state, len(nodes))
	var wg sync.WaitGroup
	logger.Debug("Starting worker pool.", "workers", e.numWorkers)
	for i := 0; i < e.numWorkers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			e.worker(runCtx, work, done, workerID)
		}(i)
	}

	report := &Report{}
	var rootCause *state
	running := 0
	for {
		for running < e.numWorkers && len(ready) > 0 && runCtx.Err() == nil {
			s := ready[0]
			ready = ready[1:]
			report.Order = append(report.Order, s.node.id)
			work <- s
			running++
		}
		if running == 0 {
			break
		}

		s := <-done
		running--
		if s.result.Status == task.Failed {
			if rootCause == nil && !errors.Is(s.result.Err, context.Canceled) {
				rootCause = s
			}
			cancel()
			e.skipDependents(ctx, states, s.node)
			continue
		}
		for _, dependent := range s.node.dependents {
			ds := states[dependent.index]
			if ds.depCount.Add(-1) == 0 {
				logger.Debug("Unlocking dependent node.", "task", dependent.id, "dependency", s.node.id)
				ready = insertReady(ready, ds)
			}
		}
	}
	close(work)
	wg.Wait()

	for _, s := range states {
		if s.result == nil {
			s.skipOnce.Do(func() {
				reason := ctx.Err()
				if rootCause != nil {
					reason = fmt.Errorf("skipped: run canceled after failure of '%s'", rootCause.node.id)
				}
				if reason == nil {
					reason = errors.New("skipped: dependencies never completed")
				}
				logger.Warn("Skipping task that never started.", "task", s.node.id, "reason", reason)
				s.result = task.Skip(s.node.id, reason)
			})
		}
		report.Results = append(report.Results, s.result)
	}

	if rootCause != nil {
		var failed []string
		for _, s := range states {
			// Tasks that only stopped because of the cancellation are not named.
			if s.result.Status == task.Failed && !errors.Is(s.result.Err, context.Canceled) {
				failed = append(failed, s.node.id)
			}
		}
		return report, fmt.Errorf("execution failed for %s: %w", strings.Join(failed, ", "), rootCause.result.Err)
	}
	if err := ctx.Err(); err != nil {
		return report, fmt.Errorf("execution interrupted: %w", err)
	}
	return report, nil
}

// skipDependents recursively marks all downstream nodes as skipped.
func (e *Executor) skipDependents(ctx context.Context, states []*state, n *node) {
	logger := ctxlog.FromContext(ctx)
	for _, dependent := range n.dependents {
		ds := states[dependent.index]
		ds.skipOnce.Do(func() {
			logger.Warn("Skipping dependent task due to upstream failure.", "task", dependent.id, "dependency", n.id)
			ds.result = task.Skip(dependent.id, fmt.Errorf("skipped due to upstream failure of '%s'", n.id))
			e.skipDependents(ctx, states, dependent)
		})
	}
}

// worker is the core processing loop for a single concurrent worker.
func (e *Executor) worker(ctx context.Context, work <-chan *state, done chan<- *state, workerID int) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Worker started.", "workerID", workerID)

	for s := range work {
		workerCtx := ctxlog.With(ctx, "workerID", workerID, "task", s.node.id)
		s.result = e.execute(workerCtx, s.node.id)
		done <- s
	}
	logger.Debug("Worker finished.", "workerID", workerID)
}

func (e *Executor) execute(ctx context.Context, id string) (res *task.Result) {
	logger := ctxlog.FromContext(ctx)
	logger.Info("▶️ Starting task")

	defer func() {
		if r := recover(); r != nil {
			res = task.Begin(id).Fail(fmt.Errorf("task %s panicked: %v", id, r))
		}
		switch res.Status {
		case task.Failed:
			logger.Error("🔥 Task failed", "error", res.Err)
		default:
			logger.Info("✅ Finished task", "duration", res.Duration(), "written", len(res.Written))
		}
		for _, w := range res.Warnings {
			logger.Warn("Task reported a warning.", "warning", w)
		}
	}()

	res = e.run(ctx, id)
	if res == nil {
		res = task.Begin(id).Fail(fmt.Errorf("task %s returned no result", id))
	}
	return res
}

func insertReady(ready []*state, s *state) []*state {
	i, _ := slices.BinarySearchFunc(ready, s, func(a, b *state) int { return a.node.index - b.node.index })
	return slices.Insert(ready, i, s)
}
