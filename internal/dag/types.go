package dag

import (
	"sync"
	"sync/atomic"

	"github.com/specialistvlad/assetgrid/internal/task"
)

// Graph is a collection of nodes and their dependencies, representing a DAG.
// Nodes remember the order they were added in; every listing and the
// executor's dispatch order follow it. All operations on the graph are
// concurrency-safe.
type Graph struct {
	// mutex protects the nodes map during concurrent access.
	mutex sync.RWMutex
	// nodes stores all nodes in the graph, keyed by their unique ID.
	nodes map[string]*node
	// order holds nodes in insertion order.
	order []*node
}

// node represents a single vertex in the graph. It is un-exported to
// enforce interaction with the graph via the public API (using string IDs),
// not by direct struct manipulation.
type node struct {
	id string
	// index is the insertion position, used to break ties between ready nodes.
	index int
	// deps holds the nodes that this node depends on (predecessors).
	deps []*node
	// dependents holds the nodes that depend on this node (successors).
	dependents []*node
}

// Edge is a dependency: To runs only after From succeeded.
type Edge struct {
	From string
	To   string
}

// state tracks one node during a single execution.
type state struct {
	node     *node
	depCount atomic.Int32
	skipOnce sync.Once
	result   *task.Result
}
