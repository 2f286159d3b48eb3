package dag

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	g := New()
	require.NotNil(t, g)
	assert.NotNil(t, g.nodes)
	assert.Empty(t, g.nodes)
	assert.Zero(t, g.Len())
}

func TestAddNode(t *testing.T) {
	g := New()

	g.AddNode("b")
	assert.Len(t, g.nodes, 1)
	nodeB, ok := g.nodes["b"]
	require.True(t, ok)
	assert.Equal(t, "b", nodeB.id)
	assert.Equal(t, 0, nodeB.index)

	g.AddNode("b") // Test idempotency
	assert.Len(t, g.nodes, 1)

	g.AddNode("a")
	assert.Equal(t, []string{"b", "a"}, g.Nodes(), "insertion order, not lexical")
}

func TestAddEdge(t *testing.T) {
	t.Run("success case", func(t *testing.T) {
		g := New()
		g.AddNode("a")
		g.AddNode("b")

		err := g.AddEdge("a", "b") // b depends on a
		require.NoError(t, err)
		require.NoError(t, g.AddEdge("a", "b"), "duplicate edges are ignored")

		deps, err := g.Dependencies("b")
		require.NoError(t, err)
		assert.Equal(t, []string{"a"}, deps)
		dependents, err := g.Dependents("a")
		require.NoError(t, err)
		assert.Equal(t, []string{"b"}, dependents)
	})

	t.Run("error cases", func(t *testing.T) {
		g := New()
		g.AddNode("a")
		g.AddNode("b")

		err := g.AddEdge("dne", "a")
		assert.ErrorContains(t, err, "source node not found")

		err = g.AddEdge("a", "dne")
		assert.ErrorContains(t, err, "destination node not found")

		err = g.AddEdge("a", "a")
		assert.ErrorContains(t, err, "self-referential edge")

		_, err = g.Dependencies("dne")
		assert.ErrorContains(t, err, "node not found")
		_, err = g.Dependents("dne")
		assert.ErrorContains(t, err, "node not found")
	})
}

func TestEdges_AreOrderedByInsertion(t *testing.T) {
	// --- Arrange ---
	g := New()
	for _, id := range []string{"clean", "styles", "scripts", "serve"} {
		g.AddNode(id)
	}
	require.NoError(t, g.AddEdge("scripts", "serve"))
	require.NoError(t, g.AddEdge("clean", "scripts"))
	require.NoError(t, g.AddEdge("styles", "serve"))
	require.NoError(t, g.AddEdge("clean", "styles"))

	// --- Act ---
	edges := g.Edges()

	// --- Assert ---
	want := []Edge{
		{From: "clean", To: "styles"},
		{From: "clean", To: "scripts"},
		{From: "styles", To: "serve"},
		{From: "scripts", To: "serve"},
	}
	if diff := cmp.Diff(want, edges); diff != "" {
		t.Errorf("Edges() mismatch (-want +got):\n%s", diff)
	}
	deps, err := g.Dependencies("serve")
	require.NoError(t, err)
	assert.Equal(t, []string{"styles", "scripts"}, deps)
}

func TestDetectCycles(t *testing.T) {
	t.Run("empty graph has no cycles", func(t *testing.T) {
		g := New()
		assert.NoError(t, g.DetectCycles())
	})

	t.Run("graph with nodes but no edges has no cycles", func(t *testing.T) {
		g := New()
		g.AddNode("a")
		g.AddNode("b")
		g.AddNode("c")
		assert.NoError(t, g.DetectCycles())
	})

	t.Run("valid dag has no cycles", func(t *testing.T) {
		g := New()
		g.AddNode("a")
		g.AddNode("b")
		g.AddNode("c")
		g.AddNode("d")
		require.NoError(t, g.AddEdge("a", "b"))
		require.NoError(t, g.AddEdge("b", "c"))
		require.NoError(t, g.AddEdge("a", "c")) // Transitive edge
		require.NoError(t, g.AddEdge("c", "d"))
		assert.NoError(t, g.DetectCycles())
	})

	t.Run("simple direct cycle is detected", func(t *testing.T) {
		g := New()
		g.AddNode("a")
		g.AddNode("b")
		require.NoError(t, g.AddEdge("a", "b"))
		require.NoError(t, g.AddEdge("b", "a")) // Cycle
		assert.ErrorContains(t, g.DetectCycles(), "cycle detected")
	})

	t.Run("cycle in a disjoint component is detected", func(t *testing.T) {
		g := New()
		// Component 1 (valid)
		g.AddNode("a")
		g.AddNode("b")
		require.NoError(t, g.AddEdge("a", "b"))

		// Component 2 (has a cycle)
		g.AddNode("x")
		g.AddNode("y")
		g.AddNode("z")
		require.NoError(t, g.AddEdge("x", "y"))
		require.NoError(t, g.AddEdge("y", "z"))
		require.NoError(t, g.AddEdge("z", "y")) // Cycle

		assert.ErrorContains(t, g.DetectCycles(), "cycle detected")
	})
}
