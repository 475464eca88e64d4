package graph_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/goto/tidewatch/internal/errors"
	"github.com/goto/tidewatch/internal/lib/graph"
)

func TestLevels(t *testing.T) {
	t.Run("assigns zero to roots and increments along chains", func(t *testing.T) {
		g := graph.NewDiGraph()
		g.AddNode("job-a")
		g.AddNode("job-b")
		g.AddNode("job-c")
		g.AddEdge("job-a", "job-b")
		g.AddEdge("job-b", "job-c")

		levels, err := graph.Levels(g)
		assert.NoError(t, err)
		assert.Equal(t, map[string]int{
			"job-a": 0,
			"job-b": 1,
			"job-c": 2,
		}, levels)
	})
	t.Run("places a node one past its deepest predecessor", func(t *testing.T) {
		g := graph.NewDiGraph()
		g.AddEdge("ingest", "clean")
		g.AddEdge("clean", "aggregate")
		g.AddEdge("ingest", "aggregate")

		levels, err := graph.Levels(g)
		assert.NoError(t, err)
		assert.Equal(t, 2, levels["aggregate"])
		for _, edge := range g.Edges() {
			assert.Less(t, levels[edge.Source], levels[edge.Target])
		}
	})
	t.Run("keeps isolated nodes at level zero", func(t *testing.T) {
		g := graph.NewDiGraph()
		g.AddNode("lonely")
		g.AddEdge("job-a", "job-b")

		levels, err := graph.Levels(g)
		assert.NoError(t, err)
		assert.Equal(t, 0, levels["lonely"])
	})
	t.Run("returns error for a dependency cycle", func(t *testing.T) {
		g := graph.NewDiGraph()
		g.AddEdge("job-a", "job-b")
		g.AddEdge("job-b", "job-a")

		levels, err := graph.Levels(g)
		assert.Nil(t, levels)
		assert.True(t, errors.IsErrorType(err, errors.ErrCyclicGraph))
		assert.ErrorContains(t, err, "dependency cycle")
	})
	t.Run("detects a cycle reachable from a valid prefix", func(t *testing.T) {
		g := graph.NewDiGraph()
		g.AddEdge("job-a", "job-b")
		g.AddEdge("job-b", "job-c")
		g.AddEdge("job-c", "job-b")

		_, err := graph.Levels(g)
		assert.True(t, errors.IsErrorType(err, errors.ErrCyclicGraph))
	})
}

func TestHierarchicalLayout(t *testing.T) {
	t.Run("returns empty positions for an empty graph", func(t *testing.T) {
		positions, err := graph.HierarchicalLayout(graph.NewDiGraph())
		assert.NoError(t, err)
		assert.Empty(t, positions)
	})
	t.Run("spaces levels horizontally and centers each column", func(t *testing.T) {
		g := graph.NewDiGraph()
		g.AddEdge("root", "left")
		g.AddEdge("root", "right")

		positions, err := graph.HierarchicalLayout(g)
		assert.NoError(t, err)
		assert.Equal(t, graph.Position{X: 0, Y: 0}, positions["root"])
		assert.Equal(t, graph.Position{X: 200, Y: -50}, positions["left"])
		assert.Equal(t, graph.Position{X: 200, Y: 50}, positions["right"])
	})
	t.Run("propagates cycle detection", func(t *testing.T) {
		g := graph.NewDiGraph()
		g.AddEdge("job-a", "job-b")
		g.AddEdge("job-b", "job-a")

		positions, err := graph.HierarchicalLayout(g)
		assert.Nil(t, positions)
		assert.True(t, errors.IsErrorType(err, errors.ErrCyclicGraph))
	})
}
