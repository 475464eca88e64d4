package graph_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/goto/tidewatch/internal/lib/graph"
)

func TestDiGraph(t *testing.T) {
	t.Run("AddNode", func(t *testing.T) {
		t.Run("keeps insertion order and ignores duplicates", func(t *testing.T) {
			g := graph.NewDiGraph()
			g.AddNode("job-a")
			g.AddNode("job-b")
			g.AddNode("job-a")

			assert.Equal(t, []string{"job-a", "job-b"}, g.Nodes())
			assert.Equal(t, 2, g.NodeCount())
		})
	})
	t.Run("AddEdge", func(t *testing.T) {
		t.Run("implicitly creates missing endpoints", func(t *testing.T) {
			g := graph.NewDiGraph()
			g.AddNode("job-a")
			g.AddEdge("job-a", "job-x")

			assert.True(t, g.HasNode("job-x"))
			assert.Equal(t, []graph.Edge{{Source: "job-a", Target: "job-x"}}, g.Edges())
		})
		t.Run("ignores duplicate edges", func(t *testing.T) {
			g := graph.NewDiGraph()
			g.AddEdge("job-a", "job-b")
			g.AddEdge("job-a", "job-b")

			assert.Equal(t, 1, g.EdgeCount())
			assert.Equal(t, []string{"job-b"}, g.Successors("job-a"))
			assert.Equal(t, []string{"job-a"}, g.Predecessors("job-b"))
		})
	})
	t.Run("NodeLinkForm", func(t *testing.T) {
		t.Run("round-trips node set and edge set", func(t *testing.T) {
			g := graph.NewDiGraph()
			g.AddNode("job-a")
			g.AddNode("job-b")
			g.AddNode("lonely")
			g.AddEdge("job-a", "job-b")
			g.AddEdge("job-b", "job-c")

			raw, err := json.Marshal(g)
			assert.NoError(t, err)

			restored := graph.NewDiGraph()
			err = json.Unmarshal(raw, restored)
			assert.NoError(t, err)

			assert.ElementsMatch(t, g.Nodes(), restored.Nodes())
			assert.ElementsMatch(t, g.Edges(), restored.Edges())
		})
		t.Run("serializes explicit node and link lists", func(t *testing.T) {
			g := graph.NewDiGraph()
			g.AddEdge("job-a", "job-b")

			raw, err := json.Marshal(g)
			assert.NoError(t, err)
			assert.JSONEq(t, `{
				"directed": true,
				"nodes": [{"id": "job-a"}, {"id": "job-b"}],
				"links": [{"source": "job-a", "target": "job-b"}]
			}`, string(raw))
		})
		t.Run("fails on unparseable payload", func(t *testing.T) {
			restored := graph.NewDiGraph()
			err := json.Unmarshal([]byte(`{"nodes": "oops"}`), restored)
			assert.Error(t, err)
		})
	})
}
