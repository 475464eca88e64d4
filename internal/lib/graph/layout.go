package graph

import (
	"github.com/goto/tidewatch/internal/errors"
)

const (
	defaultHorizontalSpacing = 200
	defaultVerticalSpacing   = 100
)

type Position struct {
	X float64
	Y float64
}

// Levels assigns each node its longest-path layer: 0 for nodes without
// predecessors, otherwise one more than the deepest predecessor. The
// computation is an iterative topological sort with relaxation, so a
// cycle in the input is detected structurally instead of overflowing
// the stack.
func Levels(g *DiGraph) (map[string]int, error) {
	indegree := make(map[string]int, g.NodeCount())
	for _, node := range g.nodes {
		indegree[node] = len(g.predecessors[node])
	}

	levels := make(map[string]int, g.NodeCount())
	var queue []string
	for _, node := range g.nodes {
		if indegree[node] == 0 {
			queue = append(queue, node)
			levels[node] = 0
		}
	}

	processed := 0
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		processed++

		for _, successor := range g.successors[current] {
			if levels[current]+1 > levels[successor] {
				levels[successor] = levels[current] + 1
			}
			indegree[successor]--
			if indegree[successor] == 0 {
				queue = append(queue, successor)
			}
		}
	}

	if processed < g.NodeCount() {
		for _, node := range g.nodes {
			if indegree[node] > 0 {
				return nil, errors.NewError(errors.ErrCyclicGraph, EntityGraph, "dependency cycle involving ["+node+"]")
			}
		}
	}

	return levels, nil
}

// HierarchicalLayout maps each node to 2-D coordinates for left-to-right
// layered display. Nodes within a level keep first-seen order and are
// centered vertically around y = 0.
func HierarchicalLayout(g *DiGraph) (map[string]Position, error) {
	levels, err := Levels(g)
	if err != nil {
		return nil, err
	}

	positions := make(map[string]Position, g.NodeCount())
	if g.NodeCount() == 0 {
		return positions, nil
	}

	levelGroups := map[int][]string{}
	maxLevel := 0
	for _, node := range g.nodes {
		level := levels[node]
		levelGroups[level] = append(levelGroups[level], node)
		if level > maxLevel {
			maxLevel = level
		}
	}

	for level := 0; level <= maxLevel; level++ {
		nodes := levelGroups[level]
		x := float64(level * defaultHorizontalSpacing)
		for i, node := range nodes {
			y := (float64(i) - float64(len(nodes))/2 + 0.5) * defaultVerticalSpacing
			positions[node] = Position{X: x, Y: y}
		}
	}

	return positions, nil
}
