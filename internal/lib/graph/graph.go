package graph

import (
	"encoding/json"

	"github.com/goto/tidewatch/internal/errors"
)

const EntityGraph = "graph"

type Edge struct {
	Source string
	Target string
}

// DiGraph is a directed graph keyed by node name. Nodes and edges keep
// their insertion order, which downstream consumers rely on for stable
// display ordering.
type DiGraph struct {
	nodes   []string
	nodeSet map[string]struct{}

	edges   []Edge
	edgeSet map[Edge]struct{}

	successors   map[string][]string
	predecessors map[string][]string
}

func NewDiGraph() *DiGraph {
	return &DiGraph{
		nodeSet:      map[string]struct{}{},
		edgeSet:      map[Edge]struct{}{},
		successors:   map[string][]string{},
		predecessors: map[string][]string{},
	}
}

// AddNode registers a node, adding one that already exists is a no-op.
func (g *DiGraph) AddNode(name string) {
	if _, ok := g.nodeSet[name]; ok {
		return
	}
	g.nodeSet[name] = struct{}{}
	g.nodes = append(g.nodes, name)
}

// AddEdge adds a directed edge, implicitly registering endpoints that
// were never added as nodes.
func (g *DiGraph) AddEdge(source, target string) {
	g.AddNode(source)
	g.AddNode(target)

	edge := Edge{Source: source, Target: target}
	if _, ok := g.edgeSet[edge]; ok {
		return
	}
	g.edgeSet[edge] = struct{}{}
	g.edges = append(g.edges, edge)
	g.successors[source] = append(g.successors[source], target)
	g.predecessors[target] = append(g.predecessors[target], source)
}

func (g *DiGraph) HasNode(name string) bool {
	_, ok := g.nodeSet[name]
	return ok
}

func (g *DiGraph) Nodes() []string {
	nodes := make([]string, len(g.nodes))
	copy(nodes, g.nodes)
	return nodes
}

func (g *DiGraph) Edges() []Edge {
	edges := make([]Edge, len(g.edges))
	copy(edges, g.edges)
	return edges
}

func (g *DiGraph) Successors(name string) []string {
	return g.successors[name]
}

func (g *DiGraph) Predecessors(name string) []string {
	return g.predecessors[name]
}

func (g *DiGraph) NodeCount() int {
	return len(g.nodes)
}

func (g *DiGraph) EdgeCount() int {
	return len(g.edges)
}

// node-link form keeps the serialized graph legible and diff-able, with
// an explicit node list and an explicit source/target link list.
type nodeLinkData struct {
	Directed bool       `json:"directed"`
	Nodes    []nodeData `json:"nodes"`
	Links    []linkData `json:"links"`
}

type nodeData struct {
	ID string `json:"id"`
}

type linkData struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

func (g *DiGraph) MarshalJSON() ([]byte, error) {
	data := nodeLinkData{
		Directed: true,
		Nodes:    make([]nodeData, 0, len(g.nodes)),
		Links:    make([]linkData, 0, len(g.edges)),
	}
	for _, node := range g.nodes {
		data.Nodes = append(data.Nodes, nodeData{ID: node})
	}
	for _, edge := range g.edges {
		data.Links = append(data.Links, linkData{Source: edge.Source, Target: edge.Target})
	}
	return json.Marshal(data)
}

func (g *DiGraph) UnmarshalJSON(b []byte) error {
	var data nodeLinkData
	if err := json.Unmarshal(b, &data); err != nil {
		return errors.Wrap(EntityGraph, "unable to parse node-link data", err)
	}

	*g = *NewDiGraph()
	for _, node := range data.Nodes {
		g.AddNode(node.ID)
	}
	for _, link := range data.Links {
		g.AddEdge(link.Source, link.Target)
	}
	return nil
}
