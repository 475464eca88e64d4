package mirror

import (
	"time"

	"github.com/goto/tidewatch/internal/lib/graph"
)

type SnapshotSource string

const (
	SourceCache SnapshotSource = "cache"
	SourceFresh SnapshotSource = "fresh"
)

// Snapshot pairs the full job list with its derived dependency graph at
// a point in time. It is owned by the snapshot store and replaced
// atomically on refresh, never merged partially.
type Snapshot struct {
	Jobs      []*Job         `json:"jobs"`
	Graph     *graph.DiGraph `json:"graph"`
	CreatedAt time.Time      `json:"timestamp"`
}

func NewSnapshot(jobs []*Job, g *graph.DiGraph, createdAt time.Time) *Snapshot {
	return &Snapshot{
		Jobs:      jobs,
		Graph:     g,
		CreatedAt: createdAt,
	}
}

func (s *Snapshot) JobByName(name JobName) *Job {
	for _, job := range s.Jobs {
		if job.Name == name {
			return job
		}
	}
	return nil
}

// ImplicitNodes lists graph nodes that have no backing job record. The
// scheduler can report triggers pointing at jobs outside the mirrored
// directory, those become nodes with no status and no history and are
// treated as degraded data by callers.
func (s *Snapshot) ImplicitNodes() []string {
	known := make(map[JobName]struct{}, len(s.Jobs))
	for _, job := range s.Jobs {
		known[job.Name] = struct{}{}
	}

	var implicit []string
	for _, node := range s.Graph.Nodes() {
		if _, ok := known[JobName(node)]; !ok {
			implicit = append(implicit, node)
		}
	}
	return implicit
}
