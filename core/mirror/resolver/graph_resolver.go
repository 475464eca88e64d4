package resolver

import (
	"context"

	"github.com/goto/salt/log"

	"github.com/goto/tidewatch/core/mirror"
	"github.com/goto/tidewatch/internal/errors"
	"github.com/goto/tidewatch/internal/lib/graph"
)

const EntityGraphResolver = "graphResolver"

type TriggerFetcher interface {
	ListTriggers(ctx context.Context, jobID string) ([]mirror.Trigger, error)
}

type GraphResolver struct {
	l        log.Logger
	triggers TriggerFetcher
}

func NewGraphResolver(l log.Logger, triggers TriggerFetcher) *GraphResolver {
	return &GraphResolver{
		l:        l,
		triggers: triggers,
	}
}

// BuildGraph derives the dependency graph of the given jobs from their
// trigger lists. One trigger fetch failing aborts the whole build, a
// partial graph must never reach the cache.
//
// Trigger targets outside the job list still become graph nodes. The
// upstream scheduler reports such triggers for jobs outside the mirrored
// directory, so the node exists with no status or history attached.
func (r *GraphResolver) BuildGraph(ctx context.Context, jobs []*mirror.Job) (*graph.DiGraph, error) {
	g := graph.NewDiGraph()
	for _, job := range jobs {
		g.AddNode(job.Name.String())

		triggers, err := r.triggers.ListTriggers(ctx, job.ID)
		if err != nil {
			r.l.Error("failed to fetch triggers for job [%s]: %s", job.Name, err)
			return nil, errors.AddErrContext(err, EntityGraphResolver, "fetching triggers for job "+job.Name.String())
		}
		for _, trigger := range triggers {
			g.AddEdge(job.Name.String(), trigger.TriggeredJobName.String())
		}
	}
	return g, nil
}
