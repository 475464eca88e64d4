package service

import (
	"context"
	"time"

	"github.com/goto/salt/log"
	"github.com/kushsharma/parallel"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/goto/tidewatch/core/mirror"
	"github.com/goto/tidewatch/internal/errors"
	"github.com/goto/tidewatch/internal/lib/graph"
	"github.com/goto/tidewatch/internal/telemetry"
)

const (
	EntityMirror = "mirror"

	concurrentTicketPerSec = 10
	concurrentLimit        = 20

	metricStateSuccess = "success"
	metricStateFailed  = "failed"
)

var snapshotRequestMetric = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "mirror_snapshot_requests_total",
	Help: "snapshot requests served, by data source",
}, []string{"source"})

var statusFetchMetric = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "mirror_status_fetch_total",
	Help: "per job status fetches during refresh",
}, []string{"status"})

type SchedulerClient interface {
	ListJobs(ctx context.Context, directory string) ([]*mirror.Job, error)
	ListTriggers(ctx context.Context, jobID string) ([]mirror.Trigger, error)
	GetJobStatus(ctx context.Context, jobID string) (mirror.State, error)
	GetJobOutput(ctx context.Context, jobID string) (string, error)
}

type GraphResolver interface {
	BuildGraph(ctx context.Context, jobs []*mirror.Job) (*graph.DiGraph, error)
}

type SnapshotStore interface {
	IsValid() bool
	Load() (*mirror.Snapshot, error)
	Save(*mirror.Snapshot) error
	Invalidate() error
}

type HistoryStore interface {
	Append(entries ...*mirror.HistoryEntry) error
	QueryAll(limit int) ([]*mirror.HistoryEntry, error)
	QueryByJob(jobNameOrID string, limit int) ([]*mirror.HistoryEntry, error)
}

// MirrorService decides cache-vs-refresh and keeps the snapshot store
// and history log in step with the external scheduler.
type MirrorService struct {
	l            log.Logger
	scheduler    SchedulerClient
	resolver     GraphResolver
	snapshots    SnapshotStore
	history      HistoryStore
	jobDirectory string

	now func() time.Time
}

func NewMirrorService(l log.Logger, scheduler SchedulerClient, resolver GraphResolver, snapshots SnapshotStore, history HistoryStore, jobDirectory string) *MirrorService {
	return &MirrorService{
		l:            l,
		scheduler:    scheduler,
		resolver:     resolver,
		snapshots:    snapshots,
		history:      history,
		jobDirectory: jobDirectory,
		now:          time.Now,
	}
}

// GetSnapshot serves the cached snapshot while it is valid, otherwise it
// rebuilds from the scheduler.
func (s *MirrorService) GetSnapshot(ctx context.Context) (*mirror.Snapshot, mirror.SnapshotSource, error) {
	if s.snapshots.IsValid() {
		snapshot, err := s.snapshots.Load()
		if err != nil {
			return nil, "", err
		}
		if snapshot != nil {
			snapshotRequestMetric.WithLabelValues(string(mirror.SourceCache)).Inc()
			return snapshot, mirror.SourceCache, nil
		}
	}

	snapshot, err := s.rebuild(ctx)
	if err != nil {
		return nil, "", err
	}
	snapshotRequestMetric.WithLabelValues(string(mirror.SourceFresh)).Inc()
	return snapshot, mirror.SourceFresh, nil
}

// Refresh drops the cached snapshot and rebuilds it from the scheduler,
// appending one history entry per job whose status could be fetched.
func (s *MirrorService) Refresh(ctx context.Context) (*mirror.Snapshot, error) {
	if err := s.snapshots.Invalidate(); err != nil {
		return nil, err
	}
	return s.rebuild(ctx)
}

// Layout computes display coordinates for the given graph.
func (*MirrorService) Layout(g *graph.DiGraph) (map[string]graph.Position, error) {
	return graph.HierarchicalLayout(g)
}

// HistoryFor returns the most recent limit history entries of the job
// identified by name or id, or across all jobs when empty.
func (s *MirrorService) HistoryFor(jobNameOrID string, limit int) ([]*mirror.HistoryEntry, error) {
	if jobNameOrID == "" {
		return s.history.QueryAll(limit)
	}
	return s.history.QueryByJob(jobNameOrID, limit)
}

func (s *MirrorService) rebuild(ctx context.Context) (*mirror.Snapshot, error) {
	jobs, err := s.scheduler.ListJobs(ctx, s.jobDirectory)
	if err != nil {
		s.l.Error("failed to list scheduler jobs: %s", err)
		return nil, err
	}

	g, err := s.resolver.BuildGraph(ctx, jobs)
	if err != nil {
		return nil, err
	}

	snapshot := mirror.NewSnapshot(jobs, g, s.now())
	if err := s.snapshots.Save(snapshot); err != nil {
		return nil, err
	}

	telemetry.NewGauge("mirror_snapshot_jobs", nil).Set(float64(len(jobs)))
	telemetry.NewGauge("mirror_snapshot_edges", nil).Set(float64(g.EdgeCount()))

	if err := s.recordHistory(ctx, jobs); err != nil {
		return nil, err
	}
	return snapshot, nil
}

// recordHistory observes the current status of every job and appends the
// results as one batch. A single job's status fetch failing is logged
// and skipped, it must not hold back history for the others.
func (s *MirrorService) recordHistory(ctx context.Context, jobs []*mirror.Job) error {
	runner := parallel.NewRunner(parallel.WithTicket(concurrentTicketPerSec), parallel.WithLimit(concurrentLimit))
	for _, job := range jobs {
		runner.Add(func(currentJob *mirror.Job) func() (interface{}, error) {
			return func() (interface{}, error) {
				return s.observeJob(ctx, currentJob)
			}
		}(job))
	}

	me := errors.NewMultiError("errors in recording job history")
	var entries []*mirror.HistoryEntry
	for _, result := range runner.Run() {
		if result.Err != nil {
			statusFetchMetric.WithLabelValues(metricStateFailed).Inc()
			me.Append(result.Err)
			continue
		}
		statusFetchMetric.WithLabelValues(metricStateSuccess).Inc()
		entries = append(entries, result.Val.(*mirror.HistoryEntry))
	}
	if err := me.ToErr(); err != nil {
		s.l.Warn("some job statuses could not be recorded: %s", err)
	}

	return s.history.Append(entries...)
}

func (s *MirrorService) observeJob(ctx context.Context, job *mirror.Job) (*mirror.HistoryEntry, error) {
	status, err := s.scheduler.GetJobStatus(ctx, job.ID)
	if err != nil {
		s.l.Error("failed to get status for job [%s]: %s", job.Name, err)
		return nil, errors.AddErrContext(err, EntityMirror, "status fetch for job "+job.Name.String())
	}

	entry := mirror.NewHistoryEntry(s.now(), job.ID, job.Name, status)
	if status == mirror.StateFailed {
		if output, err := s.scheduler.GetJobOutput(ctx, job.ID); err == nil {
			entry.ErrorLog = output
		} else {
			s.l.Warn("failed to get output for failed job [%s]: %s", job.Name, err)
		}
	}
	return entry, nil
}
