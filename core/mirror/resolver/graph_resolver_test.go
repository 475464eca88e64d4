package resolver_test

import (
	"context"
	"testing"

	"github.com/goto/salt/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/goto/tidewatch/core/mirror"
	"github.com/goto/tidewatch/core/mirror/resolver"
	"github.com/goto/tidewatch/internal/errors"
)

func TestGraphResolver(t *testing.T) {
	ctx := context.Background()
	logger := log.NewNoop()

	jobs := []*mirror.Job{
		{ID: "1", Name: "job-a"},
		{ID: "2", Name: "job-b"},
		{ID: "3", Name: "job-c"},
	}

	t.Run("BuildGraph", func(t *testing.T) {
		t.Run("builds nodes for every job and edges from triggers", func(t *testing.T) {
			fetcher := new(mockTriggerFetcher)
			fetcher.On("ListTriggers", ctx, "1").Return([]mirror.Trigger{{TriggeredJobName: "job-b"}}, nil)
			fetcher.On("ListTriggers", ctx, "2").Return([]mirror.Trigger{{TriggeredJobName: "job-c"}}, nil)
			fetcher.On("ListTriggers", ctx, "3").Return([]mirror.Trigger{}, nil)
			defer fetcher.AssertExpectations(t)

			g, err := resolver.NewGraphResolver(logger, fetcher).BuildGraph(ctx, jobs)
			assert.NoError(t, err)
			assert.ElementsMatch(t, []string{"job-a", "job-b", "job-c"}, g.Nodes())
			assert.Equal(t, 2, g.EdgeCount())
			assert.Equal(t, []string{"job-b"}, g.Successors("job-a"))
			assert.Equal(t, []string{"job-c"}, g.Successors("job-b"))
		})
		t.Run("keeps trigger targets without a job record as nodes", func(t *testing.T) {
			fetcher := new(mockTriggerFetcher)
			fetcher.On("ListTriggers", ctx, "1").Return([]mirror.Trigger{{TriggeredJobName: "external-cleanup"}}, nil)
			defer fetcher.AssertExpectations(t)

			g, err := resolver.NewGraphResolver(logger, fetcher).BuildGraph(ctx, jobs[:1])
			assert.NoError(t, err)
			assert.True(t, g.HasNode("external-cleanup"))
			assert.Equal(t, []string{"external-cleanup"}, g.Successors("job-a"))
		})
		t.Run("aborts on the first trigger fetch failure", func(t *testing.T) {
			fetcher := new(mockTriggerFetcher)
			fetcher.On("ListTriggers", ctx, "1").Return([]mirror.Trigger{}, nil)
			fetcher.On("ListTriggers", ctx, "2").Return(nil, errors.NewError(errors.ErrConnection, "tidal", "connection refused"))
			defer fetcher.AssertExpectations(t)

			g, err := resolver.NewGraphResolver(logger, fetcher).BuildGraph(ctx, jobs)
			assert.Nil(t, g)
			assert.True(t, errors.IsErrorType(err, errors.ErrConnection))
			assert.ErrorContains(t, err, "job-b")
			fetcher.AssertNotCalled(t, "ListTriggers", ctx, "3")
		})
		t.Run("returns node-only graph when no job declares triggers", func(t *testing.T) {
			fetcher := new(mockTriggerFetcher)
			fetcher.On("ListTriggers", ctx, mock.Anything).Return([]mirror.Trigger{}, nil)

			g, err := resolver.NewGraphResolver(logger, fetcher).BuildGraph(ctx, jobs)
			assert.NoError(t, err)
			assert.Equal(t, 3, g.NodeCount())
			assert.Equal(t, 0, g.EdgeCount())
		})
	})
}

type mockTriggerFetcher struct {
	mock.Mock
}

func (m *mockTriggerFetcher) ListTriggers(ctx context.Context, jobID string) ([]mirror.Trigger, error) {
	args := m.Called(ctx, jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]mirror.Trigger), args.Error(1)
}
