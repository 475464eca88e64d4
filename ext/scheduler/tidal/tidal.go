package tidal

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/goto/salt/log"
	"github.com/mitchellh/mapstructure"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/goto/tidewatch/config"
	"github.com/goto/tidewatch/core/mirror"
	"github.com/goto/tidewatch/internal/errors"
)

const (
	EntityTidal = "Tidal"

	jobsURL        = "api/jobs"
	jobTriggersURL = "api/jobs/%s/dependencies"
	jobStatusURL   = "api/jobs/%s/status"
	jobOutputURL   = "api/jobs/%s/output"

	defaultRequestTimeout = 30 * time.Second

	metricStatusSuccess = "success"
	metricStatusFailed  = "failed"
)

var schedulerRequestMetric = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "scheduler_requests_total",
	Help: "total requests made to the external scheduler",
}, []string{"operation", "status"})

type tidalRequest struct {
	path   string
	method string
	query  string
	body   []byte
}

type Client interface {
	Invoke(ctx context.Context, r tidalRequest, auth SchedulerAuth) ([]byte, error)
}

type SchedulerAuth struct {
	host     string
	username string
	password string
}

type Config struct {
	Host           string `mapstructure:"host"`
	Username       string `mapstructure:"username"`
	Password       string `mapstructure:"password"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// JobObj is a job record as reported by the scheduler API.
type JobObj struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Status    string `json:"status"`
	Schedule  string `json:"schedule"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

type JobsResponse struct {
	Jobs []JobObj `json:"jobs"`
}

type TriggerObj struct {
	TriggeredJobName string `json:"triggered_job_name"`
}

type StatusObj struct {
	Status string `json:"status"`
}

type OutputObj struct {
	Output string `json:"output"`
}

// Tidal adapts the external Tidal-like scheduler API to the mirror
// domain. The scheduler's own wire format stays contained here.
type Tidal struct {
	l      log.Logger
	client Client
	auth   SchedulerAuth
}

func NewTidal(l log.Logger, schedulerConfig config.Scheduler) (*Tidal, error) {
	var conf Config
	if err := mapstructure.Decode(schedulerConfig.Config, &conf); err != nil {
		return nil, errors.InternalError(EntityTidal, "error decoding scheduler config", err)
	}
	if conf.Host == "" {
		return nil, errors.InvalidArgument(EntityTidal, "scheduler host is empty")
	}

	timeout := defaultRequestTimeout
	if conf.TimeoutSeconds > 0 {
		timeout = time.Duration(conf.TimeoutSeconds) * time.Second
	}
	client, err := NewHTTPClient(conf.Host, timeout)
	if err != nil {
		return nil, err
	}

	return &Tidal{
		l:      l,
		client: client,
		auth: SchedulerAuth{
			host:     conf.Host,
			username: conf.Username,
			password: conf.Password,
		},
	}, nil
}

// NewTidalWithClient is used by tests and by callers that already hold a
// transport.
func NewTidalWithClient(l log.Logger, client Client, host, username, password string) *Tidal {
	return &Tidal{
		l:      l,
		client: client,
		auth: SchedulerAuth{
			host:     host,
			username: username,
			password: password,
		},
	}
}

// ListJobs fetches the job records of a scheduler directory. The API is
// known to answer either with a bare array or with a {"jobs": [...]}
// wrapper, both are accepted, anything else is a malformed response.
func (t *Tidal) ListJobs(ctx context.Context, directory string) ([]*mirror.Job, error) {
	params := url.Values{}
	if directory != "" {
		params.Add("directory", directory)
	}
	req := tidalRequest{path: jobsURL, method: http.MethodGet, query: params.Encode()}

	resp, err := t.client.Invoke(ctx, req, t.auth)
	if err != nil {
		schedulerRequestMetric.WithLabelValues("list_jobs", metricStatusFailed).Inc()
		return nil, errors.AddErrContext(err, EntityTidal, "failure while fetching scheduler jobs")
	}
	schedulerRequestMetric.WithLabelValues("list_jobs", metricStatusSuccess).Inc()

	jobObjs, err := parseJobsResponse(resp)
	if err != nil {
		return nil, err
	}

	jobs := make([]*mirror.Job, 0, len(jobObjs))
	for _, obj := range jobObjs {
		job, err := toMirrorJob(obj)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}

func (t *Tidal) ListTriggers(ctx context.Context, jobID string) ([]mirror.Trigger, error) {
	req := tidalRequest{path: fmt.Sprintf(jobTriggersURL, jobID), method: http.MethodGet}

	resp, err := t.client.Invoke(ctx, req, t.auth)
	if err != nil {
		schedulerRequestMetric.WithLabelValues("list_triggers", metricStatusFailed).Inc()
		return nil, errors.AddErrContext(err, EntityTidal, "failure while fetching triggers for job "+jobID)
	}
	schedulerRequestMetric.WithLabelValues("list_triggers", metricStatusSuccess).Inc()

	var triggerObjs []TriggerObj
	if err := json.Unmarshal(resp, &triggerObjs); err != nil {
		return nil, errors.NewError(errors.ErrMalformedResponse, EntityTidal, "unexpected trigger response for job "+jobID)
	}

	triggers := make([]mirror.Trigger, 0, len(triggerObjs))
	for _, obj := range triggerObjs {
		name, err := mirror.JobNameFrom(obj.TriggeredJobName)
		if err != nil {
			return nil, errors.NewError(errors.ErrMalformedResponse, EntityTidal, "trigger with empty job name for job "+jobID)
		}
		triggers = append(triggers, mirror.Trigger{TriggeredJobName: name})
	}
	return triggers, nil
}

func (t *Tidal) GetJobStatus(ctx context.Context, jobID string) (mirror.State, error) {
	req := tidalRequest{path: fmt.Sprintf(jobStatusURL, jobID), method: http.MethodGet}

	resp, err := t.client.Invoke(ctx, req, t.auth)
	if err != nil {
		schedulerRequestMetric.WithLabelValues("get_status", metricStatusFailed).Inc()
		return "", errors.AddErrContext(err, EntityTidal, "failure while fetching status for job "+jobID)
	}
	schedulerRequestMetric.WithLabelValues("get_status", metricStatusSuccess).Inc()

	var statusObj StatusObj
	if err := json.Unmarshal(resp, &statusObj); err != nil {
		return "", errors.NewError(errors.ErrMalformedResponse, EntityTidal, "unexpected status response for job "+jobID)
	}
	return mirror.StateFromString(statusObj.Status), nil
}

func (t *Tidal) GetJobOutput(ctx context.Context, jobID string) (string, error) {
	req := tidalRequest{path: fmt.Sprintf(jobOutputURL, jobID), method: http.MethodGet}

	resp, err := t.client.Invoke(ctx, req, t.auth)
	if err != nil {
		schedulerRequestMetric.WithLabelValues("get_output", metricStatusFailed).Inc()
		return "", errors.AddErrContext(err, EntityTidal, "failure while fetching output for job "+jobID)
	}
	schedulerRequestMetric.WithLabelValues("get_output", metricStatusSuccess).Inc()

	var outputObj OutputObj
	if err := json.Unmarshal(resp, &outputObj); err != nil {
		// some scheduler versions answer with the raw output text
		return string(resp), nil
	}
	return outputObj.Output, nil
}

func parseJobsResponse(resp []byte) ([]JobObj, error) {
	var jobObjs []JobObj
	if err := json.Unmarshal(resp, &jobObjs); err == nil {
		return jobObjs, nil
	}

	var wrapped JobsResponse
	if err := json.Unmarshal(resp, &wrapped); err == nil && wrapped.Jobs != nil {
		return wrapped.Jobs, nil
	}
	return nil, errors.NewError(errors.ErrMalformedResponse, EntityTidal, "unexpected jobs response format")
}

func toMirrorJob(obj JobObj) (*mirror.Job, error) {
	name, err := mirror.JobNameFrom(obj.Name)
	if err != nil {
		return nil, errors.NewError(errors.ErrMalformedResponse, EntityTidal, "job record without a name, id "+obj.ID)
	}
	return &mirror.Job{
		ID:        obj.ID,
		Name:      name,
		Status:    mirror.StateFromString(obj.Status),
		Interval:  obj.Schedule,
		StartTime: mirror.ParseJobTime(obj.StartTime),
		EndTime:   mirror.ParseJobTime(obj.EndTime),
	}, nil
}
