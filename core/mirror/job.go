package mirror

import (
	"strings"
	"time"

	"github.com/goto/tidewatch/internal/errors"
)

const (
	EntityJob      = "job"
	EntitySnapshot = "snapshot"
	EntityHistory  = "history"
)

type JobName string

func JobNameFrom(name string) (JobName, error) {
	if name == "" {
		return "", errors.InvalidArgument(EntityJob, "job name is empty")
	}
	return JobName(name), nil
}

func (j JobName) String() string {
	return string(j)
}

const (
	StateSuccess State = "success"
	StateFailed  State = "failed"
	StateRunning State = "running"
	StatePending State = "pending"

	// StateUnknown is the fallback for states the scheduler reports that
	// this mirror does not model, kept for forward compatibility.
	StateUnknown State = "unknown"
)

type State string

func StateFromString(state string) State {
	switch strings.ToLower(state) {
	case string(StateSuccess):
		return StateSuccess
	case string(StateFailed):
		return StateFailed
	case string(StateRunning):
		return StateRunning
	case string(StatePending):
		return StatePending
	default:
		return StateUnknown
	}
}

func (s State) String() string {
	return string(s)
}

// Job is a unit of work tracked by the external scheduler. Instances are
// immutable once fetched and are superseded wholesale on refresh.
type Job struct {
	ID     string  `json:"id"`
	Name   JobName `json:"name"`
	Status State   `json:"status"`

	// Interval is the job's cron expression on the scheduler, empty when
	// the scheduler does not report one.
	Interval string `json:"interval,omitempty"`

	StartTime *time.Time `json:"start_time,omitempty"`
	EndTime   *time.Time `json:"end_time,omitempty"`
}

// ParseJobTime parses scheduler reported timestamps. The scheduler does
// not guarantee well-formed values, so anything unparseable becomes nil
// instead of an error.
func ParseJobTime(raw string) *time.Time {
	if raw == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t
		}
	}
	return nil
}

// Trigger is a scheduler declared relationship where completion of one
// job starts another.
type Trigger struct {
	TriggeredJobName JobName
}
