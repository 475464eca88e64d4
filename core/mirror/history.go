package mirror

import (
	"time"

	"github.com/google/uuid"
)

// HistoryEntry is one observed status of a job, immutable once appended
// to the history log.
type HistoryEntry struct {
	ID        string    `json:"entry_id"`
	Timestamp time.Time `json:"timestamp"`
	JobID     string    `json:"job_id"`
	JobName   JobName   `json:"job_name"`
	Status    State     `json:"status"`
	Output    string    `json:"output,omitempty"`
	ErrorLog  string    `json:"error_log,omitempty"`
}

func NewHistoryEntry(observedAt time.Time, jobID string, jobName JobName, status State) *HistoryEntry {
	return &HistoryEntry{
		ID:        uuid.New().String(),
		Timestamp: observedAt,
		JobID:     jobID,
		JobName:   jobName,
		Status:    status,
	}
}

// Matches reports whether the entry belongs to the job identified by
// name or id.
func (h *HistoryEntry) Matches(jobNameOrID string) bool {
	return h.JobID == jobNameOrID || h.JobName.String() == jobNameOrID
}
