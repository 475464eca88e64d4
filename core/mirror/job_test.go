package mirror_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/goto/tidewatch/core/mirror"
	"github.com/goto/tidewatch/internal/errors"
)

func TestJobName(t *testing.T) {
	t.Run("returns error for empty name", func(t *testing.T) {
		name, err := mirror.JobNameFrom("")
		assert.Empty(t, name)
		assert.True(t, errors.IsErrorType(err, errors.ErrInvalidArgument))
	})
	t.Run("accepts non-empty name", func(t *testing.T) {
		name, err := mirror.JobNameFrom("daily-ingest")
		assert.NoError(t, err)
		assert.Equal(t, "daily-ingest", name.String())
	})
}

func TestStateFromString(t *testing.T) {
	t.Run("maps known states case insensitively", func(t *testing.T) {
		assert.Equal(t, mirror.StateSuccess, mirror.StateFromString("SUCCESS"))
		assert.Equal(t, mirror.StateFailed, mirror.StateFromString("failed"))
		assert.Equal(t, mirror.StateRunning, mirror.StateFromString("Running"))
		assert.Equal(t, mirror.StatePending, mirror.StateFromString("pending"))
	})
	t.Run("falls back to unknown for unmodeled states", func(t *testing.T) {
		assert.Equal(t, mirror.StateUnknown, mirror.StateFromString("retrying"))
		assert.Equal(t, mirror.StateUnknown, mirror.StateFromString(""))
	})
}

func TestParseJobTime(t *testing.T) {
	t.Run("parses rfc3339", func(t *testing.T) {
		parsed := mirror.ParseJobTime("2024-05-01T10:30:00Z")
		assert.NotNil(t, parsed)
		assert.Equal(t, time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC), *parsed)
	})
	t.Run("parses timestamps without zone", func(t *testing.T) {
		assert.NotNil(t, mirror.ParseJobTime("2024-05-01T10:30:00"))
		assert.NotNil(t, mirror.ParseJobTime("2024-05-01 10:30:00"))
	})
	t.Run("returns nil for empty or garbage input", func(t *testing.T) {
		assert.Nil(t, mirror.ParseJobTime(""))
		assert.Nil(t, mirror.ParseJobTime("yesterday"))
		assert.Nil(t, mirror.ParseJobTime("01/05/2024"))
	})
}
