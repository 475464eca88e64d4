package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/goto/tidewatch/config"
	"github.com/goto/tidewatch/internal/errors"
)

func TestLoadConfig(t *testing.T) {
	writeConfig := func(t *testing.T, content string) string {
		t.Helper()
		path := filepath.Join(t.TempDir(), "tidewatch.yaml")
		assert.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		return path
	}

	t.Run("loads a complete config file", func(t *testing.T) {
		path := writeConfig(t, `
log:
  level: DEBUG
scheduler:
  name: production-tidal
  type: tidal
  job_directory: etl/daily
  config:
    host: http://tidal.internal:8080
    username: tidal-admin
    password: secret
cache:
  path: /var/lib/tidewatch/job_cache.json
  expiry_hours: 6
history:
  path: /var/lib/tidewatch/job_history.json
  max_entries: 500
`)

		conf, err := config.LoadConfig(path)
		assert.NoError(t, err)
		assert.Equal(t, "DEBUG", conf.Log.Level)
		assert.Equal(t, "production-tidal", conf.Scheduler.Name)
		assert.Equal(t, "etl/daily", conf.Scheduler.JobDirectory)
		assert.Equal(t, 6, conf.Cache.ExpiryHours)
		assert.Equal(t, 500, conf.History.MaxEntries)

		schedulerConf, ok := conf.Scheduler.Config.(map[string]interface{})
		assert.True(t, ok)
		assert.Equal(t, "http://tidal.internal:8080", schedulerConf["host"])
	})
	t.Run("fills defaults for omitted sections", func(t *testing.T) {
		path := writeConfig(t, `
scheduler:
  config:
    host: http://tidal.internal:8080
`)

		conf, err := config.LoadConfig(path)
		assert.NoError(t, err)
		assert.Equal(t, "INFO", conf.Log.Level)
		assert.Equal(t, config.SchedulerTypeTidal, conf.Scheduler.Type)
		assert.Equal(t, "data/job_cache.json", conf.Cache.Path)
		assert.Equal(t, 24, conf.Cache.ExpiryHours)
		assert.Equal(t, "data/job_history.json", conf.History.Path)
		assert.Equal(t, 1000, conf.History.MaxEntries)
	})
	t.Run("rejects a config without scheduler connection details", func(t *testing.T) {
		path := writeConfig(t, `
log:
  level: INFO
`)

		conf, err := config.LoadConfig(path)
		assert.Nil(t, conf)
		assert.True(t, errors.IsErrorType(err, errors.ErrInvalidArgument))
	})
	t.Run("rejects an unsupported scheduler type", func(t *testing.T) {
		path := writeConfig(t, `
scheduler:
  type: airflow
  config:
    host: http://airflow.internal:8080
`)

		conf, err := config.LoadConfig(path)
		assert.Nil(t, conf)
		assert.True(t, errors.IsErrorType(err, errors.ErrInvalidArgument))
	})
	t.Run("fails for an explicitly given missing file", func(t *testing.T) {
		conf, err := config.LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
		assert.Nil(t, conf)
		assert.Error(t, err)
	})
	t.Run("fails for malformed yaml", func(t *testing.T) {
		path := writeConfig(t, "scheduler: [broken")

		conf, err := config.LoadConfig(path)
		assert.Nil(t, conf)
		assert.Error(t, err)
	})
}
