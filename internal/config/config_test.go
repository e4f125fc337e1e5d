package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
database:
  path: data/mixlab.db
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "mixlab", cfg.App.Name)
	assert.Equal(t, 8080, cfg.API.Port)
	assert.Equal(t, 16, cfg.Schedule.RecurrenceCount)
	assert.Equal(t, 8, cfg.Schedule.MaxDurationHours)
	assert.Equal(t, 8, cfg.Schedule.OpenHour)
	assert.Equal(t, 22, cfg.Schedule.CloseHour)
	assert.Equal(t, 8, cfg.Schedule.FullDayThreshold)
	assert.Equal(t, 500, cfg.Schedule.SessionRate)
	assert.Equal(t, 30*time.Minute, cfg.Schedule.CacheTTL())
	assert.NotEmpty(t, cfg.Schedule.Services)
}

func TestLoadExpandsEnv(t *testing.T) {
	t.Setenv("MIXLAB_DB_PATH", "/tmp/env.db")
	path := writeConfig(t, `
database:
  path: ${MIXLAB_DB_PATH}
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/env.db", cfg.Database.Path)
}

func TestValidateRejectsMissingDatabasePath(t *testing.T) {
	path := writeConfig(t, `
app:
  name: test
`)
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database path")
}

func TestValidateRejectsBadHours(t *testing.T) {
	path := writeConfig(t, `
database:
  path: data/test.db
schedule:
  open_hour: 20
  close_hour: 8
`)
	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidateRejectsUnknownClosedWeekday(t *testing.T) {
	path := writeConfig(t, `
database:
  path: data/test.db
schedule:
  closed_weekday: restday
`)
	_, err := Load(path)
	assert.Error(t, err)
}

func TestClosedDay(t *testing.T) {
	s := ScheduleConfig{ClosedWeekday: "sunday"}
	day, ok := s.ClosedDay()
	assert.True(t, ok)
	assert.Equal(t, time.Sunday, day)

	s.ClosedWeekday = ""
	_, ok = s.ClosedDay()
	assert.False(t, ok)
}

func TestValidateNotifyRequiresGateway(t *testing.T) {
	path := writeConfig(t, `
database:
  path: data/test.db
notify:
  enabled: true
`)
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gateway_url")
}
