package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"video-rental-store/internal/config"
	"video-rental-store/internal/jobs"
)

func TestNewScheduler(t *testing.T) {
	t.Run("Registers overdue report", func(t *testing.T) {
		cfg := &config.Config{Scheduler: config.SchedulerConfig{OverdueReport: "0 0 9 * * *"}}
		s, err := NewScheduler(jobs.NewJobRunner(&jobs.Services{}, cfg))
		require.NoError(t, err)

		next := s.NextRun()
		assert.Equal(t, 9, next.Hour())
		assert.Equal(t, 0, next.Minute())
		assert.Equal(t, time.UTC, next.Location())
		assert.True(t, next.After(time.Now()))
	})

	t.Run("Rejects invalid spec", func(t *testing.T) {
		cfg := &config.Config{Scheduler: config.SchedulerConfig{OverdueReport: "every day"}}
		_, err := NewScheduler(jobs.NewJobRunner(&jobs.Services{}, cfg))
		assert.Error(t, err)
	})

	t.Run("Start and stop", func(t *testing.T) {
		cfg := &config.Config{Scheduler: config.SchedulerConfig{OverdueReport: "0 0 9 * * *"}}
		s, err := NewScheduler(jobs.NewJobRunner(&jobs.Services{}, cfg))
		require.NoError(t, err)
		s.Start()
		s.Stop()
	})
}
