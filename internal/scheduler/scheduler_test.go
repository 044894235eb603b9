package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"bike-rental-marketplace/internal/config"
	"bike-rental-marketplace/internal/jobs"
)

type idleCourier struct{}

func (idleCourier) ExecutePickups(time.Time) int { return 0 }
func (idleCourier) ExecuteDropoffs() int         { return 0 }

type idleQuotes struct{}

func (idleQuotes) PurgeExpiredQuotes(context.Context) int { return 0 }

func TestNewScheduler_RegistersJobs(t *testing.T) {
	cfg := config.SchedulerConfig{
		ExecutePickups:     "0 0 7 * * *",
		ExecuteDropoffs:    "0 0 18 * * *",
		PurgeExpiredQuotes: "0 */5 * * * *",
	}
	s := NewScheduler(jobs.NewJobRunner(idleCourier{}, idleQuotes{}, cfg))

	assert.Len(t, s.cron.Entries(), 3)
	assert.True(t, s.IsRunning())

	s.Start()
	s.Stop()
}

func TestNewScheduler_SkipsBadSchedules(t *testing.T) {
	cfg := config.SchedulerConfig{
		ExecutePickups:     "every morning",
		ExecuteDropoffs:    "0 0 18 * * *",
		PurgeExpiredQuotes: "0 */5 * * * *",
	}
	s := NewScheduler(jobs.NewJobRunner(idleCourier{}, idleQuotes{}, cfg))

	assert.Len(t, s.cron.Entries(), 2)
}
