package jobs

import (
	"context"
	"fmt"
	"time"

	"bike-rental-marketplace/internal/config"
	"bike-rental-marketplace/internal/logger"
	"bike-rental-marketplace/internal/metrics"
	"bike-rental-marketplace/internal/service"
)

const (
	JobExecutePickups     = "execute-pickups"
	JobExecuteDropoffs    = "execute-dropoffs"
	JobPurgeExpiredQuotes = "purge-expired-quotes"
)

// Courier is the part of the delivery scheduler the jobs drive.
type Courier interface {
	ExecutePickups(date time.Time) int
	ExecuteDropoffs() int
}

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	courier Courier
	quotes  service.QuoteKeeper
	config  config.SchedulerConfig
	now     func() time.Time
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(courier Courier, quotes service.QuoteKeeper, cfg config.SchedulerConfig) *JobRunner {
	return &JobRunner{
		courier: courier,
		quotes:  quotes,
		config:  cfg,
		now:     time.Now,
	}
}

// Config returns the cron schedules the runner was built with
func (jr *JobRunner) Config() config.SchedulerConfig {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func()) {
	defer func() {
		if r := recover(); r != nil {
			metrics.JobRunsTotal.WithLabelValues(jobName, "panic").Inc()
			logger.Error("Job panicked", "job", jobName, "panic", r)
		}
	}()

	logger.Info("Starting job", "job", jobName)
	jobFunc()
	metrics.JobRunsTotal.WithLabelValues(jobName, "ok").Inc()
	logger.Info("Job completed", "job", jobName)
}

// Run executes one job by name (for manual execution)
func (jr *JobRunner) Run(ctx context.Context, name string) error {
	switch name {
	case JobExecutePickups:
		jr.ExecutePickups()
	case JobExecuteDropoffs:
		jr.ExecuteDropoffs()
	case JobPurgeExpiredQuotes:
		jr.PurgeExpiredQuotes(ctx)
	case "all":
		jr.RunAll(ctx)
	default:
		return fmt.Errorf("unknown job: %s", name)
	}
	return nil
}

// RunAll runs every job once in delivery order
func (jr *JobRunner) RunAll(ctx context.Context) {
	jr.ExecutePickups()
	jr.ExecuteDropoffs()
	jr.PurgeExpiredQuotes(ctx)
}
