package jobs

import (
	"bike-rental-marketplace/internal/domain"
	"bike-rental-marketplace/internal/logger"
)

// ExecutePickups collects every delivery due today (UTC)
func (jr *JobRunner) ExecutePickups() {
	jr.runWithRecovery(JobExecutePickups, func() {
		today := domain.TruncateToDate(jr.now())
		count := jr.courier.ExecutePickups(today)
		logger.Info("Collected deliveries", "date", today.Format(domain.DateLayout), "count", count)
	})
}

// ExecuteDropoffs hands over everything currently in transit
func (jr *JobRunner) ExecuteDropoffs() {
	jr.runWithRecovery(JobExecuteDropoffs, func() {
		count := jr.courier.ExecuteDropoffs()
		logger.Info("Dropped off deliveries", "count", count)
	})
}
