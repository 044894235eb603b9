package jobs

import (
	"context"

	"bike-rental-marketplace/internal/logger"
)

// PurgeExpiredQuotes drops quotes nobody booked before they expired
func (jr *JobRunner) PurgeExpiredQuotes(ctx context.Context) {
	jr.runWithRecovery(JobPurgeExpiredQuotes, func() {
		count := jr.quotes.PurgeExpiredQuotes(ctx)
		logger.Info("Purged expired quotes", "count", count)
	})
}
