package tasks

import (
	"context"
)

// newRateLimitSweepTask creates the scheduled task that evicts stale entries
// from the rate limiter so its map stays bounded over time.
func newRateLimitSweepTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", "ratelimit_sweep")

	return func(ctx context.Context) error {
		removed := deps.Limiter.Sweep()
		log.InfoContext(ctx, "Rate limiter sweep completed", "removed", removed, "tracked", deps.Limiter.Len())
		return nil
	}
}
