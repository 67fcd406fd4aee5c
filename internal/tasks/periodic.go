package tasks

import (
	"context"
	"log/slog"
	"time"

	"conferencecentral/internal/domain"
)

// RunEvery enqueues task once immediately and then on every tick of interval
// until ctx is done.
func RunEvery(ctx context.Context, interval time.Duration, queue domain.TaskQueue, task domain.Task, logger *slog.Logger) {
	if interval <= 0 {
		return
	}
	submit := func() {
		if err := queue.Enqueue(ctx, task); err != nil {
			logger.WarnContext(ctx, "periodic enqueue failed", "kind", task.Kind, "err", err)
		}
	}

	submit()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			submit()
		}
	}
}
