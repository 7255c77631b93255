package app

import (
	"context"
	"time"

	"tether-news-scraper/internal/observability"
)

// RunEvery вызывает job сразу и затем каждые interval до отмены ctx.
// Прогоны не пересекаются: следующий тик ждёт завершения текущего
func RunEvery(ctx context.Context, interval time.Duration, logger *observability.Logger, job func(ctx context.Context)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		job(ctx)

		select {
		case <-ctx.Done():
			logger.Info("Scheduler stopped")
			return
		case <-ticker.C:
			if ctx.Err() != nil {
				logger.Info("Scheduler stopped")
				return
			}
		}
	}
}
