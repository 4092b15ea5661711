package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/session-token-service/internal/revocation"
)

// StartPurgeWorker periodically removes expired revocations until ctx is done.
// The returned channel closes once the worker has stopped.
func StartPurgeWorker(ctx context.Context, purger revocation.Purger, interval time.Duration, logger *zap.Logger) <-chan struct{} {
	done := make(chan struct{})
	if purger == nil || interval <= 0 {
		close(done)
		return done
	}

	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				purgeOnce(ctx, purger, interval, logger)
			}
		}
	}()
	return done
}

func purgeOnce(ctx context.Context, purger revocation.Purger, timeout time.Duration, logger *zap.Logger) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	removed, err := purger.PurgeExpired(ctx)
	if err != nil {
		logger.Warn("revocation purge failed", zap.Error(err))
		return
	}
	if removed > 0 {
		logger.Info("purged expired revocations", zap.Int64("count", removed))
	}
}
