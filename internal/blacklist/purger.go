package blacklist

import (
	"context"
	"time"

	"gatekeeper-api/internal/logger"
)

// Purger is implemented by stores whose entries do not expire on their own
type Purger interface {
	Purge(ctx context.Context) (int64, error)
}

// RunPurger removes expired entries every interval until ctx is cancelled
func RunPurger(ctx context.Context, p Purger, interval time.Duration, log *logger.Logger) {
	if interval <= 0 {
		interval = time.Hour
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := p.Purge(ctx)
			if err != nil {
				log.WithError(err).Warn("Blacklist purge failed")
				continue
			}
			if n > 0 {
				log.WithField("removed", n).Info("Purged expired blacklist entries")
			}
		}
	}
}
