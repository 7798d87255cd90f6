package decay

import (
	"context"
	"fmt"
	"time"

	"marketSearch/domain"
	"marketSearch/pkg/logger"
	"marketSearch/pkg/metrics"
)

// SweepStats summarizes one scheduled sweep run.
type SweepStats struct {
	Scanned  int           `json:"scanned"`
	Decayed  int           `json:"decayed"`
	Failed   int           `json:"failed"`
	Duration time.Duration `json:"duration"`
}

// RunSweep iterates all stored profiles in bounded batches and applies the
// exponential decay to each. One user's failure is logged and skipped; it
// never aborts the sweep.
func (e *Engine) RunSweep(ctx context.Context) (SweepStats, error) {
	stats := SweepStats{}
	if !e.cfg.Enabled {
		return stats, nil
	}

	start := time.Now()
	batchSize := e.cfg.BatchSize
	if batchSize <= 0 {
		batchSize = 100
	}

	for offset := 0; ; offset += batchSize {
		if err := ctx.Err(); err != nil {
			stats.Duration = time.Since(start)
			return stats, fmt.Errorf("sweep interrupted: %w", err)
		}

		batch, err := e.repo.ScrollProfiles(ctx, offset, batchSize)
		if err != nil {
			stats.Duration = time.Since(start)
			return stats, fmt.Errorf("failed to scroll profiles at offset %d: %w", offset, err)
		}
		if len(batch) == 0 {
			break
		}

		for _, profile := range batch {
			stats.Scanned++
			if err := e.sweepProfile(ctx, profile, start); err != nil {
				stats.Failed++
				metrics.DecaySweepProfilesTotal.WithLabelValues("failed").Inc()
				logger.Error("decay sweep failed for user, skipping", "user_id", profile.UserID, "error", err)
				continue
			}
			stats.Decayed++
			metrics.DecaySweepProfilesTotal.WithLabelValues("ok").Inc()
		}

		if len(batch) < batchSize {
			break
		}
	}

	stats.Duration = time.Since(start)
	metrics.DecaySweepDuration.Observe(stats.Duration.Seconds())
	logger.Info("decay sweep finished",
		"scanned", stats.Scanned,
		"decayed", stats.Decayed,
		"failed", stats.Failed,
		"duration", stats.Duration,
	)
	return stats, nil
}

func (e *Engine) sweepProfile(ctx context.Context, profile *domain.PreferenceProfile, now time.Time) error {
	e.DecayProfile(profile, now)
	if err := e.repo.SaveProfile(ctx, profile); err != nil {
		return fmt.Errorf("save after decay: %w", err)
	}
	if e.cache != nil {
		e.cache.InvalidateCache(profile.UserID)
	}
	return nil
}

// StartScheduler runs the sweep on a fixed interval until ctx is cancelled.
// Intended to be launched once from main in its own goroutine.
func (e *Engine) StartScheduler(ctx context.Context, interval time.Duration) {
	if !e.cfg.Enabled || interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := e.RunSweep(ctx); err != nil {
				logger.Error("scheduled decay sweep error", "error", err)
			}
		}
	}
}
