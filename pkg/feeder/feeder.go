package feeder

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Config controls order generation rate
type Config struct {
	Interval  time.Duration // How often to generate batches
	BatchSize int           // Number of actions per batch
	NumUsers  int           // Number of simulated traders
	Seed      int64
}

// DefaultConfig returns reasonable defaults for local testing
func DefaultConfig() Config {
	return Config{
		Interval:  100 * time.Millisecond,
		BatchSize: 10,
		NumUsers:  50,
		Seed:      time.Now().UnixNano(),
	}
}

// StartFeeder starts a background goroutine that keeps feeding orders to target
// Returns a cancel function to stop the feeder
func StartFeeder(ctx context.Context, target Target, cfg Config, logger *zap.Logger) context.CancelFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultConfig().Interval
	}
	log := logger.Sugar()
	gen := NewGenerator(cfg.NumUsers, cfg.Seed)

	feedCtx, cancel := context.WithCancel(ctx)

	go func() {
		ticker := time.NewTicker(cfg.Interval)
		defer ticker.Stop()

		startTime := time.Now()
		total, failed := 0, 0
		lastReport := startTime

		log.Infow("feeder_started", "interval", cfg.Interval, "batch", cfg.BatchSize, "users", cfg.NumUsers)

		for {
			select {
			case <-feedCtx.Done():
				log.Infow("feeder_stopped", "actions", total, "failed", failed, "elapsed", time.Since(startTime).Round(time.Millisecond))
				return

			case now := <-ticker.C:
				for i := 0; i < cfg.BatchSize; i++ {
					if err := gen.Step(target); err != nil {
						failed++
						log.Debugw("feeder_step_failed", "err", err)
					}
					total++
				}

				if now.Sub(lastReport) >= 10*time.Second {
					elapsed := now.Sub(startTime).Seconds()
					log.Infow("feeder_stats", "actions", total, "rate_per_sec", float64(total)/elapsed)
					lastReport = now
				}
			}
		}
	}()

	return cancel
}
