package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/MrSnakeDoc/shelf/internal/logger"
	"github.com/MrSnakeDoc/shelf/internal/seed"
)

// Seeder is satisfied by *seed.Coordinator.
type Seeder interface {
	Run(ctx context.Context, selector string, clearFirst bool) (seed.Report, error)
}

// SeedReloader tops the catalog up from the seed directory on start and then
// periodically. It never clears: rows whose slug already exists are skipped,
// so only new fixtures land.
type SeedReloader struct {
	seeder   Seeder
	logger   logger.Logger
	interval time.Duration
	trigger  chan struct{}
	stopCh   chan struct{}
	stopOnce sync.Once
	started  bool
	done     chan struct{}
}

// NewSeedReloader creates a reloader. A non-positive interval only loads
// once at start and on Trigger.
func NewSeedReloader(s Seeder, log logger.Logger, interval time.Duration) *SeedReloader {
	return &SeedReloader{
		seeder:   s,
		logger:   log,
		interval: interval,
		trigger:  make(chan struct{}, 1),
		stopCh:   make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start loads immediately, then runs the periodic loop in the background.
func (sr *SeedReloader) Start(ctx context.Context) {
	sr.Reload(ctx)
	sr.started = true

	var tick <-chan time.Time
	if sr.interval > 0 {
		ticker := time.NewTicker(sr.interval)
		tick = ticker.C
		go func() {
			<-sr.done
			ticker.Stop()
		}()
	}

	go func() {
		defer close(sr.done)
		for {
			select {
			case <-tick:
				sr.Reload(ctx)
			case <-sr.trigger:
				sr.logger.Info("manual seed reload triggered")
				sr.Reload(ctx)
			case <-sr.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Trigger requests a reload without blocking. Requests made while one is
// pending are coalesced.
func (sr *SeedReloader) Trigger() {
	select {
	case sr.trigger <- struct{}{}:
	default:
	}
}

// Stop ends the loop and waits for an in-flight reload to finish.
func (sr *SeedReloader) Stop() {
	sr.stopOnce.Do(func() { close(sr.stopCh) })
	if sr.started {
		<-sr.done
	}
}

// Reload runs one non-clearing load of every collection.
func (sr *SeedReloader) Reload(ctx context.Context) seed.Report {
	report, err := sr.seeder.Run(ctx, seed.SelectorAll, false)
	if err != nil {
		sr.logger.Error("seed reload failed", logger.Error(err))
		return report
	}
	if !report.Success {
		sr.logger.Warn("seed reload finished with errors", logger.Strings("errors", report.Errors))
	}
	return report
}
