package executors

import (
	"context"
	"errors"
	"time"

	logger "github.com/sirupsen/logrus"

	"positionalerts/src/model"
)

// CycleRunner runs one alert cycle.
type CycleRunner interface {
	Run(ctx context.Context) model.CycleResult
}

// StartLoop runs a cycle immediately and then once per period until ctx is
// cancelled. A failed cycle is logged; the next tick retries.
func StartLoop(ctx context.Context, runner CycleRunner, period time.Duration) error {
	if period <= 0 {
		return errors.New("loop period must be positive")
	}

	ticker := time.NewTicker(period) // Set up a ticker that fires periodically
	defer ticker.Stop()

	runOnce(ctx, runner)

	for {
		select {
		case <-ctx.Done():
			logger.Println("loop stopped")
			return nil

		case <-ticker.C:
			logger.Info("loop tick")
			runOnce(ctx, runner)
		}
	}
}

func runOnce(ctx context.Context, runner CycleRunner) {
	started := time.Now()
	result := runner.Run(ctx)

	entry := logger.WithFields(logger.Fields{
		"ok":       result.OK,
		"pushes":   result.Pushes,
		"note":     result.Note,
		"duration": time.Since(started).String(),
	})
	if !result.OK {
		entry.WithField("error", result.Error).Error("cycle failed, waiting for next tick")
		return
	}
	entry.Info("cycle done")
}
