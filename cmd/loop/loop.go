package loop

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"positionalerts/src/app"
	"positionalerts/src/executors"
)

// Loop runs alert cycles on a fixed period for hosts without an external
// scheduler.
type Loop struct{}

func (l *Loop) Start() error {
	config := executors.GetConfig()
	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer stop()

	a, err := app.New(ctx)
	if err != nil {
		logrus.WithError(err).Error("Failed to wire application")
		return err
	}
	defer a.Close()

	logrus.WithField("period", config.LoopPeriod.String()).Info("Starting alert loop")

	if err := executors.StartLoop(ctx, a.Cycle, config.LoopPeriod); err != nil {
		logrus.WithError(err).Error("Failed to start alert loop")
		return err
	}

	return nil
}
