package check

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"positionalerts/src/app"
	"positionalerts/src/model"
)

var ErrCycleFailed = errors.New("alert cycle failed")

type cycleRunner interface {
	Run(ctx context.Context) model.CycleResult
}

// Check runs a single alert cycle and prints the result. It is the entry
// point for external schedulers.
type Check struct {
	Out io.Writer
}

func (c *Check) Start() error {
	ctx := context.Background()
	a, err := app.New(ctx)
	if err != nil {
		logrus.WithError(err).Error("Failed to wire application")
		return err
	}
	defer a.Close()

	return c.run(ctx, a.Cycle)
}

func (c *Check) run(ctx context.Context, runner cycleRunner) error {
	result := runner.Run(ctx)

	out, err := json.Marshal(result)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintln(c.Out, string(out)); err != nil {
		return err
	}

	if !result.OK {
		return fmt.Errorf("%w: %s", ErrCycleFailed, result.Error)
	}
	return nil
}
