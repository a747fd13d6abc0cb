package serve

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"positionalerts/src/app"
	"positionalerts/src/server"
)

type Serve struct{}

func (s *Serve) Start() error {
	config := server.GetConfig()
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

	if config.CronSecretHash == "" {
		logrus.Warn("CRON_SECRET_HASH is not set, the cron trigger is unauthenticated")
	}

	router := server.NewRouter(server.Deps{
		Orders:         a.Orders,
		Subscriptions:  a.Subscriptions,
		Cycle:          a.Cycle,
		VAPIDPublicKey: a.Push.VAPIDPublicKey,
		CronSecretHash: config.CronSecretHash,
		AllowedOrigins: config.AllowedOrigins,
	})

	return server.StartServer(ctx, config.Port, router)
}
