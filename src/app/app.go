// Package app wires configuration, storage, price lookup and push delivery
// into the components the commands run.
package app

import (
	"context"
	"fmt"

	logger "github.com/sirupsen/logrus"

	"positionalerts/src/alerts"
	"positionalerts/src/connectors"
	"positionalerts/src/database"
	"positionalerts/src/notifier"
	"positionalerts/src/prices"
	"positionalerts/src/repository"
	"positionalerts/src/store"
)

type App struct {
	Backend       store.Backend
	Orders        *repository.OrderRepository
	Subscriptions *repository.SubscriptionRepository
	Signs         *repository.SignStateRepository
	Cycle         *alerts.Cycle
	Push          notifier.Config
}

// New reads every package config from the environment and connects the
// store. Close must be called when done.
func New(ctx context.Context) (*App, error) {
	storeConfig := store.GetConfig()
	backend, err := store.Open(ctx, storeConfig, database.GetConfig())
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	priceConfig := connectors.GetConfig()
	source, err := connectors.NewPriceSource(priceConfig)
	if err != nil {
		_ = backend.Close()
		return nil, err
	}

	pushConfig := notifier.GetConfig()
	transport, err := notifier.NewWebPushTransport(pushConfig.VAPID(), pushConfig.Timeout)
	if err != nil {
		_ = backend.Close()
		return nil, fmt.Errorf("%w (generate a pair with the vapid command)", err)
	}

	ns := storeConfig.Namespace
	a := &App{
		Backend:       backend,
		Orders:        repository.NewOrderRepository(backend, ns),
		Subscriptions: repository.NewSubscriptionRepository(backend, ns),
		Signs:         repository.NewSignStateRepository(backend, ns),
		Push:          pushConfig,
	}
	a.Cycle = alerts.NewCycle(alerts.Deps{
		Orders:        a.Orders,
		Subscriptions: a.Subscriptions,
		Signs:         a.Signs,
		Prices:        prices.NewResolver(source, prices.GetConfig().Concurrency),
		Notifier:      notifier.NewDispatcher(transport, pushConfig.Concurrency),
		QuoteCurrency: priceConfig.QuoteCurrency,
	}, alerts.GetConfig())

	logger.WithFields(logger.Fields{
		"namespace":   ns,
		"priceSource": priceConfig.PriceSource,
		"quote":       priceConfig.QuoteCurrency,
	}).Info("application wired")

	return a, nil
}

func (a *App) Close() error {
	return a.Backend.Close()
}
