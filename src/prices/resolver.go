// Package prices resolves current prices for a set of symbols in parallel.
package prices

import (
	"context"
	"sync"

	logger "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"positionalerts/src/connectors"
)

// Resolver fans lookups out over a bounded task group. A failed symbol is
// logged and left out of the result; it never fails the whole batch.
type Resolver struct {
	source connectors.PriceSource
	limit  int
}

func NewResolver(source connectors.PriceSource, limit int) *Resolver {
	if limit <= 0 {
		limit = 1
	}
	return &Resolver{source: source, limit: limit}
}

// ResolveAll returns symbol -> price for every symbol that resolved.
func (r *Resolver) ResolveAll(ctx context.Context, symbols []string) map[string]float64 {
	var (
		mu     sync.Mutex
		quotes = make(map[string]float64, len(symbols))
		g      errgroup.Group
	)
	g.SetLimit(r.limit)

	for _, symbol := range symbols {
		symbol := symbol
		g.Go(func() error {
			price, err := r.source.Price(ctx, symbol)
			if err != nil {
				logger.WithField("symbol", symbol).WithError(err).Warn("Price lookup failed, skipping symbol")
				return nil
			}

			mu.Lock()
			quotes[symbol] = price
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	logger.WithFields(logger.Fields{
		"requested": len(symbols),
		"resolved":  len(quotes),
	}).Debug("Prices resolved")

	return quotes
}
