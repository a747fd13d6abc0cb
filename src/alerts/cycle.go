// Package alerts runs the alert cycle: evaluate every recorded order against
// current prices and notify subscribers of orders that just became
// profitable.
package alerts

import (
	"context"
	"fmt"

	logger "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"positionalerts/src/model"
	"positionalerts/src/notifier"
	"positionalerts/src/pnl"
	"positionalerts/src/repository"
)

type OrderSource interface {
	Load(ctx context.Context) ([]model.Order, error)
}

type SubscriptionStore interface {
	Load(ctx context.Context) ([]model.Subscription, error)
	Save(ctx context.Context, subs []model.Subscription) error
}

type SignStore interface {
	Load(ctx context.Context) (model.SignState, error)
	Save(ctx context.Context, state model.SignState) error
}

type PriceResolver interface {
	ResolveAll(ctx context.Context, symbols []string) map[string]float64
}

type Notifier interface {
	SendToAll(ctx context.Context, payload model.Payload, subs []model.Subscription) notifier.DispatchResult
}

type Deps struct {
	Orders        OrderSource
	Subscriptions SubscriptionStore
	Signs         SignStore
	Prices        PriceResolver
	Notifier      Notifier
	QuoteCurrency string
	// SideDefaulted is called for every evaluated order without a side.
	// Nil logs a warning.
	SideDefaulted func(model.Order)
}

type Cycle struct {
	deps   Deps
	config Config
}

func NewCycle(deps Deps, config Config) *Cycle {
	if deps.SideDefaulted == nil {
		deps.SideDefaulted = warnSideDefaulted
	}
	return &Cycle{deps: deps, config: config}
}

func warnSideDefaulted(o model.Order) {
	logger.WithFields(logger.Fields{
		"id":    o.ID,
		"asset": o.Symbol(),
	}).Warn("Order has no side, evaluating as SELL")
}

// Run executes one cycle and folds any failure into the result.
func (c *Cycle) Run(ctx context.Context) model.CycleResult {
	result, err := c.RunCycle(ctx)
	if err != nil {
		logger.WithError(err).Error("Alert cycle failed")
		return model.CycleResult{OK: false, Error: err.Error()}
	}
	return result
}

// RunCycle executes one cycle. Only store failures are returned as errors;
// price and push failures are absorbed.
func (c *Cycle) RunCycle(ctx context.Context) (model.CycleResult, error) {
	orders, err := c.deps.Orders.Load(ctx)
	if err != nil {
		return model.CycleResult{}, fmt.Errorf("load orders: %w", err)
	}
	if len(orders) == 0 {
		return finishEarly(model.NoteNoOrders), nil
	}

	symbols := model.DistinctSymbols(orders)
	quotes := c.deps.Prices.ResolveAll(ctx, symbols)
	if len(quotes) == 0 {
		return finishEarly(model.NoteNoPrices), nil
	}

	subs, err := c.deps.Subscriptions.Load(ctx)
	if err != nil {
		return model.CycleResult{}, fmt.Errorf("load subscriptions: %w", err)
	}
	if len(subs) == 0 && !c.config.TrackWithoutSubscribers {
		return finishEarly(model.NoteNoSubscribers), nil
	}
	loadedSubs := len(subs)

	prior, err := c.deps.Signs.Load(ctx)
	if err != nil {
		return model.CycleResult{}, fmt.Errorf("load sign state: %w", err)
	}
	state := prior.Clone()

	pushes := 0
	for _, order := range orders {
		price, ok := quotes[order.Symbol()]
		if !ok {
			continue
		}
		if _, defaulted := order.EffectiveSide(); defaulted {
			c.deps.SideDefaulted(order)
		}

		net := pnl.ComputeNet(order, price)
		next := pnl.SignOf(net)
		if pnl.IsCrossing(state.Prior(order.ID), next) && len(subs) > 0 {
			logger.WithFields(logger.Fields{
				"id":    order.ID,
				"asset": order.Symbol(),
				"net":   net,
				"price": price,
			}).Info("Order crossed into profit")

			res := c.deps.Notifier.SendToAll(ctx, BuildPayload(order, net, price, c.deps.QuoteCurrency), subs)
			subs = res.Surviving
			pushes += len(subs)
		}
		state[order.ID] = next
	}

	if c.config.CompactSignState {
		if dropped := repository.Compact(state, orders); dropped > 0 {
			logger.WithField("dropped", dropped).Debug("Compacted sign state")
		}
	}

	if err := c.persist(ctx, state, subs, loadedSubs > 0); err != nil {
		return model.CycleResult{}, err
	}

	assets := make([]string, 0, len(quotes))
	for _, s := range symbols {
		if _, ok := quotes[s]; ok {
			assets = append(assets, s)
		}
	}

	logger.WithFields(logger.Fields{
		"orders": len(orders),
		"assets": assets,
		"pushes": pushes,
	}).Info("Alert cycle finished")

	return model.CycleResult{OK: true, Assets: assets, Pushes: pushes}, nil
}

// persist writes the sign state and the subscription list as two
// independent saves.
func (c *Cycle) persist(ctx context.Context, state model.SignState, subs []model.Subscription, saveSubs bool) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := c.deps.Signs.Save(gctx, state); err != nil {
			return fmt.Errorf("save sign state: %w", err)
		}
		return nil
	})
	if saveSubs {
		g.Go(func() error {
			if err := c.deps.Subscriptions.Save(gctx, subs); err != nil {
				return fmt.Errorf("save subscriptions: %w", err)
			}
			return nil
		})
	}
	return g.Wait()
}

func finishEarly(note string) model.CycleResult {
	logger.WithField("note", note).Info("Alert cycle finished early")
	return model.CycleResult{OK: true, Note: note}
}
