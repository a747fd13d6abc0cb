// Package notifier fans a push payload out to every registered browser and
// prunes subscriptions the push service reports as gone.
package notifier

import (
	"context"
	"encoding/json"
	"errors"

	logger "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"positionalerts/src/model"
)

// Transport delivers one payload to one subscription. Failures should be
// *DeliveryError so they can be classified.
type Transport interface {
	Send(ctx context.Context, sub model.Subscription, payload []byte) error
}

type outcome int

const (
	outcomeDelivered outcome = iota
	outcomeTransient
	outcomeGone
)

// DispatchResult holds the subscriptions to keep, in their original order,
// and delivery counters.
type DispatchResult struct {
	Surviving []model.Subscription
	Delivered int
	Pruned    int
	Failed    int
}

type Dispatcher struct {
	transport Transport
	limit     int
}

func NewDispatcher(transport Transport, limit int) *Dispatcher {
	if limit <= 0 {
		limit = 1
	}
	return &Dispatcher{transport: transport, limit: limit}
}

// SendToAll delivers payload to every subscription concurrently. Gone
// endpoints (404/410) are dropped; every other failure keeps the
// subscription for the next attempt. The surviving list is always returned.
func (d *Dispatcher) SendToAll(ctx context.Context, payload model.Payload, subs []model.Subscription) DispatchResult {
	body, err := json.Marshal(payload)
	if err != nil {
		// Payload is two strings; this cannot fail in practice.
		logger.WithError(err).Error("Failed to encode push payload")
		return DispatchResult{Surviving: subs, Failed: len(subs)}
	}

	outcomes := make([]outcome, len(subs))
	var g errgroup.Group
	g.SetLimit(d.limit)

	for i, sub := range subs {
		i, sub := i, sub
		g.Go(func() error {
			outcomes[i] = d.deliver(ctx, sub, body)
			return nil
		})
	}
	_ = g.Wait()

	result := DispatchResult{Surviving: make([]model.Subscription, 0, len(subs))}
	for i, sub := range subs {
		switch outcomes[i] {
		case outcomeGone:
			result.Pruned++
			continue
		case outcomeTransient:
			result.Failed++
		default:
			result.Delivered++
		}
		result.Surviving = append(result.Surviving, sub)
	}

	logger.WithFields(logger.Fields{
		"title":     payload.Title,
		"delivered": result.Delivered,
		"failed":    result.Failed,
		"pruned":    result.Pruned,
	}).Info("Push fan-out finished")

	return result
}

func (d *Dispatcher) deliver(ctx context.Context, sub model.Subscription, body []byte) outcome {
	err := d.transport.Send(ctx, sub, body)
	if err == nil {
		return outcomeDelivered
	}

	var de *DeliveryError
	if errors.As(err, &de) && de.Gone() {
		logger.WithField("endpoint", sub.Endpoint).WithError(err).Info("Push endpoint gone, pruning subscription")
		return outcomeGone
	}

	logger.WithField("endpoint", sub.Endpoint).WithError(err).Warn("Push delivery failed, keeping subscription")
	return outcomeTransient
}
