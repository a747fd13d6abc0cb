package repository

import (
	"context"

	logger "github.com/sirupsen/logrus"

	"positionalerts/src/model"
	"positionalerts/src/store"
)

// OrderRepository reads and writes the order list document.
type OrderRepository struct {
	store     store.Store
	namespace string
}

func NewOrderRepository(s store.Store, namespace string) *OrderRepository {
	return &OrderRepository{store: s, namespace: namespace}
}

// Load returns the recorded orders in insertion order.
func (r *OrderRepository) Load(ctx context.Context) ([]model.Order, error) {
	return loadList[model.Order](ctx, r.store, r.namespace, KeyOrders)
}

func (r *OrderRepository) Save(ctx context.Context, orders []model.Order) error {
	if orders == nil {
		orders = []model.Order{}
	}
	return saveDocument(ctx, r.store, r.namespace, KeyOrders, orders)
}

// Add appends order to the list. Stored records that do not decode are kept
// as they are.
func (r *OrderRepository) Add(ctx context.Context, order model.Order) error {
	entries, err := readList[model.Order](ctx, r.store, r.namespace, KeyOrders)
	if err != nil {
		return err
	}

	entries = append(entries, listEntry[model.Order]{value: order, ok: true})
	if err := saveList(ctx, r.store, r.namespace, KeyOrders, entries); err != nil {
		return err
	}

	logger.WithFields(logger.Fields{
		"repo":  "OrderRepository",
		"op":    "Add",
		"id":    order.ID,
		"asset": order.Symbol(),
		"side":  order.Side,
	}).Info("Order recorded")
	return nil
}

// Delete removes the order with the given id. It reports false when no such
// order exists.
func (r *OrderRepository) Delete(ctx context.Context, id string) (bool, error) {
	entries, err := readList[model.Order](ctx, r.store, r.namespace, KeyOrders)
	if err != nil {
		return false, err
	}

	kept := make([]listEntry[model.Order], 0, len(entries))
	for _, e := range entries {
		if !e.ok || e.value.ID != id {
			kept = append(kept, e)
		}
	}
	if len(kept) == len(entries) {
		return false, nil
	}

	if err := saveList(ctx, r.store, r.namespace, KeyOrders, kept); err != nil {
		return false, err
	}

	logger.WithFields(logger.Fields{
		"repo": "OrderRepository",
		"op":   "Delete",
		"id":   id,
	}).Info("Order deleted")
	return true, nil
}
