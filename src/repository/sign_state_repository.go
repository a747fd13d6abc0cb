package repository

import (
	"context"

	"positionalerts/src/model"
	"positionalerts/src/store"
)

// SignStateRepository persists the per-order last-sign map.
type SignStateRepository struct {
	store     store.Store
	namespace string
}

func NewSignStateRepository(s store.Store, namespace string) *SignStateRepository {
	return &SignStateRepository{store: s, namespace: namespace}
}

// Load returns the persisted map, or an empty one on first run.
func (r *SignStateRepository) Load(ctx context.Context) (model.SignState, error) {
	state, err := loadDocument[model.SignState](ctx, r.store, r.namespace, KeySignState)
	if err != nil {
		return nil, err
	}
	if state == nil {
		state = model.SignState{}
	}
	return state, nil
}

func (r *SignStateRepository) Save(ctx context.Context, state model.SignState) error {
	if state == nil {
		state = model.SignState{}
	}
	return saveDocument(ctx, r.store, r.namespace, KeySignState, state)
}

// Compact deletes entries whose order no longer exists and returns how many
// were dropped.
func Compact(state model.SignState, orders []model.Order) int {
	live := make(map[string]struct{}, len(orders))
	for _, o := range orders {
		live[o.ID] = struct{}{}
	}

	dropped := 0
	for id := range state {
		if _, ok := live[id]; !ok {
			delete(state, id)
			dropped++
		}
	}
	return dropped
}
