package repository

import (
	"context"

	logger "github.com/sirupsen/logrus"

	"positionalerts/src/model"
	"positionalerts/src/store"
)

// SubscriptionRepository reads and writes the push subscription list. The
// list never holds two records with the same endpoint.
type SubscriptionRepository struct {
	store     store.Store
	namespace string
}

func NewSubscriptionRepository(s store.Store, namespace string) *SubscriptionRepository {
	return &SubscriptionRepository{store: s, namespace: namespace}
}

func (r *SubscriptionRepository) Load(ctx context.Context) ([]model.Subscription, error) {
	subs, err := loadList[model.Subscription](ctx, r.store, r.namespace, KeySubscriptions)
	if err != nil {
		return nil, err
	}
	return DedupeSubscriptions(subs), nil
}

// Save replaces the stored list.
func (r *SubscriptionRepository) Save(ctx context.Context, subs []model.Subscription) error {
	return saveDocument(ctx, r.store, r.namespace, KeySubscriptions, DedupeSubscriptions(subs))
}

// Add registers sub. A record with the same endpoint is replaced in place,
// in which case created is false.
func (r *SubscriptionRepository) Add(ctx context.Context, sub model.Subscription) (bool, error) {
	entries, err := readList[model.Subscription](ctx, r.store, r.namespace, KeySubscriptions)
	if err != nil {
		return false, err
	}

	created := true
	for i := range entries {
		if entries[i].ok && entries[i].value.Endpoint == sub.Endpoint {
			entries[i].value = sub
			created = false
			break
		}
	}
	if created {
		entries = append(entries, listEntry[model.Subscription]{value: sub, ok: true})
	}

	if err := saveList(ctx, r.store, r.namespace, KeySubscriptions, entries); err != nil {
		return false, err
	}

	logger.WithFields(logger.Fields{
		"repo":     "SubscriptionRepository",
		"op":       "Add",
		"endpoint": sub.Endpoint,
		"created":  created,
	}).Info("Push subscription stored")
	return created, nil
}

// Remove drops the subscription with the given endpoint.
func (r *SubscriptionRepository) Remove(ctx context.Context, endpoint string) (bool, error) {
	entries, err := readList[model.Subscription](ctx, r.store, r.namespace, KeySubscriptions)
	if err != nil {
		return false, err
	}

	kept := make([]listEntry[model.Subscription], 0, len(entries))
	for _, e := range entries {
		if !e.ok || e.value.Endpoint != endpoint {
			kept = append(kept, e)
		}
	}
	if len(kept) == len(entries) {
		return false, nil
	}
	return true, saveList(ctx, r.store, r.namespace, KeySubscriptions, kept)
}

// DedupeSubscriptions keeps the first record per endpoint and drops records
// without one.
func DedupeSubscriptions(subs []model.Subscription) []model.Subscription {
	seen := make(map[string]struct{}, len(subs))
	out := make([]model.Subscription, 0, len(subs))
	for _, s := range subs {
		if s.Endpoint == "" {
			continue
		}
		if _, ok := seen[s.Endpoint]; ok {
			continue
		}
		seen[s.Endpoint] = struct{}{}
		out = append(out, s)
	}
	return out
}
