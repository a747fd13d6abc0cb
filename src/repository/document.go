package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	logger "github.com/sirupsen/logrus"

	"positionalerts/src/store"
)

const (
	KeyOrders        = "orders"
	KeySubscriptions = "subscriptions"
	KeySignState     = "last_sign"
)

// ErrMalformedDocument is returned by write paths when the stored list is not
// a JSON array, so they never save over it.
var ErrMalformedDocument = errors.New("malformed persisted document")

// loadDocument reads one JSON document. A missing key or a value that does
// not parse both yield the zero value; only store failures are errors.
func loadDocument[T any](ctx context.Context, s store.Store, namespace, key string) (T, error) {
	var out T
	raw, err := s.Load(ctx, namespace, key)
	if err != nil {
		return out, fmt.Errorf("load %s: %w", key, err)
	}
	if len(raw) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		logger.WithFields(logger.Fields{
			"namespace": namespace,
			"key":       key,
		}).WithError(err).Warn("Ignoring malformed persisted document")
		var zero T
		return zero, nil
	}
	return out, nil
}

func saveDocument(ctx context.Context, s store.Store, namespace, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.Save(ctx, namespace, key, raw); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// listEntry is one element of a stored JSON array. Elements that do not decode
// keep their raw bytes so a rewrite of the list preserves them.
type listEntry[T any] struct {
	raw   json.RawMessage
	value T
	ok    bool
}

// readList decodes a stored array element by element. Bad elements are logged
// and flagged, never fatal.
func readList[T any](ctx context.Context, s store.Store, namespace, key string) ([]listEntry[T], error) {
	raw, err := s.Load(ctx, namespace, key)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", key, err)
	}
	if len(raw) == 0 {
		return nil, nil
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedDocument, key, err)
	}

	entries := make([]listEntry[T], 0, len(elems))
	for i, elem := range elems {
		entry := listEntry[T]{raw: elem}
		if err := json.Unmarshal(elem, &entry.value); err != nil {
			logger.WithFields(logger.Fields{
				"namespace": namespace,
				"key":       key,
				"index":     i,
			}).WithError(err).Warn("Skipping malformed persisted record")
		} else {
			entry.ok = true
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// loadList returns the elements that decode. A document that is not an array
// reads as empty.
func loadList[T any](ctx context.Context, s store.Store, namespace, key string) ([]T, error) {
	entries, err := readList[T](ctx, s, namespace, key)
	if errors.Is(err, ErrMalformedDocument) {
		logger.WithFields(logger.Fields{
			"namespace": namespace,
			"key":       key,
		}).WithError(err).Warn("Ignoring malformed persisted document")
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	out := make([]T, 0, len(entries))
	for _, e := range entries {
		if e.ok {
			out = append(out, e.value)
		}
	}
	return out, nil
}

// saveList writes entries back, re-encoding decoded values and keeping the
// raw bytes of the rest.
func saveList[T any](ctx context.Context, s store.Store, namespace, key string, entries []listEntry[T]) error {
	elems := make([]json.RawMessage, 0, len(entries))
	for _, e := range entries {
		if !e.ok {
			elems = append(elems, e.raw)
			continue
		}
		b, err := json.Marshal(e.value)
		if err != nil {
			return fmt.Errorf("encode %s: %w", key, err)
		}
		elems = append(elems, b)
	}
	return saveDocument(ctx, s, namespace, key, elems)
}
