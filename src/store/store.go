// Package store holds opaque JSON documents addressed by (namespace, key).
//
// Writes replace the whole value and the last writer wins. There is no
// transaction across keys.
package store

import (
	"context"
	"errors"
)

var ErrUnknownBackend = errors.New("unknown store backend")

// Store is the key-value contract the registries are written against.
// Load of a key that was never written returns nil and no error.
type Store interface {
	Load(ctx context.Context, namespace, key string) ([]byte, error)
	Save(ctx context.Context, namespace, key string, value []byte) error
}

// Backend is a Store that owns a connection.
type Backend interface {
	Store
	Close() error
}
