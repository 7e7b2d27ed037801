// Package kv is the key-value store abstraction bookmarks are persisted in.
//
// Backends are expected to be durable and last-writer-wins per key, and may be
// eventually consistent: a write is not guaranteed to be visible to the next
// read or List from another connection.
package kv

import (
	"context"
	"errors"
)

// ErrClosed is returned by stores that have been shut down.
var ErrClosed = errors.New("kv: store closed")

// Store is exact-key get/put/delete plus prefix-scoped key listing.
type Store interface {
	// Get returns the value stored at key. found is false when nothing is
	// stored; that is not an error.
	Get(ctx context.Context, key string) (value string, found bool, err error)

	// Put stores value at key, replacing any previous value.
	Put(ctx context.Context, key, value string) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// List returns every key starting with prefix. Ordering is backend
	// defined and the result is not a snapshot.
	List(ctx context.Context, prefix string) ([]string, error)

	// Ping checks the backend is reachable.
	Ping(ctx context.Context) error
}
