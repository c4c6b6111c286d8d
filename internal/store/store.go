// Package store provides the persistence contract for the logbook and its
// backends. A Store is a flat key-value namespace holding one serialized
// record per key; the repository layer owns what the bytes mean.
package store

import (
	"context"
	"errors"
)

// ErrKeyNotFound is returned by Get for keys with no committed value.
var ErrKeyNotFound = errors.New("key not found")

// Store is the asynchronous key-value surface the repository runs on. Every
// call may fail (quota, I/O, backend gone); a failed call must leave
// previously committed entries intact.
type Store interface {
	// Get returns the value for key, or ErrKeyNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set commits value under key, replacing any existing value.
	Set(ctx context.Context, key string, value []byte) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
	// Keys lists every key in the namespace, in no particular order.
	Keys(ctx context.Context) ([]string, error)
	// Clear removes every key. The namespace stays usable afterwards.
	Clear(ctx context.Context) error
}
