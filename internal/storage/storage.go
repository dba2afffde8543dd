// Package storage is the scoped key-value contract the cart persists
// through. Values are opaque blobs; last write wins.
package storage

import (
	"context"
	"errors"
)

// Store is defined here at the consumer; implementations live alongside.
type Store interface {
	// Get returns the blob stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set stores the blob under key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error
	// Remove deletes key. Removing a missing key is not an error.
	Remove(ctx context.Context, key string) error
}

var ErrNotFound = errors.New("key not found")
