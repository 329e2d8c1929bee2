// Package kv defines the blob storage port the ledger persists through.
package kv

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when the key has never been written.
var ErrNotFound = errors.New("key not found")

// Store is a minimal key-value blob store. The ledger keeps the whole
// transaction collection under a single key and overwrites it on every
// mutation.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Close() error
}
