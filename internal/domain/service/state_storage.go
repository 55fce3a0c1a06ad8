package service

import (
	"context"

	"github.com/pkg/errors"
)

// ErrStateNotFound is returned by StateStorage.Load when nothing was persisted under the key.
var ErrStateNotFound = errors.New("state not found")

// StateStorage persists small named client state entries across restarts.
type StateStorage interface {
	// Load returns the raw bytes stored under key or ErrStateNotFound
	Load(ctx context.Context, key string) ([]byte, error)

	// Save replaces the bytes stored under key
	Save(ctx context.Context, key string, data []byte) error

	// Delete removes key; deleting a missing key is not an error
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the storage
	Close() error
}
