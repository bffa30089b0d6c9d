package domain

import (
	"context"
	"errors"
)

// ErrKeyNotFound is returned by a Medium when no value is stored at a key.
var ErrKeyNotFound = errors.New("medium: key not found")

// Medium is the durable key-value storage backing each collection. Values are
// opaque payloads; collections store whole JSON snapshots under fixed keys.
type Medium interface {
	// Read returns the payload stored at key, or an error wrapping
	// ErrKeyNotFound when the key is absent.
	Read(ctx context.Context, key string) ([]byte, error)
	// Write replaces the payload stored at key.
	Write(ctx context.Context, key string, payload []byte) error
	// Driver returns the configured backend name.
	Driver() string
	// Close releases backend resources.
	Close() error
}
