package core

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"jobtracker/internal/blob"
	"jobtracker/pkg/domain"
)

var _ domain.Medium = (*BlobMedium)(nil)

// BlobMedium stores each collection key as a JSON object in a blob.Store,
// named <prefix><key>.json.
type BlobMedium struct {
	store  blob.Store
	prefix string
}

// NewBlobMedium adapts store to domain.Medium.
func NewBlobMedium(store blob.Store, prefix string) *BlobMedium {
	return &BlobMedium{store: store, prefix: prefix}
}

// ObjectKey returns the blob key used for a collection key.
func (m *BlobMedium) ObjectKey(key string) string { return m.prefix + key + ".json" }

// Read downloads the object for key.
func (m *BlobMedium) Read(ctx context.Context, key string) ([]byte, error) {
	_, rc, err := m.store.Get(ctx, m.ObjectKey(key))
	if errors.Is(err, blob.ErrNotFound) {
		return nil, fmt.Errorf("blob %s: %w", key, domain.ErrKeyNotFound)
	}
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	payload, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read blob %s: %w", key, err)
	}
	return payload, nil
}

// Write uploads payload, replacing the previous object.
func (m *BlobMedium) Write(ctx context.Context, key string, payload []byte) error {
	_, err := m.store.Put(ctx, m.ObjectKey(key), bytes.NewReader(payload), blob.PutOptions{
		ContentType: "application/json",
		Metadata:    map[string]string{"collection": key},
	})
	return err
}

// Driver reports the underlying blob driver, with the in-memory one
// distinguished from the plain memory medium.
func (m *BlobMedium) Driver() string {
	if m.store.Driver() == blob.DriverMemory {
		return "blob-memory"
	}
	return string(m.store.Driver())
}

// Close is a no-op; blob stores hold no long-lived connections.
func (m *BlobMedium) Close() error { return nil }
