// Package collection keeps one ordered record collection in memory and a
// whole-collection JSON snapshot of it in a durable medium.
package collection

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"jobtracker/internal/logging"
	"jobtracker/pkg/domain"
)

// Record is any entity with a stable identifier.
type Record interface {
	RecordID() string
}

// Patch produces an updated copy of a record.
type Patch[T any] interface {
	Apply(T) T
}

// MetricsRecorder observes load and persist outcomes per collection key.
type MetricsRecorder interface {
	Observe(ctx context.Context, key, operation string, success bool, duration time.Duration)
}

// Operation names reported to MetricsRecorder.
const (
	OpLoad    = "load"
	OpPersist = "persist"
)

type options struct {
	logger  *slog.Logger
	metrics MetricsRecorder
}

// Option configures a Collection.
type Option func(*options)

// WithLogger sets the logger used for load and persist failures.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithMetrics sets the recorder notified after every load and persist.
func WithMetrics(m MetricsRecorder) Option {
	return func(o *options) { o.metrics = m }
}

// Collection is an ordered sequence of records persisted under a single key.
// In-memory state is authoritative: persistence failures are logged and
// remembered but never roll back a mutation.
type Collection[T Record] struct {
	mu       sync.Mutex
	medium   domain.Medium
	key      string
	defaults []T
	items    []T
	lastErr  error
	loadErr  error
	logger   *slog.Logger
	metrics  MetricsRecorder
}

// ErrCorrupt marks a stored payload that is not a JSON array of records.
var ErrCorrupt = errors.New("corrupt collection payload")

// Open loads the collection stored at key. A missing, unreadable or corrupt
// payload falls back to a copy of defaults. A missing or corrupt payload is
// then replaced by the defaults in the medium; a failed read leaves the
// medium untouched and is reported by LoadErr.
func Open[T Record](ctx context.Context, medium domain.Medium, key string, defaults []T, opts ...Option) *Collection[T] {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	c := &Collection[T]{
		medium:   medium,
		key:      key,
		defaults: clone(defaults),
		logger:   o.logger,
		metrics:  o.metrics,
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = c.load(ctx)
	if c.loadErr == nil {
		c.persist(ctx)
	}
	return c
}

// Key returns the medium key backing the collection.
func (c *Collection[T]) Key() string { return c.key }

// Items returns a copy of the current records in order.
func (c *Collection[T]) Items() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return clone(c.items)
}

// Len returns the number of records.
func (c *Collection[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Find returns the first record with id.
func (c *Collection[T]) Find(id string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, item := range c.items {
		if item.RecordID() == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// PersistErr returns the most recent write failure, or nil when the last
// write succeeded.
func (c *Collection[T]) PersistErr() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// LoadErr returns the read failure of the latest Open or Reload, or nil when
// the medium answered. Missing keys and corrupt payloads are not read failures.
func (c *Collection[T]) LoadErr() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loadErr
}

// Replace swaps the whole collection and persists it.
func (c *Collection[T]) Replace(ctx context.Context, items []T) []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = clone(items)
	c.persist(ctx)
	return clone(c.items)
}

// Add appends item, keeping insertion order, and persists.
func (c *Collection[T]) Add(ctx context.Context, item T) []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	next := make([]T, len(c.items), len(c.items)+1)
	copy(next, c.items)
	c.items = append(next, item)
	c.persist(ctx)
	return clone(c.items)
}

// Update replaces the first record with id by patch applied to it. When no
// record matches, nothing changes, nothing is written and found is false.
func (c *Collection[T]) Update(ctx context.Context, id string, patch Patch[T]) (items []T, updated T, found bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	idx := -1
	for i, item := range c.items {
		if item.RecordID() == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return clone(c.items), updated, false
	}
	next := clone(c.items)
	next[idx] = patch.Apply(next[idx])
	c.items = next
	c.persist(ctx)
	return clone(c.items), next[idx], true
}

// Remove drops every record with id and persists. Removing an unknown id
// leaves the collection as it was.
func (c *Collection[T]) Remove(ctx context.Context, id string) []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	next := make([]T, 0, len(c.items))
	for _, item := range c.items {
		if item.RecordID() != id {
			next = append(next, item)
		}
	}
	if len(next) == len(c.items) {
		return clone(c.items)
	}
	c.items = next
	c.persist(ctx)
	return clone(c.items)
}

// Reload discards memory and re-reads the medium with the same fallback rules
// as Open.
func (c *Collection[T]) Reload(ctx context.Context) []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = c.load(ctx)
	return clone(c.items)
}

func (c *Collection[T]) load(ctx context.Context) []T {
	start := time.Now()
	items, err := c.decode(ctx)
	c.observe(ctx, OpLoad, err == nil, time.Since(start))
	c.loadErr = nil
	if err == nil {
		return items
	}
	log := c.log(ctx)
	switch {
	case errors.Is(err, domain.ErrKeyNotFound):
		log.Debug("no stored collection, using defaults")
	case errors.Is(err, ErrCorrupt):
		log.Warn("stored collection unreadable, using defaults", "error", err)
	default:
		c.loadErr = err
		log.Error("read stored collection failed, medium left untouched", "error", err)
	}
	return clone(c.defaults)
}

func (c *Collection[T]) decode(ctx context.Context) ([]T, error) {
	payload, err := c.medium.Read(ctx, c.key)
	if err != nil {
		return nil, err
	}
	var items []T
	if err := json.Unmarshal(payload, &items); err != nil {
		return nil, fmt.Errorf("decode %s: %w: %w", c.key, ErrCorrupt, err)
	}
	if items == nil {
		return nil, fmt.Errorf("decode %s: %w: payload is not an array", c.key, ErrCorrupt)
	}
	return items, nil
}

// persist must be called with c.mu held.
func (c *Collection[T]) persist(ctx context.Context) {
	start := time.Now()
	err := c.write(ctx)
	c.observe(ctx, OpPersist, err == nil, time.Since(start))
	c.lastErr = err
	if err != nil {
		c.log(ctx).Error("persist collection failed", "error", err, "records", len(c.items))
	}
}

func (c *Collection[T]) write(ctx context.Context) error {
	items := c.items
	if items == nil {
		items = []T{}
	}
	payload, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode %s: %w", c.key, err)
	}
	if err := c.medium.Write(ctx, c.key, payload); err != nil {
		return fmt.Errorf("write %s: %w", c.key, err)
	}
	return nil
}

func (c *Collection[T]) observe(ctx context.Context, op string, success bool, d time.Duration) {
	if c.metrics != nil {
		c.metrics.Observe(ctx, c.key, op, success, d)
	}
}

func (c *Collection[T]) log(ctx context.Context) *slog.Logger {
	return logging.Resolve(ctx, c.logger).With("collection", c.key, "driver", c.medium.Driver())
}

func clone[T any](in []T) []T {
	out := make([]T, len(in))
	copy(out, in)
	return out
}
