package testutil

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"jobtracker/pkg/domain"
)

// ErrInjected is returned by FlakyMedium when a failure is armed.
var ErrInjected = errors.New("testutil: injected medium failure")

// FlakyMedium wraps a medium and fails reads or writes on demand.
type FlakyMedium struct {
	domain.Medium

	mu         sync.Mutex
	failWrites map[string]bool
	failReads  map[string]bool
	writes     []string
}

// NewFlakyMedium wraps inner.
func NewFlakyMedium(inner domain.Medium) *FlakyMedium {
	return &FlakyMedium{Medium: inner, failWrites: map[string]bool{}, failReads: map[string]bool{}}
}

// FailWrites arms or disarms write failures for key.
func (f *FlakyMedium) FailWrites(key string, fail bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failWrites[key] = fail
}

// FailReads arms or disarms read failures for key.
func (f *FlakyMedium) FailReads(key string, fail bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failReads[key] = fail
}

// Read delegates unless a read failure is armed for key.
func (f *FlakyMedium) Read(ctx context.Context, key string) ([]byte, error) {
	f.mu.Lock()
	fail := f.failReads[key]
	f.mu.Unlock()
	if fail {
		return nil, ErrInjected
	}
	return f.Medium.Read(ctx, key)
}

// Write delegates unless a write failure is armed for key. Attempts are recorded either way.
func (f *FlakyMedium) Write(ctx context.Context, key string, payload []byte) error {
	f.mu.Lock()
	f.writes = append(f.writes, key)
	fail := f.failWrites[key]
	f.mu.Unlock()
	if fail {
		return ErrInjected
	}
	return f.Medium.Write(ctx, key, payload)
}

// WriteAttempts returns the keys of every attempted write in order.
func (f *FlakyMedium) WriteAttempts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.writes...)
}

// Observation is one call recorded by MetricsSpy.
type Observation struct {
	Key       string
	Operation string
	Success   bool
}

// MetricsSpy records collection metrics observations.
type MetricsSpy struct {
	mu  sync.Mutex
	obs []Observation
}

// Observe implements collection.MetricsRecorder.
func (m *MetricsSpy) Observe(_ context.Context, key, operation string, success bool, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.obs = append(m.obs, Observation{Key: key, Operation: operation, Success: success})
}

// Observations returns a copy of the recorded calls.
func (m *MetricsSpy) Observations() []Observation {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Observation(nil), m.obs...)
}

// FixedClock returns a clock that always reports t.
func FixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// SequentialIDs returns an id source yielding prefix1, prefix2, ...
func SequentialIDs(prefix string) func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return prefix + strconv.Itoa(n)
	}
}
