// Package ident assigns record identifiers and freshness timestamps.
package ident

import (
	"time"

	"github.com/google/uuid"

	"jobtracker/pkg/domain"
)

// TimestampLayout renders ISO-8601 timestamps with millisecond precision and
// an explicit UTC designator, e.g. 2026-01-15T10:00:00.000Z.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Generator produces identifiers and timestamps. The zero value is not usable;
// construct with New.
type Generator struct {
	newID func() string
	now   func() time.Time
}

// Option customises a Generator.
type Option func(*Generator)

// WithClock replaces the time source.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		if now != nil {
			g.now = now
		}
	}
}

// WithIDSource replaces the identifier source.
func WithIDSource(next func() string) Option {
	return func(g *Generator) {
		if next != nil {
			g.newID = next
		}
	}
}

// New returns a generator backed by random UUIDs and the system clock.
func New(opts ...Option) *Generator {
	g := &Generator{
		newID: uuid.NewString,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// NewID returns a fresh record identifier.
func (g *Generator) NewID() string { return g.newID() }

// NowTimestamp returns the current instant as an ISO-8601 UTC string.
func (g *Generator) NowTimestamp() string { return FormatTimestamp(g.now()) }

// Today returns the current UTC calendar date.
func (g *Generator) Today() string { return g.now().UTC().Format(domain.DateLayout) }

// FormatTimestamp renders t in TimestampLayout after converting it to UTC.
func FormatTimestamp(t time.Time) string { return t.UTC().Format(TimestampLayout) }

// ParseTimestamp accepts any RFC 3339 timestamp, including the millisecond
// form produced by FormatTimestamp.
func ParseTimestamp(value string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, value)
}
