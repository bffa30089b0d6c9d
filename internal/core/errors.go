package core

import (
	"context"
	"errors"
	"fmt"

	"jobtracker/pkg/domain"
)

// ErrNotConfirmed is returned by ClearAllData when the confirmer declines.
var ErrNotConfirmed = errors.New("clear all data: not confirmed")

// ErrNotFound indicates an update addressed an id that is not in the collection.
type ErrNotFound struct {
	Entity domain.EntityType
	ID     string
}

func (e ErrNotFound) Error() string { return fmt.Sprintf("%s %s not found", e.Entity, e.ID) }

// Confirmer asks the user to approve an irreversible operation.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, prompt string) bool

// Confirm calls f.
func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) bool { return f(ctx, prompt) }

// AlwaysConfirm approves every prompt.
var AlwaysConfirm Confirmer = ConfirmFunc(func(context.Context, string) bool { return true })

// ErrorKind maps errors to stable labels for logs and exit codes.
func ErrorKind(err error) string {
	var validation *domain.ValidationError
	var notFound ErrNotFound
	switch {
	case err == nil:
		return ""
	case errors.As(err, &validation):
		return "validation"
	case errors.Is(err, ErrNotConfirmed):
		return "not_confirmed"
	case errors.As(err, &notFound), errors.Is(err, domain.ErrKeyNotFound):
		return "not_found"
	default:
		return "unexpected"
	}
}
