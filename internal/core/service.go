// Package core hosts the tracker service: one durable collection per entity
// kind, identifier and timestamp assignment, bulk seed and reset, and the
// medium and metrics wiring used by the command line tool.
package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"jobtracker/internal/collection"
	"jobtracker/internal/ident"
	"jobtracker/internal/logging"
	"jobtracker/pkg/domain"
)

// ClearPrompt is shown to the Confirmer before ClearAllData wipes everything.
const ClearPrompt = "Delete all roles, contacts and activities? This cannot be undone."

// Service exposes the tracker operations over three durable collections.
type Service struct {
	// mu serialises seed, clear and reload against each other and against
	// single-record mutations, which take it for reading.
	mu         sync.RWMutex
	medium     domain.Medium
	roles      *collection.Collection[domain.Role]
	contacts   *collection.Collection[domain.Contact]
	activities *collection.Collection[domain.Activity]
	ids        *ident.Generator
	logger     *slog.Logger
	metrics    collection.MetricsRecorder
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the service logger. Collections inherit it.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithMetrics sets the recorder for collection load and persist outcomes.
func WithMetrics(m collection.MetricsRecorder) Option {
	return func(s *Service) { s.metrics = m }
}

// WithGenerator overrides id and timestamp generation.
func WithGenerator(g *ident.Generator) Option {
	return func(s *Service) {
		if g != nil {
			s.ids = g
		}
	}
}

// NewService opens the three collections on medium. Each starts empty when
// its key is missing or unreadable.
func NewService(ctx context.Context, medium domain.Medium, opts ...Option) *Service {
	s := &Service{medium: medium, ids: ident.New()}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger != nil {
		s.logger = s.logger.With("service", "tracker")
	}
	copts := []collection.Option{collection.WithLogger(s.logger)}
	if s.metrics != nil {
		copts = append(copts, collection.WithMetrics(s.metrics))
	}
	s.roles = collection.Open[domain.Role](ctx, medium, domain.KeyRoles, nil, copts...)
	s.contacts = collection.Open[domain.Contact](ctx, medium, domain.KeyContacts, nil, copts...)
	s.activities = collection.Open[domain.Activity](ctx, medium, domain.KeyActivities, nil, copts...)
	return s
}

// Roles returns every role in insertion order.
func (s *Service) Roles() []domain.Role { return s.roles.Items() }

// Contacts returns every contact in insertion order.
func (s *Service) Contacts() []domain.Contact { return s.contacts.Items() }

// Activities returns every activity in insertion order.
func (s *Service) Activities() []domain.Activity { return s.activities.Items() }

// Role looks up a role by id.
func (s *Service) Role(id string) (domain.Role, bool) { return s.roles.Find(id) }

// Contact looks up a contact by id.
func (s *Service) Contact(id string) (domain.Contact, bool) { return s.contacts.Find(id) }

// Activity looks up an activity by id.
func (s *Service) Activity(id string) (domain.Activity, bool) { return s.activities.Find(id) }

// AddRole validates draft, assigns id and updatedAt, and appends the role.
func (s *Service) AddRole(ctx context.Context, draft domain.RoleDraft) (domain.Role, []domain.Role, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	draft = draft.WithDefaults()
	if err := draft.Validate(); err != nil {
		s.logRejected(ctx, "add_role", err)
		return domain.Role{}, s.roles.Items(), err
	}
	role := draft.Role(s.ids.NewID(), s.ids.NowTimestamp())
	return role, s.roles.Add(ctx, role), nil
}

// UpdateRole merges patch into the role with id. UpdatedAt only changes when
// the patch carries a value; callers stamp it with Now.
func (s *Service) UpdateRole(ctx context.Context, id string, patch domain.RolePatch) (domain.Role, []domain.Role, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := patch.Validate(); err != nil {
		s.logRejected(ctx, "update_role", err)
		return domain.Role{}, s.roles.Items(), err
	}
	items, updated, found := s.roles.Update(ctx, id, patch)
	if !found {
		return domain.Role{}, items, ErrNotFound{Entity: domain.EntityRole, ID: id}
	}
	return updated, items, nil
}

// DeleteRole removes the role. Activities and other references to it are left
// dangling.
func (s *Service) DeleteRole(ctx context.Context, id string) []domain.Role {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.roles.Remove(ctx, id)
}

// AddContact validates draft, assigns an id, and appends the contact.
func (s *Service) AddContact(ctx context.Context, draft domain.ContactDraft) (domain.Contact, []domain.Contact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	draft = draft.WithDefaults()
	if err := draft.Validate(); err != nil {
		s.logRejected(ctx, "add_contact", err)
		return domain.Contact{}, s.contacts.Items(), err
	}
	contact := draft.Contact(s.ids.NewID())
	return contact, s.contacts.Add(ctx, contact), nil
}

// UpdateContact merges patch into the contact with id.
func (s *Service) UpdateContact(ctx context.Context, id string, patch domain.ContactPatch) (domain.Contact, []domain.Contact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := patch.Validate(); err != nil {
		s.logRejected(ctx, "update_contact", err)
		return domain.Contact{}, s.contacts.Items(), err
	}
	items, updated, found := s.contacts.Update(ctx, id, patch)
	if !found {
		return domain.Contact{}, items, ErrNotFound{Entity: domain.EntityContact, ID: id}
	}
	return updated, items, nil
}

// DeleteContact removes the contact; roles and activities keep their reference.
func (s *Service) DeleteContact(ctx context.Context, id string) []domain.Contact {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.contacts.Remove(ctx, id)
}

// AddActivity validates draft, defaulting an empty date to today, and appends it.
func (s *Service) AddActivity(ctx context.Context, draft domain.ActivityDraft) (domain.Activity, []domain.Activity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	draft = draft.WithDefaults(s.ids.Today())
	if err := draft.Validate(); err != nil {
		s.logRejected(ctx, "add_activity", err)
		return domain.Activity{}, s.activities.Items(), err
	}
	activity := draft.Activity(s.ids.NewID())
	return activity, s.activities.Add(ctx, activity), nil
}

// UpdateActivity merges patch into the activity with id.
func (s *Service) UpdateActivity(ctx context.Context, id string, patch domain.ActivityPatch) (domain.Activity, []domain.Activity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := patch.Validate(); err != nil {
		s.logRejected(ctx, "update_activity", err)
		return domain.Activity{}, s.activities.Items(), err
	}
	items, updated, found := s.activities.Update(ctx, id, patch)
	if !found {
		return domain.Activity{}, items, ErrNotFound{Entity: domain.EntityActivity, ID: id}
	}
	return updated, items, nil
}

// DeleteActivity removes the activity.
func (s *Service) DeleteActivity(ctx context.Context, id string) []domain.Activity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activities.Remove(ctx, id)
}

// RoleLabel resolves a role reference to its position or "No Role".
func (s *Service) RoleLabel(roleID string) string {
	return domain.ResolveRoleLabel(roleID, s.roles.Items())
}

// ContactLabel resolves a contact reference to its name or "No Contact".
func (s *Service) ContactLabel(contactID string) string {
	return domain.ResolveContactLabel(contactID, s.contacts.Items())
}

// Timeline returns activities for a role, else for a contact, else all, newest first.
func (s *Service) Timeline(roleID, contactID string) []domain.Activity {
	return domain.Timeline(s.activities.Items(), roleID, contactID)
}

// RolesForContact returns the roles linked to contactID.
func (s *Service) RolesForContact(contactID string) []domain.Role {
	return domain.RolesForContact(s.roles.Items(), contactID)
}

// Now returns a fresh UTC timestamp for RolePatch.UpdatedAt.
func (s *Service) Now() string { return s.ids.NowTimestamp() }

// Today returns the current UTC date.
func (s *Service) Today() string { return s.ids.Today() }

// SeedSampleData writes the sample dataset straight to the medium for all
// three keys, then reloads every collection from it. Unsaved in-memory state
// is discarded. A failed key is logged and reported; the others are still written.
func (s *Service) SeedSampleData(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	log := s.log(ctx)
	var errs []error
	for _, entry := range []struct {
		key   string
		value any
	}{
		{domain.KeyRoles, SampleRoles()},
		{domain.KeyContacts, SampleContacts()},
		{domain.KeyActivities, SampleActivities()},
	} {
		if err := s.writeSnapshot(ctx, entry.key, entry.value); err != nil {
			log.Error("seed write failed", "collection", entry.key, "error", err)
			errs = append(errs, err)
		}
	}
	s.reloadLocked(ctx)
	log.Info("sample data loaded", "roles", s.roles.Len(), "contacts", s.contacts.Len(), "activities", s.activities.Len())
	return errors.Join(errs...)
}

// ClearAllData empties all three collections after confirm approves. The
// operation is irreversible.
func (s *Service) ClearAllData(ctx context.Context, confirm Confirmer) error {
	if confirm == nil || !confirm.Confirm(ctx, ClearPrompt) {
		return ErrNotConfirmed
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.roles.Replace(ctx, []domain.Role{})
	s.contacts.Replace(ctx, []domain.Contact{})
	s.activities.Replace(ctx, []domain.Activity{})
	s.log(ctx).Info("all data cleared")
	return s.persistErrLocked()
}

// Reload re-reads every collection from the medium.
func (s *Service) Reload(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reloadLocked(ctx)
}

// PersistErr joins the latest write failure of each collection.
func (s *Service) PersistErr() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.persistErrLocked()
}

// LoadErr joins the read failures of the latest open or reload. A collection
// that failed to read holds its defaults and has not overwritten the medium.
func (s *Service) LoadErr() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return errors.Join(s.roles.LoadErr(), s.contacts.LoadErr(), s.activities.LoadErr())
}

// Driver reports the medium in use.
func (s *Service) Driver() string { return s.medium.Driver() }

// Close releases the medium.
func (s *Service) Close() error { return s.medium.Close() }

func (s *Service) reloadLocked(ctx context.Context) {
	s.roles.Reload(ctx)
	s.contacts.Reload(ctx)
	s.activities.Reload(ctx)
}

func (s *Service) persistErrLocked() error {
	return errors.Join(s.roles.PersistErr(), s.contacts.PersistErr(), s.activities.PersistErr())
}

func (s *Service) writeSnapshot(ctx context.Context, key string, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.medium.Write(ctx, key, payload); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

func (s *Service) logRejected(ctx context.Context, op string, err error) {
	s.log(ctx).Debug("operation rejected", "operation", op, "kind", ErrorKind(err), "error", err)
}

func (s *Service) log(ctx context.Context) *slog.Logger {
	return logging.Resolve(ctx, s.logger)
}
