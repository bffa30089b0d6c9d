package core

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"jobtracker/internal/ident"
	"jobtracker/internal/infra/persistence/memory"
	"jobtracker/internal/logging"
	"jobtracker/pkg/domain"
	"jobtracker/testutil"
)

var fixedNow = time.Date(2026, 2, 1, 9, 30, 0, 0, time.UTC)

func newTestService(t *testing.T, medium domain.Medium, opts ...Option) *Service {
	t.Helper()
	gen := ident.New(ident.WithClock(testutil.FixedClock(fixedNow)))
	base := []Option{WithGenerator(gen), WithLogger(logging.Discard())}
	return NewService(context.Background(), medium, append(base, opts...)...)
}

func TestAddRoleAssignsIDAndTimestamp(t *testing.T) {
	svc := newTestService(t, memory.NewStore())
	ctx := context.Background()

	role, roles, err := svc.AddRole(ctx, domain.RoleDraft{Company: "Acme", Position: "Eng", Status: domain.StatusInterested})
	if err != nil {
		t.Fatalf("add role: %v", err)
	}
	if role.ID == "" || role.UpdatedAt != "2026-02-01T09:30:00.000Z" {
		t.Fatalf("expected id and timestamp, got %+v", role)
	}
	if len(roles) != 1 || roles[0] != role {
		t.Fatalf("unexpected collection %+v", roles)
	}

	t2 := "2026-02-02T08:00:00.000Z"
	updated, _, err := svc.UpdateRole(ctx, role.ID, domain.RolePatch{Status: domain.Ptr(domain.StatusApplied), UpdatedAt: &t2})
	if err != nil {
		t.Fatalf("update role: %v", err)
	}
	if updated.Status != domain.StatusApplied || updated.UpdatedAt != t2 || updated.Company != "Acme" {
		t.Fatalf("unexpected update %+v", updated)
	}

	again, _, err := svc.UpdateRole(ctx, role.ID, domain.RolePatch{Notes: domain.Ptr("call back")})
	if err != nil {
		t.Fatalf("update notes: %v", err)
	}
	if again.UpdatedAt != t2 {
		t.Fatalf("updatedAt must not be auto-refreshed, got %s", again.UpdatedAt)
	}
}

func TestAddAssignsUniqueIDs(t *testing.T) {
	svc := NewService(context.Background(), memory.NewStore(), WithLogger(logging.Discard()))
	ctx := context.Background()
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		c, _, err := svc.AddContact(ctx, domain.ContactDraft{Name: "N"})
		if err != nil {
			t.Fatalf("add contact: %v", err)
		}
		if seen[c.ID] {
			t.Fatalf("duplicate id %s", c.ID)
		}
		seen[c.ID] = true
	}
	if len(svc.Contacts()) != 50 {
		t.Fatalf("expected 50 contacts")
	}
}

func TestDraftDefaultsApplied(t *testing.T) {
	svc := newTestService(t, memory.NewStore())
	ctx := context.Background()
	role, _, err := svc.AddRole(ctx, domain.RoleDraft{Company: "Acme", Position: "Eng"})
	if err != nil || role.Status != domain.StatusInterested {
		t.Fatalf("expected Interested default, got %+v err=%v", role, err)
	}
	contact, _, err := svc.AddContact(ctx, domain.ContactDraft{Name: "Ana"})
	if err != nil || contact.Type != domain.ContactRecruiter {
		t.Fatalf("expected Recruiter default, got %+v err=%v", contact, err)
	}
	activity, _, err := svc.AddActivity(ctx, domain.ActivityDraft{Description: "Ping", RoleID: role.ID})
	if err != nil || activity.Type != domain.ActivityEmail || activity.Date != "2026-02-01" {
		t.Fatalf("expected Email/today defaults, got %+v err=%v", activity, err)
	}
}

func TestValidationSkipsMutation(t *testing.T) {
	medium := memory.NewStore()
	svc := newTestService(t, medium)
	ctx := context.Background()
	writes := medium.Writes()

	_, roles, err := svc.AddRole(ctx, domain.RoleDraft{Company: " ", Position: "Eng"})
	var verr *domain.ValidationError
	if !errors.As(err, &verr) || verr.FieldErrors["company"] == "" {
		t.Fatalf("expected company validation error, got %v", err)
	}
	if len(roles) != 0 || ErrorKind(err) != "validation" {
		t.Fatalf("no record may be created")
	}
	if _, _, err := svc.AddContact(ctx, domain.ContactDraft{}); ErrorKind(err) != "validation" {
		t.Fatalf("expected name validation error, got %v", err)
	}
	if _, _, err := svc.AddActivity(ctx, domain.ActivityDraft{Description: "x", Date: "01/02/2026"}); ErrorKind(err) != "validation" {
		t.Fatalf("expected date validation error, got %v", err)
	}
	if medium.Writes() != writes {
		t.Fatalf("rejected mutations must not write")
	}

	role, _, _ := svc.AddRole(ctx, domain.RoleDraft{Company: "Acme", Position: "Eng"})
	if _, _, err := svc.UpdateRole(ctx, role.ID, domain.RolePatch{Position: domain.Ptr("")}); ErrorKind(err) != "validation" {
		t.Fatalf("expected patch validation error, got %v", err)
	}
	if got, _ := svc.Role(role.ID); got.Position != "Eng" {
		t.Fatalf("rejected patch must not apply")
	}
}

func TestUpdateAndDeleteUnknownIDs(t *testing.T) {
	svc := newTestService(t, memory.NewStore())
	ctx := context.Background()
	if err := svc.SeedSampleData(ctx); err != nil {
		t.Fatalf("seed: %v", err)
	}
	before := svc.Contacts()
	_, after, err := svc.UpdateContact(ctx, "ghost", domain.ContactPatch{Name: domain.Ptr("x")})
	var nf ErrNotFound
	if !errors.As(err, &nf) || nf.Entity != domain.EntityContact || ErrorKind(err) != "not_found" {
		t.Fatalf("expected not found, got %v", err)
	}
	if len(after) != len(before) {
		t.Fatalf("collection must be unchanged")
	}
	if _, _, err := svc.UpdateActivity(ctx, "ghost", domain.ActivityPatch{}); ErrorKind(err) != "not_found" {
		t.Fatalf("expected activity not found, got %v", err)
	}
	if _, _, err := svc.UpdateRole(ctx, "ghost", domain.RolePatch{}); ErrorKind(err) != "not_found" {
		t.Fatalf("expected role not found, got %v", err)
	}
	if got := svc.DeleteActivity(ctx, "ghost"); len(got) != 3 {
		t.Fatalf("unknown delete must be a no-op")
	}
	once := svc.DeleteContact(ctx, "c2")
	twice := svc.DeleteContact(ctx, "c2")
	if len(once) != 2 || len(twice) != 2 {
		t.Fatalf("expected idempotent delete")
	}
}

func TestSeedRemoveRoleLeavesDanglingActivities(t *testing.T) {
	svc := newTestService(t, memory.NewStore())
	ctx := context.Background()
	if err := svc.SeedSampleData(ctx); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if len(svc.Roles()) != 3 || len(svc.Contacts()) != 3 || len(svc.Activities()) != 3 {
		t.Fatalf("unexpected seeded sizes")
	}
	r1 := domain.FilterByRole(svc.Activities(), "r1")
	if len(r1) != 1 || r1[0].ID != "a1" {
		t.Fatalf("expected a1 for r1, got %+v", r1)
	}
	if svc.RoleLabel("r1") != "Senior Frontend Engineer" || svc.ContactLabel("c3") != "Emily Chen" {
		t.Fatalf("unexpected labels")
	}
	if roles := svc.RolesForContact("c1"); len(roles) != 1 || roles[0].ID != "r1" {
		t.Fatalf("unexpected roles for c1 %+v", roles)
	}

	svc.DeleteRole(ctx, "r1")
	after := domain.FilterByRole(svc.Activities(), "r1")
	if len(after) != 1 || after[0] != r1[0] {
		t.Fatalf("activities must survive role removal, got %+v", after)
	}
	if svc.RoleLabel(after[0].RoleID) != domain.NoRoleLabel {
		t.Fatalf("expected dangling reference to resolve to No Role")
	}

	timeline := svc.Timeline("", "")
	if len(timeline) != 3 || timeline[0].ID != "a3" || timeline[2].ID != "a1" {
		t.Fatalf("expected newest first, got %+v", timeline)
	}
	if byContact := svc.Timeline("", "c2"); len(byContact) != 1 || byContact[0].ID != "a3" {
		t.Fatalf("unexpected contact timeline %+v", byContact)
	}
}

func TestSeedDiscardsUnsavedStateAndReportsFailures(t *testing.T) {
	medium := testutil.NewFlakyMedium(memory.NewStore())
	var buf bytes.Buffer
	svc := NewService(context.Background(), medium, WithLogger(logging.New(&buf, 0, logging.FormatText)))
	ctx := context.Background()
	if _, _, err := svc.AddContact(ctx, domain.ContactDraft{Name: "Temp"}); err != nil {
		t.Fatalf("add: %v", err)
	}

	medium.FailWrites(domain.KeyContacts, true)
	err := svc.SeedSampleData(ctx)
	if !errors.Is(err, testutil.ErrInjected) {
		t.Fatalf("expected joined write error, got %v", err)
	}
	if len(svc.Roles()) != 3 || len(svc.Activities()) != 3 {
		t.Fatalf("other keys must still be written and reloaded")
	}
	if contacts := svc.Contacts(); len(contacts) != 1 || contacts[0].Name != "Temp" {
		t.Fatalf("failed key reloads the previous durable value, got %+v", contacts)
	}
	if !strings.Contains(buf.String(), "seed write failed") || !strings.Contains(buf.String(), "collection=m_contacts") {
		t.Fatalf("expected seed failure log, got %q", buf.String())
	}
	attempts := 0
	for _, key := range medium.WriteAttempts() {
		if key == domain.KeyContacts {
			attempts++
		}
	}
	if attempts != 3 {
		t.Fatalf("expected open, add and one seed attempt for contacts, got %d", attempts)
	}
}

func TestClearAllDataRequiresConfirmation(t *testing.T) {
	medium := memory.NewStore()
	svc := newTestService(t, medium)
	ctx := context.Background()
	if err := svc.SeedSampleData(ctx); err != nil {
		t.Fatalf("seed: %v", err)
	}

	var prompt string
	decline := ConfirmFunc(func(_ context.Context, p string) bool { prompt = p; return false })
	if err := svc.ClearAllData(ctx, decline); !errors.Is(err, ErrNotConfirmed) || ErrorKind(err) != "not_confirmed" {
		t.Fatalf("expected ErrNotConfirmed, got %v", err)
	}
	if prompt != ClearPrompt || len(svc.Roles()) != 3 {
		t.Fatalf("declined clear must not change data")
	}
	if err := svc.ClearAllData(ctx, nil); !errors.Is(err, ErrNotConfirmed) {
		t.Fatalf("nil confirmer must decline")
	}

	if err := svc.ClearAllData(ctx, AlwaysConfirm); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if len(svc.Roles())+len(svc.Contacts())+len(svc.Activities()) != 0 {
		t.Fatalf("expected empty collections")
	}
	for _, key := range []string{domain.KeyRoles, domain.KeyContacts, domain.KeyActivities} {
		payload, err := medium.Read(ctx, key)
		if err != nil || string(payload) != "[]" {
			t.Fatalf("expected %s persisted as [], got %s err=%v", key, payload, err)
		}
	}
}

func TestRoundTripAcrossServiceInstances(t *testing.T) {
	medium := memory.NewStore()
	ctx := context.Background()
	first := newTestService(t, medium)
	role, _, _ := first.AddRole(ctx, domain.RoleDraft{Company: "Acme", Position: "Eng", DateApplied: "2026-01-31"})
	contact, _, _ := first.AddContact(ctx, domain.ContactDraft{Name: "Ana", Type: domain.ContactOther})
	first.UpdateRole(ctx, role.ID, domain.RolePatch{ContactID: &contact.ID})
	first.AddActivity(ctx, domain.ActivityDraft{RoleID: role.ID, ContactID: contact.ID, Type: domain.ActivityCall, Description: "Intro", Date: "2026-02-01"})
	first.DeleteContact(ctx, contact.ID)

	second := newTestService(t, medium)
	if !equalRoles(first.Roles(), second.Roles()) || len(second.Contacts()) != 0 || len(second.Activities()) != 1 {
		t.Fatalf("reopened service must reproduce last state")
	}
	if second.ContactLabel(second.Activities()[0].ContactID) != domain.NoContactLabel {
		t.Fatalf("expected dangling contact placeholder")
	}

	if err := medium.Write(ctx, domain.KeyRoles, []byte("corrupt")); err != nil {
		t.Fatalf("corrupt: %v", err)
	}
	second.Reload(ctx)
	if len(second.Roles()) != 0 || len(second.Activities()) != 1 {
		t.Fatalf("reload must recover corrupt key to empty and keep others")
	}
	if second.Driver() != memory.Driver || second.Close() != nil || second.PersistErr() != nil {
		t.Fatalf("unexpected driver/close/persist state")
	}
	if second.Now() != "2026-02-01T09:30:00.000Z" || second.Today() != "2026-02-01" {
		t.Fatalf("unexpected clock output")
	}
}

func TestPersistErrSurfacesWriteFailures(t *testing.T) {
	medium := testutil.NewFlakyMedium(memory.NewStore())
	svc := newTestService(t, medium)
	ctx := context.Background()
	medium.FailWrites(domain.KeyActivities, true)
	if _, _, err := svc.AddActivity(ctx, domain.ActivityDraft{Description: "x"}); err != nil {
		t.Fatalf("write failures are not returned from mutations: %v", err)
	}
	if len(svc.Activities()) != 1 {
		t.Fatalf("memory stays authoritative")
	}
	if !errors.Is(svc.PersistErr(), testutil.ErrInjected) {
		t.Fatalf("expected persist error, got %v", svc.PersistErr())
	}
	if err := svc.ClearAllData(ctx, AlwaysConfirm); !errors.Is(err, testutil.ErrInjected) {
		t.Fatalf("clear must report write failure, got %v", err)
	}
}

func TestErrorKind(t *testing.T) {
	cases := map[string]error{
		"":              nil,
		"validation":    &domain.ValidationError{Entity: domain.EntityRole, FieldErrors: map[string]string{"company": "is required"}},
		"not_confirmed": ErrNotConfirmed,
		"not_found":     ErrNotFound{Entity: domain.EntityRole, ID: "x"},
		"unexpected":    errors.New("boom"),
	}
	for want, err := range cases {
		if got := ErrorKind(err); got != want {
			t.Fatalf("ErrorKind(%v)=%q want %q", err, got, want)
		}
	}
	if ErrorKind(domain.ErrKeyNotFound) != "not_found" {
		t.Fatalf("expected medium not found to map to not_found")
	}
}

func TestNewServiceKeepsStoredDataOnReadFailure(t *testing.T) {
	inner := memory.NewStore()
	ctx := context.Background()
	if err := newTestService(t, inner).SeedSampleData(ctx); err != nil {
		t.Fatalf("seed: %v", err)
	}
	medium := testutil.NewFlakyMedium(inner)
	medium.FailReads(domain.KeyRoles, true)
	svc := newTestService(t, medium)
	if !errors.Is(svc.LoadErr(), testutil.ErrInjected) || len(svc.Roles()) != 0 {
		t.Fatalf("expected roles load error, got %v", svc.LoadErr())
	}
	if len(svc.Contacts()) != 3 {
		t.Fatalf("other collections must load normally")
	}

	medium.FailReads(domain.KeyRoles, false)
	svc.Reload(ctx)
	if svc.LoadErr() != nil || len(svc.Roles()) != 3 {
		t.Fatalf("stored roles must survive the failed open, got %d err=%v", len(svc.Roles()), svc.LoadErr())
	}
}

// gatedMedium blocks the first write of key until release is closed.
type gatedMedium struct {
	domain.Medium
	key     string
	once    sync.Once
	started chan struct{}
	release chan struct{}
}

func (g *gatedMedium) Write(ctx context.Context, key string, payload []byte) error {
	if key == g.key {
		g.once.Do(func() {
			close(g.started)
			<-g.release
		})
	}
	return g.Medium.Write(ctx, key, payload)
}

func TestMutationWaitsForSeed(t *testing.T) {
	ctx := context.Background()
	inner := memory.NewStore()
	svc := newTestService(t, inner)
	gate := &gatedMedium{Medium: inner, key: domain.KeyRoles, started: make(chan struct{}), release: make(chan struct{})}
	svc.medium = gate

	seeded := make(chan error, 1)
	go func() { seeded <- svc.SeedSampleData(ctx) }()
	<-gate.started

	added := make(chan error, 1)
	go func() {
		_, _, err := svc.AddContact(ctx, domain.ContactDraft{Name: "Late"})
		added <- err
	}()
	close(gate.release)
	if err := <-seeded; err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := <-added; err != nil {
		t.Fatalf("add: %v", err)
	}

	contacts := svc.Contacts()
	if len(contacts) != 4 || contacts[3].Name != "Late" {
		t.Fatalf("expected seeded contacts plus the late one, got %+v", contacts)
	}
	reopened := newTestService(t, inner)
	if len(reopened.Contacts()) != 4 {
		t.Fatalf("expected durable contacts to include the late add, got %d", len(reopened.Contacts()))
	}
}

func equalRoles(a, b []domain.Role) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
