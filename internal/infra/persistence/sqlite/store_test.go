package sqlite

import (
	"context"
	"errors"
	"go/build"
	"path/filepath"
	"strings"
	"testing"

	"jobtracker/pkg/domain"
)

func TestSQLiteStorePersistAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.db")
	store, err := NewStore(path)
	if err != nil {
		t.Skipf("sqlite unavailable: %v", err)
	}
	ctx := context.Background()
	if _, err := store.Read(ctx, domain.KeyRoles); !errors.Is(err, domain.ErrKeyNotFound) {
		t.Fatalf("expected ErrKeyNotFound, got %v", err)
	}
	if err := store.Write(ctx, domain.KeyRoles, []byte(`[]`)); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := store.Write(ctx, domain.KeyRoles, []byte(`[{"id":"r1"}]`)); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reloaded, err := NewStore(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	t.Cleanup(func() { _ = reloaded.Close() })
	got, err := reloaded.Read(ctx, domain.KeyRoles)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(got) != `[{"id":"r1"}]` {
		t.Fatalf("unexpected payload %s", got)
	}
	var rows int
	if err := reloaded.DB().QueryRow(`SELECT COUNT(*) FROM state`).Scan(&rows); err != nil {
		t.Fatalf("count: %v", err)
	}
	if rows != 1 {
		t.Fatalf("expected a single row per key, got %d", rows)
	}
	if reloaded.Path() != path || reloaded.Driver() != Driver {
		t.Fatalf("unexpected path/driver %s %s", reloaded.Path(), reloaded.Driver())
	}
}

func TestSQLiteStoreClosedDBErrors(t *testing.T) {
	store, err := NewStore(filepath.Join(t.TempDir(), "closed.db"))
	if err != nil {
		t.Skipf("sqlite unavailable: %v", err)
	}
	_ = store.Close()
	ctx := context.Background()
	if err := store.Write(ctx, domain.KeyContacts, []byte(`[]`)); err == nil {
		t.Fatalf("expected write error on closed db")
	}
	if _, err := store.Read(ctx, domain.KeyContacts); err == nil || errors.Is(err, domain.ErrKeyNotFound) {
		t.Fatalf("expected read error distinct from not found, got %v", err)
	}
}

func TestImportsAreDomainOrStdlib(t *testing.T) {
	pkg, err := build.Default.ImportDir(".", 0)
	if err != nil {
		t.Fatalf("import dir: %v", err)
	}
	for _, imp := range pkg.Imports {
		if !strings.HasPrefix(imp, "jobtracker/") {
			continue
		}
		if imp != "jobtracker/pkg/domain" {
			t.Fatalf("unexpected dependency: %s", imp)
		}
	}
}
