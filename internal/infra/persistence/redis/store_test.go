package redis

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"jobtracker/pkg/domain"

	goredis "github.com/redis/go-redis/v9"
)

func TestStoreAgainstLiveRedis(t *testing.T) {
	addr := os.Getenv("JOBTRACK_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("JOBTRACK_TEST_REDIS_ADDR not set")
	}
	ctx := context.Background()
	prefix := "jobtrack-test:" + time.Now().UTC().Format("150405.000000") + ":"
	store, err := NewStore(ctx, Options{Addr: addr, Prefix: prefix})
	if err != nil {
		t.Skipf("redis unavailable: %v", err)
	}
	t.Cleanup(func() {
		_ = store.client.Del(context.Background(), store.redisKey(domain.KeyRoles)).Err()
		_ = store.Close()
	})

	if _, err := store.Read(ctx, domain.KeyRoles); !errors.Is(err, domain.ErrKeyNotFound) {
		t.Fatalf("expected ErrKeyNotFound, got %v", err)
	}
	if err := store.Write(ctx, domain.KeyRoles, []byte(`[{"id":"r1"}]`)); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := store.Read(ctx, domain.KeyRoles)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(got) != `[{"id":"r1"}]` {
		t.Fatalf("unexpected payload %s", got)
	}
}

func TestStoreUnreachableServer(t *testing.T) {
	client := goredis.NewClient(&goredis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	store := NewStoreWithClient(client, "p:")
	t.Cleanup(func() { _ = store.Close() })
	ctx := context.Background()

	if store.Driver() != Driver || store.Prefix() != "p:" || store.redisKey("k") != "p:k" {
		t.Fatalf("unexpected store configuration")
	}
	if err := store.Write(ctx, domain.KeyRoles, []byte(`[]`)); err == nil {
		t.Fatalf("expected write error")
	}
	if _, err := store.Read(ctx, domain.KeyRoles); err == nil || errors.Is(err, domain.ErrKeyNotFound) {
		t.Fatalf("expected connection error distinct from not found, got %v", err)
	}
	if _, err := NewStore(ctx, Options{Addr: "127.0.0.1:1"}); err == nil {
		t.Fatalf("expected ping failure")
	}
}
