package s3

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"jobtracker/internal/blob/core"
)

func TestMockStoreRoundTrip(t *testing.T) {
	s := NewMockForTests()
	ctx := context.Background()
	if s.Driver() != core.DriverS3 || s.Bucket() != MockBucket {
		t.Fatalf("unexpected driver/bucket")
	}
	if _, _, err := s.Get(ctx, "jobtracker/m_roles.json"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound from Get, got %v", err)
	}
	if _, err := s.Head(ctx, "jobtracker/m_roles.json"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound from Head, got %v", err)
	}
	opts := core.PutOptions{ContentType: "application/json", Metadata: map[string]string{"collection": "m_roles"}}
	if _, err := s.Put(ctx, "jobtracker/m_roles.json", strings.NewReader(`[]`), opts); err != nil {
		t.Fatalf("put: %v", err)
	}
	info, err := s.Put(ctx, "jobtracker/m_roles.json", strings.NewReader(`[{"id":"r1"}]`), opts)
	if err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	if info.ContentType != "application/json" || info.Metadata["collection"] != "m_roles" {
		t.Fatalf("unexpected info %+v", info)
	}
	_, rc, err := s.Get(ctx, "jobtracker/m_roles.json")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	body, _ := io.ReadAll(rc)
	_ = rc.Close()
	if string(body) != `[{"id":"r1"}]` {
		t.Fatalf("expected overwritten body, got %s", body)
	}
	list, err := s.List(ctx, "jobtracker/")
	if err != nil || len(list) != 1 || list[0].Key != "jobtracker/m_roles.json" {
		t.Fatalf("unexpected list %+v err=%v", list, err)
	}
	if ok, err := s.Delete(ctx, "jobtracker/m_roles.json"); !ok || err != nil {
		t.Fatalf("delete: %v %v", ok, err)
	}
	if ok, err := s.Delete(ctx, "jobtracker/m_roles.json"); ok || err != nil {
		t.Fatalf("expected (false, nil) for missing key, got %v %v", ok, err)
	}
}

func TestNewRequiresBucket(t *testing.T) {
	if _, err := New(context.Background(), Config{}); err == nil {
		t.Fatalf("expected bucket error")
	}
	s, err := New(context.Background(), Config{Bucket: "b", Endpoint: "http://localhost:9000", PathStyle: true, AccessKeyID: "id", SecretAccessKey: "secret"})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if s.Bucket() != "b" {
		t.Fatalf("unexpected bucket %s", s.Bucket())
	}
}

func TestDecodeChunkedLite(t *testing.T) {
	if got, ok := decodeChunkedLite([]byte("2\r\n[]\r\n0\r\n\r\n")); !ok || string(got) != "[]" {
		t.Fatalf("expected decoded chunk, got %q %v", got, ok)
	}
	for _, in := range []string{"[]", "zz\r\n[]\r\n0", "5\r\n[]\r\n0"} {
		if _, ok := decodeChunkedLite([]byte(in)); ok {
			t.Fatalf("expected %q to be left as-is", in)
		}
	}
}
