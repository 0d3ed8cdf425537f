package session

import (
	"context"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

type memStore struct {
	values map[string]string
}

func newMemStore() *memStore {
	return &memStore{values: map[string]string{}}
}

func (s *memStore) Set(_ context.Context, key string, value any, _ time.Duration) error {
	s.values[key] = "1"
	_ = value
	return nil
}

func (s *memStore) Get(_ context.Context, key string) (string, error) {
	v, ok := s.values[key]
	if !ok {
		return "", goredis.Nil
	}
	return v, nil
}

func (s *memStore) Del(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(s.values, k)
	}
	return nil
}

type prefixKeyer struct{}

func (prefixKeyer) SessionKey(id string) string { return "test:session:" + id }

func TestManager_RegisterRevokeLifecycle(t *testing.T) {
	ctx := context.Background()
	mgr := NewManager(newMemStore(), prefixKeyer{}, time.Minute)

	id := NewSessionID()
	if id == "" {
		t.Fatal("expected a session id")
	}

	ok, err := mgr.HasSession(ctx, id)
	if err != nil {
		t.Fatalf("has session: %v", err)
	}
	if ok {
		t.Fatal("unregistered session should not be live")
	}

	if err := mgr.Register(ctx, id); err != nil {
		t.Fatalf("register: %v", err)
	}

	ok, err = mgr.HasSession(ctx, id)
	if err != nil {
		t.Fatalf("has session: %v", err)
	}
	if !ok {
		t.Fatal("registered session should be live")
	}

	if err := mgr.Revoke(ctx, id); err != nil {
		t.Fatalf("revoke: %v", err)
	}

	ok, err = mgr.HasSession(ctx, id)
	if err != nil {
		t.Fatalf("has session: %v", err)
	}
	if ok {
		t.Fatal("revoked session should not be live")
	}
}

func TestManager_EmptySessionID(t *testing.T) {
	ctx := context.Background()
	mgr := NewManager(newMemStore(), prefixKeyer{}, time.Minute)

	if err := mgr.Register(ctx, ""); err == nil {
		t.Fatal("expected error registering empty session id")
	}
	ok, err := mgr.HasSession(ctx, "")
	if err != nil || ok {
		t.Fatalf("empty session id should report not live, got ok=%v err=%v", ok, err)
	}
	if err := mgr.Revoke(ctx, ""); err != nil {
		t.Fatalf("revoking empty session id should be a no-op, got %v", err)
	}
}
