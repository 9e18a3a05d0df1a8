package redis

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"

	"github.com/Memaso-max/schedule-sync-service/internal/repositories"
)

func newTestStore(t *testing.T) *KVStore {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewKVStore(client, "test:")
}

func TestKVStoreRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.Set(ctx, repositories.KeyLastUpdated, "2025-01-01T00:00:00Z"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, err := store.Get(ctx, repositories.KeyLastUpdated)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != "2025-01-01T00:00:00Z" {
		t.Errorf("Get returned %q", got)
	}
}

func TestKVStoreMissingKey(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Get(context.Background(), repositories.KeyUsers)
	if !errors.Is(err, repositories.ErrKeyNotFound) {
		t.Fatalf("expected ErrKeyNotFound, got %v", err)
	}
}

func TestKVStoreDelete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.Set(ctx, repositories.KeyCurrentUser, `{"id":"admin-1"}`); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := store.Delete(ctx, repositories.KeyCurrentUser); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Get(ctx, repositories.KeyCurrentUser); !errors.Is(err, repositories.ErrKeyNotFound) {
		t.Fatalf("expected ErrKeyNotFound after delete, got %v", err)
	}
}

func TestKVStoreStorageError(t *testing.T) {
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	store := NewKVStore(client, "")
	mr.Close()

	if err := store.Set(context.Background(), repositories.KeyUsers, "[]"); !errors.Is(err, repositories.ErrStorage) {
		t.Fatalf("expected ErrStorage when server is down, got %v", err)
	}
}
