package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/project-forms/domain/user"
	"github.com/redis/go-redis/v9"
)

// Requires Redis running on localhost:6379; skipped otherwise.
const testRedisAddr = "localhost:6379"

func setupTestRedisStore(t *testing.T) *RedisStore {
	t.Helper()

	client := redis.NewClient(&redis.Options{
		Addr: testRedisAddr,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis not available at %s: %v", testRedisAddr, err)
	}

	store := NewRedisStore(client, "test:session:")
	t.Cleanup(func() {
		keys, _ := client.Keys(ctx, "test:session:*").Result()
		if len(keys) > 0 {
			client.Del(ctx, keys...)
		}
		client.Close()
	})
	return store
}

func TestRedisStore_SaveFindDelete(t *testing.T) {
	store := setupTestRedisStore(t)
	ctx := context.Background()

	record := &user.SessionRecord{
		ID:        "s1",
		UserID:    "u1",
		Username:  "alice",
		Token:     "t1",
		ExpiresAt: time.Now().Add(time.Minute),
	}
	if err := store.Save(ctx, record); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := store.Find(ctx, "s1")
	if err != nil {
		t.Fatalf("Find() error = %v", err)
	}
	if got.UserID != "u1" || got.Token != "t1" {
		t.Errorf("Find() = %+v, want user u1 with token t1", got)
	}

	if err := store.Delete(ctx, "s1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := store.Find(ctx, "s1"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Find() after Delete error = %v, want ErrSessionNotFound", err)
	}
}

func TestRedisStore_RejectsExpired(t *testing.T) {
	store := setupTestRedisStore(t)

	err := store.Save(context.Background(), &user.SessionRecord{
		ID:        "s2",
		UserID:    "u1",
		ExpiresAt: time.Now().Add(-time.Second),
	})
	if !errors.Is(err, ErrSessionExpired) {
		t.Errorf("Save() error = %v, want ErrSessionExpired", err)
	}
}
