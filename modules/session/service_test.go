package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/project-forms/domain/user"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestService(t *testing.T, ttl time.Duration) *Service {
	t.Helper()

	store, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return NewService(store, ttl)
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "u1",
		"exp": exp.Unix(),
	})
	s, err := token.SignedString([]byte("backend-secret"))
	require.NoError(t, err)
	return s
}

func TestTokenExpiry(t *testing.T) {
	exp := time.Now().Add(2 * time.Hour).Truncate(time.Second)

	got, ok := TokenExpiry(signedToken(t, exp))
	require.True(t, ok)
	assert.True(t, got.Equal(exp), "expiry = %v, want %v", got, exp)

	_, ok = TokenExpiry("t1")
	assert.False(t, ok, "opaque token should carry no expiry")

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "u1"}).
		SignedString([]byte("k"))
	require.NoError(t, err)
	_, ok = TokenExpiry(noExp)
	assert.False(t, ok, "token without exp should carry no expiry")
}

func TestService_Login_OpaqueToken(t *testing.T) {
	svc := setupTestService(t, time.Hour)
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	svc.now = func() time.Time { return now }

	record, err := svc.Login(context.Background(), user.Session{UserID: "u1", Username: "alice", Token: "t1"})

	require.NoError(t, err)
	assert.NotEmpty(t, record.ID)
	assert.Equal(t, "u1", record.UserID)
	assert.Equal(t, "alice", record.Username)
	assert.True(t, record.ExpiresAt.Equal(now.Add(time.Hour)))
}

func TestService_Login_JWTExpiry(t *testing.T) {
	svc := setupTestService(t, time.Hour)
	exp := time.Now().Add(15 * time.Minute).Truncate(time.Second)

	record, err := svc.Login(context.Background(), user.Session{UserID: "u1", Token: signedToken(t, exp)})

	require.NoError(t, err)
	assert.True(t, record.ExpiresAt.Equal(exp), "expiry = %v, want %v", record.ExpiresAt, exp)
}

func TestService_Login_Rejects(t *testing.T) {
	svc := setupTestService(t, time.Hour)
	ctx := context.Background()

	_, err := svc.Login(ctx, user.Session{UserID: "u1"})
	assert.True(t, errors.Is(err, ErrInvalidSession))

	_, err = svc.Login(ctx, user.Session{Token: "t1"})
	assert.True(t, errors.Is(err, ErrInvalidSession))

	_, err = svc.Login(ctx, user.Session{UserID: "u1", Token: signedToken(t, time.Now().Add(-time.Minute))})
	assert.True(t, errors.Is(err, ErrSessionExpired))
}

func TestService_GetAndLogout(t *testing.T) {
	svc := setupTestService(t, time.Hour)
	ctx := context.Background()

	record, err := svc.Login(ctx, user.Session{UserID: "u1", Username: "alice", Token: "t1"})
	require.NoError(t, err)

	got, err := svc.Get(ctx, record.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Session{UserID: "u1", Username: "alice", Token: "t1"}, got.Session())

	require.NoError(t, svc.Logout(ctx, record.ID))

	_, err = svc.Get(ctx, record.ID)
	assert.True(t, errors.Is(err, ErrSessionNotFound))
	assert.True(t, errors.Is(svc.Logout(ctx, record.ID), ErrSessionNotFound))
}

func TestGormStore_ExpiredRecordIsNotFound(t *testing.T) {
	store, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	defer store.Close()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, &user.SessionRecord{
		ID:        "s1",
		UserID:    "u1",
		Username:  "alice",
		Token:     "t1",
		ExpiresAt: time.Now().Add(-time.Second),
	}))

	_, err = store.Find(ctx, "s1")
	assert.True(t, errors.Is(err, ErrSessionNotFound))
	assert.True(t, errors.Is(store.Delete(ctx, "s1"), ErrSessionNotFound), "expired record should be purged on read")
}

func TestGormStore_Purge(t *testing.T) {
	store, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	defer store.Close()
	ctx := context.Background()
	now := time.Now()

	for id, expiresAt := range map[string]time.Time{
		"old":   now.Add(-48 * time.Hour),
		"stale": now.Add(-time.Minute),
		"live":  now.Add(time.Hour),
		"open":  {},
	} {
		require.NoError(t, store.Save(ctx, &user.SessionRecord{
			ID:        id,
			UserID:    "u1",
			Username:  "alice",
			Token:     "t-" + id,
			ExpiresAt: expiresAt,
		}))
	}

	removed, err := store.Purge(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)

	live, err := store.Find(ctx, "live")
	require.NoError(t, err)
	assert.Equal(t, "t-live", live.Token)
	_, err = store.Find(ctx, "open")
	assert.NoError(t, err, "records without expiry are kept")
	assert.True(t, errors.Is(store.Delete(ctx, "old"), ErrSessionNotFound))

	removed, err = store.Purge(ctx, now)
	require.NoError(t, err)
	assert.Zero(t, removed)
}
