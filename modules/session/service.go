package session

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/example/project-forms/domain/user"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Service records sessions handed over by successful registrations.
type Service struct {
	store Store
	ttl   time.Duration
	now   func() time.Time
}

// NewService creates a new Service. ttl applies to tokens without an expiry claim.
func NewService(store Store, ttl time.Duration) *Service {
	return &Service{
		store: store,
		ttl:   ttl,
		now:   time.Now,
	}
}

// Login records s and returns the stored record.
func (svc *Service) Login(ctx context.Context, s user.Session) (*user.SessionRecord, error) {
	if s.UserID == "" || s.Token == "" {
		return nil, ErrInvalidSession
	}

	now := svc.now()
	expiresAt, ok := TokenExpiry(s.Token)
	if !ok {
		expiresAt = now.Add(svc.ttl)
	}
	if !expiresAt.After(now) {
		return nil, ErrSessionExpired
	}

	record := &user.SessionRecord{
		ID:        uuid.NewString(),
		UserID:    s.UserID,
		Username:  s.Username,
		Token:     s.Token,
		ExpiresAt: expiresAt,
		CreatedAt: now,
	}
	if err := svc.store.Save(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to record session: %w", err)
	}

	log.Printf("[session] Recorded session %s for user %s (expires %s)", record.ID, record.UserID, expiresAt.Format(time.RFC3339))
	return record, nil
}

// Get returns the live session with id.
func (svc *Service) Get(ctx context.Context, id string) (*user.SessionRecord, error) {
	return svc.store.Find(ctx, id)
}

// Logout removes the session with id.
func (svc *Service) Logout(ctx context.Context, id string) error {
	if err := svc.store.Delete(ctx, id); err != nil {
		return err
	}
	log.Printf("[session] Removed session %s", id)
	return nil
}

// TokenExpiry reads the exp claim of a JWT without verifying its signature.
// The backend owns the signing key; the claim only bounds how long the session is kept.
// Opaque tokens report false.
func TokenExpiry(token string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
