package session

import (
	"context"
	"errors"
	"time"

	"github.com/example/project-forms/domain/user"
)

var (
	// ErrSessionNotFound is returned when no live session has the requested ID.
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionExpired is returned when a session is already past its expiry at login.
	ErrSessionExpired = errors.New("session already expired")
	// ErrInvalidSession is returned when a session lacks a user ID or token.
	ErrInvalidSession = errors.New("session requires user id and token")
)

// Store persists session records.
type Store interface {
	Save(ctx context.Context, record *user.SessionRecord) error
	Find(ctx context.Context, id string) (*user.SessionRecord, error)
	Delete(ctx context.Context, id string) error
	Ping(ctx context.Context) error
	Close() error
}

// Purger is implemented by stores that keep expired records until told to remove them.
type Purger interface {
	Purge(ctx context.Context, now time.Time) (int64, error)
}
