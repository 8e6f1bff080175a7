package session

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/example/project-forms/domain/user"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// SessionPort defines the session operations other modules use.
type SessionPort interface {
	Login(ctx context.Context, s user.Session) (string, error)
	Get(ctx context.Context, id string) (*user.SessionRecord, error)
	Logout(ctx context.Context, id string) error
}

// Compile-time interface check.
var _ SessionPort = (*SessionAdapter)(nil)

// SessionAdapter implements SessionPort using the service container.
type SessionAdapter struct {
	container mono.ServiceContainer
}

// NewSessionAdapter creates a new SessionAdapter.
func NewSessionAdapter(container mono.ServiceContainer) *SessionAdapter {
	return &SessionAdapter{
		container: container,
	}
}

// Login records s and returns the session ID.
func (a *SessionAdapter) Login(ctx context.Context, s user.Session) (string, error) {
	req := LoginRequest{Session: s}
	var resp LoginResponse

	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"login",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return "", fmt.Errorf("login request failed: %w", err)
	}

	return resp.SessionID, nil
}

// Get returns the session with id, without its token.
func (a *SessionAdapter) Get(ctx context.Context, id string) (*user.SessionRecord, error) {
	req := GetSessionRequest{ID: id}
	var resp GetSessionResponse

	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"get-session",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("get-session request failed: %w", err)
	}

	if !resp.Found {
		return nil, ErrSessionNotFound
	}
	return &resp.Session, nil
}

// Logout removes the session with id.
func (a *SessionAdapter) Logout(ctx context.Context, id string) error {
	req := LogoutRequest{ID: id}
	var resp LogoutResponse

	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"logout",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return fmt.Errorf("logout request failed: %w", err)
	}

	if !resp.Removed {
		return ErrSessionNotFound
	}
	return nil
}
