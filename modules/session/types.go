package session

import (
	"time"

	"github.com/example/project-forms/domain/user"
)

// LoginRequest is the request for the login service.
type LoginRequest struct {
	Session user.Session `json:"session"`
}

// LoginResponse is the response from the login service.
type LoginResponse struct {
	SessionID string    `json:"session_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

// GetSessionRequest is the request for the get-session service.
type GetSessionRequest struct {
	ID string `json:"id"`
}

// GetSessionResponse is the response from the get-session service.
// The record's token is never included.
type GetSessionResponse struct {
	Found   bool               `json:"found"`
	Session user.SessionRecord `json:"session"`
}

// LogoutRequest is the request for the logout service.
type LogoutRequest struct {
	ID string `json:"id"`
}

// LogoutResponse is the response from the logout service.
type LogoutResponse struct {
	Removed bool `json:"removed"`
}
