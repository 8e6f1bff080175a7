package user

import "time"

// Field names accepted by the registration form.
const (
	FieldUsername        = "username"
	FieldEmail           = "email"
	FieldPassword        = "password"
	FieldConfirmPassword = "confirmPassword"
)

// Username length bounds, in characters.
const (
	MinUsernameLength = 3
	MaxUsernameLength = 50
	MinPasswordLength = 6
)

// RegistrationInput is the user-editable content of the registration form.
type RegistrationInput struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// Credentials is the body sent to the backend's register endpoint.
type Credentials struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Credentials drops the confirmation field.
func (in RegistrationInput) Credentials() Credentials {
	return Credentials{
		Username: in.Username,
		Email:    in.Email,
		Password: in.Password,
	}
}

// Redacted returns a copy with secrets blanked, for state snapshots sent to clients.
func (in RegistrationInput) Redacted() RegistrationInput {
	out := in
	if out.Password != "" {
		out.Password = "********"
	}
	if out.ConfirmPassword != "" {
		out.ConfirmPassword = "********"
	}
	return out
}

// Session is what a successful registration yields.
type Session struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Token    string `json:"token"`
}

// SessionRecord is a session as recorded by the session collaborator.
type SessionRecord struct {
	ID        string    `gorm:"primaryKey;type:text" json:"id"`
	UserID    string    `gorm:"index;not null;type:text" json:"userId"`
	Username  string    `gorm:"not null;type:text" json:"username"`
	Token     string    `gorm:"not null;type:text" json:"token,omitempty"`
	ExpiresAt time.Time `json:"expiresAt"`
	CreatedAt time.Time `json:"createdAt"`
}

// TableName returns the table name for the SessionRecord entity.
func (SessionRecord) TableName() string {
	return "sessions"
}

// Session returns the session carried by the record.
func (r SessionRecord) Session() Session {
	return Session{UserID: r.UserID, Username: r.Username, Token: r.Token}
}

// Expired reports whether the record is past its expiry at now.
func (r SessionRecord) Expired(now time.Time) bool {
	return !r.ExpiresAt.IsZero() && !now.Before(r.ExpiresAt)
}
