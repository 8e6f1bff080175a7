package registration

import (
	"github.com/example/project-forms/domain/form"
	"github.com/example/project-forms/domain/user"
)

// Snapshot is the client view of a registration form. Passwords are masked.
type Snapshot struct {
	ID       string                 `json:"id"`
	Input    user.RegistrationInput `json:"input"`
	Status   form.Status            `json:"status"`
	Busy     bool                   `json:"busy"`
	Redirect string                 `json:"redirect,omitempty"`
}

func snapshotOf(s State, redirect string) *Snapshot {
	return &Snapshot{
		ID:       s.ID,
		Input:    s.Input.Redacted(),
		Status:   s.Status,
		Busy:     s.Status.Busy(),
		Redirect: redirect,
	}
}

// OpenRequest is the request for the open-registration service.
type OpenRequest struct{}

// FormRequest addresses one open form.
type FormRequest struct {
	ID string `json:"id"`
}

// EditRequest is the request for the edit-registration service.
type EditRequest struct {
	ID    string `json:"id"`
	Field string `json:"field"`
	Value string `json:"value"`
}

// FormResponse carries a form snapshot or the problem that prevented the operation.
type FormResponse struct {
	Form    *Snapshot     `json:"form,omitempty"`
	Problem *form.Problem `json:"problem,omitempty"`
}

// SubmitResponse is the response from the submit-registration service.
type SubmitResponse struct {
	Form      *Snapshot     `json:"form,omitempty"`
	Session   *user.Session `json:"session,omitempty"`
	SessionID string        `json:"session_id,omitempty"`
	Redirect  string        `json:"redirect,omitempty"`
	Problem   *form.Problem `json:"problem,omitempty"`
}

// CloseResponse is the response from the close-registration service.
type CloseResponse struct {
	Closed  bool          `json:"closed"`
	Problem *form.Problem `json:"problem,omitempty"`
}
