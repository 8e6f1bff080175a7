package api

import (
	"github.com/example/project-forms/domain/task"
	"github.com/example/project-forms/domain/user"
	"github.com/example/project-forms/modules/activity"
	"github.com/example/project-forms/modules/registration"
	"github.com/example/project-forms/modules/taskform"
)

// EditRegistrationRequest represents a change to one registration field.
type EditRegistrationRequest struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

// EditTaskRequest represents a change to one task form field.
// Text fields use value, isCompleted uses checked and dependencies use values.
type EditTaskRequest struct {
	Field   string   `json:"field"`
	Value   *string  `json:"value,omitempty"`
	Checked *bool    `json:"checked,omitempty"`
	Values  []string `json:"values,omitempty"`
}

// RegistrationResponse wraps a registration form snapshot.
type RegistrationResponse struct {
	Form *registration.Snapshot `json:"form"`
}

// RegistrationSubmitResponse represents a successful registration.
type RegistrationSubmitResponse struct {
	Form      registration.Snapshot `json:"form"`
	Session   user.Session          `json:"session"`
	SessionID string                `json:"sessionId,omitempty"`
	Redirect  string                `json:"redirect"`
}

// TaskFormResponse wraps a task form snapshot.
type TaskFormResponse struct {
	Form *taskform.Snapshot `json:"form"`
}

// TaskSubmitResponse represents a created task.
type TaskSubmitResponse struct {
	Task *task.Task `json:"task"`
}

// SessionResponse represents a recorded session. The token is never included.
type SessionResponse struct {
	Session *user.SessionRecord `json:"session"`
}

// ActivityResponse represents the activity log.
type ActivityResponse struct {
	Entries []activity.Entry `json:"entries"`
	Total   int              `json:"total"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}
