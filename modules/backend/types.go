package backend

import (
	"errors"

	"github.com/example/project-forms/domain/form"
	"github.com/example/project-forms/domain/task"
	"github.com/example/project-forms/domain/user"
)

// Failure describes a failed backend call inside a reply.
// Status is zero when the backend was never reached.
type Failure struct {
	Status  int    `json:"status"`
	Message string `json:"message,omitempty"`
}

// Err converts the failure back into the error the forms understand.
func (f *Failure) Err() error {
	if f == nil {
		return nil
	}
	return &form.APIError{StatusCode: f.Status, Message: f.Message}
}

// failureOf captures err for transport inside a reply.
func failureOf(err error) *Failure {
	if err == nil {
		return nil
	}
	var apiErr *form.APIError
	if errors.As(err, &apiErr) {
		return &Failure{Status: apiErr.StatusCode, Message: apiErr.Message}
	}
	return &Failure{}
}

// RegisterRequest is the request for the register service.
type RegisterRequest struct {
	Credentials user.Credentials `json:"credentials"`
}

// RegisterResponse is the response from the register service.
type RegisterResponse struct {
	Session *user.Session `json:"session,omitempty"`
	Failure *Failure      `json:"failure,omitempty"`
}

// CreateTaskRequest is the request for the create-task service.
type CreateTaskRequest struct {
	ProjectID string             `json:"project_id"`
	Token     string             `json:"token,omitempty"`
	Payload   task.CreatePayload `json:"payload"`
}

// CreateTaskResponse is the response from the create-task service.
type CreateTaskResponse struct {
	Task    *task.Task `json:"task,omitempty"`
	Failure *Failure   `json:"failure,omitempty"`
}

// ListTasksRequest is the request for the list-tasks service.
type ListTasksRequest struct {
	ProjectID string `json:"project_id"`
	Token     string `json:"token,omitempty"`
}

// ListTasksResponse is the response from the list-tasks service.
type ListTasksResponse struct {
	Tasks   []task.Task `json:"tasks"`
	Failure *Failure    `json:"failure,omitempty"`
}
