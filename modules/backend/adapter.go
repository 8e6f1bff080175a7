package backend

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/example/project-forms/domain/form"
	"github.com/example/project-forms/domain/task"
	"github.com/example/project-forms/domain/user"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// BackendPort defines the backend operations the forms depend on.
// Failures are *form.APIError so the forms can surface the server message.
type BackendPort interface {
	Register(ctx context.Context, creds user.Credentials) (user.Session, error)
	CreateTask(ctx context.Context, projectID, token string, payload task.CreatePayload) (task.Task, error)
	ListTasks(ctx context.Context, projectID, token string) ([]task.Task, error)
}

// Compile-time interface checks.
var _ BackendPort = (*Client)(nil)
var _ BackendPort = (*BackendAdapter)(nil)

// BackendAdapter implements BackendPort using the service container.
type BackendAdapter struct {
	container mono.ServiceContainer
}

// NewBackendAdapter creates a new BackendAdapter.
func NewBackendAdapter(container mono.ServiceContainer) *BackendAdapter {
	return &BackendAdapter{
		container: container,
	}
}

// Register calls the register service.
func (a *BackendAdapter) Register(ctx context.Context, creds user.Credentials) (user.Session, error) {
	req := RegisterRequest{Credentials: creds}
	var resp RegisterResponse

	if err := a.call(ctx, "register", &req, &resp); err != nil {
		return user.Session{}, err
	}
	if resp.Failure != nil {
		return user.Session{}, resp.Failure.Err()
	}
	if resp.Session == nil {
		return user.Session{}, &form.APIError{Err: fmt.Errorf("register reply carried no session")}
	}
	return *resp.Session, nil
}

// CreateTask calls the create-task service.
func (a *BackendAdapter) CreateTask(ctx context.Context, projectID, token string, payload task.CreatePayload) (task.Task, error) {
	req := CreateTaskRequest{ProjectID: projectID, Token: token, Payload: payload}
	var resp CreateTaskResponse

	if err := a.call(ctx, "create-task", &req, &resp); err != nil {
		return task.Task{}, err
	}
	if resp.Failure != nil {
		return task.Task{}, resp.Failure.Err()
	}
	if resp.Task == nil {
		return task.Task{}, &form.APIError{Err: fmt.Errorf("create-task reply carried no task")}
	}
	return *resp.Task, nil
}

// ListTasks calls the list-tasks service.
func (a *BackendAdapter) ListTasks(ctx context.Context, projectID, token string) ([]task.Task, error) {
	req := ListTasksRequest{ProjectID: projectID, Token: token}
	var resp ListTasksResponse

	if err := a.call(ctx, "list-tasks", &req, &resp); err != nil {
		return nil, err
	}
	if resp.Failure != nil {
		return nil, resp.Failure.Err()
	}
	return resp.Tasks, nil
}

// call performs a request-reply round trip. Bus failures become an APIError
// without a message, so the forms fall back to their generic text.
func (a *BackendAdapter) call(ctx context.Context, service string, req, resp any) error {
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		service,
		json.Marshal,
		json.Unmarshal,
		req,
		resp,
	); err != nil {
		return &form.APIError{Err: fmt.Errorf("%s request failed: %w", service, err)}
	}
	return nil
}
