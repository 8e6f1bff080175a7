package taskform

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/example/project-forms/domain/task"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// TaskFormPort defines the task form operations other modules use.
type TaskFormPort interface {
	Open(ctx context.Context, projectID, token string) (*Snapshot, error)
	Get(ctx context.Context, id string) (*Snapshot, error)
	Edit(ctx context.Context, req EditRequest) (*Snapshot, error)
	Submit(ctx context.Context, id string) (*task.Task, error)
	Close(ctx context.Context, id string) error
}

// Compile-time interface check.
var _ TaskFormPort = (*TaskFormAdapter)(nil)

// TaskFormAdapter implements TaskFormPort using the service container.
type TaskFormAdapter struct {
	container mono.ServiceContainer
}

// NewTaskFormAdapter creates a new TaskFormAdapter.
func NewTaskFormAdapter(container mono.ServiceContainer) *TaskFormAdapter {
	return &TaskFormAdapter{
		container: container,
	}
}

// Open opens a task creation form for projectID.
func (a *TaskFormAdapter) Open(ctx context.Context, projectID, token string) (*Snapshot, error) {
	var resp FormResponse
	req := OpenRequest{ProjectID: projectID, Token: token}
	if err := a.call(ctx, "open-task-form", &req, &resp); err != nil {
		return nil, err
	}
	if resp.Problem != nil {
		return nil, resp.Problem.Err()
	}
	return resp.Form, nil
}

// Get returns the current snapshot of form id.
func (a *TaskFormAdapter) Get(ctx context.Context, id string) (*Snapshot, error) {
	var resp FormResponse
	if err := a.call(ctx, "get-task-form", &FormRequest{ID: id}, &resp); err != nil {
		return nil, err
	}
	if resp.Problem != nil {
		return nil, resp.Problem.Err()
	}
	return resp.Form, nil
}

// Edit applies one field change.
func (a *TaskFormAdapter) Edit(ctx context.Context, req EditRequest) (*Snapshot, error) {
	var resp FormResponse
	if err := a.call(ctx, "edit-task-form", &req, &resp); err != nil {
		return nil, err
	}
	if resp.Problem != nil {
		return nil, resp.Problem.Err()
	}
	return resp.Form, nil
}

// Submit submits form id and returns the created task.
func (a *TaskFormAdapter) Submit(ctx context.Context, id string) (*task.Task, error) {
	var resp SubmitResponse
	if err := a.call(ctx, "submit-task-form", &FormRequest{ID: id}, &resp); err != nil {
		return nil, err
	}
	if resp.Problem != nil {
		return nil, resp.Problem.Err()
	}
	return resp.Task, nil
}

// Close closes form id.
func (a *TaskFormAdapter) Close(ctx context.Context, id string) error {
	var resp CloseResponse
	if err := a.call(ctx, "close-task-form", &FormRequest{ID: id}, &resp); err != nil {
		return err
	}
	return resp.Problem.Err()
}

func (a *TaskFormAdapter) call(ctx context.Context, service string, req, resp any) error {
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		service,
		json.Marshal,
		json.Unmarshal,
		req,
		resp,
	); err != nil {
		return fmt.Errorf("%s request failed: %w", service, err)
	}
	return nil
}
