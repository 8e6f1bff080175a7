package registration

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/example/project-forms/domain/user"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// SubmitResult is the caller's view of a successful submission.
type SubmitResult struct {
	Form      Snapshot
	Session   user.Session
	SessionID string
	Redirect  string
}

// RegistrationPort defines the registration form operations other modules use.
// Failures are the errors of the form package, rebuilt from the reply.
type RegistrationPort interface {
	Open(ctx context.Context) (*Snapshot, error)
	Get(ctx context.Context, id string) (*Snapshot, error)
	Edit(ctx context.Context, id, field, value string) (*Snapshot, error)
	Submit(ctx context.Context, id string) (*SubmitResult, error)
	Close(ctx context.Context, id string) error
}

// Compile-time interface check.
var _ RegistrationPort = (*RegistrationAdapter)(nil)

// RegistrationAdapter implements RegistrationPort using the service container.
type RegistrationAdapter struct {
	container mono.ServiceContainer
}

// NewRegistrationAdapter creates a new RegistrationAdapter.
func NewRegistrationAdapter(container mono.ServiceContainer) *RegistrationAdapter {
	return &RegistrationAdapter{
		container: container,
	}
}

// Open opens a new registration form.
func (a *RegistrationAdapter) Open(ctx context.Context) (*Snapshot, error) {
	var resp FormResponse
	if err := a.call(ctx, "open-registration", &OpenRequest{}, &resp); err != nil {
		return nil, err
	}
	return resp.Form, resp.Problem.Err()
}

// Get returns the current snapshot of form id.
func (a *RegistrationAdapter) Get(ctx context.Context, id string) (*Snapshot, error) {
	var resp FormResponse
	if err := a.call(ctx, "get-registration", &FormRequest{ID: id}, &resp); err != nil {
		return nil, err
	}
	if resp.Problem != nil {
		return nil, resp.Problem.Err()
	}
	return resp.Form, nil
}

// Edit sets field of form id to value.
func (a *RegistrationAdapter) Edit(ctx context.Context, id, field, value string) (*Snapshot, error) {
	var resp FormResponse
	req := EditRequest{ID: id, Field: field, Value: value}
	if err := a.call(ctx, "edit-registration", &req, &resp); err != nil {
		return nil, err
	}
	if resp.Problem != nil {
		return nil, resp.Problem.Err()
	}
	return resp.Form, nil
}

// Submit submits form id.
func (a *RegistrationAdapter) Submit(ctx context.Context, id string) (*SubmitResult, error) {
	var resp SubmitResponse
	if err := a.call(ctx, "submit-registration", &FormRequest{ID: id}, &resp); err != nil {
		return nil, err
	}
	if resp.Problem != nil {
		return nil, resp.Problem.Err()
	}

	result := &SubmitResult{
		SessionID: resp.SessionID,
		Redirect:  resp.Redirect,
	}
	if resp.Form != nil {
		result.Form = *resp.Form
	}
	if resp.Session != nil {
		result.Session = *resp.Session
	}
	return result, nil
}

// Close closes form id.
func (a *RegistrationAdapter) Close(ctx context.Context, id string) error {
	var resp CloseResponse
	if err := a.call(ctx, "close-registration", &FormRequest{ID: id}, &resp); err != nil {
		return err
	}
	return resp.Problem.Err()
}

func (a *RegistrationAdapter) call(ctx context.Context, service string, req, resp any) error {
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
