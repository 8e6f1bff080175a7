package taskform

import (
	"context"
	"sync"

	"github.com/example/project-forms/domain/form"
	"github.com/example/project-forms/domain/task"
)

// TaskCreator creates tasks on the backend.
type TaskCreator interface {
	CreateTask(ctx context.Context, projectID, token string, payload task.CreatePayload) (task.Task, error)
}

// Form is one open task creation form.
type Form struct {
	mu          sync.Mutex
	state       State
	created     *task.Task
	guard       form.Guard
	backend     TaskCreator
	token       string
	placeholder bool
}

// Options configure a Form.
type Options struct {
	// Token is forwarded to the backend as a bearer token.
	Token string
	// DependencyPlaceholder sends [""] when no dependency is selected.
	DependencyPlaceholder bool
}

// NewForm creates a form for projectID offering dependencies from available.
func NewForm(id, projectID string, available []task.Task, backend TaskCreator, opts Options) *Form {
	return &Form{
		state:       NewState(id, projectID, available),
		backend:     backend,
		token:       opts.Token,
		placeholder: opts.DependencyPlaceholder,
	}
}

// State returns a copy of the current state.
func (f *Form) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Created returns the task created by a successful submission, if any.
func (f *Form) Created() *task.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.created
}

// Apply applies a field action.
func (f *Form) Apply(a form.Action) (State, error) {
	if f.guard.Closed() {
		return State{}, form.ErrFormClosed
	}
	if !form.IsFieldAction(a) {
		return f.State(), form.ErrInvalidTransition
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	next, err := Reduce(f.state, a)
	if err != nil {
		return f.state, err
	}
	f.state = next
	return next, nil
}

// Submit validates the input and creates the task.
// The created task is returned for the caller to merge into its list; the
// caller then closes the form. On failure the form stays open with the error.
func (f *Form) Submit(ctx context.Context) (task.Task, error) {
	if err := f.guard.Acquire(); err != nil {
		return task.Task{}, err
	}
	defer f.guard.Release()

	projectID, payload, err := f.begin()
	if err != nil {
		return task.Task{}, err
	}

	created, err := f.backend.CreateTask(ctx, projectID, f.token, payload)

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.guard.Closed() {
		return task.Task{}, form.ErrFormClosed
	}
	if err != nil {
		f.state, _ = Reduce(f.state, form.Fail{Message: form.MessageOf(err, FallbackMessage)})
		return task.Task{}, err
	}
	f.state, _ = Reduce(f.state, form.Succeed{})
	f.created = &created
	return created, nil
}

// begin moves the form through validation and builds the payload to send.
func (f *Form) begin() (string, task.CreatePayload, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	validating, err := Reduce(f.state, form.Submit{})
	if err != nil {
		return "", task.CreatePayload{}, err
	}
	if verr := Validate(validating.Input); verr != nil {
		f.state, _ = Reduce(validating, form.Reject{Message: verr.Message})
		return "", task.CreatePayload{}, verr
	}
	f.state, _ = Reduce(validating, form.Accept{})
	return f.state.ProjectID, f.state.Input.Payload(f.placeholder), nil
}

// Close tears the form down. Outstanding submissions complete without effect.
func (f *Form) Close() {
	f.guard.Close()
}
