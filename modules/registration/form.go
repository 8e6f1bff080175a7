package registration

import (
	"context"
	"sync"

	"github.com/example/project-forms/domain/form"
	"github.com/example/project-forms/domain/user"
)

// Registrar creates accounts on the backend.
type Registrar interface {
	Register(ctx context.Context, creds user.Credentials) (user.Session, error)
}

// Outcome is the result of a successful submission.
type Outcome struct {
	Session  user.Session
	Redirect string
}

// Form is one open registration form.
type Form struct {
	mu       sync.Mutex
	state    State
	guard    form.Guard
	backend  Registrar
	redirect string
}

// NewForm creates a form that registers through backend and redirects to redirect on success.
func NewForm(id string, backend Registrar, redirect string) *Form {
	return &Form{
		state:    NewState(id),
		backend:  backend,
		redirect: redirect,
	}
}

// State returns a copy of the current state.
func (f *Form) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
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

// Submit validates the input and registers it with the backend.
// Only one submission runs at a time; a concurrent call fails with
// form.ErrSubmissionInProgress without touching the network. If the form is
// closed while the call is outstanding the result is discarded and
// form.ErrFormClosed is returned.
func (f *Form) Submit(ctx context.Context) (Outcome, error) {
	if err := f.guard.Acquire(); err != nil {
		return Outcome{}, err
	}
	defer f.guard.Release()

	input, err := f.begin()
	if err != nil {
		return Outcome{}, err
	}

	session, err := f.backend.Register(ctx, input.Credentials())

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.guard.Closed() {
		return Outcome{}, form.ErrFormClosed
	}
	if err != nil {
		f.state, _ = Reduce(f.state, form.Fail{Message: form.MessageOf(err, FallbackMessage)})
		return Outcome{}, err
	}
	f.state, _ = Reduce(f.state, form.Succeed{})
	return Outcome{Session: session, Redirect: f.redirect}, nil
}

// begin moves the form through validation and returns the input to send.
func (f *Form) begin() (user.RegistrationInput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	validating, err := Reduce(f.state, form.Submit{})
	if err != nil {
		return user.RegistrationInput{}, err
	}
	if verr := Validate(validating.Input); verr != nil {
		f.state, _ = Reduce(validating, form.Reject{Message: verr.Message})
		return user.RegistrationInput{}, verr
	}
	f.state, _ = Reduce(validating, form.Accept{})
	return f.state.Input, nil
}

// Close tears the form down. Outstanding submissions complete without effect.
func (f *Form) Close() {
	f.guard.Close()

	f.mu.Lock()
	defer f.mu.Unlock()
	f.state.Input = user.RegistrationInput{}
}

// Closed reports whether the form was closed.
func (f *Form) Closed() bool {
	return f.guard.Closed()
}
