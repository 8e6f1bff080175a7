package registration

import (
	"fmt"
	"unicode/utf8"

	"github.com/example/project-forms/domain/form"
	"github.com/example/project-forms/domain/user"
)

// FallbackMessage is shown when a registration fails without a server message.
const FallbackMessage = "Registration failed. Please try again."

// State is the complete state of one registration form.
type State struct {
	ID     string                 `json:"id"`
	Input  user.RegistrationInput `json:"input"`
	Status form.Status            `json:"status"`
}

// NewState returns the state of a freshly opened form.
func NewState(id string) State {
	return State{ID: id, Status: form.NewStatus()}
}

// Reduce applies a to s and returns the next state. It never mutates s.
func Reduce(s State, a form.Action) (State, error) {
	switch act := a.(type) {
	case form.EditField:
		if !s.Status.Editable() {
			return s, fmt.Errorf("%w: edit while %s", form.ErrInvalidTransition, s.Status.Phase)
		}
		next := s
		switch act.Field {
		case user.FieldUsername:
			next.Input.Username = act.Value
		case user.FieldEmail:
			next.Input.Email = act.Value
		case user.FieldPassword:
			next.Input.Password = act.Value
		case user.FieldConfirmPassword:
			next.Input.ConfirmPassword = act.Value
		default:
			return s, fmt.Errorf("%w: %q", form.ErrUnknownField, act.Field)
		}
		return next, nil
	case form.SetFlag:
		return s, fmt.Errorf("%w: %q", form.ErrUnknownField, act.Field)
	case form.SelectOptions:
		return s, fmt.Errorf("%w: %q", form.ErrUnknownField, act.Field)
	default:
		status, err := form.Advance(s.Status, a)
		if err != nil {
			return s, err
		}
		next := s
		next.Status = status
		return next, nil
	}
}

// Validate checks in against the registration rules, first failure wins.
func Validate(in user.RegistrationInput) *form.ValidationError {
	if in.Password != in.ConfirmPassword {
		return form.Invalid(user.FieldConfirmPassword, "Passwords do not match")
	}
	if utf8.RuneCountInString(in.Password) < user.MinPasswordLength {
		return form.Invalid(user.FieldPassword, "Password must be at least 6 characters")
	}
	if utf8.RuneCountInString(in.Username) < user.MinUsernameLength {
		return form.Invalid(user.FieldUsername, "Username must be at least 3 characters")
	}
	if utf8.RuneCountInString(in.Username) > user.MaxUsernameLength {
		return form.Invalid(user.FieldUsername, "Username must be at most 50 characters")
	}
	return nil
}
