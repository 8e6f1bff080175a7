package form

import (
	"errors"
	"fmt"
)

// Sentinel errors for form operations.
var (
	// ErrSubmissionInProgress is returned when a submit arrives while another one is outstanding.
	ErrSubmissionInProgress = errors.New("submission already in progress")

	// ErrFormClosed is returned for operations on a form that has been closed.
	ErrFormClosed = errors.New("form is closed")

	// ErrFormNotFound is returned when no open form has the requested ID.
	ErrFormNotFound = errors.New("form not found")

	// ErrInvalidTransition is returned when an action does not apply to the current phase.
	ErrInvalidTransition = errors.New("invalid form transition")

	// ErrUnknownField is returned when an edit names a field the form does not have.
	ErrUnknownField = errors.New("unknown form field")
)

// ValidationError is a locally detected input-constraint violation.
// It never reaches the network.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Invalid builds a ValidationError for field.
func Invalid(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// APIError is a failure raised by a remote call.
// Message carries the server-supplied text and may be empty.
type APIError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *APIError) Error() string {
	switch {
	case e.Message != "":
		return fmt.Sprintf("api error (status %d): %s", e.StatusCode, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("api error (status %d): %v", e.StatusCode, e.Err)
	default:
		return fmt.Sprintf("api error (status %d)", e.StatusCode)
	}
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// MessageOf returns the text a user should see for err.
// Validation errors show their own message, API errors show the server message when present,
// and everything else shows fallback.
func MessageOf(err error, fallback string) string {
	var verr *ValidationError
	if errors.As(err, &verr) && verr.Message != "" {
		return verr.Message
	}
	var aerr *APIError
	if errors.As(err, &aerr) && aerr.Message != "" {
		return aerr.Message
	}
	return fallback
}

func transitionError(from Phase, a Action) error {
	name := "<nil>"
	if a != nil {
		name = a.actionName()
	}
	return fmt.Errorf("%w: %s from %s", ErrInvalidTransition, name, from)
}
