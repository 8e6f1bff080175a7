package form

import "errors"

// Problem codes carried in service replies.
const (
	CodeValidation   = "validation"
	CodeAPI          = "api"
	CodeInProgress   = "in_progress"
	CodeClosed       = "closed"
	CodeNotFound     = "not_found"
	CodeInvalidState = "invalid_state"
	CodeUnknownField = "unknown_field"
	CodeInternal     = "internal"
)

// Problem is a form failure in a shape that survives a request-reply hop.
type Problem struct {
	Code       string `json:"code"`
	Field      string `json:"field,omitempty"`
	Message    string `json:"message"`
	StatusCode int    `json:"status_code,omitempty"`
}

// ProblemOf classifies err. It returns nil for a nil error.
func ProblemOf(err error) *Problem {
	if err == nil {
		return nil
	}

	var verr *ValidationError
	if errors.As(err, &verr) {
		return &Problem{Code: CodeValidation, Field: verr.Field, Message: verr.Message}
	}
	var aerr *APIError
	if errors.As(err, &aerr) {
		return &Problem{Code: CodeAPI, Message: aerr.Message, StatusCode: aerr.StatusCode}
	}

	p := &Problem{Message: err.Error()}
	switch {
	case errors.Is(err, ErrSubmissionInProgress):
		p.Code = CodeInProgress
	case errors.Is(err, ErrFormClosed):
		p.Code = CodeClosed
	case errors.Is(err, ErrFormNotFound):
		p.Code = CodeNotFound
	case errors.Is(err, ErrInvalidTransition):
		p.Code = CodeInvalidState
	case errors.Is(err, ErrUnknownField):
		p.Code = CodeUnknownField
	default:
		p.Code = CodeInternal
	}
	return p
}

// Err rebuilds an error matching the original classification.
func (p *Problem) Err() error {
	if p == nil {
		return nil
	}
	switch p.Code {
	case CodeValidation:
		return &ValidationError{Field: p.Field, Message: p.Message}
	case CodeAPI:
		return &APIError{StatusCode: p.StatusCode, Message: p.Message}
	case CodeInProgress:
		return ErrSubmissionInProgress
	case CodeClosed:
		return ErrFormClosed
	case CodeNotFound:
		return ErrFormNotFound
	case CodeInvalidState:
		return ErrInvalidTransition
	case CodeUnknownField:
		return ErrUnknownField
	default:
		return errors.New(p.Message)
	}
}
