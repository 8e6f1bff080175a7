// Package form holds the submission lifecycle shared by every form in the service.
//
// A form moves through a small phase machine:
//
//	idle --Submit--> validating --Reject--> idle (with error)
//	                            --Accept--> submitting --Succeed--> succeeded
//	                                                   --Fail-----> idle (with error)
//
// Status values are immutable; Advance returns the next value and never mutates its input.
package form

// Phase is the position of a form in its submission lifecycle.
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseValidating Phase = "validating"
	PhaseSubmitting Phase = "submitting"
	PhaseSucceeded  Phase = "succeeded"
)

// Status is the lifecycle part of a form's state.
type Status struct {
	Phase Phase  `json:"phase"`
	Error string `json:"error,omitempty"`
}

// NewStatus returns the initial status of a freshly opened form.
func NewStatus() Status {
	return Status{Phase: PhaseIdle}
}

// Busy reports whether a submission is in flight.
func (s Status) Busy() bool {
	return s.Phase == PhaseSubmitting
}

// Editable reports whether field edits are accepted.
func (s Status) Editable() bool {
	return s.Phase == PhaseIdle
}

// Done reports whether the form reached its terminal success phase.
func (s Status) Done() bool {
	return s.Phase == PhaseSucceeded
}

// Advance applies a lifecycle action to s.
// Field actions are not lifecycle actions and are rejected with ErrInvalidTransition.
func Advance(s Status, a Action) (Status, error) {
	switch act := a.(type) {
	case Submit:
		if s.Phase != PhaseIdle {
			return s, transitionError(s.Phase, a)
		}
		return Status{Phase: PhaseValidating}, nil
	case Reject:
		if s.Phase != PhaseValidating {
			return s, transitionError(s.Phase, a)
		}
		return Status{Phase: PhaseIdle, Error: act.Message}, nil
	case Accept:
		if s.Phase != PhaseValidating {
			return s, transitionError(s.Phase, a)
		}
		return Status{Phase: PhaseSubmitting}, nil
	case Succeed:
		if s.Phase != PhaseSubmitting {
			return s, transitionError(s.Phase, a)
		}
		return Status{Phase: PhaseSucceeded}, nil
	case Fail:
		if s.Phase != PhaseSubmitting {
			return s, transitionError(s.Phase, a)
		}
		return Status{Phase: PhaseIdle, Error: act.Message}, nil
	default:
		return s, transitionError(s.Phase, a)
	}
}
