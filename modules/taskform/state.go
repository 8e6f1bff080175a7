package taskform

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/example/project-forms/domain/form"
	"github.com/example/project-forms/domain/task"
)

// FallbackMessage is shown when task creation fails without a server message.
const FallbackMessage = "Failed to create task"

// State is the complete state of one task creation form.
type State struct {
	ID         string             `json:"id"`
	ProjectID  string             `json:"projectId"`
	Input      task.CreationInput `json:"input"`
	Candidates []task.Task        `json:"candidates"`
	Status     form.Status        `json:"status"`
}

// NewState returns the state of a freshly opened form for projectID.
// Only incomplete tasks among available become dependency candidates.
func NewState(id, projectID string, available []task.Task) State {
	return State{
		ID:         id,
		ProjectID:  projectID,
		Input:      task.NewCreationInput(),
		Candidates: task.DependencyCandidates(available),
		Status:     form.NewStatus(),
	}
}

// Reduce applies a to s and returns the next state. It never mutates s.
func Reduce(s State, a form.Action) (State, error) {
	if form.IsFieldAction(a) && !s.Status.Editable() {
		return s, fmt.Errorf("%w: edit while %s", form.ErrInvalidTransition, s.Status.Phase)
	}

	next := s
	switch act := a.(type) {
	case form.EditField:
		switch act.Field {
		case task.FieldTitle:
			next.Input.Title = act.Value
		case task.FieldDueDate:
			next.Input.DueDate = act.Value
		case task.FieldEstimatedHours:
			next.Input.EstimatedHours = act.Value
		default:
			return s, fmt.Errorf("%w: %q", form.ErrUnknownField, act.Field)
		}
	case form.SetFlag:
		if act.Field != task.FieldIsCompleted {
			return s, fmt.Errorf("%w: %q", form.ErrUnknownField, act.Field)
		}
		next.Input.IsCompleted = act.On
	case form.SelectOptions:
		if act.Field != task.FieldDependencies {
			return s, fmt.Errorf("%w: %q", form.ErrUnknownField, act.Field)
		}
		next.Input.Dependencies = task.SelectDependencies(s.Candidates, act.Values)
	default:
		status, err := form.Advance(s.Status, a)
		if err != nil {
			return s, err
		}
		next.Status = status
	}
	return next, nil
}

// Validate checks in against the task rules.
func Validate(in task.CreationInput) *form.ValidationError {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return form.Invalid(task.FieldTitle, "Title is required")
	}
	if utf8.RuneCountInString(title) > task.MaxTitleLength {
		return form.Invalid(task.FieldTitle, "Title must be at most 200 characters")
	}
	return nil
}
