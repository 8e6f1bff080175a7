package taskform

import (
	"fmt"

	"github.com/example/project-forms/domain/form"
	"github.com/example/project-forms/domain/task"
)

// Snapshot is the client view of a task creation form.
type Snapshot struct {
	ID         string             `json:"id"`
	ProjectID  string             `json:"projectId"`
	Input      task.CreationInput `json:"input"`
	Candidates []task.Task        `json:"candidates"`
	Status     form.Status        `json:"status"`
	Busy       bool               `json:"busy"`
	Created    *task.Task         `json:"created,omitempty"`
}

func snapshotOf(f *Form) *Snapshot {
	s := f.State()
	return &Snapshot{
		ID:         s.ID,
		ProjectID:  s.ProjectID,
		Input:      s.Input,
		Candidates: s.Candidates,
		Status:     s.Status,
		Busy:       s.Status.Busy(),
		Created:    f.Created(),
	}
}

// OpenRequest is the request for the open-task-form service.
// When Tasks is nil the project's tasks are loaded from the backend.
type OpenRequest struct {
	ProjectID string      `json:"project_id"`
	Token     string      `json:"token,omitempty"`
	Tasks     []task.Task `json:"tasks,omitempty"`
}

// FormRequest addresses one open form.
type FormRequest struct {
	ID string `json:"id"`
}

// EditRequest is the request for the edit-task-form service.
// Text fields use Value, isCompleted uses Checked and dependencies use Values.
type EditRequest struct {
	ID      string   `json:"id"`
	Field   string   `json:"field"`
	Value   *string  `json:"value,omitempty"`
	Checked *bool    `json:"checked,omitempty"`
	Values  []string `json:"values,omitempty"`
}

// Action converts the request into a form action.
func (r EditRequest) Action() (form.Action, error) {
	switch r.Field {
	case task.FieldIsCompleted:
		if r.Checked == nil {
			return nil, form.Invalid(r.Field, "checked is required")
		}
		return form.SetFlag{Field: r.Field, On: *r.Checked}, nil
	case task.FieldDependencies:
		values := r.Values
		if values == nil {
			values = []string{}
		}
		return form.SelectOptions{Field: r.Field, Values: values}, nil
	case task.FieldTitle, task.FieldDueDate, task.FieldEstimatedHours:
		if r.Value == nil {
			return nil, form.Invalid(r.Field, "value is required")
		}
		return form.EditField{Field: r.Field, Value: *r.Value}, nil
	default:
		return nil, fmt.Errorf("%w: %q", form.ErrUnknownField, r.Field)
	}
}

// FormResponse carries a form snapshot or the problem that prevented the operation.
type FormResponse struct {
	Form    *Snapshot     `json:"form,omitempty"`
	Problem *form.Problem `json:"problem,omitempty"`
}

// SubmitResponse is the response from the submit-task-form service.
type SubmitResponse struct {
	Form    *Snapshot     `json:"form,omitempty"`
	Task    *task.Task    `json:"task,omitempty"`
	Problem *form.Problem `json:"problem,omitempty"`
}

// CloseResponse is the response from the close-task-form service.
type CloseResponse struct {
	Closed  bool          `json:"closed"`
	Problem *form.Problem `json:"problem,omitempty"`
}
