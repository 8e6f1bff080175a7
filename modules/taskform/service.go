package taskform

import (
	"context"
	"log"
	"time"

	"github.com/example/project-forms/domain/form"
	"github.com/example/project-forms/events"
	"github.com/go-monolith/mono"
)

// openForm handles the open-task-form service request.
func (m *TaskFormModule) openForm(ctx context.Context, req OpenRequest, _ *mono.Msg) (FormResponse, error) {
	if req.ProjectID == "" {
		return FormResponse{Problem: form.ProblemOf(form.Invalid("projectId", "Project is required"))}, nil
	}

	available := req.Tasks
	if available == nil {
		tasks, err := m.backendPort.ListTasks(ctx, req.ProjectID, req.Token)
		if err != nil {
			log.Printf("[taskform] Failed to load tasks for project %s: %v", req.ProjectID, err)
			return FormResponse{Problem: form.ProblemOf(err)}, nil
		}
		available = tasks
	}

	id, f := m.forms.Open(func(id string) *Form {
		return NewForm(id, req.ProjectID, available, m.backendPort, Options{
			Token:                 req.Token,
			DependencyPlaceholder: m.placeholder,
		})
	})
	log.Printf("[taskform] Opened form %s for project %s (%d dependency candidates)", id, req.ProjectID, len(f.State().Candidates))
	return FormResponse{Form: snapshotOf(f)}, nil
}

// editForm handles the edit-task-form service request.
func (m *TaskFormModule) editForm(_ context.Context, req EditRequest, _ *mono.Msg) (FormResponse, error) {
	f, err := m.forms.Get(req.ID)
	if err != nil {
		return FormResponse{Problem: form.ProblemOf(err)}, nil
	}

	action, err := req.Action()
	if err != nil {
		return FormResponse{Problem: form.ProblemOf(err)}, nil
	}
	if _, err := f.Apply(action); err != nil {
		return FormResponse{Problem: form.ProblemOf(err)}, nil
	}
	return FormResponse{Form: snapshotOf(f)}, nil
}

// getForm handles the get-task-form service request.
func (m *TaskFormModule) getForm(_ context.Context, req FormRequest, _ *mono.Msg) (FormResponse, error) {
	f, err := m.forms.Get(req.ID)
	if err != nil {
		return FormResponse{Problem: form.ProblemOf(err)}, nil
	}
	return FormResponse{Form: snapshotOf(f)}, nil
}

// submitForm handles the submit-task-form service request.
func (m *TaskFormModule) submitForm(ctx context.Context, req FormRequest, _ *mono.Msg) (SubmitResponse, error) {
	f, err := m.forms.Get(req.ID)
	if err != nil {
		return SubmitResponse{Problem: form.ProblemOf(err)}, nil
	}

	created, err := f.Submit(ctx)
	if err != nil {
		log.Printf("[taskform] Form %s submit failed: %v", req.ID, err)
		return SubmitResponse{Form: snapshotOf(f), Problem: form.ProblemOf(err)}, nil
	}

	if m.eventBus != nil {
		event := events.TaskCreatedEvent{
			FormID:       req.ID,
			ProjectID:    created.ProjectID,
			TaskID:       created.ID,
			Title:        created.Title,
			Dependencies: created.Dependencies,
			CreatedAt:    time.Now(),
		}
		if err := events.TaskCreatedV1.Publish(m.eventBus, event, nil); err != nil {
			log.Printf("[taskform] Warning: failed to publish TaskCreated event for task %s: %v", created.ID, err)
		}
	}

	log.Printf("[taskform] Form %s created task %s", req.ID, created.ID)
	return SubmitResponse{Form: snapshotOf(f), Task: &created}, nil
}

// closeForm handles the close-task-form service request.
func (m *TaskFormModule) closeForm(_ context.Context, req FormRequest, _ *mono.Msg) (CloseResponse, error) {
	f, err := m.forms.Remove(req.ID)
	if err != nil {
		return CloseResponse{Problem: form.ProblemOf(err)}, nil
	}
	f.Close()

	log.Printf("[taskform] Closed form %s", req.ID)
	return CloseResponse{Closed: true}, nil
}
