package registration

import (
	"context"
	"log"
	"time"

	"github.com/example/project-forms/domain/form"
	"github.com/example/project-forms/events"
	"github.com/go-monolith/mono"
)

// openForm handles the open-registration service request.
func (m *RegistrationModule) openForm(_ context.Context, _ OpenRequest, _ *mono.Msg) (FormResponse, error) {
	id, f := m.forms.Open(func(id string) *Form {
		return NewForm(id, m.backendPort, m.dashboardRoute)
	})
	log.Printf("[registration] Opened form %s", id)
	return FormResponse{Form: snapshotOf(f.State(), "")}, nil
}

// editForm handles the edit-registration service request.
func (m *RegistrationModule) editForm(_ context.Context, req EditRequest, _ *mono.Msg) (FormResponse, error) {
	f, err := m.forms.Get(req.ID)
	if err != nil {
		return FormResponse{Problem: form.ProblemOf(err)}, nil
	}

	state, err := f.Apply(form.EditField{Field: req.Field, Value: req.Value})
	if err != nil {
		return FormResponse{Problem: form.ProblemOf(err)}, nil
	}
	return FormResponse{Form: snapshotOf(state, m.redirects.Route(req.ID))}, nil
}

// getForm handles the get-registration service request.
func (m *RegistrationModule) getForm(_ context.Context, req FormRequest, _ *mono.Msg) (FormResponse, error) {
	f, err := m.forms.Get(req.ID)
	if err != nil {
		return FormResponse{Problem: form.ProblemOf(err)}, nil
	}
	return FormResponse{Form: snapshotOf(f.State(), m.redirects.Route(req.ID))}, nil
}

// submitForm handles the submit-registration service request.
func (m *RegistrationModule) submitForm(ctx context.Context, req FormRequest, _ *mono.Msg) (SubmitResponse, error) {
	f, err := m.forms.Get(req.ID)
	if err != nil {
		return SubmitResponse{Problem: form.ProblemOf(err)}, nil
	}

	result, err := m.controller.Submit(ctx, f)
	if err != nil {
		log.Printf("[registration] Form %s submit failed: %v", req.ID, err)
		return SubmitResponse{
			Form:    snapshotOf(f.State(), m.redirects.Route(req.ID)),
			Problem: form.ProblemOf(err),
		}, nil
	}

	if m.eventBus != nil {
		event := events.UserRegisteredEvent{
			FormID:       req.ID,
			UserID:       result.Session.UserID,
			Username:     result.Session.Username,
			RegisteredAt: time.Now(),
		}
		if err := events.UserRegisteredV1.Publish(m.eventBus, event, nil); err != nil {
			log.Printf("[registration] Warning: failed to publish UserRegistered event for form %s: %v", req.ID, err)
		}
	}

	// Navigation ends the form; the reply carries its final snapshot.
	snapshot := snapshotOf(f.State(), result.Redirect)
	_ = m.discard(req.ID)

	log.Printf("[registration] Form %s registered user %s", req.ID, result.Session.UserID)
	session := result.Session
	return SubmitResponse{
		Form:      snapshot,
		Session:   &session,
		SessionID: result.SessionID,
		Redirect:  result.Redirect,
	}, nil
}

// closeForm handles the close-registration service request.
func (m *RegistrationModule) closeForm(_ context.Context, req FormRequest, _ *mono.Msg) (CloseResponse, error) {
	if err := m.discard(req.ID); err != nil {
		return CloseResponse{Problem: form.ProblemOf(err)}, nil
	}

	log.Printf("[registration] Closed form %s", req.ID)
	return CloseResponse{Closed: true}, nil
}

// discard removes the form with id and drops its input and recorded route.
func (m *RegistrationModule) discard(id string) error {
	f, err := m.forms.Remove(id)
	if err != nil {
		return err
	}
	f.Close()
	m.redirects.Forget(id)
	return nil
}
