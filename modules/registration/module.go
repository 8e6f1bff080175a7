package registration

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/example/project-forms/domain/form"
	"github.com/example/project-forms/events"
	"github.com/example/project-forms/modules/backend"
	"github.com/example/project-forms/modules/session"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// RegistrationModule hosts registration forms.
type RegistrationModule struct {
	dashboardRoute string
	idleTimeout    time.Duration
	forms          *form.Registry[*Form]
	redirects      *redirectBoard
	controller     *Controller
	backendPort    backend.BackendPort
	sessionPort    session.SessionPort
	eventBus       mono.EventBus
	stopChan       chan struct{}
	doneChan       chan struct{}
}

// Compile-time interface checks.
var _ mono.Module = (*RegistrationModule)(nil)
var _ mono.ServiceProviderModule = (*RegistrationModule)(nil)
var _ mono.DependentModule = (*RegistrationModule)(nil)
var _ mono.EventEmitterModule = (*RegistrationModule)(nil)
var _ mono.HealthCheckableModule = (*RegistrationModule)(nil)

// NewModule creates a new RegistrationModule that navigates to dashboardRoute on success.
// Forms unused for idleTimeout are discarded; zero keeps them until closed.
func NewModule(dashboardRoute string, idleTimeout time.Duration) *RegistrationModule {
	return &RegistrationModule{
		dashboardRoute: dashboardRoute,
		idleTimeout:    idleTimeout,
		redirects:      newRedirectBoard(),
	}
}

// Name returns the module name.
func (m *RegistrationModule) Name() string {
	return "registration"
}

// Dependencies returns the modules this module depends on.
func (m *RegistrationModule) Dependencies() []string {
	return []string{"backend", "session"}
}

// SetDependencyServiceContainer receives the service containers of dependencies.
func (m *RegistrationModule) SetDependencyServiceContainer(dependency string, container mono.ServiceContainer) {
	switch dependency {
	case "backend":
		m.backendPort = backend.NewBackendAdapter(container)
	case "session":
		m.sessionPort = session.NewSessionAdapter(container)
	}
}

// SetEventBus receives the event bus.
func (m *RegistrationModule) SetEventBus(bus mono.EventBus) {
	m.eventBus = bus
}

// EmitEvents returns the events this module publishes.
func (m *RegistrationModule) EmitEvents() []mono.BaseEventDefinition {
	return []mono.BaseEventDefinition{
		events.UserRegisteredV1.ToBase(),
	}
}

// Start initializes the form registry.
func (m *RegistrationModule) Start(_ context.Context) error {
	if m.backendPort == nil || m.sessionPort == nil {
		return fmt.Errorf("registration module requires backend and session dependencies")
	}

	forms, err := form.NewRegistry[*Form]()
	if err != nil {
		return err
	}
	m.forms = forms
	m.controller = NewController(m.sessionPort, m.redirects)

	if m.idleTimeout > 0 {
		m.stopChan = make(chan struct{})
		m.doneChan = make(chan struct{})
		go m.sweep()
	}

	log.Printf("[registration] Module started (redirect on success: %s, idle timeout: %s)", m.dashboardRoute, m.idleTimeout)
	return nil
}

// sweep periodically discards forms left unused for the idle timeout.
func (m *RegistrationModule) sweep() {
	ticker := time.NewTicker(min(m.idleTimeout/2, time.Minute))
	defer ticker.Stop()
	defer close(m.doneChan)

	for {
		select {
		case <-m.stopChan:
			return
		case <-ticker.C:
			m.evictIdle()
		}
	}
}

func (m *RegistrationModule) evictIdle() {
	for id, f := range m.forms.Sweep(m.idleTimeout) {
		f.Close()
		m.redirects.Forget(id)
		log.Printf("[registration] Discarded idle form %s", id)
	}
}

// Stop closes every open form.
func (m *RegistrationModule) Stop(_ context.Context) error {
	if m.stopChan != nil {
		close(m.stopChan)
		<-m.doneChan
		m.stopChan = nil
	}
	if m.forms != nil {
		for _, f := range m.forms.Drain() {
			f.Close()
		}
	}
	log.Println("[registration] Module stopped")
	return nil
}

// Health returns the health status of the module.
func (m *RegistrationModule) Health(_ context.Context) mono.HealthStatus {
	if m.forms == nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: "form registry not initialized",
		}
	}
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"open_forms": m.forms.Len(),
		},
	}
}

// RegisterServices registers request-reply services in the service container.
func (m *RegistrationModule) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container,
		"open-registration",
		json.Unmarshal,
		json.Marshal,
		m.openForm,
	); err != nil {
		return fmt.Errorf("failed to register open-registration service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container,
		"edit-registration",
		json.Unmarshal,
		json.Marshal,
		m.editForm,
	); err != nil {
		return fmt.Errorf("failed to register edit-registration service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container,
		"get-registration",
		json.Unmarshal,
		json.Marshal,
		m.getForm,
	); err != nil {
		return fmt.Errorf("failed to register get-registration service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container,
		"submit-registration",
		json.Unmarshal,
		json.Marshal,
		m.submitForm,
	); err != nil {
		return fmt.Errorf("failed to register submit-registration service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container,
		"close-registration",
		json.Unmarshal,
		json.Marshal,
		m.closeForm,
	); err != nil {
		return fmt.Errorf("failed to register close-registration service: %w", err)
	}

	log.Printf("[registration] Registered services: open-registration, edit-registration, get-registration, submit-registration, close-registration")
	return nil
}
