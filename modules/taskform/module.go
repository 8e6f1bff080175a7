package taskform

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/example/project-forms/domain/form"
	"github.com/example/project-forms/events"
	"github.com/example/project-forms/modules/backend"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// TaskFormModule hosts task creation forms.
type TaskFormModule struct {
	placeholder bool
	idleTimeout time.Duration
	forms       *form.Registry[*Form]
	backendPort backend.BackendPort
	eventBus    mono.EventBus
	stopChan    chan struct{}
	doneChan    chan struct{}
}

// Compile-time interface checks.
var _ mono.Module = (*TaskFormModule)(nil)
var _ mono.ServiceProviderModule = (*TaskFormModule)(nil)
var _ mono.DependentModule = (*TaskFormModule)(nil)
var _ mono.EventEmitterModule = (*TaskFormModule)(nil)
var _ mono.HealthCheckableModule = (*TaskFormModule)(nil)

// NewModule creates a new TaskFormModule.
// With dependencyPlaceholder set, an empty dependency selection is sent as [""].
// Forms unused for idleTimeout are discarded; zero keeps them until closed.
func NewModule(dependencyPlaceholder bool, idleTimeout time.Duration) *TaskFormModule {
	return &TaskFormModule{
		placeholder: dependencyPlaceholder,
		idleTimeout: idleTimeout,
	}
}

// Name returns the module name.
func (m *TaskFormModule) Name() string {
	return "taskform"
}

// Dependencies returns the modules this module depends on.
func (m *TaskFormModule) Dependencies() []string {
	return []string{"backend"}
}

// SetDependencyServiceContainer receives the service containers of dependencies.
func (m *TaskFormModule) SetDependencyServiceContainer(dependency string, container mono.ServiceContainer) {
	if dependency == "backend" {
		m.backendPort = backend.NewBackendAdapter(container)
	}
}

// SetEventBus receives the event bus.
func (m *TaskFormModule) SetEventBus(bus mono.EventBus) {
	m.eventBus = bus
}

// EmitEvents returns the events this module publishes.
func (m *TaskFormModule) EmitEvents() []mono.BaseEventDefinition {
	return []mono.BaseEventDefinition{
		events.TaskCreatedV1.ToBase(),
	}
}

// Start initializes the form registry.
func (m *TaskFormModule) Start(_ context.Context) error {
	if m.backendPort == nil {
		return fmt.Errorf("taskform module requires the backend dependency")
	}

	forms, err := form.NewRegistry[*Form]()
	if err != nil {
		return err
	}
	m.forms = forms

	if m.idleTimeout > 0 {
		m.stopChan = make(chan struct{})
		m.doneChan = make(chan struct{})
		go m.sweep()
	}

	log.Printf("[taskform] Module started (dependency placeholder: %v, idle timeout: %s)", m.placeholder, m.idleTimeout)
	return nil
}

// sweep periodically discards forms left unused for the idle timeout.
func (m *TaskFormModule) sweep() {
	ticker := time.NewTicker(min(m.idleTimeout/2, time.Minute))
	defer ticker.Stop()
	defer close(m.doneChan)

	for {
		select {
		case <-m.stopChan:
			return
		case <-ticker.C:
			for id, f := range m.forms.Sweep(m.idleTimeout) {
				f.Close()
				log.Printf("[taskform] Discarded idle form %s", id)
			}
		}
	}
}

// Stop closes every open form.
func (m *TaskFormModule) Stop(_ context.Context) error {
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
	log.Println("[taskform] Module stopped")
	return nil
}

// Health returns the health status of the module.
func (m *TaskFormModule) Health(_ context.Context) mono.HealthStatus {
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
func (m *TaskFormModule) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container,
		"open-task-form",
		json.Unmarshal,
		json.Marshal,
		m.openForm,
	); err != nil {
		return fmt.Errorf("failed to register open-task-form service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container,
		"edit-task-form",
		json.Unmarshal,
		json.Marshal,
		m.editForm,
	); err != nil {
		return fmt.Errorf("failed to register edit-task-form service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container,
		"get-task-form",
		json.Unmarshal,
		json.Marshal,
		m.getForm,
	); err != nil {
		return fmt.Errorf("failed to register get-task-form service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container,
		"submit-task-form",
		json.Unmarshal,
		json.Marshal,
		m.submitForm,
	); err != nil {
		return fmt.Errorf("failed to register submit-task-form service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container,
		"close-task-form",
		json.Unmarshal,
		json.Marshal,
		m.closeForm,
	); err != nil {
		return fmt.Errorf("failed to register close-task-form service: %w", err)
	}

	log.Printf("[taskform] Registered services: open-task-form, edit-task-form, get-task-form, submit-task-form, close-task-form")
	return nil
}
