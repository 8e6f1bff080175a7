package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// BackendModule proxies the REST backend onto the service bus.
type BackendModule struct {
	client *Client
}

// Compile-time interface checks.
var _ mono.Module = (*BackendModule)(nil)
var _ mono.ServiceProviderModule = (*BackendModule)(nil)
var _ mono.HealthCheckableModule = (*BackendModule)(nil)

// NewModule creates a new BackendModule for the backend at baseURL.
func NewModule(baseURL string, timeout time.Duration) *BackendModule {
	return &BackendModule{
		client: NewClient(baseURL, timeout),
	}
}

// Name returns the module name.
func (m *BackendModule) Name() string {
	return "backend"
}

// Start initializes the backend module.
func (m *BackendModule) Start(_ context.Context) error {
	log.Printf("[backend] Module started (base url: %s)", m.client.BaseURL())
	return nil
}

// Stop shuts down the module.
func (m *BackendModule) Stop(_ context.Context) error {
	log.Println("[backend] Module stopped")
	return nil
}

// Health returns the health status of the module.
func (m *BackendModule) Health(_ context.Context) mono.HealthStatus {
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"base_url": m.client.BaseURL(),
		},
	}
}

// RegisterServices registers request-reply services in the service container.
func (m *BackendModule) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container,
		"register",
		json.Unmarshal,
		json.Marshal,
		m.handleRegister,
	); err != nil {
		return fmt.Errorf("failed to register register service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container,
		"create-task",
		json.Unmarshal,
		json.Marshal,
		m.handleCreateTask,
	); err != nil {
		return fmt.Errorf("failed to register create-task service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container,
		"list-tasks",
		json.Unmarshal,
		json.Marshal,
		m.handleListTasks,
	); err != nil {
		return fmt.Errorf("failed to register list-tasks service: %w", err)
	}

	log.Printf("[backend] Registered services: register, create-task, list-tasks")
	return nil
}

// handleRegister forwards a registration to the backend.
func (m *BackendModule) handleRegister(ctx context.Context, req RegisterRequest, _ *mono.Msg) (RegisterResponse, error) {
	session, err := m.client.Register(ctx, req.Credentials)
	if err != nil {
		log.Printf("[backend] Register failed for %q: %v", req.Credentials.Username, err)
		return RegisterResponse{Failure: failureOf(err)}, nil
	}
	return RegisterResponse{Session: &session}, nil
}

// handleCreateTask forwards a task creation to the backend.
func (m *BackendModule) handleCreateTask(ctx context.Context, req CreateTaskRequest, _ *mono.Msg) (CreateTaskResponse, error) {
	created, err := m.client.CreateTask(ctx, req.ProjectID, req.Token, req.Payload)
	if err != nil {
		log.Printf("[backend] Create task failed in project %s: %v", req.ProjectID, err)
		return CreateTaskResponse{Failure: failureOf(err)}, nil
	}
	return CreateTaskResponse{Task: &created}, nil
}

// handleListTasks loads the tasks of a project.
func (m *BackendModule) handleListTasks(ctx context.Context, req ListTasksRequest, _ *mono.Msg) (ListTasksResponse, error) {
	tasks, err := m.client.ListTasks(ctx, req.ProjectID, req.Token)
	if err != nil {
		log.Printf("[backend] List tasks failed in project %s: %v", req.ProjectID, err)
		return ListTasksResponse{Failure: failureOf(err)}, nil
	}
	return ListTasksResponse{Tasks: tasks}, nil
}
