package activity

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/example/project-forms/events"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// DefaultCapacity is the number of entries kept when no capacity is given.
const DefaultCapacity = 500

// Entry is one recorded form outcome.
type Entry struct {
	Type      string    `json:"type"`
	FormID    string    `json:"form_id"`
	SubjectID string    `json:"subject_id"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// ActivityModule records form outcomes published by the form modules.
// Only the newest entries up to the capacity are kept.
type ActivityModule struct {
	mu       sync.RWMutex
	entries  []Entry
	capacity int
}

// Compile-time interface checks.
var _ mono.Module = (*ActivityModule)(nil)
var _ mono.EventConsumerModule = (*ActivityModule)(nil)
var _ mono.ServiceProviderModule = (*ActivityModule)(nil)

// NewModule creates a new ActivityModule keeping at most capacity entries.
func NewModule(capacity int) *ActivityModule {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &ActivityModule{
		entries:  make([]Entry, 0, capacity),
		capacity: capacity,
	}
}

// Name returns the module name.
func (m *ActivityModule) Name() string {
	return "activity"
}

// RegisterEventConsumers subscribes to the form outcome events.
func (m *ActivityModule) RegisterEventConsumers(registry mono.EventRegistry) error {
	if err := helper.RegisterTypedEventConsumer(registry, events.UserRegisteredV1, m.handleUserRegistered, m); err != nil {
		return fmt.Errorf("failed to register UserRegistered consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.TaskCreatedV1, m.handleTaskCreated, m); err != nil {
		return fmt.Errorf("failed to register TaskCreated consumer: %w", err)
	}

	log.Printf("[activity] Registered event consumers: UserRegistered, TaskCreated")
	return nil
}

// RegisterServices registers request-reply services in the service container.
func (m *ActivityModule) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container,
		"list-activity",
		json.Unmarshal,
		json.Marshal,
		m.listActivity,
	); err != nil {
		return fmt.Errorf("failed to register list-activity service: %w", err)
	}

	log.Printf("[activity] Registered services: list-activity")
	return nil
}

func (m *ActivityModule) handleUserRegistered(_ context.Context, event events.UserRegisteredEvent, _ *mono.Msg) error {
	log.Printf("[activity] User registered: %s (%s)", event.UserID, event.Username)
	m.record(Entry{
		Type:      "user_registered",
		FormID:    event.FormID,
		SubjectID: event.UserID,
		Message:   fmt.Sprintf("User '%s' registered", event.Username),
		Timestamp: event.RegisteredAt,
	})
	return nil
}

func (m *ActivityModule) handleTaskCreated(_ context.Context, event events.TaskCreatedEvent, _ *mono.Msg) error {
	log.Printf("[activity] Task created: %s - %s", event.TaskID, event.Title)
	msg := fmt.Sprintf("Task '%s' created in project %s", event.Title, event.ProjectID)
	if deps := nonEmpty(event.Dependencies); len(deps) > 0 {
		msg += fmt.Sprintf(" (depends on %s)", strings.Join(deps, ", "))
	}
	m.record(Entry{
		Type:      "task_created",
		FormID:    event.FormID,
		SubjectID: event.TaskID,
		Message:   msg,
		Timestamp: event.CreatedAt,
	})
	return nil
}

func nonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

func (m *ActivityModule) record(e Entry) {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.entries) == m.capacity {
		copy(m.entries, m.entries[1:])
		m.entries = m.entries[:len(m.entries)-1]
	}
	m.entries = append(m.entries, e)
}

// Entries returns the recorded entries, newest first, at most limit of them.
// A limit of zero or less returns every entry.
func (m *ActivityModule) Entries(limit int) []Entry {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n := len(m.entries)
	if limit > 0 && limit < n {
		n = limit
	}
	result := make([]Entry, 0, n)
	for i := len(m.entries) - 1; i >= 0 && len(result) < n; i-- {
		result = append(result, m.entries[i])
	}
	return result
}

func (m *ActivityModule) listActivity(_ context.Context, req ListRequest, _ *mono.Msg) (ListResponse, error) {
	entries := m.Entries(req.Limit)
	return ListResponse{Entries: entries, Total: len(entries)}, nil
}

// Start starts the module.
func (m *ActivityModule) Start(_ context.Context) error {
	log.Printf("[activity] Module started - listening for form events (capacity %d)", m.capacity)
	return nil
}

// Stop stops the module.
func (m *ActivityModule) Stop(_ context.Context) error {
	log.Println("[activity] Module stopped")
	return nil
}
