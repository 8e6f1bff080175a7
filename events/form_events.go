package events

import (
	"time"

	"github.com/go-monolith/mono/pkg/helper"
)

// UserRegisteredEvent is emitted when a registration form submits successfully.
type UserRegisteredEvent struct {
	FormID       string    `json:"form_id"`
	UserID       string    `json:"user_id"`
	Username     string    `json:"username"`
	RegisteredAt time.Time `json:"registered_at"`
}

// UserRegisteredV1 is the typed event definition for registrations.
// Subject: events.registration.v1.user-registered
var UserRegisteredV1 = helper.EventDefinition[UserRegisteredEvent](
	"registration", "UserRegistered", "v1",
)

// TaskCreatedEvent is emitted when a task creation form submits successfully.
type TaskCreatedEvent struct {
	FormID       string    `json:"form_id"`
	ProjectID    string    `json:"project_id"`
	TaskID       string    `json:"task_id"`
	Title        string    `json:"title"`
	Dependencies []string  `json:"dependencies"`
	CreatedAt    time.Time `json:"created_at"`
}

// TaskCreatedV1 is the typed event definition for task creation.
// Subject: events.taskform.v1.task-created
var TaskCreatedV1 = helper.EventDefinition[TaskCreatedEvent](
	"taskform", "TaskCreated", "v1",
)
