package api

import (
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/example/project-forms/modules/activity"
	"github.com/example/project-forms/modules/registration"
	"github.com/example/project-forms/modules/session"
	"github.com/example/project-forms/modules/taskform"
	"github.com/gofiber/fiber/v2"
)

// maxValueLength bounds a single edited value, in characters.
const maxValueLength = 1000

// Handlers contains HTTP handlers for the API.
type Handlers struct {
	registration registration.RegistrationPort
	tasks        taskform.TaskFormPort
	sessions     session.SessionPort
	activity     activity.ActivityPort
	logger       *slog.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(
	registrationPort registration.RegistrationPort,
	taskFormPort taskform.TaskFormPort,
	sessionPort session.SessionPort,
	activityPort activity.ActivityPort,
) *Handlers {
	return &Handlers{
		registration: registrationPort,
		tasks:        taskFormPort,
		sessions:     sessionPort,
		activity:     activityPort,
		logger:       slog.Default(),
	}
}

// OpenRegistration handles POST /api/v1/forms/registration.
func (h *Handlers) OpenRegistration(c *fiber.Ctx) error {
	snapshot, err := h.registration.Open(c.UserContext())
	if err != nil {
		return writeError(c, h.logger, err, registration.FallbackMessage)
	}
	return c.Status(fiber.StatusCreated).JSON(RegistrationResponse{Form: snapshot})
}

// GetRegistration handles GET /api/v1/forms/registration/:id.
func (h *Handlers) GetRegistration(c *fiber.Ctx) error {
	snapshot, err := h.registration.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.logger, err, registration.FallbackMessage)
	}
	return c.JSON(RegistrationResponse{Form: snapshot})
}

// EditRegistration handles PATCH /api/v1/forms/registration/:id.
func (h *Handlers) EditRegistration(c *fiber.Ctx) error {
	var req EditRegistrationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "bad_request",
			Message: "Invalid request body",
		})
	}
	if req.Field == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "bad_request",
			Message: "Field is required",
		})
	}
	if utf8.RuneCountInString(req.Value) > maxValueLength {
		return valueTooLong(c, req.Field)
	}

	snapshot, err := h.registration.Edit(c.UserContext(), c.Params("id"), req.Field, req.Value)
	if err != nil {
		return writeError(c, h.logger, err, registration.FallbackMessage)
	}
	return c.JSON(RegistrationResponse{Form: snapshot})
}

// SubmitRegistration handles POST /api/v1/forms/registration/:id/submit.
func (h *Handlers) SubmitRegistration(c *fiber.Ctx) error {
	result, err := h.registration.Submit(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.logger, err, registration.FallbackMessage)
	}

	h.logger.Info("Registration submitted", "form", c.Params("id"), "user", result.Session.UserID)
	return c.Status(fiber.StatusCreated).JSON(RegistrationSubmitResponse{
		Form:      result.Form,
		Session:   result.Session,
		SessionID: result.SessionID,
		Redirect:  result.Redirect,
	})
}

// CloseRegistration handles DELETE /api/v1/forms/registration/:id.
func (h *Handlers) CloseRegistration(c *fiber.Ctx) error {
	if err := h.registration.Close(c.UserContext(), c.Params("id")); err != nil {
		return writeError(c, h.logger, err, registration.FallbackMessage)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// OpenTaskForm handles POST /api/v1/projects/:projectId/forms/task.
// A bearer token in the Authorization header is forwarded to the backend.
func (h *Handlers) OpenTaskForm(c *fiber.Ctx) error {
	var token string
	if header := c.Get(fiber.HeaderAuthorization); strings.HasPrefix(header, "Bearer ") {
		token = strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}

	snapshot, err := h.tasks.Open(c.UserContext(), c.Params("projectId"), token)
	if err != nil {
		return writeError(c, h.logger, err, taskform.FallbackMessage)
	}
	return c.Status(fiber.StatusCreated).JSON(TaskFormResponse{Form: snapshot})
}

// GetTaskForm handles GET /api/v1/forms/task/:id.
func (h *Handlers) GetTaskForm(c *fiber.Ctx) error {
	snapshot, err := h.tasks.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.logger, err, taskform.FallbackMessage)
	}
	return c.JSON(TaskFormResponse{Form: snapshot})
}

// EditTaskForm handles PATCH /api/v1/forms/task/:id.
func (h *Handlers) EditTaskForm(c *fiber.Ctx) error {
	var req EditTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "bad_request",
			Message: "Invalid request body",
		})
	}
	if req.Field == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "bad_request",
			Message: "Field is required",
		})
	}
	if req.Value != nil && utf8.RuneCountInString(*req.Value) > maxValueLength {
		return valueTooLong(c, req.Field)
	}

	snapshot, err := h.tasks.Edit(c.UserContext(), taskform.EditRequest{
		ID:      c.Params("id"),
		Field:   req.Field,
		Value:   req.Value,
		Checked: req.Checked,
		Values:  req.Values,
	})
	if err != nil {
		return writeError(c, h.logger, err, taskform.FallbackMessage)
	}
	return c.JSON(TaskFormResponse{Form: snapshot})
}

// SubmitTaskForm handles POST /api/v1/forms/task/:id/submit.
func (h *Handlers) SubmitTaskForm(c *fiber.Ctx) error {
	created, err := h.tasks.Submit(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.logger, err, taskform.FallbackMessage)
	}

	h.logger.Info("Task created", "form", c.Params("id"), "task", created.ID)
	return c.Status(fiber.StatusCreated).JSON(TaskSubmitResponse{Task: created})
}

// CloseTaskForm handles DELETE /api/v1/forms/task/:id.
func (h *Handlers) CloseTaskForm(c *fiber.Ctx) error {
	if err := h.tasks.Close(c.UserContext(), c.Params("id")); err != nil {
		return writeError(c, h.logger, err, taskform.FallbackMessage)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetSession handles GET /api/v1/sessions/:id.
func (h *Handlers) GetSession(c *fiber.Ctx) error {
	record, err := h.sessions.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.logger, err, "")
	}
	out := *record
	out.Token = ""
	return c.JSON(SessionResponse{Session: &out})
}

// DeleteSession handles DELETE /api/v1/sessions/:id.
func (h *Handlers) DeleteSession(c *fiber.Ctx) error {
	if err := h.sessions.Logout(c.UserContext(), c.Params("id")); err != nil {
		return writeError(c, h.logger, err, "")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListActivity handles GET /api/v1/activity.
func (h *Handlers) ListActivity(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	if limit < 0 {
		limit = 0
	}

	entries, err := h.activity.List(c.UserContext(), limit)
	if err != nil {
		return writeError(c, h.logger, err, "")
	}
	return c.JSON(ActivityResponse{Entries: entries, Total: len(entries)})
}

func valueTooLong(c *fiber.Ctx, field string) error {
	return c.Status(fiber.StatusUnprocessableEntity).JSON(ErrorResponse{
		Error:   "validation_error",
		Message: "Value is too long",
		Field:   field,
	})
}
