package api

import (
	"errors"
	"log/slog"

	"github.com/example/project-forms/domain/form"
	"github.com/example/project-forms/modules/session"
	"github.com/gofiber/fiber/v2"
)

// writeError maps a form or session error to an HTTP response.
// Backend failures carry the server message, or fallback when there is none.
func writeError(c *fiber.Ctx, logger *slog.Logger, err error, fallback string) error {
	var verr *form.ValidationError
	if errors.As(err, &verr) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(ErrorResponse{
			Error:   "validation_error",
			Message: verr.Message,
			Field:   verr.Field,
		})
	}

	var aerr *form.APIError
	if errors.As(err, &aerr) {
		logger.Warn("Backend call failed", "path", c.Path(), "status", aerr.StatusCode, "error", err)
		return c.Status(fiber.StatusBadGateway).JSON(ErrorResponse{
			Error:   "backend_error",
			Message: form.MessageOf(err, fallback),
		})
	}

	switch {
	case errors.Is(err, form.ErrSubmissionInProgress):
		return c.Status(fiber.StatusConflict).JSON(ErrorResponse{
			Error:   "in_progress",
			Message: "A submission is already in progress",
		})
	case errors.Is(err, form.ErrInvalidTransition):
		return c.Status(fiber.StatusConflict).JSON(ErrorResponse{
			Error:   "invalid_state",
			Message: "The form does not accept this change in its current state",
		})
	case errors.Is(err, form.ErrFormNotFound):
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
			Error:   "not_found",
			Message: "Form not found",
		})
	case errors.Is(err, form.ErrFormClosed):
		return c.Status(fiber.StatusGone).JSON(ErrorResponse{
			Error:   "closed",
			Message: "Form is closed",
		})
	case errors.Is(err, form.ErrUnknownField):
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "bad_request",
			Message: "Unknown field",
		})
	case errors.Is(err, session.ErrSessionNotFound):
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
			Error:   "not_found",
			Message: "Session not found",
		})
	}

	logger.Error("Request failed", "path", c.Path(), "error", err)
	return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
		Error:   "server_error",
		Message: "Internal Server Error",
	})
}

// customErrorHandler handles Fiber errors.
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(ErrorResponse{
		Error:   "server_error",
		Message: message,
	})
}
