package api

import (
	"context"
	"fmt"
	"log"

	"github.com/example/project-forms/modules/activity"
	"github.com/example/project-forms/modules/registration"
	"github.com/example/project-forms/modules/session"
	"github.com/example/project-forms/modules/taskform"
	"github.com/go-monolith/mono"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// APIModule is the HTTP API module.
type APIModule struct {
	addr             string
	app              *fiber.App
	registrationPort registration.RegistrationPort
	taskFormPort     taskform.TaskFormPort
	sessionPort      session.SessionPort
	activityPort     activity.ActivityPort
}

// Compile-time interface checks.
var _ mono.Module = (*APIModule)(nil)
var _ mono.DependentModule = (*APIModule)(nil)
var _ mono.HealthCheckableModule = (*APIModule)(nil)

// NewModule creates a new APIModule listening on addr.
func NewModule(addr string) *APIModule {
	return &APIModule{
		addr: addr,
	}
}

// Name returns the module name.
func (m *APIModule) Name() string {
	return "api"
}

// Dependencies returns the list of module dependencies.
func (m *APIModule) Dependencies() []string {
	return []string{"registration", "taskform", "session", "activity"}
}

// SetDependencyServiceContainer receives service containers from dependencies.
func (m *APIModule) SetDependencyServiceContainer(dependency string, container mono.ServiceContainer) {
	switch dependency {
	case "registration":
		m.registrationPort = registration.NewRegistrationAdapter(container)
	case "taskform":
		m.taskFormPort = taskform.NewTaskFormAdapter(container)
	case "session":
		m.sessionPort = session.NewSessionAdapter(container)
	case "activity":
		m.activityPort = activity.NewActivityAdapter(container)
	}
}

// Start initializes the Fiber HTTP server.
func (m *APIModule) Start(_ context.Context) error {
	if m.registrationPort == nil || m.taskFormPort == nil || m.sessionPort == nil || m.activityPort == nil {
		return fmt.Errorf("api module dependencies not set")
	}

	m.app = newApp(NewHandlers(m.registrationPort, m.taskFormPort, m.sessionPort, m.activityPort))

	go func() {
		if err := m.app.Listen(m.addr); err != nil {
			log.Printf("[api] HTTP server error: %v", err)
		}
	}()

	log.Printf("[api] HTTP server started on %s", m.addr)
	return nil
}

// Stop shuts down the Fiber HTTP server.
func (m *APIModule) Stop(_ context.Context) error {
	if m.app == nil {
		return nil
	}
	log.Println("[api] Shutting down HTTP server...")
	return m.app.Shutdown()
}

// Health returns the health status of the module.
func (m *APIModule) Health(_ context.Context) mono.HealthStatus {
	return mono.HealthStatus{
		Healthy: m.app != nil,
		Message: "operational",
		Details: map[string]any{
			"addr": m.addr,
		},
	}
}

// newApp builds the Fiber application with middleware and routes.
func newApp(handlers *Handlers) *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          customErrorHandler,
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(cors.New())

	setupRoutes(app, handlers)
	return app
}

// setupRoutes configures all API routes.
func setupRoutes(app *fiber.App, handlers *Handlers) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"module": "api",
		})
	})

	v1 := app.Group("/api/v1")

	registrationRoutes := v1.Group("/forms/registration")
	registrationRoutes.Post("/", handlers.OpenRegistration)
	registrationRoutes.Get("/:id", handlers.GetRegistration)
	registrationRoutes.Patch("/:id", handlers.EditRegistration)
	registrationRoutes.Post("/:id/submit", handlers.SubmitRegistration)
	registrationRoutes.Delete("/:id", handlers.CloseRegistration)

	v1.Post("/projects/:projectId/forms/task", handlers.OpenTaskForm)

	taskRoutes := v1.Group("/forms/task")
	taskRoutes.Get("/:id", handlers.GetTaskForm)
	taskRoutes.Patch("/:id", handlers.EditTaskForm)
	taskRoutes.Post("/:id/submit", handlers.SubmitTaskForm)
	taskRoutes.Delete("/:id", handlers.CloseTaskForm)

	v1.Get("/sessions/:id", handlers.GetSession)
	v1.Delete("/sessions/:id", handlers.DeleteSession)

	v1.Get("/activity", handlers.ListActivity)
}
