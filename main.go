package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/example/project-forms/config"
	"github.com/example/project-forms/modules/activity"
	"github.com/example/project-forms/modules/api"
	"github.com/example/project-forms/modules/backend"
	"github.com/example/project-forms/modules/registration"
	"github.com/example/project-forms/modules/session"
	"github.com/example/project-forms/modules/taskform"
	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/go-monolith/mono"
)

const shutdownTimeout = 30 * time.Second

func main() {
	log.Println("=== Project Forms Service ===")

	cfg := config.Load()

	// Create mono application
	app, err := mono.NewMonoApplication(
		mono.WithShutdownTimeout(shutdownTimeout),
		mono.WithLogLevel(mono.LogLevelInfo),
		mono.WithLogFormat(mono.LogFormatText),
	)
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}

	// Register modules with the framework
	// Order: independent modules first, then dependent modules
	app.Register(backend.NewModule(cfg.BackendURL, cfg.BackendTimeout))              // Independent (REST backend proxy)
	app.Register(session.NewModule(cfg))                                             // Independent (session store)
	app.Register(activity.NewModule(activity.DefaultCapacity))                       // Consumes form events
	app.Register(registration.NewModule(cfg.DashboardRoute, cfg.FormIdleTimeout))    // Depends on backend, session
	app.Register(taskform.NewModule(cfg.DependencyPlaceholder, cfg.FormIdleTimeout)) // Depends on backend
	app.Register(api.NewModule(cfg.HTTPAddr))                                        // Depends on forms, session, activity

	// Start application
	if err := app.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}

	printStartupInfo(cfg)

	// Graceful shutdown
	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		shutdownTimeout,
		map[string]gfshutdown.Operation{
			"mono-app": func(ctx context.Context) error {
				log.Println("Graceful shutdown initiated...")
				return app.Stop(ctx)
			},
		},
	)

	exitCode := <-wait
	log.Printf("Application exited with code: %d", exitCode)
	os.Exit(exitCode)
}

func printStartupInfo(cfg config.Config) {
	log.Println("")
	log.Println("Application started successfully!")
	log.Println("")
	log.Printf("Backend:       %s", cfg.BackendURL)
	log.Printf("Session store: %s", cfg.SessionStore)
	log.Println("")
	log.Printf("REST API Endpoints (http://localhost%s):", cfg.HTTPAddr)
	log.Println("")
	log.Println("  Registration Form:")
	log.Println("  POST   /api/v1/forms/registration             - Open a registration form")
	log.Println("  GET    /api/v1/forms/registration/:id         - Get form state")
	log.Println("  PATCH  /api/v1/forms/registration/:id         - Edit a field")
	log.Println("  POST   /api/v1/forms/registration/:id/submit  - Submit the form")
	log.Println("  DELETE /api/v1/forms/registration/:id         - Close the form")
	log.Println("")
	log.Println("  Task Creation Form:")
	log.Println("  POST   /api/v1/projects/:projectId/forms/task - Open a task form")
	log.Println("  GET    /api/v1/forms/task/:id                 - Get form state")
	log.Println("  PATCH  /api/v1/forms/task/:id                 - Edit a field")
	log.Println("  POST   /api/v1/forms/task/:id/submit          - Submit the form")
	log.Println("  DELETE /api/v1/forms/task/:id                 - Close the form")
	log.Println("")
	log.Println("  Sessions and Activity:")
	log.Println("  GET    /api/v1/sessions/:id                   - Get a recorded session")
	log.Println("  DELETE /api/v1/sessions/:id                   - Log out")
	log.Println("  GET    /api/v1/activity                       - Recent form outcomes")
	log.Println("  GET    /health                                - Health check")
	log.Println("")
	log.Println("Press Ctrl+C to shutdown gracefully")
}
