package backend

import (
	"context"
	"errors"
	"net"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/example/project-forms/domain/form"
	"github.com/example/project-forms/domain/task"
	"github.com/example/project-forms/domain/user"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// startBackend serves app on a loopback port and returns its base URL.
func startBackend(t *testing.T, routes func(app *fiber.App)) string {
	t.Helper()

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	routes(app)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = app.Listener(ln) }()
	t.Cleanup(func() { _ = app.Shutdown() })

	return "http://" + ln.Addr().String() + "/api"
}

func TestClient_Register(t *testing.T) {
	var got user.Credentials
	baseURL := startBackend(t, func(app *fiber.App) {
		app.Post("/api/auth/register", func(c *fiber.Ctx) error {
			if err := c.BodyParser(&got); err != nil {
				return err
			}
			return c.Status(fiber.StatusCreated).JSON(fiber.Map{
				"userId":   "u1",
				"username": got.Username,
				"token":    "t1",
			})
		})
	})

	client := NewClient(baseURL, 2*time.Second)
	session, err := client.Register(context.Background(), user.Credentials{
		Username: "alice",
		Email:    "a@x.io",
		Password: "secret1",
	})

	require.NoError(t, err)
	assert.Equal(t, user.Session{UserID: "u1", Username: "alice", Token: "t1"}, session)
	assert.Equal(t, "a@x.io", got.Email)
	assert.Equal(t, "secret1", got.Password)
}

func TestClient_Register_ServerMessage(t *testing.T) {
	baseURL := startBackend(t, func(app *fiber.App) {
		app.Post("/api/auth/register", func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": "email taken"})
		})
	})

	_, err := NewClient(baseURL, 2*time.Second).Register(context.Background(), user.Credentials{})

	var apiErr *form.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, fiber.StatusConflict, apiErr.StatusCode)
	assert.Equal(t, "email taken", apiErr.Message)
}

func TestClient_Register_NoMessage(t *testing.T) {
	baseURL := startBackend(t, func(app *fiber.App) {
		app.Post("/api/auth/register", func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusInternalServerError).SendString("upstream exploded")
		})
	})

	_, err := NewClient(baseURL, 2*time.Second).Register(context.Background(), user.Credentials{})

	var apiErr *form.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, fiber.StatusInternalServerError, apiErr.StatusCode)
	assert.Empty(t, apiErr.Message)
	assert.Equal(t, "Registration failed. Please try again.",
		form.MessageOf(err, "Registration failed. Please try again."))
}

func TestClient_TransportFailure(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	_, err = NewClient("http://"+addr, time.Second).Register(context.Background(), user.Credentials{})

	var apiErr *form.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Zero(t, apiErr.StatusCode)
	assert.Empty(t, apiErr.Message)
}

func TestClient_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewClient("http://127.0.0.1:1", time.Second).Register(ctx, user.Credentials{})

	assert.True(t, errors.Is(err, context.Canceled))
}

func TestClient_CreateTask(t *testing.T) {
	var (
		auth    string
		payload task.CreatePayload
	)
	baseURL := startBackend(t, func(app *fiber.App) {
		app.Post("/api/projects/:projectId/tasks", func(c *fiber.Ctx) error {
			auth = c.Get(fiber.HeaderAuthorization)
			if err := c.BodyParser(&payload); err != nil {
				return err
			}
			return c.Status(fiber.StatusCreated).JSON(task.Task{
				ID:             "t-9",
				Title:          payload.Title,
				EstimatedHours: payload.EstimatedHours,
				Dependencies:   payload.Dependencies,
			})
		})
	})

	created, err := NewClient(baseURL, 2*time.Second).CreateTask(context.Background(), "p1", "tok", task.CreatePayload{
		Title:          "Write docs",
		EstimatedHours: 8,
		Dependencies:   []string{"Design"},
	})

	require.NoError(t, err)
	assert.Equal(t, "Bearer tok", auth)
	assert.Equal(t, "t-9", created.ID)
	assert.Equal(t, "p1", created.ProjectID)
	assert.Equal(t, []string{"Design"}, payload.Dependencies)
}

func TestClient_ListTasks(t *testing.T) {
	baseURL := startBackend(t, func(app *fiber.App) {
		app.Get("/api/projects/:projectId/tasks", func(c *fiber.Ctx) error {
			if c.Get(fiber.HeaderAuthorization) != "" {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "unexpected token"})
			}
			return c.JSON([]task.Task{
				{ID: "1", ProjectID: c.Params("projectId"), Title: "A"},
				{ID: "2", ProjectID: c.Params("projectId"), Title: "B", IsCompleted: true},
			})
		})
	})

	tasks, err := NewClient(baseURL, 2*time.Second).ListTasks(context.Background(), "p1", "")

	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "p1", tasks[0].ProjectID)
	assert.True(t, tasks[1].IsCompleted)
}

func TestClient_ListTasks_CollapsesConcurrentCalls(t *testing.T) {
	var hits atomic.Int32
	baseURL := startBackend(t, func(app *fiber.App) {
		app.Get("/api/projects/:projectId/tasks", func(c *fiber.Ctx) error {
			hits.Add(1)
			time.Sleep(200 * time.Millisecond)
			return c.JSON([]task.Task{{ID: "1", Title: "A"}})
		})
	})
	client := NewClient(baseURL, 5*time.Second)

	const callers = 8
	var wg sync.WaitGroup
	results := make([][]task.Task, callers)
	start := make(chan struct{})
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			tasks, err := client.ListTasks(context.Background(), "p1", "")
			assert.NoError(t, err)
			results[i] = tasks
		}(i)
	}
	close(start)
	wg.Wait()

	assert.Less(t, int(hits.Load()), callers)
	for _, r := range results {
		require.Len(t, r, 1)
	}
	// Each caller owns its slice.
	results[0][0].Title = "mutated"
	assert.Equal(t, "A", results[1][0].Title)
}

func TestClient_ListTasks_SharedCallKeepsOwnDeadline(t *testing.T) {
	var hits atomic.Int32
	baseURL := startBackend(t, func(app *fiber.App) {
		app.Get("/api/projects/:projectId/tasks", func(c *fiber.Ctx) error {
			hits.Add(1)
			time.Sleep(300 * time.Millisecond)
			return c.JSON([]task.Task{{ID: "1", Title: "A"}})
		})
	})
	client := NewClient(baseURL, 5*time.Second)

	shortCtx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	var (
		wg       sync.WaitGroup
		shortErr error
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, shortErr = client.ListTasks(shortCtx, "p1", "")
	}()
	time.Sleep(20 * time.Millisecond)

	tasks, err := client.ListTasks(context.Background(), "p1", "")
	wg.Wait()

	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "A", tasks[0].Title)

	var apiErr *form.APIError
	require.ErrorAs(t, shortErr, &apiErr)
	assert.ErrorIs(t, shortErr, context.DeadlineExceeded)
	assert.Equal(t, int32(1), hits.Load())
}

func TestFailure_RoundTrip(t *testing.T) {
	f := failureOf(&form.APIError{StatusCode: 409, Message: "email taken"})
	require.NotNil(t, f)
	assert.Equal(t, "email taken", form.MessageOf(f.Err(), "fallback"))

	f = failureOf(errors.New("nats: timeout"))
	require.NotNil(t, f)
	assert.Equal(t, "fallback", form.MessageOf(f.Err(), "fallback"))

	assert.Nil(t, failureOf(nil))
	assert.NoError(t, (*Failure)(nil).Err())
}
