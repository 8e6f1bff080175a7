package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/example/project-forms/domain/form"
	"github.com/example/project-forms/domain/task"
	"github.com/example/project-forms/domain/user"
	"github.com/gofiber/fiber/v2"
	"golang.org/x/sync/singleflight"
)

// Client talks to the project-management REST backend.
type Client struct {
	baseURL string
	timeout time.Duration
	lists   singleflight.Group // Collapses concurrent list calls per project
}

// NewClient creates a Client for the backend rooted at baseURL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
	}
}

// BaseURL returns the backend root the client was configured with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Register creates an account and returns the session the backend issued.
func (c *Client) Register(ctx context.Context, creds user.Credentials) (user.Session, error) {
	var session user.Session
	if err := c.send(ctx, fiber.Post(c.baseURL+"/auth/register").JSON(creds), &session); err != nil {
		return user.Session{}, fmt.Errorf("register: %w", err)
	}
	return session, nil
}

// CreateTask creates a task in projectID.
func (c *Client) CreateTask(ctx context.Context, projectID, token string, payload task.CreatePayload) (task.Task, error) {
	agent := fiber.Post(c.tasksURL(projectID)).JSON(payload)
	authorize(agent, token)

	var created task.Task
	if err := c.send(ctx, agent, &created); err != nil {
		return task.Task{}, fmt.Errorf("create task: %w", err)
	}
	if created.ProjectID == "" {
		created.ProjectID = projectID
	}
	return created, nil
}

// ListTasks returns the tasks of projectID.
// Concurrent calls for the same project and token share one request. The shared
// request is bounded by the client timeout only; each caller stops waiting when
// its own ctx is done.
func (c *Client) ListTasks(ctx context.Context, projectID, token string) ([]task.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("list tasks: %w", &form.APIError{Err: err})
	}

	key := projectID + "\x00" + token
	flight := c.lists.DoChan(key, func() (any, error) {
		agent := fiber.Get(c.tasksURL(projectID))
		authorize(agent, token)

		var tasks []task.Task
		if err := c.send(context.WithoutCancel(ctx), agent, &tasks); err != nil {
			return nil, err
		}
		return tasks, nil
	})

	var res singleflight.Result
	select {
	case res = <-flight:
	case <-ctx.Done():
		return nil, fmt.Errorf("list tasks: %w", &form.APIError{Err: ctx.Err()})
	}
	if res.Err != nil {
		return nil, fmt.Errorf("list tasks: %w", res.Err)
	}
	if res.Shared {
		log.Printf("[backend] Shared list-tasks result for project %s", projectID)
	}

	tasks, _ := res.Val.([]task.Task)
	out := make([]task.Task, len(tasks))
	copy(out, tasks)
	return out, nil
}

func (c *Client) tasksURL(projectID string) string {
	return c.baseURL + "/projects/" + url.PathEscape(projectID) + "/tasks"
}

func authorize(agent *fiber.Agent, token string) {
	if token != "" {
		agent.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
}

// send performs the request and decodes a 2xx body into out.
// Every failure is reported as *form.APIError; the message is empty unless the
// backend supplied one.
func (c *Client) send(ctx context.Context, agent *fiber.Agent, out any) error {
	if err := ctx.Err(); err != nil {
		fiber.ReleaseAgent(agent)
		return &form.APIError{Err: err}
	}
	if timeout := c.timeoutFor(ctx); timeout > 0 {
		agent.Timeout(timeout)
	}

	code, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return &form.APIError{Err: errors.Join(errs...)}
	}
	if code < fiber.StatusOK || code >= fiber.StatusMultipleChoices {
		return &form.APIError{StatusCode: code, Message: serverMessage(body)}
	}
	if out == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &form.APIError{StatusCode: code, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

// timeoutFor returns the configured timeout, shortened to the context deadline.
func (c *Client) timeoutFor(ctx context.Context) time.Duration {
	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); timeout <= 0 || remaining < timeout {
			timeout = remaining
		}
	}
	return timeout
}

// serverMessage extracts the "message" field of an error body, if any.
func serverMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	return strings.TrimSpace(payload.Message)
}
