package taskform

import (
	"context"
	"testing"
	"time"

	"github.com/example/project-forms/domain/form"
	"github.com/example/project-forms/domain/task"
	"github.com/example/project-forms/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubBackend satisfies backend.BackendPort for module tests.
type stubBackend struct {
	fakeCreator
	tasks     []task.Task
	listErr   error
	listCalls int
}

func (b *stubBackend) Register(context.Context, user.Credentials) (user.Session, error) {
	return user.Session{}, nil
}

func (b *stubBackend) ListTasks(_ context.Context, _, _ string) ([]task.Task, error) {
	b.listCalls++
	return b.tasks, b.listErr
}

func startTestModule(t *testing.T, backend *stubBackend, placeholder bool) *TaskFormModule {
	t.Helper()

	m := NewModule(placeholder, 0)
	m.backendPort = backend
	require.NoError(t, m.Start(context.Background()))
	t.Cleanup(func() { _ = m.Stop(context.Background()) })
	return m
}

func TestTaskFormModule_FormLifecycle(t *testing.T) {
	backend := &stubBackend{tasks: availableTasks()}
	m := startTestModule(t, backend, false)
	ctx := context.Background()

	opened, err := m.openForm(ctx, OpenRequest{ProjectID: "p1", Token: "tok"}, nil)
	require.NoError(t, err)
	require.Nil(t, opened.Problem)
	assert.Equal(t, 1, backend.listCalls)
	assert.Len(t, opened.Form.Candidates, 2)
	id := opened.Form.ID

	title := "Write docs"
	edited, err := m.editForm(ctx, EditRequest{ID: id, Field: task.FieldTitle, Value: &title}, nil)
	require.NoError(t, err)
	require.Nil(t, edited.Problem)
	assert.Equal(t, "Write docs", edited.Form.Input.Title)

	_, err = m.editForm(ctx, EditRequest{ID: id, Field: task.FieldDependencies, Values: []string{"Review"}}, nil)
	require.NoError(t, err)

	submitted, err := m.submitForm(ctx, FormRequest{ID: id}, nil)
	require.NoError(t, err)
	require.Nil(t, submitted.Problem)
	require.NotNil(t, submitted.Task)
	assert.Equal(t, "t-new", submitted.Task.ID)
	assert.Equal(t, []string{"Review"}, submitted.Task.Dependencies)
	assert.Equal(t, form.PhaseSucceeded, submitted.Form.Status.Phase)
	assert.Equal(t, "tok", backend.calls[0].token)

	closed, err := m.closeForm(ctx, FormRequest{ID: id}, nil)
	require.NoError(t, err)
	assert.True(t, closed.Closed)

	again, err := m.closeForm(ctx, FormRequest{ID: id}, nil)
	require.NoError(t, err)
	require.NotNil(t, again.Problem)
	assert.Equal(t, form.CodeNotFound, again.Problem.Code)
}

func TestTaskFormModule_OpenWithSuppliedTasks(t *testing.T) {
	backend := &stubBackend{}
	m := startTestModule(t, backend, false)

	opened, err := m.openForm(context.Background(), OpenRequest{
		ProjectID: "p1",
		Tasks:     []task.Task{{ID: "9", Title: "Only"}},
	}, nil)

	require.NoError(t, err)
	assert.Zero(t, backend.listCalls, "supplied tasks are not reloaded")
	require.Len(t, opened.Form.Candidates, 1)
	assert.Equal(t, "Only", opened.Form.Candidates[0].Title)
}

func TestTaskFormModule_OpenProblems(t *testing.T) {
	backend := &stubBackend{listErr: &form.APIError{StatusCode: 404, Message: "project not found"}}
	m := startTestModule(t, backend, false)
	ctx := context.Background()

	resp, err := m.openForm(ctx, OpenRequest{}, nil)
	require.NoError(t, err)
	require.NotNil(t, resp.Problem)
	assert.Equal(t, form.CodeValidation, resp.Problem.Code)

	resp, err = m.openForm(ctx, OpenRequest{ProjectID: "missing"}, nil)
	require.NoError(t, err)
	require.NotNil(t, resp.Problem)
	assert.Equal(t, form.CodeAPI, resp.Problem.Code)
	assert.Equal(t, "project not found", resp.Problem.Message)
	assert.Zero(t, m.forms.Len())
}

func TestTaskFormModule_SubmitValidation(t *testing.T) {
	backend := &stubBackend{}
	m := startTestModule(t, backend, true)
	ctx := context.Background()

	opened, err := m.openForm(ctx, OpenRequest{ProjectID: "p1", Tasks: []task.Task{}}, nil)
	require.NoError(t, err)

	resp, err := m.submitForm(ctx, FormRequest{ID: opened.Form.ID}, nil)
	require.NoError(t, err)
	require.NotNil(t, resp.Problem)
	assert.Equal(t, "Title is required", resp.Problem.Message)
	assert.Equal(t, "Title is required", resp.Form.Status.Error)
	assert.Zero(t, backend.callCount())
}

func TestTaskFormModule_DiscardsIdleForms(t *testing.T) {
	m := NewModule(false, 50*time.Millisecond)
	m.backendPort = &stubBackend{tasks: availableTasks()}
	require.NoError(t, m.Start(context.Background()))
	t.Cleanup(func() { _ = m.Stop(context.Background()) })
	ctx := context.Background()

	opened, err := m.openForm(ctx, OpenRequest{ProjectID: "p1"}, nil)
	require.NoError(t, err)
	require.NotNil(t, opened.Form)

	require.Eventually(t, func() bool {
		return m.forms.Len() == 0
	}, 2*time.Second, 10*time.Millisecond)

	got, err := m.getForm(ctx, FormRequest{ID: opened.Form.ID}, nil)
	require.NoError(t, err)
	require.NotNil(t, got.Problem)
	assert.Equal(t, form.CodeNotFound, got.Problem.Code)
}
