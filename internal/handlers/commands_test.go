package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/voxtask/voxtask/internal/interpreter"
	"github.com/voxtask/voxtask/internal/models"
	"github.com/voxtask/voxtask/internal/request"
	"go.uber.org/zap"
)

// memoryStore is a minimal in-memory interpreter.Store for handler tests.
type memoryStore struct {
	tasks      []*models.Task
	goals      []*models.Goal
	objectives []*models.Objective
}

func (s *memoryStore) ListTasks(context.Context, uuid.UUID, *time.Time, *time.Time) ([]*models.Task, error) {
	return s.tasks, nil
}

func (s *memoryStore) CreateTask(_ context.Context, task *models.Task) error {
	s.tasks = append(s.tasks, task)
	return nil
}

func (s *memoryStore) UpdateTaskFields(_ context.Context, id uuid.UUID, _ map[string]string) (*models.Task, error) {
	for _, task := range s.tasks {
		if task.ID == id {
			return task, nil
		}
	}
	return nil, nil
}

func (s *memoryStore) DeleteTask(context.Context, uuid.UUID) error { return nil }

func (s *memoryStore) ListGoals(context.Context, uuid.UUID) ([]*models.Goal, error) {
	return s.goals, nil
}

func (s *memoryStore) ListObjectives(context.Context, uuid.UUID) ([]*models.Objective, error) {
	return s.objectives, nil
}

func (s *memoryStore) CreateGoal(_ context.Context, goal *models.Goal) error {
	s.goals = append(s.goals, goal)
	return nil
}

func (s *memoryStore) CreateObjective(_ context.Context, objective *models.Objective) error {
	s.objectives = append(s.objectives, objective)
	return nil
}

type noopPlanner struct{}

func (noopPlanner) DecomposeGoal(context.Context, *models.Goal) ([]*models.Objective, error) {
	return nil, nil
}

func (noopPlanner) GenerateTasks(context.Context, *models.Objective, *models.Goal, int) ([]*models.Task, error) {
	return nil, nil
}

func (noopPlanner) CreateRoadmap(context.Context, string, uuid.UUID) (*interpreter.Roadmap, error) {
	return &interpreter.Roadmap{}, nil
}

func newCommandHandler(store *memoryStore) *CommandHandler {
	interp := interpreter.New(store, noopPlanner{})
	return NewCommandHandler(interp, zap.NewNop())
}

func authed(r *http.Request) *http.Request {
	user := &models.User{ID: uuid.New()}
	return r.WithContext(request.WithUser(r.Context(), user))
}

func TestCommandExecute(t *testing.T) {
	t.Parallel()

	store := &memoryStore{}
	handler := newCommandHandler(store)

	body := `{"text": "add task \"buy groceries\" tomorrow at 5pm"}`
	req := authed(httptest.NewRequest("POST", "/api/v1/commands", strings.NewReader(body)))
	rec := httptest.NewRecorder()
	handler.Execute(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, store.tasks, 1)
	assert.Equal(t, "buy groceries", store.tasks[0].Title)

	var resp map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	result, ok := resp["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, true, result["success"])
}

func TestCommandExecuteRequiresUser(t *testing.T) {
	t.Parallel()

	handler := newCommandHandler(&memoryStore{})
	req := httptest.NewRequest("POST", "/api/v1/commands", strings.NewReader(`{"text": "add task x"}`))
	rec := httptest.NewRecorder()
	handler.Execute(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCommandExecuteRejectsInvalidBody(t *testing.T) {
	t.Parallel()

	handler := newCommandHandler(&memoryStore{})

	req := authed(httptest.NewRequest("POST", "/api/v1/commands", strings.NewReader("{not json")))
	rec := httptest.NewRecorder()
	handler.Execute(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req = authed(httptest.NewRequest("POST", "/api/v1/commands", strings.NewReader(`{"text": ""}`)))
	rec = httptest.NewRecorder()
	handler.Execute(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCommandParseDoesNotExecute(t *testing.T) {
	t.Parallel()

	store := &memoryStore{}
	handler := newCommandHandler(store)

	body := `{"text": "add task \"water the plants\""}`
	req := authed(httptest.NewRequest("POST", "/api/v1/commands/parse", strings.NewReader(body)))
	rec := httptest.NewRecorder()
	handler.Parse(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, store.tasks)

	var resp map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	parsed, ok := resp["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "add_task", parsed["intent"])
}

func TestCommandConfirm(t *testing.T) {
	t.Parallel()

	store := &memoryStore{}
	handler := newCommandHandler(store)

	body := `{"intent": "add_task", "entities": {"title": "water the plants"}}`
	req := authed(httptest.NewRequest("POST", "/api/v1/commands/confirm", strings.NewReader(body)))
	rec := httptest.NewRecorder()
	handler.Confirm(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, store.tasks, 1)
	assert.Equal(t, "water the plants", store.tasks[0].Title)
}

func TestCommandConfirmRejectsUnknownIntent(t *testing.T) {
	t.Parallel()

	handler := newCommandHandler(&memoryStore{})

	body := `{"intent": "launch_missiles", "entities": {}}`
	req := authed(httptest.NewRequest("POST", "/api/v1/commands/confirm", strings.NewReader(body)))
	rec := httptest.NewRecorder()
	handler.Confirm(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
