package database

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/voxtask/voxtask/internal/interpreter"
	"github.com/voxtask/voxtask/internal/models"
)

// Store aggregates the repositories behind the narrow persistence contract
// the interpreter depends on.
type Store struct {
	tasks      *TaskRepository
	goals      *GoalRepository
	objectives *ObjectiveRepository
}

// NewStore creates a store over the given repositories
func NewStore(tasks *TaskRepository, goals *GoalRepository, objectives *ObjectiveRepository) *Store {
	return &Store{tasks: tasks, goals: goals, objectives: objectives}
}

// Compile-time check that Store satisfies the interpreter contract
var _ interpreter.Store = (*Store)(nil)

// ListTasks returns the user's tasks, optionally bounded by scheduled date
func (s *Store) ListTasks(ctx context.Context, userID uuid.UUID, dateFrom, dateTo *time.Time) ([]*models.Task, error) {
	return s.tasks.ListByUserID(ctx, userID, dateFrom, dateTo)
}

// CreateTask persists a new task
func (s *Store) CreateTask(ctx context.Context, task *models.Task) error {
	return s.tasks.Create(ctx, task)
}

// UpdateTaskFields applies canonical field updates to a task
func (s *Store) UpdateTaskFields(ctx context.Context, id uuid.UUID, fields map[string]string) (*models.Task, error) {
	return s.tasks.UpdateFields(ctx, id, fields)
}

// DeleteTask removes a task
func (s *Store) DeleteTask(ctx context.Context, id uuid.UUID) error {
	return s.tasks.Delete(ctx, id)
}

// ListGoals returns the user's goals
func (s *Store) ListGoals(ctx context.Context, userID uuid.UUID) ([]*models.Goal, error) {
	return s.goals.ListByUserID(ctx, userID)
}

// ListObjectives returns the user's objectives
func (s *Store) ListObjectives(ctx context.Context, userID uuid.UUID) ([]*models.Objective, error) {
	return s.objectives.ListByUserID(ctx, userID)
}

// CreateGoal persists a new goal
func (s *Store) CreateGoal(ctx context.Context, goal *models.Goal) error {
	return s.goals.Create(ctx, goal)
}

// CreateObjective persists a new objective
func (s *Store) CreateObjective(ctx context.Context, objective *models.Objective) error {
	return s.objectives.Create(ctx, objective)
}
