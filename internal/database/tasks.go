package database

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/voxtask/voxtask/internal/models"
)

// taskColumns is the canonical select list shared by every task query.
const taskColumns = `id, user_id, goal_id, objective_id, title, description, scheduled_date,
	scheduled_time, duration_minutes, priority, status, location, created_at, updated_at, completed_at`

// canonicalTaskColumns maps interpreter field names to table columns.
// Only fields in this map may be updated through UpdateFields.
var canonicalTaskColumns = map[string]string{
	"title":         "title",
	"description":   "description",
	"priority":      "priority",
	"status":        "status",
	"scheduledDate": "scheduled_date",
	"scheduledTime": "scheduled_time",
	"duration":      "duration_minutes",
	"location":      "location",
}

// TaskRepository handles task database operations
type TaskRepository struct {
	db *DB
}

// NewTaskRepository creates a new task repository
func NewTaskRepository(db *DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// Create creates a new task
func (r *TaskRepository) Create(ctx context.Context, task *models.Task) error {
	query := `
		INSERT INTO tasks (id, user_id, goal_id, objective_id, title, description, scheduled_date,
			scheduled_time, duration_minutes, priority, status, location, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING created_at, updated_at
	`

	now := time.Now()
	err := r.db.QueryRowContext(ctx, query,
		task.ID,
		task.UserID,
		task.GoalID,
		task.ObjectiveID,
		task.Title,
		task.Description,
		task.ScheduledDate,
		nullableString(task.ScheduledTime),
		task.DurationMinutes,
		task.Priority,
		task.Status,
		nullableString(task.Location),
		now,
		now,
	).Scan(&task.CreatedAt, &task.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}

	return nil
}

// GetByID retrieves a task by ID
func (r *TaskRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`

	task, err := scanTask(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("task not found: %w", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	return task, nil
}

// ListByUserID retrieves all tasks for a user, optionally bounded by
// scheduled date
func (r *TaskRepository) ListByUserID(ctx context.Context, userID uuid.UUID, dateFrom, dateTo *time.Time) ([]*models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE user_id = $1`
	args := []any{userID}
	argIndex := 2

	if dateFrom != nil {
		query += fmt.Sprintf(" AND scheduled_date >= $%d", argIndex)
		args = append(args, *dateFrom)
		argIndex++
	}

	if dateTo != nil {
		query += fmt.Sprintf(" AND scheduled_date <= $%d", argIndex)
		args = append(args, *dateTo)
		argIndex++
	}

	query += " ORDER BY created_at ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*models.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, task)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tasks: %w", err)
	}

	return tasks, nil
}

// UpdateFields applies a set of canonical field updates to a task and
// returns the updated row. Unknown field names are rejected. Setting status
// to completed stamps completed_at; any other status clears it.
func (r *TaskRepository) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]string) (*models.Task, error) {
	if len(fields) == 0 {
		return nil, fmt.Errorf("no fields to update")
	}

	query := "UPDATE tasks SET updated_at = $2"
	args := []any{id, time.Now()}
	argIndex := 3

	for field, value := range fields {
		column, ok := canonicalTaskColumns[field]
		if !ok {
			return nil, fmt.Errorf("unknown task field: %s", field)
		}

		if column == "duration_minutes" {
			minutes, err := strconv.Atoi(value)
			if err != nil {
				return nil, fmt.Errorf("invalid duration value %q: %w", value, err)
			}
			query += fmt.Sprintf(", duration_minutes = $%d", argIndex)
			args = append(args, minutes)
		} else {
			query += fmt.Sprintf(", %s = $%d", column, argIndex)
			args = append(args, value)
		}
		argIndex++

		if column == "status" {
			if models.TaskStatus(value) == models.TaskStatusCompleted {
				query += ", completed_at = NOW()"
			} else {
				query += ", completed_at = NULL"
			}
		}
	}

	query += " WHERE id = $1 RETURNING " + taskColumns

	task, err := scanTask(r.db.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("task not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return task, nil
}

// Delete deletes a task by ID
func (r *TaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("task not found")
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*models.Task, error) {
	task := &models.Task{}
	var description, scheduledTime, location sql.NullString
	var scheduledDate, completedAt sql.NullTime

	err := row.Scan(
		&task.ID,
		&task.UserID,
		&task.GoalID,
		&task.ObjectiveID,
		&task.Title,
		&description,
		&scheduledDate,
		&scheduledTime,
		&task.DurationMinutes,
		&task.Priority,
		&task.Status,
		&location,
		&task.CreatedAt,
		&task.UpdatedAt,
		&completedAt,
	)
	if err != nil {
		return nil, err
	}

	task.Description = description.String
	task.ScheduledTime = scheduledTime.String
	task.Location = location.String
	if scheduledDate.Valid {
		task.ScheduledDate = &scheduledDate.Time
	}
	if completedAt.Valid {
		task.CompletedAt = &completedAt.Time
	}

	return task, nil
}

func nullableString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
