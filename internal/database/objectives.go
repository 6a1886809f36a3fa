package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/voxtask/voxtask/internal/models"
)

// ObjectiveRepository handles objective database operations
type ObjectiveRepository struct {
	db *DB
}

// NewObjectiveRepository creates a new objective repository
func NewObjectiveRepository(db *DB) *ObjectiveRepository {
	return &ObjectiveRepository{db: db}
}

// Create creates a new objective
func (r *ObjectiveRepository) Create(ctx context.Context, objective *models.Objective) error {
	query := `
		INSERT INTO objectives (id, user_id, goal_id, title, week_number, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`

	now := time.Now()
	err := r.db.QueryRowContext(ctx, query,
		objective.ID,
		objective.UserID,
		objective.GoalID,
		objective.Title,
		objective.WeekNumber,
		objective.Status,
		now,
		now,
	).Scan(&objective.CreatedAt, &objective.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create objective: %w", err)
	}

	return nil
}

// ListByUserID retrieves all objectives for a user
func (r *ObjectiveRepository) ListByUserID(ctx context.Context, userID uuid.UUID) ([]*models.Objective, error) {
	return r.list(ctx, "user_id", userID)
}

// ListByGoalID retrieves all objectives under a goal
func (r *ObjectiveRepository) ListByGoalID(ctx context.Context, goalID uuid.UUID) ([]*models.Objective, error) {
	return r.list(ctx, "goal_id", goalID)
}

func (r *ObjectiveRepository) list(ctx context.Context, column string, id uuid.UUID) ([]*models.Objective, error) {
	query := fmt.Sprintf(`
		SELECT id, user_id, goal_id, title, week_number, status, created_at, updated_at
		FROM objectives
		WHERE %s = $1
		ORDER BY created_at ASC
	`, column)

	rows, err := r.db.QueryContext(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query objectives: %w", err)
	}
	defer rows.Close()

	var objectives []*models.Objective
	for rows.Next() {
		objective := &models.Objective{}
		var weekNumber sql.NullInt64

		err := rows.Scan(
			&objective.ID,
			&objective.UserID,
			&objective.GoalID,
			&objective.Title,
			&weekNumber,
			&objective.Status,
			&objective.CreatedAt,
			&objective.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan objective: %w", err)
		}

		if weekNumber.Valid {
			week := int(weekNumber.Int64)
			objective.WeekNumber = &week
		}

		objectives = append(objectives, objective)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating objectives: %w", err)
	}

	return objectives, nil
}
