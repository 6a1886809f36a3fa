package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/voxtask/voxtask/internal/models"
)

// GoalRepository handles goal database operations
type GoalRepository struct {
	db *DB
}

// NewGoalRepository creates a new goal repository
func NewGoalRepository(db *DB) *GoalRepository {
	return &GoalRepository{db: db}
}

// Create creates a new goal
func (r *GoalRepository) Create(ctx context.Context, goal *models.Goal) error {
	query := `
		INSERT INTO goals (id, user_id, title, description, category, target_year, target_month, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at
	`

	now := time.Now()
	err := r.db.QueryRowContext(ctx, query,
		goal.ID,
		goal.UserID,
		goal.Title,
		goal.Description,
		goal.Category,
		goal.TargetYear,
		goal.TargetMonth,
		goal.Status,
		now,
		now,
	).Scan(&goal.CreatedAt, &goal.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create goal: %w", err)
	}

	return nil
}

// ListByUserID retrieves all goals for a user
func (r *GoalRepository) ListByUserID(ctx context.Context, userID uuid.UUID) ([]*models.Goal, error) {
	query := `
		SELECT id, user_id, title, description, category, target_year, target_month, status, created_at, updated_at
		FROM goals
		WHERE user_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query goals: %w", err)
	}
	defer rows.Close()

	var goals []*models.Goal
	for rows.Next() {
		goal := &models.Goal{}
		var description sql.NullString
		var targetMonth sql.NullInt64

		err := rows.Scan(
			&goal.ID,
			&goal.UserID,
			&goal.Title,
			&description,
			&goal.Category,
			&goal.TargetYear,
			&targetMonth,
			&goal.Status,
			&goal.CreatedAt,
			&goal.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan goal: %w", err)
		}

		goal.Description = description.String
		if targetMonth.Valid {
			month := int(targetMonth.Int64)
			goal.TargetMonth = &month
		}

		goals = append(goals, goal)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating goals: %w", err)
	}

	return goals, nil
}
