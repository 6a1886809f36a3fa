package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/voxtask/voxtask/internal/models"
)

// UserRepository handles user database operations
type UserRepository struct {
	db *DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

// GetBySubject retrieves a user by their token subject claim
func (r *UserRepository) GetBySubject(ctx context.Context, subject string) (*models.User, error) {
	user := &models.User{}
	var name sql.NullString

	query := `SELECT id, subject, email, name, created_at, updated_at FROM users WHERE subject = $1`
	err := r.db.QueryRowContext(ctx, query, subject).Scan(
		&user.ID,
		&user.Subject,
		&user.Email,
		&name,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	user.Name = name.String
	return user, nil
}

// GetOrCreate returns the user for the given claims, creating one on first
// sight of the subject
func (r *UserRepository) GetOrCreate(ctx context.Context, claims *models.JWTClaims) (*models.User, error) {
	user, err := r.GetBySubject(ctx, claims.Sub)
	if err != nil {
		return nil, err
	}
	if user != nil {
		return user, nil
	}

	user = &models.User{
		ID:      uuid.New(),
		Subject: claims.Sub,
		Email:   claims.Email,
		Name:    claims.Name,
	}

	now := time.Now()
	query := `
		INSERT INTO users (id, subject, email, name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (subject) DO UPDATE SET email = EXCLUDED.email, updated_at = EXCLUDED.updated_at
		RETURNING id, created_at, updated_at
	`
	err = r.db.QueryRowContext(ctx, query,
		user.ID,
		user.Subject,
		user.Email,
		nullableString(user.Name),
		now,
		now,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}
