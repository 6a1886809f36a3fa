package models

import (
	"time"

	"github.com/google/uuid"
)

// GoalCategory represents the topical category of a goal
type GoalCategory string

const (
	GoalCategoryCareer    GoalCategory = "career"
	GoalCategoryHealth    GoalCategory = "health"
	GoalCategoryFinancial GoalCategory = "financial"
	GoalCategoryEducation GoalCategory = "education"
	GoalCategoryPersonal  GoalCategory = "personal"
)

// GoalStatus represents the lifecycle state of a goal or objective
type GoalStatus string

const (
	GoalStatusActive    GoalStatus = "active"
	GoalStatusCompleted GoalStatus = "completed"
	GoalStatusAbandoned GoalStatus = "abandoned"
)

// Goal represents a long-term goal, typically scoped to a year
type Goal struct {
	ID          uuid.UUID    `json:"id"`
	UserID      uuid.UUID    `json:"user_id"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Category    GoalCategory `json:"category"`
	TargetYear  int          `json:"target_year"`
	TargetMonth *int         `json:"target_month,omitempty"` // 1-12 when set
	Status      GoalStatus   `json:"status"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// Objective represents an intermediate milestone under a goal
type Objective struct {
	ID         uuid.UUID  `json:"id"`
	UserID     uuid.UUID  `json:"user_id"`
	GoalID     uuid.UUID  `json:"goal_id"`
	Title      string     `json:"title"`
	WeekNumber *int       `json:"week_number,omitempty"` // week within the goal's plan when set
	Status     GoalStatus `json:"status"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}
