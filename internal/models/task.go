package models

import (
	"time"

	"github.com/google/uuid"
)

// Priority represents how urgent a task is
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// TaskStatus represents the lifecycle state of a task
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusCancelled  TaskStatus = "cancelled"
)

// Task represents a scheduled or unscheduled task
type Task struct {
	ID              uuid.UUID  `json:"id"`
	UserID          uuid.UUID  `json:"user_id"`
	GoalID          *uuid.UUID `json:"goal_id,omitempty"`
	ObjectiveID     *uuid.UUID `json:"objective_id,omitempty"`
	Title           string     `json:"title"`
	Description     string     `json:"description,omitempty"`
	ScheduledDate   *time.Time `json:"scheduled_date,omitempty"`
	ScheduledTime   string     `json:"scheduled_time,omitempty"` // "HH:MM", 24-hour
	DurationMinutes int        `json:"duration_minutes"`
	Priority        Priority   `json:"priority"`
	Status          TaskStatus `json:"status"`
	Location        string     `json:"location,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
}
