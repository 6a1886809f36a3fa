package queue

import (
	"context"
	"fmt"
	"time"

	"github.com/voxtask/voxtask/internal/models"
)

// DecompositionExpiry bounds how long a decomposition job stays relevant.
// A goal created a day ago and still undecomposed is better re-requested
// than processed stale.
const DecompositionExpiry = 24 * time.Hour

// GoalDecomposer enqueues goal decomposition jobs onto a JobQueue.
type GoalDecomposer struct {
	queue JobQueue
}

// NewGoalDecomposer creates a GoalDecomposer backed by the given queue.
func NewGoalDecomposer(q JobQueue) *GoalDecomposer {
	return &GoalDecomposer{queue: q}
}

// EnqueueGoalDecomposition schedules asynchronous decomposition of a goal
// into weekly objectives and tasks.
func (d *GoalDecomposer) EnqueueGoalDecomposition(ctx context.Context, goal *models.Goal) error {
	goalID := goal.ID
	job := NewJob(JobTypeGoalDecomposition, goal.UserID, &goalID)

	notAfter := time.Now().Add(DecompositionExpiry)
	job.NotAfter = &notAfter
	job.Metadata["goal_title"] = goal.Title
	job.Metadata["goal_category"] = string(goal.Category)

	if err := d.queue.Enqueue(ctx, job); err != nil {
		return fmt.Errorf("failed to enqueue decomposition job: %w", err)
	}

	return nil
}

// EnqueueRoadmapGeneration schedules asynchronous regeneration of a full
// roadmap for an existing goal. New objectives and tasks are appended to
// the goal when the worker processes the job.
func (d *GoalDecomposer) EnqueueRoadmapGeneration(ctx context.Context, goal *models.Goal) error {
	goalID := goal.ID
	job := NewJob(JobTypeRoadmapGeneration, goal.UserID, &goalID)

	notAfter := time.Now().Add(DecompositionExpiry)
	job.NotAfter = &notAfter
	job.Metadata["goal_title"] = goal.Title
	job.Metadata["goal_category"] = string(goal.Category)

	if err := d.queue.Enqueue(ctx, job); err != nil {
		return fmt.Errorf("failed to enqueue roadmap job: %w", err)
	}

	return nil
}
