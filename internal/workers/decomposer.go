// Package workers processes asynchronous planning jobs consumed from the
// job queue.
package workers

import (
	"context"
	"fmt"

	"github.com/voxtask/voxtask/internal/database"
	"github.com/voxtask/voxtask/internal/interpreter"
	"github.com/voxtask/voxtask/internal/models"
	"github.com/voxtask/voxtask/internal/queue"
	"go.uber.org/zap"
)

// GoalDecomposer processes goal decomposition and roadmap generation jobs
type GoalDecomposer struct {
	planner       interpreter.Planner
	goalRepo      *database.GoalRepository
	objectiveRepo *database.ObjectiveRepository
	taskRepo      *database.TaskRepository
	logger        *zap.Logger
}

// NewGoalDecomposer creates a new goal decomposer
func NewGoalDecomposer(
	planner interpreter.Planner,
	goalRepo *database.GoalRepository,
	objectiveRepo *database.ObjectiveRepository,
	taskRepo *database.TaskRepository,
	logger *zap.Logger,
) *GoalDecomposer {
	return &GoalDecomposer{
		planner:       planner,
		goalRepo:      goalRepo,
		objectiveRepo: objectiveRepo,
		taskRepo:      taskRepo,
		logger:        logger,
	}
}

// ProcessDecompositionJob breaks the job's goal into weekly objectives and
// generates tasks for each objective
func (d *GoalDecomposer) ProcessDecompositionJob(ctx context.Context, job *queue.Job) error {
	if job.GoalID == nil {
		return fmt.Errorf("goal_id is required for decomposition job")
	}

	goal, err := d.findGoal(ctx, job)
	if err != nil {
		return err
	}

	// Skip goals that already have objectives: the job may be a redelivery
	// after a partial failure, and re-decomposing would duplicate the plan.
	existing, err := d.objectiveRepo.ListByGoalID(ctx, goal.ID)
	if err != nil {
		return fmt.Errorf("failed to list objectives: %w", err)
	}
	if len(existing) > 0 {
		d.logger.Info("goal_already_decomposed",
			zap.String("goal_id", goal.ID.String()),
			zap.Int("objective_count", len(existing)),
		)
		return nil
	}

	objectives, err := d.planner.DecomposeGoal(ctx, goal)
	if err != nil {
		return fmt.Errorf("failed to decompose goal: %w", err)
	}

	created := 0
	for _, objective := range objectives {
		if err := d.objectiveRepo.Create(ctx, objective); err != nil {
			return fmt.Errorf("failed to save objective: %w", err)
		}
		created++

		week := 0
		if objective.WeekNumber != nil {
			week = *objective.WeekNumber
		}

		tasks, err := d.planner.GenerateTasks(ctx, objective, goal, week)
		if err != nil {
			// The objective stands on its own; log and keep going
			d.logger.Warn("failed_to_generate_tasks",
				zap.String("objective_id", objective.ID.String()),
				zap.Error(err),
			)
			continue
		}
		for _, task := range tasks {
			if err := d.taskRepo.Create(ctx, task); err != nil {
				return fmt.Errorf("failed to save task: %w", err)
			}
		}
	}

	d.logger.Info("goal_decomposed",
		zap.String("goal_id", goal.ID.String()),
		zap.String("user_id", job.UserID.String()),
		zap.Int("objectives_created", created),
	)
	return nil
}

// ProcessRoadmapJob regenerates a full roadmap from the goal's title and
// description, replacing nothing: new objectives and tasks are appended
func (d *GoalDecomposer) ProcessRoadmapJob(ctx context.Context, job *queue.Job) error {
	if job.GoalID == nil {
		return fmt.Errorf("goal_id is required for roadmap job")
	}

	goal, err := d.findGoal(ctx, job)
	if err != nil {
		return err
	}

	prompt := goal.Title
	if goal.Description != "" {
		prompt += ": " + goal.Description
	}

	roadmap, err := d.planner.CreateRoadmap(ctx, prompt, job.UserID)
	if err != nil {
		return fmt.Errorf("failed to generate roadmap: %w", err)
	}

	// The existing goal is the anchor; only the generated objectives and
	// tasks are persisted, re-pointed at it.
	for _, objective := range roadmap.Objectives {
		objective.GoalID = goal.ID
		if err := d.objectiveRepo.Create(ctx, objective); err != nil {
			return fmt.Errorf("failed to save objective: %w", err)
		}
	}
	goalID := goal.ID
	for _, task := range roadmap.Tasks {
		task.GoalID = &goalID
		if err := d.taskRepo.Create(ctx, task); err != nil {
			return fmt.Errorf("failed to save task: %w", err)
		}
	}

	d.logger.Info("roadmap_generated",
		zap.String("goal_id", goal.ID.String()),
		zap.Int("objectives_created", len(roadmap.Objectives)),
		zap.Int("tasks_created", len(roadmap.Tasks)),
	)
	return nil
}

func (d *GoalDecomposer) findGoal(ctx context.Context, job *queue.Job) (*models.Goal, error) {
	goals, err := d.goalRepo.ListByUserID(ctx, job.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list goals: %w", err)
	}
	for _, g := range goals {
		if g.ID == *job.GoalID {
			return g, nil
		}
	}
	return nil, fmt.Errorf("goal %s not found for user %s", job.GoalID, job.UserID)
}

// ProcessJob processes a job based on its type
func (d *GoalDecomposer) ProcessJob(ctx context.Context, msg *queue.Message) error {
	job := msg.Job

	switch job.Type {
	case queue.JobTypeGoalDecomposition:
		if err := d.ProcessDecompositionJob(ctx, job); err != nil {
			return d.handleJobError(msg, job, err)
		}
		if ackErr := msg.Ack(); ackErr != nil {
			return fmt.Errorf("failed to ack job: %w", ackErr)
		}
		return nil

	case queue.JobTypeRoadmapGeneration:
		if err := d.ProcessRoadmapJob(ctx, job); err != nil {
			return d.handleJobError(msg, job, err)
		}
		if ackErr := msg.Ack(); ackErr != nil {
			return fmt.Errorf("failed to ack job: %w", ackErr)
		}
		return nil

	default:
		// Unknown job type, send to DLQ
		if nackErr := msg.Nack(false); nackErr != nil {
			d.logger.Warn("failed_to_nack_unknown_job", zap.Error(nackErr))
		}
		return fmt.Errorf("unknown job type: %s", job.Type)
	}
}

// handleJobError retries failed jobs up to MaxRetries, then dead-letters them
func (d *GoalDecomposer) handleJobError(msg *queue.Message, job *queue.Job, err error) error {
	if job.CanRetry() {
		job.IncrementRetry()
		d.logger.Warn("job_failed_will_retry",
			zap.String("job_id", job.ID.String()),
			zap.String("job_type", string(job.Type)),
			zap.Int("attempt", job.RetryCount),
			zap.Int("max_retries", job.MaxRetries),
			zap.Error(err),
		)
		if nackErr := msg.Nack(true); nackErr != nil {
			d.logger.Warn("failed_to_nack_job", zap.Error(nackErr))
		}
		return fmt.Errorf("job failed (will retry): %w", err)
	}

	d.logger.Error("job_failed_max_retries",
		zap.String("job_id", job.ID.String()),
		zap.String("job_type", string(job.Type)),
		zap.Int("max_retries", job.MaxRetries),
		zap.Error(err),
	)
	if nackErr := msg.Nack(false); nackErr != nil {
		d.logger.Warn("failed_to_nack_job_to_dlq", zap.Error(nackErr))
	}
	return fmt.Errorf("job failed (max retries): %w", err)
}
