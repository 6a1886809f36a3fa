package queue

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/voxtask/voxtask/internal/models"
)

type recordingQueue struct {
	jobs       []*Job
	enqueueErr error
}

func (q *recordingQueue) Enqueue(_ context.Context, job *Job) error {
	if q.enqueueErr != nil {
		return q.enqueueErr
	}
	q.jobs = append(q.jobs, job)
	return nil
}

func (q *recordingQueue) Consume(context.Context, int) (<-chan *Message, <-chan error, error) {
	return nil, nil, nil
}

func (q *recordingQueue) Close() error { return nil }

func (q *recordingQueue) HealthCheck(context.Context) error { return nil }

func testGoal() *models.Goal {
	return &models.Goal{
		ID:       uuid.New(),
		UserID:   uuid.New(),
		Title:    "run a marathon",
		Category: models.GoalCategoryHealth,
		Status:   models.GoalStatusActive,
	}
}

func TestEnqueueGoalDecomposition(t *testing.T) {
	t.Parallel()

	q := &recordingQueue{}
	goal := testGoal()

	err := NewGoalDecomposer(q).EnqueueGoalDecomposition(context.Background(), goal)
	require.NoError(t, err)
	require.Len(t, q.jobs, 1)

	job := q.jobs[0]
	assert.Equal(t, JobTypeGoalDecomposition, job.Type)
	assert.Equal(t, goal.UserID, job.UserID)
	require.NotNil(t, job.GoalID)
	assert.Equal(t, goal.ID, *job.GoalID)
	assert.Equal(t, goal.Title, job.Metadata["goal_title"])
	assert.Equal(t, "health", job.Metadata["goal_category"])

	require.NotNil(t, job.NotAfter)
	assert.WithinDuration(t, time.Now().Add(DecompositionExpiry), *job.NotAfter, time.Minute)
}

func TestEnqueueRoadmapGeneration(t *testing.T) {
	t.Parallel()

	q := &recordingQueue{}
	goal := testGoal()

	err := NewGoalDecomposer(q).EnqueueRoadmapGeneration(context.Background(), goal)
	require.NoError(t, err)
	require.Len(t, q.jobs, 1)

	job := q.jobs[0]
	assert.Equal(t, JobTypeRoadmapGeneration, job.Type)
	assert.Equal(t, goal.UserID, job.UserID)
	require.NotNil(t, job.GoalID)
	assert.Equal(t, goal.ID, *job.GoalID)
	assert.Equal(t, goal.Title, job.Metadata["goal_title"])
	require.NotNil(t, job.NotAfter)
}

func TestEnqueueWrapsQueueError(t *testing.T) {
	t.Parallel()

	q := &recordingQueue{enqueueErr: errors.New("broker gone")}
	d := NewGoalDecomposer(q)

	err := d.EnqueueGoalDecomposition(context.Background(), testGoal())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broker gone")

	err = d.EnqueueRoadmapGeneration(context.Background(), testGoal())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broker gone")
}
