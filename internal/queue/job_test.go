package queue

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestNewJob(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	goalID := uuid.New()
	job := NewJob(JobTypeGoalDecomposition, userID, &goalID)

	assert.NotEqual(t, uuid.Nil, job.ID)
	assert.Equal(t, JobTypeGoalDecomposition, job.Type)
	assert.Equal(t, userID, job.UserID)
	assert.Equal(t, &goalID, job.GoalID)
	assert.Equal(t, 0, job.RetryCount)
	assert.Equal(t, 3, job.MaxRetries)
	assert.NotNil(t, job.Metadata)
}

func TestJobShouldProcess(t *testing.T) {
	t.Parallel()

	job := NewJob(JobTypeGoalDecomposition, uuid.New(), nil)
	assert.True(t, job.ShouldProcess())

	future := time.Now().Add(time.Hour)
	job.NotBefore = &future
	assert.False(t, job.ShouldProcess())

	past := time.Now().Add(-time.Hour)
	job.NotBefore = &past
	assert.True(t, job.ShouldProcess())

	job.NotAfter = &past
	assert.False(t, job.ShouldProcess())
}

func TestJobIsExpired(t *testing.T) {
	t.Parallel()

	job := NewJob(JobTypeRoadmapGeneration, uuid.New(), nil)
	assert.False(t, job.IsExpired())

	future := time.Now().Add(time.Hour)
	job.NotAfter = &future
	assert.False(t, job.IsExpired())

	past := time.Now().Add(-time.Minute)
	job.NotAfter = &past
	assert.True(t, job.IsExpired())
}

func TestJobRetryAccounting(t *testing.T) {
	t.Parallel()

	job := NewJob(JobTypeGoalDecomposition, uuid.New(), nil)
	for i := 0; i < job.MaxRetries; i++ {
		assert.True(t, job.CanRetry())
		job.IncrementRetry()
	}
	assert.False(t, job.CanRetry())
	assert.Equal(t, 3, job.RetryCount)
}
