package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/voxtask/voxtask/internal/models"
)

func TestParseJSONResponse(t *testing.T) {
	t.Parallel()

	var resp decompositionResponse
	err := parseJSONResponse(`{"objectives": [{"title": "Build a base", "week_number": 1}]}`, &resp)
	require.NoError(t, err)
	require.Len(t, resp.Objectives, 1)
	assert.Equal(t, "Build a base", resp.Objectives[0].Title)
	assert.Equal(t, 1, resp.Objectives[0].WeekNumber)
}

func TestParseJSONResponseSalvagesWrappedObject(t *testing.T) {
	t.Parallel()

	content := "Here is your plan:\n```json\n{\"tasks\": [{\"title\": \"Practice scales\"}]}\n```\nGood luck!"

	var resp taskListResponse
	err := parseJSONResponse(content, &resp)
	require.NoError(t, err)
	require.Len(t, resp.Tasks, 1)
	assert.Equal(t, "Practice scales", resp.Tasks[0].Title)
}

func TestParseJSONResponseRejectsGarbage(t *testing.T) {
	t.Parallel()

	var resp taskListResponse
	err := parseJSONResponse("I cannot help with that.", &resp)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse planner response")
}

func TestNormalizePriority(t *testing.T) {
	t.Parallel()

	assert.Equal(t, models.PriorityHigh, normalizePriority(" HIGH "))
	assert.Equal(t, models.PriorityCritical, normalizePriority("critical"))
	assert.Equal(t, models.PriorityMedium, normalizePriority("asap"))
	assert.Equal(t, models.PriorityMedium, normalizePriority(""))
}

func TestNormalizeDuration(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 45, normalizeDuration(45))
	assert.Equal(t, 30, normalizeDuration(0))
	assert.Equal(t, 30, normalizeDuration(-15))
}

func TestNormalizeCategory(t *testing.T) {
	t.Parallel()

	assert.Equal(t, models.GoalCategoryHealth, normalizeCategory("Health"))
	assert.Equal(t, models.GoalCategoryPersonal, normalizeCategory("mystery"))
}
