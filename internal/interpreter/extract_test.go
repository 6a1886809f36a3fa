package interpreter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/voxtask/voxtask/internal/models"
)

func TestExtractAddTask(t *testing.T) {
	t.Parallel()

	t.Run("quoted title with schedule", func(t *testing.T) {
		t.Parallel()

		ents := Extract(models.IntentAddTask, `add task "buy groceries" tomorrow at 5pm`, anchor)
		assert.Equal(t, "buy groceries", ents[EntityTitle])
		assert.Equal(t, "tomorrow", ents[EntityDate])
		assert.Equal(t, "5pm", ents[EntityTime])
	})

	t.Run("unquoted title tail", func(t *testing.T) {
		t.Parallel()

		ents := Extract(models.IntentAddTask, "add a task to call mom tomorrow", anchor)
		assert.Equal(t, "call mom", ents[EntityTitle])
		assert.Equal(t, "tomorrow", ents[EntityDate])
	})

	t.Run("duration phrase", func(t *testing.T) {
		t.Parallel()

		ents := Extract(models.IntentAddTask, `add task "deep work" for 2 hours`, anchor)
		assert.Equal(t, "deep work", ents[EntityTitle])
		assert.Equal(t, "2 hours", ents[EntityDuration])
	})

	t.Run("quoted title wins over tail capture", func(t *testing.T) {
		t.Parallel()

		ents := Extract(models.IntentAddTask, `add task "review PRs" on friday`, anchor)
		assert.Equal(t, "review PRs", ents[EntityTitle])
	})

	t.Run("bare noun is not a title", func(t *testing.T) {
		t.Parallel()

		ents := Extract(models.IntentAddTask, "add a task", anchor)
		assert.NotContains(t, ents, EntityTitle)

		ents = Extract(models.IntentAddTask, "add a new task", anchor)
		assert.NotContains(t, ents, EntityTitle)
	})
}

func TestExtractModifyTask(t *testing.T) {
	t.Parallel()

	t.Run("priority change", func(t *testing.T) {
		t.Parallel()

		ents := Extract(models.IntentModifyTask, "change the task Team Meeting priority to high", anchor)
		assert.Equal(t, "Team Meeting", ents[EntityTaskRef])
		assert.Equal(t, FieldPriority, ents[EntityField])
		assert.Equal(t, "high", ents[EntityValue])
	})

	t.Run("time change", func(t *testing.T) {
		t.Parallel()

		ents := Extract(models.IntentModifyTask, "change the task standup time to 9:30am", anchor)
		assert.Equal(t, "standup", ents[EntityTaskRef])
		assert.Equal(t, FieldScheduledTime, ents[EntityField])
		assert.Equal(t, "9:30am", ents[EntityValue])
	})

	t.Run("mark as done", func(t *testing.T) {
		t.Parallel()

		ents := Extract(models.IntentModifyTask, "mark buy milk as done", anchor)
		assert.Equal(t, "buy milk", ents[EntityTaskRef])
		assert.Equal(t, FieldStatus, ents[EntityField])
		assert.Equal(t, "done", ents[EntityValue])
	})

	t.Run("title rename", func(t *testing.T) {
		t.Parallel()

		ents := Extract(models.IntentModifyTask, "change the task gym title to morning workout", anchor)
		assert.Equal(t, "gym", ents[EntityTaskRef])
		assert.Equal(t, FieldTitle, ents[EntityField])
		assert.Equal(t, "morning workout", ents[EntityValue])
	})
}

func TestExtractDeleteTask(t *testing.T) {
	t.Parallel()

	ents := Extract(models.IntentDeleteTask, `delete task "dentist appointment"`, anchor)
	assert.Equal(t, "dentist appointment", ents[EntityTaskRef])

	ents = Extract(models.IntentDeleteTask, "remove the task laundry", anchor)
	assert.Equal(t, "laundry", ents[EntityTaskRef])
}

func TestExtractScheduleTask(t *testing.T) {
	t.Parallel()

	ents := Extract(models.IntentScheduleTask, `move "workout" to tomorrow`, anchor)
	assert.Equal(t, "workout", ents[EntityTaskRef])
	assert.Equal(t, "tomorrow", ents[EntityDate])

	ents = Extract(models.IntentScheduleTask, "schedule the task review at 3pm", anchor)
	assert.Equal(t, "review", ents[EntityTaskRef])
	assert.Equal(t, "3pm", ents[EntityTime])
}

func TestExtractCreateGoal(t *testing.T) {
	t.Parallel()

	ents := Extract(models.IntentCreateGoal, "create a goal to run a marathon in 2027", anchor)
	assert.Equal(t, "run a marathon", ents[EntityTitle])
	assert.Equal(t, 2027, ents[EntityYear])
	assert.Equal(t, "health", ents[EntityCategory])

	ents = Extract(models.IntentCreateGoal, "set a goal to learn spanish this year", anchor)
	assert.Equal(t, "learn spanish", ents[EntityTitle])
	assert.Equal(t, anchor.Year(), ents[EntityYear])
	assert.Equal(t, "education", ents[EntityCategory])

	// No topical keyword falls back to personal.
	ents = Extract(models.IntentCreateGoal, `create a goal "declutter the garage"`, anchor)
	assert.Equal(t, "declutter the garage", ents[EntityTitle])
	assert.Equal(t, "personal", ents[EntityCategory])
}

func TestExtractCreateObjective(t *testing.T) {
	t.Parallel()

	ents := Extract(models.IntentCreateObjective, "add an objective to finish chapter one for my goal write a novel", anchor)
	assert.Equal(t, "finish chapter one", ents[EntityTitle])
	assert.Equal(t, "write a novel", ents[EntityGoalRef])

	ents = Extract(models.IntentCreateObjective, `add a milestone "first draft" for week 3`, anchor)
	assert.Equal(t, "first draft", ents[EntityTitle])
	assert.Equal(t, 3, ents[EntityWeek])
}

func TestExtractCreateRoadmap(t *testing.T) {
	t.Parallel()

	text := "build me a complete plan to learn guitar"
	ents := Extract(models.IntentCreateRoadmap, text, anchor)
	assert.Equal(t, text, ents[EntityPrompt])
	assert.Equal(t, "learn guitar", ents[EntityTitle])
	assert.Equal(t, "education", ents[EntityCategory])
}

func TestExtractFirstMatchPerFieldWins(t *testing.T) {
	t.Parallel()

	// Two time phrases: the first match is kept, later ones ignored.
	ents := Extract(models.IntentAddTask, `add task "calls" at 9am or 10am`, anchor)
	assert.Equal(t, "9am", ents[EntityTime])
}

func TestExtractFallbackOnlyWhenPrimaryEmpty(t *testing.T) {
	t.Parallel()

	// An unknown intent has no primary cascade, so the fallback pass runs.
	ents := Extract(models.IntentAskQuestion, "what is on tomorrow", anchor)
	assert.Equal(t, "tomorrow", ents[EntityDate])
}
