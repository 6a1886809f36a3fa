package interpreter

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/voxtask/voxtask/internal/models"
)

// fakeStore is an in-memory Store. Error fields, when set, are returned by
// the corresponding method so downstream fault handling can be exercised.
type fakeStore struct {
	tasks      []*models.Task
	goals      []*models.Goal
	objectives []*models.Objective

	lastUpdate map[string]string

	listTasksErr  error
	createTaskErr error
	updateErr     error
	deleteErr     error
	createGoalErr error
}

func (s *fakeStore) ListTasks(_ context.Context, _ uuid.UUID, _, _ *time.Time) ([]*models.Task, error) {
	if s.listTasksErr != nil {
		return nil, s.listTasksErr
	}
	return s.tasks, nil
}

func (s *fakeStore) CreateTask(_ context.Context, task *models.Task) error {
	if s.createTaskErr != nil {
		return s.createTaskErr
	}
	s.tasks = append(s.tasks, task)
	return nil
}

func (s *fakeStore) UpdateTaskFields(_ context.Context, id uuid.UUID, fields map[string]string) (*models.Task, error) {
	if s.updateErr != nil {
		return nil, s.updateErr
	}
	s.lastUpdate = fields
	for _, task := range s.tasks {
		if task.ID != id {
			continue
		}
		for field, value := range fields {
			switch field {
			case FieldTitle:
				task.Title = value
			case FieldPriority:
				task.Priority = models.Priority(value)
			case FieldStatus:
				task.Status = models.TaskStatus(value)
			case FieldScheduledDate:
				date, err := time.Parse("2006-01-02", value)
				if err != nil {
					return nil, err
				}
				task.ScheduledDate = &date
			case FieldScheduledTime:
				task.ScheduledTime = value
			case FieldDuration:
				minutes, err := strconv.Atoi(value)
				if err != nil {
					return nil, err
				}
				task.DurationMinutes = minutes
			case FieldLocation:
				task.Location = value
			}
		}
		return task, nil
	}
	return nil, errors.New("task not found")
}

func (s *fakeStore) DeleteTask(_ context.Context, id uuid.UUID) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	for idx, task := range s.tasks {
		if task.ID == id {
			s.tasks = append(s.tasks[:idx], s.tasks[idx+1:]...)
			return nil
		}
	}
	return errors.New("task not found")
}

func (s *fakeStore) ListGoals(_ context.Context, _ uuid.UUID) ([]*models.Goal, error) {
	return s.goals, nil
}

func (s *fakeStore) ListObjectives(_ context.Context, _ uuid.UUID) ([]*models.Objective, error) {
	return s.objectives, nil
}

func (s *fakeStore) CreateGoal(_ context.Context, goal *models.Goal) error {
	if s.createGoalErr != nil {
		return s.createGoalErr
	}
	s.goals = append(s.goals, goal)
	return nil
}

func (s *fakeStore) CreateObjective(_ context.Context, objective *models.Objective) error {
	s.objectives = append(s.objectives, objective)
	return nil
}

type fakePlanner struct {
	roadmap *Roadmap
	err     error
}

func (p *fakePlanner) DecomposeGoal(_ context.Context, _ *models.Goal) ([]*models.Objective, error) {
	return nil, p.err
}

func (p *fakePlanner) GenerateTasks(_ context.Context, _ *models.Objective, _ *models.Goal, _ int) ([]*models.Task, error) {
	return nil, p.err
}

func (p *fakePlanner) CreateRoadmap(_ context.Context, _ string, _ uuid.UUID) (*Roadmap, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.roadmap, nil
}

type fakeEnqueuer struct {
	goals []*models.Goal
	err   error
}

func (q *fakeEnqueuer) EnqueueGoalDecomposition(_ context.Context, goal *models.Goal) error {
	if q.err != nil {
		return q.err
	}
	q.goals = append(q.goals, goal)
	return nil
}

func newTestInterpreter(store *fakeStore, opts ...Option) *Interpreter {
	opts = append([]Option{WithClock(func() time.Time { return anchor })}, opts...)
	return New(store, &fakePlanner{}, opts...)
}

func TestExecuteAddTaskAppliesDefaults(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	interp := newTestInterpreter(store)
	userID := uuid.New()

	result := interp.Execute(context.Background(), userID, models.Utterance{
		Text: `add task "buy groceries" tomorrow at 5pm`,
	})
	require.True(t, result.Success, result.Message)
	assert.Contains(t, result.Message, "buy groceries")

	require.Len(t, store.tasks, 1)
	task := store.tasks[0]
	assert.Equal(t, userID, task.UserID)
	assert.Equal(t, models.PriorityMedium, task.Priority)
	assert.Equal(t, models.TaskStatusPending, task.Status)
	assert.Equal(t, DefaultDurationMinutes, task.DurationMinutes)
	require.NotNil(t, task.ScheduledDate)
	assert.Equal(t, "2026-03-05", task.ScheduledDate.Format("2006-01-02"))
	assert.Equal(t, "17:00", task.ScheduledTime)
}

func TestExecuteAddTaskMissingTitle(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	interp := newTestInterpreter(store)

	result := interp.Execute(context.Background(), uuid.New(), models.Utterance{Text: "add a task"})
	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "task title")
	assert.Contains(t, result.Message, `add task "buy groceries"`)
	assert.Empty(t, store.tasks)
}

func TestExecuteModifyTaskPriority(t *testing.T) {
	t.Parallel()

	store := &fakeStore{tasks: taskList("Team Meeting", "Gym")}
	interp := newTestInterpreter(store)

	result := interp.Execute(context.Background(), uuid.New(), models.Utterance{
		Text: "change the task Team Meeting priority to high",
	})
	require.True(t, result.Success, result.Message)
	assert.Equal(t, `Updated priority of "Team Meeting" to high`, result.Message)
	assert.Equal(t, map[string]string{FieldPriority: "high"}, store.lastUpdate)
	assert.Equal(t, models.PriorityHigh, store.tasks[0].Priority)
}

func TestExecuteModifyWithoutTaskWord(t *testing.T) {
	t.Parallel()

	store := &fakeStore{tasks: taskList("Team Meeting")}
	interp := newTestInterpreter(store)

	// No "task" noun anywhere; the field keyword carries the intent.
	result := interp.Execute(context.Background(), uuid.New(), models.Utterance{
		Text: "change Team Meeting priority to high",
	})
	require.True(t, result.Success, result.Message)
	assert.Equal(t, map[string]string{FieldPriority: "high"}, store.lastUpdate)
	assert.Equal(t, models.PriorityHigh, store.tasks[0].Priority)
}

func TestExecuteMarkAsDone(t *testing.T) {
	t.Parallel()

	store := &fakeStore{tasks: taskList("Buy milk")}
	interp := newTestInterpreter(store)

	result := interp.Execute(context.Background(), uuid.New(), models.Utterance{
		Text: "mark buy milk as done",
	})
	require.True(t, result.Success, result.Message)
	assert.Equal(t, map[string]string{FieldStatus: "completed"}, store.lastUpdate)
	assert.Equal(t, models.TaskStatusCompleted, store.tasks[0].Status)
}

func TestExecuteModifyUnknownTaskListsCandidates(t *testing.T) {
	t.Parallel()

	store := &fakeStore{tasks: taskList("Team Meeting")}
	interp := newTestInterpreter(store)

	result := interp.Execute(context.Background(), uuid.New(), models.Utterance{
		Text: "change the task quarterly report priority to high",
	})
	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "couldn't find a task matching")
	assert.Contains(t, result.Message, "Team Meeting")
}

func TestExecuteDeleteTask(t *testing.T) {
	t.Parallel()

	store := &fakeStore{tasks: taskList("Dentist appointment", "Gym")}
	interp := newTestInterpreter(store)

	result := interp.Execute(context.Background(), uuid.New(), models.Utterance{
		Text: `delete task "dentist appointment"`,
	})
	require.True(t, result.Success, result.Message)
	assert.Equal(t, `Deleted task "Dentist appointment"`, result.Message)
	require.Len(t, store.tasks, 1)
	assert.Equal(t, "Gym", store.tasks[0].Title)
}

func TestExecuteLowConfidenceAsksForConfirmation(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	interp := newTestInterpreter(store)

	result := interp.Execute(context.Background(), uuid.New(), models.Utterance{Text: "hello there"})
	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "rephrase")

	parsed, ok := result.Data.(models.ParsedCommand)
	require.True(t, ok)
	assert.Equal(t, models.IntentAskQuestion, parsed.Intent)
	assert.Equal(t, fallbackConfidence, parsed.Confidence)
}

func TestExecuteIntentHintBypassesClassifier(t *testing.T) {
	t.Parallel()

	store := &fakeStore{tasks: taskList("Workout")}
	interp := newTestInterpreter(store)

	// The surface already disambiguated the intent; the date phrase wins
	// over the bare time when both are present.
	result := interp.Execute(context.Background(), uuid.New(), models.Utterance{
		Text:    `move "workout" to tomorrow at 9am`,
		Context: map[string]string{"intent": "schedule_task"},
	})
	require.True(t, result.Success, result.Message)
	assert.Equal(t, map[string]string{FieldScheduledDate: "2026-03-05"}, store.lastUpdate)
}

func TestExecuteInvalidIntentHintFallsBackToClassifier(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	interp := newTestInterpreter(store)

	parsed := interp.Parse(models.Utterance{
		Text:    `add task "water the plants"`,
		Context: map[string]string{"intent": "launch_missiles"},
	})
	assert.Equal(t, models.IntentAddTask, parsed.Intent)
	assert.Equal(t, 0.8, parsed.Confidence)
}

func TestExecuteCreateGoalEnqueuesDecomposition(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	enqueuer := &fakeEnqueuer{}
	interp := newTestInterpreter(store, WithDecompositionQueue(enqueuer))

	result := interp.Execute(context.Background(), uuid.New(), models.Utterance{
		Text: "create a goal to run a marathon in 2027",
	})
	require.True(t, result.Success, result.Message)
	assert.Contains(t, result.Message, "break it down")

	require.Len(t, store.goals, 1)
	goal := store.goals[0]
	assert.Equal(t, "run a marathon", goal.Title)
	assert.Equal(t, models.GoalCategoryHealth, goal.Category)
	assert.Equal(t, 2027, goal.TargetYear)
	assert.Equal(t, models.GoalStatusActive, goal.Status)

	require.Len(t, enqueuer.goals, 1)
	assert.Equal(t, goal.ID, enqueuer.goals[0].ID)
}

func TestExecuteCreateGoalSurvivesEnqueueFailure(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	enqueuer := &fakeEnqueuer{err: errors.New("broker unavailable")}
	interp := newTestInterpreter(store, WithDecompositionQueue(enqueuer))

	result := interp.Execute(context.Background(), uuid.New(), models.Utterance{
		Text: "create a goal to learn spanish this year",
	})
	require.True(t, result.Success, result.Message)
	assert.NotContains(t, result.Message, "break it down")
	assert.Len(t, store.goals, 1)
}

func TestExecuteCreateObjectiveUnderGoal(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	older := &models.Goal{
		ID:        uuid.New(),
		UserID:    userID,
		Title:     "Get promoted",
		Status:    models.GoalStatusActive,
		CreatedAt: anchor.Add(-48 * time.Hour),
	}
	newer := &models.Goal{
		ID:        uuid.New(),
		UserID:    userID,
		Title:     "Write a novel",
		Status:    models.GoalStatusActive,
		CreatedAt: anchor,
	}
	store := &fakeStore{goals: []*models.Goal{older, newer}}
	interp := newTestInterpreter(store)

	// No goal reference: attaches to the most recently created active goal.
	result := interp.Execute(context.Background(), userID, models.Utterance{
		Text: "add an objective to finish chapter one",
	})
	require.True(t, result.Success, result.Message)
	require.Len(t, store.objectives, 1)
	assert.Equal(t, newer.ID, store.objectives[0].GoalID)
	assert.Equal(t, "finish chapter one", store.objectives[0].Title)

	// An explicit goal reference matches by title substring instead.
	result = interp.Execute(context.Background(), userID, models.Utterance{
		Text:    "add an objective to draft the outline for my goal get promoted",
		Context: map[string]string{"intent": "create_objective"},
	})
	require.True(t, result.Success, result.Message)
	require.Len(t, store.objectives, 2)
	assert.Equal(t, older.ID, store.objectives[1].GoalID)
}

func TestExecuteCreateObjectiveWithoutGoals(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	interp := newTestInterpreter(store)

	result := interp.Execute(context.Background(), uuid.New(), models.Utterance{
		Text: `add a milestone "first draft" for week 3`,
	})
	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "no goal found")
}

func TestExecuteCreateRoadmapPersistsAllParts(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	goalID := uuid.New()
	roadmap := &Roadmap{
		Goal: &models.Goal{ID: goalID, UserID: userID, Title: "Learn guitar"},
		Objectives: []*models.Objective{
			{ID: uuid.New(), UserID: userID, GoalID: goalID, Title: "Master open chords"},
			{ID: uuid.New(), UserID: userID, GoalID: goalID, Title: "Play a full song"},
		},
		Tasks: []*models.Task{
			{ID: uuid.New(), UserID: userID, Title: "Practice chord changes"},
			{ID: uuid.New(), UserID: userID, Title: "Learn a strumming pattern"},
			{ID: uuid.New(), UserID: userID, Title: "Record yourself playing"},
		},
	}

	store := &fakeStore{}
	interp := New(store, &fakePlanner{roadmap: roadmap}, WithClock(func() time.Time { return anchor }))

	result := interp.Execute(context.Background(), userID, models.Utterance{
		Text: "build me a complete plan to learn guitar",
	})
	require.True(t, result.Success, result.Message)
	assert.Equal(t, `Created "Learn guitar" with 2 objectives and 3 tasks`, result.Message)
	assert.Len(t, store.goals, 1)
	assert.Len(t, store.objectives, 2)
	assert.Len(t, store.tasks, 3)
}

func TestExecuteAskQuestionListsOpenTasks(t *testing.T) {
	t.Parallel()

	tasks := taskList(
		"Task one", "Task two", "Task three", "Task four",
		"Task five", "Task six", "Task seven",
	)
	for _, task := range tasks {
		task.Status = models.TaskStatusPending
	}
	tasks[6].Status = models.TaskStatusCompleted

	store := &fakeStore{tasks: tasks}
	interp := newTestInterpreter(store)

	result := interp.Execute(context.Background(), uuid.New(), models.Utterance{
		Text: "what do I have coming up",
	})
	require.True(t, result.Success, result.Message)
	assert.Contains(t, result.Message, "You have 6 open tasks")

	shown, ok := result.Data.([]*models.Task)
	require.True(t, ok)
	assert.Len(t, shown, maxCandidateTitles)
}

func TestExecuteAskQuestionWithNoTasks(t *testing.T) {
	t.Parallel()

	interp := newTestInterpreter(&fakeStore{})
	result := interp.Execute(context.Background(), uuid.New(), models.Utterance{
		Text: "show my tasks",
	})
	require.True(t, result.Success)
	assert.Contains(t, result.Message, "don't have any tasks yet")
}

func TestExecuteDownstreamFaultIsSanitized(t *testing.T) {
	t.Parallel()

	store := &fakeStore{createTaskErr: errors.New("pq: connection refused")}
	interp := newTestInterpreter(store)

	result := interp.Execute(context.Background(), uuid.New(), models.Utterance{
		Text: `add task "buy groceries"`,
	})
	assert.False(t, result.Success)
	assert.Equal(t, "Something went wrong while trying to save the task. Please try again.", result.Message)
	assert.NotContains(t, result.Message, "connection refused")
}

func TestExecuteParsedBypassesConfidenceGate(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	interp := newTestInterpreter(store)

	// A parse below the threshold, confirmed by the user and re-executed.
	parsed := models.ParsedCommand{
		Intent:     models.IntentAddTask,
		Entities:   map[string]any{EntityTitle: "water the plants"},
		Confidence: 1.0,
	}
	result := interp.ExecuteParsed(context.Background(), uuid.New(), parsed)
	require.True(t, result.Success, result.Message)
	require.Len(t, store.tasks, 1)
	assert.Equal(t, "water the plants", store.tasks[0].Title)
}

func TestParseDoesNotExecute(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	interp := newTestInterpreter(store)

	parsed := interp.Parse(models.Utterance{Text: `add task "buy groceries" tomorrow`})
	assert.Equal(t, models.IntentAddTask, parsed.Intent)
	assert.Equal(t, "buy groceries", parsed.Entities[EntityTitle])
	assert.Empty(t, store.tasks)
}

func TestValidIntent(t *testing.T) {
	t.Parallel()

	intent, ok := ValidIntent("schedule_task")
	assert.True(t, ok)
	assert.Equal(t, models.IntentScheduleTask, intent)

	_, ok = ValidIntent("launch_missiles")
	assert.False(t, ok)
}
