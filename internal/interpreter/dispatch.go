package interpreter

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/voxtask/voxtask/internal/models"
	"go.uber.org/zap"
)

// handlerFunc executes one intent after classification and extraction. Any
// returned error belongs to the taxonomy recovered by failureResult.
type handlerFunc func(ctx context.Context, i *Interpreter, userID uuid.UUID, entities map[string]any) (models.CommandResult, error)

// intentHandlers is the dispatch table. An intent missing from this table
// is a configuration defect, not a user error, and panics on dispatch.
var intentHandlers = map[models.Intent]handlerFunc{
	models.IntentAddTask:         handleAddTask,
	models.IntentModifyTask:      handleModifyTask,
	models.IntentDeleteTask:      handleDeleteTask,
	models.IntentScheduleTask:    handleScheduleTask,
	models.IntentCreateGoal:      handleCreateGoal,
	models.IntentCreateObjective: handleCreateObjective,
	models.IntentCreateRoadmap:   handleCreateRoadmap,
	models.IntentAskQuestion:     handleAskQuestion,
}

func (i *Interpreter) dispatch(ctx context.Context, userID uuid.UUID, parsed models.ParsedCommand) (models.CommandResult, error) {
	handler, ok := intentHandlers[parsed.Intent]
	if !ok {
		panic(fmt.Sprintf("interpreter: no handler registered for intent %q", parsed.Intent))
	}
	return handler(ctx, i, userID, parsed.Entities)
}

// failureResult converts a taxonomy error into the uniform CommandResult.
// Downstream faults are reported without exposing internals; everything
// else already carries a user-actionable message.
func failureResult(err error) models.CommandResult {
	var downstream *DownstreamError
	if errors.As(err, &downstream) {
		return models.CommandResult{
			Success: false,
			Message: fmt.Sprintf("Something went wrong while trying to %s. Please try again.", downstream.Op),
		}
	}
	return models.CommandResult{Success: false, Message: err.Error()}
}

func handleAddTask(ctx context.Context, i *Interpreter, userID uuid.UUID, entities map[string]any) (models.CommandResult, error) {
	title, _ := entities[EntityTitle].(string)
	if title == "" {
		return models.CommandResult{}, &MissingFieldError{
			Field: "task title",
			Hint:  `Try something like: add task "buy groceries" tomorrow at 5pm`,
		}
	}
	if ok, msg := ValidateFieldValue(FieldTitle, title); !ok {
		return models.CommandResult{}, &InvalidValueError{Field: "title", Value: title, Reason: msg}
	}

	now := i.now()
	task := &models.Task{
		ID:              uuid.New(),
		UserID:          userID,
		Title:           title,
		DurationMinutes: DefaultDurationMinutes,
		Priority:        models.PriorityMedium,
		Status:          models.TaskStatusPending,
	}

	if phrase, ok := entities[EntityDate].(string); ok {
		date, err := ResolveDate(phrase, now)
		if err != nil {
			return models.CommandResult{}, err
		}
		task.ScheduledDate = &date
	}
	if phrase, ok := entities[EntityTime].(string); ok {
		task.ScheduledTime = ResolveTime(phrase)
	}
	if phrase, ok := entities[EntityDuration].(string); ok {
		task.DurationMinutes = parseDurationMinutes(phrase)
	}

	if err := i.store.CreateTask(ctx, task); err != nil {
		return models.CommandResult{}, &DownstreamError{Op: "save the task", Err: err}
	}

	return models.CommandResult{
		Success: true,
		Message: fmt.Sprintf("Added task %q%s", task.Title, scheduleSuffix(task)),
		Data:    task,
	}, nil
}

func handleModifyTask(ctx context.Context, i *Interpreter, userID uuid.UUID, entities map[string]any) (models.CommandResult, error) {
	reference, _ := entities[EntityTaskRef].(string)
	if reference == "" {
		return models.CommandResult{}, &MissingFieldError{
			Field: "task reference",
			Hint:  `Tell me which task to change, e.g.: change "team meeting" priority to high`,
		}
	}

	fieldName, _ := entities[EntityField].(string)
	rawValue, _ := entities[EntityValue].(string)
	if fieldName == "" || rawValue == "" {
		return models.CommandResult{}, &MissingFieldError{
			Field: "change to apply",
			Hint:  "Say what to change: time, date, title, priority, or duration, and the new value.",
		}
	}

	return i.applyFieldUpdate(ctx, userID, reference, fieldName, rawValue)
}

func handleDeleteTask(ctx context.Context, i *Interpreter, userID uuid.UUID, entities map[string]any) (models.CommandResult, error) {
	reference, _ := entities[EntityTaskRef].(string)
	if reference == "" {
		return models.CommandResult{}, &MissingFieldError{
			Field: "task reference",
			Hint:  `Tell me which task to delete, e.g.: delete task "dentist appointment"`,
		}
	}

	task, err := i.resolver.Resolve(ctx, userID, reference)
	if err != nil {
		return models.CommandResult{}, err
	}

	if err := i.store.DeleteTask(ctx, task.ID); err != nil {
		return models.CommandResult{}, &DownstreamError{Op: "delete the task", Err: err}
	}

	return models.CommandResult{
		Success: true,
		Message: fmt.Sprintf("Deleted task %q", task.Title),
	}, nil
}

func handleScheduleTask(ctx context.Context, i *Interpreter, userID uuid.UUID, entities map[string]any) (models.CommandResult, error) {
	reference, _ := entities[EntityTaskRef].(string)
	if reference == "" {
		return models.CommandResult{}, &MissingFieldError{
			Field: "task reference",
			Hint:  `Tell me which task to schedule, e.g.: move "workout" to tomorrow`,
		}
	}

	// One field change per utterance: a date phrase takes precedence over a
	// bare time when both are present.
	if phrase, ok := entities[EntityDate].(string); ok {
		return i.applyFieldUpdate(ctx, userID, reference, FieldScheduledDate, phrase)
	}
	if phrase, ok := entities[EntityTime].(string); ok {
		return i.applyFieldUpdate(ctx, userID, reference, FieldScheduledTime, phrase)
	}

	return models.CommandResult{}, &MissingFieldError{
		Field: "date or time",
		Hint:  `Say when, e.g.: move "workout" to tomorrow, or schedule "workout" at 7am`,
	}
}

// applyFieldUpdate is the shared Resolved -> Validated -> Executed tail for
// modify and schedule commands: resolve the reference, normalize and
// validate the single field/value pair, then commit the mutation.
func (i *Interpreter) applyFieldUpdate(ctx context.Context, userID uuid.UUID, reference, fieldName, rawValue string) (models.CommandResult, error) {
	task, err := i.resolver.Resolve(ctx, userID, reference)
	if err != nil {
		return models.CommandResult{}, err
	}

	canonicalField := NormalizeField(fieldName)
	if canonicalField == "" {
		return models.CommandResult{}, &InvalidValueError{
			Field:  "field",
			Value:  fieldName,
			Reason: "supported fields are title, priority, status, date, time, duration, and location",
		}
	}

	canonicalValue, err := NormalizeValue(canonicalField, rawValue, i.now())
	if err != nil {
		return models.CommandResult{}, err
	}
	if ok, msg := ValidateFieldValue(canonicalField, canonicalValue); !ok {
		return models.CommandResult{}, &InvalidValueError{Field: canonicalField, Value: canonicalValue, Reason: msg}
	}

	update := models.FieldUpdate{CanonicalField: canonicalField, CanonicalValue: canonicalValue}
	updated, err := i.store.UpdateTaskFields(ctx, task.ID, map[string]string{update.CanonicalField: update.CanonicalValue})
	if err != nil {
		return models.CommandResult{}, &DownstreamError{Op: "update the task", Err: err}
	}

	return models.CommandResult{
		Success: true,
		Message: fmt.Sprintf("Updated %s of %q to %s", describeField(canonicalField), task.Title, canonicalValue),
		Data:    updated,
	}, nil
}

func handleCreateGoal(ctx context.Context, i *Interpreter, userID uuid.UUID, entities map[string]any) (models.CommandResult, error) {
	title, _ := entities[EntityTitle].(string)
	if title == "" {
		return models.CommandResult{}, &MissingFieldError{
			Field: "goal title",
			Hint:  "Try something like: create a goal to run a marathon this year",
		}
	}
	if ok, msg := ValidateFieldValue(FieldTitle, title); !ok {
		return models.CommandResult{}, &InvalidValueError{Field: "title", Value: title, Reason: msg}
	}

	goal := &models.Goal{
		ID:         uuid.New(),
		UserID:     userID,
		Title:      title,
		Category:   models.GoalCategoryPersonal,
		TargetYear: i.now().Year(),
		Status:     models.GoalStatusActive,
	}
	if category, ok := entities[EntityCategory].(string); ok {
		goal.Category = models.GoalCategory(category)
	}
	if year, ok := entities[EntityYear].(int); ok {
		goal.TargetYear = year
	}
	if month, ok := entities[EntityMonth].(int); ok {
		goal.TargetMonth = &month
	}

	if err := i.store.CreateGoal(ctx, goal); err != nil {
		return models.CommandResult{}, &DownstreamError{Op: "save the goal", Err: err}
	}

	message := fmt.Sprintf("Created %s goal %q for %d", goal.Category, goal.Title, goal.TargetYear)
	if i.decomposition != nil {
		if err := i.decomposition.EnqueueGoalDecomposition(ctx, goal); err != nil {
			i.logger.Warn("failed_to_enqueue_goal_decomposition",
				zap.String("goal_id", goal.ID.String()),
				zap.Error(err),
			)
		} else {
			message += ". I'll break it down into objectives shortly."
		}
	}

	return models.CommandResult{Success: true, Message: message, Data: goal}, nil
}

func handleCreateObjective(ctx context.Context, i *Interpreter, userID uuid.UUID, entities map[string]any) (models.CommandResult, error) {
	title, _ := entities[EntityTitle].(string)
	if title == "" {
		return models.CommandResult{}, &MissingFieldError{
			Field: "objective title",
			Hint:  "Try something like: add an objective to finish chapter one for my goal write a novel",
		}
	}
	if ok, msg := ValidateFieldValue(FieldTitle, title); !ok {
		return models.CommandResult{}, &InvalidValueError{Field: "title", Value: title, Reason: msg}
	}

	goalRef, _ := entities[EntityGoalRef].(string)
	goal, err := i.findGoal(ctx, userID, goalRef)
	if err != nil {
		return models.CommandResult{}, err
	}

	objective := &models.Objective{
		ID:     uuid.New(),
		UserID: userID,
		GoalID: goal.ID,
		Title:  title,
		Status: models.GoalStatusActive,
	}
	if week, ok := entities[EntityWeek].(int); ok {
		objective.WeekNumber = &week
	}

	if err := i.store.CreateObjective(ctx, objective); err != nil {
		return models.CommandResult{}, &DownstreamError{Op: "save the objective", Err: err}
	}

	return models.CommandResult{
		Success: true,
		Message: fmt.Sprintf("Added objective %q under goal %q", objective.Title, goal.Title),
		Data:    objective,
	}, nil
}

// findGoal resolves a goal reference by substring match against the user's
// goals. With no reference it falls back to the most recently created
// active goal; with no goals at all it reports NotFoundError.
func (i *Interpreter) findGoal(ctx context.Context, userID uuid.UUID, reference string) (*models.Goal, error) {
	goals, err := i.store.ListGoals(ctx, userID)
	if err != nil {
		return nil, &DownstreamError{Op: "list goals", Err: err}
	}
	if len(goals) == 0 {
		return nil, &NotFoundError{Kind: "goal"}
	}

	if reference != "" {
		ref := strings.ToLower(reference)
		for _, g := range goals {
			if strings.Contains(strings.ToLower(g.Title), ref) {
				return g, nil
			}
		}
		return nil, &NotFoundError{Kind: "goal", Reference: reference}
	}

	sort.SliceStable(goals, func(a, b int) bool {
		return goals[a].CreatedAt.After(goals[b].CreatedAt)
	})
	for _, g := range goals {
		if g.Status == models.GoalStatusActive {
			return g, nil
		}
	}
	return goals[0], nil
}

func handleCreateRoadmap(ctx context.Context, i *Interpreter, userID uuid.UUID, entities map[string]any) (models.CommandResult, error) {
	prompt, _ := entities[EntityPrompt].(string)
	if prompt == "" {
		return models.CommandResult{}, &MissingFieldError{
			Field: "roadmap description",
			Hint:  "Describe what you want a plan for, e.g.: build me a complete plan to learn guitar",
		}
	}

	roadmap, err := i.planner.CreateRoadmap(ctx, prompt, userID)
	if err != nil {
		return models.CommandResult{}, &DownstreamError{Op: "generate the roadmap", Err: err}
	}

	// The roadmap is opaque structured output; persist its parts verbatim.
	if roadmap.Goal != nil {
		if err := i.store.CreateGoal(ctx, roadmap.Goal); err != nil {
			return models.CommandResult{}, &DownstreamError{Op: "save the roadmap", Err: err}
		}
	}
	for _, objective := range roadmap.Objectives {
		if err := i.store.CreateObjective(ctx, objective); err != nil {
			return models.CommandResult{}, &DownstreamError{Op: "save the roadmap", Err: err}
		}
	}
	for _, task := range roadmap.Tasks {
		if err := i.store.CreateTask(ctx, task); err != nil {
			return models.CommandResult{}, &DownstreamError{Op: "save the roadmap", Err: err}
		}
	}

	title := "your roadmap"
	if roadmap.Goal != nil {
		title = fmt.Sprintf("%q", roadmap.Goal.Title)
	}
	return models.CommandResult{
		Success: true,
		Message: fmt.Sprintf("Created %s with %d objectives and %d tasks", title, len(roadmap.Objectives), len(roadmap.Tasks)),
		Data:    roadmap,
	}, nil
}

func handleAskQuestion(ctx context.Context, i *Interpreter, userID uuid.UUID, entities map[string]any) (models.CommandResult, error) {
	tasks, err := i.store.ListTasks(ctx, userID, nil, nil)
	if err != nil {
		return models.CommandResult{}, &DownstreamError{Op: "look up your tasks", Err: err}
	}

	if len(tasks) == 0 {
		return models.CommandResult{
			Success: true,
			Message: "You don't have any tasks yet. Try: add task \"plan the week\" tomorrow at 9am",
		}, nil
	}

	pending := make([]*models.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.Status == models.TaskStatusPending || t.Status == models.TaskStatusInProgress {
			pending = append(pending, t)
		}
	}
	shown := pending
	if len(shown) > maxCandidateTitles {
		shown = shown[:maxCandidateTitles]
	}

	titles := make([]string, len(shown))
	for idx, t := range shown {
		titles[idx] = fmt.Sprintf("%q%s", t.Title, scheduleSuffix(t))
	}

	return models.CommandResult{
		Success: true,
		Message: fmt.Sprintf("You have %d open tasks. Next up: %s", len(pending), strings.Join(titles, "; ")),
		Data:    shown,
	}, nil
}

func scheduleSuffix(task *models.Task) string {
	var parts []string
	if task.ScheduledDate != nil {
		parts = append(parts, "on "+task.ScheduledDate.Format("Monday, Jan 2"))
	}
	if task.ScheduledTime != "" {
		parts = append(parts, "at "+task.ScheduledTime)
	}
	if len(parts) == 0 {
		return ""
	}
	return " " + strings.Join(parts, " ")
}

func describeField(canonicalField string) string {
	switch canonicalField {
	case FieldScheduledDate:
		return "date"
	case FieldScheduledTime:
		return "time"
	default:
		return canonicalField
	}
}
