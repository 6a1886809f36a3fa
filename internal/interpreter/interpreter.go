// Package interpreter turns an unstructured utterance into a validated,
// executable mutation against the user's stored tasks, goals, and
// objectives. One interpreter instance is shared by every entry point (text
// command, transcribed voice, chat assistant); the entry points are thin
// adapters that pass an utterance in and render a CommandResult out.
package interpreter

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/voxtask/voxtask/internal/models"
	"go.uber.org/zap"
)

// DefaultMinConfidence is the classification confidence below which a
// command is surfaced for confirmation instead of auto-executing.
const DefaultMinConfidence = 0.6

// Store is the persistence collaborator. All calls are assumed atomic and
// immediately consistent; the interpreter holds no cache and re-reads the
// task set on every resolution.
type Store interface {
	ListTasks(ctx context.Context, userID uuid.UUID, dateFrom, dateTo *time.Time) ([]*models.Task, error)
	CreateTask(ctx context.Context, task *models.Task) error
	UpdateTaskFields(ctx context.Context, id uuid.UUID, fields map[string]string) (*models.Task, error)
	DeleteTask(ctx context.Context, id uuid.UUID) error
	ListGoals(ctx context.Context, userID uuid.UUID) ([]*models.Goal, error)
	ListObjectives(ctx context.Context, userID uuid.UUID) ([]*models.Objective, error)
	CreateGoal(ctx context.Context, goal *models.Goal) error
	CreateObjective(ctx context.Context, objective *models.Objective) error
}

// Roadmap is the opaque structured result of generative roadmap creation.
// The interpreter performs no semantic understanding of it; it only forwards
// the parts into Store creation calls.
type Roadmap struct {
	Goal       *models.Goal
	Objectives []*models.Objective
	Tasks      []*models.Task
}

// Planner is the generative AI collaborator invoked for roadmap creation
// and goal decomposition flows.
type Planner interface {
	DecomposeGoal(ctx context.Context, goal *models.Goal) ([]*models.Objective, error)
	GenerateTasks(ctx context.Context, objective *models.Objective, goal *models.Goal, week int) ([]*models.Task, error)
	CreateRoadmap(ctx context.Context, prompt string, userID uuid.UUID) (*Roadmap, error)
}

// DecompositionEnqueuer schedules asynchronous decomposition of a freshly
// created goal. Enqueue failures are logged and swallowed: decomposition is
// enrichment, not part of the command's success criteria.
type DecompositionEnqueuer interface {
	EnqueueGoalDecomposition(ctx context.Context, goal *models.Goal) error
}

// Interpreter is the natural-language command pipeline: classify, extract,
// resolve, normalize/validate, execute. Stateless across invocations; safe
// for concurrent use.
type Interpreter struct {
	store         Store
	planner       Planner
	resolver      *TaskResolver
	decomposition DecompositionEnqueuer
	logger        *zap.Logger
	now           func() time.Time
	minConfidence float64
}

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithLogger sets the logger used for pipeline diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(i *Interpreter) { i.logger = logger }
}

// WithClock overrides the time source, primarily for tests.
func WithClock(now func() time.Time) Option {
	return func(i *Interpreter) { i.now = now }
}

// WithMinConfidence overrides the auto-execution confidence threshold.
// Entry points use values between 0.6 and 0.7.
func WithMinConfidence(threshold float64) Option {
	return func(i *Interpreter) { i.minConfidence = threshold }
}

// WithDecompositionQueue enables asynchronous goal decomposition after
// create_goal commands.
func WithDecompositionQueue(q DecompositionEnqueuer) Option {
	return func(i *Interpreter) { i.decomposition = q }
}

// New creates an interpreter bound to a store and a planner.
func New(store Store, planner Planner, opts ...Option) *Interpreter {
	i := &Interpreter{
		store:         store,
		planner:       planner,
		resolver:      NewTaskResolver(store),
		logger:        zap.NewNop(),
		now:           time.Now,
		minConfidence: DefaultMinConfidence,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Parse classifies and extracts an utterance without executing anything.
// Entry points use it to preview low-confidence commands for confirmation.
func (i *Interpreter) Parse(utterance models.Utterance) models.ParsedCommand {
	classification := i.classify(utterance)
	return models.ParsedCommand{
		Intent:     classification.Intent,
		Entities:   Extract(classification.Intent, utterance.Text, i.now()),
		Confidence: classification.Confidence,
	}
}

// Execute runs the full pipeline for one utterance. Every failure mode is
// converted into a CommandResult with Success=false and an actionable
// message; no error from the pipeline crosses this boundary.
func (i *Interpreter) Execute(ctx context.Context, userID uuid.UUID, utterance models.Utterance) models.CommandResult {
	parsed := i.Parse(utterance)

	i.logger.Debug("command_parsed",
		zap.String("user_id", userID.String()),
		zap.String("intent", string(parsed.Intent)),
		zap.Float64("confidence", parsed.Confidence),
	)

	if parsed.Confidence < i.minConfidence {
		return models.CommandResult{
			Success: false,
			Message: "I'm not sure what you meant. Could you rephrase that?",
			Data:    parsed,
		}
	}

	return i.ExecuteParsed(ctx, userID, parsed)
}

// ExecuteParsed executes an already-parsed command, bypassing the
// confidence gate. Entry points call this after the user confirms a
// low-confidence parse.
func (i *Interpreter) ExecuteParsed(ctx context.Context, userID uuid.UUID, parsed models.ParsedCommand) models.CommandResult {
	result, err := i.dispatch(ctx, userID, parsed)
	if err != nil {
		i.logger.Info("command_failed",
			zap.String("user_id", userID.String()),
			zap.String("intent", string(parsed.Intent)),
			zap.String("reason", err.Error()),
		)
		return failureResult(err)
	}
	return result
}

// classify honors an explicit intent hint from the calling surface (the
// Utterance context map) before falling back to keyword classification.
// Hinted intents execute at full confidence since the surface already
// disambiguated them.
func (i *Interpreter) classify(utterance models.Utterance) Classification {
	if hint, ok := utterance.Context["intent"]; ok {
		if intent, valid := validIntent(hint); valid {
			return Classification{Intent: intent, Confidence: 1.0}
		}
	}
	return Classify(utterance.Text)
}

// ValidIntent reports whether s names a known intent. Entry points use it
// to reject malformed confirmations before dispatch.
func ValidIntent(s string) (models.Intent, bool) {
	return validIntent(s)
}

func validIntent(s string) (models.Intent, bool) {
	switch intent := models.Intent(s); intent {
	case models.IntentAddTask, models.IntentModifyTask, models.IntentDeleteTask,
		models.IntentScheduleTask, models.IntentCreateGoal, models.IntentCreateObjective,
		models.IntentCreateRoadmap, models.IntentAskQuestion:
		return intent, true
	default:
		return "", false
	}
}
