package planner

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"
	"github.com/voxtask/voxtask/internal/interpreter"
	"github.com/voxtask/voxtask/internal/logger"
	"github.com/voxtask/voxtask/internal/models"
	"go.uber.org/zap"
)

const (
	// DefaultOpenAIModel is the default model to use
	DefaultOpenAIModel = "gpt-4o-mini"
	// DefaultOpenAIBaseURL is the default OpenAI API base URL
	DefaultOpenAIBaseURL = "https://api.openai.com/v1"
	// DefaultTimeout is the default timeout for API calls
	DefaultTimeout = 60 * time.Second

	// MaxObjectivesPerGoal caps how many objectives a decomposition may yield
	MaxObjectivesPerGoal = 12
	// MaxTasksPerObjective caps how many tasks a generation call may yield
	MaxTasksPerObjective = 10

	// ErrNoChoicesInResponse is returned when the API response has no choices
	ErrNoChoicesInResponse = "no choices in response"
)

// OpenAIPlanner implements the interpreter.Planner interface using OpenAI's
// chat completion API.
type OpenAIPlanner struct {
	client    openai.Client
	model     string
	logger    *zap.Logger
	debugMode bool
}

var _ interpreter.Planner = (*OpenAIPlanner)(nil)

// NewOpenAIPlanner creates a new OpenAI-backed planner
func NewOpenAIPlanner(apiKey string, model string) *OpenAIPlanner {
	return NewOpenAIPlannerWithLogger(apiKey, DefaultOpenAIBaseURL, model, nil, false)
}

// NewOpenAIPlannerWithLogger creates a new OpenAI-backed planner with logger support
func NewOpenAIPlannerWithLogger(apiKey string, baseURL string, model string, log *zap.Logger, debugMode bool) *OpenAIPlanner {
	if model == "" {
		model = DefaultOpenAIModel
	}
	if baseURL == "" {
		baseURL = DefaultOpenAIBaseURL
	}

	httpClient := &http.Client{
		Timeout: DefaultTimeout,
	}

	client := openai.NewClient(
		option.WithAPIKey(apiKey),
		option.WithBaseURL(baseURL),
		option.WithHTTPClient(httpClient),
	)

	return &OpenAIPlanner{
		client:    client,
		model:     model,
		logger:    log,
		debugMode: debugMode,
	}
}

// DecomposeGoal asks the model to break a goal into weekly objectives
func (p *OpenAIPlanner) DecomposeGoal(ctx context.Context, goal *models.Goal) ([]*models.Objective, error) {
	prompt := buildDecompositionPrompt(goal)
	content, err := p.complete(ctx, "decompose_goal",
		"You are a planning assistant that breaks long-term goals into weekly objectives. Respond with valid JSON only.",
		prompt,
	)
	if err != nil {
		return nil, err
	}

	var resp decompositionResponse
	if err := parseJSONResponse(content, &resp); err != nil {
		return nil, err
	}

	if len(resp.Objectives) == 0 {
		return nil, errors.New("decomposition returned no objectives")
	}
	if len(resp.Objectives) > MaxObjectivesPerGoal {
		resp.Objectives = resp.Objectives[:MaxObjectivesPerGoal]
	}

	now := time.Now()
	objectives := make([]*models.Objective, 0, len(resp.Objectives))
	for _, o := range resp.Objectives {
		title := strings.TrimSpace(o.Title)
		if title == "" {
			continue
		}
		week := o.WeekNumber
		objectives = append(objectives, &models.Objective{
			ID:         uuid.New(),
			UserID:     goal.UserID,
			GoalID:     goal.ID,
			Title:      title,
			WeekNumber: &week,
			Status:     models.GoalStatusActive,
			CreatedAt:  now,
			UpdatedAt:  now,
		})
	}

	return objectives, nil
}

// GenerateTasks asks the model for concrete tasks to accomplish an objective
// in the given week of the goal's plan
func (p *OpenAIPlanner) GenerateTasks(ctx context.Context, objective *models.Objective, goal *models.Goal, week int) ([]*models.Task, error) {
	prompt := buildTaskPrompt(objective, goal, week)
	content, err := p.complete(ctx, "generate_tasks",
		"You are a planning assistant that turns weekly objectives into small concrete tasks. Respond with valid JSON only.",
		prompt,
	)
	if err != nil {
		return nil, err
	}

	var resp taskListResponse
	if err := parseJSONResponse(content, &resp); err != nil {
		return nil, err
	}

	if len(resp.Tasks) > MaxTasksPerObjective {
		resp.Tasks = resp.Tasks[:MaxTasksPerObjective]
	}

	goalID := goal.ID
	objectiveID := objective.ID
	now := time.Now()
	tasks := make([]*models.Task, 0, len(resp.Tasks))
	for _, t := range resp.Tasks {
		title := strings.TrimSpace(t.Title)
		if title == "" {
			continue
		}
		tasks = append(tasks, &models.Task{
			ID:              uuid.New(),
			UserID:          goal.UserID,
			GoalID:          &goalID,
			ObjectiveID:     &objectiveID,
			Title:           title,
			Description:     t.Description,
			DurationMinutes: normalizeDuration(t.DurationMinutes),
			Priority:        normalizePriority(t.Priority),
			Status:          models.TaskStatusPending,
			CreatedAt:       now,
			UpdatedAt:       now,
		})
	}

	return tasks, nil
}

// CreateRoadmap asks the model for a complete goal with objectives and tasks
// from a freeform prompt
func (p *OpenAIPlanner) CreateRoadmap(ctx context.Context, prompt string, userID uuid.UUID) (*interpreter.Roadmap, error) {
	content, err := p.complete(ctx, "create_roadmap",
		"You are a planning assistant that builds complete roadmaps: one goal, weekly objectives, and concrete tasks per objective. Respond with valid JSON only.",
		buildRoadmapPrompt(prompt),
	)
	if err != nil {
		return nil, err
	}

	var resp roadmapResponse
	if err := parseJSONResponse(content, &resp); err != nil {
		return nil, err
	}

	if strings.TrimSpace(resp.Goal.Title) == "" {
		return nil, errors.New("roadmap returned no goal")
	}

	now := time.Now()
	goal := &models.Goal{
		ID:          uuid.New(),
		UserID:      userID,
		Title:       strings.TrimSpace(resp.Goal.Title),
		Description: resp.Goal.Description,
		Category:    normalizeCategory(resp.Goal.Category),
		TargetYear:  resp.Goal.TargetYear,
		Status:      models.GoalStatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if goal.TargetYear == 0 {
		goal.TargetYear = now.Year()
	}

	roadmap := &interpreter.Roadmap{Goal: goal}
	goalID := goal.ID

	for _, o := range resp.Objectives {
		title := strings.TrimSpace(o.Title)
		if title == "" {
			continue
		}
		week := o.WeekNumber
		objective := &models.Objective{
			ID:         uuid.New(),
			UserID:     userID,
			GoalID:     goalID,
			Title:      title,
			WeekNumber: &week,
			Status:     models.GoalStatusActive,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		roadmap.Objectives = append(roadmap.Objectives, objective)

		objectiveID := objective.ID
		for _, t := range o.Tasks {
			taskTitle := strings.TrimSpace(t.Title)
			if taskTitle == "" {
				continue
			}
			roadmap.Tasks = append(roadmap.Tasks, &models.Task{
				ID:              uuid.New(),
				UserID:          userID,
				GoalID:          &goalID,
				ObjectiveID:     &objectiveID,
				Title:           taskTitle,
				Description:     t.Description,
				DurationMinutes: normalizeDuration(t.DurationMinutes),
				Priority:        normalizePriority(t.Priority),
				Status:          models.TaskStatusPending,
				CreatedAt:       now,
				UpdatedAt:       now,
			})
		}
	}

	return roadmap, nil
}

// complete sends one system+user exchange and returns the raw response content
func (p *OpenAIPlanner) complete(ctx context.Context, operation, system, prompt string) (string, error) {
	messages := []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(system),
		openai.UserMessage(prompt),
	}
	req := openai.ChatCompletionNewParams{
		Model:    shared.ChatModel(p.model),
		Messages: messages,
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		},
	}

	if p.logger != nil && p.debugMode {
		p.logger.Debug("llm_api_request",
			zap.String("operation", operation),
			zap.String("model", p.model),
			zap.Int("prompt_length", len(prompt)),
			zap.String("prompt_preview", logger.SanitizeDebugContent(prompt)),
		)
	}

	start := time.Now()
	resp, err := p.client.Chat.Completions.New(ctx, req)
	latency := time.Since(start)
	if err != nil {
		if p.logger != nil && p.debugMode {
			p.logger.Debug("llm_api_error",
				zap.String("operation", operation),
				zap.String("model", p.model),
				zap.Error(err),
				zap.Int64("latency_ms", latency.Milliseconds()),
			)
		}
		return "", fmt.Errorf("failed to complete %s: %w", operation, err)
	}

	if len(resp.Choices) == 0 {
		return "", errors.New(ErrNoChoicesInResponse)
	}

	content := resp.Choices[0].Message.Content
	if p.logger != nil && p.debugMode {
		p.logger.Debug("llm_api_response",
			zap.String("operation", operation),
			zap.String("model", p.model),
			zap.Int("response_length", len(content)),
			zap.String("response_preview", logger.SanitizeDebugContent(content)),
			zap.Int64("latency_ms", latency.Milliseconds()),
		)
	}

	return content, nil
}

func buildDecompositionPrompt(goal *models.Goal) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Break this goal into weekly objectives (at most %d).\n\n", MaxObjectivesPerGoal)
	fmt.Fprintf(&b, "Goal: %s\n", goal.Title)
	if goal.Description != "" {
		fmt.Fprintf(&b, "Details: %s\n", goal.Description)
	}
	fmt.Fprintf(&b, "Category: %s\n", goal.Category)
	fmt.Fprintf(&b, "Target year: %d\n", goal.TargetYear)
	b.WriteString("\nRespond with JSON: {\"objectives\": [{\"title\": \"...\", \"week_number\": 1}]}")
	return b.String()
}

func buildTaskPrompt(objective *models.Objective, goal *models.Goal, week int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Suggest up to %d small concrete tasks for week %d of this plan.\n\n", MaxTasksPerObjective, week)
	fmt.Fprintf(&b, "Goal: %s\n", goal.Title)
	fmt.Fprintf(&b, "This week's objective: %s\n", objective.Title)
	b.WriteString("\nRespond with JSON: {\"tasks\": [{\"title\": \"...\", \"description\": \"...\", \"duration_minutes\": 30, \"priority\": \"medium\"}]}")
	return b.String()
}

func buildRoadmapPrompt(request string) string {
	var b strings.Builder
	b.WriteString("Build a complete roadmap for the following request. ")
	b.WriteString("Produce one goal, weekly objectives, and a few concrete tasks per objective.\n\n")
	fmt.Fprintf(&b, "Request: %s\n", request)
	b.WriteString("\nRespond with JSON: {\"goal\": {\"title\": \"...\", \"description\": \"...\", \"category\": \"personal\", \"target_year\": 2026}, ")
	b.WriteString("\"objectives\": [{\"title\": \"...\", \"week_number\": 1, \"tasks\": [{\"title\": \"...\", \"duration_minutes\": 30, \"priority\": \"medium\"}]}]}")
	return b.String()
}

func normalizePriority(raw string) models.Priority {
	switch p := models.Priority(strings.ToLower(strings.TrimSpace(raw))); p {
	case models.PriorityLow, models.PriorityMedium, models.PriorityHigh, models.PriorityCritical:
		return p
	default:
		return models.PriorityMedium
	}
}

func normalizeDuration(minutes int) int {
	if minutes <= 0 {
		return 30
	}
	return minutes
}

func normalizeCategory(raw string) models.GoalCategory {
	switch c := models.GoalCategory(strings.ToLower(strings.TrimSpace(raw))); c {
	case models.GoalCategoryCareer, models.GoalCategoryHealth, models.GoalCategoryFinancial,
		models.GoalCategoryEducation, models.GoalCategoryPersonal:
		return c
	default:
		return models.GoalCategoryPersonal
	}
}
