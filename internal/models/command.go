package models

// Intent is the categorical action an utterance requests
type Intent string

const (
	IntentAddTask         Intent = "add_task"
	IntentModifyTask      Intent = "modify_task"
	IntentDeleteTask      Intent = "delete_task"
	IntentScheduleTask    Intent = "schedule_task"
	IntentCreateGoal      Intent = "create_goal"
	IntentCreateObjective Intent = "create_objective"
	IntentCreateRoadmap   Intent = "create_roadmap"
	IntentAskQuestion     Intent = "ask_question"
)

// Utterance is a single raw command from a user, plus free-form hints
// supplied by the calling surface (voice pipeline, chat assistant, API).
type Utterance struct {
	Text    string            `json:"text"`
	Context map[string]string `json:"context,omitempty"`
}

// ParsedCommand is the outcome of intent classification and entity
// extraction for one utterance. It is never mutated after extraction.
type ParsedCommand struct {
	Intent     Intent         `json:"intent"`
	Entities   map[string]any `json:"entities"`
	Confidence float64        `json:"confidence"`
}

// FieldUpdate is the single field/value pair a modify or schedule command
// applies. Commands are restricted to one field change per utterance.
type FieldUpdate struct {
	CanonicalField string `json:"field"`
	CanonicalValue string `json:"value"`
}

// CommandResult is the uniform contract returned to every caller. Failures
// are represented as Success=false with a human-readable message; the
// pipeline never lets an error escape across this boundary.
type CommandResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}
