// Package planner generates objectives, tasks, and full roadmaps from goals
// using a chat-completion model. All responses are requested as JSON and
// validated before anything is handed back to callers.
package planner

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// decompositionResponse is the JSON shape the model returns for goal
// decomposition requests.
type decompositionResponse struct {
	Objectives []objectivePayload `json:"objectives"`
}

type objectivePayload struct {
	Title      string `json:"title"`
	WeekNumber int    `json:"week_number"`
}

// taskListResponse is the JSON shape for task generation requests.
type taskListResponse struct {
	Tasks []taskPayload `json:"tasks"`
}

type taskPayload struct {
	Title           string `json:"title"`
	Description     string `json:"description,omitempty"`
	DurationMinutes int    `json:"duration_minutes,omitempty"`
	Priority        string `json:"priority,omitempty"`
}

// roadmapResponse is the JSON shape for full roadmap requests.
type roadmapResponse struct {
	Goal       goalPayload `json:"goal"`
	Objectives []struct {
		objectivePayload
		Tasks []taskPayload `json:"tasks,omitempty"`
	} `json:"objectives"`
}

type goalPayload struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`
	TargetYear  int    `json:"target_year,omitempty"`
}

// parseJSONResponse unmarshals model output into v, salvaging the outermost
// JSON object when the model wraps it in prose or code fences.
func parseJSONResponse(content string, v any) error {
	raw := content
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		if len(raw) > 0 && raw[0] != '{' {
			start := bytes.Index([]byte(raw), []byte("{"))
			end := bytes.LastIndex([]byte(raw), []byte("}"))
			if start != -1 && end != -1 && end > start {
				raw = raw[start : end+1]
			}
		}
		if err := json.Unmarshal([]byte(raw), v); err != nil {
			return fmt.Errorf("failed to parse planner response: %w", err)
		}
	}
	return nil
}
