package interpreter

import (
	"strings"

	"github.com/voxtask/voxtask/internal/models"
)

// Classification is the result of intent classification for one utterance.
type Classification struct {
	Intent     models.Intent
	Confidence float64
}

// intentRule pairs a predicate with the intent and confidence it assigns.
// Rules are evaluated in order; the first match wins and no later rule is
// consulted. The ordering is deliberate: roadmap language is checked before
// goal language, and goal language before task verbs, so the richer flows
// are not shadowed by their more generic keywords.
type intentRule struct {
	intent     models.Intent
	confidence float64
	match      func(text string) bool
}

var (
	creationVerbs  = []string{"create", "build", "make", "plan"}
	roadmapWords   = []string{"roadmap", "strategy", "journey", "complete plan", "full plan"}
	goalVerbs      = []string{"create", "set", "make", "add", "start"}
	objectiveWords = []string{"objective", "milestone"}
	taskAddVerbs   = []string{"add", "create", "schedule"}
	modifyVerbs    = []string{"change", "update", "modify"}
	fieldKeywords  = []string{"priority", "time", "date", "title", "duration", "status"}
	deleteVerbs    = []string{"delete", "remove", "cancel"}
	questionWords  = []string{"what", "how", "when", "show", "list"}
)

var intentRules = []intentRule{
	{
		intent:     models.IntentCreateRoadmap,
		confidence: 0.9,
		match: func(text string) bool {
			return containsAny(text, creationVerbs) && containsAny(text, roadmapWords)
		},
	},
	{
		intent:     models.IntentCreateGoal,
		confidence: 0.85,
		match: func(text string) bool {
			return strings.Contains(text, "goal") && containsAny(text, goalVerbs) && !containsAny(text, roadmapWords)
		},
	},
	{
		intent:     models.IntentCreateObjective,
		confidence: 0.85,
		match: func(text string) bool {
			return containsAny(text, objectiveWords) && containsAny(text, goalVerbs)
		},
	},
	{
		intent:     models.IntentAddTask,
		confidence: 0.8,
		match: func(text string) bool {
			return containsAny(text, taskAddVerbs) && strings.Contains(text, "task")
		},
	},
	{
		intent:     models.IntentModifyTask,
		confidence: 0.7,
		match: func(text string) bool {
			// "mark X as done" carries no modify verb but is still a
			// field change.
			if hasAnyPrefixWord(text, []string{"mark"}) && strings.Contains(text, " as ") {
				return true
			}
			if !containsAny(text, modifyVerbs) {
				return false
			}
			// A field keyword stands in for the word "task": "change
			// Team Meeting priority to high" names no task noun.
			return strings.Contains(text, "task") || hasAnyPrefixWord(text, fieldKeywords)
		},
	},
	{
		intent:     models.IntentDeleteTask,
		confidence: 0.8,
		match: func(text string) bool {
			return containsAny(text, deleteVerbs) && strings.Contains(text, "task")
		},
	},
	{
		intent:     models.IntentAskQuestion,
		confidence: 0.6,
		match: func(text string) bool {
			return hasAnyPrefixWord(text, questionWords)
		},
	},
}

// fallbackConfidence is assigned when no rule matches. Callers should not
// auto-execute at this confidence.
const fallbackConfidence = 0.3

// Classify assigns exactly one intent and a confidence score to an
// utterance. Classification is deterministic: rules run in a fixed priority
// order and ties are broken by order, not score.
func Classify(text string) Classification {
	lower := strings.ToLower(strings.TrimSpace(text))
	for _, rule := range intentRules {
		if rule.match(lower) {
			return Classification{Intent: rule.intent, Confidence: rule.confidence}
		}
	}
	return Classification{Intent: models.IntentAskQuestion, Confidence: fallbackConfidence}
}

func containsAny(text string, words []string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}

// hasAnyPrefixWord reports whether any whitespace-separated token of text
// equals one of words. Interrogative words anywhere in the sentence count,
// so "show me my tasks" and "my tasks, show them" both match.
func hasAnyPrefixWord(text string, words []string) bool {
	for _, token := range strings.Fields(text) {
		token = strings.Trim(token, ".,!?")
		for _, w := range words {
			if token == w {
				return true
			}
		}
	}
	return false
}
