package interpreter

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/voxtask/voxtask/internal/models"
)

// Canonical field names used across the pipeline and the Store.
const (
	FieldTitle         = "title"
	FieldDescription   = "description"
	FieldPriority      = "priority"
	FieldStatus        = "status"
	FieldScheduledDate = "scheduledDate"
	FieldScheduledTime = "scheduledTime"
	FieldDuration      = "duration"
	FieldLocation      = "location"
)

// DefaultDurationMinutes is the value duration coercion falls back to when
// the raw input cannot be parsed as an integer.
const DefaultDurationMinutes = 30

// MaxTitleLength bounds task, goal, and objective titles.
const MaxTitleLength = 200

// fieldSynonyms maps normalized free-text field names to canonical fields.
var fieldSynonyms = map[string]string{
	"title":          FieldTitle,
	"name":           FieldTitle,
	"task name":      FieldTitle,
	"text":           FieldTitle,
	"description":    FieldDescription,
	"notes":          FieldDescription,
	"details":        FieldDescription,
	"priority":       FieldPriority,
	"prio":           FieldPriority,
	"importance":     FieldPriority,
	"urgency":        FieldPriority,
	"status":         FieldStatus,
	"state":          FieldStatus,
	"date":           FieldScheduledDate,
	"day":            FieldScheduledDate,
	"scheduled date": FieldScheduledDate,
	"due date":       FieldScheduledDate,
	"when":           FieldScheduledDate,
	"time":           FieldScheduledTime,
	"scheduled time": FieldScheduledTime,
	"at":             FieldScheduledTime,
	"duration":       FieldDuration,
	"length":         FieldDuration,
	"how long":       FieldDuration,
	"location":       FieldLocation,
	"where":          FieldLocation,
	"place":          FieldLocation,
}

// statusSynonyms maps free-text status words to canonical TaskStatus values.
var statusSynonyms = map[string]models.TaskStatus{
	"pending":     models.TaskStatusPending,
	"todo":        models.TaskStatusPending,
	"to do":       models.TaskStatusPending,
	"open":        models.TaskStatusPending,
	"in progress": models.TaskStatusInProgress,
	"in_progress": models.TaskStatusInProgress,
	"working":     models.TaskStatusInProgress,
	"active":      models.TaskStatusInProgress,
	"started":     models.TaskStatusInProgress,
	"completed":   models.TaskStatusCompleted,
	"complete":    models.TaskStatusCompleted,
	"done":        models.TaskStatusCompleted,
	"finished":    models.TaskStatusCompleted,
	"cancelled":   models.TaskStatusCancelled,
	"canceled":    models.TaskStatusCancelled,
}

// prioritySynonyms maps free-text priority words to canonical Priority values.
var prioritySynonyms = map[string]models.Priority{
	"low":       models.PriorityLow,
	"minor":     models.PriorityLow,
	"medium":    models.PriorityMedium,
	"normal":    models.PriorityMedium,
	"high":      models.PriorityHigh,
	"important": models.PriorityHigh,
	"critical":  models.PriorityCritical,
	"urgent":    models.PriorityCritical,
}

var nonAlnumPattern = regexp.MustCompile(`[^a-z0-9]+`)

// NormalizeField maps a free-text field name to its canonical field, or ""
// when the name is unknown. Lookup is case- and punctuation-insensitive;
// callers treat "" as an unsupported field.
func NormalizeField(name string) string {
	key := strings.TrimSpace(nonAlnumPattern.ReplaceAllString(strings.ToLower(name), " "))
	if canonical, ok := fieldSynonyms[key]; ok {
		return canonical
	}
	return ""
}

// NormalizeValue coerces a raw value into the canonical representation for
// the given canonical field. Priority silently defaults to medium and
// duration to 30 minutes on unrecognized input; dates fail with an
// InvalidValueError instead of defaulting.
func NormalizeValue(field, raw string, now time.Time) (string, error) {
	value := strings.TrimSpace(raw)

	switch field {
	case FieldPriority:
		if p, ok := prioritySynonyms[strings.ToLower(value)]; ok {
			return string(p), nil
		}
		return string(models.PriorityMedium), nil

	case FieldStatus:
		if s, ok := statusSynonyms[strings.ToLower(value)]; ok {
			return string(s), nil
		}
		return value, nil

	case FieldScheduledDate:
		date, err := ResolveDate(value, now)
		if err != nil {
			return "", err
		}
		return date.Format("2006-01-02"), nil

	case FieldScheduledTime:
		return ResolveTime(value), nil

	case FieldDuration:
		return strconv.Itoa(parseDurationMinutes(value)), nil

	default:
		return value, nil
	}
}

var durationPattern = regexp.MustCompile(`(\d+)\s*(hours?|hrs?|minutes?|mins?)?`)

func parseDurationMinutes(raw string) int {
	m := durationPattern.FindStringSubmatch(strings.ToLower(raw))
	if m == nil {
		return DefaultDurationMinutes
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return DefaultDurationMinutes
	}
	if strings.HasPrefix(m[2], "h") {
		n *= 60
	}
	return n
}

// ValidateFieldValue checks a canonical value against the rules for its
// field. Validation failures are reported, never silently corrected.
func ValidateFieldValue(field, value string) (bool, string) {
	switch field {
	case FieldPriority:
		switch models.Priority(value) {
		case models.PriorityLow, models.PriorityMedium, models.PriorityHigh, models.PriorityCritical:
			return true, ""
		}
		return false, "priority must be one of: low, medium, high, critical"

	case FieldStatus:
		switch models.TaskStatus(value) {
		case models.TaskStatusPending, models.TaskStatusInProgress, models.TaskStatusCompleted, models.TaskStatusCancelled:
			return true, ""
		}
		return false, "status must be one of: pending, in_progress, completed, cancelled"

	case FieldDuration:
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return false, "duration must be a positive number of minutes"
		}
		return true, ""

	case FieldTitle:
		if len(value) < 1 || len(value) > MaxTitleLength {
			return false, fmt.Sprintf("title must be between 1 and %d characters", MaxTitleLength)
		}
		return true, ""

	case FieldScheduledDate:
		if _, err := time.Parse("2006-01-02", value); err != nil {
			return false, "date must be in YYYY-MM-DD form"
		}
		return true, ""

	default:
		return true, ""
	}
}
