package interpreter

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/voxtask/voxtask/internal/models"
)

// Entity map keys produced by extraction. Completeness is validated by the
// dispatcher, not here: a cascade may legitimately leave required keys
// missing.
const (
	EntityTitle    = "title"
	EntityTime     = "time"
	EntityDate     = "date"
	EntityDuration = "duration"
	EntityTaskRef  = "taskRef"
	EntityField    = "field"
	EntityValue    = "value"
	EntityYear     = "year"
	EntityMonth    = "month"
	EntityCategory = "category"
	EntityGoalRef  = "goalRef"
	EntityWeek     = "week"
	EntityPrompt   = "prompt"
)

// extractRule is one pattern in an intent's cascade. Rules execute in order;
// a rule is skipped when its primary field is already set, so the first
// successful match for a field wins while unrelated fields continue to be
// searched independently.
type extractRule struct {
	field string
	apply func(text string, now time.Time, entities map[string]any)
}

var (
	quotedPattern   = regexp.MustCompile(`"([^"]+)"|'([^']+)'`)
	timePhrase      = regexp.MustCompile(`(?i)\b(\d{1,2}:\d{2}\s*(?:am|pm)?|\d{1,2}\s*(?:am|pm))\b`)
	datePhrase      = regexp.MustCompile(`(?i)\b(today|tomorrow|monday|tuesday|wednesday|thursday|friday|saturday|sunday|\d{4}-\d{2}-\d{2})\b`)
	durationPhrase  = regexp.MustCompile(`(?i)\b(\d+\s*(?:hours?|hrs?|minutes?|mins?))\b`)
	yearPhrase      = regexp.MustCompile(`\b(20\d{2})\b`)
	monthPhrase     = regexp.MustCompile(`(?i)\b(january|february|march|april|may|june|july|august|september|october|november|december)\b`)
	weekPhrase      = regexp.MustCompile(`(?i)\bweek\s+(\d{1,2})\b`)
	addTitleTail    = regexp.MustCompile(`(?i)\b(?:add|create|schedule)\s+(?:a\s+)?(?:new\s+)?(?:task\b\s*)?(?:to\s+|for\s+|called\s+|named\s+)?(.+)$`)
	goalTitleTail   = regexp.MustCompile(`(?i)\b(?:create|set|make|add|start)\s+(?:a\s+)?(?:new\s+)?goal\s+(?:to\s+|of\s+|for\s+)?(.+)$`)
	objTitleTail    = regexp.MustCompile(`(?i)\b(?:create|set|make|add|start)\s+(?:an?\s+)?(?:new\s+)?(?:objective|milestone)\s+(?:to\s+|of\s+|for\s+)?(.+?)(?:\s+(?:for|under|of)\s+(?:the\s+|my\s+)?goal\b.*)?$`)
	roadmapTail     = regexp.MustCompile(`(?i)\b(?:roadmap|strategy|journey|plan)\s+(?:to|for)\s+(.+)$`)
	goalRefTail     = regexp.MustCompile(`(?i)\b(?:for|under|of)\s+(?:the\s+|my\s+)?goal\s+(.+)$`)
	markAsPattern   = regexp.MustCompile(`(?i)\bmark\s+(?:the\s+)?(?:task\s+)?(.+?)\s+as\s+([a-z_ ]+)$`)
	modifyRefTail   = regexp.MustCompile(`(?i)\b(?:change|update|modify|set|rename)\s+(?:the\s+)?(?:task\s+)?(.+?)\s+(?:to|from)\b`)
	scheduleRefTail = regexp.MustCompile(`(?i)\b(?:schedule|move|reschedule|put)\s+(?:the\s+)?(?:task\s+)?(.+?)\s+(?:to|for|at|on)\b`)
	deleteRefTail   = regexp.MustCompile(`(?i)\b(?:delete|remove|cancel)\s+(?:the\s+)?(?:task\s+)?(.+)$`)

	fieldKeywordTrail = regexp.MustCompile(`(?i)\s+(?:priority|time|date|title|name|duration|status)\s*$`)

	// Per-branch value patterns for modify commands. Each field keyword has
	// its own capture so "change X time to 3pm" and "change X priority to
	// high" pull the right value shape.
	timeValue     = regexp.MustCompile(`(?i)\b(?:to|at)\s+(\d{1,2}(?::\d{2})?\s*(?:am|pm)?)\b`)
	dateValue     = regexp.MustCompile(`(?i)\bto\s+((?:next\s+)?[a-z]+day|today|tomorrow|\d{4}-\d{2}-\d{2}|\d{1,2}/\d{1,2}/\d{4})\b`)
	titleValue    = regexp.MustCompile(`(?i)\b(?:title|name)\s+to\s+(.+)$`)
	priorityValue = regexp.MustCompile(`(?i)\b(?:priority\s+)?to\s+([a-z]+)\b`)
	durationValue = regexp.MustCompile(`(?i)\bto\s+(\d+\s*(?:hours?|hrs?|minutes?|mins?)?)\s*$`)

	// titleTrailers are schedule fragments stripped from the end of a
	// captured title, repeatedly, until none remain.
	titleTrailers = regexp.MustCompile(`(?i)\s+(?:at\s+\d{1,2}(?::\d{2})?\s*(?:am|pm)?|on\s+(?:monday|tuesday|wednesday|thursday|friday|saturday|sunday)|today|tomorrow|for\s+\d+\s*(?:hours?|hrs?|minutes?|mins?)|this\s+(?:year|month)|next\s+(?:year|month)|in\s+20\d{2}|in\s+(?:january|february|march|april|may|june|july|august|september|october|november|december))\s*[.!?]?\s*$`)
)

// Extract pulls structured fields out of raw text for the given intent.
// Each intent has its own ordered cascade; when the primary cascade yields
// nothing, a secondary pass of broader keyword detection runs, which never
// overrides a primary match.
func Extract(intent models.Intent, text string, now time.Time) map[string]any {
	entities := make(map[string]any)
	text = strings.TrimSpace(text)

	for _, rule := range cascadeFor(intent) {
		if _, done := entities[rule.field]; done {
			continue
		}
		rule.apply(text, now, entities)
	}

	if len(entities) == 0 {
		for _, rule := range fallbackCascade {
			if _, done := entities[rule.field]; done {
				continue
			}
			rule.apply(text, now, entities)
		}
	}

	return entities
}

func cascadeFor(intent models.Intent) []extractRule {
	switch intent {
	case models.IntentAddTask:
		return addTaskCascade
	case models.IntentModifyTask:
		return modifyTaskCascade
	case models.IntentDeleteTask:
		return deleteTaskCascade
	case models.IntentScheduleTask:
		return scheduleTaskCascade
	case models.IntentCreateGoal:
		return createGoalCascade
	case models.IntentCreateObjective:
		return createObjectiveCascade
	case models.IntentCreateRoadmap:
		return createRoadmapCascade
	default:
		return nil
	}
}

var addTaskCascade = []extractRule{
	{field: EntityTitle, apply: captureQuoted(EntityTitle)},
	{field: EntityTime, apply: captureFirst(EntityTime, timePhrase)},
	{field: EntityDate, apply: captureFirst(EntityDate, datePhrase)},
	{field: EntityDuration, apply: captureFirst(EntityDuration, durationPhrase)},
	{field: EntityTitle, apply: applyAddTitle},
}

var modifyTaskCascade = []extractRule{
	{field: EntityTaskRef, apply: applyMarkAs},
	{field: EntityTaskRef, apply: captureTaskRef(modifyRefTail)},
	{field: EntityField, apply: fieldBranch("time", FieldScheduledTime, timeValue)},
	{field: EntityField, apply: fieldBranch("date", FieldScheduledDate, dateValue)},
	{field: EntityField, apply: titleFieldBranch},
	{field: EntityField, apply: fieldBranch("priority", FieldPriority, priorityValue)},
	{field: EntityField, apply: fieldBranch("duration", FieldDuration, durationValue)},
}

var deleteTaskCascade = []extractRule{
	{field: EntityTaskRef, apply: captureQuoted(EntityTaskRef)},
	{field: EntityTaskRef, apply: func(text string, _ time.Time, ents map[string]any) {
		if m := deleteRefTail.FindStringSubmatch(text); m != nil {
			ents[EntityTaskRef] = strings.Trim(strings.TrimSpace(m[1]), `."'!?`)
		}
	}},
}

var scheduleTaskCascade = []extractRule{
	{field: EntityTaskRef, apply: captureQuoted(EntityTaskRef)},
	{field: EntityTaskRef, apply: captureTaskRef(scheduleRefTail)},
	{field: EntityDate, apply: captureFirst(EntityDate, datePhrase)},
	{field: EntityTime, apply: captureFirst(EntityTime, timePhrase)},
}

var createGoalCascade = []extractRule{
	{field: EntityTitle, apply: captureQuoted(EntityTitle)},
	{field: EntityTitle, apply: captureTitleTail(goalTitleTail)},
	{field: EntityYear, apply: applyYear},
	{field: EntityMonth, apply: applyMonth},
	{field: EntityCategory, apply: applyCategory},
}

var createObjectiveCascade = []extractRule{
	{field: EntityTitle, apply: captureQuoted(EntityTitle)},
	{field: EntityTitle, apply: captureTitleTail(objTitleTail)},
	{field: EntityGoalRef, apply: func(text string, _ time.Time, ents map[string]any) {
		if m := goalRefTail.FindStringSubmatch(text); m != nil {
			ents[EntityGoalRef] = strings.Trim(strings.TrimSpace(m[1]), `."'!?`)
		}
	}},
	{field: EntityWeek, apply: func(text string, _ time.Time, ents map[string]any) {
		if m := weekPhrase.FindStringSubmatch(text); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil {
				ents[EntityWeek] = n
			}
		}
	}},
}

var createRoadmapCascade = []extractRule{
	{field: EntityPrompt, apply: func(text string, _ time.Time, ents map[string]any) {
		ents[EntityPrompt] = text
	}},
	{field: EntityTitle, apply: captureQuoted(EntityTitle)},
	{field: EntityTitle, apply: captureTitleTail(roadmapTail)},
	{field: EntityYear, apply: applyYear},
	{field: EntityCategory, apply: applyCategory},
}

// fallbackCascade is the secondary pass of broader keyword detection, run
// only when the primary cascade produced nothing at all.
var fallbackCascade = []extractRule{
	{field: EntityDate, apply: captureFirst(EntityDate, datePhrase)},
	{field: EntityTime, apply: captureFirst(EntityTime, timePhrase)},
	{field: EntityTitle, apply: captureQuoted(EntityTitle)},
}

func captureFirst(field string, pattern *regexp.Regexp) func(string, time.Time, map[string]any) {
	return func(text string, _ time.Time, ents map[string]any) {
		if m := pattern.FindStringSubmatch(text); m != nil {
			ents[field] = strings.TrimSpace(m[1])
		}
	}
}

func captureQuoted(field string) func(string, time.Time, map[string]any) {
	return func(text string, _ time.Time, ents map[string]any) {
		if m := quotedPattern.FindStringSubmatch(text); m != nil {
			if m[1] != "" {
				ents[field] = m[1]
			} else {
				ents[field] = m[2]
			}
		}
	}
}

func captureTitleTail(pattern *regexp.Regexp) func(string, time.Time, map[string]any) {
	return func(text string, _ time.Time, ents map[string]any) {
		if m := pattern.FindStringSubmatch(text); m != nil {
			if title := cleanTitle(m[1]); title != "" {
				ents[EntityTitle] = title
			}
		}
	}
}

// applyAddTitle captures an unquoted title from add phrasing. The optional
// "task" noun in the pattern can be reclaimed by the trailing capture when
// nothing follows it ("add a task"), so a capture that is just the bare noun
// is discarded rather than becoming a title.
func applyAddTitle(text string, _ time.Time, ents map[string]any) {
	m := addTitleTail.FindStringSubmatch(text)
	if m == nil {
		return
	}
	title := cleanTitle(m[1])
	if title == "" || strings.EqualFold(title, "task") {
		return
	}
	ents[EntityTitle] = title
}

func captureTaskRef(pattern *regexp.Regexp) func(string, time.Time, map[string]any) {
	return func(text string, _ time.Time, ents map[string]any) {
		if m := pattern.FindStringSubmatch(text); m != nil {
			ref := fieldKeywordTrail.ReplaceAllString(strings.TrimSpace(m[1]), "")
			ref = strings.Trim(ref, `"'`)
			if ref != "" {
				ents[EntityTaskRef] = ref
			}
		}
	}
}

// applyMarkAs handles "mark <task> as <status>" phrasing, which carries the
// reference, the field, and the value in one shot.
func applyMarkAs(text string, _ time.Time, ents map[string]any) {
	m := markAsPattern.FindStringSubmatch(text)
	if m == nil {
		return
	}
	ents[EntityTaskRef] = strings.Trim(strings.TrimSpace(m[1]), `"'`)
	ents[EntityField] = FieldStatus
	ents[EntityValue] = strings.TrimSpace(m[2])
}

// fieldBranch returns a rule body that fires when the field keyword appears
// in the text, capturing the value with that branch's own pattern.
func fieldBranch(keyword, canonicalField string, valuePattern *regexp.Regexp) func(string, time.Time, map[string]any) {
	keywordPattern := regexp.MustCompile(`(?i)\b` + keyword + `\b`)
	return func(text string, _ time.Time, ents map[string]any) {
		if !keywordPattern.MatchString(text) {
			return
		}
		ents[EntityField] = canonicalField
		if m := valuePattern.FindStringSubmatch(text); m != nil {
			ents[EntityValue] = strings.TrimSpace(m[1])
		}
	}
}

func titleFieldBranch(text string, _ time.Time, ents map[string]any) {
	if m := titleValue.FindStringSubmatch(text); m != nil {
		ents[EntityField] = FieldTitle
		ents[EntityValue] = strings.Trim(strings.TrimSpace(m[1]), `."'!?`)
	}
}

func applyYear(text string, now time.Time, ents map[string]any) {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "next year"):
		ents[EntityYear] = now.Year() + 1
	case strings.Contains(lower, "this year"):
		ents[EntityYear] = now.Year()
	default:
		if m := yearPhrase.FindStringSubmatch(text); m != nil {
			if y, err := strconv.Atoi(m[1]); err == nil {
				ents[EntityYear] = y
			}
		}
	}
}

var monthNumbers = map[string]int{
	"january": 1, "february": 2, "march": 3, "april": 4,
	"may": 5, "june": 6, "july": 7, "august": 8,
	"september": 9, "october": 10, "november": 11, "december": 12,
}

func applyMonth(text string, now time.Time, ents map[string]any) {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "next month"):
		next := now.AddDate(0, 1, 0)
		ents[EntityMonth] = int(next.Month())
	case strings.Contains(lower, "this month"):
		ents[EntityMonth] = int(now.Month())
	default:
		if m := monthPhrase.FindStringSubmatch(text); m != nil {
			ents[EntityMonth] = monthNumbers[strings.ToLower(m[1])]
		}
	}
}

// categoryKeywords drive topical category inference for goals and roadmaps.
var categoryKeywords = []struct {
	category models.GoalCategory
	words    []string
}{
	{models.GoalCategoryCareer, []string{"career", "job", "promotion", "work", "business", "startup"}},
	{models.GoalCategoryHealth, []string{"health", "fitness", "workout", "exercise", "weight", "gym", "run", "marathon"}},
	{models.GoalCategoryFinancial, []string{"money", "financial", "finance", "save", "saving", "invest", "debt", "budget"}},
	{models.GoalCategoryEducation, []string{"learn", "study", "course", "degree", "read", "language", "skill", "certification"}},
}

func applyCategory(text string, _ time.Time, ents map[string]any) {
	lower := strings.ToLower(text)
	for _, ck := range categoryKeywords {
		for _, w := range ck.words {
			if strings.Contains(lower, w) {
				ents[EntityCategory] = string(ck.category)
				return
			}
		}
	}
	ents[EntityCategory] = string(models.GoalCategoryPersonal)
}

// cleanTitle strips trailing schedule fragments ("at 5pm", "tomorrow", "for
// 2 hours") from a captured title, since those are extracted as their own
// entities.
func cleanTitle(raw string) string {
	title := strings.TrimSpace(raw)
	for {
		stripped := titleTrailers.ReplaceAllString(title, "")
		if stripped == title {
			break
		}
		title = stripped
	}
	title = strings.Trim(title, `."'!?`)
	return strings.TrimSpace(title)
}
