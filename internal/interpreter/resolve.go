package interpreter

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/voxtask/voxtask/internal/models"
)

// similarityThreshold is the minimum normalized edit-distance similarity a
// fuzzy candidate must exceed to be accepted in the final matching stage.
const similarityThreshold = 0.6

// maxCandidateTitles bounds how many task titles an AmbiguousReferenceError
// lists in its helper message.
const maxCandidateTitles = 5

// TaskResolver maps a vague textual task reference to exactly one stored
// task. Every call fetches a fresh snapshot of the user's tasks from the
// Store; nothing is cached between calls, so resolving the same reference
// twice against an unchanged task set returns the same task both times.
type TaskResolver struct {
	store Store
}

// NewTaskResolver creates a task resolver backed by the given store.
func NewTaskResolver(store Store) *TaskResolver {
	return &TaskResolver{store: store}
}

// matchStage is one matching strategy evaluated against the full task set.
// Stages run in order and the first stage producing any match wins outright:
// later stages are never consulted even if they could score higher. Match
// specificity by stage takes precedence over match quality by score; only
// within the final fuzzy stage is the maximum score selected.
type matchStage func(tasks []*models.Task, reference string) *models.Task

var matchStages = []matchStage{
	matchExactTitle,
	matchTitlePrefix,
	matchTitleSubstring,
	matchTokenOverlap,
	matchBySimilarity,
}

// Resolve finds the single best-matching stored task for a textual
// reference. When no stage produces a match it returns an
// AmbiguousReferenceError carrying up to five of the user's task titles.
func (r *TaskResolver) Resolve(ctx context.Context, userID uuid.UUID, reference string) (*models.Task, error) {
	tasks, err := r.store.ListTasks(ctx, userID, nil, nil)
	if err != nil {
		return nil, &DownstreamError{Op: "list tasks", Err: err}
	}

	ref := strings.ToLower(strings.TrimSpace(reference))
	if ref != "" {
		for _, stage := range matchStages {
			if task := stage(tasks, ref); task != nil {
				return task, nil
			}
		}
	}

	candidates := make([]string, 0, maxCandidateTitles)
	for _, t := range tasks {
		if len(candidates) == maxCandidateTitles {
			break
		}
		candidates = append(candidates, t.Title)
	}
	return nil, &AmbiguousReferenceError{Reference: reference, Candidates: candidates}
}

func matchExactTitle(tasks []*models.Task, ref string) *models.Task {
	for _, t := range tasks {
		if strings.ToLower(t.Title) == ref {
			return t
		}
	}
	return nil
}

func matchTitlePrefix(tasks []*models.Task, ref string) *models.Task {
	for _, t := range tasks {
		if strings.HasPrefix(strings.ToLower(t.Title), ref) {
			return t
		}
	}
	return nil
}

func matchTitleSubstring(tasks []*models.Task, ref string) *models.Task {
	for _, t := range tasks {
		if strings.Contains(strings.ToLower(t.Title), ref) {
			return t
		}
	}
	return nil
}

// matchTokenOverlap accepts a task when every whitespace-separated token of
// the reference is a substring of, or contains, some token of the title.
func matchTokenOverlap(tasks []*models.Task, ref string) *models.Task {
	refTokens := strings.Fields(ref)
	if len(refTokens) == 0 {
		return nil
	}
	for _, t := range tasks {
		titleTokens := strings.Fields(strings.ToLower(t.Title))
		if allTokensOverlap(refTokens, titleTokens) {
			return t
		}
	}
	return nil
}

func allTokensOverlap(refTokens, titleTokens []string) bool {
	for _, rt := range refTokens {
		found := false
		for _, tt := range titleTokens {
			if strings.Contains(tt, rt) || strings.Contains(rt, tt) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// matchBySimilarity is the fuzzy fallback: it computes a normalized
// edit-distance similarity against every task title and accepts the highest
// scoring candidate only when its score exceeds the threshold.
func matchBySimilarity(tasks []*models.Task, ref string) *models.Task {
	var best *models.Task
	bestScore := 0.0
	for _, t := range tasks {
		score := Similarity(ref, strings.ToLower(t.Title))
		if score > bestScore {
			best = t
			bestScore = score
		}
	}
	if bestScore > similarityThreshold {
		return best
	}
	return nil
}

// Similarity computes a normalized edit-distance similarity in [0,1]:
// (max(|a|,|b|) - levenshtein(a,b)) / max(|a|,|b|). Identical non-empty
// strings score 1.0 and the function is symmetric.
func Similarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	longer := len(a)
	if len(b) > longer {
		longer = len(b)
	}
	if longer == 0 {
		return 1.0
	}
	return float64(longer-levenshtein(a, b)) / float64(longer)
}

// levenshtein computes the edit distance between two strings using two
// rolling rows. O(n*m) per pair; acceptable at personal-productivity scale
// (tens to low hundreds of tasks per resolution call).
func levenshtein(a, b string) int {
	ra := []rune(a)
	rb := []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := 0; j <= len(rb); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = minInt(curr[j-1]+1, prev[j]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

func minInt(values ...int) int {
	m := values[0]
	for _, v := range values[1:] {
		if v < m {
			m = v
		}
	}
	return m
}
