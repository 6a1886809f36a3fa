package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/voxtask/voxtask/internal/database"
	"github.com/voxtask/voxtask/internal/models"
	"github.com/voxtask/voxtask/internal/queue"
	"github.com/voxtask/voxtask/internal/request"
)

// GoalHandler serves read access to goals and their objectives, plus
// on-demand roadmap regeneration
type GoalHandler struct {
	goalRepo      *database.GoalRepository
	objectiveRepo *database.ObjectiveRepository
	roadmaps      *queue.GoalDecomposer
}

// NewGoalHandler creates a new goal handler
func NewGoalHandler(goalRepo *database.GoalRepository, objectiveRepo *database.ObjectiveRepository, roadmaps *queue.GoalDecomposer) *GoalHandler {
	return &GoalHandler{goalRepo: goalRepo, objectiveRepo: objectiveRepo, roadmaps: roadmaps}
}

// RegisterRoutes registers goal routes
func (h *GoalHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/goals", h.List).Methods("GET")
	r.HandleFunc("/goals/{id}/objectives", h.ListObjectives).Methods("GET")
	r.HandleFunc("/goals/{id}/roadmap", h.GenerateRoadmap).Methods("POST")
}

// List returns the user's goals
func (h *GoalHandler) List(w http.ResponseWriter, r *http.Request) {
	user := request.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	goals, err := h.goalRepo.ListByUserID(r.Context(), user.ID)
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to list goals")
		return
	}

	respondJSON(w, http.StatusOK, goals)
}

// ListObjectives returns the objectives under one of the user's goals
func (h *GoalHandler) ListObjectives(w http.ResponseWriter, r *http.Request) {
	user := request.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	goal, ok := h.ownedGoal(w, r, user.ID)
	if !ok {
		return
	}

	objectives, err := h.objectiveRepo.ListByGoalID(r.Context(), goal.ID)
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to list objectives")
		return
	}

	respondJSON(w, http.StatusOK, objectives)
}

// GenerateRoadmap enqueues asynchronous roadmap regeneration for one of the
// user's goals. The generated objectives and tasks are appended by the
// worker; the request only schedules the job.
func (h *GoalHandler) GenerateRoadmap(w http.ResponseWriter, r *http.Request) {
	user := request.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	goal, ok := h.ownedGoal(w, r, user.ID)
	if !ok {
		return
	}

	if err := h.roadmaps.EnqueueRoadmapGeneration(r.Context(), goal); err != nil {
		respondJSONError(w, http.StatusServiceUnavailable, "Service Unavailable", "Failed to schedule roadmap generation")
		return
	}

	respondJSON(w, http.StatusAccepted, map[string]string{
		"status":  "scheduled",
		"goal_id": goal.ID.String(),
	})
}

// ownedGoal parses the route's goal ID and confirms it belongs to the user,
// writing the error response itself when it does not.
func (h *GoalHandler) ownedGoal(w http.ResponseWriter, r *http.Request, userID uuid.UUID) (*models.Goal, bool) {
	goalID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid goal ID")
		return nil, false
	}

	goals, err := h.goalRepo.ListByUserID(r.Context(), userID)
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to list goals")
		return nil, false
	}
	for _, g := range goals {
		if g.ID == goalID {
			return g, true
		}
	}
	respondJSONError(w, http.StatusNotFound, "Not Found", "Goal not found")
	return nil, false
}
