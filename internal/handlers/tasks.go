package handlers

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/voxtask/voxtask/internal/database"
	"github.com/voxtask/voxtask/internal/request"
)

// TaskHandler serves read access to the task list
type TaskHandler struct {
	taskRepo *database.TaskRepository
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(taskRepo *database.TaskRepository) *TaskHandler {
	return &TaskHandler{taskRepo: taskRepo}
}

// RegisterRoutes registers task routes
func (h *TaskHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/tasks", h.List).Methods("GET")
}

// List returns the user's tasks, optionally bounded by date_from/date_to
// query parameters (YYYY-MM-DD)
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	user := request.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	dateFrom, ok := parseDateParam(w, r, "date_from")
	if !ok {
		return
	}
	dateTo, ok := parseDateParam(w, r, "date_to")
	if !ok {
		return
	}

	tasks, err := h.taskRepo.ListByUserID(r.Context(), user.ID, dateFrom, dateTo)
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to list tasks")
		return
	}

	respondJSON(w, http.StatusOK, tasks)
}

func parseDateParam(w http.ResponseWriter, r *http.Request, name string) (*time.Time, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, true
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", name+" must be YYYY-MM-DD")
		return nil, false
	}
	return &t, true
}
