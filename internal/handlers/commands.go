package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/voxtask/voxtask/internal/interpreter"
	"github.com/voxtask/voxtask/internal/logger"
	"github.com/voxtask/voxtask/internal/models"
	"github.com/voxtask/voxtask/internal/request"
	"github.com/voxtask/voxtask/internal/validation"
	"go.uber.org/zap"
)

// CommandHandler handles natural-language command requests
type CommandHandler struct {
	interp *interpreter.Interpreter
	logger *zap.Logger
}

// NewCommandHandler creates a new command handler
func NewCommandHandler(interp *interpreter.Interpreter, log *zap.Logger) *CommandHandler {
	return &CommandHandler{interp: interp, logger: log}
}

// RegisterRoutes registers command routes
func (h *CommandHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/commands", h.Execute).Methods("POST")
	r.HandleFunc("/commands/parse", h.Parse).Methods("POST")
	r.HandleFunc("/commands/confirm", h.Confirm).Methods("POST")
}

// CommandRequest represents a natural-language command
type CommandRequest struct {
	Text    string            `json:"text" validate:"required,min=1,max=500"`
	Context map[string]string `json:"context,omitempty"`
}

// ConfirmRequest re-submits an already-parsed command after the user
// confirmed a low-confidence interpretation
type ConfirmRequest struct {
	Intent   string         `json:"intent" validate:"required"`
	Entities map[string]any `json:"entities"`
}

// Execute runs the full pipeline for one utterance
func (h *CommandHandler) Execute(w http.ResponseWriter, r *http.Request) {
	user := request.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	req, ok := h.decodeCommandRequest(w, r)
	if !ok {
		return
	}

	h.logger.Debug("command_received",
		zap.String("user_id", user.ID.String()),
		zap.String("text", logger.SanitizeUtterance(req.Text)),
	)

	result := h.interp.Execute(r.Context(), user.ID, models.Utterance{
		Text:    validation.SanitizeText(req.Text),
		Context: req.Context,
	})

	respondJSON(w, http.StatusOK, result)
}

// Parse classifies and extracts an utterance without executing it
func (h *CommandHandler) Parse(w http.ResponseWriter, r *http.Request) {
	user := request.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	req, ok := h.decodeCommandRequest(w, r)
	if !ok {
		return
	}

	parsed := h.interp.Parse(models.Utterance{
		Text:    validation.SanitizeText(req.Text),
		Context: req.Context,
	})

	respondJSON(w, http.StatusOK, parsed)
}

// Confirm executes a previously-parsed command, bypassing the confidence gate
func (h *CommandHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	user := request.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	var req ConfirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid JSON body")
		return
	}
	if err := validation.Validate.Struct(&req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Validation Error", err.Error())
		return
	}

	intent, valid := interpreter.ValidIntent(req.Intent)
	if !valid {
		respondJSONError(w, http.StatusBadRequest, "Validation Error", "Unknown intent: "+req.Intent)
		return
	}

	parsed := models.ParsedCommand{
		Intent:     intent,
		Entities:   req.Entities,
		Confidence: 1.0,
	}

	result := h.interp.ExecuteParsed(r.Context(), user.ID, parsed)
	respondJSON(w, http.StatusOK, result)
}

func (h *CommandHandler) decodeCommandRequest(w http.ResponseWriter, r *http.Request) (*CommandRequest, bool) {
	var req CommandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid JSON body")
		return nil, false
	}
	if err := validation.Validate.Struct(&req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Validation Error", err.Error())
		return nil, false
	}
	return &req, true
}
