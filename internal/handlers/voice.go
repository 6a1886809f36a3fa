package handlers

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/voxtask/voxtask/internal/interpreter"
	"github.com/voxtask/voxtask/internal/logger"
	"github.com/voxtask/voxtask/internal/models"
	"github.com/voxtask/voxtask/internal/request"
	"github.com/voxtask/voxtask/internal/services/transcribe"
	"github.com/voxtask/voxtask/internal/validation"
	"go.uber.org/zap"
)

// MaxAudioSize bounds the uploaded recording size
const MaxAudioSize int64 = 8 << 20 // 8MB

// VoiceHandler accepts audio recordings and feeds the transcript into the
// command pipeline
type VoiceHandler struct {
	transcriber transcribe.Transcriber
	interp      *interpreter.Interpreter
	logger      *zap.Logger
}

// NewVoiceHandler creates a new voice handler
func NewVoiceHandler(transcriber transcribe.Transcriber, interp *interpreter.Interpreter, log *zap.Logger) *VoiceHandler {
	return &VoiceHandler{transcriber: transcriber, interp: interp, logger: log}
}

// RegisterRoutes registers voice routes
func (h *VoiceHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/voice/commands", h.Execute).Methods("POST")
}

// VoiceCommandResponse pairs the transcript with the execution result so
// clients can show the user what was heard
type VoiceCommandResponse struct {
	Transcript string               `json:"transcript"`
	Result     models.CommandResult `json:"result"`
}

// Execute transcribes the uploaded recording and runs the resulting text
// through the command pipeline
func (h *VoiceHandler) Execute(w http.ResponseWriter, r *http.Request) {
	user := request.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	if err := r.ParseMultipartForm(MaxAudioSize); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Expected multipart form with an audio file")
		return
	}

	file, header, err := r.FormFile("audio")
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Missing audio file")
		return
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			_ = closeErr
		}
	}()

	transcript, err := h.transcriber.Transcribe(r.Context(), file, header.Filename)
	if err != nil {
		h.logger.Error("transcription_failed",
			zap.String("user_id", user.ID.String()),
			zap.Error(err),
		)
		respondJSONError(w, http.StatusBadGateway, "Transcription Error", "Could not transcribe the recording")
		return
	}

	transcript = validation.SanitizeText(transcript)
	if strings.TrimSpace(transcript) == "" {
		respondJSONError(w, http.StatusUnprocessableEntity, "Empty Transcript", "The recording contained no recognizable speech")
		return
	}

	h.logger.Debug("voice_command_transcribed",
		zap.String("user_id", user.ID.String()),
		zap.String("transcript", logger.SanitizeUtterance(transcript)),
	)

	result := h.interp.Execute(r.Context(), user.ID, models.Utterance{Text: transcript})

	respondJSON(w, http.StatusOK, VoiceCommandResponse{
		Transcript: transcript,
		Result:     result,
	})
}
