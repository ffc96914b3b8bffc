package conversation

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/confidohealth/voice-assistant/internal/session"
	"github.com/confidohealth/voice-assistant/pkg/logging"
)

// maxAudioUpload bounds the size of one uploaded recording.
const maxAudioUpload = 10 << 20

// Handler wires HTTP requests to the dialogue service. Audio payloads travel
// base64-encoded inside the JSON responses.
type Handler struct {
	service *Service
	logger  *logging.Logger
}

// NewHandler creates a conversation handler.
func NewHandler(service *Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{service: service, logger: logger}
}

// StartResponse is the JSON body for GET /start.
type StartResponse struct {
	Reply     string `json:"reply"`
	Audio     string `json:"audio"`
	SessionID string `json:"session_id"`
}

// TurnResponse is the JSON body for POST /voice-assistant.
type TurnResponse struct {
	UserText  string `json:"user_text"`
	Reply     string `json:"reply"`
	Audio     string `json:"audio"`
	SessionID string `json:"session_id"`
}

// Start handles GET /start. An optional session_id query parameter lets a
// client resume a fixed id; otherwise a fresh one is allocated.
func (h *Handler) Start(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.StartConversation(r.Context(), r.URL.Query().Get("session_id"))
	if err != nil {
		h.logger.Error("failed to start conversation", "error", err)
		if errors.Is(err, ErrSynthesis) {
			http.Error(w, "speech synthesis unavailable", http.StatusBadGateway)
			return
		}
		http.Error(w, "failed to start conversation", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, StartResponse{
		Reply:     result.Reply,
		Audio:     base64.StdEncoding.EncodeToString(result.Audio),
		SessionID: result.SessionID,
	})
}

// VoiceTurn handles POST /voice-assistant: a multipart form with the caller's
// audio under "file" and the session id under "session_id".
func (h *Handler) VoiceTurn(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxAudioUpload); err != nil {
		h.logger.Error("failed to parse voice upload", "error", err)
		http.Error(w, "invalid multipart form", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing audio file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	audio, err := io.ReadAll(io.LimitReader(file, maxAudioUpload))
	if err != nil {
		h.logger.Error("failed to read voice upload", "error", err)
		http.Error(w, "failed to read audio file", http.StatusBadRequest)
		return
	}

	sessionID := r.FormValue("session_id")
	if sessionID == "" {
		sessionID = "default"
	}

	result, err := h.service.ProcessTurn(r.Context(), sessionID, audio, header.Filename)
	if err != nil {
		switch {
		case errors.Is(err, session.ErrNotFound):
			h.logger.Warn("turn for unknown session", "session_id", sessionID)
			http.Error(w, "unknown session", http.StatusNotFound)
		case errors.Is(err, ErrSynthesis):
			h.logger.Error("synthesis failed", "session_id", sessionID, "error", err)
			http.Error(w, "speech synthesis unavailable", http.StatusBadGateway)
		default:
			h.logger.Error("failed to process turn", "session_id", sessionID, "error", err)
			http.Error(w, "failed to process turn", http.StatusInternalServerError)
		}
		return
	}

	h.writeJSON(w, http.StatusOK, TurnResponse{
		UserText:  result.UserText,
		Reply:     result.Reply,
		Audio:     base64.StdEncoding.EncodeToString(result.Audio),
		SessionID: result.SessionID,
	})
}

// Health handles GET /health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", "error", err)
	}
}
