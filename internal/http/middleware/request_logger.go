package middleware

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/confidohealth/voice-assistant/pkg/logging"
)

// statusWriter records the status code written by the handler.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// RequestLogger emits structured logs for every HTTP request. When a request
// carries a session_id query parameter (the start endpoint does), the
// completion log includes it so one conversation's requests can be followed.
// Turn requests carry the session id in the multipart body, which is left to
// the handler to log; reading it here would consume the audio upload.
func RequestLogger(logger *logging.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			reqID := r.Header.Get("X-Request-ID")
			if reqID == "" {
				reqID = uuid.NewString()
			}
			logger.Info("request started",
				"method", r.Method,
				"path", r.URL.Path,
				"request_id", reqID,
				"remote_ip", r.RemoteAddr,
			)

			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(sw, r)

			fields := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"request_id", reqID,
				"status", sw.status,
				"duration_ms", time.Since(start).Milliseconds(),
			}
			if sessionID := r.URL.Query().Get("session_id"); sessionID != "" {
				fields = append(fields, "session_id", sessionID)
			}
			logger.Info("request completed", fields...)
		})
	}
}
