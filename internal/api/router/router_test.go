package router

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/confidohealth/voice-assistant/internal/conversation"
	"github.com/confidohealth/voice-assistant/internal/session"
)

type stubTranscriber struct{ text string }

func (s *stubTranscriber) Transcribe(ctx context.Context, audio []byte, filename string) (string, error) {
	return s.text, nil
}

type stubSynthesizer struct{}

func (s *stubSynthesizer) Synthesize(ctx context.Context, text string) ([]byte, error) {
	return []byte("audio"), nil
}

func newTestRouter(t *testing.T, transcript string) http.Handler {
	t.Helper()
	svc := conversation.NewService(conversation.ServiceConfig{
		Sessions:    session.NewMemoryStore(),
		Transcriber: &stubTranscriber{text: transcript},
		Synthesizer: &stubSynthesizer{},
	})
	reg := prometheus.NewRegistry()
	return New(&Config{
		ConversationHandler: conversation.NewHandler(svc, nil),
		MetricsHandler:      promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		CORSAllowedOrigins:  []string{"*"},
	})
}

func TestRouter_Health(t *testing.T) {
	r := newTestRouter(t, "")

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("GET /health = %d, want 200", rec.Code)
	}
}

func TestRouter_StartThenTurn(t *testing.T) {
	r := newTestRouter(t, "what are your hours?")

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/start", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /start = %d, want 200", rec.Code)
	}
	var start conversation.StartResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &start); err != nil {
		t.Fatal(err)
	}
	if start.SessionID == "" {
		t.Fatal("start response has no session id")
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "turn.wav")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := fw.Write([]byte("caller-audio")); err != nil {
		t.Fatal(err)
	}
	if err := mw.WriteField("session_id", start.SessionID); err != nil {
		t.Fatal(err)
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodPost, "/voice-assistant", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("POST /voice-assistant = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	var turn conversation.TurnResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &turn); err != nil {
		t.Fatal(err)
	}
	if turn.SessionID != start.SessionID {
		t.Errorf("turn session id = %q, want %q", turn.SessionID, start.SessionID)
	}
	if turn.UserText != "what are your hours?" {
		t.Errorf("user text = %q", turn.UserText)
	}
}

func TestRouter_Metrics(t *testing.T) {
	r := newTestRouter(t, "")

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("GET /metrics = %d, want 200", rec.Code)
	}
}

func TestRouter_CORSHeaders(t *testing.T) {
	r := newTestRouter(t, "")

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://widget.example")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://widget.example" {
		t.Errorf("Access-Control-Allow-Origin = %q, want echoed origin", got)
	}
}
