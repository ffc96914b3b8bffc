// Package speech adapts the external speech capabilities: speech-to-text in,
// text-to-speech out. The dialogue core only sees the two small interfaces.
package speech

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/confidohealth/voice-assistant/pkg/logging"
)

// Transcriber converts caller audio to text. An empty transcript is a valid
// result, not an error.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, filename string) (string, error)
}

// WhisperTranscriber transcribes audio through the OpenAI Whisper API.
type WhisperTranscriber struct {
	client  *openai.Client
	model   string
	timeout time.Duration
	logger  *logging.Logger
}

// WhisperConfig configures the Whisper transcriber.
type WhisperConfig struct {
	APIKey string
	// Model defaults to whisper-1.
	Model string
	// Timeout bounds a single transcription call.
	Timeout time.Duration
	Logger  *logging.Logger
}

// NewWhisperTranscriber creates a Whisper-backed transcriber.
func NewWhisperTranscriber(cfg WhisperConfig) (*WhisperTranscriber, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("speech: OpenAI API key required")
	}
	model := cfg.Model
	if model == "" {
		model = openai.Whisper1
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	return &WhisperTranscriber{
		client:  openai.NewClient(cfg.APIKey),
		model:   model,
		timeout: timeout,
		logger:  logger,
	}, nil
}

// Transcribe sends the uploaded audio to Whisper and returns the transcript,
// trimmed. filename carries the upload's extension so the API can detect the
// container format.
func (t *WhisperTranscriber) Transcribe(ctx context.Context, audio []byte, filename string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	if filename == "" {
		filename = "audio.wav"
	}

	start := time.Now()
	resp, err := t.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    t.model,
		FilePath: filename,
		Reader:   bytes.NewReader(audio),
	})
	if err != nil {
		return "", fmt.Errorf("speech: transcription failed: %w", err)
	}

	t.logger.Debug("transcription completed",
		"bytes_in", len(audio),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return strings.TrimSpace(resp.Text), nil
}
