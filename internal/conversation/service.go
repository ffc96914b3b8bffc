// Package conversation orchestrates a dialogue turn: transcribe, classify,
// dispatch to a responder, record history, synthesize the reply.
package conversation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/confidohealth/voice-assistant/internal/appointment"
	"github.com/confidohealth/voice-assistant/internal/faq"
	"github.com/confidohealth/voice-assistant/internal/insurance"
	"github.com/confidohealth/voice-assistant/internal/intent"
	"github.com/confidohealth/voice-assistant/internal/knowledge"
	"github.com/confidohealth/voice-assistant/internal/observability/metrics"
	"github.com/confidohealth/voice-assistant/internal/session"
	"github.com/confidohealth/voice-assistant/internal/speech"
	"github.com/confidohealth/voice-assistant/pkg/logging"
)

// ErrSynthesis marks a turn that failed because text-to-speech failed. The
// caller gets no partial reply-without-audio response.
var ErrSynthesis = errors.New("conversation: speech synthesis failed")

// Fixed orchestrator replies.
const (
	replyDidNotCatch = "Sorry, I didn’t catch that. Could you say it again?"
	replyChitchat    = "I’m here to help with appointments, insurance, or clinic info. What would you like to do?"
)

// Service runs the dialogue loop. Dialogue state is mutated under the
// session's lock; the speech calls run outside any lock since they are
// long-latency I/O.
type Service struct {
	sessions     session.Store
	classifier   *intent.Classifier
	faq          *faq.Responder
	insurance    *insurance.Responder
	appointments *appointment.Engine
	transcriber  speech.Transcriber
	synthesizer  speech.Synthesizer
	metrics      *metrics.TurnMetrics
	tracer       trace.Tracer
	logger       *logging.Logger

	greeting string
}

// ServiceConfig configures the dialogue service.
type ServiceConfig struct {
	Sessions    session.Store
	Knowledge   *knowledge.Store
	Transcriber speech.Transcriber
	Synthesizer speech.Synthesizer
	Metrics     *metrics.TurnMetrics
	Tracer      trace.Tracer
	Logger      *logging.Logger
}

// NewService creates the dialogue service. The classifier, responders, and
// slot-filling engine are built over the given knowledge store.
func NewService(cfg ServiceConfig) *Service {
	if cfg.Knowledge == nil {
		cfg.Knowledge = knowledge.Defaults()
	}
	if cfg.Tracer == nil {
		cfg.Tracer = otel.Tracer("voiceassistant.internal.conversation")
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	return &Service{
		sessions:     cfg.Sessions,
		classifier:   intent.NewClassifier(),
		faq:          faq.NewResponder(cfg.Knowledge),
		insurance:    insurance.NewResponder(cfg.Knowledge),
		appointments: appointment.NewEngine(cfg.Knowledge),
		transcriber:  cfg.Transcriber,
		synthesizer:  cfg.Synthesizer,
		metrics:      cfg.Metrics,
		tracer:       cfg.Tracer,
		logger:       cfg.Logger,
		greeting: fmt.Sprintf("Hello! You’ve reached %s. I’m your virtual assistant. How may I help you today?",
			cfg.Knowledge.Clinic.Name),
	}
}

// StartResult is the outcome of starting a conversation.
type StartResult struct {
	Reply     string
	Audio     []byte
	SessionID string
}

// TurnResult is the outcome of one voice turn.
type TurnResult struct {
	UserText  string
	Reply     string
	Audio     []byte
	SessionID string
}

// StartConversation creates a session (allocating an id when none is given)
// and returns the spoken greeting.
func (s *Service) StartConversation(ctx context.Context, sessionID string) (*StartResult, error) {
	ctx, span := s.tracer.Start(ctx, "conversation.start")
	defer span.End()

	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	if _, err := s.sessions.Create(ctx, sessionID); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("conversation: failed to create session: %w", err)
	}

	audio, err := s.synthesize(ctx, s.greeting)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	s.metrics.ObserveSessionStarted()
	s.logger.Info("conversation started", "session_id", sessionID)
	return &StartResult{Reply: s.greeting, Audio: audio, SessionID: sessionID}, nil
}

// ProcessTurn runs one voice turn: transcribe the audio, produce a reply,
// record the exchange, and synthesize the reply.
//
// A failed or empty transcription is recovered with a fixed re-prompt and no
// intent classification. An unknown session id surfaces session.ErrNotFound.
// A synthesis failure fails the whole turn with ErrSynthesis.
func (s *Service) ProcessTurn(ctx context.Context, sessionID string, audio []byte, filename string) (*TurnResult, error) {
	ctx, span := s.tracer.Start(ctx, "conversation.turn")
	defer span.End()

	userText := s.transcribe(ctx, audio, filename)

	var reply string
	intentLabel := "none"
	err := s.sessions.Update(ctx, sessionID, func(sess *session.Session) error {
		if userText == "" {
			reply = replyDidNotCatch
		} else {
			it := s.classifier.Classify(userText)
			intentLabel = string(it)
			switch it {
			case intent.IntentAppointment:
				reply = s.appointments.Respond(sess, userText)
			case intent.IntentInsurance:
				reply = s.insurance.Respond(userText)
			case intent.IntentFAQ:
				reply = s.faq.Respond(userText)
			default:
				reply = replyChitchat
			}
		}
		sess.AppendTurn(userText, reply)
		return nil
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	audioOut, err := s.synthesize(ctx, reply)
	if err != nil {
		span.RecordError(err)
		s.metrics.ObserveTurn(intentLabel, "synthesis_error")
		return nil, err
	}

	s.metrics.ObserveTurn(intentLabel, "ok")
	s.logger.Info("turn completed",
		"session_id", sessionID,
		"intent", intentLabel,
		"transcript_chars", len(userText),
	)
	return &TurnResult{UserText: userText, Reply: reply, Audio: audioOut, SessionID: sessionID}, nil
}

// transcribe maps any speech-to-text failure to an empty transcript; the
// dialogue recovers with a re-prompt instead of failing the turn.
func (s *Service) transcribe(ctx context.Context, audio []byte, filename string) string {
	start := time.Now()
	text, err := s.transcriber.Transcribe(ctx, audio, filename)
	s.metrics.ObserveTranscribe(time.Since(start).Seconds())
	if err != nil {
		s.logger.Warn("transcription failed, treating as empty transcript", "error", err)
		text = ""
	}
	if text == "" {
		s.metrics.ObserveEmptyTranscript()
	}
	return text
}

func (s *Service) synthesize(ctx context.Context, text string) ([]byte, error) {
	start := time.Now()
	audio, err := s.synthesizer.Synthesize(ctx, text)
	s.metrics.ObserveSynthesize(time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSynthesis, err)
	}
	return audio, nil
}
