package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/confidohealth/voice-assistant/internal/api/router"
	appconfig "github.com/confidohealth/voice-assistant/internal/config"
	"github.com/confidohealth/voice-assistant/internal/conversation"
	"github.com/confidohealth/voice-assistant/internal/knowledge"
	"github.com/confidohealth/voice-assistant/internal/observability/metrics"
	"github.com/confidohealth/voice-assistant/internal/session"
	"github.com/confidohealth/voice-assistant/internal/speech"
	"github.com/confidohealth/voice-assistant/pkg/logging"
)

func main() {
	// Missing .env is fine; plain environment variables still apply.
	_ = godotenv.Load()

	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting voice-assistant API server",
		"env", cfg.Env,
		"port", cfg.Port,
		"session_backend", cfg.SessionBackend,
	)

	// Session store
	var sessions session.Store
	switch cfg.SessionBackend {
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		sessions = session.NewRedisStore(client, nil)
	default:
		sessions = session.NewMemoryStore()
	}

	// Speech capabilities
	transcriber, err := speech.NewWhisperTranscriber(speech.WhisperConfig{
		APIKey:  cfg.OpenAIAPIKey,
		Model:   cfg.WhisperModel,
		Timeout: cfg.STTTimeout,
		Logger:  logger,
	})
	if err != nil {
		logger.Error("failed to configure transcriber", "error", err)
		os.Exit(1)
	}
	synthesizer, err := speech.NewElevenLabsClient(speech.ElevenLabsConfig{
		APIKey:  cfg.ElevenLabsAPIKey,
		VoiceID: cfg.ElevenLabsVoiceID,
		BaseURL: cfg.ElevenLabsBaseURL,
		Timeout: cfg.TTSTimeout,
		Logger:  logger,
	})
	if err != nil {
		logger.Error("failed to configure synthesizer", "error", err)
		os.Exit(1)
	}

	// Dialogue service
	turnMetrics := metrics.NewTurnMetrics(nil)
	service := conversation.NewService(conversation.ServiceConfig{
		Sessions:    sessions,
		Knowledge:   knowledge.Defaults(),
		Transcriber: transcriber,
		Synthesizer: synthesizer,
		Metrics:     turnMetrics,
		Logger:      logger,
	})
	conversationHandler := conversation.NewHandler(service, logger)

	// Setup router
	r := router.New(&router.Config{
		Logger:              logger,
		ConversationHandler: conversationHandler,
		MetricsHandler:      promhttp.Handler(),
		CORSAllowedOrigins:  cfg.CORSAllowedOrigins,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
