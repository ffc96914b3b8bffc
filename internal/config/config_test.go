package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	// Blank out the keys asserted below so values exported by the host
	// environment cannot leak into the defaults check.
	for _, key := range []string{"PORT", "SESSION_BACKEND", "WHISPER_MODEL", "TTS_TIMEOUT", "CORS_ALLOWED_ORIGINS"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.SessionBackend != "memory" {
		t.Errorf("SessionBackend = %q, want memory", cfg.SessionBackend)
	}
	if cfg.WhisperModel != "whisper-1" {
		t.Errorf("WhisperModel = %q, want whisper-1", cfg.WhisperModel)
	}
	if cfg.TTSTimeout != 20*time.Second {
		t.Errorf("TTSTimeout = %v, want 20s", cfg.TTSTimeout)
	}
	if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "*" {
		t.Errorf("CORSAllowedOrigins = %v, want [*]", cfg.CORSAllowedOrigins)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("SESSION_BACKEND", "Redis")
	t.Setenv("STT_TIMEOUT", "5s")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg := Load()

	if cfg.Port != "9090" {
		t.Errorf("Port = %q, want 9090", cfg.Port)
	}
	if cfg.SessionBackend != "redis" {
		t.Errorf("SessionBackend = %q, want redis (lowercased)", cfg.SessionBackend)
	}
	if cfg.STTTimeout != 5*time.Second {
		t.Errorf("STTTimeout = %v, want 5s", cfg.STTTimeout)
	}
	want := []string{"https://a.example", "https://b.example"}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[0] != want[0] || cfg.CORSAllowedOrigins[1] != want[1] {
		t.Errorf("CORSAllowedOrigins = %v, want %v", cfg.CORSAllowedOrigins, want)
	}
}

func TestLoad_BadDurationFallsBack(t *testing.T) {
	t.Setenv("TTS_TIMEOUT", "soon")

	cfg := Load()
	if cfg.TTSTimeout != 20*time.Second {
		t.Errorf("TTSTimeout = %v, want default 20s on parse failure", cfg.TTSTimeout)
	}
}
