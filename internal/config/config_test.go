package config

import (
	"log/slog"
	"path/filepath"
	"testing"
	"time"
)

// clearEnv blanks every variable Load reads so tests observe defaults
// regardless of the host environment.
func clearEnv(t *testing.T) {
	t.Helper()
	keys := []string{
		"EMBEDDING_BASE_URL", "EMBEDDING_MODEL", "OPENAI_API_KEY", "EMBEDDING_DIMENSION",
		"VECTOR_BACKEND", "QDRANT_URL", "QDRANT_COLLECTION", "SQLITE_PATH",
		"CHAT_BASE_URL", "CHAT_MODEL", "OPENROUTER_API_KEY",
		"CHAT_TEMPERATURE", "CHAT_MAX_TOKENS", "CHAT_TIMEOUT_SECONDS",
		"API_PORT", "LOG_LEVEL", "LOG_FORMAT", "CORS_ALLOWED_ORIGINS",
	}
	for _, key := range keys {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.EmbeddingBaseURL != "https://api.openai.com" {
		t.Errorf("EmbeddingBaseURL = %q", cfg.EmbeddingBaseURL)
	}
	if cfg.EmbeddingModel != "text-embedding-3-large" {
		t.Errorf("EmbeddingModel = %q", cfg.EmbeddingModel)
	}
	if cfg.EmbeddingDimension != 3072 {
		t.Errorf("EmbeddingDimension = %d, want 3072", cfg.EmbeddingDimension)
	}
	if cfg.VectorBackend != "qdrant" {
		t.Errorf("VectorBackend = %q, want qdrant", cfg.VectorBackend)
	}
	if cfg.QdrantURL != "http://localhost:6333" {
		t.Errorf("QdrantURL = %q", cfg.QdrantURL)
	}
	if cfg.QdrantCollection != "legal-documents" {
		t.Errorf("QdrantCollection = %q", cfg.QdrantCollection)
	}
	if cfg.ChatBaseURL != "https://openrouter.ai/api/v1" {
		t.Errorf("ChatBaseURL = %q", cfg.ChatBaseURL)
	}
	if cfg.ChatTemperature != 0.3 {
		t.Errorf("ChatTemperature = %v, want 0.3", cfg.ChatTemperature)
	}
	if cfg.ChatMaxTokens != 1500 {
		t.Errorf("ChatMaxTokens = %d, want 1500", cfg.ChatMaxTokens)
	}
	if cfg.ChatTimeout != 30*time.Second {
		t.Errorf("ChatTimeout = %v, want 30s", cfg.ChatTimeout)
	}
	if cfg.APIPort != "8000" {
		t.Errorf("APIPort = %q, want 8000", cfg.APIPort)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("LogLevel = %v, want info", cfg.LogLevel)
	}
	if cfg.LogFormat != "text" {
		t.Errorf("LogFormat = %q, want text", cfg.LogFormat)
	}
	wantOrigins := []string{"http://localhost:3000", "http://localhost:5173"}
	if len(cfg.CORSAllowedOrigins) != len(wantOrigins) {
		t.Fatalf("CORSAllowedOrigins = %v, want %v", cfg.CORSAllowedOrigins, wantOrigins)
	}
	for i, origin := range wantOrigins {
		if cfg.CORSAllowedOrigins[i] != origin {
			t.Errorf("CORSAllowedOrigins[%d] = %q, want %q", i, cfg.CORSAllowedOrigins[i], origin)
		}
	}
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("VECTOR_BACKEND", "SQLITE")
	t.Setenv("SQLITE_PATH", filepath.Join(t.TempDir(), "data", "index.db"))
	t.Setenv("EMBEDDING_DIMENSION", "1536")
	t.Setenv("CHAT_TEMPERATURE", "0.7")
	t.Setenv("CHAT_MAX_TOKENS", "2000")
	t.Setenv("CHAT_TIMEOUT_SECONDS", "60")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://example.com, https://other.example.com")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.VectorBackend != "sqlite" {
		t.Errorf("VectorBackend = %q, want lowercased sqlite", cfg.VectorBackend)
	}
	if cfg.EmbeddingDimension != 1536 {
		t.Errorf("EmbeddingDimension = %d, want 1536", cfg.EmbeddingDimension)
	}
	if cfg.ChatTemperature != 0.7 {
		t.Errorf("ChatTemperature = %v, want 0.7", cfg.ChatTemperature)
	}
	if cfg.ChatMaxTokens != 2000 {
		t.Errorf("ChatMaxTokens = %d, want 2000", cfg.ChatMaxTokens)
	}
	if cfg.ChatTimeout != 60*time.Second {
		t.Errorf("ChatTimeout = %v, want 60s", cfg.ChatTimeout)
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Errorf("LogLevel = %v, want debug", cfg.LogLevel)
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "https://other.example.com" {
		t.Errorf("CORSAllowedOrigins = %v, want trimmed origins", cfg.CORSAllowedOrigins)
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "bad dimension", key: "EMBEDDING_DIMENSION", value: "not-a-number"},
		{name: "zero dimension", key: "EMBEDDING_DIMENSION", value: "0"},
		{name: "unknown backend", key: "VECTOR_BACKEND", value: "pinecone"},
		{name: "bad temperature", key: "CHAT_TEMPERATURE", value: "warm"},
		{name: "negative max tokens", key: "CHAT_MAX_TOKENS", value: "-5"},
		{name: "zero timeout", key: "CHAT_TIMEOUT_SECONDS", value: "0"},
		{name: "unknown log level", key: "LOG_LEVEL", value: "verbose"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			if _, err := Load(); err == nil {
				t.Errorf("Load() error = nil with %s=%q, want error", tt.key, tt.value)
			}
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		raw  string
		want slog.Level
	}{
		{raw: "debug", want: slog.LevelDebug},
		{raw: "INFO", want: slog.LevelInfo},
		{raw: "warn", want: slog.LevelWarn},
		{raw: "warning", want: slog.LevelWarn},
		{raw: "Error", want: slog.LevelError},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := parseLogLevel(tt.raw)
			if err != nil {
				t.Fatalf("parseLogLevel(%q) error = %v", tt.raw, err)
			}
			if got != tt.want {
				t.Errorf("parseLogLevel(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}
