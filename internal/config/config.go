package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	EmbeddingBaseURL   string
	EmbeddingModel     string
	EmbeddingAPIKey    string
	EmbeddingDimension int

	// VectorBackend selects the vector index implementation: "qdrant" or "sqlite".
	VectorBackend    string
	QdrantURL        string
	QdrantCollection string
	SQLitePath       string

	ChatBaseURL     string
	ChatModel       string
	ChatAPIKey      string
	ChatTemperature float32
	ChatMaxTokens   int
	ChatTimeout     time.Duration

	APIPort            string
	LogLevel           slog.Level
	LogFormat          string
	CORSAllowedOrigins []string
}

// Load reads configuration from environment variables and returns a Config struct.
// It applies defaults for optional fields and validates numeric fields.
// If a .env file exists in the current directory or project root, it will be loaded
// automatically. Environment variables already set take precedence over .env values.
//
// API keys are intentionally not required here: their absence is reported by the
// debug endpoint and rejected by the client constructors, so the process fails
// fast at wiring time rather than at load time.
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	// Walk up from the working directory to find a project-root .env
	wd, err := os.Getwd()
	if err == nil {
		dir := wd
		for i := 0; i < 5; i++ {
			envPath := filepath.Join(dir, ".env")
			if _, err := os.Stat(envPath); err == nil {
				_ = godotenv.Load(envPath)
				break
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break
			}
			dir = parent
		}
	}

	cfg := &Config{
		EmbeddingBaseURL: getEnv("EMBEDDING_BASE_URL", "https://api.openai.com"),
		EmbeddingModel:   getEnv("EMBEDDING_MODEL", "text-embedding-3-large"),
		EmbeddingAPIKey:  getEnv("OPENAI_API_KEY", ""),

		VectorBackend:    strings.ToLower(getEnv("VECTOR_BACKEND", "qdrant")),
		QdrantURL:        getEnv("QDRANT_URL", "http://localhost:6333"),
		QdrantCollection: getEnv("QDRANT_COLLECTION", "legal-documents"),
		SQLitePath:       getEnv("SQLITE_PATH", "./data/legal-index.db"),

		ChatBaseURL: getEnv("CHAT_BASE_URL", "https://openrouter.ai/api/v1"),
		ChatModel:   getEnv("CHAT_MODEL", "openai/gpt-4o"),
		ChatAPIKey:  getEnv("OPENROUTER_API_KEY", ""),

		APIPort:   getEnv("API_PORT", "8000"),
		LogFormat: getEnv("LOG_FORMAT", "text"),
	}

	dimension, err := parseIntEnv("EMBEDDING_DIMENSION", 3072)
	if err != nil {
		return nil, err
	}
	if dimension <= 0 {
		return nil, fmt.Errorf("EMBEDDING_DIMENSION must be greater than 0")
	}
	cfg.EmbeddingDimension = dimension

	if cfg.VectorBackend != "qdrant" && cfg.VectorBackend != "sqlite" {
		return nil, fmt.Errorf("VECTOR_BACKEND must be \"qdrant\" or \"sqlite\", got %q", cfg.VectorBackend)
	}

	temperature, err := parseFloatEnv("CHAT_TEMPERATURE", 0.3)
	if err != nil {
		return nil, err
	}
	cfg.ChatTemperature = float32(temperature)

	maxTokens, err := parseIntEnv("CHAT_MAX_TOKENS", 1500)
	if err != nil {
		return nil, err
	}
	if maxTokens <= 0 {
		return nil, fmt.Errorf("CHAT_MAX_TOKENS must be greater than 0")
	}
	cfg.ChatMaxTokens = maxTokens

	timeoutSeconds, err := parseIntEnv("CHAT_TIMEOUT_SECONDS", 30)
	if err != nil {
		return nil, err
	}
	if timeoutSeconds <= 0 {
		return nil, fmt.Errorf("CHAT_TIMEOUT_SECONDS must be greater than 0")
	}
	cfg.ChatTimeout = time.Duration(timeoutSeconds) * time.Second

	level, err := parseLogLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		return nil, err
	}
	cfg.LogLevel = level

	origins := getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173")
	for _, origin := range strings.Split(origins, ",") {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, origin)
		}
	}

	if cfg.VectorBackend == "sqlite" {
		dataDir := filepath.Dir(cfg.SQLitePath)
		if err := os.MkdirAll(dataDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	return cfg, nil
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseIntEnv(key string, defaultValue int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid integer: %w", key, err)
	}
	return value, nil
}

func parseFloatEnv(key string, defaultValue float64) (float64, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid number: %w", key, err)
	}
	return value, nil
}

func parseLogLevel(raw string) (slog.Level, error) {
	switch strings.ToLower(raw) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("LOG_LEVEL must be one of debug, info, warn, error, got %q", raw)
	}
}
