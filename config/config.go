package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	ServerPort string
	ServerHost string

	// Database configuration (cloud persistence; optional)
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Redis configuration (local chat store)
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	RedisURL      string

	// JWT configuration
	JWTSecret string

	// AI provider configuration
	AIProvider      string // "gemini" (default) or "openai"
	GeminiAPIKey    string
	GeminiModel     string
	OpenAIAPIKey    string
	OpenAIModel     string
	ProviderTimeout time.Duration

	// Image archive (optional)
	S3Bucket  string
	AWSRegion string

	// Allowed browser origins
	CORSOrigins []string
}

// LoadConfig creates a new Config instance from environment variables, with
// Docker-secret file fallbacks for sensitive values. A .env file in the
// working directory is honored when present.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		ServerPort: envOr("SERVER_PORT", "8080"),
		ServerHost: envOr("SERVER_HOST", "0.0.0.0"),

		DBHost:     os.Getenv("DB_HOST"),
		DBPort:     envOr("DB_PORT", "5432"),
		DBUser:     envOrSecret("DB_USER", "db_user"),
		DBPassword: envOrSecret("DB_PASSWORD", "db_password"),
		DBName:     envOr("DB_NAME", "vitashifa"),
		DBSSLMode:  envOr("DB_SSL_MODE", "disable"),

		RedisHost:     envOr("REDIS_HOST", "localhost"),
		RedisPort:     envOr("REDIS_PORT", "6379"),
		RedisPassword: envOrSecret("REDIS_PASSWORD", "redis_password"),
		RedisURL:      os.Getenv("REDIS_URL"),

		JWTSecret: envOrSecret("JWT_SECRET", "jwt_secret"),

		AIProvider:   envOr("AI_PROVIDER", "gemini"),
		GeminiAPIKey: envOrSecret("GEMINI_API_KEY", "gemini_api_key"),
		GeminiModel:  envOr("GEMINI_MODEL", "gemini-2.5-flash"),
		OpenAIAPIKey: envOrSecret("OPENAI_API_KEY", "openai_api_key"),
		OpenAIModel:  envOr("OPENAI_MODEL", "gpt-4o-mini"),

		S3Bucket:  os.Getenv("S3_BUCKET_NAME"),
		AWSRegion: os.Getenv("AWS_REGION"),
	}

	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.CORSOrigins = append(cfg.CORSOrigins, o)
			}
		}
	}

	if dbStr := os.Getenv("REDIS_DB"); dbStr != "" {
		if db, err := strconv.Atoi(dbStr); err == nil {
			cfg.RedisDB = db
		}
	}

	cfg.ProviderTimeout = 60 * time.Second
	if t := os.Getenv("AI_TIMEOUT_SECONDS"); t != "" {
		if secs, err := strconv.Atoi(t); err == nil && secs > 0 {
			cfg.ProviderTimeout = time.Duration(secs) * time.Second
		}
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// CloudEnabled reports whether the cloud persistence backend is configured.
// Absence degrades to local-only persistence rather than a startup error.
func (c *Config) CloudEnabled() bool {
	return c.DBHost != ""
}

// AIEnabled reports whether the configured AI provider has a credential.
// Absence degrades AI endpoints to in-band error responses.
func (c *Config) AIEnabled() bool {
	if c.AIProvider == "openai" {
		return c.OpenAIAPIKey != ""
	}
	return c.GeminiAPIKey != ""
}

// ValidateConfig checks the settings the server cannot run without. AI and
// cloud persistence settings are deliberately not required here.
func ValidateConfig(cfg *Config) error {
	var errors []string

	if cfg.JWTSecret == "" {
		errors = append(errors, "JWT_SECRET (or jwt_secret secret) is required")
	}
	if cfg.ServerPort == "" {
		errors = append(errors, "SERVER_PORT must not be empty")
	}
	if cfg.AIProvider != "gemini" && cfg.AIProvider != "openai" {
		errors = append(errors, fmt.Sprintf("unknown AI_PROVIDER %q", cfg.AIProvider))
	}
	if cfg.CloudEnabled() && cfg.DBUser == "" {
		errors = append(errors, "DB_USER (or db_user secret) is required when DB_HOST is set")
	}

	if len(errors) > 0 {
		return fmt.Errorf("%s", strings.Join(errors, "\n"))
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// envOrSecret reads an environment variable, falling back to a Docker secret
// of the given name under SECRETS_DIR (default /run/secrets).
func envOrSecret(key, secret string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return readSecret(secret)
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	secretPath := filepath.Join(secretsDir, name)
	if data, err := os.ReadFile(secretPath); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}
