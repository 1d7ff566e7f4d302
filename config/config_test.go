package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv points SECRETS_DIR at an empty directory and unsets every
// variable LoadConfig reads so tests see only what they set themselves.
func clearEnv(t *testing.T) {
	t.Helper()
	t.Setenv("SECRETS_DIR", t.TempDir())
	for _, key := range []string{
		"SERVER_PORT", "SERVER_HOST",
		"DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME", "DB_SSL_MODE",
		"REDIS_HOST", "REDIS_PORT", "REDIS_PASSWORD", "REDIS_DB", "REDIS_URL",
		"JWT_SECRET",
		"AI_PROVIDER", "GEMINI_API_KEY", "GEMINI_MODEL",
		"OPENAI_API_KEY", "OPENAI_MODEL", "AI_TIMEOUT_SECONDS",
		"S3_BUCKET_NAME", "AWS_REGION", "CORS_ORIGINS",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadConfig(t *testing.T) {
	clearEnv(t)
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_PORT", "5432")
	t.Setenv("DB_USER", "postgres")
	t.Setenv("DB_PASSWORD", "postgres")
	t.Setenv("DB_NAME", "vitashifa")
	t.Setenv("DB_SSL_MODE", "disable")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("REDIS_URL", "redis://localhost:6379")
	t.Setenv("GEMINI_API_KEY", "test-key")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "localhost", cfg.DBHost)
	assert.Equal(t, "5432", cfg.DBPort)
	assert.Equal(t, "postgres", cfg.DBUser)
	assert.Equal(t, "postgres", cfg.DBPassword)
	assert.Equal(t, "vitashifa", cfg.DBName)
	assert.Equal(t, "disable", cfg.DBSSLMode)

	assert.Equal(t, "test-secret", cfg.JWTSecret)
	assert.Equal(t, "redis://localhost:6379", cfg.RedisURL)

	assert.True(t, cfg.CloudEnabled())
	assert.True(t, cfg.AIEnabled())
}

func TestLoadConfigDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "0.0.0.0", cfg.ServerHost)
	assert.Equal(t, "localhost", cfg.RedisHost)
	assert.Equal(t, "6379", cfg.RedisPort)
	assert.Equal(t, "gemini", cfg.AIProvider)
	assert.Equal(t, "gemini-2.5-flash", cfg.GeminiModel)
	assert.Equal(t, "gpt-4o-mini", cfg.OpenAIModel)
	assert.Equal(t, 60*time.Second, cfg.ProviderTimeout)

	// No DB_HOST and no API key: both optional backends degrade.
	assert.False(t, cfg.CloudEnabled())
	assert.False(t, cfg.AIEnabled())
}

func TestLoadConfigRequiresJWTSecret(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig()
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoadConfigSecretsFallback(t *testing.T) {
	clearEnv(t)
	secretsDir := t.TempDir()
	t.Setenv("SECRETS_DIR", secretsDir)
	require.NoError(t, os.WriteFile(filepath.Join(secretsDir, "jwt_secret"), []byte("from-secret-file\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(secretsDir, "gemini_api_key"), []byte("gm-key"), 0o600))

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "from-secret-file", cfg.JWTSecret)
	assert.Equal(t, "gm-key", cfg.GeminiAPIKey)
}

func TestLoadConfigEnvOverridesSecret(t *testing.T) {
	clearEnv(t)
	secretsDir := t.TempDir()
	t.Setenv("SECRETS_DIR", secretsDir)
	require.NoError(t, os.WriteFile(filepath.Join(secretsDir, "jwt_secret"), []byte("from-secret-file"), 0o600))
	t.Setenv("JWT_SECRET", "from-env")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.JWTSecret)
}

func TestLoadConfigProviderSelection(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("AI_PROVIDER", "openai")
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "openai", cfg.AIProvider)
	assert.True(t, cfg.AIEnabled())

	// A Gemini key alone does not enable the OpenAI provider.
	t.Setenv("OPENAI_API_KEY", "")
	os.Unsetenv("OPENAI_API_KEY")
	t.Setenv("GEMINI_API_KEY", "gm-key")
	cfg, err = LoadConfig()
	require.NoError(t, err)
	assert.False(t, cfg.AIEnabled())
}

func TestLoadConfigRejectsUnknownProvider(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("AI_PROVIDER", "anthropic")

	_, err := LoadConfig()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "AI_PROVIDER")
}

func TestLoadConfigTimeout(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("AI_TIMEOUT_SECONDS", "15")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 15*time.Second, cfg.ProviderTimeout)

	t.Setenv("AI_TIMEOUT_SECONDS", "not-a-number")
	cfg, err = LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 60*time.Second, cfg.ProviderTimeout)
}

func TestLoadConfigCORSOrigins(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("CORS_ORIGINS", "https://vitashifa.example, http://localhost:5173 ,")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, []string{"https://vitashifa.example", "http://localhost:5173"}, cfg.CORSOrigins)
}

func TestValidateConfigCloudRequiresUser(t *testing.T) {
	cfg := &Config{
		ServerPort: "8080",
		JWTSecret:  "test-secret",
		AIProvider: "gemini",
		DBHost:     "db.internal",
	}
	err := ValidateConfig(cfg)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "DB_USER")

	cfg.DBUser = "postgres"
	assert.NoError(t, ValidateConfig(cfg))
}
