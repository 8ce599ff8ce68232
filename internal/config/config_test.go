package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaultsAndMissingKeys(t *testing.T) {
	t.Setenv("DB_DSN", "")
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("GOOGLE_CLIENT_ID", "")
	t.Setenv("GOOGLE_CLIENT_SECRET", "")
	t.Setenv("GOOGLE_REDIRECT_URL", "")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenLifespan)
	assert.False(t, cfg.IsConfigured())
	assert.Equal(t, []string{
		"DB_DSN", "REDIS_ADDR", "JWT_SECRET",
		"GOOGLE_CLIENT_ID", "GOOGLE_CLIENT_SECRET", "GOOGLE_REDIRECT_URL",
	}, cfg.MissingKeys())
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("DB_DSN", "postgres://localhost/honors")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("GOOGLE_CLIENT_ID", "client")
	t.Setenv("GOOGLE_CLIENT_SECRET", "secret")
	t.Setenv("GOOGLE_REDIRECT_URL", "http://localhost:8080/api/auth/callback")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("ADMIN_EMAILS", "Chair@Example.org, dean@example.org")
	t.Setenv("TOKEN_LIFESPAN", "2h")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.True(t, cfg.IsConfigured())
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 2*time.Hour, cfg.Auth.TokenLifespan)
	assert.True(t, cfg.IsAdminEmail("chair@example.org"))
	assert.True(t, cfg.IsAdminEmail("DEAN@example.org"))
	assert.False(t, cfg.IsAdminEmail("member@example.org"))
	assert.False(t, cfg.IsAdminEmail(""))
}

func TestLoadConfigReadsYAML(t *testing.T) {
	dir := t.TempDir()
	yaml := "app:\n  port: \"9090\"\nllm:\n  provider: ollama\n  ollama_host: http://ollama:11434/v1\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o600))

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.App.Port)
	assert.Equal(t, "ollama", cfg.LLM.Provider)
	assert.Equal(t, "http://ollama:11434/v1", cfg.LLM.OllamaHost)
}
