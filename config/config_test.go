package config

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("GO_ENV", "production")
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "production", cfg.Environment)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 2, cfg.Tasks.Workers)
	assert.Equal(t, uint(3), cfg.Tasks.MaxAttempts)
	assert.Equal(t, time.Hour, cfg.AnnouncementRefreshInterval)
	assert.Equal(t, "noop", cfg.Email.Provider)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("GO_ENV", "production")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("PORT", "9090")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test,http://b.test")
	t.Setenv("CONTEXT_TIMEOUT", "2s")
	t.Setenv("EMAIL_PROVIDER", "ses")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.AllowedOrigins)
	assert.Equal(t, 2*time.Second, cfg.ContextTimeout)
	assert.Equal(t, "ses", cfg.Email.Provider)
}

func TestLoad_InvalidDuration(t *testing.T) {
	t.Setenv("GO_ENV", "production")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("CONTEXT_TIMEOUT", "soon")

	_, err := Load()
	require.Error(t, err)
}

func TestLoad_ProductionRequiresJWTSecret(t *testing.T) {
	t.Setenv("GO_ENV", "production")

	for _, secret := range []string{"", DevJWTSecret} {
		t.Setenv("JWT_SECRET", secret)
		_, err := Load()
		require.Error(t, err, "secret %q", secret)
		assert.Contains(t, err.Error(), "JWT_SECRET")
	}

	t.Setenv("JWT_SECRET", "s3cret")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "s3cret", cfg.JWTSecret)
}

func TestLoad_DevelopmentKeepsDevSecret(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("GO_ENV", "development")
	t.Setenv("JWT_SECRET", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, DevJWTSecret, cfg.JWTSecret)
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	cfg := &Config{Environment: "production", LogLevel: "warn"}
	logger := cfg.NewLogger(&buf)

	logger.Info("hidden")
	logger.Warn("shown", "k", "v")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"msg":"shown"`)
	assert.Contains(t, out, `"k":"v"`)
}

func TestNewLogger_TextAndFallbackLevel(t *testing.T) {
	var buf bytes.Buffer
	cfg := &Config{Environment: "development", LogLevel: "loud"}
	logger := cfg.NewLogger(&buf)

	logger.Debug("hidden")
	logger.Info("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "msg=shown")
}
