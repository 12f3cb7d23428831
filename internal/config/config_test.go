package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredSMTP(t *testing.T) {
	t.Helper()
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("SMTP_USER", "relay")
	t.Setenv("SMTP_PASS", "hunter2")
	t.Setenv("SMTP_FROM", "noreply@example.com")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredSMTP(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8787", cfg.AppPort)
	assert.Equal(t, BackendMemory, cfg.StoreBackend)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.AllowedOrigins)
	assert.Equal(t, 587, cfg.SMTPPort)
	assert.False(t, cfg.SMTPSecure)
	assert.Equal(t, 7*24*time.Hour, cfg.JWTExpiry)
	assert.Empty(t, cfg.S3BucketName)
	assert.Empty(t, cfg.ForecastAPIURL)
}

func TestLoad_MissingSMTPFailsFast(t *testing.T) {
	setRequiredSMTP(t)
	t.Setenv("SMTP_PASS", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SMTP_PASS")
}

func TestLoad_UnknownBackendRejected(t *testing.T) {
	setRequiredSMTP(t)
	t.Setenv("STORE_BACKEND", "postgres")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STORE_BACKEND")
}

func TestLoad_OriginListSplitAndTrimmed(t *testing.T) {
	setRequiredSMTP(t)
	t.Setenv("OTP_ALLOWED_ORIGIN", "https://app.example.com, https://staging.example.com ,")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"https://app.example.com", "https://staging.example.com"}, cfg.AllowedOrigins)
}
