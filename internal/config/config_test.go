package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("LINK_TOKEN_SECRET", "secret")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 7, cfg.SendExpiryDays)
	assert.Equal(t, "*/5 * * * *", cfg.SweepSchedule)
	assert.Equal(t, "gemini", cfg.Provider)
	assert.Equal(t, 7*24*time.Hour, cfg.SendExpiry())
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("LINK_TOKEN_SECRET", "secret")
	t.Setenv("PORT", "9090")
	t.Setenv("SEND_EXPIRY_DAYS", "14")
	t.Setenv("EXPIRY_SWEEP_SCHEDULE", "@hourly")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 14, cfg.SendExpiryDays)
	assert.Equal(t, "@hourly", cfg.SweepSchedule)
	assert.Equal(t, 14*24*time.Hour, cfg.SendExpiry())
}

func TestLoadConfigRequiresLinkSecret(t *testing.T) {
	t.Setenv("LINK_TOKEN_SECRET", "")

	_, err := LoadConfig()
	assert.ErrorContains(t, err, "LINK_TOKEN_SECRET")
}

func TestLoadConfigRejectsNonPositiveExpiry(t *testing.T) {
	t.Setenv("LINK_TOKEN_SECRET", "secret")
	t.Setenv("SEND_EXPIRY_DAYS", "0")

	_, err := LoadConfig()
	assert.ErrorContains(t, err, "SEND_EXPIRY_DAYS")
}

func TestLoadConfigRejectsUnknownProvider(t *testing.T) {
	t.Setenv("LINK_TOKEN_SECRET", "secret")
	t.Setenv("AI_PROVIDER", "openai")

	_, err := LoadConfig()
	assert.ErrorContains(t, err, "unsupported AI provider")
}
