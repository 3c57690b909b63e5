package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/northfield/contactcrawl/internal/config"
)

func TestLoad_AppliesDocumentedDefaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "CSV-Webcrawler/2.0", cfg.BotName)
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.Equal(t, 8, cfg.GlobalConcurrency)
	assert.True(t, cfg.EnableCache)
	assert.False(t, cfg.EnableMXCheck)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_EnvironmentOverridesDefaults(t *testing.T) {
	t.Setenv("MAX_RETRIES", "7")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 7, cfg.MaxRetries)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestConfig_DurationHelpersConvertMillisecondFields(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, time.Duration(cfg.RequestTimeoutMS)*time.Millisecond, cfg.RequestTimeout())
	assert.Equal(t, time.Duration(cfg.BetweenRequestsMS)*time.Millisecond, cfg.BetweenRequests())
	assert.Equal(t, time.Duration(cfg.PerHostMinTimeMS)*time.Millisecond, cfg.PerHostMinTime())
}
