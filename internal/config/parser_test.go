package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfigAppliesDefaults(t *testing.T) {
	cfg, err := ParseConfig([]byte(`{}`))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "chromedp", cfg.Engine)
	assert.Equal(t, 60, cfg.Scraper.NavigationTimeoutSeconds)
	assert.Equal(t, 20, cfg.Scraper.ScrollTimes)
	assert.Equal(t, 700, cfg.Scraper.ScrollDelayMillis)
	assert.Equal(t, 2, cfg.Scraper.SettleSeconds)
	assert.Equal(t, 3, cfg.Scraper.ConsentWaitSeconds)
}

func TestParseConfigRespectsValues(t *testing.T) {
	cfg, err := ParseConfig([]byte(`{
		"server": {"addr": ":9090"},
		"engine": "rod",
		"scraper": {"scroll_times": 5, "scroll_delay_millis": 250}
	}`))
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "rod", cfg.Engine)
	assert.Equal(t, 5, cfg.Scraper.ScrollTimes)
	assert.Equal(t, 250, cfg.Scraper.ScrollDelayMillis)
}

func TestParseConfigRejectsBadJSON(t *testing.T) {
	_, err := ParseConfig([]byte(`{broken`))
	require.Error(t, err)
}
