package config

import (
	"encoding/json"
)

func ParseConfig(byteConfig []byte) (*Config, error) {
	var cfg Config
	if err := json.Unmarshal(byteConfig, &cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	return &cfg, nil
}

// applyDefaults fills zero values so a partial config file stays usable.
func applyDefaults(cfg *Config) {
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10
	}
	if cfg.Engine == "" {
		cfg.Engine = "chromedp"
	}
	if cfg.Scraper.NavigationTimeoutSeconds == 0 {
		cfg.Scraper.NavigationTimeoutSeconds = 60
	}
	if cfg.Scraper.ScrollTimes == 0 {
		cfg.Scraper.ScrollTimes = 20
	}
	if cfg.Scraper.ScrollDelayMillis == 0 {
		cfg.Scraper.ScrollDelayMillis = 700
	}
	if cfg.Scraper.SettleSeconds == 0 {
		cfg.Scraper.SettleSeconds = 2
	}
	if cfg.Scraper.ConsentWaitSeconds == 0 {
		cfg.Scraper.ConsentWaitSeconds = 3
	}
	if cfg.Scraper.ConsentSettleSeconds == 0 {
		cfg.Scraper.ConsentSettleSeconds = 2
	}
	if cfg.Scraper.RespChanSize == 0 {
		cfg.Scraper.RespChanSize = 100
	}
}
