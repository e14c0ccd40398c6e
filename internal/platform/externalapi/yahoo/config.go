// Package yahoo provides a client for the Yahoo Finance chart API.
package yahoo

import (
	"os"
	"time"
)

const (
	defaultBaseURL   = "https://query1.finance.yahoo.com"
	defaultTimeout   = 10 * time.Second
	defaultUserAgent = "Mozilla/5.0 (compatible; MokabuLens/1.0)"
)

// Config holds configuration for the Yahoo Finance client.
type Config struct {
	BaseURL   string        // Base URL for the API (e.g., "https://query1.finance.yahoo.com")
	Timeout   time.Duration // HTTP request timeout
	UserAgent string

	// 連続失敗がこの回数に達するとサーキットブレーカーが開きます。
	FailureThreshold uint32
	// OpenTimeout はブレーカーが開いてから試行を再開するまでの時間です。
	OpenTimeout time.Duration
}

// LoadConfig loads Yahoo Finance configuration from environment variables.
func LoadConfig() Config {
	cfg := Config{
		BaseURL:          os.Getenv("PROVIDER_BASE_URL"),
		Timeout:          defaultTimeout,
		UserAgent:        defaultUserAgent,
		FailureThreshold: 5,
		OpenTimeout:      30 * time.Second,
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if d, err := time.ParseDuration(os.Getenv("PROVIDER_TIMEOUT")); err == nil && d > 0 {
		cfg.Timeout = d
	}
	return cfg
}
