// Package config はアプリケーション全体の設定を環境変数から読み込みます。
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"mokabulens/internal/platform/db"
	"mokabulens/internal/platform/externalapi/yahoo"
	"mokabulens/internal/platform/logger"
	"mokabulens/internal/platform/redis"
)

const (
	EnvDevelopment = "development"
	EnvStaging     = "staging"
	EnvProduction  = "production"
)

// API は HTTP サーバーの設定です。
type API struct {
	Host        string
	Port        int
	Debug       bool
	CORSOrigins []string
}

// Security は認証関連の設定です。
type Security struct {
	JWTSecret   string
	RequireAuth bool
}

// Log はロガーの設定です。
type Log struct {
	Level string
	File  string
}

// Provider は外部プロバイダ呼び出しの設定です。
type Provider struct {
	Yahoo        yahoo.Config
	MarketSuffix string
	// RateLimit は1分あたりの呼び出し上限です。0以下は無制限。
	RateLimit int
}

// Config はアプリケーション設定です。
type Config struct {
	Environment   string
	Version       string
	API           API
	Database      db.Config
	RunMigrations bool
	Security      Security
	Log           Log
	Redis         redis.Config
	CacheTTL      time.Duration
	Provider      Provider
}

// IsDevelopment は開発環境かどうかを返します。
func (c *Config) IsDevelopment() bool {
	return c.Environment == EnvDevelopment
}

// Addr は listen アドレスです。
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.API.Host, c.API.Port)
}

// Load は .env（存在すれば）と環境変数から設定を読み込み、検証します。
func Load() (*Config, error) {
	// .env が無いのは正常
	_ = godotenv.Load()

	cfg := &Config{
		Environment: strings.ToLower(getEnv("ENVIRONMENT", EnvDevelopment)),
		Version:     getEnv("VERSION", "1.0.0"),
		API: API{
			Host:        getEnv("API_HOST", "0.0.0.0"),
			CORSOrigins: splitCSV(getEnv("API_CORS_ORIGINS", "http://localhost:3000,http://localhost:3001")),
		},
		Database: db.LoadConfigFromEnv(),
		Security: Security{
			JWTSecret: os.Getenv("SECURITY_JWT_SECRET"),
		},
		Log: Log{
			Level: strings.ToUpper(getEnv("LOG_LEVEL", "INFO")),
			File:  os.Getenv("LOG_FILE"),
		},
		Redis: redis.LoadConfig(),
		Provider: Provider{
			Yahoo:        yahoo.LoadConfig(),
			MarketSuffix: getEnv("PROVIDER_MARKET_SUFFIX", ".T"),
		},
	}

	switch cfg.Environment {
	case EnvDevelopment, EnvStaging, EnvProduction:
	default:
		return nil, fmt.Errorf("ENVIRONMENT must be one of development, staging, production: %q", cfg.Environment)
	}
	if _, err := logger.ParseLevel(cfg.Log.Level); err != nil {
		return nil, fmt.Errorf("LOG_LEVEL: %w", err)
	}

	var err error
	if cfg.API.Port, err = getInt("API_PORT", 8000); err != nil {
		return nil, err
	}
	if cfg.API.Port <= 0 || cfg.API.Port > 65535 {
		return nil, fmt.Errorf("API_PORT out of range: %d", cfg.API.Port)
	}
	if cfg.API.Debug, err = getBool("API_DEBUG", false); err != nil {
		return nil, err
	}
	if cfg.Security.RequireAuth, err = getBool("SECURITY_REQUIRE_AUTH", false); err != nil {
		return nil, err
	}
	if cfg.RunMigrations, err = getBool("RUN_MIGRATIONS", false); err != nil {
		return nil, err
	}
	if cfg.CacheTTL, err = getDuration("CACHE_TTL", 5*time.Minute); err != nil {
		return nil, err
	}
	if cfg.Provider.RateLimit, err = getInt("PROVIDER_RATE_LIMIT", 60); err != nil {
		return nil, err
	}
	if cfg.Provider.Yahoo.Timeout, err = getDuration("PROVIDER_TIMEOUT", cfg.Provider.Yahoo.Timeout); err != nil {
		return nil, err
	}
	if cfg.Provider.Yahoo.Timeout <= 0 {
		return nil, fmt.Errorf("PROVIDER_TIMEOUT must be positive: %s", cfg.Provider.Yahoo.Timeout)
	}
	if cfg.Security.RequireAuth && cfg.Security.JWTSecret == "" {
		return nil, fmt.Errorf("SECURITY_JWT_SECRET is required when SECURITY_REQUIRE_AUTH is enabled")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func getBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
