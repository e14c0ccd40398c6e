// Package db は PostgreSQL への GORM 接続を提供します。
package db

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Config はデータベース接続設定です。
type Config struct {
	User     string
	Password string
	Name     string
	Host     string
	Port     string
	// InstanceName が設定されている場合は Cloud SQL の Unix ソケットで接続します。
	InstanceName string
	SSLMode      string
}

// Opener は DSN から gorm.DB を開く関数です。テストで差し替えます。
type Opener func(dsn string) (*gorm.DB, error)

// connectTimeout は起動時の接続リトライの上限時間です。
const connectTimeout = 60 * time.Second

// LoadConfigFromEnv は POSTGRES_* 環境変数から設定を読み込みます。
func LoadConfigFromEnv() Config {
	return Config{
		User:         getEnv("POSTGRES_USER", "postgres"),
		Password:     getEnv("POSTGRES_PASSWORD", "postgres"),
		Name:         getEnv("POSTGRES_DB", "mokabu_lens"),
		Host:         getEnv("POSTGRES_HOST", "postgres"),
		Port:         getEnv("POSTGRES_PORT", "5432"),
		InstanceName: os.Getenv("INSTANCE_CONNECTION_NAME"),
		SSLMode:      getEnv("POSTGRES_SSLMODE", "disable"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// BuildDSN は pgx 形式 (key=value) の DSN を組み立てます。
func BuildDSN(cfg Config) string {
	host, port := cfg.Host, cfg.Port
	if cfg.InstanceName != "" {
		host = "/cloudsql/" + cfg.InstanceName
		port = ""
	}
	sslmode := cfg.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}

	parts := []string{
		"host=" + host,
		"user=" + quote(cfg.User),
		"password=" + quote(cfg.Password),
		"dbname=" + cfg.Name,
	}
	if port != "" {
		parts = append(parts, "port="+port)
	}
	parts = append(parts, "sslmode="+sslmode, "TimeZone=UTC")
	return strings.Join(parts, " ")
}

// quote は空白やクォートを含む値を DSN 用にクォートします。
func quote(v string) string {
	if v != "" && !strings.ContainsAny(v, ` '\`) {
		return v
	}
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `'`, `\'`)
	return "'" + v + "'"
}

// PostgresOpener は本番用の Opener です。
func PostgresOpener(dsn string) (*gorm.DB, error) {
	return gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
}

// ConnectWithRetry は timeout に達するまで指数バックオフで接続を試みます。
func ConnectWithRetry(dsn string, timeout time.Duration, opener Opener, logger *zap.Logger) (*gorm.DB, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.MaxInterval = 3 * time.Second
	b.MaxElapsedTime = timeout

	var db *gorm.DB
	op := func() error {
		var err error
		db, err = opener(dsn)
		return err
	}
	notify := func(err error, next time.Duration) {
		logger.Warn("DB connect failed, retrying", zap.Error(err), zap.Duration("next", next))
	}

	if err := backoff.RetryNotify(op, b, notify); err != nil {
		return nil, fmt.Errorf("DB connect failed after %s: %w", timeout, err)
	}
	return db, nil
}

// OpenDB は設定から接続を開き、コネクションプールを設定します。
func OpenDB(cfg Config, logger *zap.Logger) (*gorm.DB, error) {
	db, err := ConnectWithRetry(BuildDSN(cfg), connectTimeout, PostgresOpener, logger)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	return db, nil
}

// Migrate はテーブルを作成・更新します。
func Migrate(db *gorm.DB, models ...any) error {
	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}
	return nil
}
