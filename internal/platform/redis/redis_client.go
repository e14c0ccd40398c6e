// Package redis は go-redis クライアントの生成を提供します。
package redis

import (
	"context"
	"errors"
	"net"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ErrNotConfigured は REDIS_HOST が未設定でキャッシュを使わないことを示します。
var ErrNotConfigured = errors.New("redis: not configured")

// Config はRedis接続設定です。
type Config struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// LoadConfig は REDIS_* 環境変数から設定を読み込みます。
func LoadConfig() Config {
	port := os.Getenv("REDIS_PORT")
	if port == "" {
		port = "6379"
	}
	return Config{
		Host:     os.Getenv("REDIS_HOST"),
		Port:     port,
		Password: os.Getenv("REDIS_PASSWORD"),
	}
}

// Addr は host:port 形式のアドレスです。
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, c.Port)
}

// NewRedisClient は接続確認済みのクライアントを返します。
// Host が空の場合は ErrNotConfigured を返します。
func NewRedisClient(ctx context.Context, cfg Config, logger *zap.Logger) (*redis.Client, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Host == "" {
		return nil, ErrNotConfigured
	}

	addr := cfg.Addr()
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// 接続確認
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		logger.Error("Redis connection failed", zap.String("address", addr), zap.Error(err))
		_ = rdb.Close()
		return nil, err
	}

	logger.Info("Redis connection successful", zap.String("address", addr))
	return rdb, nil
}
