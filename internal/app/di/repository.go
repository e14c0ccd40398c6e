package di

import (
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"mokabulens/internal/feature/stocks/adapters"
	"mokabulens/internal/feature/stocks/usecase"
	"mokabulens/internal/platform/cache"
)

// NewSecurityRepository は SecurityRepository を生成します。
// Redis が利用可能な場合はキャッシュでラップし、そうでなければ gorm 実装をそのまま返します。
func NewSecurityRepository(db *gorm.DB, rdb *redis.Client, ttl time.Duration, logger *zap.Logger) usecase.SecurityRepository {
	repo := adapters.NewSecurityRepository(db)
	if rdb == nil {
		return repo
	}
	return cache.NewCachingSecurityRepository(rdb, ttl, repo, "stocks", logger)
}
