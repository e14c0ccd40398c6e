// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"mokabulens/internal/feature/stocks/domain/entity"
	"mokabulens/internal/feature/stocks/usecase"
)

// CachingSecurityRepository decorates a SecurityRepository with Redis caching.
// Reads go through the cache; writes go to the inner repository first and
// then invalidate the affected entries.
type CachingSecurityRepository struct {
	inner     usecase.SecurityRepository
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
	log       *zap.Logger

	// untilRefresh は日次更新までの残り時間です。エントリの有効期限はこれを超えません。
	untilRefresh func() time.Duration
}

var _ usecase.SecurityRepository = (*CachingSecurityRepository)(nil)

// NewCachingSecurityRepository decorates a SecurityRepository with Redis caching.
// If ttl is 0, it defaults to 5 minutes. If namespace is empty, it uses "stocks".
// A nil rdb disables caching.
func NewCachingSecurityRepository(rdb *redis.Client, ttl time.Duration, inner usecase.SecurityRepository, namespace string, logger *zap.Logger) *CachingSecurityRepository {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if namespace == "" {
		namespace = "stocks"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachingSecurityRepository{
		inner:        inner,
		rdb:          rdb,
		ttl:          ttl,
		namespace:    namespace,
		log:          logger,
		untilRefresh: TimeUntilNext8AM,
	}
}

// FindActiveBySymbol checks the cache first and falls back to the inner repository.
// Absent symbols are not cached.
func (c *CachingSecurityRepository) FindActiveBySymbol(ctx context.Context, symbol string) (*entity.Security, error) {
	if c.rdb == nil {
		return c.inner.FindActiveBySymbol(ctx, symbol)
	}

	key := c.symbolKey(symbol)
	var cached entity.Security
	if c.get(ctx, key, &cached) {
		return &cached, nil
	}

	sec, err := c.inner.FindActiveBySymbol(ctx, symbol)
	if err != nil || sec == nil {
		return sec, err
	}
	c.set(ctx, key, sec)
	return sec, nil
}

// SearchActiveByName caches the result list per (query, limit), including empty lists.
func (c *CachingSecurityRepository) SearchActiveByName(ctx context.Context, query string, limit int) ([]entity.Security, error) {
	if c.rdb == nil {
		return c.inner.SearchActiveByName(ctx, query, limit)
	}

	key := c.nameKey(query, limit)
	var cached []entity.Security
	if c.get(ctx, key, &cached) {
		return cached, nil
	}

	out, err := c.inner.SearchActiveByName(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []entity.Security{}
	}
	c.set(ctx, key, out)
	return out, nil
}

// FindActiveBySymbols is not cached; it is already a single batched query.
func (c *CachingSecurityRepository) FindActiveBySymbols(ctx context.Context, symbols []string) ([]entity.Security, error) {
	return c.inner.FindActiveBySymbols(ctx, symbols)
}

// UpsertBySymbol writes through and invalidates the symbol entry and every cached name search.
func (c *CachingSecurityRepository) UpsertBySymbol(ctx context.Context, sec entity.Security) error {
	if err := c.inner.UpsertBySymbol(ctx, sec); err != nil {
		return err
	}
	if c.rdb == nil {
		return nil
	}

	// Best effort: don't fail if cache deletion fails
	if err := c.rdb.Del(ctx, c.symbolKey(sec.Symbol)).Err(); err != nil {
		c.log.Warn("cache invalidation failed", zap.String("symbol", sec.Symbol), zap.Error(err))
	}
	if err := c.deleteByPattern(ctx, c.namespace+":name:*"); err != nil {
		c.log.Warn("cache invalidation failed", zap.String("pattern", "name"), zap.Error(err))
	}
	return nil
}

// get reads key into dst. A corrupted entry is deleted and reported as a miss.
func (c *CachingSecurityRepository) get(ctx context.Context, key string, dst any) bool {
	b, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil || len(b) == 0 {
		return false
	}
	if err := json.Unmarshal(b, dst); err != nil {
		_ = c.rdb.Del(ctx, key).Err()
		return false
	}
	return true
}

// set stores v under key (best effort).
func (c *CachingSecurityRepository) set(ctx context.Context, key string, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, key, b, c.expiry()).Err(); err != nil {
		c.log.Debug("cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// expiry は ttl と次の日次更新までの時間の短い方です。
func (c *CachingSecurityRepository) expiry() time.Duration {
	if d := c.untilRefresh(); d > 0 && d < c.ttl {
		return d
	}
	return c.ttl
}

func (c *CachingSecurityRepository) symbolKey(symbol string) string {
	return fmt.Sprintf("%s:sym:%s", c.namespace, safe(symbol))
}

func (c *CachingSecurityRepository) nameKey(query string, limit int) string {
	return fmt.Sprintf("%s:name:%s:%d", c.namespace, safe(strings.ToLower(query)), limit)
}

// deleteByPattern deletes all cache keys matching a given pattern using SCAN.
func (c *CachingSecurityRepository) deleteByPattern(ctx context.Context, pattern string) error {
	var cursor uint64
	for {
		keys, cur, err := c.rdb.Scan(ctx, cursor, pattern, 200).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = cur
		if cursor == 0 {
			break
		}
	}
	return nil
}

// safe percent-encodes characters that are problematic for Redis keys and glob patterns.
// "%" itself is encoded, so distinct inputs never share a key.
func safe(s string) string {
	return keyEscaper.Replace(s)
}

var keyEscaper = strings.NewReplacer(
	"%", "%25",
	" ", "%20",
	":", "%3A",
	"*", "%2A",
	"?", "%3F",
	"[", "%5B",
	"]", "%5D",
	"\\", "%5C",
)
