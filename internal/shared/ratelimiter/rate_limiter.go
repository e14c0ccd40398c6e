// Package ratelimiter は外部 API 呼び出しの頻度を固定ウィンドウで制限します。
package ratelimiter

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// RateLimiterInterface は、API呼び出しなどの操作の頻度を制限するインターフェースです。
type RateLimiterInterface interface {
	WaitIfNeeded(ctx context.Context) error
}

// RateLimiter は interval ごとに最大 limit 回の呼び出しを許可します。
// 複数のリクエストから同時に呼ばれても安全です。
type RateLimiter struct {
	mu        sync.Mutex
	limit     int           // interval あたりの上限
	interval  time.Duration // どの単位でリセットするか
	count     int
	lastReset time.Time
	now       func() time.Time
	log       *zap.Logger
}

var _ RateLimiterInterface = (*RateLimiter)(nil)

// NewRateLimiter は新しいRateLimiterのインスタンスを生成します。
// limit が 0 以下の場合は制限しません。
func NewRateLimiter(limit int, interval time.Duration, logger *zap.Logger) *RateLimiter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RateLimiter{
		limit:     limit,
		interval:  interval,
		lastReset: time.Now(),
		now:       time.Now,
		log:       logger,
	}
}

// WaitIfNeeded は上限に達していれば次のウィンドウまで待機し、枠を1つ確保します。
// 待機中に ctx が終了した場合は ctx.Err() を返します。
func (rl *RateLimiter) WaitIfNeeded(ctx context.Context) error {
	if rl.limit <= 0 {
		return ctx.Err()
	}
	for {
		wait := rl.reserve()
		if wait <= 0 {
			return nil
		}
		rl.log.Info("rate limit reached, waiting",
			zap.Int("limit", rl.limit),
			zap.Duration("wait", wait),
		)

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// reserve は枠が空いていればカウントして 0 を、なければ待つべき時間を返します。
func (rl *RateLimiter) reserve() time.Duration {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	// interval を過ぎたらカウントリセット
	if now.Sub(rl.lastReset) >= rl.interval {
		rl.count = 0
		rl.lastReset = now
	}
	if rl.count < rl.limit {
		rl.count++
		return 0
	}
	return rl.interval - now.Sub(rl.lastReset)
}
