// Package router はHTTPルーティングを組み立てます。
package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	stockhandler "mokabulens/internal/feature/stocks/transport/handler"
	"mokabulens/internal/platform/http/handler"
	jwtmw "mokabulens/internal/platform/jwt"
	"mokabulens/internal/platform/logger"
	"mokabulens/internal/platform/metrics"
)

// Options はルーター構築時の設定です。
type Options struct {
	CORSOrigins []string
	// RequireAuth が true の場合、書き込み系ルートに JWT を要求します。
	RequireAuth bool
	JWTSecret   string
}

func NewRouter(opts Options, log *zap.Logger, platform *handler.PlatformHandler,
	stocks *stockhandler.StockHandler) *gin.Engine {
	r := gin.New()
	r.Use(
		logger.RequestLogger(log),
		logger.Recovery(log),
		metrics.Middleware(),
		cors.New(corsConfig(opts.CORSOrigins)),
	)

	// 認証不要
	r.GET("/", platform.Root)
	r.GET("/health", platform.Health)
	r.HEAD("/health", platform.Health)
	r.OPTIONS("/health", platform.Health)
	r.GET("/config", platform.Config)
	r.GET("/metrics", metrics.Handler())

	v1 := r.Group("/api/v1/stocks")
	{
		v1.GET("/search", stocks.Search)
		v1.GET("/popular", stocks.Popular)
		v1.GET("/:symbol/price", stocks.Price)
		v1.GET("/:symbol/info", stocks.Info)

		// 保存だけは設定に応じて認証を要求
		save := []gin.HandlerFunc{stocks.Save}
		if opts.RequireAuth {
			save = append([]gin.HandlerFunc{jwtmw.AuthRequired(opts.JWTSecret)}, save...)
		}
		v1.POST("/:symbol/save", save...)
	}

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", logger.RequestIDHeader},
		ExposeHeaders:    []string{logger.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		cfg.AllowCredentials = false
		return cfg
	}
	cfg.AllowOrigins = origins
	return cfg
}
