// Package di はアプリケーション部品を組み立てるファクトリを提供します。
package di

import (
	"go.uber.org/zap"

	"mokabulens/internal/platform/externalapi/yahoo"
	infrahttp "mokabulens/internal/platform/http"
)

// NewQuoteProvider はHTTPクライアント込みで設定済みの Yahoo Finance クライアントを生成します。
func NewQuoteProvider(cfg yahoo.Config, logger *zap.Logger) *yahoo.Client {
	httpClient := infrahttp.NewHTTPClient(cfg.Timeout)
	return yahoo.NewClient(cfg, httpClient, logger)
}
