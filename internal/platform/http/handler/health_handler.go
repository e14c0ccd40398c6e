// Package handler はプラットフォームレベルのエンドポイント用HTTPハンドラーを提供します。
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// APIInfo は /config に出す API サーバーの設定です。
type APIInfo struct {
	Host  string `json:"host"`
	Port  int    `json:"port"`
	Debug bool   `json:"debug"`
}

// DatabaseInfo は /config に出すデータベース設定です。パスワードは含めません。
type DatabaseInfo struct {
	Host string `json:"host"`
	Port string `json:"port"`
	Name string `json:"name"`
	User string `json:"user"`
}

// ServiceInfo はプラットフォームエンドポイントが返すサービス情報です。
type ServiceInfo struct {
	Version     string
	Environment string
	API         APIInfo
	Database    DatabaseInfo
}

// PlatformHandler は /, /health, /config を処理します。
type PlatformHandler struct {
	info ServiceInfo
}

// NewPlatformHandler は PlatformHandler の新しいインスタンスを生成します。
func NewPlatformHandler(info ServiceInfo) *PlatformHandler {
	return &PlatformHandler{info: info}
}

// Root は稼働確認用のメッセージを返します。
func (h *PlatformHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "MokabuLens API is running!"})
}

// Health はサービスヘルスチェック用の /health エンドポイントを処理します。
// HTTPメソッドに応じて適切にレスポンスし、キャッシュを防止します。
func (h *PlatformHandler) Health(c *gin.Context) {
	// 明示的にキャッシュを防止
	c.Header("Cache-Control", "no-store")

	switch c.Request.Method {
	case http.MethodHead:
		c.Status(http.StatusOK)
	case http.MethodOptions:
		c.Status(http.StatusNoContent)
	default:
		c.JSON(http.StatusOK, gin.H{
			"status":        "healthy",
			"version":       h.info.Version,
			"environment":   h.info.Environment,
			"database_host": h.info.Database.Host,
		})
	}
}

// Config は開発環境でのみ秘密情報を除いた設定を返します。
func (h *PlatformHandler) Config(c *gin.Context) {
	if h.info.Environment != "development" {
		c.JSON(http.StatusOK, gin.H{"message": "Configuration not available in production"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"environment": h.info.Environment,
		"api":         h.info.API,
		"database":    h.info.Database,
	})
}
