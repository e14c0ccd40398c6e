// Package handler は stocks フィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"mokabulens/internal/feature/stocks/domain"
	"mokabulens/internal/feature/stocks/domain/entity"
	"mokabulens/internal/feature/stocks/transport/http/dto"
)

// StockUsecase は銘柄検索・価格取得のユースケースインターフェースです。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type StockUsecase interface {
	Search(ctx context.Context, query string, limit int) ([]entity.Security, error)
	GetPriceSeries(ctx context.Context, symbol, period, interval string) (*entity.PriceSeries, error)
	GetInfo(ctx context.Context, symbol string) (*entity.Security, error)
	SaveStock(ctx context.Context, symbol string) error
	Popular(ctx context.Context, limit int) ([]entity.Security, error)
}

// StockHandler は /api/v1/stocks 以下のリクエストを処理します。
type StockHandler struct {
	uc StockUsecase
}

// NewStockHandler は新しい StockHandler を作成します。
func NewStockHandler(uc StockUsecase) *StockHandler {
	return &StockHandler{uc: uc}
}

// Search は企業名または証券コードで銘柄を検索します。
//
// エンドポイント例:
// GET /api/v1/stocks/search?query=ソニー&limit=10
func (h *StockHandler) Search(c *gin.Context) {
	var q dto.SearchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		validationError(c, err)
		return
	}

	secs, err := h.uc.Search(c.Request.Context(), q.Query, q.Limit)
	if err != nil {
		usecaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSearchResponse(secs))
}

// Price は価格系列と前日比を返します。
//
// エンドポイント例:
// GET /api/v1/stocks/6758/price?period=1mo&interval=1d
func (h *StockHandler) Price(c *gin.Context) {
	var q dto.PriceQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		validationError(c, err)
		return
	}

	ps, err := h.uc.GetPriceSeries(c.Request.Context(), c.Param("symbol"), q.Period, q.Interval)
	if err != nil {
		usecaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewPriceSeriesResponse(ps))
}

// Info は1銘柄の情報を返します。見つからない場合は404です。
func (h *StockHandler) Info(c *gin.Context) {
	sec, err := h.uc.GetInfo(c.Request.Context(), c.Param("symbol"))
	if err != nil {
		usecaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewStockInfoResponse(*sec))
}

// Save は銘柄情報と直近1か月の日足をストアに保存します。
func (h *StockHandler) Save(c *gin.Context) {
	symbol := c.Param("symbol")
	if err := h.uc.SaveStock(c.Request.Context(), symbol); err != nil {
		usecaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: fmt.Sprintf("株式データを保存しました: %s", symbol)})
}

// Popular は人気銘柄の一覧を返します。
func (h *StockHandler) Popular(c *gin.Context) {
	var q dto.PopularQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		validationError(c, err)
		return
	}

	secs, err := h.uc.Popular(c.Request.Context(), q.Limit)
	if err != nil {
		usecaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSearchResponse(secs))
}

func validationError(c *gin.Context, err error) {
	c.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{
		Error:  "Validation error",
		Detail: err.Error(),
		Code:   domain.KindInvalid.String(),
	})
}

// usecaseError はエラー種別をHTTPステータスに変換します。
func usecaseError(c *gin.Context, err error) {
	kind := domain.KindOf(err)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "Not found", Detail: err.Error(), Code: kind.String()})
	case errors.Is(err, domain.ErrInvalid):
		c.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{Error: "Validation error", Detail: err.Error(), Code: kind.String()})
	default:
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Internal server error", Detail: err.Error(), Code: kind.String()})
	}
}
