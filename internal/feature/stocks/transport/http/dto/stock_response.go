package dto

import (
	"time"

	"mokabulens/internal/feature/stocks/domain/entity"
)

// StockInfoResponse は銘柄情報です。
type StockInfoResponse struct {
	Symbol        string  `json:"symbol"`
	CompanyName   string  `json:"company_name"`
	CompanyNameEn *string `json:"company_name_en"`
	Market        *string `json:"market"`
	Sector        *string `json:"sector"`
	Industry      *string `json:"industry"`
}

// StockPriceResponse は1本分の価格データです。
type StockPriceResponse struct {
	Symbol        string    `json:"symbol"`
	Date          time.Time `json:"date"`
	OpenPrice     *float64  `json:"open_price"`
	HighPrice     *float64  `json:"high_price"`
	LowPrice      *float64  `json:"low_price"`
	ClosePrice    *float64  `json:"close_price"`
	Volume        *int64    `json:"volume"`
	AdjustedClose *float64  `json:"adjusted_close"`
}

// PriceSeriesResponse は GET /stocks/:symbol/price のレスポンスです。
// チャートAPIは時価総額を返さないため market_cap は常に null です。
type PriceSeriesResponse struct {
	Symbol        string               `json:"symbol"`
	CompanyName   string               `json:"company_name"`
	CurrentPrice  *float64             `json:"current_price"`
	Change        float64              `json:"change"`
	ChangePercent float64              `json:"change_percent"`
	Volume        *int64               `json:"volume"`
	MarketCap     *float64             `json:"market_cap"`
	Data          []StockPriceResponse `json:"data"`
}

// SearchResponse は検索・人気銘柄のレスポンスです。
type SearchResponse struct {
	Results []StockInfoResponse `json:"results"`
	Total   int                 `json:"total"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse はエラー時のレスポンスです。
type ErrorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
	Code   string `json:"code,omitempty"`
}

// NewStockInfoResponse はエンティティをレスポンスに変換します。
func NewStockInfoResponse(s entity.Security) StockInfoResponse {
	return StockInfoResponse{
		Symbol:        s.Symbol,
		CompanyName:   s.CompanyName,
		CompanyNameEn: s.CompanyNameEn,
		Market:        s.Market,
		Sector:        s.Sector,
		Industry:      s.Industry,
	}
}

// NewSearchResponse は results が null にならないよう空スライスで初期化します。
func NewSearchResponse(secs []entity.Security) SearchResponse {
	out := make([]StockInfoResponse, 0, len(secs))
	for _, s := range secs {
		out = append(out, NewStockInfoResponse(s))
	}
	return SearchResponse{Results: out, Total: len(out)}
}

func NewPriceSeriesResponse(ps *entity.PriceSeries) PriceSeriesResponse {
	data := make([]StockPriceResponse, 0, len(ps.Bars))
	for _, b := range ps.Bars {
		data = append(data, StockPriceResponse{
			Symbol:        b.Symbol,
			Date:          b.Date,
			OpenPrice:     b.Open,
			HighPrice:     b.High,
			LowPrice:      b.Low,
			ClosePrice:    b.Close,
			Volume:        b.Volume,
			AdjustedClose: b.AdjustedClose,
		})
	}
	return PriceSeriesResponse{
		Symbol:        ps.Symbol,
		CompanyName:   ps.CompanyName,
		CurrentPrice:  ps.CurrentPrice,
		Change:        ps.Change,
		ChangePercent: ps.ChangePercent,
		Volume:        ps.Volume,
		MarketCap:     ps.MarketCap,
		Data:          data,
	}
}
