// Package dto は stocks フィーチャーのリクエスト・レスポンス型を定義します。
package dto

// SearchQuery は GET /stocks/search のクエリです。
type SearchQuery struct {
	Query string `form:"query" binding:"required,min=1"`
	Limit int    `form:"limit,default=10" binding:"min=1,max=50"`
}

// PriceQuery は GET /stocks/:symbol/price のクエリです。
type PriceQuery struct {
	Period   string `form:"period,default=1d" binding:"oneof=1d 5d 1mo 3mo 6mo 1y 2y 5y 10y ytd max"`
	Interval string `form:"interval,default=1d" binding:"oneof=1m 2m 5m 15m 30m 60m 90m 1h 1d 5d 1wk 1mo 3mo"`
}

// PopularQuery は GET /stocks/popular のクエリです。
type PopularQuery struct {
	Limit int `form:"limit,default=20" binding:"min=1,max=50"`
}
