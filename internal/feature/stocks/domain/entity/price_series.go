package entity

// PriceSeries は価格履歴の取得結果です。
type PriceSeries struct {
	Symbol        string
	CompanyName   string
	CurrentPrice  *float64
	Change        float64
	ChangePercent float64
	Volume        *int64
	MarketCap     *float64
	Bars          []PriceBar
}
