package entity

import "time"

// PriceBar は1銘柄1日分の OHLCV です。
// (Symbol, Date) がストア上で一意になります。
type PriceBar struct {
	Symbol        string
	Date          time.Time
	Open          *float64
	High          *float64
	Low           *float64
	Close         *float64
	AdjustedClose *float64
	Volume        *int64
	CreatedAt     time.Time
}

// TradingDate は t をその時刻のロケーションにおける暦日の UTC 0時に正規化します。
// 取引所ローカル時刻で渡せば、日本市場の足は日本の日付で保存されます。
func TradingDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
