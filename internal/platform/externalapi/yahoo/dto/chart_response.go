// Package dto は Yahoo Finance chart API のレスポンス形式を定義します。
package dto

// ChartResponse は /v8/finance/chart/{symbol} のレスポンスです。
type ChartResponse struct {
	Chart Chart `json:"chart"`
}

type Chart struct {
	Result []ChartResult `json:"result"`
	Error  *ChartError   `json:"error"`
}

// ChartError は chart.error です。該当銘柄がない場合 Code は "Not Found" になります。
type ChartError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

type ChartResult struct {
	Meta       ChartMeta  `json:"meta"`
	Timestamp  []int64    `json:"timestamp"`
	Indicators Indicators `json:"indicators"`
}

type ChartMeta struct {
	Currency             string   `json:"currency"`
	Symbol               string   `json:"symbol"`
	ExchangeName         string   `json:"exchangeName"`
	FullExchangeName     string   `json:"fullExchangeName"`
	InstrumentType       string   `json:"instrumentType"`
	LongName             string   `json:"longName"`
	ShortName            string   `json:"shortName"`
	RegularMarketPrice   *float64 `json:"regularMarketPrice"`
	GMTOffset            int      `json:"gmtoffset"` // 秒
	Timezone             string   `json:"timezone"`
	ExchangeTimezoneName string   `json:"exchangeTimezoneName"`
}

// Indicators の各配列は Timestamp と同じ長さで、欠損値は null です。
type Indicators struct {
	Quote    []QuoteIndicator    `json:"quote"`
	AdjClose []AdjCloseIndicator `json:"adjclose"`
}

type QuoteIndicator struct {
	Open   []*float64 `json:"open"`
	High   []*float64 `json:"high"`
	Low    []*float64 `json:"low"`
	Close  []*float64 `json:"close"`
	Volume []*float64 `json:"volume"`
}

type AdjCloseIndicator struct {
	AdjClose []*float64 `json:"adjclose"`
}
