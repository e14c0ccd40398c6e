package yahoo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"mokabulens/internal/feature/stocks/domain/entity"
	"mokabulens/internal/feature/stocks/usecase"
	"mokabulens/internal/platform/externalapi/yahoo/dto"
	"mokabulens/internal/platform/metrics"
)

// ErrSymbolNotFound は該当銘柄が存在しないことを示します。
var ErrSymbolNotFound = errors.New("yahoo: symbol not found")

const chartPath = "/v8/finance/chart/{symbol}"

// Client は Yahoo Finance chart API から銘柄情報と価格履歴を取得する QuoteProvider 実装です。
type Client struct {
	cfg     Config
	http    *resty.Client
	breaker *gobreaker.CircuitBreaker
	log     *zap.Logger
}

// ClientがQuoteProviderを実装していることをコンパイル時に検証します。
var _ usecase.QuoteProvider = (*Client)(nil)

// NewClient は指定された設定とHTTPクライアントで Client を生成します。
func NewClient(cfg Config, hc *http.Client, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = 5
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}

	rc := resty.NewWithClient(hc).
		SetBaseURL(cfg.BaseURL).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", cfg.UserAgent)

	threshold := cfg.FailureThreshold
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "yahoo",
		MaxRequests: 1,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= threshold
		},
		// 該当なしやキャンセルはプロバイダの障害ではない
		IsSuccessful: func(err error) bool {
			return err == nil ||
				errors.Is(err, ErrSymbolNotFound) ||
				errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	return &Client{cfg: cfg, http: rc, breaker: cb, log: logger}
}

// FetchMetadata は銘柄のメタデータを返します。該当銘柄がなければ (nil, nil) です。
// chart API は時価総額・業種を返さないため MarketCap / Sector / Industry は空です。
func (c *Client) FetchMetadata(ctx context.Context, symbol string) (*entity.QuoteMetadata, error) {
	res, err := c.chart(ctx, "metadata", symbol, "1d", "1d")
	if errors.Is(err, ErrSymbolNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	meta := toMetadata(res.Meta)
	return &meta, nil
}

// FetchSeries は period/interval の価格履歴を古い順に返します。
// 該当銘柄がない場合はバーが空の Quote を返します。
func (c *Client) FetchSeries(ctx context.Context, symbol, period, interval string) (*entity.Quote, error) {
	res, err := c.chart(ctx, "series", symbol, period, interval)
	if errors.Is(err, ErrSymbolNotFound) {
		return &entity.Quote{}, nil
	}
	if err != nil {
		return nil, err
	}

	bars, err := toBars(res)
	if err != nil {
		return nil, fmt.Errorf("yahoo %s: %w", symbol, err)
	}
	return &entity.Quote{Metadata: toMetadata(res.Meta), Bars: bars}, nil
}

// chart はブレーカー経由で chart API を呼び出し、最初の result を返します。
func (c *Client) chart(ctx context.Context, op, symbol, period, interval string) (*dto.ChartResult, error) {
	start := time.Now()
	v, err := c.breaker.Execute(func() (interface{}, error) {
		return c.doChart(ctx, symbol, period, interval)
	})
	metrics.ObserveProvider(op, outcome(err), time.Since(start))

	if err != nil {
		if !errors.Is(err, ErrSymbolNotFound) {
			c.log.Warn("yahoo request failed",
				zap.String("operation", op),
				zap.String("symbol", symbol),
				zap.Error(err),
			)
		}
		return nil, err
	}
	return v.(*dto.ChartResult), nil
}

func (c *Client) doChart(ctx context.Context, symbol, period, interval string) (*dto.ChartResult, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("symbol", symbol).
		SetQueryParams(map[string]string{
			"range":                period,
			"interval":             interval,
			"includeAdjustedClose": "true",
		}).
		Get(chartPath)
	if err != nil {
		return nil, fmt.Errorf("yahoo request: %w", err)
	}

	var body dto.ChartResponse
	decodeErr := json.Unmarshal(resp.Body(), &body)

	if decodeErr == nil && body.Chart.Error != nil && body.Chart.Error.Code == "Not Found" {
		return nil, ErrSymbolNotFound
	}
	if resp.IsError() {
		return nil, fmt.Errorf("yahoo http %d", resp.StatusCode())
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("decode chart response: %w", decodeErr)
	}
	if body.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo: %s: %s", body.Chart.Error.Code, body.Chart.Error.Description)
	}
	if len(body.Chart.Result) == 0 {
		return nil, ErrSymbolNotFound
	}
	return &body.Chart.Result[0], nil
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrSymbolNotFound):
		return "not_found"
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return "rejected"
	default:
		return "error"
	}
}

func toMetadata(m dto.ChartMeta) entity.QuoteMetadata {
	return entity.QuoteMetadata{
		Symbol:    m.Symbol,
		LongName:  m.LongName,
		ShortName: m.ShortName,
		Exchange:  m.ExchangeName,
	}
}

// toBars は列指向の indicators をバーの列に変換します。
// 時刻は取引所のタイムゾーンに合わせるので、日付は現地の暦日になります。
func toBars(res *dto.ChartResult) ([]entity.PriceBar, error) {
	if len(res.Timestamp) == 0 {
		return []entity.PriceBar{}, nil
	}
	if len(res.Indicators.Quote) == 0 {
		return nil, errors.New("chart response has timestamps but no quote indicators")
	}
	q := res.Indicators.Quote[0]
	var adj []*float64
	if len(res.Indicators.AdjClose) > 0 {
		adj = res.Indicators.AdjClose[0].AdjClose
	}

	loc := exchangeLocation(res.Meta)
	bars := make([]entity.PriceBar, 0, len(res.Timestamp))
	for i, ts := range res.Timestamp {
		b := entity.PriceBar{
			Date:          time.Unix(ts, 0).In(loc),
			Open:          at(q.Open, i),
			High:          at(q.High, i),
			Low:           at(q.Low, i),
			Close:         at(q.Close, i),
			AdjustedClose: at(adj, i),
		}
		if v := at(q.Volume, i); v != nil {
			vol := int64(*v)
			b.Volume = &vol
		}
		bars = append(bars, b)
	}
	return bars, nil
}

// at は i 番目の値を返します。範囲外や null は nil です。
func at(xs []*float64, i int) *float64 {
	if i >= len(xs) || xs[i] == nil {
		return nil
	}
	v := *xs[i]
	return &v
}

func exchangeLocation(m dto.ChartMeta) *time.Location {
	if m.ExchangeTimezoneName != "" {
		if loc, err := time.LoadLocation(m.ExchangeTimezoneName); err == nil {
			return loc
		}
	}
	name := m.Timezone
	if name == "" {
		name = "UTC"
	}
	return time.FixedZone(name, m.GMTOffset)
}
