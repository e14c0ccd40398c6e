// Package usecase は銘柄検索と価格履歴の取得・保存のビジネスロジックを実装します。
package usecase

import (
	"context"
	"mokabulens/internal/feature/stocks/domain"
	"mokabulens/internal/feature/stocks/domain/entity"
	"mokabulens/internal/shared/ratelimiter"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	// DefaultSearchLimit は検索結果のデフォルト件数です。
	DefaultSearchLimit = 10
	// MaxSearchLimit は検索結果の最大件数です。
	MaxSearchLimit = 50
	// DefaultPopularLimit は人気銘柄のデフォルト件数です。
	DefaultPopularLimit = 20
	// DefaultPeriod / DefaultInterval は価格履歴のデフォルト取得条件です。
	DefaultPeriod   = "1d"
	DefaultInterval = "1d"
	// DefaultMarketSuffix は数字コードに付ける東証のサフィックスです。
	DefaultMarketSuffix = ".T"

	// 保存時に取得する価格履歴の条件
	savePeriod   = "1mo"
	saveInterval = "1d"
)

// PopularSymbols は人気銘柄として返す銘柄コードです。
var PopularSymbols = []string{
	"6758", // ソニーグループ
	"9984", // ソフトバンクグループ
	"7203", // トヨタ自動車
	"8306", // 三菱UFJフィナンシャル・グループ
	"6861", // キーエンス
	"9433", // KDDI
	"4063", // 信越化学工業
	"8035", // 東京エレクトロン
	"4519", // 中外製薬
	"6501", // 日立製作所
	"1605", // INPEX
}

// StockUsecase はローカルストアと外部プロバイダを突き合わせるユースケースです。
type StockUsecase struct {
	securities SecurityRepository
	prices     PriceBarRepository
	provider   QuoteProvider

	log     *zap.Logger
	limiter ratelimiter.RateLimiterInterface
	suffix  string
}

// Option は StockUsecase の任意設定です。
type Option func(*StockUsecase)

// WithLogger はロガーを設定します。
func WithLogger(l *zap.Logger) Option {
	return func(u *StockUsecase) {
		if l != nil {
			u.log = l
		}
	}
}

// WithRateLimiter は Popular のプロバイダ呼び出しを rl で制限します。
func WithRateLimiter(rl ratelimiter.RateLimiterInterface) Option {
	return func(u *StockUsecase) { u.limiter = rl }
}

// WithMarketSuffix は数字コードに付けるサフィックスを変更します。
func WithMarketSuffix(s string) Option {
	return func(u *StockUsecase) { u.suffix = s }
}

// NewStockUsecase は StockUsecase の新しいインスタンスを生成します。
func NewStockUsecase(securities SecurityRepository, prices PriceBarRepository, provider QuoteProvider, opts ...Option) *StockUsecase {
	u := &StockUsecase{
		securities: securities,
		prices:     prices,
		provider:   provider,
		log:        zap.NewNop(),
		suffix:     DefaultMarketSuffix,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// isNumericCode は s が空でなく ASCII 数字のみで構成されるかを判定します。
func isNumericCode(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// providerSymbol は数字コードに市場サフィックスを付けます。
func (u *StockUsecase) providerSymbol(symbol string) string {
	if isNumericCode(symbol) {
		return symbol + u.suffix
	}
	return symbol
}

// Search は銘柄コードまたは会社名で銘柄を検索します。
// ストアに何もなく、かつ数字コードの場合のみ外部プロバイダに問い合わせます。
func (u *StockUsecase) Search(ctx context.Context, query string, limit int) ([]entity.Security, error) {
	const op = "search"

	query = strings.TrimSpace(query)
	if query == "" {
		return []entity.Security{}, nil
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	if limit > MaxSearchLimit {
		limit = MaxSearchLimit
	}

	results := make([]entity.Security, 0, limit)
	seen := make(map[string]struct{}, limit)
	numeric := isNumericCode(query)

	if numeric {
		sec, err := u.securities.FindActiveBySymbol(ctx, query)
		if err != nil {
			u.log.Error("failed to look up symbol", zap.String("query", query), zap.Error(err))
			return nil, domain.NewError(domain.KindLookup, op, err)
		}
		if sec != nil {
			results = append(results, *sec)
			seen[sec.Symbol] = struct{}{}
		}
	}

	if len(results) < limit {
		byName, err := u.securities.SearchActiveByName(ctx, query, limit)
		if err != nil {
			u.log.Error("failed to search by name", zap.String("query", query), zap.Error(err))
			return nil, domain.NewError(domain.KindLookup, op, err)
		}
		for _, sec := range byName {
			if len(results) >= limit {
				break
			}
			if _, dup := seen[sec.Symbol]; dup {
				continue
			}
			results = append(results, sec)
			seen[sec.Symbol] = struct{}{}
		}
	}

	if len(results) > 0 || !numeric {
		// 会社名での外部検索は提供しない
		return results, nil
	}

	meta, err := u.provider.FetchMetadata(ctx, u.providerSymbol(query))
	if err != nil {
		u.log.Error("external search failed", zap.String("query", query), zap.Error(err))
		return nil, domain.NewError(domain.KindLookup, op, err)
	}
	if meta == nil {
		return results, nil
	}
	return append(results, securityFromMetadata(query, meta)), nil
}

// securityFromMetadata はプロバイダの情報から未保存の Security を組み立てます。
func securityFromMetadata(symbol string, meta *entity.QuoteMetadata) entity.Security {
	name := meta.LongName
	if name == "" {
		name = meta.ShortName
	}
	if name == "" {
		name = symbol
	}
	return entity.Security{
		Symbol:        symbol,
		CompanyName:   name,
		CompanyNameEn: optional(meta.ShortName),
		Market:        optional(meta.Exchange),
		Sector:        optional(meta.Sector),
		Industry:      optional(meta.Industry),
		IsActive:      true,
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// GetPriceSeries はプロバイダから最新の価格履歴を取得し、前日比を計算します。
func (u *StockUsecase) GetPriceSeries(ctx context.Context, symbol, period, interval string) (*entity.PriceSeries, error) {
	const op = "getPriceSeries"

	if period == "" {
		period = DefaultPeriod
	}
	if interval == "" {
		interval = DefaultInterval
	}

	q, err := u.provider.FetchSeries(ctx, u.providerSymbol(symbol), period, interval)
	if err != nil {
		u.log.Error("failed to fetch price series",
			zap.String("symbol", symbol),
			zap.String("period", period),
			zap.String("interval", interval),
			zap.Error(err),
		)
		return nil, domain.NewError(domain.KindLookup, op, err)
	}
	if q == nil || len(q.Bars) == 0 {
		return nil, domain.NewError(domain.KindNotFound, op, nil)
	}

	bars := make([]entity.PriceBar, len(q.Bars))
	for i, b := range q.Bars {
		b.Symbol = symbol
		if b.AdjustedClose == nil {
			b.AdjustedClose = b.Close
		}
		bars[i] = b
	}

	latest := bars[len(bars)-1]
	series := &entity.PriceSeries{
		Symbol:       symbol,
		CompanyName:  q.Metadata.LongName,
		CurrentPrice: latest.Close,
		Volume:       latest.Volume,
		MarketCap:    q.Metadata.MarketCap,
		Bars:         bars,
	}
	if series.CompanyName == "" {
		series.CompanyName = q.Metadata.ShortName
	}
	if len(bars) > 1 {
		series.Change, series.ChangePercent = dailyChange(bars[len(bars)-2].Close, latest.Close)
	}
	return series, nil
}

// dailyChange は前日比と騰落率(%)を返します。
// どちらかの終値が欠損しているか前日終値が 0 の場合は 0, 0 です。
func dailyChange(prevClose, latestClose *float64) (float64, float64) {
	if prevClose == nil || latestClose == nil {
		return 0, 0
	}
	prev := decimal.NewFromFloat(*prevClose)
	if prev.IsZero() {
		return 0, 0
	}
	change := decimal.NewFromFloat(*latestClose).Sub(prev)
	pct := change.Div(prev).Mul(decimal.NewFromInt(100))
	return change.InexactFloat64(), pct.InexactFloat64()
}

// SaveMetadata は銘柄情報を symbol をキーに保存します。
func (u *StockUsecase) SaveMetadata(ctx context.Context, sec entity.Security) error {
	const op = "saveMetadata"

	if sec.Symbol == "" || sec.CompanyName == "" {
		return domain.NewError(domain.KindInvalid, op, nil)
	}
	if err := u.securities.UpsertBySymbol(ctx, sec); err != nil {
		u.log.Error("failed to save stock info", zap.String("symbol", sec.Symbol), zap.Error(err))
		return domain.NewError(domain.KindPersistence, op, err)
	}
	return nil
}

// SavePriceSeries は価格バーを (symbol, date) をキーに保存します。
// 同じ日付が複数ある場合は後のものが優先されます。
func (u *StockUsecase) SavePriceSeries(ctx context.Context, symbol string, bars []entity.PriceBar) error {
	const op = "savePriceSeries"

	if len(bars) == 0 {
		return nil
	}

	out := make([]entity.PriceBar, 0, len(bars))
	index := make(map[int64]int, len(bars))
	for _, b := range bars {
		b.Symbol = symbol
		b.Date = entity.TradingDate(b.Date)
		key := b.Date.Unix()
		if i, ok := index[key]; ok {
			out[i] = b
			continue
		}
		index[key] = len(out)
		out = append(out, b)
	}

	if err := u.prices.UpsertBatch(ctx, out); err != nil {
		u.log.Error("failed to save stock prices",
			zap.String("symbol", symbol),
			zap.Int("bars", len(out)),
			zap.Error(err),
		)
		return domain.NewError(domain.KindPersistence, op, err)
	}
	return nil
}

// GetInfo は銘柄コードに一致する銘柄を1件返します。
func (u *StockUsecase) GetInfo(ctx context.Context, symbol string) (*entity.Security, error) {
	results, err := u.Search(ctx, symbol, 1)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, domain.NewError(domain.KindNotFound, "getInfo", nil)
	}
	return &results[0], nil
}

// SaveStock は銘柄情報と直近1か月の日足を取得して保存します。
// 最初に失敗した処理のエラーをそのまま返します。
func (u *StockUsecase) SaveStock(ctx context.Context, symbol string) error {
	results, err := u.Search(ctx, symbol, 1)
	if err != nil {
		return err
	}
	if len(results) > 0 {
		if err := u.SaveMetadata(ctx, results[0]); err != nil {
			return err
		}
	}

	series, err := u.GetPriceSeries(ctx, symbol, savePeriod, saveInterval)
	if err != nil {
		return err
	}
	if len(series.Bars) > 0 {
		if err := u.SavePriceSeries(ctx, symbol, series.Bars); err != nil {
			return err
		}
	}
	u.log.Info("stock saved", zap.String("symbol", symbol), zap.Int("bars", len(series.Bars)))
	return nil
}

// Popular は人気銘柄を PopularSymbols の順で返します。
// ストアにない銘柄は個別に検索し、失敗したものはログに出してスキップします。
func (u *StockUsecase) Popular(ctx context.Context, limit int) ([]entity.Security, error) {
	if limit <= 0 {
		limit = DefaultPopularLimit
	}
	symbols := PopularSymbols
	if limit < len(symbols) {
		symbols = symbols[:limit]
	}

	cached, err := u.securities.FindActiveBySymbols(ctx, symbols)
	if err != nil {
		u.log.Error("failed to load popular stocks", zap.Error(err))
		return nil, domain.NewError(domain.KindLookup, "popular", err)
	}
	bySymbol := make(map[string]entity.Security, len(cached))
	for _, sec := range cached {
		bySymbol[sec.Symbol] = sec
	}

	results := make([]entity.Security, 0, len(symbols))
	for _, s := range symbols {
		if sec, ok := bySymbol[s]; ok {
			results = append(results, sec)
			continue
		}

		if u.limiter != nil {
			if err := u.limiter.WaitIfNeeded(ctx); err != nil {
				u.log.Warn("popular lookup interrupted", zap.String("symbol", s), zap.Error(err))
				break
			}
		}
		found, err := u.Search(ctx, s, 1)
		if err != nil {
			// 1銘柄の失敗では止めずに次へ
			u.log.Warn("failed to fetch popular stock", zap.String("symbol", s), zap.Error(err))
			continue
		}
		if len(found) > 0 {
			results = append(results, found[0])
		}
	}
	return results, nil
}
