package usecase

import (
	"context"
	"mokabulens/internal/feature/stocks/domain/entity"
)

//go:generate mockgen -source=provider.go -destination=mock_quote_provider_test.go -package=usecase

// QuoteProvider は外部の市場データ API を抽象化します。
// symbol は市場サフィックス付きのプロバイダ用シンボル (例: "6758.T") です。
type QuoteProvider interface {
	// FetchMetadata は銘柄情報を返します。該当銘柄がない場合は (nil, nil) を返します。
	FetchMetadata(ctx context.Context, symbol string) (*entity.QuoteMetadata, error)
	// FetchSeries は period/interval の価格履歴を返します。バーは古い順です。
	FetchSeries(ctx context.Context, symbol, period, interval string) (*entity.Quote, error)
}
