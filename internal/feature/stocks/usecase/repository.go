package usecase

import (
	"context"
	"mokabulens/internal/feature/stocks/domain/entity"
)

// SecurityRepository は銘柄メタデータのストアを抽象化します。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type SecurityRepository interface {
	// FindActiveBySymbol は有効な銘柄を完全一致で探します。見つからなければ (nil, nil) です。
	FindActiveBySymbol(ctx context.Context, symbol string) (*entity.Security, error)
	// SearchActiveByName は会社名の部分一致 (大文字小文字を区別しない) で最大 limit 件返します。
	SearchActiveByName(ctx context.Context, query string, limit int) ([]entity.Security, error)
	// FindActiveBySymbols は symbols のうちストアにある有効な銘柄を返します。順序は保証しません。
	FindActiveBySymbols(ctx context.Context, symbols []string) ([]entity.Security, error)
	// UpsertBySymbol は symbol をキーに1トランザクションで挿入または更新します。
	UpsertBySymbol(ctx context.Context, sec entity.Security) error
}

// PriceBarRepository は価格バーの書き込みレイヤーを抽象化します。
type PriceBarRepository interface {
	// UpsertBatch は (symbol, date) をキーに全件を1トランザクションで書き込みます。
	UpsertBatch(ctx context.Context, bars []entity.PriceBar) error
}
