package adapters

import (
	"context"
	"fmt"
	"slices"
	"mokabulens/internal/feature/stocks/domain/entity"
	"mokabulens/internal/feature/stocks/usecase"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// upsertChunkSize は1ステートメントあたりの最大行数です。
const upsertChunkSize = 500

type priceBarGorm struct {
	db        *gorm.DB
	chunkSize int
}

var _ usecase.PriceBarRepository = (*priceBarGorm)(nil)

// NewPriceBarRepository は指定されたDB接続で priceBarGorm を生成します。
func NewPriceBarRepository(db *gorm.DB) *priceBarGorm {
	return &priceBarGorm{db: db, chunkSize: upsertChunkSize}
}

// UpsertBatch は bars を (symbol, date) で挿入または更新します。
// チャンクに分けても全体で1トランザクションです。同じキーが1回の呼び出しに
// 複数含まれないこと (呼び出し側で重複排除済み) を前提とします。
// 同時実行される呼び出し同士が同じ順序で行ロックを取るよう (symbol, date) 順に書き込みます。
func (r *priceBarGorm) UpsertBatch(ctx context.Context, bars []entity.PriceBar) error {
	if len(bars) == 0 {
		return nil
	}
	ms := make([]PriceBarModel, 0, len(bars))
	for _, e := range bars {
		ms = append(ms, toPriceBarModel(e))
	}
	slices.SortFunc(ms, func(a, b PriceBarModel) int {
		if a.Symbol != b.Symbol {
			if a.Symbol < b.Symbol {
				return -1
			}
			return 1
		}
		return a.Date.Compare(b.Date)
	})

	onConflict := clause.OnConflict{
		Columns: []clause.Column{{Name: "symbol"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"open_price", "high_price", "low_price", "close_price", "adjusted_close", "volume",
		}),
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for start := 0; start < len(ms); start += r.chunkSize {
			end := min(start+r.chunkSize, len(ms))
			chunk := ms[start:end]
			if err := tx.Clauses(onConflict).Create(&chunk).Error; err != nil {
				return fmt.Errorf("upsert stock_prices %s (%d rows): %w", ms[start].Symbol, len(chunk), err)
			}
		}
		return nil
	})
}
