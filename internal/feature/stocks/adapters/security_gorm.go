package adapters

import (
	"context"
	"errors"
	"fmt"
	"mokabulens/internal/feature/stocks/domain/entity"
	"mokabulens/internal/feature/stocks/usecase"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// securityGorm は SecurityRepository の GORM 実装です。
type securityGorm struct {
	db *gorm.DB
}

var _ usecase.SecurityRepository = (*securityGorm)(nil)

// NewSecurityRepository は指定されたDB接続で securityGorm を生成します。
func NewSecurityRepository(db *gorm.DB) *securityGorm {
	return &securityGorm{db: db}
}

// FindActiveBySymbol は有効な銘柄を symbol の完全一致で取得します。
func (r *securityGorm) FindActiveBySymbol(ctx context.Context, symbol string) (*entity.Security, error) {
	var m SecurityModel
	err := r.db.WithContext(ctx).
		Where("symbol = ? AND is_active = ?", symbol, true).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("find stock_info %s: %w", symbol, err)
	}
	e := m.toEntity()
	return &e, nil
}

// likeEscaper は LIKE のワイルドカードをリテラルとして扱うためのエスケープです。
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// SearchActiveByName は company_name の部分一致 (大文字小文字無視) で検索します。
func (r *securityGorm) SearchActiveByName(ctx context.Context, query string, limit int) ([]entity.Security, error) {
	pattern := "%" + likeEscaper.Replace(strings.ToLower(query)) + "%"

	var rows []SecurityModel
	q := r.db.WithContext(ctx).
		Where(`LOWER(company_name) LIKE ? ESCAPE '\'`, pattern).
		Where("is_active = ?", true).
		Order("symbol ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("search stock_info by name: %w", err)
	}

	out := make([]entity.Security, 0, len(rows))
	for _, m := range rows {
		out = append(out, m.toEntity())
	}
	return out, nil
}

// FindActiveBySymbols は symbols のうち有効な銘柄を1クエリで取得します。
func (r *securityGorm) FindActiveBySymbols(ctx context.Context, symbols []string) ([]entity.Security, error) {
	if len(symbols) == 0 {
		return nil, nil
	}
	var rows []SecurityModel
	if err := r.db.WithContext(ctx).
		Where("symbol IN ? AND is_active = ?", symbols, true).
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("find stock_info by symbols: %w", err)
	}

	out := make([]entity.Security, 0, len(rows))
	for _, m := range rows {
		out = append(out, m.toEntity())
	}
	return out, nil
}

// UpsertBySymbol は symbol が既にあれば会社情報と updated_at を上書きし、なければ挿入します。
// is_active と created_at は更新しません。
func (r *securityGorm) UpsertBySymbol(ctx context.Context, sec entity.Security) error {
	m := toSecurityModel(sec)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "symbol"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"company_name", "company_name_en", "market", "sector", "industry", "updated_at",
			}),
		}).Create(&m).Error
		if err != nil {
			return fmt.Errorf("upsert stock_info %s: %w", sec.Symbol, err)
		}
		return nil
	})
}
