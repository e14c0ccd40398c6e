// Package adapters は stocks フィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"mokabulens/internal/feature/stocks/domain/entity"
	"time"
)

// SecurityModel は stock_info テーブルの行です。
type SecurityModel struct {
	ID            uint    `gorm:"primaryKey"`
	Symbol        string  `gorm:"size:20;not null;uniqueIndex"`
	CompanyName   string  `gorm:"size:255;not null"`
	CompanyNameEn *string `gorm:"size:255"`
	Market        *string `gorm:"size:50"`
	Sector        *string `gorm:"size:100"`
	Industry      *string `gorm:"size:100"`
	IsActive      bool    `gorm:"not null;default:true"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (SecurityModel) TableName() string {
	return "stock_info"
}

// PriceBarModel は stock_prices テーブルの行です。
type PriceBarModel struct {
	ID            uint      `gorm:"primaryKey"`
	Symbol        string    `gorm:"size:20;not null;uniqueIndex:stock_prices_symbol_date,priority:1"`
	Date          time.Time `gorm:"type:date;not null;uniqueIndex:stock_prices_symbol_date,priority:2"`
	OpenPrice     *float64
	HighPrice     *float64
	LowPrice      *float64
	ClosePrice    *float64
	Volume        *int64
	AdjustedClose *float64
	CreatedAt     time.Time
}

func (PriceBarModel) TableName() string {
	return "stock_prices"
}

// Models はマイグレーション対象のモデルを返します。
func Models() []any {
	return []any{&SecurityModel{}, &PriceBarModel{}}
}

func toSecurityModel(e entity.Security) SecurityModel {
	return SecurityModel{
		Symbol:        e.Symbol,
		CompanyName:   e.CompanyName,
		CompanyNameEn: e.CompanyNameEn,
		Market:        e.Market,
		Sector:        e.Sector,
		Industry:      e.Industry,
		IsActive:      true, // 新規作成時は常に有効
	}
}

func (m SecurityModel) toEntity() entity.Security {
	return entity.Security{
		Symbol:        m.Symbol,
		CompanyName:   m.CompanyName,
		CompanyNameEn: m.CompanyNameEn,
		Market:        m.Market,
		Sector:        m.Sector,
		Industry:      m.Industry,
		IsActive:      m.IsActive,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func toPriceBarModel(e entity.PriceBar) PriceBarModel {
	return PriceBarModel{
		Symbol:        e.Symbol,
		Date:          entity.TradingDate(e.Date),
		OpenPrice:     e.Open,
		HighPrice:     e.High,
		LowPrice:      e.Low,
		ClosePrice:    e.Close,
		Volume:        e.Volume,
		AdjustedClose: e.AdjustedClose,
	}
}
