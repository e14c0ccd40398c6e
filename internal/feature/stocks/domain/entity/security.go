// Package entity は stocks フィーチャーのドメインモデルを定義します。
package entity

import "time"

// Security is the locally cached metadata record of one listed company.
// Optional attributes are nil when the provider did not report them.
type Security struct {
	Symbol        string  // 取引所コード (例: "6758")
	CompanyName   string  // 会社名
	CompanyNameEn *string // 英語名 / 略称
	Market        *string
	Sector        *string
	Industry      *string
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
