package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice is the 1:1 companion of a Payment: same owner, a human-readable
// detail line, and a total equal to the payment amount. Written in the same
// transaction as its payment.
type Invoice struct {
	ID        int64           `gorm:"column:id;primaryKey;autoIncrement"`
	PaymentID int64           `gorm:"column:payment_id;not null;uniqueIndex"`
	UserID    int64           `gorm:"column:user_id;not null;index"`
	Detail    string          `gorm:"column:detail;not null"`
	Total     decimal.Decimal `gorm:"column:total;type:numeric(12,2);not null"`
	Payment   *Payment        `gorm:"foreignKey:PaymentID"`
	IssuedAt  time.Time       `gorm:"column:issued_at;autoCreateTime"`
}
