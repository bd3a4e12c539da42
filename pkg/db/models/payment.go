package models

import (
	"time"

	"github.com/cinespark/cinespark-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

// Payment records a settled charge. Rows are immutable once written.
type Payment struct {
	ID        int64                 `gorm:"column:id;primaryKey;autoIncrement"`
	UserID    int64                 `gorm:"column:user_id;not null;index"`
	ItemID    *int64                `gorm:"column:item_id"`
	Category  enums.PaymentCategory `gorm:"column:category;type:text;not null"`
	Amount    decimal.Decimal       `gorm:"column:amount;type:numeric(12,2);not null"`
	Method    string                `gorm:"column:method;not null"`
	Status    enums.PaymentStatus   `gorm:"column:status;type:text;not null;default:'Completado'"`
	ChargeRef string                `gorm:"column:charge_ref;not null;default:''"`
	PaidAt    time.Time             `gorm:"column:paid_at;autoCreateTime"`
}
