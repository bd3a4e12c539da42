package models

import (
	"time"

	"github.com/cinespark/cinespark-backend/pkg/enums"
)

// Rental links a user to a content item for the duration of an active
// rental window. RentedAt is the renewal anchor: set at creation and
// overwritten on every successful extension. Rows are never deleted;
// cancellation is a terminal status transition.
//
// A partial unique index on (user_id, item_id) where status = 'Activo'
// enforces the one-active-rental invariant at the database level.
type Rental struct {
	ID        int64              `gorm:"column:id;primaryKey;autoIncrement"`
	UserID    int64              `gorm:"column:user_id;not null;index"`
	ItemID    int64              `gorm:"column:item_id;not null;index"`
	Status    enums.RentalStatus `gorm:"column:status;type:text;not null;default:'Activo'"`
	RentedAt  time.Time          `gorm:"column:rented_at;not null"`
	User      *User              `gorm:"foreignKey:UserID"`
	Item      *ContentItem       `gorm:"foreignKey:ItemID"`
	CreatedAt time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
