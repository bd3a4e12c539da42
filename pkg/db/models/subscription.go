package models

import "time"

// Subscription is a recurring plan purchased by a user.
type Subscription struct {
	ID        int64      `gorm:"column:id;primaryKey;autoIncrement"`
	UserID    int64      `gorm:"column:user_id;not null;index"`
	Plan      string     `gorm:"column:plan;not null"`
	StartedAt time.Time  `gorm:"column:started_at;autoCreateTime"`
	EndsAt    *time.Time `gorm:"column:ends_at"`
}
