package models

import (
	"time"

	"github.com/cinespark/cinespark-backend/pkg/enums"
)

// ContentItem is a rentable catalog entry: a film, a series, or a game.
type ContentItem struct {
	ID          int64             `gorm:"column:id;primaryKey;autoIncrement"`
	Title       string            `gorm:"column:title;not null;index"`
	Genre       string            `gorm:"column:genre;not null"`
	Type        enums.ContentType `gorm:"column:type;type:text;not null"`
	ReleaseYear int               `gorm:"column:release_year;not null"`
	Description string            `gorm:"column:description;not null;default:''"`
	ImageURL    string            `gorm:"column:image_url;not null;default:''"`
	// PricePerDay is the daily rental price in catalog currency units.
	// Zero means unpriced; such items cannot be extended.
	PricePerDay int64     `gorm:"column:price_per_day;not null;default:0"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
