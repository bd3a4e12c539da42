package catalog

import (
	"time"

	"github.com/cinespark/cinespark-backend/pkg/db/models"
	"github.com/cinespark/cinespark-backend/pkg/enums"
	"github.com/cinespark/cinespark-backend/pkg/pagination"
)

// ItemDTO is the catalog transport shape.
type ItemDTO struct {
	ID          int64             `json:"id"`
	Title       string            `json:"title"`
	Genre       string            `json:"genre"`
	Type        enums.ContentType `json:"type"`
	ReleaseYear int               `json:"release_year"`
	Description string            `json:"description"`
	ImageURL    string            `json:"image_url"`
	PricePerDay int64             `json:"price_per_day"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// CreateItemRequest is the admin payload for adding a catalog entry.
// PricePerDay is optional; when absent or zero the price is derived.
type CreateItemRequest struct {
	Title       string `json:"title" validate:"required,max=150"`
	Genre       string `json:"genre" validate:"required,max=100"`
	Type        string `json:"type" validate:"required,max=50"`
	ReleaseYear int    `json:"release_year" validate:"required,min=1900,max=2100"`
	Description string `json:"description" validate:"max=2000"`
	ImageURL    string `json:"image_url" validate:"omitempty,max=255"`
	PricePerDay int64  `json:"price_per_day" validate:"omitempty,min=0"`
}

// UpdateItemRequest is the admin payload for editing a catalog entry.
// The stored price is kept as-is; updates never recompute it.
type UpdateItemRequest struct {
	Title       string `json:"title" validate:"required,max=150"`
	Genre       string `json:"genre" validate:"required,max=100"`
	Type        string `json:"type" validate:"required,max=50"`
	ReleaseYear int    `json:"release_year" validate:"required,min=1900,max=2100"`
	Description string `json:"description" validate:"max=2000"`
	ImageURL    string `json:"image_url" validate:"omitempty,max=255"`
}

// ListFilters describe the supported filter knobs for the browse endpoint.
type ListFilters struct {
	Query string
	Genre string
	Year  int
	Type  string
}

// ListInput captures the inputs needed to paginate/filter the catalog.
type ListInput struct {
	Filters    ListFilters
	Pagination pagination.Params
}

// ListResult is one page of catalog entries plus the next cursor.
type ListResult struct {
	Items      []ItemDTO `json:"items"`
	NextCursor string    `json:"next_cursor,omitempty"`
}

func fromModel(item *models.ContentItem) *ItemDTO {
	if item == nil {
		return nil
	}
	return &ItemDTO{
		ID:          item.ID,
		Title:       item.Title,
		Genre:       item.Genre,
		Type:        item.Type,
		ReleaseYear: item.ReleaseYear,
		Description: item.Description,
		ImageURL:    item.ImageURL,
		PricePerDay: item.PricePerDay,
		CreatedAt:   item.CreatedAt,
		UpdatedAt:   item.UpdatedAt,
	}
}
