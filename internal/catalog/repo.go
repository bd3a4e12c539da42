package catalog

import (
	"context"
	"strings"

	"github.com/cinespark/cinespark-backend/pkg/db/models"
	"github.com/cinespark/cinespark-backend/pkg/pagination"
	"gorm.io/gorm"
)

// Repository defines persistence operations for catalog items.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, item *models.ContentItem) (*models.ContentItem, error)
	Update(ctx context.Context, item *models.ContentItem) (*models.ContentItem, error)
	Delete(ctx context.Context, id int64) error
	FindByID(ctx context.Context, id int64) (*models.ContentItem, error)
	List(ctx context.Context, input ListInput) ([]models.ContentItem, string, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a catalog repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, item *models.ContentItem) (*models.ContentItem, error) {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

func (r *repository) Update(ctx context.Context, item *models.ContentItem) (*models.ContentItem, error) {
	if err := r.db.WithContext(ctx).Save(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&models.ContentItem{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) FindByID(ctx context.Context, id int64) (*models.ContentItem, error) {
	var item models.ContentItem
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *repository) List(ctx context.Context, input ListInput) ([]models.ContentItem, string, error) {
	pageSize := pagination.NormalizeLimit(input.Pagination.Limit)
	limitWithBuffer := pagination.LimitWithBuffer(input.Pagination.Limit)

	cursor, err := pagination.ParseCursor(input.Pagination.Cursor)
	if err != nil {
		return nil, "", err
	}

	qb := r.db.WithContext(ctx).Model(&models.ContentItem{})

	filter := input.Filters
	if search := strings.TrimSpace(filter.Query); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		qb = qb.Where("(LOWER(title) LIKE ? OR LOWER(description) LIKE ?)", pattern, pattern)
	}
	if filter.Genre != "" {
		qb = qb.Where("genre = ?", filter.Genre)
	}
	if filter.Year != 0 {
		qb = qb.Where("release_year = ?", filter.Year)
	}
	if filter.Type != "" {
		qb = qb.Where("type = ?", filter.Type)
	}

	if cursor != nil {
		qb = qb.Where("(created_at < ?) OR (created_at = ? AND id < ?)", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}

	var items []models.ContentItem
	err = qb.Order("created_at DESC").Order("id DESC").Limit(limitWithBuffer).Find(&items).Error
	if err != nil {
		return nil, "", err
	}

	nextCursor := ""
	if len(items) > pageSize {
		items = items[:pageSize]
		last := items[len(items)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return items, nextCursor, nil
}
