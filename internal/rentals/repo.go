package rentals

import (
	"context"
	"time"

	"github.com/cinespark/cinespark-backend/pkg/db/models"
	"github.com/cinespark/cinespark-backend/pkg/enums"
	"gorm.io/gorm"
)

// Repository defines persistence operations for rentals.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, rental *models.Rental) (*models.Rental, error)
	FindByID(ctx context.Context, id int64) (*models.Rental, error)
	FindActiveByUserAndItem(ctx context.Context, userID, itemID int64) (*models.Rental, error)
	ListByUser(ctx context.Context, userID int64) ([]models.Rental, error)
	UpdateStatus(ctx context.Context, id int64, status enums.RentalStatus) error
	UpdateRentedAt(ctx context.Context, id int64, at time.Time) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a rentals repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, rental *models.Rental) (*models.Rental, error) {
	if err := r.db.WithContext(ctx).Create(rental).Error; err != nil {
		return nil, err
	}
	return rental, nil
}

func (r *repository) FindByID(ctx context.Context, id int64) (*models.Rental, error) {
	var rental models.Rental
	err := r.db.WithContext(ctx).
		Preload("Item").
		First(&rental, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &rental, nil
}

func (r *repository) FindActiveByUserAndItem(ctx context.Context, userID, itemID int64) (*models.Rental, error) {
	var rental models.Rental
	err := r.db.WithContext(ctx).
		Preload("Item").
		Where("user_id = ? AND item_id = ? AND status = ?", userID, itemID, enums.RentalStatusActive).
		Order("rented_at DESC").
		First(&rental).Error
	if err != nil {
		return nil, err
	}
	return &rental, nil
}

func (r *repository) ListByUser(ctx context.Context, userID int64) ([]models.Rental, error) {
	var rentals []models.Rental
	err := r.db.WithContext(ctx).
		Preload("Item").
		Where("user_id = ?", userID).
		Order("rented_at DESC").
		Find(&rentals).Error
	if err != nil {
		return nil, err
	}
	return rentals, nil
}

func (r *repository) UpdateStatus(ctx context.Context, id int64, status enums.RentalStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.Rental{}).
		Where("id = ?", id).
		UpdateColumn("status", status).Error
}

func (r *repository) UpdateRentedAt(ctx context.Context, id int64, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.Rental{}).
		Where("id = ?", id).
		UpdateColumn("rented_at", at).Error
}
