package tickets

import (
	"context"

	"github.com/cinespark/cinespark-backend/pkg/db/models"
	"github.com/cinespark/cinespark-backend/pkg/enums"
	"gorm.io/gorm"
)

// Repository defines persistence operations for support tickets.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, ticket *models.Ticket) (*models.Ticket, error)
	FindByID(ctx context.Context, id int64) (*models.Ticket, error)
	FindByIDWithMessages(ctx context.Context, id int64) (*models.Ticket, error)
	ListByUser(ctx context.Context, userID int64) ([]models.Ticket, error)
	ListAll(ctx context.Context) ([]models.Ticket, error)
	UpdateStatus(ctx context.Context, id int64, status enums.TicketStatus) error
	AddMessage(ctx context.Context, message *models.TicketMessage) (*models.TicketMessage, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a tickets repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, ticket *models.Ticket) (*models.Ticket, error) {
	if err := r.db.WithContext(ctx).Create(ticket).Error; err != nil {
		return nil, err
	}
	return ticket, nil
}

func (r *repository) FindByID(ctx context.Context, id int64) (*models.Ticket, error) {
	var ticket models.Ticket
	err := r.db.WithContext(ctx).First(&ticket, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *repository) FindByIDWithMessages(ctx context.Context, id int64) (*models.Ticket, error) {
	var ticket models.Ticket
	err := r.db.WithContext(ctx).
		Preload("Messages", func(db *gorm.DB) *gorm.DB {
			return db.Order("sent_at ASC, id ASC")
		}).
		First(&ticket, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *repository) ListByUser(ctx context.Context, userID int64) ([]models.Ticket, error) {
	var tickets []models.Ticket
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&tickets).Error
	if err != nil {
		return nil, err
	}
	return tickets, nil
}

func (r *repository) ListAll(ctx context.Context) ([]models.Ticket, error) {
	var tickets []models.Ticket
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&tickets).Error
	if err != nil {
		return nil, err
	}
	return tickets, nil
}

func (r *repository) UpdateStatus(ctx context.Context, id int64, status enums.TicketStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.Ticket{}).
		Where("id = ?", id).
		UpdateColumn("status", status).Error
}

func (r *repository) AddMessage(ctx context.Context, message *models.TicketMessage) (*models.TicketMessage, error) {
	if err := r.db.WithContext(ctx).Create(message).Error; err != nil {
		return nil, err
	}
	return message, nil
}
