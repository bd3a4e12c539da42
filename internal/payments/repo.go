package payments

import (
	"context"

	"github.com/cinespark/cinespark-backend/pkg/db/models"
	"github.com/cinespark/cinespark-backend/pkg/pagination"
	"gorm.io/gorm"
)

// Repository defines persistence operations for payments and invoices.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreatePayment(ctx context.Context, payment *models.Payment) (*models.Payment, error)
	CreateInvoice(ctx context.Context, invoice *models.Invoice) (*models.Invoice, error)
	ListPaymentsByUser(ctx context.Context, input ListInput) ([]models.Payment, string, error)
	ListInvoicesByUser(ctx context.Context, input ListInput) ([]models.Invoice, string, error)
	FindInvoiceByPayment(ctx context.Context, paymentID int64) (*models.Invoice, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a payments repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreatePayment(ctx context.Context, payment *models.Payment) (*models.Payment, error) {
	if err := r.db.WithContext(ctx).Create(payment).Error; err != nil {
		return nil, err
	}
	return payment, nil
}

func (r *repository) CreateInvoice(ctx context.Context, invoice *models.Invoice) (*models.Invoice, error) {
	if err := r.db.WithContext(ctx).Create(invoice).Error; err != nil {
		return nil, err
	}
	return invoice, nil
}

func (r *repository) ListPaymentsByUser(ctx context.Context, input ListInput) ([]models.Payment, string, error) {
	pageSize := pagination.NormalizeLimit(input.Pagination.Limit)
	limitWithBuffer := pagination.LimitWithBuffer(input.Pagination.Limit)

	cursor, err := pagination.ParseCursor(input.Pagination.Cursor)
	if err != nil {
		return nil, "", err
	}

	qb := r.db.WithContext(ctx).
		Model(&models.Payment{}).
		Where("user_id = ?", input.UserID)
	if cursor != nil {
		qb = qb.Where("(paid_at < ?) OR (paid_at = ? AND id < ?)", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}

	var rows []models.Payment
	if err := qb.Order("paid_at DESC").Order("id DESC").Limit(limitWithBuffer).Find(&rows).Error; err != nil {
		return nil, "", err
	}

	nextCursor := ""
	if len(rows) > pageSize {
		rows = rows[:pageSize]
		last := rows[len(rows)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.PaidAt, ID: last.ID})
	}
	return rows, nextCursor, nil
}

func (r *repository) ListInvoicesByUser(ctx context.Context, input ListInput) ([]models.Invoice, string, error) {
	pageSize := pagination.NormalizeLimit(input.Pagination.Limit)
	limitWithBuffer := pagination.LimitWithBuffer(input.Pagination.Limit)

	cursor, err := pagination.ParseCursor(input.Pagination.Cursor)
	if err != nil {
		return nil, "", err
	}

	qb := r.db.WithContext(ctx).
		Model(&models.Invoice{}).
		Where("user_id = ?", input.UserID)
	if cursor != nil {
		qb = qb.Where("(issued_at < ?) OR (issued_at = ? AND id < ?)", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}

	var rows []models.Invoice
	if err := qb.Order("issued_at DESC").Order("id DESC").Limit(limitWithBuffer).Find(&rows).Error; err != nil {
		return nil, "", err
	}

	nextCursor := ""
	if len(rows) > pageSize {
		rows = rows[:pageSize]
		last := rows[len(rows)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.IssuedAt, ID: last.ID})
	}
	return rows, nextCursor, nil
}

func (r *repository) FindInvoiceByPayment(ctx context.Context, paymentID int64) (*models.Invoice, error) {
	var invoice models.Invoice
	if err := r.db.WithContext(ctx).First(&invoice, "payment_id = ?", paymentID).Error; err != nil {
		return nil, err
	}
	return &invoice, nil
}
