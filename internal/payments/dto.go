package payments

import (
	"time"

	"github.com/cinespark/cinespark-backend/pkg/db/models"
	"github.com/cinespark/cinespark-backend/pkg/enums"
	"github.com/cinespark/cinespark-backend/pkg/pagination"
	"github.com/shopspring/decimal"
)

var decimalZero = decimal.Zero

// PaymentDTO is the transport shape for a settled payment.
type PaymentDTO struct {
	ID        int64                 `json:"id"`
	UserID    int64                 `json:"user_id"`
	ItemID    *int64                `json:"item_id,omitempty"`
	Category  enums.PaymentCategory `json:"category"`
	Amount    decimal.Decimal       `json:"amount"`
	Method    string                `json:"method"`
	Status    enums.PaymentStatus   `json:"status"`
	ChargeRef string                `json:"charge_ref,omitempty"`
	PaidAt    time.Time             `json:"paid_at"`
}

// InvoiceDTO is the transport shape for an invoice.
type InvoiceDTO struct {
	ID        int64           `json:"id"`
	PaymentID int64           `json:"payment_id"`
	UserID    int64           `json:"user_id"`
	Detail    string          `json:"detail"`
	Total     decimal.Decimal `json:"total"`
	IssuedAt  time.Time       `json:"issued_at"`
}

// PayRentalRequest is the payload for a direct rental payment.
type PayRentalRequest struct {
	ItemID int64           `json:"item_id" validate:"required,min=1"`
	Amount decimal.Decimal `json:"amount" validate:"required"`
	Method string          `json:"method" validate:"required,max=50"`
}

// PaySubscriptionRequest is the payload for a subscription payment.
type PaySubscriptionRequest struct {
	Plan   string          `json:"plan" validate:"required,max=50"`
	Amount decimal.Decimal `json:"amount" validate:"required"`
	Method string          `json:"method" validate:"required,max=50"`
}

// PaymentListResult is one page of payments plus the next cursor.
type PaymentListResult struct {
	Payments   []PaymentDTO `json:"payments"`
	NextCursor string       `json:"next_cursor,omitempty"`
}

// InvoiceListResult is one page of invoices plus the next cursor.
type InvoiceListResult struct {
	Invoices   []InvoiceDTO `json:"invoices"`
	NextCursor string       `json:"next_cursor,omitempty"`
}

// ListInput carries the owner scope and pagination knobs.
type ListInput struct {
	UserID     int64
	Pagination pagination.Params
}

func paymentFromModel(p *models.Payment) *PaymentDTO {
	if p == nil {
		return nil
	}
	return &PaymentDTO{
		ID:        p.ID,
		UserID:    p.UserID,
		ItemID:    p.ItemID,
		Category:  p.Category,
		Amount:    p.Amount,
		Method:    p.Method,
		Status:    p.Status,
		ChargeRef: p.ChargeRef,
		PaidAt:    p.PaidAt,
	}
}

func invoiceFromModel(inv *models.Invoice) *InvoiceDTO {
	if inv == nil {
		return nil
	}
	return &InvoiceDTO{
		ID:        inv.ID,
		PaymentID: inv.PaymentID,
		UserID:    inv.UserID,
		Detail:    inv.Detail,
		Total:     inv.Total,
		IssuedAt:  inv.IssuedAt,
	}
}
