package payments

import (
	"context"
	"fmt"

	"github.com/cinespark/cinespark-backend/pkg/db/models"
	"github.com/cinespark/cinespark-backend/pkg/enums"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// RecordInput describes one settled charge to persist.
type RecordInput struct {
	UserID    int64
	ItemID    *int64
	Category  enums.PaymentCategory
	Amount    decimal.Decimal
	Method    string
	ChargeRef string
	Detail    string
}

// RecordPaymentAndInvoice writes a payment row and its invoice using the
// provided transaction handle. Callers own the transaction; both rows
// commit or neither does.
func RecordPaymentAndInvoice(ctx context.Context, tx *gorm.DB, in RecordInput) (*models.Payment, *models.Invoice, error) {
	if tx == nil {
		return nil, nil, fmt.Errorf("transaction handle is required")
	}
	if !in.Category.IsValid() {
		return nil, nil, fmt.Errorf("invalid payment category %q", in.Category)
	}

	repo := NewRepository(tx)

	payment, err := repo.CreatePayment(ctx, &models.Payment{
		UserID:    in.UserID,
		ItemID:    in.ItemID,
		Category:  in.Category,
		Amount:    in.Amount,
		Method:    in.Method,
		Status:    enums.PaymentStatusCompleted,
		ChargeRef: in.ChargeRef,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("create payment: %w", err)
	}

	invoice, err := repo.CreateInvoice(ctx, &models.Invoice{
		PaymentID: payment.ID,
		UserID:    in.UserID,
		Detail:    in.Detail,
		Total:     in.Amount,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("create invoice: %w", err)
	}

	return payment, invoice, nil
}
