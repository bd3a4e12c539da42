package subscriptions

import (
	"time"

	"github.com/cinespark/cinespark-backend/internal/payments"
	"github.com/cinespark/cinespark-backend/pkg/db/models"
	"github.com/shopspring/decimal"
)

// SubscriptionDTO is the transport shape for a subscription.
type SubscriptionDTO struct {
	ID        int64      `json:"id"`
	UserID    int64      `json:"user_id"`
	Plan      string     `json:"plan"`
	StartedAt time.Time  `json:"started_at"`
	EndsAt    *time.Time `json:"ends_at,omitempty"`
}

// CreateSubscriptionRequest starts a paid subscription.
type CreateSubscriptionRequest struct {
	Plan   string          `json:"plan" validate:"required,max=50"`
	Amount decimal.Decimal `json:"amount" validate:"required"`
	Method string          `json:"method" validate:"required,max=50"`
	EndsAt *time.Time      `json:"ends_at,omitempty"`
}

// CreateSubscriptionResult pairs the new subscription with its payment.
type CreateSubscriptionResult struct {
	Subscription *SubscriptionDTO     `json:"subscription"`
	Payment      *payments.PaymentDTO `json:"payment"`
}

func fromModel(s *models.Subscription) *SubscriptionDTO {
	if s == nil {
		return nil
	}
	return &SubscriptionDTO{
		ID:        s.ID,
		UserID:    s.UserID,
		Plan:      s.Plan,
		StartedAt: s.StartedAt,
		EndsAt:    s.EndsAt,
	}
}
