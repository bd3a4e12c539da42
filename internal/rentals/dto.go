package rentals

import (
	"time"

	"github.com/cinespark/cinespark-backend/internal/payments"
	"github.com/cinespark/cinespark-backend/pkg/db/models"
	"github.com/cinespark/cinespark-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

// ItemSummary is the catalog snapshot returned alongside each rental.
type ItemSummary struct {
	ID          int64             `json:"id"`
	Title       string            `json:"title"`
	Genre       string            `json:"genre"`
	Type        enums.ContentType `json:"type"`
	ReleaseYear int               `json:"release_year"`
	ImageURL    string            `json:"image_url"`
}

// RentalDTO is the transport shape for a rental.
type RentalDTO struct {
	ID       int64              `json:"id"`
	UserID   int64              `json:"user_id"`
	ItemID   int64              `json:"item_id"`
	Status   enums.RentalStatus `json:"status"`
	RentedAt time.Time          `json:"rented_at"`
	Item     *ItemSummary       `json:"item,omitempty"`
}

// CreateRentalRequest starts a rental. When Days is set the rental is
// charged and persisted atomically with its payment and invoice.
type CreateRentalRequest struct {
	ItemID int64  `json:"item_id" validate:"required,min=1"`
	Days   *int   `json:"days,omitempty" validate:"omitempty,min=1,max=90"`
	Method string `json:"method,omitempty" validate:"omitempty,max=50"`
}

// CreateRentalResult is the rental plus the payment when one was taken.
type CreateRentalResult struct {
	Rental  *RentalDTO           `json:"rental"`
	Payment *payments.PaymentDTO `json:"payment,omitempty"`
}

// CheckResult reports whether the user holds an active rental for an item.
type CheckResult struct {
	HasRental bool       `json:"has_rental"`
	Rental    *RentalDTO `json:"rental,omitempty"`
}

// ExtendRequest adds days to an active rental.
type ExtendRequest struct {
	AdditionalDays int    `json:"additional_days" validate:"required,min=1,max=90"`
	Method         string `json:"method,omitempty" validate:"omitempty,max=50"`
}

// ExtendResult reports the refreshed rental and what was charged.
type ExtendResult struct {
	Rental       *RentalDTO           `json:"rental"`
	DaysExtended int                  `json:"days_extended"`
	AmountPaid   decimal.Decimal      `json:"amount_paid"`
	Payment      *payments.PaymentDTO `json:"payment"`
}

func fromModel(r *models.Rental) *RentalDTO {
	if r == nil {
		return nil
	}
	dto := &RentalDTO{
		ID:       r.ID,
		UserID:   r.UserID,
		ItemID:   r.ItemID,
		Status:   r.Status,
		RentedAt: r.RentedAt,
	}
	if r.Item != nil {
		dto.Item = &ItemSummary{
			ID:          r.Item.ID,
			Title:       r.Item.Title,
			Genre:       r.Item.Genre,
			Type:        r.Item.Type,
			ReleaseYear: r.Item.ReleaseYear,
			ImageURL:    r.Item.ImageURL,
		}
	}
	return dto
}
