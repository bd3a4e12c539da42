package rentals

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cinespark/cinespark-backend/internal/gateway"
	"github.com/cinespark/cinespark-backend/internal/payments"
	"github.com/cinespark/cinespark-backend/pkg/db"
	"github.com/cinespark/cinespark-backend/pkg/db/models"
	"github.com/cinespark/cinespark-backend/pkg/enums"
	pkgerrors "github.com/cinespark/cinespark-backend/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const activeRentalConstraint = "uq_rentals_active_user_item"

const defaultPaymentMethod = "tarjeta"

// Service exposes rental operations to controllers.
type Service interface {
	List(ctx context.Context, userID int64) ([]RentalDTO, error)
	Create(ctx context.Context, userID int64, req CreateRentalRequest) (*CreateRentalResult, error)
	Check(ctx context.Context, userID, itemID int64) (*CheckResult, error)
	Cancel(ctx context.Context, userID, rentalID int64) (*RentalDTO, error)
	Extend(ctx context.Context, userID, rentalID int64, req ExtendRequest) (*ExtendResult, error)
}

type itemFinder interface {
	FindByID(ctx context.Context, id int64) (*models.ContentItem, error)
}

type userFinder interface {
	FindByID(ctx context.Context, id int64) (*models.User, error)
}

// ServiceParams groups dependencies for the rentals service.
type ServiceParams struct {
	DB      *db.Client
	Repo    Repository
	Charger gateway.Charger
	Items   itemFinder
	Users   userFinder
	Now     func() time.Time
}

type service struct {
	db      *db.Client
	repo    Repository
	charger gateway.Charger
	items   itemFinder
	users   userFinder
	now     func() time.Time
}

// NewService builds a rentals service.
func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, fmt.Errorf("db client is required")
	}
	if params.Repo == nil {
		return nil, fmt.Errorf("repo is required")
	}
	if params.Charger == nil {
		return nil, fmt.Errorf("charger is required")
	}
	if params.Items == nil {
		return nil, fmt.Errorf("item finder is required")
	}
	if params.Users == nil {
		return nil, fmt.Errorf("user finder is required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		db:      params.DB,
		repo:    params.Repo,
		charger: params.Charger,
		items:   params.Items,
		users:   params.Users,
		now:     now,
	}, nil
}

func (s *service) List(ctx context.Context, userID int64) ([]RentalDTO, error) {
	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list rentals")
	}
	dtos := make([]RentalDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *fromModel(&rows[i]))
	}
	return dtos, nil
}

// Create opens a rental, charging the gateway upfront when Days is set.
// The charge settles before the insert transaction, so a concurrent
// create that wins the unique index leaves a settled charge with no
// payment row. Clients can detect the duplicate through the Conflict
// details and the Idempotency-Key header guards replays.
func (s *service) Create(ctx context.Context, userID int64, req CreateRentalRequest) (*CreateRentalResult, error) {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}

	item, err := s.items.FindByID(ctx, req.ItemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup item")
	}

	if existing, err := s.repo.FindActiveByUserAndItem(ctx, userID, req.ItemID); err == nil {
		return nil, activeRentalConflict(existing)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check existing rental")
	}

	var chargeResult *gateway.ChargeResult
	var amount decimal.Decimal
	if req.Days != nil {
		days := *req.Days
		if days <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "days must be positive")
		}
		if item.PricePerDay <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item has no configured price")
		}
		amount = decimal.NewFromInt(item.PricePerDay).Mul(decimal.NewFromInt(int64(days)))

		method := req.Method
		if method == "" {
			method = defaultPaymentMethod
		}
		result, err := s.charger.Charge(ctx, gateway.ChargeRequest{
			Amount:   amount,
			Method:   method,
			Category: string(enums.PaymentCategoryRental),
			Metadata: map[string]string{
				"item_id": fmt.Sprint(item.ID),
				"days":    fmt.Sprint(days),
			},
		})
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "gateway charge")
		}
		if !result.Succeeded() {
			return nil, pkgerrors.New(pkgerrors.CodePaymentDeclined, "payment declined")
		}
		chargeResult = &result
	}

	var rental *models.Rental
	var payment *models.Payment
	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		created, err := txRepo.Create(ctx, &models.Rental{
			UserID:   userID,
			ItemID:   item.ID,
			Status:   enums.RentalStatusActive,
			RentedAt: s.now().UTC(),
		})
		if err != nil {
			return err
		}
		rental = created

		if chargeResult != nil {
			method := req.Method
			if method == "" {
				method = defaultPaymentMethod
			}
			itemID := item.ID
			payment, _, err = payments.RecordPaymentAndInvoice(ctx, tx, payments.RecordInput{
				UserID:    userID,
				ItemID:    &itemID,
				Category:  enums.PaymentCategoryRental,
				Amount:    amount,
				Method:    method,
				ChargeRef: chargeResult.ID,
				Detail:    fmt.Sprintf("Pago alquiler película: %s", item.Title),
			})
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "record payment")
			}
		}
		return nil
	})
	if err != nil {
		// The partial unique index is the last line of defense against a
		// concurrent rental of the same item slipping past the pre-check.
		if pkgerrors.IsUniqueViolation(err, activeRentalConstraint) {
			if existing, findErr := s.repo.FindActiveByUserAndItem(ctx, userID, req.ItemID); findErr == nil {
				return nil, activeRentalConflict(existing)
			}
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "item already rented")
		}
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create rental")
	}

	rental.Item = item
	result := &CreateRentalResult{Rental: fromModel(rental)}
	if payment != nil {
		result.Payment = paymentDTO(payment)
	}
	return result, nil
}

func (s *service) Check(ctx context.Context, userID, itemID int64) (*CheckResult, error) {
	rental, err := s.repo.FindActiveByUserAndItem(ctx, userID, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &CheckResult{HasRental: false}, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check rental")
	}
	return &CheckResult{HasRental: true, Rental: fromModel(rental)}, nil
}

func (s *service) Cancel(ctx context.Context, userID, rentalID int64) (*RentalDTO, error) {
	rental, err := s.repo.FindByID(ctx, rentalID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "rental not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load rental")
	}
	if rental.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "rental not found")
	}
	if rental.Status != enums.RentalStatusActive {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "only active rentals can be cancelled")
	}

	if err := s.repo.UpdateStatus(ctx, rentalID, enums.RentalStatusCancelled); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "cancel rental")
	}
	rental.Status = enums.RentalStatusCancelled
	return fromModel(rental), nil
}

func (s *service) Extend(ctx context.Context, userID, rentalID int64, req ExtendRequest) (*ExtendResult, error) {
	if req.AdditionalDays <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "additional days must be positive")
	}

	rental, err := s.repo.FindByID(ctx, rentalID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "active rental not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load rental")
	}
	if rental.UserID != userID || rental.Status != enums.RentalStatusActive {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "active rental not found")
	}
	if rental.Item == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "rental misses item data")
	}
	if rental.Item.PricePerDay <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item has no configured price")
	}

	amount := decimal.NewFromInt(rental.Item.PricePerDay).Mul(decimal.NewFromInt(int64(req.AdditionalDays)))

	method := req.Method
	if method == "" {
		method = defaultPaymentMethod
	}

	chargeResult, err := s.charger.Charge(ctx, gateway.ChargeRequest{
		Amount:   amount,
		Method:   method,
		Category: string(enums.PaymentCategoryRentalExtension),
		Metadata: map[string]string{
			"rental_id": fmt.Sprint(rentalID),
			"days":      fmt.Sprint(req.AdditionalDays),
		},
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "gateway charge")
	}
	if !chargeResult.Succeeded() {
		return nil, pkgerrors.New(pkgerrors.CodePaymentDeclined, "payment declined")
	}

	newAnchor := s.now().UTC()
	var payment *models.Payment
	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		itemID := rental.ItemID
		created, _, err := payments.RecordPaymentAndInvoice(ctx, tx, payments.RecordInput{
			UserID:    userID,
			ItemID:    &itemID,
			Category:  enums.PaymentCategoryRentalExtension,
			Amount:    amount,
			Method:    method,
			ChargeRef: chargeResult.ID,
			Detail: fmt.Sprintf("Extensión de %d día(s) adicional(es) para: %s (%s)",
				req.AdditionalDays, rental.Item.Title, rental.Item.Type),
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "record payment")
		}
		payment = created

		// Extension renews the rental window from now rather than stacking
		// days onto the previous anchor.
		return s.repo.WithTx(tx).UpdateRentedAt(ctx, rentalID, newAnchor)
	})
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "extend rental")
	}

	rental.RentedAt = newAnchor
	return &ExtendResult{
		Rental:       fromModel(rental),
		DaysExtended: req.AdditionalDays,
		AmountPaid:   amount,
		Payment:      paymentDTO(payment),
	}, nil
}

func activeRentalConflict(existing *models.Rental) *pkgerrors.Error {
	err := pkgerrors.New(pkgerrors.CodeConflict, "item already rented")
	if existing != nil {
		err = err.WithDetails(map[string]any{
			"existing_rental_id": existing.ID,
			"status":             existing.Status,
		})
	}
	return err
}

func paymentDTO(p *models.Payment) *payments.PaymentDTO {
	if p == nil {
		return nil
	}
	return &payments.PaymentDTO{
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
