package subscriptions

import (
	"context"
	"errors"
	"fmt"

	"github.com/cinespark/cinespark-backend/internal/gateway"
	"github.com/cinespark/cinespark-backend/internal/payments"
	"github.com/cinespark/cinespark-backend/pkg/db"
	"github.com/cinespark/cinespark-backend/pkg/db/models"
	"github.com/cinespark/cinespark-backend/pkg/enums"
	pkgerrors "github.com/cinespark/cinespark-backend/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Service exposes subscription operations to controllers.
type Service interface {
	List(ctx context.Context, userID int64) ([]SubscriptionDTO, error)
	ListAll(ctx context.Context) ([]SubscriptionDTO, error)
	Create(ctx context.Context, userID int64, req CreateSubscriptionRequest) (*CreateSubscriptionResult, error)
}

type userFinder interface {
	FindByID(ctx context.Context, id int64) (*models.User, error)
}

// ServiceParams groups dependencies for the subscriptions service.
type ServiceParams struct {
	DB      *db.Client
	Repo    Repository
	Charger gateway.Charger
	Users   userFinder
}

type service struct {
	db      *db.Client
	repo    Repository
	charger gateway.Charger
	users   userFinder
}

// NewService builds a subscriptions service.
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
	if params.Users == nil {
		return nil, fmt.Errorf("user finder is required")
	}
	return &service{
		db:      params.DB,
		repo:    params.Repo,
		charger: params.Charger,
		users:   params.Users,
	}, nil
}

func (s *service) List(ctx context.Context, userID int64) ([]SubscriptionDTO, error) {
	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list subscriptions")
	}
	return toDTOs(rows), nil
}

func (s *service) ListAll(ctx context.Context) ([]SubscriptionDTO, error) {
	rows, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list subscriptions")
	}
	return toDTOs(rows), nil
}

func (s *service) Create(ctx context.Context, userID int64, req CreateSubscriptionRequest) (*CreateSubscriptionResult, error) {
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be positive")
	}

	if _, err := s.users.FindByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}

	chargeResult, err := s.charger.Charge(ctx, gateway.ChargeRequest{
		Amount:   req.Amount,
		Method:   req.Method,
		Category: string(enums.PaymentCategorySubscription),
		Metadata: map[string]string{"plan": req.Plan},
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "gateway charge")
	}
	if !chargeResult.Succeeded() {
		return nil, pkgerrors.New(pkgerrors.CodePaymentDeclined, "payment declined")
	}

	var sub *models.Subscription
	var payment *models.Payment
	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		created, err := s.repo.WithTx(tx).Create(ctx, &models.Subscription{
			UserID: userID,
			Plan:   req.Plan,
			EndsAt: req.EndsAt,
		})
		if err != nil {
			return err
		}
		sub = created

		payment, _, err = payments.RecordPaymentAndInvoice(ctx, tx, payments.RecordInput{
			UserID:    userID,
			Category:  enums.PaymentCategorySubscription,
			Amount:    req.Amount,
			Method:    req.Method,
			ChargeRef: chargeResult.ID,
			Detail:    fmt.Sprintf("Pago suscripción %s", req.Plan),
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "record payment")
		}
		return nil
	})
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create subscription")
	}

	return &CreateSubscriptionResult{
		Subscription: fromModel(sub),
		Payment: &payments.PaymentDTO{
			ID:        payment.ID,
			UserID:    payment.UserID,
			Category:  payment.Category,
			Amount:    payment.Amount,
			Method:    payment.Method,
			Status:    payment.Status,
			ChargeRef: payment.ChargeRef,
			PaidAt:    payment.PaidAt,
		},
	}, nil
}

func toDTOs(rows []models.Subscription) []SubscriptionDTO {
	dtos := make([]SubscriptionDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *fromModel(&rows[i]))
	}
	return dtos
}
