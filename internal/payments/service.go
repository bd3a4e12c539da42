package payments

import (
	"context"
	"errors"
	"fmt"

	"github.com/cinespark/cinespark-backend/internal/gateway"
	"github.com/cinespark/cinespark-backend/pkg/db"
	"github.com/cinespark/cinespark-backend/pkg/db/models"
	"github.com/cinespark/cinespark-backend/pkg/enums"
	pkgerrors "github.com/cinespark/cinespark-backend/pkg/errors"
	"gorm.io/gorm"
)

// Service exposes payment operations to controllers.
type Service interface {
	PayRental(ctx context.Context, userID int64, req PayRentalRequest) (*PaymentDTO, error)
	PaySubscription(ctx context.Context, userID int64, req PaySubscriptionRequest) (*PaymentDTO, error)
	ListUserPayments(ctx context.Context, input ListInput) (*PaymentListResult, error)
	ListUserInvoices(ctx context.Context, input ListInput) (*InvoiceListResult, error)
}

type itemFinder interface {
	FindByID(ctx context.Context, id int64) (*models.ContentItem, error)
}

type userFinder interface {
	FindByID(ctx context.Context, id int64) (*models.User, error)
}

// ServiceParams groups dependencies for the payments service.
type ServiceParams struct {
	DB      *db.Client
	Repo    Repository
	Charger gateway.Charger
	Items   itemFinder
	Users   userFinder
}

type service struct {
	db      *db.Client
	repo    Repository
	charger gateway.Charger
	items   itemFinder
	users   userFinder
}

// NewService builds a payments service.
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
	return &service{
		db:      params.DB,
		repo:    params.Repo,
		charger: params.Charger,
		items:   params.Items,
		users:   params.Users,
	}, nil
}

func (s *service) PayRental(ctx context.Context, userID int64, req PayRentalRequest) (*PaymentDTO, error) {
	if req.Amount.LessThanOrEqual(decimalZero) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be positive")
	}

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

	result, err := s.charger.Charge(ctx, gateway.ChargeRequest{
		Amount:   req.Amount,
		Method:   req.Method,
		Category: string(enums.PaymentCategoryRental),
		Metadata: map[string]string{"item_id": fmt.Sprint(item.ID)},
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "gateway charge")
	}
	if !result.Succeeded() {
		return nil, pkgerrors.New(pkgerrors.CodePaymentDeclined, "payment declined")
	}

	var payment *models.Payment
	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		itemID := item.ID
		created, _, err := RecordPaymentAndInvoice(ctx, tx, RecordInput{
			UserID:    userID,
			ItemID:    &itemID,
			Category:  enums.PaymentCategoryRental,
			Amount:    req.Amount,
			Method:    req.Method,
			ChargeRef: result.ID,
			Detail:    fmt.Sprintf("Pago alquiler película: %s", item.Title),
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "record payment")
		}
		payment = created
		return nil
	})
	if err != nil {
		return nil, err
	}
	return paymentFromModel(payment), nil
}

func (s *service) PaySubscription(ctx context.Context, userID int64, req PaySubscriptionRequest) (*PaymentDTO, error) {
	if req.Amount.LessThanOrEqual(decimalZero) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be positive")
	}

	if _, err := s.users.FindByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}

	result, err := s.charger.Charge(ctx, gateway.ChargeRequest{
		Amount:   req.Amount,
		Method:   req.Method,
		Category: string(enums.PaymentCategorySubscription),
		Metadata: map[string]string{"plan": req.Plan},
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "gateway charge")
	}
	if !result.Succeeded() {
		return nil, pkgerrors.New(pkgerrors.CodePaymentDeclined, "payment declined")
	}

	var payment *models.Payment
	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		created, _, err := RecordPaymentAndInvoice(ctx, tx, RecordInput{
			UserID:    userID,
			Category:  enums.PaymentCategorySubscription,
			Amount:    req.Amount,
			Method:    req.Method,
			ChargeRef: result.ID,
			Detail:    fmt.Sprintf("Pago suscripción %s", req.Plan),
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "record payment")
		}
		payment = created
		return nil
	})
	if err != nil {
		return nil, err
	}
	return paymentFromModel(payment), nil
}

func (s *service) ListUserPayments(ctx context.Context, input ListInput) (*PaymentListResult, error) {
	rows, nextCursor, err := s.repo.ListPaymentsByUser(ctx, input)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list payments")
	}
	dtos := make([]PaymentDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *paymentFromModel(&rows[i]))
	}
	return &PaymentListResult{Payments: dtos, NextCursor: nextCursor}, nil
}

func (s *service) ListUserInvoices(ctx context.Context, input ListInput) (*InvoiceListResult, error) {
	rows, nextCursor, err := s.repo.ListInvoicesByUser(ctx, input)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list invoices")
	}
	dtos := make([]InvoiceDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *invoiceFromModel(&rows[i]))
	}
	return &InvoiceListResult{Invoices: dtos, NextCursor: nextCursor}, nil
}
