package subscriptions

import (
	"context"
	"testing"
	"time"

	"github.com/cinespark/cinespark-backend/internal/gateway"
	"github.com/cinespark/cinespark-backend/pkg/db"
	"github.com/cinespark/cinespark-backend/pkg/db/models"
	"github.com/cinespark/cinespark-backend/pkg/enums"
	pkgerrors "github.com/cinespark/cinespark-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type stubCharger struct {
	status   string
	requests []gateway.ChargeRequest
}

func (s *stubCharger) Charge(ctx context.Context, req gateway.ChargeRequest) (gateway.ChargeResult, error) {
	s.requests = append(s.requests, req)
	status := s.status
	if status == "" {
		status = gateway.StatusSucceeded
	}
	return gateway.ChargeResult{
		ID:     "fake_sub001",
		Status: status,
		Amount: req.Amount,
		Method: req.Method,
	}, nil
}

type stubUserFinder struct {
	users map[int64]*models.User
}

func (s *stubUserFinder) FindByID(ctx context.Context, id int64) (*models.User, error) {
	if user, ok := s.users[id]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func setupSubscriptionsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:subscriptions_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	subscriptionsTable := `
CREATE TABLE IF NOT EXISTS subscriptions (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  user_id INTEGER NOT NULL,
  plan TEXT NOT NULL,
  started_at DATETIME,
  ends_at DATETIME
);`
	paymentsTable := `
CREATE TABLE IF NOT EXISTS payments (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  user_id INTEGER NOT NULL,
  item_id INTEGER,
  category TEXT NOT NULL,
  amount NUMERIC NOT NULL,
  method TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'Completado',
  charge_ref TEXT NOT NULL DEFAULT '',
  paid_at DATETIME
);`
	invoicesTable := `
CREATE TABLE IF NOT EXISTS invoices (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  payment_id INTEGER NOT NULL UNIQUE,
  user_id INTEGER NOT NULL,
  detail TEXT NOT NULL,
  total NUMERIC NOT NULL,
  issued_at DATETIME
);`
	require.NoError(t, conn.Exec(subscriptionsTable).Error)
	require.NoError(t, conn.Exec(paymentsTable).Error)
	require.NoError(t, conn.Exec(invoicesTable).Error)
	return conn
}

func newSubscriptionsTestService(t *testing.T, conn *gorm.DB, charger gateway.Charger) Service {
	t.Helper()

	svc, err := NewService(ServiceParams{
		DB:      db.NewWithConn(conn),
		Repo:    NewRepository(conn),
		Charger: charger,
		Users: &stubUserFinder{users: map[int64]*models.User{
			1: {ID: 1, Email: "ana@example.com"},
		}},
	})
	require.NoError(t, err)
	return svc
}

func TestServiceCreateRecordsSubscriptionAndPayment(t *testing.T) {
	conn := setupSubscriptionsTestDB(t)
	charger := &stubCharger{}
	svc := newSubscriptionsTestService(t, conn, charger)

	result, err := svc.Create(context.Background(), 1, CreateSubscriptionRequest{
		Plan:   "mensual",
		Amount: decimal.NewFromInt(20000),
		Method: "tarjeta",
	})
	require.NoError(t, err)

	require.NotNil(t, result.Subscription)
	assert.Equal(t, "mensual", result.Subscription.Plan)
	assert.Equal(t, int64(1), result.Subscription.UserID)

	require.NotNil(t, result.Payment)
	assert.Equal(t, enums.PaymentCategorySubscription, result.Payment.Category)
	assert.Equal(t, "fake_sub001", result.Payment.ChargeRef)

	require.Len(t, charger.requests, 1)
	assert.Equal(t, "mensual", charger.requests[0].Metadata["plan"])

	var invoice models.Invoice
	require.NoError(t, conn.First(&invoice, "payment_id = ?", result.Payment.ID).Error)
	assert.Equal(t, "Pago suscripción mensual", invoice.Detail)
	assert.True(t, invoice.Total.Equal(decimal.NewFromInt(20000)))
}

func TestServiceCreateDeclinedWritesNothing(t *testing.T) {
	conn := setupSubscriptionsTestDB(t)
	svc := newSubscriptionsTestService(t, conn, &stubCharger{status: "declined"})

	_, err := svc.Create(context.Background(), 1, CreateSubscriptionRequest{
		Plan:   "anual",
		Amount: decimal.NewFromInt(180000),
		Method: "tarjeta",
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodePaymentDeclined, typed.Code())

	var subCount, paymentCount int64
	require.NoError(t, conn.Model(&models.Subscription{}).Count(&subCount).Error)
	require.NoError(t, conn.Model(&models.Payment{}).Count(&paymentCount).Error)
	assert.Zero(t, subCount)
	assert.Zero(t, paymentCount)
}

func TestServiceCreateRejectsNonPositiveAmount(t *testing.T) {
	conn := setupSubscriptionsTestDB(t)
	svc := newSubscriptionsTestService(t, conn, &stubCharger{})

	_, err := svc.Create(context.Background(), 1, CreateSubscriptionRequest{
		Plan:   "mensual",
		Amount: decimal.Zero,
		Method: "tarjeta",
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestServiceCreateUnknownUser(t *testing.T) {
	conn := setupSubscriptionsTestDB(t)
	svc := newSubscriptionsTestService(t, conn, &stubCharger{})

	_, err := svc.Create(context.Background(), 99, CreateSubscriptionRequest{
		Plan:   "mensual",
		Amount: decimal.NewFromInt(20000),
		Method: "tarjeta",
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestServiceListScopesToUser(t *testing.T) {
	conn := setupSubscriptionsTestDB(t)
	svc := newSubscriptionsTestService(t, conn, &stubCharger{})
	ctx := context.Background()

	base := time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)
	seed := []models.Subscription{
		{UserID: 1, Plan: "mensual", StartedAt: base},
		{UserID: 1, Plan: "anual", StartedAt: base.AddDate(0, 1, 0)},
		{UserID: 2, Plan: "mensual", StartedAt: base},
	}
	for i := range seed {
		require.NoError(t, conn.Create(&seed[i]).Error)
	}

	mine, err := svc.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, "anual", mine[0].Plan, "most recent first")

	all, err := svc.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}
