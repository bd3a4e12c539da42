package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cinespark/cinespark-backend/internal/auth"
	"github.com/cinespark/cinespark-backend/internal/catalog"
	"github.com/cinespark/cinespark-backend/internal/gateway"
	"github.com/cinespark/cinespark-backend/internal/payments"
	"github.com/cinespark/cinespark-backend/internal/rentals"
	"github.com/cinespark/cinespark-backend/internal/subscriptions"
	"github.com/cinespark/cinespark-backend/internal/tickets"
	"github.com/cinespark/cinespark-backend/internal/users"
	pkgauth "github.com/cinespark/cinespark-backend/pkg/auth"
	"github.com/cinespark/cinespark-backend/pkg/config"
	"github.com/cinespark/cinespark-backend/pkg/db"
	"github.com/cinespark/cinespark-backend/pkg/db/models"
	"github.com/cinespark/cinespark-backend/pkg/enums"
	"github.com/cinespark/cinespark-backend/pkg/logger"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type stubCharger struct{}

func (stubCharger) Charge(ctx context.Context, req gateway.ChargeRequest) (gateway.ChargeResult, error) {
	return gateway.ChargeResult{
		ID:     "fake_router1",
		Status: gateway.StatusSucceeded,
		Amount: req.Amount,
		Method: req.Method,
	}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "8080"},
		JWT: config.JWTConfig{
			Secret:          "router-test-secret",
			Issuer:          "cinespark-test",
			ExpirationHours: 1,
		},
		Password: config.PasswordConfig{
			ArgonMemoryKB:    8192,
			ArgonTime:        1,
			ArgonParallelism: 1,
			ArgonSaltLen:     16,
			ArgonKeyLen:      32,
		},
		// Zero windows disable the auth rate limiter so no redis is needed.
		AuthRateLimit: config.AuthRateLimitConfig{},
	}
}

func setupRouterTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:routes_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	schemas := []string{
		`CREATE TABLE IF NOT EXISTS users (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL,
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL DEFAULT 'user',
  last_login_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS content_items (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  title TEXT NOT NULL,
  genre TEXT NOT NULL,
  type TEXT NOT NULL,
  release_year INTEGER NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  image_url TEXT NOT NULL DEFAULT '',
  price_per_day INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS rentals (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  user_id INTEGER NOT NULL,
  item_id INTEGER NOT NULL,
  status TEXT NOT NULL DEFAULT 'Activo',
  rented_at DATETIME NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE UNIQUE INDEX IF NOT EXISTS uq_rentals_active_user_item
  ON rentals (user_id, item_id) WHERE status = 'Activo';`,
		`CREATE TABLE IF NOT EXISTS payments (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  user_id INTEGER NOT NULL,
  item_id INTEGER,
  category TEXT NOT NULL,
  amount NUMERIC NOT NULL,
  method TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'Completado',
  charge_ref TEXT NOT NULL DEFAULT '',
  paid_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS invoices (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  payment_id INTEGER NOT NULL UNIQUE,
  user_id INTEGER NOT NULL,
  detail TEXT NOT NULL,
  total NUMERIC NOT NULL,
  issued_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS subscriptions (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  user_id INTEGER NOT NULL,
  plan TEXT NOT NULL,
  started_at DATETIME,
  ends_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS tickets (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  user_id INTEGER NOT NULL,
  subject TEXT NOT NULL,
  description TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'Abierto',
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS ticket_messages (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  ticket_id INTEGER NOT NULL,
  sender TEXT NOT NULL,
  body TEXT NOT NULL,
  sent_at DATETIME
);`,
	}
	for _, schema := range schemas {
		require.NoError(t, conn.Exec(schema).Error)
	}
	return conn
}

func newTestRouter(t *testing.T, cfg *config.Config, conn *gorm.DB) http.Handler {
	t.Helper()

	logg := logger.New(logger.Options{ServiceName: "router-test", Output: io.Discard})
	dbClient := db.NewWithConn(conn)

	userRepo := users.NewRepository(conn)
	catalogRepo := catalog.NewRepository(conn)
	charger := stubCharger{}

	authService, err := auth.NewService(auth.ServiceParams{UserRepo: userRepo, JWTConfig: cfg.JWT})
	require.NoError(t, err)
	registerService, err := auth.NewRegisterService(auth.RegisterServiceParams{
		DB:             dbClient,
		PasswordConfig: cfg.Password,
		JWTConfig:      cfg.JWT,
	})
	require.NoError(t, err)
	catalogService, err := catalog.NewService(catalog.ServiceParams{Repo: catalogRepo})
	require.NoError(t, err)
	paymentsService, err := payments.NewService(payments.ServiceParams{
		DB: dbClient, Repo: payments.NewRepository(conn), Charger: charger,
		Items: catalogRepo, Users: userRepo,
	})
	require.NoError(t, err)
	rentalsService, err := rentals.NewService(rentals.ServiceParams{
		DB: dbClient, Repo: rentals.NewRepository(conn), Charger: charger,
		Items: catalogRepo, Users: userRepo,
	})
	require.NoError(t, err)
	subscriptionsService, err := subscriptions.NewService(subscriptions.ServiceParams{
		DB: dbClient, Repo: subscriptions.NewRepository(conn), Charger: charger, Users: userRepo,
	})
	require.NoError(t, err)
	ticketsService, err := tickets.NewService(tickets.ServiceParams{Repo: tickets.NewRepository(conn)})
	require.NoError(t, err)

	return NewRouter(cfg, logg, dbClient, nil, nil, Services{
		Auth:          authService,
		Register:      registerService,
		Catalog:       catalogService,
		Rentals:       rentalsService,
		Payments:      paymentsService,
		Subscriptions: subscriptionsService,
		Tickets:       ticketsService,
	})
}

func postJSON(t *testing.T, router http.Handler, path, token string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func getJSON(t *testing.T, router http.Handler, path, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func registerTestUser(t *testing.T, router http.Handler, email string) string {
	t.Helper()
	resp := postJSON(t, router, "/api/auth/register", "", map[string]string{
		"name":     "Ana Prueba",
		"email":    email,
		"password": "contraseña-larga",
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	var envelope struct {
		Data struct {
			AccessToken string `json:"access_token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	require.NotEmpty(t, envelope.Data.AccessToken)
	return envelope.Data.AccessToken
}

func TestHealthLive(t *testing.T) {
	router := newTestRouter(t, testConfig(), setupRouterTestDB(t))
	resp := getJSON(t, router, "/health/live", "")
	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestRegisterLoginMeFlow(t *testing.T) {
	router := newTestRouter(t, testConfig(), setupRouterTestDB(t))

	token := registerTestUser(t, router, "flujo@example.com")

	me := getJSON(t, router, "/api/auth/me", token)
	require.Equal(t, http.StatusOK, me.Code, me.Body.String())
	assert.Contains(t, me.Body.String(), "flujo@example.com")

	login := postJSON(t, router, "/api/auth/login", "", map[string]string{
		"email":    "flujo@example.com",
		"password": "contraseña-larga",
	})
	assert.Equal(t, http.StatusOK, login.Code, login.Body.String())

	badLogin := postJSON(t, router, "/api/auth/login", "", map[string]string{
		"email":    "flujo@example.com",
		"password": "otra-contraseña",
	})
	assert.Equal(t, http.StatusUnauthorized, badLogin.Code)
}

func TestRegisterAcceptsShortNameAndSixCharSecret(t *testing.T) {
	router := newTestRouter(t, testConfig(), setupRouterTestDB(t))

	resp := postJSON(t, router, "/api/auth/register", "", map[string]string{
		"name":     "A",
		"email":    "a@x.com",
		"password": "abcdef",
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	login := postJSON(t, router, "/api/auth/login", "", map[string]string{
		"email":    "a@x.com",
		"password": "abcdef",
	})
	assert.Equal(t, http.StatusOK, login.Code, login.Body.String())

	wrong := postJSON(t, router, "/api/auth/login", "", map[string]string{
		"email":    "a@x.com",
		"password": "abcdeg",
	})
	assert.Equal(t, http.StatusUnauthorized, wrong.Code)

	tooShort := postJSON(t, router, "/api/auth/register", "", map[string]string{
		"name":     "B",
		"email":    "b@x.com",
		"password": "abcde",
	})
	assert.Equal(t, http.StatusBadRequest, tooShort.Code)
}

func TestBearerGroupRejectsMissingToken(t *testing.T) {
	router := newTestRouter(t, testConfig(), setupRouterTestDB(t))

	resp := getJSON(t, router, "/api/rentals", "")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	resp = getJSON(t, router, "/api/auth/me", "")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestDoubleRentalReturnsConflict(t *testing.T) {
	conn := setupRouterTestDB(t)
	router := newTestRouter(t, testConfig(), conn)

	token := registerTestUser(t, router, "alquiler@example.com")

	item := &models.ContentItem{
		Title: "La Tormenta", Genre: "Acción", Type: enums.ContentTypeFilm,
		ReleaseYear: 2023, PricePerDay: 12000,
	}
	require.NoError(t, conn.Create(item).Error)

	payload := map[string]any{"item_id": item.ID}
	first := postJSON(t, router, "/api/rentals", token, payload)
	require.Equal(t, http.StatusCreated, first.Code, first.Body.String())

	second := postJSON(t, router, "/api/rentals", token, payload)
	require.Equal(t, http.StatusConflict, second.Code, second.Body.String())
	assert.Contains(t, second.Body.String(), "existing_rental_id")
}

func TestCatalogMutationsRequireAdminRole(t *testing.T) {
	conn := setupRouterTestDB(t)
	cfg := testConfig()
	router := newTestRouter(t, cfg, conn)

	userToken := registerTestUser(t, router, "usuario@example.com")

	payload := map[string]any{
		"title": "Nueva Película", "genre": "Drama", "type": "Película",
		"release_year": 2024,
	}
	resp := postJSON(t, router, "/api/catalog", userToken, payload)
	assert.Equal(t, http.StatusForbidden, resp.Code)

	adminToken, err := pkgauth.MintAccessToken(cfg.JWT, time.Now(), pkgauth.AccessTokenPayload{
		UserID: 999,
		Email:  "admin@example.com",
		Role:   enums.UserRoleAdmin,
	})
	require.NoError(t, err)

	resp = postJSON(t, router, "/api/catalog", adminToken, payload)
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	assert.Contains(t, resp.Body.String(), "price_per_day")
}

func TestPaymentListingsAreOwnerScoped(t *testing.T) {
	conn := setupRouterTestDB(t)
	router := newTestRouter(t, testConfig(), conn)

	tokenA := registerTestUser(t, router, "a@example.com")
	registerTestUser(t, router, "b@example.com")

	// User A is id 1, user B is id 2.
	own := getJSON(t, router, "/api/payments/1", tokenA)
	assert.Equal(t, http.StatusOK, own.Code, own.Body.String())

	foreign := getJSON(t, router, "/api/payments/2", tokenA)
	assert.Equal(t, http.StatusForbidden, foreign.Code)
}

func TestCatalogListIsPublic(t *testing.T) {
	conn := setupRouterTestDB(t)
	router := newTestRouter(t, testConfig(), conn)

	item := &models.ContentItem{
		Title: "Pública", Genre: "Drama", Type: enums.ContentTypeFilm,
		ReleaseYear: 2020, PricePerDay: 9000,
	}
	require.NoError(t, conn.Create(item).Error)

	resp := getJSON(t, router, "/api/catalog", "")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "Pública")

	single := getJSON(t, router, fmt.Sprintf("/api/catalog/%d", item.ID), "")
	assert.Equal(t, http.StatusOK, single.Code)
}
