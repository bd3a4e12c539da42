package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cinespark/cinespark-backend/api/controllers"
	"github.com/cinespark/cinespark-backend/api/middleware"
	"github.com/cinespark/cinespark-backend/internal/auth"
	"github.com/cinespark/cinespark-backend/internal/catalog"
	"github.com/cinespark/cinespark-backend/internal/payments"
	"github.com/cinespark/cinespark-backend/internal/rentals"
	"github.com/cinespark/cinespark-backend/internal/subscriptions"
	"github.com/cinespark/cinespark-backend/internal/tickets"
	"github.com/cinespark/cinespark-backend/pkg/config"
	"github.com/cinespark/cinespark-backend/pkg/db"
	"github.com/cinespark/cinespark-backend/pkg/enums"
	"github.com/cinespark/cinespark-backend/pkg/logger"
	"github.com/cinespark/cinespark-backend/pkg/redis"
)

// Services bundles every domain service the router exposes.
type Services struct {
	Auth          auth.Service
	Register      auth.RegisterService
	Catalog       catalog.Service
	Rentals       rentals.Service
	Payments      payments.Service
	Subscriptions subscriptions.Service
	Tickets       tickets.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbClient *db.Client,
	redisClient *redis.Client,
	metricsHandler http.Handler,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS),
	)

	// A nil client must stay a nil interface so the middleware can skip it.
	var limiterStore middleware.RateLimiterStore
	var idemStore middleware.IdempotencyStore
	if redisClient != nil {
		limiterStore = redisClient
		idemStore = redisClient
	}

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbClient, redisClient))
	})

	if metricsHandler != nil {
		r.Handle("/metrics", metricsHandler)
	}

	r.Route("/api/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, limiterStore, logg)).
			Post("/login", controllers.AuthLogin(svcs.Auth, logg))
		r.With(middleware.AuthRateLimit(registerPolicy, limiterStore, logg)).
			Post("/register", controllers.AuthRegister(svcs.Register, logg))
		r.With(middleware.Auth(cfg.JWT, logg)).
			Get("/me", controllers.AuthMe(svcs.Auth, logg))
	})

	// Catalog reads are public; mutations require the admin role.
	r.Get("/api/catalog", controllers.CatalogList(svcs.Catalog, logg))
	r.Get("/api/catalog/{id}", controllers.CatalogGet(svcs.Catalog, logg))

	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))

		// Replay guard for every POST that may reach the payment gateway.
		idem := middleware.Idempotency(idemStore, logg)

		r.Route("/api/rentals", func(r chi.Router) {
			r.Get("/", controllers.RentalsList(svcs.Rentals, logg))
			r.With(idem).Post("/", controllers.RentalsCreate(svcs.Rentals, logg))
			r.Get("/check/{itemId}", controllers.RentalsCheck(svcs.Rentals, logg))
			r.Post("/{id}/cancel", controllers.RentalsCancel(svcs.Rentals, logg))
			r.With(idem).Post("/{id}/extend", controllers.RentalsExtend(svcs.Rentals, logg))
		})

		r.Route("/api/payments", func(r chi.Router) {
			r.With(idem).Post("/rental", controllers.PaymentsPayRental(svcs.Payments, logg))
			r.With(idem).Post("/subscription", controllers.PaymentsPaySubscription(svcs.Payments, logg))
			r.Get("/{userId}", controllers.PaymentsListForUser(svcs.Payments, logg))
		})
		r.Get("/api/invoices/{userId}", controllers.InvoicesListForUser(svcs.Payments, logg))

		r.Route("/api/subscriptions", func(r chi.Router) {
			r.Get("/", controllers.SubscriptionsList(svcs.Subscriptions, logg))
			r.With(idem).Post("/", controllers.SubscriptionsCreate(svcs.Subscriptions, logg))
		})

		r.Route("/api/tickets", func(r chi.Router) {
			r.Post("/", controllers.TicketsCreate(svcs.Tickets, logg))
			r.Get("/user/{userId}", controllers.TicketsListForUser(svcs.Tickets, logg))
			r.Get("/{id}", controllers.TicketsDetail(svcs.Tickets, logg))
			r.Post("/{id}/messages", controllers.TicketsAddMessage(svcs.Tickets, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(string(enums.UserRoleAdmin), logg))
				r.Get("/admin/all", controllers.TicketsListAll(svcs.Tickets, logg))
				r.Post("/{id}/close", controllers.TicketsClose(svcs.Tickets, logg))
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(string(enums.UserRoleAdmin), logg))
			r.Post("/api/catalog", controllers.CatalogCreate(svcs.Catalog, logg))
			r.Put("/api/catalog/{id}", controllers.CatalogUpdate(svcs.Catalog, logg))
			r.Delete("/api/catalog/{id}", controllers.CatalogDelete(svcs.Catalog, logg))
		})
	})

	return r
}
