package controllers

import (
	"net/http"

	"github.com/cinespark/cinespark-backend/api/middleware"
	"github.com/cinespark/cinespark-backend/api/responses"
	"github.com/cinespark/cinespark-backend/api/validators"
	"github.com/cinespark/cinespark-backend/internal/subscriptions"
	"github.com/cinespark/cinespark-backend/pkg/enums"
	"github.com/cinespark/cinespark-backend/pkg/logger"
)

// SubscriptionsList returns the caller's subscriptions, or every
// subscription when the caller is an admin.
func SubscriptionsList(svc subscriptions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r, logg, svc != nil, "subscription service unavailable")
		if !ok {
			return
		}

		var (
			rows []subscriptions.SubscriptionDTO
			err  error
		)
		if middleware.RoleFromContext(r.Context()) == string(enums.UserRoleAdmin) {
			rows, err = svc.ListAll(r.Context())
		} else {
			rows, err = svc.List(r.Context(), userID)
		}
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, rows)
	}
}

// SubscriptionsCreate starts a paid subscription for the caller.
func SubscriptionsCreate(svc subscriptions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r, logg, svc != nil, "subscription service unavailable")
		if !ok {
			return
		}

		var body subscriptions.CreateSubscriptionRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Create(r.Context(), userID, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}
