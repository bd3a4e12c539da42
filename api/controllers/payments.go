package controllers

import (
	"net/http"
	"strings"

	"github.com/cinespark/cinespark-backend/api/middleware"
	"github.com/cinespark/cinespark-backend/api/responses"
	"github.com/cinespark/cinespark-backend/api/validators"
	"github.com/cinespark/cinespark-backend/internal/payments"
	"github.com/cinespark/cinespark-backend/pkg/enums"
	pkgerrors "github.com/cinespark/cinespark-backend/pkg/errors"
	"github.com/cinespark/cinespark-backend/pkg/logger"
	"github.com/cinespark/cinespark-backend/pkg/pagination"
)

// PaymentsPayRental charges a rental payment for the authenticated user.
func PaymentsPayRental(svc payments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r, logg, svc != nil, "payment service unavailable")
		if !ok {
			return
		}

		var body payments.PayRentalRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		payment, err := svc.PayRental(r.Context(), userID, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, payment)
	}
}

// PaymentsPaySubscription charges a subscription payment for the authenticated user.
func PaymentsPaySubscription(svc payments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r, logg, svc != nil, "payment service unavailable")
		if !ok {
			return
		}

		var body payments.PaySubscriptionRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		payment, err := svc.PaySubscription(r.Context(), userID, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, payment)
	}
}

// PaymentsListForUser lists a user's payments. Self or admin only.
func PaymentsListForUser(svc payments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		input, ok := ownerScopedListInput(w, r, logg, svc != nil, "payment service unavailable")
		if !ok {
			return
		}

		result, err := svc.ListUserPayments(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// InvoicesListForUser lists a user's invoices. Self or admin only.
func InvoicesListForUser(svc payments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		input, ok := ownerScopedListInput(w, r, logg, svc != nil, "payment service unavailable")
		if !ok {
			return
		}

		result, err := svc.ListUserInvoices(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

func ownerScopedListInput(w http.ResponseWriter, r *http.Request, logg *logger.Logger, serviceOK bool, unavailableMsg string) (payments.ListInput, bool) {
	actorID, ok := requireUser(w, r, logg, serviceOK, unavailableMsg)
	if !ok {
		return payments.ListInput{}, false
	}

	targetID, err := validators.ParseIDParam(r, "userId")
	if err != nil {
		responses.WriteError(r.Context(), logg, w, err)
		return payments.ListInput{}, false
	}

	if targetID != actorID && middleware.RoleFromContext(r.Context()) != string(enums.UserRoleAdmin) {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "cannot read another user's records"))
		return payments.ListInput{}, false
	}

	limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
	if err != nil {
		responses.WriteError(r.Context(), logg, w, err)
		return payments.ListInput{}, false
	}

	return payments.ListInput{
		UserID: targetID,
		Pagination: pagination.Params{
			Limit:  limit,
			Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
		},
	}, true
}
