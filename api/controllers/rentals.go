package controllers

import (
	"net/http"

	"github.com/cinespark/cinespark-backend/api/middleware"
	"github.com/cinespark/cinespark-backend/api/responses"
	"github.com/cinespark/cinespark-backend/api/validators"
	"github.com/cinespark/cinespark-backend/internal/rentals"
	pkgerrors "github.com/cinespark/cinespark-backend/pkg/errors"
	"github.com/cinespark/cinespark-backend/pkg/logger"
)

// RentalsList returns the authenticated user's rentals.
func RentalsList(svc rentals.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r, logg, svc != nil, "rental service unavailable")
		if !ok {
			return
		}

		rows, err := svc.List(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, rows)
	}
}

// RentalsCreate starts a rental, optionally charging for it in the same request.
func RentalsCreate(svc rentals.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r, logg, svc != nil, "rental service unavailable")
		if !ok {
			return
		}

		var body rentals.CreateRentalRequest
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

// RentalsCheck reports whether the user holds an active rental for an item.
func RentalsCheck(svc rentals.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r, logg, svc != nil, "rental service unavailable")
		if !ok {
			return
		}

		itemID, err := validators.ParseIDParam(r, "itemId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Check(r.Context(), userID, itemID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// RentalsCancel cancels one of the user's active rentals.
func RentalsCancel(svc rentals.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r, logg, svc != nil, "rental service unavailable")
		if !ok {
			return
		}

		rentalID, err := validators.ParseIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rental, err := svc.Cancel(r.Context(), userID, rentalID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, rental)
	}
}

// RentalsExtend charges for additional days and renews the rental window.
func RentalsExtend(svc rentals.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r, logg, svc != nil, "rental service unavailable")
		if !ok {
			return
		}

		rentalID, err := validators.ParseIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body rentals.ExtendRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Extend(r.Context(), userID, rentalID, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

func requireUser(w http.ResponseWriter, r *http.Request, logg *logger.Logger, serviceOK bool, unavailableMsg string) (int64, bool) {
	if !serviceOK {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, unavailableMsg))
		return 0, false
	}
	userID := middleware.UserIDFromContext(r.Context())
	if userID == 0 {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing"))
		return 0, false
	}
	return userID, true
}
