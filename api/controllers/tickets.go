package controllers

import (
	"net/http"

	"github.com/cinespark/cinespark-backend/api/middleware"
	"github.com/cinespark/cinespark-backend/api/responses"
	"github.com/cinespark/cinespark-backend/api/validators"
	"github.com/cinespark/cinespark-backend/internal/tickets"
	"github.com/cinespark/cinespark-backend/pkg/enums"
	pkgerrors "github.com/cinespark/cinespark-backend/pkg/errors"
	"github.com/cinespark/cinespark-backend/pkg/logger"
)

// TicketsCreate files a new support ticket for the caller.
func TicketsCreate(svc tickets.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r, logg, svc != nil, "ticket service unavailable")
		if !ok {
			return
		}

		var body tickets.CreateTicketRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ticket, err := svc.Create(r.Context(), userID, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, ticket)
	}
}

// TicketsListForUser lists a user's tickets. Self or admin only.
func TicketsListForUser(svc tickets.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actorID, ok := requireUser(w, r, logg, svc != nil, "ticket service unavailable")
		if !ok {
			return
		}

		targetID, err := validators.ParseIDParam(r, "userId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if targetID != actorID && middleware.RoleFromContext(r.Context()) != string(enums.UserRoleAdmin) {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "cannot read another user's tickets"))
			return
		}

		rows, err := svc.ListByUser(r.Context(), targetID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, rows)
	}
}

// TicketsDetail returns a ticket with its conversation thread.
func TicketsDetail(svc tickets.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := ticketActor(w, r, logg, svc != nil)
		if !ok {
			return
		}

		ticketID, err := validators.ParseIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		detail, err := svc.Detail(r.Context(), actor, ticketID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, detail)
	}
}

// TicketsAddMessage appends a message to an open ticket.
func TicketsAddMessage(svc tickets.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := ticketActor(w, r, logg, svc != nil)
		if !ok {
			return
		}

		ticketID, err := validators.ParseIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body tickets.AddMessageRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		message, err := svc.AddMessage(r.Context(), actor, ticketID, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, message)
	}
}

// TicketsListAll lists every ticket. Admin only at the route layer.
func TicketsListAll(svc tickets.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := requireUser(w, r, logg, svc != nil, "ticket service unavailable"); !ok {
			return
		}

		rows, err := svc.ListAll(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, rows)
	}
}

// TicketsClose closes a ticket. Admin only at the route layer.
func TicketsClose(svc tickets.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := requireUser(w, r, logg, svc != nil, "ticket service unavailable"); !ok {
			return
		}

		ticketID, err := validators.ParseIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ticket, err := svc.Close(r.Context(), ticketID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, ticket)
	}
}

func ticketActor(w http.ResponseWriter, r *http.Request, logg *logger.Logger, serviceOK bool) (tickets.Actor, bool) {
	userID, ok := requireUser(w, r, logg, serviceOK, "ticket service unavailable")
	if !ok {
		return tickets.Actor{}, false
	}
	return tickets.Actor{
		UserID: userID,
		Role:   enums.UserRole(middleware.RoleFromContext(r.Context())),
	}, true
}
