package tickets

import (
	"time"

	"github.com/cinespark/cinespark-backend/pkg/db/models"
	"github.com/cinespark/cinespark-backend/pkg/enums"
)

// Actor identifies who is performing a ticket operation. Admins can read
// and answer any ticket; regular users only their own.
type Actor struct {
	UserID int64
	Role   enums.UserRole
}

// IsAdmin reports whether the actor holds the admin role.
func (a Actor) IsAdmin() bool {
	return a.Role == enums.UserRoleAdmin
}

// TicketDTO is the transport shape for a ticket without its thread.
type TicketDTO struct {
	ID          int64              `json:"id"`
	UserID      int64              `json:"user_id"`
	Subject     string             `json:"subject"`
	Description string             `json:"description"`
	Status      enums.TicketStatus `json:"status"`
	CreatedAt   time.Time          `json:"created_at"`
}

// MessageDTO is one entry in a ticket conversation.
type MessageDTO struct {
	ID       int64               `json:"id"`
	TicketID int64               `json:"ticket_id"`
	Sender   enums.MessageSender `json:"sender"`
	Body     string              `json:"body"`
	SentAt   time.Time           `json:"sent_at"`
}

// TicketDetailDTO is a ticket plus its messages in send order.
type TicketDetailDTO struct {
	Ticket   TicketDTO    `json:"ticket"`
	Messages []MessageDTO `json:"messages"`
}

// CreateTicketRequest files a new support ticket.
type CreateTicketRequest struct {
	Subject     string `json:"subject" validate:"required,max=150"`
	Description string `json:"description" validate:"required,max=1000"`
}

// AddMessageRequest appends a message to an open ticket. The sender is
// derived from the actor's role, never taken from the payload.
type AddMessageRequest struct {
	Body string `json:"body" validate:"required,max=1000"`
}

func fromModel(t *models.Ticket) *TicketDTO {
	if t == nil {
		return nil
	}
	return &TicketDTO{
		ID:          t.ID,
		UserID:      t.UserID,
		Subject:     t.Subject,
		Description: t.Description,
		Status:      t.Status,
		CreatedAt:   t.CreatedAt,
	}
}

func messageFromModel(m *models.TicketMessage) *MessageDTO {
	if m == nil {
		return nil
	}
	return &MessageDTO{
		ID:       m.ID,
		TicketID: m.TicketID,
		Sender:   m.Sender,
		Body:     m.Body,
		SentAt:   m.SentAt,
	}
}
