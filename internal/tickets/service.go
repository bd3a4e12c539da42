package tickets

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cinespark/cinespark-backend/pkg/db/models"
	"github.com/cinespark/cinespark-backend/pkg/enums"
	pkgerrors "github.com/cinespark/cinespark-backend/pkg/errors"
	"gorm.io/gorm"
)

// Service exposes support ticket operations to controllers.
type Service interface {
	Create(ctx context.Context, userID int64, req CreateTicketRequest) (*TicketDTO, error)
	ListByUser(ctx context.Context, userID int64) ([]TicketDTO, error)
	ListAll(ctx context.Context) ([]TicketDTO, error)
	Detail(ctx context.Context, actor Actor, ticketID int64) (*TicketDetailDTO, error)
	AddMessage(ctx context.Context, actor Actor, ticketID int64, req AddMessageRequest) (*MessageDTO, error)
	Close(ctx context.Context, ticketID int64) (*TicketDTO, error)
}

// ServiceParams groups dependencies for the tickets service.
type ServiceParams struct {
	Repo Repository
}

type service struct {
	repo Repository
}

// NewService builds a tickets service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("repo is required")
	}
	return &service{repo: params.Repo}, nil
}

func (s *service) Create(ctx context.Context, userID int64, req CreateTicketRequest) (*TicketDTO, error) {
	subject := strings.TrimSpace(req.Subject)
	description := strings.TrimSpace(req.Description)
	if subject == "" || description == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "subject and description are required")
	}

	ticket, err := s.repo.Create(ctx, &models.Ticket{
		UserID:      userID,
		Subject:     subject,
		Description: description,
		Status:      enums.TicketStatusOpen,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create ticket")
	}
	return fromModel(ticket), nil
}

func (s *service) ListByUser(ctx context.Context, userID int64) ([]TicketDTO, error) {
	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list tickets")
	}
	return toDTOs(rows), nil
}

func (s *service) ListAll(ctx context.Context) ([]TicketDTO, error) {
	rows, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list tickets")
	}
	return toDTOs(rows), nil
}

func (s *service) Detail(ctx context.Context, actor Actor, ticketID int64) (*TicketDetailDTO, error) {
	ticket, err := s.repo.FindByIDWithMessages(ctx, ticketID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "ticket not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load ticket")
	}
	if ticket.UserID != actor.UserID && !actor.IsAdmin() {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "ticket not found")
	}

	messages := make([]MessageDTO, 0, len(ticket.Messages))
	for i := range ticket.Messages {
		messages = append(messages, *messageFromModel(&ticket.Messages[i]))
	}
	return &TicketDetailDTO{
		Ticket:   *fromModel(ticket),
		Messages: messages,
	}, nil
}

func (s *service) AddMessage(ctx context.Context, actor Actor, ticketID int64, req AddMessageRequest) (*MessageDTO, error) {
	body := strings.TrimSpace(req.Body)
	if body == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "message body is required")
	}

	ticket, err := s.repo.FindByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "ticket not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load ticket")
	}
	if ticket.UserID != actor.UserID && !actor.IsAdmin() {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "ticket not found")
	}
	if ticket.Status != enums.TicketStatusOpen {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "ticket is closed")
	}

	sender := enums.MessageSenderUser
	if actor.IsAdmin() {
		sender = enums.MessageSenderAdmin
	}

	message, err := s.repo.AddMessage(ctx, &models.TicketMessage{
		TicketID: ticketID,
		Sender:   sender,
		Body:     body,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "add message")
	}
	return messageFromModel(message), nil
}

func (s *service) Close(ctx context.Context, ticketID int64) (*TicketDTO, error) {
	ticket, err := s.repo.FindByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "ticket not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load ticket")
	}
	if ticket.Status == enums.TicketStatusClosed {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "ticket already closed")
	}

	if err := s.repo.UpdateStatus(ctx, ticketID, enums.TicketStatusClosed); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "close ticket")
	}
	ticket.Status = enums.TicketStatusClosed
	return fromModel(ticket), nil
}

func toDTOs(rows []models.Ticket) []TicketDTO {
	dtos := make([]TicketDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *fromModel(&rows[i]))
	}
	return dtos
}
