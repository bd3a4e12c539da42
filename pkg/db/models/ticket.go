package models

import (
	"time"

	"github.com/cinespark/cinespark-backend/pkg/enums"
)

// Ticket is a user-filed support issue with an ordered conversation thread.
type Ticket struct {
	ID          int64              `gorm:"column:id;primaryKey;autoIncrement"`
	UserID      int64              `gorm:"column:user_id;not null;index"`
	Subject     string             `gorm:"column:subject;not null"`
	Description string             `gorm:"column:description;not null"`
	Status      enums.TicketStatus `gorm:"column:status;type:text;not null;default:'Abierto'"`
	Messages    []TicketMessage    `gorm:"foreignKey:TicketID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

// TicketMessage is one entry in a ticket conversation.
type TicketMessage struct {
	ID       int64               `gorm:"column:id;primaryKey;autoIncrement"`
	TicketID int64               `gorm:"column:ticket_id;not null;index"`
	Sender   enums.MessageSender `gorm:"column:sender;type:text;not null"`
	Body     string              `gorm:"column:body;not null"`
	SentAt   time.Time           `gorm:"column:sent_at;autoCreateTime"`
}
