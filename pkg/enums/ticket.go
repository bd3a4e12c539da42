package enums

import "fmt"

// TicketStatus tracks whether a support ticket is still being worked.
type TicketStatus string

const (
	TicketStatusOpen   TicketStatus = "Abierto"
	TicketStatusClosed TicketStatus = "Cerrado"
)

var validTicketStatuses = []TicketStatus{
	TicketStatusOpen,
	TicketStatusClosed,
}

// String implements fmt.Stringer.
func (t TicketStatus) String() string {
	return string(t)
}

// IsValid reports whether the value is known.
func (t TicketStatus) IsValid() bool {
	for _, candidate := range validTicketStatuses {
		if candidate == t {
			return true
		}
	}
	return false
}

// MessageSender identifies which side of a ticket conversation wrote a message.
type MessageSender string

const (
	MessageSenderUser  MessageSender = "user"
	MessageSenderAdmin MessageSender = "admin"
)

var validMessageSenders = []MessageSender{
	MessageSenderUser,
	MessageSenderAdmin,
}

// String implements fmt.Stringer.
func (m MessageSender) String() string {
	return string(m)
}

// IsValid reports whether the value is known.
func (m MessageSender) IsValid() bool {
	for _, candidate := range validMessageSenders {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParseMessageSender converts raw input into a MessageSender.
func ParseMessageSender(value string) (MessageSender, error) {
	for _, candidate := range validMessageSenders {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid message sender %q", value)
}
