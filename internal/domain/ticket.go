package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus int64

const (
	TicketStatusOpen       TicketStatus = 1
	TicketStatusInProgress TicketStatus = 2
	TicketStatusFrozen     TicketStatus = 3
	TicketStatusClosed     TicketStatus = 4
	TicketStatusArchived   TicketStatus = 5
)

var ticketStatusNames = map[TicketStatus]string{
	TicketStatusOpen:       "OPEN",
	TicketStatusInProgress: "IN_PROGRESS",
	TicketStatusFrozen:     "FROZEN",
	TicketStatusClosed:     "CLOSED",
	TicketStatusArchived:   "ARCHIVED",
}

// Valid reports whether s is one of the named statuses.
func (s TicketStatus) Valid() bool {
	_, ok := ticketStatusNames[s]
	return ok
}

func (s TicketStatus) String() string {
	if name, ok := ticketStatusNames[s]; ok {
		return name
	}
	return "UNKNOWN"
}

// Ticket is a support request opened by a member of a Discord server.
type Ticket struct {
	UserID    int64
	ServerID  int64
	ChannelID int64
	TicketID  uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
	Status    TicketStatus
}

// ParseTicketStatus resolves a status by its name, case-insensitively.
func ParseTicketStatus(name string) (TicketStatus, bool) {
	for status, n := range ticketStatusNames {
		if strings.EqualFold(n, name) {
			return status, true
		}
	}
	return 0, false
}
