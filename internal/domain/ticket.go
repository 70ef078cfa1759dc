package domain

import "time"

// TicketStatus enumerates ticket lifecycle states. The remote ITSM is
// authoritative for status values on fetched tickets, so legacy aliases
// produced by earlier portal versions remain legal data.
type TicketStatus string

const (
	TicketStatusNew      TicketStatus = "new"
	TicketStatusAssigned TicketStatus = "assigned"
	TicketStatusPending  TicketStatus = "pending"
	TicketStatusResolved TicketStatus = "resolved"
	TicketStatusClosed   TicketStatus = "closed"

	// Legacy aliases still present on old tickets.
	TicketStatusOpen       TicketStatus = "open"
	TicketStatusInProgress TicketStatus = "in-progress"
	TicketStatusCompleted  TicketStatus = "completed"
)

// SettableStatuses are the values accepted by the status update endpoint.
var SettableStatuses = []TicketStatus{
	TicketStatusNew,
	TicketStatusAssigned,
	TicketStatusPending,
	TicketStatusResolved,
	TicketStatusClosed,
}

// Settable reports whether the status may be set through the API.
func (s TicketStatus) Settable() bool {
	for _, candidate := range SettableStatuses {
		if s == candidate {
			return true
		}
	}
	return false
}

// Ticket is a helpdesk request. TicketID is the external iTop reference
// (or a locally issued TKT- placeholder when the ITSM was unreachable at
// creation time) and is the only identity that survives a cache refresh;
// the integer ID is reassigned on every full fetch.
type Ticket struct {
	ID               int
	TicketID         string
	Title            string
	DepartmentID     int
	UserID           int
	Extension        string
	RackLocation     string
	IssueDescription string
	RawDescription   string
	AgentName        string
	Status           TicketStatus
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// TicketWithDetails is a ticket enriched with its resolved department and
// user. It is a view, never stored.
type TicketWithDetails struct {
	Ticket
	Department Department
	User       User
}
