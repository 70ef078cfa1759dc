package events

import (
	"time"

	"github.com/spec-kit/helpdesk-portal/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated       EventType = "ticket_created"
	EventTicketStatusChanged EventType = "ticket_status_changed"
	EventDirectorySynced     EventType = "directory_synced"
)

// Event represents a domain event emitted by services. TicketRef carries
// the external reference, the only ticket identity stable across cache
// refreshes.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketRef string      `json:"ticket_ref,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketCreatedPayload payload. LocalFallback marks tickets that got a
// locally issued reference because the ITSM was unreachable.
type TicketCreatedPayload struct {
	Title          string `json:"title"`
	DepartmentName string `json:"department_name"`
	UserName       string `json:"user_name"`
	LocalFallback  bool   `json:"local_fallback"`
}

// TicketStatusChangedPayload payload. RemoteSynced is false when the
// remote update was swallowed and only the local cache changed.
type TicketStatusChangedPayload struct {
	OldStatus    domain.TicketStatus `json:"old_status"`
	NewStatus    domain.TicketStatus `json:"new_status"`
	RemoteSynced bool                `json:"remote_synced"`
}

// DirectorySyncedPayload payload.
type DirectorySyncedPayload struct {
	Departments int `json:"departments"`
	Users       int `json:"users"`
}
