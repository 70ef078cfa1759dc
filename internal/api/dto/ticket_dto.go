package dto

import (
	"time"

	"github.com/spec-kit/helpdesk-portal/internal/domain"
)

// CreateTicketRequest payload. DepartmentID is a pointer so that a
// missing field is distinguishable from the legal custom-department 0.
type CreateTicketRequest struct {
	DepartmentID     *int   `json:"departmentId"`
	UserID           int    `json:"userId"`
	Extension        string `json:"extension"`
	RackLocation     string `json:"rackLocation"`
	IssueDescription string `json:"issueDescription"`
	Title            string `json:"title"`
}

// UpdateStatusRequest payload.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// TicketResponse is the wire shape of an enriched ticket.
type TicketResponse struct {
	ID               int                `json:"id"`
	TicketID         string             `json:"ticketId"`
	Title            string             `json:"title"`
	DepartmentID     int                `json:"departmentId"`
	UserID           int                `json:"userId"`
	Extension        string             `json:"extension"`
	RackLocation     string             `json:"rackLocation"`
	IssueDescription string             `json:"issueDescription"`
	Description      string             `json:"description,omitempty"`
	AgentName        string             `json:"agentName,omitempty"`
	Status           string             `json:"status"`
	CreatedAt        time.Time          `json:"createdAt"`
	UpdatedAt        time.Time          `json:"updatedAt"`
	Department       DepartmentResponse `json:"department"`
	User             UserResponse       `json:"user"`
}

// FromTicket maps an enriched domain ticket.
func FromTicket(detail domain.TicketWithDetails) TicketResponse {
	return TicketResponse{
		ID:               detail.ID,
		TicketID:         detail.TicketID,
		Title:            detail.Title,
		DepartmentID:     detail.DepartmentID,
		UserID:           detail.UserID,
		Extension:        detail.Extension,
		RackLocation:     detail.RackLocation,
		IssueDescription: detail.IssueDescription,
		Description:      detail.RawDescription,
		AgentName:        detail.AgentName,
		Status:           string(detail.Status),
		CreatedAt:        detail.CreatedAt,
		UpdatedAt:        detail.UpdatedAt,
		Department:       FromDepartment(detail.Department),
		User:             FromUser(detail.User),
	}
}

// FromTickets maps a ticket slice.
func FromTickets(details []domain.TicketWithDetails) []TicketResponse {
	items := make([]TicketResponse, 0, len(details))
	for _, detail := range details {
		items = append(items, FromTicket(detail))
	}
	return items
}
