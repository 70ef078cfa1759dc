package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-portal/internal/api/dto"
	"github.com/spec-kit/helpdesk-portal/internal/domain"
	"github.com/spec-kit/helpdesk-portal/internal/receipt"
	"github.com/spec-kit/helpdesk-portal/internal/service"
	apperrors "github.com/spec-kit/helpdesk-portal/pkg/util"
)

// TicketsHandler manages ticket endpoints.
type TicketsHandler struct {
	service *service.TicketService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{service: ticketService}
}

// ListTickets GET /api/tickets.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	tickets := h.service.ListTickets(c.UserContext(), c.Query("search"))
	return c.JSON(dto.FromTickets(tickets))
}

// GetTicket GET /api/tickets/:ticketId.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	ticket, err := h.service.GetTicket(c.UserContext(), c.Params("ticketId"))
	if err != nil {
		return err
	}
	return c.JSON(dto.FromTicket(ticket))
}

// CreateTicket POST /api/tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("Invalid ticket data", nil)
	}
	if details := validateCreate(req); len(details) > 0 {
		return apperrors.NewValidationError("Invalid ticket data", details)
	}

	ticket, err := h.service.CreateTicket(c.UserContext(), service.TicketCreateInput{
		DepartmentID:     *req.DepartmentID,
		UserID:           req.UserID,
		Extension:        strings.TrimSpace(req.Extension),
		RackLocation:     strings.TrimSpace(req.RackLocation),
		IssueDescription: strings.TrimSpace(req.IssueDescription),
		Title:            strings.TrimSpace(req.Title),
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromTicket(ticket))
}

// UpdateStatus PATCH /api/tickets/:ticketId/status.
func (h *TicketsHandler) UpdateStatus(c *fiber.Ctx) error {
	var req dto.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("Invalid status payload", nil)
	}
	if strings.TrimSpace(req.Status) == "" {
		return apperrors.NewValidationError("Status is required", nil)
	}

	ticket, err := h.service.UpdateStatus(c.UserContext(), c.Params("ticketId"), domain.TicketStatus(req.Status))
	if err != nil {
		return err
	}
	return c.JSON(dto.FromTicket(ticket))
}

// Receipt GET /api/tickets/:ticketId/receipt renders a 58 mm thermal
// printer slip as plain text.
func (h *TicketsHandler) Receipt(c *fiber.Ctx) error {
	ticket, err := h.service.GetTicket(c.UserContext(), c.Params("ticketId"))
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	return c.SendString(receipt.Render(ticket))
}

func validateCreate(req dto.CreateTicketRequest) map[string]any {
	details := map[string]any{}
	if req.DepartmentID == nil {
		details["departmentId"] = "Department is required"
	}
	if req.UserID == 0 {
		details["userId"] = "User is required"
	}
	if strings.TrimSpace(req.Extension) == "" {
		details["extension"] = "Extension is required"
	}
	if strings.TrimSpace(req.RackLocation) == "" {
		details["rackLocation"] = "Rack location is required"
	}
	if len(strings.TrimSpace(req.IssueDescription)) < 10 {
		details["issueDescription"] = "Issue description must be at least 10 characters"
	}
	if strings.TrimSpace(req.Title) == "" {
		details["title"] = "Title is required"
	}
	return details
}
