package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-portal/internal/api/dto"
	"github.com/spec-kit/helpdesk-portal/internal/domain"
	"github.com/spec-kit/helpdesk-portal/internal/service"
	apperrors "github.com/spec-kit/helpdesk-portal/pkg/util"
)

// DirectoryHandler serves department and user listings.
type DirectoryHandler struct {
	service *service.DirectoryService
}

// NewDirectoryHandler constructs handler.
func NewDirectoryHandler(directoryService *service.DirectoryService) *DirectoryHandler {
	return &DirectoryHandler{service: directoryService}
}

// ListDepartments GET /api/departments.
func (h *DirectoryHandler) ListDepartments(c *fiber.Ctx) error {
	departments := h.service.ListDepartments(c.UserContext())
	items := make([]dto.DepartmentResponse, 0, len(departments))
	for _, dept := range departments {
		items = append(items, dto.FromDepartment(dept))
	}
	return c.JSON(items)
}

// ListUsers GET /api/users. An optional departmentId query narrows the
// listing to one department.
func (h *DirectoryHandler) ListUsers(c *fiber.Ctx) error {
	if raw := c.Query("departmentId"); raw != "" {
		departmentID, err := strconv.Atoi(raw)
		if err != nil {
			return apperrors.NewValidationError("Invalid department id", nil)
		}
		return c.JSON(userResponses(h.service.ListUsersByDepartment(c.UserContext(), departmentID)))
	}
	return c.JSON(userResponses(h.service.ListUsers(c.UserContext())))
}

func userResponses(users []domain.User) []dto.UserResponse {
	items := make([]dto.UserResponse, 0, len(users))
	for _, user := range users {
		items = append(items, dto.FromUser(user))
	}
	return items
}
