package reconcile

import (
	"fmt"

	"github.com/spec-kit/helpdesk-portal/internal/cache"
	"github.com/spec-kit/helpdesk-portal/internal/domain"
	apperrors "github.com/spec-kit/helpdesk-portal/pkg/util"
)

// Enrich resolves a bare ticket's department and user against the
// directory cache. Department id 0 marks a ticket filed outside the
// directory and resolves to the custom-department placeholder instead of
// failing; any other unresolved reference is an enrichment error.
func Enrich(ticket domain.Ticket, directory *cache.DirectoryCache) (domain.TicketWithDetails, error) {
	user, ok := directory.GetUser(ticket.UserID)
	if !ok {
		return domain.TicketWithDetails{}, apperrors.NewEnrichmentError(
			fmt.Sprintf("ticket %s references unknown user %d", ticket.TicketID, ticket.UserID))
	}

	department, ok := directory.GetDepartment(ticket.DepartmentID)
	if !ok {
		if ticket.DepartmentID != 0 {
			return domain.TicketWithDetails{}, apperrors.NewEnrichmentError(
				fmt.Sprintf("ticket %s references unknown department %d", ticket.TicketID, ticket.DepartmentID))
		}
		department = domain.CustomDepartment()
	}

	return domain.TicketWithDetails{
		Ticket:     ticket,
		Department: department,
		User:       user,
	}, nil
}
