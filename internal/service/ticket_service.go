package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-portal/internal/cache"
	"github.com/spec-kit/helpdesk-portal/internal/domain"
	"github.com/spec-kit/helpdesk-portal/internal/events"
	"github.com/spec-kit/helpdesk-portal/internal/itop"
	"github.com/spec-kit/helpdesk-portal/internal/observability"
	"github.com/spec-kit/helpdesk-portal/internal/reconcile"
	apperrors "github.com/spec-kit/helpdesk-portal/pkg/util"
)

// TicketService coordinates ticket workflows against the ITSM with the
// local store as read fallback and write-through target.
type TicketService struct {
	gateway       itop.Gateway
	directory     *cache.DirectoryCache
	tickets       *cache.TicketStore
	directorySvc  *DirectoryService
	dispatcher    events.Dispatcher
	logger        *zap.Logger
	metrics       *observability.Metrics
	defaultStatus domain.TicketStatus
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	Gateway          itop.Gateway
	Directory        *cache.DirectoryCache
	Tickets          *cache.TicketStore
	DirectoryService *DirectoryService
	Dispatcher       events.Dispatcher
	Logger           *zap.Logger
	Metrics          *observability.Metrics
	DefaultStatus    string
}

// TicketCreateInput describes a validated ticket creation payload.
type TicketCreateInput struct {
	DepartmentID     int
	UserID           int
	Extension        string
	RackLocation     string
	IssueDescription string
	Title            string
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	defaultStatus := domain.TicketStatus(deps.DefaultStatus)
	if !defaultStatus.Settable() && defaultStatus != domain.TicketStatusOpen {
		defaultStatus = domain.TicketStatusNew
	}
	return &TicketService{
		gateway:       deps.Gateway,
		directory:     deps.Directory,
		tickets:       deps.Tickets,
		directorySvc:  deps.DirectoryService,
		dispatcher:    deps.Dispatcher,
		logger:        deps.Logger,
		metrics:       deps.Metrics,
		defaultStatus: defaultStatus,
	}
}

// ListTickets returns all tickets, remote-first. An optional search term
// filters by caller name substring. Reads never fail; a gateway error
// degrades to the last known local set.
func (s *TicketService) ListTickets(ctx context.Context, search string) []domain.TicketWithDetails {
	details, err := s.fetchAndReconcile(ctx)
	if err != nil {
		s.logger.Warn("ticket fetch failed, serving cached data", zap.Error(err))
		details = s.localTickets()
	}

	if search != "" {
		term := strings.ToLower(search)
		filtered := make([]domain.TicketWithDetails, 0, len(details))
		for _, detail := range details {
			if strings.Contains(strings.ToLower(detail.User.Name), term) {
				filtered = append(filtered, detail)
			}
		}
		details = filtered
	}

	sort.SliceStable(details, func(i, j int) bool {
		return details[i].CreatedAt.After(details[j].CreatedAt)
	})
	return details
}

// GetTicket returns one ticket by its external reference.
func (s *TicketService) GetTicket(ctx context.Context, ref string) (domain.TicketWithDetails, error) {
	details, err := s.fetchAndReconcile(ctx)
	if err != nil {
		s.logger.Warn("ticket fetch failed, serving cached data", zap.Error(err))
		details = s.localTickets()
	}
	for _, detail := range details {
		if detail.TicketID == ref {
			return detail, nil
		}
	}
	return domain.TicketWithDetails{}, apperrors.NewNotFound("ticket")
}

// CreateTicket files a ticket with the ITSM. When the remote create
// fails the ticket still gets created locally under a TKT- placeholder
// reference, so creation never hard-fails on an outage.
func (s *TicketService) CreateTicket(ctx context.Context, input TicketCreateInput) (domain.TicketWithDetails, error) {
	if s.directory.Empty() {
		s.directorySvc.EnsureLoaded(ctx)
	}

	user, ok := s.directory.GetUser(input.UserID)
	if !ok {
		return domain.TicketWithDetails{}, apperrors.NewValidationError(
			"Invalid ticket data", map[string]any{"userId": fmt.Sprintf("unknown user %d", input.UserID)})
	}
	department, ok := s.directory.GetDepartment(input.DepartmentID)
	if !ok {
		if input.DepartmentID != 0 {
			return domain.TicketWithDetails{}, apperrors.NewValidationError(
				"Invalid ticket data", map[string]any{"departmentId": fmt.Sprintf("unknown department %d", input.DepartmentID)})
		}
		department = domain.CustomDepartment()
	}

	title := reconcile.ComposeTitle(input.Title, department.Name)
	description := reconcile.EncodeDescription(reconcile.DescriptionFields{
		Extension:    input.Extension,
		RackLocation: input.RackLocation,
		IssueDetail:  input.IssueDescription,
	})

	ref, err := s.gateway.CreateUserRequest(ctx, itop.CreateRequest{
		CallerExternalID: user.ExternalID,
		CallerName:       user.Name,
		Title:            title,
		Description:      description,
	})
	s.metrics.RecordGatewayCall("create_ticket", err == nil)
	localFallback := err != nil
	if localFallback {
		ref = s.tickets.NextLocalRef()
		s.logger.Warn("remote create failed, issuing local reference",
			zap.String("ticket_ref", ref), zap.Error(err))
	}

	now := time.Now()
	ticket := s.tickets.Add(domain.Ticket{
		TicketID:         ref,
		Title:            title,
		DepartmentID:     department.ID,
		UserID:           user.ID,
		Extension:        input.Extension,
		RackLocation:     input.RackLocation,
		IssueDescription: input.IssueDescription,
		RawDescription:   description,
		Status:           s.defaultStatus,
		CreatedAt:        now,
		UpdatedAt:        now,
	})

	s.logger.Info("ticket created",
		zap.String("ticket_ref", ref),
		zap.Bool("local_fallback", localFallback))
	s.publishEvent(ctx, events.Event{
		Type:      events.EventTicketCreated,
		TicketRef: ref,
		Payload: events.TicketCreatedPayload{
			Title:          title,
			DepartmentName: department.Name,
			UserName:       user.Name,
			LocalFallback:  localFallback,
		},
	})

	return domain.TicketWithDetails{Ticket: ticket, Department: department, User: user}, nil
}

// UpdateStatus sets a ticket's status. The remote update is best effort:
// a gateway failure is logged and swallowed so the local store always
// reflects what the UI requested, accepting remote divergence.
func (s *TicketService) UpdateStatus(ctx context.Context, ref string, status domain.TicketStatus) (domain.TicketWithDetails, error) {
	if !status.Settable() {
		return domain.TicketWithDetails{}, apperrors.NewValidationError(
			"Invalid status. Status must be one of: "+joinStatuses(domain.SettableStatuses), nil)
	}

	current, ok := s.tickets.FindByRef(ref)
	if !ok {
		return domain.TicketWithDetails{}, apperrors.NewNotFound("ticket")
	}
	oldStatus := current.Status

	err := s.gateway.UpdateStatus(ctx, ref, string(status))
	s.metrics.RecordGatewayCall("update_status", err == nil)
	if err != nil {
		s.logger.Warn("remote status update failed, continuing with local update",
			zap.String("ticket_ref", ref), zap.Error(err))
	}

	ticket, ok := s.tickets.UpdateStatus(ref, status)
	if !ok {
		return domain.TicketWithDetails{}, apperrors.NewNotFound("ticket")
	}

	detail, enrichErr := reconcile.Enrich(ticket, s.directory)
	if enrichErr != nil {
		return domain.TicketWithDetails{}, enrichErr
	}

	s.publishEvent(ctx, events.Event{
		Type:      events.EventTicketStatusChanged,
		TicketRef: ref,
		Payload: events.TicketStatusChangedPayload{
			OldStatus:    oldStatus,
			NewStatus:    status,
			RemoteSynced: err == nil,
		},
	})
	return detail, nil
}

// fetchAndReconcile pulls the remote ticket set and replaces the local
// caches with the reconciled result.
func (s *TicketService) fetchAndReconcile(ctx context.Context) ([]domain.TicketWithDetails, error) {
	s.directorySvc.EnsureLoaded(ctx)

	records, err := s.gateway.FetchUserRequests(ctx)
	s.metrics.RecordGatewayCall("fetch_tickets", err == nil)
	if err != nil {
		return nil, err
	}

	mapping := reconcile.TicketsFromUserRequests(records,
		s.directory.ListDepartments(), s.directory.ListUsers())
	s.directory.ReplaceDepartments(mapping.Departments)
	s.directory.ReplaceUsers(mapping.Users)

	tickets := make([]domain.Ticket, 0, len(mapping.Tickets))
	for _, detail := range mapping.Tickets {
		tickets = append(tickets, detail.Ticket)
	}
	s.tickets.Replace(tickets)
	return mapping.Tickets, nil
}

// localTickets enriches the stored ticket set. A ticket that fails
// enrichment signals a cache inconsistency; it is skipped, not fatal to
// the listing.
func (s *TicketService) localTickets() []domain.TicketWithDetails {
	stored := s.tickets.List()
	details := make([]domain.TicketWithDetails, 0, len(stored))
	for _, ticket := range stored {
		detail, err := reconcile.Enrich(ticket, s.directory)
		if err != nil {
			s.logger.Warn("skipping unenrichable ticket",
				zap.String("ticket_ref", ticket.TicketID), zap.Error(err))
			continue
		}
		details = append(details, detail)
	}
	return details
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func joinStatuses(statuses []domain.TicketStatus) string {
	parts := make([]string, 0, len(statuses))
	for _, status := range statuses {
		parts = append(parts, string(status))
	}
	return strings.Join(parts, ", ")
}
