package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-portal/internal/cache"
	"github.com/spec-kit/helpdesk-portal/internal/domain"
	"github.com/spec-kit/helpdesk-portal/internal/events"
	"github.com/spec-kit/helpdesk-portal/internal/itop"
	"github.com/spec-kit/helpdesk-portal/internal/observability"
	"github.com/spec-kit/helpdesk-portal/internal/persistence"
	"github.com/spec-kit/helpdesk-portal/internal/reconcile"
)

// DirectoryService serves department and user listings remote-first,
// falling back to the last known cache when the ITSM is unreachable.
type DirectoryService struct {
	gateway    itop.Gateway
	directory  *cache.DirectoryCache
	snapshots  *persistence.SnapshotStore
	dispatcher events.Dispatcher
	logger     *zap.Logger
	metrics    *observability.Metrics
}

// DirectoryDependencies bundles collaborators for the directory service.
type DirectoryDependencies struct {
	Gateway    itop.Gateway
	Directory  *cache.DirectoryCache
	Snapshots  *persistence.SnapshotStore
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
	Metrics    *observability.Metrics
}

// NewDirectoryService constructs the service.
func NewDirectoryService(deps DirectoryDependencies) *DirectoryService {
	return &DirectoryService{
		gateway:    deps.Gateway,
		directory:  deps.Directory,
		snapshots:  deps.Snapshots,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
		metrics:    deps.Metrics,
	}
}

// Bootstrap seeds the cache with the static defaults and, when a
// directory snapshot survives from a previous run, prefers that.
func (s *DirectoryService) Bootstrap(ctx context.Context) {
	s.directory.ReplaceDepartments(defaultDepartments)
	s.directory.ReplaceUsers(defaultUsers)

	if departments, users, ok := s.snapshots.LoadDirectory(ctx); ok {
		s.directory.ReplaceDepartments(departments)
		s.directory.ReplaceUsers(users)
		s.logger.Info("directory restored from snapshot",
			zap.Int("departments", len(departments)),
			zap.Int("users", len(users)))
	}
}

// ListDepartments returns the directory departments, refreshed from the
// ITSM when reachable. Reads never fail; they degrade to cached data.
func (s *DirectoryService) ListDepartments(ctx context.Context) []domain.Department {
	if departments, err := s.refreshDepartments(ctx); err == nil && len(departments) > 0 {
		return departments
	} else if err != nil {
		s.logger.Warn("department fetch failed, serving cached data", zap.Error(err))
	}
	return s.directory.ListDepartments()
}

// ListUsers returns the directory users, refreshed when reachable.
func (s *DirectoryService) ListUsers(ctx context.Context) []domain.User {
	if users, err := s.refreshUsers(ctx); err == nil && len(users) > 0 {
		return users
	} else if err != nil {
		s.logger.Warn("user fetch failed, serving cached data", zap.Error(err))
	}
	return s.directory.ListUsers()
}

// ListUsersByDepartment filters the user listing by department id.
func (s *DirectoryService) ListUsersByDepartment(ctx context.Context, departmentID int) []domain.User {
	users := s.ListUsers(ctx)
	filtered := make([]domain.User, 0)
	for _, user := range users {
		if user.DepartmentID == departmentID {
			filtered = append(filtered, user)
		}
	}
	return filtered
}

// Refresh performs the full teams-then-persons chain. Person-to-
// department mapping needs the department set from the same sweep, so
// the order is fixed.
func (s *DirectoryService) Refresh(ctx context.Context) error {
	if _, err := s.refreshDepartments(ctx); err != nil {
		return err
	}
	_, err := s.refreshUsers(ctx)
	return err
}

// EnsureLoaded refreshes only when either collection is empty, used by
// callers that need some directory rather than the freshest one.
func (s *DirectoryService) EnsureLoaded(ctx context.Context) {
	if !s.directory.Empty() {
		return
	}
	if err := s.Refresh(ctx); err != nil {
		s.logger.Warn("directory refresh failed", zap.Error(err))
	}
}

func (s *DirectoryService) refreshDepartments(ctx context.Context) ([]domain.Department, error) {
	teams, err := s.gateway.FetchTeams(ctx)
	s.metrics.RecordGatewayCall("fetch_teams", err == nil)
	if err != nil {
		return nil, err
	}
	departments := reconcile.DepartmentsFromTeams(teams)
	// An empty result keeps the previous cache; the ITSM answering with
	// zero teams is indistinguishable from a misconfigured query.
	if len(departments) > 0 {
		s.directory.ReplaceDepartments(departments)
	}
	return departments, nil
}

func (s *DirectoryService) refreshUsers(ctx context.Context) ([]domain.User, error) {
	if len(s.directory.ListDepartments()) == 0 {
		if _, err := s.refreshDepartments(ctx); err != nil {
			return nil, err
		}
	}

	persons, err := s.gateway.FetchPersons(ctx)
	s.metrics.RecordGatewayCall("fetch_persons", err == nil)
	if err != nil {
		return nil, err
	}
	departments := s.directory.ListDepartments()
	users := reconcile.UsersFromPersons(persons, departments)
	if len(users) == 0 {
		return users, nil
	}
	s.directory.ReplaceUsers(users)

	s.snapshots.SaveDirectory(ctx, departments, users)
	s.publishSynced(ctx, len(departments), len(users))
	return users, nil
}

func (s *DirectoryService) publishSynced(ctx context.Context, departments, users int) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventDirectorySynced,
		Timestamp: time.Now(),
		Payload: events.DirectorySyncedPayload{
			Departments: departments,
			Users:       users,
		},
	})
}
