package persistence

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-portal/internal/domain"
)

const (
	departmentsSnapshotKey = "helpdesk:snapshot:departments"
	usersSnapshotKey       = "helpdesk:snapshot:users"
)

// SnapshotStore persists the last known directory to Redis so a restart
// during an ITSM outage still has a warm fallback. Both directions are
// best effort: failures are logged, never propagated. The in-memory
// cache stays the source for request serving; this only seeds it.
type SnapshotStore struct {
	redis  *Redis
	logger *zap.Logger
}

// NewSnapshotStore builds the store. A nil Redis yields a no-op store.
func NewSnapshotStore(r *Redis, logger *zap.Logger) *SnapshotStore {
	return &SnapshotStore{redis: r, logger: logger}
}

// SaveDirectory stores the directory collections after a successful
// remote refresh.
func (s *SnapshotStore) SaveDirectory(ctx context.Context, departments []domain.Department, users []domain.User) {
	if s == nil || s.redis == nil || s.redis.Client == nil {
		return
	}
	s.saveJSON(ctx, departmentsSnapshotKey, departments)
	s.saveJSON(ctx, usersSnapshotKey, users)
}

// LoadDirectory returns the persisted directory, if any.
func (s *SnapshotStore) LoadDirectory(ctx context.Context) ([]domain.Department, []domain.User, bool) {
	if s == nil || s.redis == nil || s.redis.Client == nil {
		return nil, nil, false
	}

	var departments []domain.Department
	if !s.loadJSON(ctx, departmentsSnapshotKey, &departments) || len(departments) == 0 {
		return nil, nil, false
	}
	var users []domain.User
	if !s.loadJSON(ctx, usersSnapshotKey, &users) {
		return nil, nil, false
	}
	return departments, users, true
}

func (s *SnapshotStore) saveJSON(ctx context.Context, key string, value any) {
	raw, err := json.Marshal(value)
	if err != nil {
		s.logger.Warn("snapshot marshal failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err := s.redis.Client.Set(ctx, key, raw, 0).Err(); err != nil {
		s.logger.Warn("snapshot save failed", zap.String("key", key), zap.Error(err))
	}
}

func (s *SnapshotStore) loadJSON(ctx context.Context, key string, dest any) bool {
	raw, err := s.redis.Client.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		s.logger.Warn("snapshot decode failed", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}
