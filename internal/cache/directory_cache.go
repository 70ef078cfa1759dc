package cache

import (
	"strings"
	"sync"

	"github.com/spec-kit/helpdesk-portal/internal/domain"
)

// DirectoryCache holds the most recently fetched department and user
// collections as the read fallback when the ITSM is unreachable. Each
// collection is replaced wholesale under a single write lock, so readers
// never observe a mix of old and new entries. There is no TTL: data goes
// stale until the next successful remote fetch.
type DirectoryCache struct {
	mu          sync.RWMutex
	departments []domain.Department
	users       []domain.User
}

// NewDirectoryCache returns an empty cache.
func NewDirectoryCache() *DirectoryCache {
	return &DirectoryCache{}
}

// ReplaceDepartments atomically swaps the department collection. Local
// ids restart from 1 on every refresh; callers must not persist them.
func (c *DirectoryCache) ReplaceDepartments(items []domain.Department) {
	copied := append([]domain.Department(nil), items...)
	c.mu.Lock()
	c.departments = copied
	c.mu.Unlock()
}

// ReplaceUsers atomically swaps the user collection.
func (c *DirectoryCache) ReplaceUsers(items []domain.User) {
	copied := append([]domain.User(nil), items...)
	c.mu.Lock()
	c.users = copied
	c.mu.Unlock()
}

// ListDepartments returns a copy of the cached departments.
func (c *DirectoryCache) ListDepartments() []domain.Department {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]domain.Department(nil), c.departments...)
}

// ListUsers returns a copy of the cached users.
func (c *DirectoryCache) ListUsers() []domain.User {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]domain.User(nil), c.users...)
}

// ListUsersByDepartment returns users assigned to the given department.
func (c *DirectoryCache) ListUsersByDepartment(departmentID int) []domain.User {
	c.mu.RLock()
	defer c.mu.RUnlock()
	result := make([]domain.User, 0)
	for _, user := range c.users {
		if user.DepartmentID == departmentID {
			result = append(result, user)
		}
	}
	return result
}

// GetDepartment looks up a department by its current local id.
func (c *DirectoryCache) GetDepartment(id int) (domain.Department, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, dept := range c.departments {
		if dept.ID == id {
			return dept, true
		}
	}
	return domain.Department{}, false
}

// GetUser looks up a user by its current local id.
func (c *DirectoryCache) GetUser(id int) (domain.User, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, user := range c.users {
		if user.ID == id {
			return user, true
		}
	}
	return domain.User{}, false
}

// FindUserByName looks up a user by case-insensitive exact name.
func (c *DirectoryCache) FindUserByName(name string) (domain.User, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, user := range c.users {
		if strings.EqualFold(user.Name, name) {
			return user, true
		}
	}
	return domain.User{}, false
}

// Empty reports whether either directory collection is unpopulated.
func (c *DirectoryCache) Empty() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.departments) == 0 || len(c.users) == 0
}
