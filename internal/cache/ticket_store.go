package cache

import (
	"fmt"
	"sync"
	"time"

	"github.com/spec-kit/helpdesk-portal/internal/domain"
)

// TicketStore holds the last known ticket set. Like the directory cache
// it is replaced wholesale on every successful remote fetch; only the
// external reference is a stable ticket identity.
type TicketStore struct {
	mu           sync.RWMutex
	tickets      []domain.Ticket
	nextID       int
	localCounter int
}

// NewTicketStore returns an empty store.
func NewTicketStore() *TicketStore {
	return &TicketStore{nextID: 1, localCounter: 1}
}

// Replace atomically swaps the ticket set and restarts local ids.
func (s *TicketStore) Replace(items []domain.Ticket) {
	copied := make([]domain.Ticket, 0, len(items))
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID = 1
	s.localCounter = 1
	for _, ticket := range items {
		ticket.ID = s.nextID
		s.nextID++
		copied = append(copied, ticket)
	}
	s.tickets = copied
}

// Add stores a locally originated ticket, assigning the next local id.
func (s *TicketStore) Add(ticket domain.Ticket) domain.Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()
	ticket.ID = s.nextID
	s.nextID++
	s.tickets = append(s.tickets, ticket)
	return ticket
}

// List returns a copy of the stored tickets.
func (s *TicketStore) List() []domain.Ticket {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Ticket(nil), s.tickets...)
}

// FindByRef looks up a ticket by its external reference.
func (s *TicketStore) FindByRef(ref string) (domain.Ticket, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, ticket := range s.tickets {
		if ticket.TicketID == ref {
			return ticket, true
		}
	}
	return domain.Ticket{}, false
}

// UpdateStatus mutates the stored ticket identified by ref.
func (s *TicketStore) UpdateStatus(ref string, status domain.TicketStatus) (domain.Ticket, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.tickets {
		if s.tickets[i].TicketID == ref {
			s.tickets[i].Status = status
			s.tickets[i].UpdatedAt = time.Now()
			return s.tickets[i], true
		}
	}
	return domain.Ticket{}, false
}

// NextLocalRef issues a placeholder reference for tickets created while
// the ITSM is unreachable. These are never reconciled with the remote id
// scheme; they live until the next full refresh replaces the set.
func (s *TicketStore) NextLocalRef() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ref := fmt.Sprintf("TKT-%d%03d", time.Now().Year(), s.localCounter)
	s.localCounter++
	return ref
}
