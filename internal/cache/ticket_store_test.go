package cache

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk-portal/internal/domain"
)

func TestReplaceRestartsIDs(t *testing.T) {
	store := NewTicketStore()
	store.Add(domain.Ticket{TicketID: "R-1"})
	store.Add(domain.Ticket{TicketID: "R-2"})

	store.Replace([]domain.Ticket{{TicketID: "R-9"}})

	tickets := store.List()
	require.Len(t, tickets, 1)
	assert.Equal(t, 1, tickets[0].ID)

	added := store.Add(domain.Ticket{TicketID: "R-10"})
	assert.Equal(t, 2, added.ID)
}

func TestFindByRef(t *testing.T) {
	store := NewTicketStore()
	store.Add(domain.Ticket{TicketID: "R-000077"})

	ticket, found := store.FindByRef("R-000077")
	require.True(t, found)
	assert.Equal(t, "R-000077", ticket.TicketID)

	_, found = store.FindByRef("R-000099")
	assert.False(t, found)
}

func TestUpdateStatus(t *testing.T) {
	store := NewTicketStore()
	created := time.Now().Add(-time.Hour)
	store.Add(domain.Ticket{TicketID: "R-1", Status: domain.TicketStatusNew, UpdatedAt: created})

	ticket, found := store.UpdateStatus("R-1", domain.TicketStatusResolved)

	require.True(t, found)
	assert.Equal(t, domain.TicketStatusResolved, ticket.Status)
	assert.True(t, ticket.UpdatedAt.After(created))
}

func TestNextLocalRefFormat(t *testing.T) {
	store := NewTicketStore()

	year := time.Now().Year()
	assert.Equal(t, fmt.Sprintf("TKT-%d001", year), store.NextLocalRef())
	assert.Equal(t, fmt.Sprintf("TKT-%d002", year), store.NextLocalRef())
}

func TestReplaceRestartsLocalCounter(t *testing.T) {
	store := NewTicketStore()
	store.NextLocalRef()
	store.NextLocalRef()

	store.Replace(nil)

	year := time.Now().Year()
	assert.Equal(t, fmt.Sprintf("TKT-%d001", year), store.NextLocalRef())
}
