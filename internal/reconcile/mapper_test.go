package reconcile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk-portal/internal/domain"
	"github.com/spec-kit/helpdesk-portal/internal/itop"
)

func TestDepartmentsFromTeams(t *testing.T) {
	teams := []itop.TeamRecord{
		{Key: "Team::5", Name: "Network Operations"},
		{Key: "Team::9", Name: "Service Desk"},
	}

	departments := DepartmentsFromTeams(teams)

	require.Len(t, departments, 2)
	assert.Equal(t, domain.Department{ID: 1, Name: "Network Operations", Value: "network-operations"}, departments[0])
	assert.Equal(t, domain.Department{ID: 2, Name: "Service Desk", Value: "service-desk"}, departments[1])
}

func TestUsersFromPersons(t *testing.T) {
	departments := []domain.Department{
		{ID: 1, Name: "Network Operations"},
		{ID: 2, Name: "Service Desk"},
	}
	persons := []itop.PersonRecord{
		{ID: "41", FriendlyName: "Jane Smith", Teams: []itop.PersonTeam{{TeamName: "Service Desk"}}},
		{ID: "42", FriendlyName: "Bob Lee"},
		{ID: "43", FriendlyName: "Jane Smith", Teams: []itop.PersonTeam{{TeamName: "Network Operations"}}},
	}

	users := UsersFromPersons(persons, departments)

	require.Len(t, users, 2)
	assert.Equal(t, domain.User{ID: 1, Name: "Jane Smith", Value: "jane.smith", DepartmentID: 2, ExternalID: "41"}, users[0])
	assert.Equal(t, 0, users[1].DepartmentID)
	assert.Equal(t, "bob.lee", users[1].Value)
}

func TestTicketsFromUserRequestsExtractsDescriptionFields(t *testing.T) {
	departments := []domain.Department{{ID: 1, Name: "Service Desk"}}
	users := []domain.User{{ID: 1, Name: "Jane Smith", DepartmentID: 1}}
	records := []itop.UserRequestRecord{{
		Key:         "UserRequest::77",
		Ref:         "R-000077",
		Title:       "Printer broken (Service Desk)",
		Description: "<p><strong>EXTENSION</strong>: 99</p>\n<p><strong>RACK LOCATION</strong>: B-12</p>\n<p><strong>ISSUE DESCRIPTION</strong>: Paper jam every page</p>",
		CallerName:  "Jane Smith",
		TeamName:    "Service Desk",
		Status:      "assigned",
		StartDate:   "2026-08-30 10:15:00",
		LastUpdate:  "2026-08-30 11:00:00",
	}}

	mapping := TicketsFromUserRequests(records, departments, users)

	require.Len(t, mapping.Tickets, 1)
	ticket := mapping.Tickets[0]
	assert.Equal(t, "R-000077", ticket.TicketID)
	assert.Equal(t, "99", ticket.Extension)
	assert.Equal(t, "B-12", ticket.RackLocation)
	assert.Equal(t, "Paper jam every page", ticket.IssueDescription)
	assert.Equal(t, domain.TicketStatus("assigned"), ticket.Status)
	assert.Equal(t, 1, ticket.UserID)
	assert.Equal(t, 1, ticket.DepartmentID)
	assert.Equal(t,
		time.Date(2026, 8, 30, 10, 15, 0, 0, time.Local), ticket.CreatedAt)
}

func TestTicketsFromUserRequestsPartialRecordDefaults(t *testing.T) {
	departments := []domain.Department{{ID: 1, Name: "Service Desk"}}
	users := []domain.User{{ID: 1, Name: "Jane Smith", DepartmentID: 1}}
	records := []itop.UserRequestRecord{{
		Key:        "UserRequest::80",
		Title:      "Something odd",
		CallerName: "Jane Smith",
	}}

	mapping := TicketsFromUserRequests(records, departments, users)

	require.Len(t, mapping.Tickets, 1)
	ticket := mapping.Tickets[0]
	assert.Equal(t, "UserRequest::80", ticket.TicketID, "key stands in for a missing ref")
	assert.Equal(t, "N/A", ticket.Extension)
	assert.Equal(t, "N/A", ticket.RackLocation)
	assert.Equal(t, "No issue description provided", ticket.IssueDescription)
	assert.Equal(t, "Something odd", ticket.RawDescription)
	assert.Equal(t, domain.TicketStatusNew, ticket.Status)
	assert.False(t, ticket.CreatedAt.IsZero())
}

func TestTicketsFromUserRequestsSynthesizesUnknownCaller(t *testing.T) {
	departments := []domain.Department{{ID: 1, Name: "Service Desk"}}
	users := []domain.User{{ID: 3, Name: "Jane Smith", DepartmentID: 1}}
	records := []itop.UserRequestRecord{{
		Key:                "UserRequest::81",
		Ref:                "R-000081",
		Title:              "VPN down",
		CallerName:         "Nguyen, Minh",
		CallerFriendlyName: "Minh Nguyen",
		TeamName:           "Service Desk",
	}}

	mapping := TicketsFromUserRequests(records, departments, users)

	require.Len(t, mapping.Users, 2)
	synthesized := mapping.Users[1]
	assert.Equal(t, 4, synthesized.ID, "ids continue past the directory's maximum")
	assert.Equal(t, "Minh Nguyen", synthesized.Name)
	assert.Equal(t, 1, synthesized.DepartmentID)
	assert.Equal(t, synthesized.ID, mapping.Tickets[0].UserID)
}

func TestTicketsFromUserRequestsSynthesizesUnknownTeam(t *testing.T) {
	records := []itop.UserRequestRecord{{
		Key:        "UserRequest::82",
		Ref:        "R-000082",
		Title:      "Badge reader offline",
		CallerName: "Sam Pole",
		TeamName:   "Facilities",
	}}

	mapping := TicketsFromUserRequests(records, nil, nil)

	require.Len(t, mapping.Departments, 1)
	assert.Equal(t, "Facilities", mapping.Departments[0].Name)
	assert.Equal(t, mapping.Departments[0].ID, mapping.Tickets[0].DepartmentID)
}

func TestMatchUserByCallerBidirectional(t *testing.T) {
	users := []domain.User{{ID: 1, Name: "Jane Smith"}}

	matched, ok := matchUserByCaller(users, "smith")
	require.True(t, ok)
	assert.Equal(t, 1, matched.ID)

	matched, ok = matchUserByCaller(users, "Ms. Jane Smith (Service Desk)")
	require.True(t, ok)
	assert.Equal(t, 1, matched.ID)

	_, ok = matchUserByCaller(users, "")
	assert.False(t, ok)
}

func TestComposeTitle(t *testing.T) {
	assert.Equal(t, "Printer broken (Service Desk)", ComposeTitle("Printer broken", "Service Desk"))
}
