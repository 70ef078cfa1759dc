package reconcile

import (
	"regexp"
	"strings"
	"time"

	"github.com/spec-kit/helpdesk-portal/internal/domain"
	"github.com/spec-kit/helpdesk-portal/internal/itop"
)

// iTop timestamps come as "2006-01-02 15:04:05" in server-local time.
const itopTimeLayout = "2006-01-02 15:04:05"

const (
	fallbackFieldValue  = "N/A"
	fallbackIssueDetail = "No issue description provided"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

func slugify(name, sep string) string {
	return whitespaceRun.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), sep)
}

// DepartmentsFromTeams maps Team records to departments with fresh
// sequential ids starting at 1.
func DepartmentsFromTeams(teams []itop.TeamRecord) []domain.Department {
	departments := make([]domain.Department, 0, len(teams))
	for i, team := range teams {
		departments = append(departments, domain.Department{
			ID:    i + 1,
			Name:  team.Name,
			Value: slugify(team.Name, "-"),
		})
	}
	return departments
}

// UsersFromPersons maps Person records to users. A person's first listed
// team names its department; persons whose (name, value) pair duplicates
// an earlier one are dropped, first seen wins.
func UsersFromPersons(persons []itop.PersonRecord, departments []domain.Department) []domain.User {
	deptByName := make(map[string]int, len(departments))
	for _, dept := range departments {
		deptByName[dept.Name] = dept.ID
	}

	seen := make(map[string]struct{}, len(persons))
	users := make([]domain.User, 0, len(persons))
	nextID := 1
	for _, person := range persons {
		name := person.FriendlyName
		value := slugify(name, ".")
		key := strings.ToLower(name) + "|" + value
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		departmentID := 0
		if len(person.Teams) > 0 {
			departmentID = deptByName[person.Teams[0].TeamName]
		}
		users = append(users, domain.User{
			ID:           nextID,
			Name:         name,
			Value:        value,
			DepartmentID: departmentID,
			ExternalID:   person.ID,
		})
		nextID++
	}
	return users
}

// TicketMapping is the outcome of reconciling a remote ticket fetch: the
// enriched tickets plus the directory collections augmented with any
// users or departments synthesized along the way.
type TicketMapping struct {
	Tickets     []domain.TicketWithDetails
	Departments []domain.Department
	Users       []domain.User
}

// TicketsFromUserRequests reconciles raw UserRequest records against the
// given directory. Partial records are tolerated with safe defaults
// rather than aborting the fetch; callers that cannot be matched get a
// synthesized user, unknown teams a synthesized department.
func TicketsFromUserRequests(records []itop.UserRequestRecord, departments []domain.Department, users []domain.User) TicketMapping {
	mapping := TicketMapping{
		Departments: append([]domain.Department(nil), departments...),
		Users:       append([]domain.User(nil), users...),
	}
	nextUserID := maxUserID(mapping.Users) + 1
	nextDeptID := maxDepartmentID(mapping.Departments) + 1
	nextTicketID := 1

	for _, record := range records {
		user, found := matchUserByCaller(mapping.Users, record.CallerName)
		if !found {
			name := record.CallerFriendlyName
			if name == "" {
				name = record.CallerName
			}
			defaultDeptID := 1
			if len(mapping.Departments) > 0 {
				defaultDeptID = mapping.Departments[0].ID
			}
			user = domain.User{
				ID:           nextUserID,
				Name:         name,
				Value:        slugify(name, "."),
				DepartmentID: defaultDeptID,
			}
			nextUserID++
			mapping.Users = append(mapping.Users, user)
		}

		department, found := matchDepartmentByName(mapping.Departments, record.TeamName)
		if !found {
			if dept, ok := departmentByID(mapping.Departments, user.DepartmentID); ok {
				department = dept
			} else {
				name := record.TeamName
				if name == "" {
					name = "Unknown Department"
				}
				department = domain.Department{
					ID:    nextDeptID,
					Name:  name,
					Value: slugify(name, "-"),
				}
				nextDeptID++
				mapping.Departments = append(mapping.Departments, department)
			}
		}

		createdAt := parseITopTime(record.StartDate, parseITopTime(record.LastUpdate, time.Now()))
		updatedAt := parseITopTime(record.LastUpdate, createdAt)

		status := domain.TicketStatus(record.Status)
		if record.Status == "" {
			status = domain.TicketStatusNew
		}

		extension := DecodeField(record.Description, LabelExtension)
		if extension == "" {
			extension = fallbackFieldValue
		}
		rackLocation := DecodeField(record.Description, LabelRackLocation)
		if rackLocation == "" {
			rackLocation = fallbackFieldValue
		}
		issueDetail := decodeIssueDetail(record.Description)
		if issueDetail == "" {
			issueDetail = fallbackIssueDetail
		}

		rawDescription := record.Description
		if rawDescription == "" {
			rawDescription = record.Title
		}
		ref := record.Ref
		if ref == "" {
			ref = record.Key
		}

		ticket := domain.Ticket{
			ID:               nextTicketID,
			TicketID:         ref,
			Title:            record.Title,
			DepartmentID:     department.ID,
			UserID:           user.ID,
			Extension:        extension,
			RackLocation:     rackLocation,
			IssueDescription: issueDetail,
			RawDescription:   rawDescription,
			AgentName:        record.AgentFriendlyName,
			Status:           status,
			CreatedAt:        createdAt,
			UpdatedAt:        updatedAt,
		}
		nextTicketID++

		mapping.Tickets = append(mapping.Tickets, domain.TicketWithDetails{
			Ticket:     ticket,
			Department: department,
			User:       user,
		})
	}
	return mapping
}

// ComposeTitle builds the stored ticket title. Consumers that redisplay
// the human-entered title must strip the trailing " (DeptName)" suffix.
func ComposeTitle(title, departmentName string) string {
	return title + " (" + departmentName + ")"
}

// matchUserByCaller matches by substring containment in either
// direction, since iTop's caller_name and the directory's friendlyname
// disagree on ordering and middle names.
func matchUserByCaller(users []domain.User, callerName string) (domain.User, bool) {
	if callerName == "" {
		return domain.User{}, false
	}
	caller := strings.ToLower(callerName)
	for _, user := range users {
		name := strings.ToLower(user.Name)
		if strings.Contains(name, caller) || strings.Contains(caller, name) {
			return user, true
		}
	}
	return domain.User{}, false
}

func matchDepartmentByName(departments []domain.Department, name string) (domain.Department, bool) {
	for _, dept := range departments {
		if dept.Name == name {
			return dept, true
		}
	}
	return domain.Department{}, false
}

func departmentByID(departments []domain.Department, id int) (domain.Department, bool) {
	for _, dept := range departments {
		if dept.ID == id {
			return dept, true
		}
	}
	return domain.Department{}, false
}

func maxUserID(users []domain.User) int {
	max := 0
	for _, user := range users {
		if user.ID > max {
			max = user.ID
		}
	}
	return max
}

func maxDepartmentID(departments []domain.Department) int {
	max := 0
	for _, dept := range departments {
		if dept.ID > max {
			max = dept.ID
		}
	}
	return max
}

func parseITopTime(value string, fallback time.Time) time.Time {
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseInLocation(itopTimeLayout, value, time.Local)
	if err != nil {
		return fallback
	}
	return parsed
}
