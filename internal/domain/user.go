package domain

// User mirrors an iTop Person. ExternalID carries the iTop person id so
// ticket creation can address the caller unambiguously even when the
// friendly name is not unique. DepartmentID is 0 when the person has no
// team assignment.
type User struct {
	ID           int
	Name         string
	Value        string
	DepartmentID int
	ExternalID   string
}
