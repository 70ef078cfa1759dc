package dto

import "github.com/spec-kit/helpdesk-portal/internal/domain"

// DepartmentResponse is the wire shape of a department.
type DepartmentResponse struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Value string `json:"value"`
}

// UserResponse is the wire shape of a user. DepartmentID is null when
// the person has no team assignment.
type UserResponse struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	Value        string `json:"value"`
	DepartmentID *int   `json:"departmentId"`
	ExternalID   string `json:"externalId,omitempty"`
}

// FromDepartment maps a domain department.
func FromDepartment(dept domain.Department) DepartmentResponse {
	return DepartmentResponse{ID: dept.ID, Name: dept.Name, Value: dept.Value}
}

// FromUser maps a domain user.
func FromUser(user domain.User) UserResponse {
	resp := UserResponse{
		ID:         user.ID,
		Name:       user.Name,
		Value:      user.Value,
		ExternalID: user.ExternalID,
	}
	if user.DepartmentID != 0 {
		departmentID := user.DepartmentID
		resp.DepartmentID = &departmentID
	}
	return resp
}
