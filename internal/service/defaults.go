package service

import "github.com/spec-kit/helpdesk-portal/internal/domain"

// Static directory defaults seeded at boot so the portal is usable
// before the first successful ITSM fetch. Replaced wholesale by the
// first refresh.
var defaultDepartments = []domain.Department{
	{ID: 1, Name: "Information Technology", Value: "it"},
	{ID: 2, Name: "Human Resources", Value: "hr"},
	{ID: 3, Name: "Finance", Value: "finance"},
	{ID: 4, Name: "Operations", Value: "operations"},
	{ID: 5, Name: "Marketing", Value: "marketing"},
}

var defaultUsers = []domain.User{
	{ID: 1, Name: "John Doe", Value: "john.doe", DepartmentID: 1},
	{ID: 2, Name: "Jane Smith", Value: "jane.smith", DepartmentID: 2},
	{ID: 3, Name: "Mike Johnson", Value: "mike.johnson", DepartmentID: 3},
	{ID: 4, Name: "Sarah Wilson", Value: "sarah.wilson", DepartmentID: 4},
	{ID: 5, Name: "David Brown", Value: "david.brown", DepartmentID: 5},
	{ID: 6, Name: "Lisa Davis", Value: "lisa.davis", DepartmentID: 1},
	{ID: 7, Name: "Tom Wilson", Value: "tom.wilson", DepartmentID: 2},
}
