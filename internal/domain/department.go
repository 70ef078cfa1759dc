package domain

// Department mirrors an iTop Team. The id is assigned locally on each
// directory refresh and is not stable across refreshes; only the name is.
type Department struct {
	ID    int
	Name  string
	Value string
}

// CustomDepartment is the placeholder for tickets filed with department
// id 0, which bypasses the directory.
func CustomDepartment() Department {
	return Department{
		ID:    0,
		Name:  "Custom Department",
		Value: "custom-department",
	}
}
