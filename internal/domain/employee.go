package domain

// Sex enumerates the accepted employee sex codes.
type Sex string

const (
	SexMale   Sex = "M"
	SexFemale Sex = "F"
)

// Employee is the full employee record, including the associated role ids.
type Employee struct {
	ID          int64
	Name        string
	Email       string
	Sex         Sex
	AreaID      int64
	Subscribed  bool
	Description string
	Roles       []int64
}

// EmployeeSummary is the list view: the area is resolved to its name and
// roles are omitted.
type EmployeeSummary struct {
	ID          int64
	Name        string
	Email       string
	Sex         Sex
	AreaName    string
	Subscribed  bool
	Description string
}
