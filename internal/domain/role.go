package domain

// Role represents an assignment an employee can hold; many-to-many with Employee.
type Role struct {
	ID   int64
	Name string
}
