package domain

// Area represents an organizational unit employees belong to.
type Area struct {
	ID   int64
	Name string
}
