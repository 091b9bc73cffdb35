package dto

import "github.com/staffkit/staff-admin/internal/domain"

// CatalogItem is the list representation of an area or role.
type CatalogItem struct {
	ID     int64  `json:"ID"`
	Nombre string `json:"NOMBRE"`
}

// AreaItems maps areas to their response shape.
func AreaItems(areas []domain.Area) []CatalogItem {
	items := make([]CatalogItem, 0, len(areas))
	for _, a := range areas {
		items = append(items, CatalogItem{ID: a.ID, Nombre: a.Name})
	}
	return items
}

// RoleItems maps roles to their response shape.
func RoleItems(roles []domain.Role) []CatalogItem {
	items := make([]CatalogItem, 0, len(roles))
	for _, r := range roles {
		items = append(items, CatalogItem{ID: r.ID, Nombre: r.Name})
	}
	return items
}

// ErrorResponse is the JSON body of a failed read.
type ErrorResponse struct {
	Error string `json:"error"`
}
