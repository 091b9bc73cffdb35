package dto

import (
	"github.com/staffkit/staff-admin/internal/domain"
	"github.com/staffkit/staff-admin/internal/validation"
)

// EmployeeForm carries the fields posted by the employee form.
type EmployeeForm struct {
	Accion      string
	ID          string
	Nombre      string
	Email       string
	Sexo        string
	AreaID      string
	Boletin     string
	Descripcion string
	Roles       []string
}

// Input converts the form into the validator's input.
func (f EmployeeForm) Input() validation.EmployeeInput {
	return validation.EmployeeInput{
		Name:        f.Nombre,
		Email:       f.Email,
		Sex:         f.Sexo,
		AreaID:      f.AreaID,
		Subscribed:  f.Boletin,
		Description: f.Descripcion,
		Roles:       f.Roles,
	}
}

// EmployeeListItem is one row of the employee list.
type EmployeeListItem struct {
	ID          int64  `json:"ID"`
	Nombre      string `json:"NOMBRE"`
	Email       string `json:"EMAIL"`
	Sexo        string `json:"SEXO"`
	Area        string `json:"AREA"`
	Boletin     int    `json:"BOLETIN"`
	Descripcion string `json:"DESCRIPCION"`
}

// EmployeeDetail is the single-employee view, roles included.
type EmployeeDetail struct {
	ID          int64   `json:"ID"`
	Nombre      string  `json:"NOMBRE"`
	Email       string  `json:"EMAIL"`
	Sexo        string  `json:"SEXO"`
	AreaID      int64   `json:"AREA_ID"`
	Boletin     int     `json:"BOLETIN"`
	Descripcion string  `json:"DESCRIPCION"`
	Roles       []int64 `json:"ROLES"`
}

// EmployeeListItems maps summaries to their response shape.
func EmployeeListItems(list []domain.EmployeeSummary) []EmployeeListItem {
	items := make([]EmployeeListItem, 0, len(list))
	for _, e := range list {
		items = append(items, EmployeeListItem{
			ID:          e.ID,
			Nombre:      e.Name,
			Email:       e.Email,
			Sexo:        string(e.Sex),
			Area:        e.AreaName,
			Boletin:     flag(e.Subscribed),
			Descripcion: e.Description,
		})
	}
	return items
}

// NewEmployeeDetail maps a full employee record.
func NewEmployeeDetail(e *domain.Employee) EmployeeDetail {
	roles := e.Roles
	if roles == nil {
		roles = []int64{}
	}
	return EmployeeDetail{
		ID:          e.ID,
		Nombre:      e.Name,
		Email:       e.Email,
		Sexo:        string(e.Sex),
		AreaID:      e.AreaID,
		Boletin:     flag(e.Subscribed),
		Descripcion: e.Description,
		Roles:       roles,
	}
}

func flag(b bool) int {
	if b {
		return 1
	}
	return 0
}
