package validation

import (
	"slices"
	"strconv"
	"strings"

	"github.com/staffkit/staff-admin/internal/domain"
)

// Reasons reported by ValidateEmployee besides the name and email ones.
const (
	SexReason         = "Debe seleccionar un sexo válido: Masculino (M) o Femenino (F)."
	AreaReason        = "Debe seleccionar un área."
	DescriptionReason = "La descripción no puede superar los 500 caracteres."
	RolesReason       = "Debe seleccionar al menos un rol."
	RoleIDReason      = "Los roles seleccionados no son válidos."
)

// MaxDescriptionLen bounds the free-text employee description.
const MaxDescriptionLen = 500

var allowedSexes = []string{string(domain.SexMale), string(domain.SexFemale)}

// EmployeeInput carries the raw form fields of an employee create or edit.
type EmployeeInput struct {
	Name        string
	Email       string
	Sex         string
	AreaID      string
	Subscribed  string
	Description string
	Roles       []string
}

// ValidateEmployee checks every field and returns the parsed employee together
// with all failing reasons, in field order. The employee is only meaningful
// when no reasons are returned. Role ids come back deduplicated and ascending.
func ValidateEmployee(in EmployeeInput) (domain.Employee, []string) {
	var reasons []string
	emp := domain.Employee{
		Name:        Normalize(in.Name),
		Email:       strings.TrimSpace(in.Email),
		Sex:         domain.Sex(strings.TrimSpace(in.Sex)),
		Subscribed:  ParseFlag(in.Subscribed),
		Description: Normalize(in.Description),
	}

	if err := ValidateName(emp.Name, PersonName); err != nil {
		reasons = append(reasons, err.Error())
	}
	if err := ValidateEmail(emp.Email, DefaultMaxLen); err != nil {
		reasons = append(reasons, err.Error())
	}
	if err := ValidateEnum(string(emp.Sex), allowedSexes, SexReason); err != nil {
		reasons = append(reasons, err.Error())
	}

	areaID, ok := ParseID(in.AreaID)
	if !ok {
		reasons = append(reasons, AreaReason)
	}
	emp.AreaID = areaID

	if err := ValidateLength(emp.Description, 0, MaxDescriptionLen, DescriptionReason); err != nil {
		reasons = append(reasons, err.Error())
	}

	roles, roleReason := parseRoles(in.Roles)
	if roleReason != "" {
		reasons = append(reasons, roleReason)
	}
	emp.Roles = roles

	return emp, reasons
}

// ParseID parses a positive integer identifier.
func ParseID(raw string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// ParseFlag reads checkbox-style booleans; anything unrecognised is false.
func ParseFlag(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "on", "si", "sí", "yes":
		return true
	}
	v, err := strconv.ParseBool(strings.TrimSpace(raw))
	return err == nil && v
}

func parseRoles(raw []string) ([]int64, string) {
	ids := make([]int64, 0, len(raw))
	for _, r := range raw {
		if strings.TrimSpace(r) == "" {
			continue
		}
		id, ok := ParseID(r)
		if !ok {
			return nil, RoleIDReason
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil, RolesReason
	}
	slices.Sort(ids)
	return slices.Compact(ids), ""
}
