package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/staffkit/staff-admin/internal/cache"
	"github.com/staffkit/staff-admin/internal/domain"
	"github.com/staffkit/staff-admin/internal/events"
	"github.com/staffkit/staff-admin/internal/repository"
	"github.com/staffkit/staff-admin/internal/validation"
	apperrors "github.com/staffkit/staff-admin/pkg/util/errorutil"
)

// Messages returned for references that vanished or never existed.
const (
	MissingAreaMessage = "El área seleccionada no existe."
	missingRoleFormat  = "El rol seleccionado (ID %d) no existe."
)

// EmployeeService manages employees and their role associations.
type EmployeeService struct {
	base
	employees repository.EmployeeRepository
}

// NewEmployeeService constructs the service.
func NewEmployeeService(deps Dependencies) *EmployeeService {
	return &EmployeeService{base: newBase(deps), employees: deps.EmployeeRepo}
}

// Create validates every field, reporting all failures at once, and stores
// the employee together with its roles.
func (s *EmployeeService) Create(ctx context.Context, in validation.EmployeeInput) (emp *domain.Employee, err error) {
	defer func(start time.Time) { s.observe(ctx, "employee.create", start, err) }(time.Now())

	parsed, reasons := validation.ValidateEmployee(in)
	if len(reasons) > 0 {
		return nil, apperrors.NewInvalidInputReasons(reasons)
	}

	emp = &parsed
	if err := s.employees.Create(ctx, emp); err != nil {
		return nil, s.mapWriteError("employee.create", "Error al crear el empleado.", err)
	}
	s.publishEvent(ctx, events.NewEvent(events.EventEmployeeCreated, emp.ID, events.EmployeePayload{AreaID: emp.AreaID, Roles: emp.Roles}))
	return emp, nil
}

// Update replaces the employee's fields and its whole role set.
func (s *EmployeeService) Update(ctx context.Context, id int64, in validation.EmployeeInput) (emp *domain.Employee, err error) {
	defer func(start time.Time) { s.observe(ctx, "employee.update", start, err) }(time.Now())

	if id <= 0 {
		return nil, apperrors.NewInvalidInput("ID inválido para edición.", map[string]any{"field": "id"})
	}
	parsed, reasons := validation.ValidateEmployee(in)
	if len(reasons) > 0 {
		return nil, apperrors.NewInvalidInputReasons(reasons)
	}

	parsed.ID = id
	emp = &parsed
	if err := s.employees.Update(ctx, emp); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewNotFound("No se encontró el empleado con el ID proporcionado.", map[string]any{"id": id})
		}
		return nil, s.mapWriteError("employee.update", "Error al editar el empleado.", err)
	}
	s.publishEvent(ctx, events.NewEvent(events.EventEmployeeUpdated, emp.ID, events.EmployeePayload{AreaID: emp.AreaID, Roles: emp.Roles}))
	return emp, nil
}

// Delete removes the employee and its role associations.
func (s *EmployeeService) Delete(ctx context.Context, id int64) (err error) {
	defer func(start time.Time) { s.observe(ctx, "employee.delete", start, err) }(time.Now())

	if id <= 0 {
		return apperrors.NewInvalidInput("ID inválido para eliminación.", map[string]any{"field": "id"})
	}
	if err := s.employees.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperrors.NewNotFound("No se encontró el empleado con el ID proporcionado para eliminar.", map[string]any{"id": id})
		}
		return s.storageError("employee.delete", "Error al eliminar el empleado.", err)
	}
	s.publishEvent(ctx, events.NewEvent(events.EventEmployeeDeleted, id, nil))
	return nil
}

// Get returns the full employee record including its role ids.
func (s *EmployeeService) Get(ctx context.Context, id int64) (emp *domain.Employee, err error) {
	defer func(start time.Time) { s.observe(ctx, "employee.get", start, err) }(time.Now())

	if id <= 0 {
		return nil, apperrors.NewInvalidInput("ID inválido.", map[string]any{"field": "id"})
	}
	emp, err = s.employees.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewNotFound("Empleado no encontrado.", map[string]any{"id": id})
		}
		return nil, s.storageError("employee.get", "Error al obtener el empleado.", err)
	}
	return emp, nil
}

// List returns every employee with its area name, ordered by id.
func (s *EmployeeService) List(ctx context.Context) (list []domain.EmployeeSummary, err error) {
	defer func(start time.Time) { s.observe(ctx, "employee.list", start, err) }(time.Now())

	list, err = listCached(ctx, s.base, cache.KeyEmployees, s.employees.List)
	if err != nil {
		return nil, s.storageError("employee.list", "Error al listar empleados.", err)
	}
	return list, nil
}

func (s *EmployeeService) mapWriteError(op, message string, err error) error {
	var missing *repository.MissingReferenceError
	if errors.As(err, &missing) {
		if missing.Entity == repository.EntityArea {
			return apperrors.NewInvalidInput(MissingAreaMessage, map[string]any{"field": "area_id", "id": missing.ID})
		}
		return apperrors.NewInvalidInput(fmt.Sprintf(missingRoleFormat, missing.ID), map[string]any{"field": "roles", "id": missing.ID})
	}
	return s.storageError(op, message, err)
}
