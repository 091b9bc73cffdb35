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

// RoleService manages the role catalog.
type RoleService struct {
	base
	roles repository.RoleRepository
}

// NewRoleService constructs the service.
func NewRoleService(deps Dependencies) *RoleService {
	return &RoleService{base: newBase(deps), roles: deps.RoleRepo}
}

// Create validates name and stores a new role.
func (s *RoleService) Create(ctx context.Context, name string) (role *domain.Role, err error) {
	defer func(start time.Time) { s.observe(ctx, "role.create", start, err) }(time.Now())

	name = validation.Normalize(name)
	if err := validation.ValidateName(name, validation.CatalogName); err != nil {
		return nil, apperrors.NewInvalidInput(err.Error(), map[string]any{"field": "nombre"})
	}

	role = &domain.Role{Name: name}
	if err := s.roles.Create(ctx, role); err != nil {
		return nil, s.storageError("role.create", "Error al crear el rol.", err)
	}
	s.publishEvent(ctx, events.NewEvent(events.EventRoleCreated, role.ID, events.NamePayload{Name: role.Name}))
	return role, nil
}

// Update renames an existing role.
func (s *RoleService) Update(ctx context.Context, id int64, name string) (role *domain.Role, err error) {
	defer func(start time.Time) { s.observe(ctx, "role.update", start, err) }(time.Now())

	if id <= 0 {
		return nil, apperrors.NewInvalidInput("ID no válido para edición.", map[string]any{"field": "id"})
	}
	name = validation.Normalize(name)
	if err := validation.ValidateName(name, validation.CatalogName); err != nil {
		return nil, apperrors.NewInvalidInput(err.Error(), map[string]any{"field": "nombre"})
	}

	role = &domain.Role{ID: id, Name: name}
	if err := s.roles.Update(ctx, role); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewNotFound("No se encontró el rol con el ID proporcionado.", map[string]any{"id": id})
		}
		return nil, s.storageError("role.update", "Error al editar el rol.", err)
	}
	s.publishEvent(ctx, events.NewEvent(events.EventRoleUpdated, role.ID, events.NamePayload{Name: role.Name}))
	return role, nil
}

// Delete removes a role no employee holds.
func (s *RoleService) Delete(ctx context.Context, id int64) (err error) {
	defer func(start time.Time) { s.observe(ctx, "role.delete", start, err) }(time.Now())

	if id <= 0 {
		return apperrors.NewInvalidInput("ID inválido para eliminación.", map[string]any{"field": "id"})
	}

	if err := s.roles.DeleteUnused(ctx, id); err != nil {
		var usageErr *repository.UsageCheckError
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return apperrors.NewNotFound("No se encontró el rol con el ID proporcionado para eliminar.", map[string]any{"id": id})
		case errors.As(err, &usageErr):
			return s.storageError("role.delete", "Error interno al verificar si el rol está en uso.", err)
		}
		if count, inUse := repository.IsInUse(err); inUse {
			if count == 0 {
				return apperrors.NewConflict(
					"No se puede eliminar el rol porque está asignado a empleados.",
					map[string]any{"id": id},
				)
			}
			return apperrors.NewConflict(
				fmt.Sprintf("No se puede eliminar el rol porque está asignado a %d empleado(s).", count),
				map[string]any{"id": id, "employees": count},
			)
		}
		return s.storageError("role.delete", "Error al eliminar el rol.", err)
	}
	s.publishEvent(ctx, events.NewEvent(events.EventRoleDeleted, id, nil))
	return nil
}

// List returns every role ordered by id.
func (s *RoleService) List(ctx context.Context) (roles []domain.Role, err error) {
	defer func(start time.Time) { s.observe(ctx, "role.list", start, err) }(time.Now())

	roles, err = listCached(ctx, s.base, cache.KeyRoles, s.roles.List)
	if err != nil {
		return nil, s.storageError("role.list", "Error al listar roles.", err)
	}
	return roles, nil
}
