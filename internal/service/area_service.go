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

// AreaService manages the area catalog.
type AreaService struct {
	base
	areas repository.AreaRepository
}

// NewAreaService constructs the service.
func NewAreaService(deps Dependencies) *AreaService {
	return &AreaService{base: newBase(deps), areas: deps.AreaRepo}
}

// Create validates name and stores a new area.
func (s *AreaService) Create(ctx context.Context, name string) (area *domain.Area, err error) {
	defer func(start time.Time) { s.observe(ctx, "area.create", start, err) }(time.Now())

	name = validation.Normalize(name)
	if err := validation.ValidateName(name, validation.CatalogName); err != nil {
		return nil, apperrors.NewInvalidInput(err.Error(), map[string]any{"field": "nombre"})
	}

	area = &domain.Area{Name: name}
	if err := s.areas.Create(ctx, area); err != nil {
		return nil, s.storageError("area.create", "Error al crear el área.", err)
	}
	s.publishEvent(ctx, events.NewEvent(events.EventAreaCreated, area.ID, events.NamePayload{Name: area.Name}))
	return area, nil
}

// Update renames an existing area.
func (s *AreaService) Update(ctx context.Context, id int64, name string) (area *domain.Area, err error) {
	defer func(start time.Time) { s.observe(ctx, "area.update", start, err) }(time.Now())

	if id <= 0 {
		return nil, apperrors.NewInvalidInput("ID no válido para edición.", map[string]any{"field": "id"})
	}
	name = validation.Normalize(name)
	if err := validation.ValidateName(name, validation.CatalogName); err != nil {
		return nil, apperrors.NewInvalidInput(err.Error(), map[string]any{"field": "nombre"})
	}

	area = &domain.Area{ID: id, Name: name}
	if err := s.areas.Update(ctx, area); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewNotFound("No se encontró el área con el ID proporcionado.", map[string]any{"id": id})
		}
		return nil, s.storageError("area.update", "Error al editar el área.", err)
	}
	s.publishEvent(ctx, events.NewEvent(events.EventAreaUpdated, area.ID, events.NamePayload{Name: area.Name}))
	return area, nil
}

// Delete removes an area no employee belongs to.
func (s *AreaService) Delete(ctx context.Context, id int64) (err error) {
	defer func(start time.Time) { s.observe(ctx, "area.delete", start, err) }(time.Now())

	if id <= 0 {
		return apperrors.NewInvalidInput("ID inválido para eliminación.", map[string]any{"field": "id"})
	}

	if err := s.areas.DeleteUnused(ctx, id); err != nil {
		var usageErr *repository.UsageCheckError
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return apperrors.NewNotFound("No se encontró el área con el ID proporcionado para eliminar.", map[string]any{"id": id})
		case errors.As(err, &usageErr):
			return s.storageError("area.delete", "Error interno al verificar si el área está en uso.", err)
		}
		if count, inUse := repository.IsInUse(err); inUse {
			if count == 0 {
				return apperrors.NewConflict(
					"No se puede eliminar el área porque está asignada a empleados.",
					map[string]any{"id": id},
				)
			}
			return apperrors.NewConflict(
				fmt.Sprintf("No se puede eliminar el área porque está asignada a %d empleado(s).", count),
				map[string]any{"id": id, "employees": count},
			)
		}
		return s.storageError("area.delete", "Error al eliminar el área.", err)
	}
	s.publishEvent(ctx, events.NewEvent(events.EventAreaDeleted, id, nil))
	return nil
}

// List returns every area ordered by id.
func (s *AreaService) List(ctx context.Context) (areas []domain.Area, err error) {
	defer func(start time.Time) { s.observe(ctx, "area.list", start, err) }(time.Now())

	areas, err = listCached(ctx, s.base, cache.KeyAreas, s.areas.List)
	if err != nil {
		return nil, s.storageError("area.list", "Error al listar áreas.", err)
	}
	return areas, nil
}
