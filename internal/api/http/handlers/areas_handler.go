package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/staffkit/staff-admin/internal/api/dto"
	"github.com/staffkit/staff-admin/internal/service"
)

// AreasHandler exposes the area catalog.
type AreasHandler struct {
	areas *service.AreaService
}

// NewAreasHandler constructs handler.
func NewAreasHandler(areas *service.AreaService) *AreasHandler {
	return &AreasHandler{areas: areas}
}

// Mutate handles POST /api/areas, dispatching on the accion field.
func (h *AreasHandler) Mutate(c *fiber.Ctx) error {
	ctx := c.UserContext()
	action := formValue(c, "accion")

	switch action {
	case actionCreate:
		if _, err := h.areas.Create(ctx, c.FormValue("nombre")); err != nil {
			return err
		}
		return sendMessage(c, fiber.StatusCreated, "Área creada exitosamente.")
	case actionEdit:
		if _, err := h.areas.Update(ctx, formID(c.FormValue("id")), c.FormValue("nombre")); err != nil {
			return err
		}
		return sendMessage(c, fiber.StatusOK, "Área actualizada exitosamente.")
	case actionDelete:
		if err := h.areas.Delete(ctx, formID(c.FormValue("id"))); err != nil {
			return err
		}
		return sendMessage(c, fiber.StatusOK, "Área eliminada exitosamente.")
	default:
		return errInvalidAction(action)
	}
}

// List handles GET /api/areas.
func (h *AreasHandler) List(c *fiber.Ctx) error {
	areas, err := h.areas.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(dto.AreaItems(areas))
}
