package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/staffkit/staff-admin/internal/api/dto"
	"github.com/staffkit/staff-admin/internal/service"
)

// RolesHandler exposes the role catalog.
type RolesHandler struct {
	roles *service.RoleService
}

// NewRolesHandler constructs handler.
func NewRolesHandler(roles *service.RoleService) *RolesHandler {
	return &RolesHandler{roles: roles}
}

// Mutate handles POST /api/roles.
func (h *RolesHandler) Mutate(c *fiber.Ctx) error {
	ctx := c.UserContext()
	action := formValue(c, "accion")

	switch action {
	case actionCreate:
		if _, err := h.roles.Create(ctx, c.FormValue("nombre")); err != nil {
			return err
		}
		return sendMessage(c, fiber.StatusCreated, "Rol creado exitosamente.")
	case actionEdit:
		if _, err := h.roles.Update(ctx, formID(c.FormValue("id")), c.FormValue("nombre")); err != nil {
			return err
		}
		return sendMessage(c, fiber.StatusOK, "Rol actualizado exitosamente.")
	case actionDelete:
		if err := h.roles.Delete(ctx, formID(c.FormValue("id"))); err != nil {
			return err
		}
		return sendMessage(c, fiber.StatusOK, "Rol eliminado exitosamente.")
	default:
		return errInvalidAction(action)
	}
}

// List handles GET /api/roles.
func (h *RolesHandler) List(c *fiber.Ctx) error {
	roles, err := h.roles.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(dto.RoleItems(roles))
}
