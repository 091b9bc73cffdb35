package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/staffkit/staff-admin/internal/api/dto"
	"github.com/staffkit/staff-admin/internal/export"
	"github.com/staffkit/staff-admin/internal/service"
)

const xlsxMIME = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// EmployeesHandler exposes employee endpoints.
type EmployeesHandler struct {
	employees *service.EmployeeService
}

// NewEmployeesHandler constructs handler.
func NewEmployeesHandler(employees *service.EmployeeService) *EmployeesHandler {
	return &EmployeesHandler{employees: employees}
}

func parseEmployeeForm(c *fiber.Ctx) dto.EmployeeForm {
	return dto.EmployeeForm{
		Accion:      formValue(c, "accion"),
		ID:          formValue(c, "id"),
		Nombre:      c.FormValue("nombre"),
		Email:       c.FormValue("email"),
		Sexo:        c.FormValue("sexo"),
		AreaID:      c.FormValue("area_id"),
		Boletin:     c.FormValue("boletin"),
		Descripcion: c.FormValue("descripcion"),
		Roles:       formValues(c, "roles"),
	}
}

// Mutate handles POST /api/empleados.
func (h *EmployeesHandler) Mutate(c *fiber.Ctx) error {
	ctx := c.UserContext()
	form := parseEmployeeForm(c)

	switch form.Accion {
	case actionCreate:
		if _, err := h.employees.Create(ctx, form.Input()); err != nil {
			return err
		}
		return sendMessage(c, fiber.StatusCreated, "Empleado creado exitosamente.")
	case actionEdit:
		if _, err := h.employees.Update(ctx, formID(form.ID), form.Input()); err != nil {
			return err
		}
		return sendMessage(c, fiber.StatusOK, "Empleado actualizado exitosamente.")
	case actionDelete:
		if err := h.employees.Delete(ctx, formID(form.ID)); err != nil {
			return err
		}
		return sendMessage(c, fiber.StatusOK, "Empleado eliminado exitosamente.")
	default:
		return errInvalidAction(form.Accion)
	}
}

// Read handles GET /api/empleados: the full record when ?id= is present,
// otherwise the list view.
func (h *EmployeesHandler) Read(c *fiber.Ctx) error {
	ctx := c.UserContext()
	if raw := c.Query("id"); raw != "" {
		emp, err := h.employees.Get(ctx, formID(raw))
		if err != nil {
			return err
		}
		return c.JSON(dto.NewEmployeeDetail(emp))
	}

	list, err := h.employees.List(ctx)
	if err != nil {
		return err
	}
	return c.JSON(dto.EmployeeListItems(list))
}

// Export handles GET /api/empleados/export.
func (h *EmployeesHandler) Export(c *fiber.Ctx) error {
	list, err := h.employees.List(c.UserContext())
	if err != nil {
		return err
	}
	data, err := export.Roster(list)
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, xlsxMIME)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="empleados.xlsx"`)
	return c.Send(data)
}
