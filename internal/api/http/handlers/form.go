package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/staffkit/staff-admin/internal/validation"
	apperrors "github.com/staffkit/staff-admin/pkg/util/errorutil"
)

// Form actions accepted by the mutation endpoints.
const (
	actionCreate = "crear"
	actionEdit   = "editar"
	actionDelete = "eliminar"
)

const invalidActionMessage = "Acción no válida."

func errInvalidAction(action string) error {
	return apperrors.NewInvalidInput(invalidActionMessage, map[string]any{"accion": action})
}

// formValue reads a url-encoded or multipart field, trimmed.
func formValue(c *fiber.Ctx, key string) string {
	return strings.TrimSpace(c.FormValue(key))
}

// formValues reads every value of a repeated field, accepting both key and
// the key[] spelling browsers use for FormData arrays.
func formValues(c *fiber.Ctx, key string) []string {
	keys := []string{key, key + "[]"}
	var out []string
	if form, err := c.MultipartForm(); err == nil {
		for _, k := range keys {
			out = append(out, form.Value[k]...)
		}
		return out
	}
	args := c.Request().PostArgs()
	for _, k := range keys {
		for _, v := range args.PeekMulti(k) {
			out = append(out, string(v))
		}
	}
	return out
}

// formID parses an id field; anything but a positive integer becomes 0 so the
// service reports it.
func formID(raw string) int64 {
	id, _ := validation.ParseID(raw)
	return id
}

func sendMessage(c *fiber.Ctx, status int, message string) error {
	c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	return c.Status(status).SendString(message)
}
