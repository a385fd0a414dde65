package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/catalogo-inventario/internal/migration"
	"github.com/jhoicas/catalogo-inventario/internal/store"
)

// SchemaHandler expone el estado de la cadena de migraciones (solo lectura).
// Aplicar o revertir pasos es exclusivo del CLI de migraciones.
type SchemaHandler struct {
	chain *migration.Chain
	st    *store.Store
}

// NewSchemaHandler construye el handler.
func NewSchemaHandler(chain *migration.Chain, st *store.Store) *SchemaHandler {
	return &SchemaHandler{chain: chain, st: st}
}

// Status godoc
// @Summary      Estado de la cadena de migraciones
// @Tags         schema
// @Produce      json
// @Success      200  {object}  migration.Status
// @Router       /api/schema/status [get]
func (h *SchemaHandler) Status(c *fiber.Ctx) error {
	return c.JSON(h.chain.Status(h.st))
}

// Journal godoc
// @Summary      Journal de migraciones aplicadas
// @Tags         schema
// @Produce      json
// @Success      200  {array}  store.AppliedMigration
// @Router       /api/schema/journal [get]
func (h *SchemaHandler) Journal(c *fiber.Ctx) error {
	return c.JSON(h.st.Journal())
}
