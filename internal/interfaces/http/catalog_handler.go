package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/catalogo-inventario/internal/application/dto"
	"github.com/jhoicas/catalogo-inventario/internal/application/usecase"
	"github.com/jhoicas/catalogo-inventario/internal/domain"
)

// CatalogHandler expone la proyección de solo lectura del catálogo
// administrativo: listados con columnas fijas, caja de búsqueda y filtros de
// lista. Nunca muta el store.
type CatalogHandler struct {
	uc *usecase.CatalogUseCase
}

// NewCatalogHandler construye el handler.
func NewCatalogHandler(uc *usecase.CatalogUseCase) *CatalogHandler {
	return &CatalogHandler{uc: uc}
}

// ListCategories godoc
// @Summary      Listado administrativo de categorías (name, description)
// @Tags         catalog
// @Produce      json
// @Param        q  query  string  false  "Búsqueda"
// @Success      200  {object}  dto.CatalogListResponse
// @Router       /api/catalog/categories [get]
func (h *CatalogHandler) ListCategories(c *fiber.Ctx) error {
	return h.list(c, domain.EntityCategory)
}

// ListSuppliers godoc
// @Summary      Listado administrativo de proveedores (name, contact_email, phone)
// @Tags         catalog
// @Produce      json
// @Param        q  query  string  false  "Búsqueda"
// @Success      200  {object}  dto.CatalogListResponse
// @Router       /api/catalog/suppliers [get]
func (h *CatalogHandler) ListSuppliers(c *fiber.Ctx) error {
	return h.list(c, domain.EntitySupplier)
}

// ListProducts godoc
// @Summary      Listado administrativo de productos (name, price, stock_count, category, supplier, created_at)
// @Tags         catalog
// @Produce      json
// @Param        q            query  string  false  "Búsqueda"
// @Param        category_id  query  int     false  "Filtro de lista por categoría"
// @Param        supplier_id  query  int     false  "Filtro de lista por proveedor"
// @Success      200  {object}  dto.CatalogListResponse
// @Router       /api/catalog/products [get]
func (h *CatalogHandler) ListProducts(c *fiber.Ctx) error {
	return h.list(c, domain.EntityProduct)
}

func (h *CatalogHandler) list(c *fiber.Ctx, entity string) error {
	page := dto.PageRequest{Limit: c.QueryInt("limit", 20), Offset: c.QueryInt("offset", 0)}
	var listFilters []usecase.ListFilter
	if entity == domain.EntityProduct {
		if v := c.QueryInt("category_id", 0); v > 0 {
			listFilters = append(listFilters, usecase.ListFilter{Field: domain.FieldCategory, ID: int64(v)})
		}
		if v := c.QueryInt("supplier_id", 0); v > 0 {
			listFilters = append(listFilters, usecase.ListFilter{Field: domain.FieldSupplier, ID: int64(v)})
		}
	}
	out, err := h.uc.List(entity, c.Query("q"), listFilters, page)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
