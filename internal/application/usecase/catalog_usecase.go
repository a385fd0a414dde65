package usecase

import (
	"fmt"

	"github.com/jhoicas/catalogo-inventario/internal/application/dto"
	"github.com/jhoicas/catalogo-inventario/internal/domain"
	"github.com/jhoicas/catalogo-inventario/internal/domain/schema"
	"github.com/jhoicas/catalogo-inventario/internal/store"
)

// displayColumns tupla fija de columnas de presentación por entidad del
// listado administrativo.
var displayColumns = map[string][]string{
	domain.EntityCategory: {domain.FieldName, domain.FieldDescription},
	domain.EntitySupplier: {domain.FieldName, domain.FieldContactEmail, domain.FieldPhone},
	domain.EntityProduct: {domain.FieldName, domain.FieldPrice, domain.FieldStockCount,
		domain.FieldCategory, domain.FieldSupplier, domain.FieldCreatedAt},
}

// CatalogUseCase proyección de solo lectura del catálogo para el operador:
// columnas fijas por entidad, caja de búsqueda sobre los campos buscables y
// filtros discretos por referencia. No muta nada; toda escritura pasa por los
// casos de uso CRUD.
type CatalogUseCase struct {
	st *store.Store
}

// NewCatalogUseCase construye la proyección.
func NewCatalogUseCase(st *store.Store) *CatalogUseCase {
	return &CatalogUseCase{st: st}
}

// ListFilter filtro discreto campo=id para el listado (Product.category,
// Product.supplier).
type ListFilter struct {
	Field string
	ID    int64
}

// List produce el listado de la entidad con búsqueda y filtros. Las columnas
// de referencia se resuelven al nombre del registro destino; una referencia
// sin poblar se muestra vacía.
func (uc *CatalogUseCase) List(entity, q string, listFilters []ListFilter, page dto.PageRequest) (*dto.CatalogListResponse, error) {
	columns, ok := displayColumns[entity]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownEntity, entity)
	}
	def, err := uc.st.Schema(entity)
	if err != nil {
		return nil, err
	}
	page.DefaultPage()

	var filters []store.Filter
	if q != "" {
		filters = append(filters, store.Search{Term: q})
	}
	for _, lf := range listFilters {
		f, ok := def.Field(lf.Field)
		if !ok || f.Kind != schema.Reference {
			return nil, &domain.ValidationError{Entity: entity, Field: lf.Field, Reason: "no es un filtro de lista válido"}
		}
		filters = append(filters, store.Match{Field: lf.Field, Value: lf.ID})
	}

	recs, total := paginate(uc.st.QueryAll(entity, filters...), page)
	rows := make([]dto.CatalogRow, 0, len(recs))
	for _, rec := range recs {
		row := dto.CatalogRow{ID: rec.ID, Values: make([]string, 0, len(columns))}
		for _, col := range columns {
			row.Values = append(row.Values, uc.renderColumn(def, rec, col))
		}
		rows = append(rows, row)
	}
	return &dto.CatalogListResponse{
		Entity:  entity,
		Columns: columns,
		Rows:    rows,
		Page:    dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}, nil
}

// renderColumn lleva un valor a su forma de presentación. Las referencias se
// muestran como el nombre del registro destino, igual que su String().
func (uc *CatalogUseCase) renderColumn(def *schema.Entity, rec store.Record, col string) string {
	f, ok := def.Field(col)
	if !ok {
		return ""
	}
	v := rec.Get(col)
	if v == nil {
		return ""
	}
	if f.Kind == schema.Reference {
		target, err := uc.st.Get(f.Target, v.(int64))
		if err != nil {
			return ""
		}
		return target.String()
	}
	return schema.DisplayValue(v)
}
