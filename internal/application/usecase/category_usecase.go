package usecase

import (
	"github.com/jhoicas/catalogo-inventario/internal/application/dto"
	"github.com/jhoicas/catalogo-inventario/internal/domain"
	"github.com/jhoicas/catalogo-inventario/internal/store"
)

// CategoryUseCase casos de uso CRUD para categorías.
type CategoryUseCase struct {
	st *store.Store
}

// NewCategoryUseCase construye el caso de uso.
func NewCategoryUseCase(st *store.Store) *CategoryUseCase {
	return &CategoryUseCase{st: st}
}

// Create crea una categoría nueva.
func (uc *CategoryUseCase) Create(in dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	if err := checkInput(domain.EntityCategory, in); err != nil {
		return nil, err
	}
	rec, err := uc.st.Create(domain.EntityCategory, map[string]any{
		domain.FieldName:        in.Name,
		domain.FieldDescription: in.Description,
	})
	if err != nil {
		return nil, err
	}
	return toCategoryResponse(rec), nil
}

// GetByID obtiene una categoría por id.
func (uc *CategoryUseCase) GetByID(id int64) (*dto.CategoryResponse, error) {
	rec, err := uc.st.Get(domain.EntityCategory, id)
	if err != nil {
		return nil, err
	}
	return toCategoryResponse(rec), nil
}

// Update actualiza los campos enviados.
func (uc *CategoryUseCase) Update(id int64, in dto.UpdateCategoryRequest) (*dto.CategoryResponse, error) {
	if err := checkInput(domain.EntityCategory, in); err != nil {
		return nil, err
	}
	fields := map[string]any{}
	if in.Name != nil {
		fields[domain.FieldName] = *in.Name
	}
	if in.Description != nil {
		fields[domain.FieldDescription] = *in.Description
	}
	rec, err := uc.st.Update(domain.EntityCategory, id, fields)
	if err != nil {
		return nil, err
	}
	return toCategoryResponse(rec), nil
}

// Delete borra la categoría. Los productos que la referencian sobreviven con
// la referencia limpia (detach), dentro de la misma operación atómica.
func (uc *CategoryUseCase) Delete(id int64) error {
	return uc.st.Delete(domain.EntityCategory, id)
}

// List lista categorías con búsqueda por texto sobre name.
func (uc *CategoryUseCase) List(q string, page dto.PageRequest) (*dto.CategoryListResponse, error) {
	page.DefaultPage()
	var filters []store.Filter
	if q != "" {
		filters = append(filters, store.Search{Term: q})
	}
	recs, total := paginate(uc.st.QueryAll(domain.EntityCategory, filters...), page)
	items := make([]dto.CategoryResponse, 0, len(recs))
	for _, rec := range recs {
		items = append(items, *toCategoryResponse(rec))
	}
	return &dto.CategoryListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}, nil
}

func toCategoryResponse(rec store.Record) *dto.CategoryResponse {
	return &dto.CategoryResponse{
		ID:          rec.ID,
		Name:        getString(rec, domain.FieldName),
		Description: getString(rec, domain.FieldDescription),
	}
}
