package usecase

import (
	"github.com/jhoicas/catalogo-inventario/internal/application/dto"
	"github.com/jhoicas/catalogo-inventario/internal/domain"
	"github.com/jhoicas/catalogo-inventario/internal/store"
)

// ProductUseCase casos de uso CRUD para productos. El store asigna created_at
// al crear y lo mantiene inmutable; stock_count sin enviar toma el default 0
// del esquema.
type ProductUseCase struct {
	st *store.Store
}

// ProductFilters filtros discretos del listado de productos.
type ProductFilters struct {
	Search     string
	CategoryID *int64
	SupplierID *int64
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(st *store.Store) *ProductUseCase {
	return &ProductUseCase{st: st}
}

// Create crea un producto nuevo.
func (uc *ProductUseCase) Create(in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if err := checkInput(domain.EntityProduct, in); err != nil {
		return nil, err
	}
	fields := map[string]any{
		domain.FieldName:  in.Name,
		domain.FieldPrice: in.Price,
	}
	if in.StockCount != nil {
		fields[domain.FieldStockCount] = *in.StockCount
	}
	if in.CategoryID != nil {
		fields[domain.FieldCategory] = *in.CategoryID
	}
	if in.SupplierID != nil {
		fields[domain.FieldSupplier] = *in.SupplierID
	}
	rec, err := uc.st.Create(domain.EntityProduct, fields)
	if err != nil {
		return nil, err
	}
	return toProductResponse(rec), nil
}

// GetByID obtiene un producto por id.
func (uc *ProductUseCase) GetByID(id int64) (*dto.ProductResponse, error) {
	rec, err := uc.st.Get(domain.EntityProduct, id)
	if err != nil {
		return nil, err
	}
	return toProductResponse(rec), nil
}

// Update actualiza los campos enviados. ClearCategory/ClearSupplier limpian
// la referencia correspondiente.
func (uc *ProductUseCase) Update(id int64, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	if err := checkInput(domain.EntityProduct, in); err != nil {
		return nil, err
	}
	fields := map[string]any{}
	if in.Name != nil {
		fields[domain.FieldName] = *in.Name
	}
	if in.Price != nil {
		fields[domain.FieldPrice] = *in.Price
	}
	if in.StockCount != nil {
		fields[domain.FieldStockCount] = *in.StockCount
	}
	if in.CategoryID != nil {
		fields[domain.FieldCategory] = *in.CategoryID
	} else if in.ClearCategory {
		fields[domain.FieldCategory] = nil
	}
	if in.SupplierID != nil {
		fields[domain.FieldSupplier] = *in.SupplierID
	} else if in.ClearSupplier {
		fields[domain.FieldSupplier] = nil
	}
	rec, err := uc.st.Update(domain.EntityProduct, id, fields)
	if err != nil {
		return nil, err
	}
	return toProductResponse(rec), nil
}

// Delete borra el producto.
func (uc *ProductUseCase) Delete(id int64) error {
	return uc.st.Delete(domain.EntityProduct, id)
}

// List lista productos con búsqueda por texto sobre name y filtros exactos
// por categoría y proveedor.
func (uc *ProductUseCase) List(f ProductFilters, page dto.PageRequest) (*dto.ProductListResponse, error) {
	page.DefaultPage()
	var filters []store.Filter
	if f.Search != "" {
		filters = append(filters, store.Search{Term: f.Search})
	}
	if f.CategoryID != nil {
		filters = append(filters, store.Match{Field: domain.FieldCategory, Value: *f.CategoryID})
	}
	if f.SupplierID != nil {
		filters = append(filters, store.Match{Field: domain.FieldSupplier, Value: *f.SupplierID})
	}
	recs, total := paginate(uc.st.QueryAll(domain.EntityProduct, filters...), page)
	items := make([]dto.ProductResponse, 0, len(recs))
	for _, rec := range recs {
		items = append(items, *toProductResponse(rec))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}, nil
}

func toProductResponse(rec store.Record) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:         rec.ID,
		Name:       getString(rec, domain.FieldName),
		Price:      getDecimal(rec, domain.FieldPrice),
		StockCount: getInt64(rec, domain.FieldStockCount),
		CategoryID: getRef(rec, domain.FieldCategory),
		SupplierID: getRef(rec, domain.FieldSupplier),
		CreatedAt:  getTime(rec, domain.FieldCreatedAt),
	}
}
