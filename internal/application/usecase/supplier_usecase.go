package usecase

import (
	"github.com/jhoicas/catalogo-inventario/internal/application/dto"
	"github.com/jhoicas/catalogo-inventario/internal/domain"
	"github.com/jhoicas/catalogo-inventario/internal/store"
)

// SupplierUseCase casos de uso CRUD para proveedores. Solo existe a partir de
// la versión 3 del esquema; antes, el store responde entidad desconocida.
type SupplierUseCase struct {
	st *store.Store
}

// NewSupplierUseCase construye el caso de uso.
func NewSupplierUseCase(st *store.Store) *SupplierUseCase {
	return &SupplierUseCase{st: st}
}

// Create crea un proveedor nuevo. El formato del email lo valida el store.
func (uc *SupplierUseCase) Create(in dto.CreateSupplierRequest) (*dto.SupplierResponse, error) {
	if err := checkInput(domain.EntitySupplier, in); err != nil {
		return nil, err
	}
	rec, err := uc.st.Create(domain.EntitySupplier, map[string]any{
		domain.FieldName:         in.Name,
		domain.FieldContactEmail: in.ContactEmail,
		domain.FieldPhone:        in.Phone,
	})
	if err != nil {
		return nil, err
	}
	return toSupplierResponse(rec), nil
}

// GetByID obtiene un proveedor por id.
func (uc *SupplierUseCase) GetByID(id int64) (*dto.SupplierResponse, error) {
	rec, err := uc.st.Get(domain.EntitySupplier, id)
	if err != nil {
		return nil, err
	}
	return toSupplierResponse(rec), nil
}

// Update actualiza los campos enviados.
func (uc *SupplierUseCase) Update(id int64, in dto.UpdateSupplierRequest) (*dto.SupplierResponse, error) {
	if err := checkInput(domain.EntitySupplier, in); err != nil {
		return nil, err
	}
	fields := map[string]any{}
	if in.Name != nil {
		fields[domain.FieldName] = *in.Name
	}
	if in.ContactEmail != nil {
		fields[domain.FieldContactEmail] = *in.ContactEmail
	}
	if in.Phone != nil {
		fields[domain.FieldPhone] = *in.Phone
	}
	rec, err := uc.st.Update(domain.EntitySupplier, id, fields)
	if err != nil {
		return nil, err
	}
	return toSupplierResponse(rec), nil
}

// Delete borra el proveedor; los productos dependientes quedan sin proveedor
// (detach), nunca se borran.
func (uc *SupplierUseCase) Delete(id int64) error {
	return uc.st.Delete(domain.EntitySupplier, id)
}

// List lista proveedores con búsqueda por texto sobre name y contact_email.
func (uc *SupplierUseCase) List(q string, page dto.PageRequest) (*dto.SupplierListResponse, error) {
	page.DefaultPage()
	var filters []store.Filter
	if q != "" {
		filters = append(filters, store.Search{Term: q})
	}
	recs, total := paginate(uc.st.QueryAll(domain.EntitySupplier, filters...), page)
	items := make([]dto.SupplierResponse, 0, len(recs))
	for _, rec := range recs {
		items = append(items, *toSupplierResponse(rec))
	}
	return &dto.SupplierListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}, nil
}

func toSupplierResponse(rec store.Record) *dto.SupplierResponse {
	return &dto.SupplierResponse{
		ID:           rec.ID,
		Name:         getString(rec, domain.FieldName),
		ContactEmail: getString(rec, domain.FieldContactEmail),
		Phone:        getString(rec, domain.FieldPhone),
	}
}
