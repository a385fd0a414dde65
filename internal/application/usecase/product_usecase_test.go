package usecase_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/catalogo-inventario/internal/application/dto"
	"github.com/jhoicas/catalogo-inventario/internal/application/usecase"
	"github.com/jhoicas/catalogo-inventario/internal/domain"
	"github.com/jhoicas/catalogo-inventario/internal/migrations"
	"github.com/jhoicas/catalogo-inventario/internal/store"
)

// seededStore devuelve un store migrado a la última versión, con los datos
// de la siembra.
func seededStore(t *testing.T) *store.Store {
	t.Helper()
	chain, err := migrations.Chain()
	require.NoError(t, err)
	st := store.New()
	require.NoError(t, chain.Up(st))
	return st
}

func ptr[T any](v T) *T { return &v }

func TestProductCreate(t *testing.T) {
	st := seededStore(t)
	uc := usecase.NewProductUseCase(st)

	got, err := uc.Create(dto.CreateProductRequest{
		Name:       "Monitor",
		Price:      decimal.RequireFromString("219.90"),
		CategoryID: ptr(int64(1)),
	})
	require.NoError(t, err)
	assert.Equal(t, "Monitor", got.Name)
	assert.True(t, decimal.RequireFromString("219.90").Equal(got.Price))
	assert.Equal(t, int64(0), got.StockCount, "sin stock enviado aplica el default del esquema")
	require.NotNil(t, got.CategoryID)
	assert.Equal(t, int64(1), *got.CategoryID)
	assert.Nil(t, got.SupplierID)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestProductCreate_Invalido(t *testing.T) {
	st := seededStore(t)
	uc := usecase.NewProductUseCase(st)

	cases := []struct {
		nombre string
		in     dto.CreateProductRequest
	}{
		{"sin nombre", dto.CreateProductRequest{Price: decimal.RequireFromString("1.00")}},
		{"stock negativo", dto.CreateProductRequest{
			Name: "X", Price: decimal.RequireFromString("1.00"), StockCount: ptr(int64(-1)),
		}},
		{"precio con tres decimales", dto.CreateProductRequest{
			Name: "X", Price: decimal.RequireFromString("1.999"),
		}},
		{"categoría inexistente", dto.CreateProductRequest{
			Name: "X", Price: decimal.RequireFromString("1.00"), CategoryID: ptr(int64(999)),
		}},
	}
	for _, tc := range cases {
		t.Run(tc.nombre, func(t *testing.T) {
			_, err := uc.Create(tc.in)
			assert.Error(t, err)
		})
	}
}

func TestProductUpdate_LimpiarReferencia(t *testing.T) {
	st := seededStore(t)
	uc := usecase.NewProductUseCase(st)

	// El producto sembrado 1 (Laptop) tiene categoría y proveedor poblados.
	got, err := uc.Update(1, dto.UpdateProductRequest{ClearSupplier: true})
	require.NoError(t, err)
	assert.Nil(t, got.SupplierID)
	assert.NotNil(t, got.CategoryID, "limpiar supplier no toca category")
	assert.Equal(t, "Laptop", got.Name)
}

func TestProductUpdate_NoEncontrado(t *testing.T) {
	st := seededStore(t)
	uc := usecase.NewProductUseCase(st)

	_, err := uc.Update(999, dto.UpdateProductRequest{Name: ptr("Nada")})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProductList_FiltrosYBusqueda(t *testing.T) {
	st := seededStore(t)
	uc := usecase.NewProductUseCase(st)

	// Búsqueda parcial insensible a mayúsculas.
	got, err := uc.List(usecase.ProductFilters{Search: "LAP"}, dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "Laptop", got.Items[0].Name)

	// Filtro por categoría: Furniture (id 2) tiene Office Chair y Desk.
	got, err = uc.List(usecase.ProductFilters{CategoryID: ptr(int64(2))}, dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, got.Items, 2)
	assert.Equal(t, "Office Chair", got.Items[0].Name)
	assert.Equal(t, "Desk", got.Items[1].Name)

	// Búsqueda y filtro combinados: "desk" dentro de Furniture.
	got, err = uc.List(usecase.ProductFilters{Search: "desk", CategoryID: ptr(int64(2))}, dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "Desk", got.Items[0].Name)
}

func TestProductList_Paginacion(t *testing.T) {
	st := seededStore(t)
	uc := usecase.NewProductUseCase(st)

	got, err := uc.List(usecase.ProductFilters{}, dto.PageRequest{Limit: 2, Offset: 2})
	require.NoError(t, err)
	require.Len(t, got.Items, 2)
	assert.Equal(t, 4, got.Page.Total)
	assert.Equal(t, "Office Chair", got.Items[0].Name)

	// Offset más allá del total: página vacía, total intacto.
	got, err = uc.List(usecase.ProductFilters{}, dto.PageRequest{Offset: 10})
	require.NoError(t, err)
	assert.Empty(t, got.Items)
	assert.Equal(t, 4, got.Page.Total)
}

func TestCategoryDelete_DespoblaReferencias(t *testing.T) {
	st := seededStore(t)
	catUC := usecase.NewCategoryUseCase(st)
	prodUC := usecase.NewProductUseCase(st)

	// Electronics (id 1) tiene Laptop y Smartphone asociados.
	require.NoError(t, catUC.Delete(1))

	got, err := prodUC.GetByID(1)
	require.NoError(t, err)
	assert.Nil(t, got.CategoryID, "borrar la categoría despobla la referencia del producto")
	assert.NotNil(t, got.SupplierID, "las demás referencias no se tocan")

	_, err = catUC.GetByID(1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSupplierCRUD(t *testing.T) {
	st := seededStore(t)
	uc := usecase.NewSupplierUseCase(st)

	created, err := uc.Create(dto.CreateSupplierRequest{
		Name:         "Acme Corp",
		ContactEmail: "ventas@acme.example",
		Phone:        "555-0300",
	})
	require.NoError(t, err)

	got, err := uc.GetByID(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp", got.Name)
	assert.Equal(t, "ventas@acme.example", got.ContactEmail)

	_, err = uc.Create(dto.CreateSupplierRequest{Name: "Mal", ContactEmail: "sin-arroba"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	list, err := uc.List("acme", dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, created.ID, list.Items[0].ID)

	require.NoError(t, uc.Delete(created.ID))
	_, err = uc.GetByID(created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
