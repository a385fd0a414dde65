package usecase_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/catalogo-inventario/internal/application/dto"
	"github.com/jhoicas/catalogo-inventario/internal/application/usecase"
	"github.com/jhoicas/catalogo-inventario/internal/domain"
)

func TestCatalogList_ColumnasDeProducto(t *testing.T) {
	st := seededStore(t)
	uc := usecase.NewCatalogUseCase(st)

	got, err := uc.List(domain.EntityProduct, "", nil, dto.PageRequest{})
	require.NoError(t, err)

	assert.Equal(t, []string{"name", "price", "stock_count", "category", "supplier", "created_at"}, got.Columns)
	require.Len(t, got.Rows, 4)

	laptop := got.Rows[0]
	assert.Equal(t, int64(1), laptop.ID)
	require.Len(t, laptop.Values, len(got.Columns))
	assert.Equal(t, "Laptop", laptop.Values[0])
	assert.Equal(t, "999.99", laptop.Values[1], "el precio se presenta con sus dos decimales exactos")
	assert.Equal(t, "50", laptop.Values[2])
	assert.Equal(t, "Electronics", laptop.Values[3], "la referencia se resuelve al nombre del destino")
	assert.Equal(t, "TechCorp", laptop.Values[4])
	assert.NotEmpty(t, laptop.Values[5])
}

func TestCatalogList_ReferenciaSinPoblarSeMuestraVacia(t *testing.T) {
	st := seededStore(t)
	require.NoError(t, st.Delete(domain.EntitySupplier, 1))
	uc := usecase.NewCatalogUseCase(st)

	got, err := uc.List(domain.EntityProduct, "lap", nil, dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, got.Rows, 1)
	assert.Equal(t, "", got.Rows[0].Values[4], "tras el detach la celda del proveedor queda vacía")
}

func TestCatalogList_FiltroDiscreto(t *testing.T) {
	st := seededStore(t)
	uc := usecase.NewCatalogUseCase(st)

	got, err := uc.List(domain.EntityProduct, "",
		[]usecase.ListFilter{{Field: domain.FieldSupplier, ID: 2}}, dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, got.Rows, 2)
	assert.Equal(t, "Office Chair", got.Rows[0].Values[0])
	assert.Equal(t, "Desk", got.Rows[1].Values[0])
}

func TestCatalogList_FiltroInvalido(t *testing.T) {
	st := seededStore(t)
	uc := usecase.NewCatalogUseCase(st)

	// Solo los campos de referencia sirven de filtro discreto.
	_, err := uc.List(domain.EntityProduct, "",
		[]usecase.ListFilter{{Field: domain.FieldName, ID: 1}}, dto.PageRequest{})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCatalogList_EntidadDesconocida(t *testing.T) {
	st := seededStore(t)
	uc := usecase.NewCatalogUseCase(st)

	_, err := uc.List("warehouse", "", nil, dto.PageRequest{})
	assert.ErrorIs(t, err, domain.ErrUnknownEntity)
}

func TestCatalogList_Proveedores(t *testing.T) {
	st := seededStore(t)
	uc := usecase.NewCatalogUseCase(st)

	got, err := uc.List(domain.EntitySupplier, "wood", nil, dto.PageRequest{})
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "contact_email", "phone"}, got.Columns)
	require.Len(t, got.Rows, 1)
	assert.Equal(t, []string{"WoodWorks", "hello@woodworks.com", "555-0200"}, got.Rows[0].Values)
}
