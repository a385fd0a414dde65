package store_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/catalogo-inventario/internal/store"
)

func TestSnapshot_RoundTripPorArchivo(t *testing.T) {
	st := buildTestStore(t)
	cat := createCategory(t, st, "Electronics")
	prod := createProduct(t, st, "Laptop", "999.99", map[string]any{
		"category":    cat.ID,
		"stock_count": int64(50),
	})

	path := filepath.Join(t.TempDir(), "catalog.json")
	require.NoError(t, st.Save(path))

	loaded, err := store.Load(path)
	require.NoError(t, err)

	got, err := loaded.Get("product", prod.ID)
	require.NoError(t, err)
	assert.Equal(t, "Laptop", got.String())
	assert.True(t, decimal.RequireFromString("999.99").Equal(got.Get("price").(decimal.Decimal)),
		"el precio debe sobrevivir el round-trip como decimal exacto")
	assert.Equal(t, int64(50), got.Get("stock_count"))
	assert.Equal(t, cat.ID, got.Get("category"))
	wantCreated := prod.Get("created_at").(time.Time)
	assert.True(t, wantCreated.Equal(got.Get("created_at").(time.Time)),
		"created_at debe sobrevivir el round-trip con su precisión completa")

	// Los contadores de id sobreviven: no se reutilizan ids tras recargar.
	next := createCategory(t, loaded, "Furniture")
	assert.Greater(t, next.ID, cat.ID)
}

func TestSnapshot_ArchivoInexistenteDaStoreVacio(t *testing.T) {
	st, err := store.Load(filepath.Join(t.TempDir(), "no-existe.json"))
	require.NoError(t, err)
	assert.Zero(t, st.Version(), "sin snapshot previo el store arranca en versión 0")
	assert.Empty(t, st.EntityNames())
}

func TestSnapshot_PreservaVersionYJournal(t *testing.T) {
	st := buildTestStore(t)
	st.CommitStep(store.AppliedMigration{ID: "x", Version: 1, Name: "0001_initial"})

	path := filepath.Join(t.TempDir(), "catalog.json")
	require.NoError(t, st.Save(path))

	loaded, err := store.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1, loaded.Version())
	journal := loaded.Journal()
	require.Len(t, journal, 1)
	assert.Equal(t, "0001_initial", journal[0].Name)
}
