package store_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/catalogo-inventario/internal/domain"
	"github.com/jhoicas/catalogo-inventario/internal/domain/schema"
	"github.com/jhoicas/catalogo-inventario/internal/store"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers: un esquema mínimo categoría/producto construido a mano, sin pasar
// por la cadena de migraciones (eso se prueba aparte).
// ──────────────────────────────────────────────────────────────────────────────

func buildTestStore(t *testing.T) *store.Store {
	t.Helper()
	st := store.New()
	require.NoError(t, st.AddEntity(&schema.Entity{
		Name: "category",
		Fields: []schema.Field{
			{Name: "name", Kind: schema.Text, Required: true, MaxLen: 100, Searchable: true},
			{Name: "description", Kind: schema.LongText},
		},
	}))
	zero := "0"
	require.NoError(t, st.AddEntity(&schema.Entity{
		Name: "product",
		Fields: []schema.Field{
			{Name: "name", Kind: schema.Text, Required: true, MaxLen: 200, Searchable: true},
			{Name: "price", Kind: schema.Decimal, Required: true},
			{Name: "stock_count", Kind: schema.NonNegativeInt, Default: &zero},
			{Name: "category", Kind: schema.Reference, Target: "category", OnDelete: schema.Detach},
			{Name: "created_at", Kind: schema.Timestamp},
		},
	}))
	return st
}

func createCategory(t *testing.T, st *store.Store, name string) store.Record {
	t.Helper()
	rec, err := st.Create("category", map[string]any{"name": name})
	require.NoError(t, err)
	return rec
}

func createProduct(t *testing.T, st *store.Store, name, price string, extra map[string]any) store.Record {
	t.Helper()
	fields := map[string]any{"name": name, "price": decimal.RequireFromString(price)}
	for k, v := range extra {
		fields[k] = v
	}
	rec, err := st.Create("product", fields)
	require.NoError(t, err)
	return rec
}

// ──────────────────────────────────────────────────────────────────────────────
// Create
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_AsignaIdYCreatedAt(t *testing.T) {
	st := buildTestStore(t)

	before := time.Now().UTC()
	rec := createProduct(t, st, "Laptop", "999.99", nil)

	assert.Equal(t, int64(1), rec.ID)
	created, ok := rec.Get("created_at").(time.Time)
	require.True(t, ok, "created_at debe asignarse al crear")
	assert.False(t, created.Before(before), "created_at no puede ser anterior a la creación")
}

func TestCreate_StockCountDefaultCero(t *testing.T) {
	st := buildTestStore(t)

	rec := createProduct(t, st, "Mouse", "19.99", nil)
	assert.Equal(t, int64(0), rec.Get("stock_count"), "stock_count sin enviar debe quedar en 0")
}

func TestCreate_RechazaCreatedAtDelCaller(t *testing.T) {
	st := buildTestStore(t)

	_, err := st.Create("product", map[string]any{
		"name":       "Laptop",
		"price":      decimal.RequireFromString("999.99"),
		"created_at": time.Now(),
	})
	assert.ErrorIs(t, err, domain.ErrValidation, "created_at lo asigna el store, no el caller")
}

func TestCreate_Validaciones(t *testing.T) {
	st := buildTestStore(t)
	cat := createCategory(t, st, "Electronics")

	cases := []struct {
		name   string
		fields map[string]any
	}{
		{"nombre requerido", map[string]any{"price": decimal.RequireFromString("1.00")}},
		{"precio requerido", map[string]any{"name": "X"}},
		{"stock negativo", map[string]any{"name": "X", "price": decimal.RequireFromString("1.00"), "stock_count": int64(-1)}},
		{"precio con más de 2 decimales", map[string]any{"name": "X", "price": decimal.RequireFromString("1.999")}},
		{"precio con más de 10 dígitos", map[string]any{"name": "X", "price": decimal.RequireFromString("123456789.99")}},
		{"referencia inexistente", map[string]any{"name": "X", "price": decimal.RequireFromString("1.00"), "category": cat.ID + 99}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := st.Create("product", tc.fields)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}

	// El límite exacto sí es válido: 8 dígitos enteros + 2 decimales.
	_, err := st.Create("product", map[string]any{"name": "X", "price": decimal.RequireFromString("99999999.99")})
	assert.NoError(t, err)
}

func TestCreate_CampoDesconocido(t *testing.T) {
	st := buildTestStore(t)
	_, err := st.Create("category", map[string]any{"name": "X", "color": "rojo"})
	assert.ErrorIs(t, err, domain.ErrUnknownField)
}

func TestCreate_EntidadDesconocida(t *testing.T) {
	st := buildTestStore(t)
	_, err := st.Create("warehouse", map[string]any{"name": "X"})
	assert.ErrorIs(t, err, domain.ErrUnknownEntity)
}

// ──────────────────────────────────────────────────────────────────────────────
// String: la forma de presentación de todo registro es su nombre.
// ──────────────────────────────────────────────────────────────────────────────

func TestSchema_DevuelveCopiaIndependiente(t *testing.T) {
	st := buildTestStore(t)

	def, err := st.Schema("product")
	require.NoError(t, err)
	def.Fields = append(def.Fields, schema.Field{Name: "intruso", Kind: schema.Text})
	def.Fields[0].Required = false

	again, err := st.Schema("product")
	require.NoError(t, err)
	_, ok := again.Field("intruso")
	assert.False(t, ok, "mutar la copia no alcanza al esquema vigente")
	name, ok := again.Field("name")
	require.True(t, ok)
	assert.True(t, name.Required)
}

func TestString_DevuelveElNombre(t *testing.T) {
	st := buildTestStore(t)

	cat := createCategory(t, st, "Electronics")
	assert.Equal(t, "Electronics", cat.String())

	prod := createProduct(t, st, "Laptop", "999.99", nil)
	assert.Equal(t, "Laptop", prod.String())
}

// ──────────────────────────────────────────────────────────────────────────────
// Update
// ──────────────────────────────────────────────────────────────────────────────

func TestUpdate_CreatedAtInmutable(t *testing.T) {
	st := buildTestStore(t)
	rec := createProduct(t, st, "Laptop", "999.99", nil)

	_, err := st.Update("product", rec.ID, map[string]any{"created_at": time.Now()})
	assert.ErrorIs(t, err, domain.ErrValidation)

	got, err := st.Get("product", rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.Get("created_at"), got.Get("created_at"), "created_at no debe cambiar jamás")
}

func TestUpdate_CreatedAtEnNilNoLimpiaElCampo(t *testing.T) {
	st := buildTestStore(t)
	rec := createProduct(t, st, "Laptop", "999.99", nil)

	// nil limpia campos opcionales; en created_at también es mutación y se
	// rechaza igual que un valor explícito.
	_, err := st.Update("product", rec.ID, map[string]any{"created_at": nil})
	assert.ErrorIs(t, err, domain.ErrValidation)

	got, err := st.Get("product", rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.Get("created_at"), got.Get("created_at"), "created_at sigue presente e intacto")
}

func TestUpdate_InvalidoNoTocaElRegistro(t *testing.T) {
	st := buildTestStore(t)
	rec := createProduct(t, st, "Laptop", "999.99", nil)

	_, err := st.Update("product", rec.ID, map[string]any{
		"name":        "Portátil",
		"stock_count": int64(-5),
	})
	require.ErrorIs(t, err, domain.ErrValidation)

	got, err := st.Get("product", rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "Laptop", got.String(), "una actualización rechazada no aplica ningún campo")
}

func TestUpdate_LimpiaReferenciaConNil(t *testing.T) {
	st := buildTestStore(t)
	cat := createCategory(t, st, "Electronics")
	rec := createProduct(t, st, "Laptop", "999.99", map[string]any{"category": cat.ID})

	got, err := st.Update("product", rec.ID, map[string]any{"category": nil})
	require.NoError(t, err)
	assert.Nil(t, got.Get("category"))
}

func TestUpdate_NoExistente(t *testing.T) {
	st := buildTestStore(t)
	_, err := st.Update("product", 42, map[string]any{"name": "X"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Delete: detach, nunca cascada.
// ──────────────────────────────────────────────────────────────────────────────

func TestDelete_DetachEnTodosLosDependientes(t *testing.T) {
	st := buildTestStore(t)
	cat := createCategory(t, st, "Electronics")
	other := createCategory(t, st, "Furniture")

	p1 := createProduct(t, st, "Laptop", "999.99", map[string]any{"category": cat.ID})
	p2 := createProduct(t, st, "Smartphone", "499.99", map[string]any{"category": cat.ID})
	p3 := createProduct(t, st, "Desk", "299.00", map[string]any{"category": other.ID})

	require.NoError(t, st.Delete("category", cat.ID))

	// Los productos sobreviven, con la referencia limpia.
	for _, id := range []int64{p1.ID, p2.ID} {
		got, err := st.Get("product", id)
		require.NoError(t, err)
		assert.Nil(t, got.Get("category"), "la referencia debe quedar limpia tras el detach")
	}
	// El producto de otra categoría no se toca.
	got, err := st.Get("product", p3.ID)
	require.NoError(t, err)
	assert.Equal(t, other.ID, got.Get("category"))

	_, err = st.Get("category", cat.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDelete_NoExistente(t *testing.T) {
	st := buildTestStore(t)
	assert.ErrorIs(t, st.Delete("category", 7), domain.ErrNotFound)
}

func TestDelete_IdsNoSeReutilizan(t *testing.T) {
	st := buildTestStore(t)

	a := createCategory(t, st, "A")
	require.NoError(t, st.Delete("category", a.ID))

	b := createCategory(t, st, "B")
	assert.Greater(t, b.ID, a.ID, "un id borrado jamás se reasigna")
}
