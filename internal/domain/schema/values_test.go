package schema_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/catalogo-inventario/internal/domain"
	"github.com/jhoicas/catalogo-inventario/internal/domain/schema"
)

func TestNormalize_Decimal(t *testing.T) {
	f := schema.Field{Name: "price", Kind: schema.Decimal, Required: true}

	cases := []struct {
		nombre string
		in     any
		want   string
		ok     bool
	}{
		{"dos decimales", "999.99", "999.99", true},
		{"entero", 42, "42", true},
		{"máximo permitido", "99999999.99", "99999999.99", true},
		{"tres decimales", "1.999", "", false},
		{"nueve dígitos enteros", "100000000.00", "", false},
		{"texto no numérico", "abc", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.nombre, func(t *testing.T) {
			got, err := schema.Normalize("product", f, tc.in)
			if !tc.ok {
				assert.ErrorIs(t, err, domain.ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.True(t, decimal.RequireFromString(tc.want).Equal(got.(decimal.Decimal)))
		})
	}
}

func TestNormalize_TextoYEmail(t *testing.T) {
	name := schema.Field{Name: "name", Kind: schema.Text, Required: true, MaxLen: 5}
	email := schema.Field{Name: "contact_email", Kind: schema.Email, Required: true}

	_, err := schema.Normalize("supplier", name, "abcdef")
	assert.ErrorIs(t, err, domain.ErrValidation, "excede MaxLen")

	_, err = schema.Normalize("supplier", name, "")
	assert.ErrorIs(t, err, domain.ErrValidation, "requerido no admite cadena vacía")

	got, err := schema.Normalize("supplier", email, "a@b.co")
	require.NoError(t, err)
	assert.Equal(t, "a@b.co", got)

	_, err = schema.Normalize("supplier", email, "sin-arroba")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestNormalize_NilSoloEnOpcionales(t *testing.T) {
	opt := schema.Field{Name: "description", Kind: schema.LongText}
	req := schema.Field{Name: "name", Kind: schema.Text, Required: true}

	got, err := schema.Normalize("category", opt, nil)
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = schema.Normalize("category", req, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestNormalize_TimestampNuncaDelCaller(t *testing.T) {
	f := schema.Field{Name: "created_at", Kind: schema.Timestamp}
	_, err := schema.Normalize("product", f, time.Now())
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestNormalize_EnterosDesdeJSON(t *testing.T) {
	f := schema.Field{Name: "stock_count", Kind: schema.NonNegativeInt}

	got, err := schema.Normalize("product", f, float64(7))
	require.NoError(t, err)
	assert.Equal(t, int64(7), got)

	_, err = schema.Normalize("product", f, 7.5)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = schema.Normalize("product", f, -1)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestEncodeDecode_DecimalExacto(t *testing.T) {
	f := schema.Field{Name: "price", Kind: schema.Decimal}
	d := decimal.RequireFromString("149.50")

	s, err := schema.EncodeValue(f, d)
	require.NoError(t, err)
	assert.Equal(t, "149.5", s, "la forma de texto es la canónica de decimal")

	back, err := schema.DecodeValue(f, s)
	require.NoError(t, err)
	assert.True(t, d.Equal(back.(decimal.Decimal)), "el round-trip nunca pierde precisión")
}

func TestEncodeDecode_Timestamp(t *testing.T) {
	f := schema.Field{Name: "created_at", Kind: schema.Timestamp}
	now := time.Now().UTC()

	s, err := schema.EncodeValue(f, now)
	require.NoError(t, err)
	back, err := schema.DecodeValue(f, s)
	require.NoError(t, err)
	assert.True(t, now.Equal(back.(time.Time)))
}

func TestDisplayValue(t *testing.T) {
	assert.Equal(t, "299.00", schema.DisplayValue(decimal.RequireFromString("299")),
		"los montos siempre se muestran con dos decimales")
	assert.Equal(t, "50", schema.DisplayValue(int64(50)))
	assert.Equal(t, "", schema.DisplayValue(nil))
}
