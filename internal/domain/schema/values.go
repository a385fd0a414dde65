package schema

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/catalogo-inventario/internal/domain"
)

// Límites del tipo Decimal del catálogo: montos monetarios exactos.
const (
	decimalMaxDigits = 10
	decimalMaxPlaces = 2
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Normalize valida un valor contra la definición del campo y lo lleva a su
// tipo canónico en memoria: string (Text/LongText/Email), decimal.Decimal,
// int64 (NonNegativeInt y Reference), time.Time (Timestamp). nil representa
// "sin valor" y solo es válido en campos no requeridos.
//
// Los Timestamp nunca se aceptan del caller: los asigna el store al crear y
// son inmutables después.
func Normalize(entity string, f Field, v any) (any, error) {
	if v == nil {
		if f.Required {
			return nil, &domain.ValidationError{Entity: entity, Field: f.Name, Reason: "campo requerido"}
		}
		return nil, nil
	}

	switch f.Kind {
	case Text, LongText:
		s, ok := v.(string)
		if !ok {
			return nil, kindError(entity, f, "se esperaba texto")
		}
		if f.Required && s == "" {
			return nil, &domain.ValidationError{Entity: entity, Field: f.Name, Reason: "campo requerido"}
		}
		if f.MaxLen > 0 && len(s) > f.MaxLen {
			return nil, &domain.ValidationError{Entity: entity, Field: f.Name,
				Reason: fmt.Sprintf("excede el máximo de %d caracteres", f.MaxLen)}
		}
		return s, nil

	case Email:
		s, ok := v.(string)
		if !ok {
			return nil, kindError(entity, f, "se esperaba texto")
		}
		if err := validate.Var(s, "required,email"); err != nil {
			return nil, &domain.ValidationError{Entity: entity, Field: f.Name, Reason: "formato de email inválido"}
		}
		return s, nil

	case Decimal:
		d, err := toDecimal(v)
		if err != nil {
			return nil, kindError(entity, f, "se esperaba un decimal")
		}
		if err := checkDecimalBounds(d); err != nil {
			return nil, &domain.ValidationError{Entity: entity, Field: f.Name, Reason: err.Error()}
		}
		return d, nil

	case NonNegativeInt:
		n, err := toInt64(v)
		if err != nil {
			return nil, kindError(entity, f, "se esperaba un entero")
		}
		if n < 0 {
			return nil, &domain.ValidationError{Entity: entity, Field: f.Name, Reason: "no puede ser negativo"}
		}
		return n, nil

	case Timestamp:
		return nil, &domain.ValidationError{Entity: entity, Field: f.Name,
			Reason: "lo asigna el store al crear; no puede suministrarse ni modificarse"}

	case Reference:
		n, err := toInt64(v)
		if err != nil {
			return nil, kindError(entity, f, "se esperaba el id del registro referenciado")
		}
		return n, nil
	}
	return nil, kindError(entity, f, fmt.Sprintf("tipo de campo desconocido %q", f.Kind))
}

func kindError(entity string, f Field, reason string) error {
	return &domain.ValidationError{Entity: entity, Field: f.Name, Reason: reason}
}

func toDecimal(v any) (decimal.Decimal, error) {
	switch x := v.(type) {
	case decimal.Decimal:
		return x, nil
	case string:
		return decimal.NewFromString(x)
	case int:
		return decimal.NewFromInt(int64(x)), nil
	case int64:
		return decimal.NewFromInt(x), nil
	}
	return decimal.Decimal{}, fmt.Errorf("tipo %T no convertible a decimal", v)
}

func toInt64(v any) (int64, error) {
	switch x := v.(type) {
	case int64:
		return x, nil
	case int:
		return int64(x), nil
	case float64:
		// Los cuerpos JSON llegan como float64; solo se acepta si es entero exacto.
		n := int64(x)
		if float64(n) != x {
			return 0, fmt.Errorf("%v no es un entero", x)
		}
		return n, nil
	}
	return 0, fmt.Errorf("tipo %T no convertible a entero", v)
}

// checkDecimalBounds impone 10 dígitos totales / 2 decimales, exactos.
// Nunca se redondea: un valor con más precisión de la declarada se rechaza.
func checkDecimalBounds(d decimal.Decimal) error {
	if !d.Equal(d.Truncate(decimalMaxPlaces)) {
		return fmt.Errorf("más de %d decimales", decimalMaxPlaces)
	}
	intPart := d.Abs().Truncate(0).String()
	digits := len(intPart)
	if intPart == "0" {
		digits = 0
	}
	if digits > decimalMaxDigits-decimalMaxPlaces {
		return fmt.Errorf("más de %d dígitos enteros", decimalMaxDigits-decimalMaxPlaces)
	}
	return nil
}

// EncodeValue serializa un valor canónico a su forma de texto estable para
// snapshots. nil no se serializa (el caller omite la clave).
func EncodeValue(f Field, v any) (string, error) {
	switch f.Kind {
	case Text, LongText, Email:
		s, ok := v.(string)
		if !ok {
			return "", fmt.Errorf("valor %T no es texto", v)
		}
		return s, nil
	case Decimal:
		d, ok := v.(decimal.Decimal)
		if !ok {
			return "", fmt.Errorf("valor %T no es decimal", v)
		}
		return d.String(), nil
	case NonNegativeInt, Reference:
		n, ok := v.(int64)
		if !ok {
			return "", fmt.Errorf("valor %T no es entero", v)
		}
		return strconv.FormatInt(n, 10), nil
	case Timestamp:
		t, ok := v.(time.Time)
		if !ok {
			return "", fmt.Errorf("valor %T no es timestamp", v)
		}
		return t.UTC().Format(time.RFC3339Nano), nil
	}
	return "", fmt.Errorf("tipo de campo desconocido %q", f.Kind)
}

// DecodeValue deshace EncodeValue.
func DecodeValue(f Field, s string) (any, error) {
	switch f.Kind {
	case Text, LongText, Email:
		return s, nil
	case Decimal:
		return decimal.NewFromString(s)
	case NonNegativeInt, Reference:
		return strconv.ParseInt(s, 10, 64)
	case Timestamp:
		return time.Parse(time.RFC3339Nano, s)
	}
	return nil, fmt.Errorf("tipo de campo desconocido %q", f.Kind)
}

// DisplayValue lleva un valor canónico a su forma de presentación en el
// catálogo administrativo (las referencias se resuelven en la capa de vista).
func DisplayValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case decimal.Decimal:
		return x.StringFixed(decimalMaxPlaces)
	case int64:
		return strconv.FormatInt(x, 10)
	case time.Time:
		return x.UTC().Format(time.RFC3339)
	}
	return strings.TrimSpace(fmt.Sprintf("%v", v))
}
