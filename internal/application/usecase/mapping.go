// Package usecase implementa los casos de uso del catálogo sobre el record
// store: CRUD por entidad y la proyección de listado administrativo. Toda
// invariante de datos la impone el store; aquí solo se traduce entre DTOs y
// registros.
package usecase

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/catalogo-inventario/internal/application/dto"
	"github.com/jhoicas/catalogo-inventario/internal/domain"
	"github.com/jhoicas/catalogo-inventario/internal/store"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// checkInput valida las etiquetas del DTO antes de tocar el store.
func checkInput(entity string, in any) error {
	if err := validate.Struct(in); err != nil {
		return &domain.ValidationError{Entity: entity, Field: "body", Reason: err.Error()}
	}
	return nil
}

// paginate corta el slice de registros según la página pedida y devuelve el
// total previo al corte.
func paginate(recs []store.Record, p dto.PageRequest) ([]store.Record, int) {
	total := len(recs)
	if p.Offset >= total {
		return nil, total
	}
	end := p.Offset + p.Limit
	if end > total {
		end = total
	}
	return recs[p.Offset:end], total
}

func getString(rec store.Record, field string) string {
	s, _ := rec.Get(field).(string)
	return s
}

func getInt64(rec store.Record, field string) int64 {
	n, _ := rec.Get(field).(int64)
	return n
}

func getDecimal(rec store.Record, field string) decimal.Decimal {
	d, _ := rec.Get(field).(decimal.Decimal)
	return d
}

func getTime(rec store.Record, field string) time.Time {
	t, _ := rec.Get(field).(time.Time)
	return t
}

func getRef(rec store.Record, field string) *int64 {
	if n, ok := rec.Get(field).(int64); ok {
		return &n
	}
	return nil
}
