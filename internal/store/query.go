package store

import (
	"iter"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/catalogo-inventario/internal/domain/schema"
)

// Filter criterio de selección para Query.
type Filter interface {
	matches(def *schema.Entity, rec Record) bool
}

// Match filtro de igualdad exacta sobre un campo (típicamente una referencia:
// el valor es el id del registro destino).
type Match struct {
	Field string
	Value any
}

func (m Match) matches(def *schema.Entity, rec Record) bool {
	return equalValue(rec.Fields[m.Field], m.Value)
}

// Search filtro de caja de búsqueda: subcadena, sin distinguir mayúsculas,
// sobre los campos marcados Searchable de la entidad.
type Search struct {
	Term string
}

func (q Search) matches(def *schema.Entity, rec Record) bool {
	if q.Term == "" {
		return true
	}
	term := strings.ToLower(q.Term)
	for _, f := range def.SearchableFields() {
		if s, ok := rec.Fields[f.Name].(string); ok {
			if strings.Contains(strings.ToLower(s), term) {
				return true
			}
		}
	}
	return false
}

// Query devuelve una secuencia perezosa de los registros que cumplen todos
// los filtros, en orden de creación. La secuencia es finita y reiniciable:
// cada range re-evalúa contra el estado vigente del store, no contra un
// snapshot tomado al construirla.
func (s *Store) Query(entity string, filters ...Filter) iter.Seq[Record] {
	return func(yield func(Record) bool) {
		for _, rec := range s.snapshotMatching(entity, filters) {
			if !yield(rec) {
				return
			}
		}
	}
}

// QueryAll materializa la secuencia en un slice (atajo para los usecases).
func (s *Store) QueryAll(entity string, filters ...Filter) []Record {
	return s.snapshotMatching(entity, filters)
}

// Count cantidad de registros que cumplen los filtros.
func (s *Store) Count(entity string, filters ...Filter) int {
	return len(s.snapshotMatching(entity, filters))
}

// snapshotMatching evalúa los filtros bajo el read-lock, de modo que ningún
// lector observe un borrado sin su detach. Las iteraciones posteriores del
// mismo Seq vuelven a entrar aquí.
func (s *Store) snapshotMatching(entity string, filters []Filter) []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	def, ok := s.schema.Entity(entity)
	if !ok {
		return nil
	}
	var out []Record
	for _, id := range s.sortedIDs(entity) {
		rec := s.records[entity][id]
		keep := true
		for _, f := range filters {
			if !f.matches(def, rec) {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, rec.clone())
		}
	}
	return out
}

// equalValue compara valores canónicos con la semántica de su tipo: decimales
// por valor exacto (1.5 == 1.50), enteros entre anchos distintos, el resto
// por igualdad estricta.
func equalValue(a, b any) bool {
	if da, ok := a.(decimal.Decimal); ok {
		if db, ok := toComparableDecimal(b); ok {
			return da.Equal(db)
		}
		return false
	}
	if na, ok := a.(int64); ok {
		switch nb := b.(type) {
		case int64:
			return na == nb
		case int:
			return na == int64(nb)
		}
		return false
	}
	return a == b
}

func toComparableDecimal(v any) (decimal.Decimal, bool) {
	switch x := v.(type) {
	case decimal.Decimal:
		return x, true
	case string:
		d, err := decimal.NewFromString(x)
		return d, err == nil
	case int:
		return decimal.NewFromInt(int64(x)), true
	case int64:
		return decimal.NewFromInt(x), true
	}
	return decimal.Decimal{}, false
}
