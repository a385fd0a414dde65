// Package migration modela la evolución del esquema como una cadena lineal de
// pasos versionados, cada uno reversible. Un paso agrupa operaciones
// estructurales tipadas; aplicar y revertir son inversos exactos por tipo de
// operación, no lógica ad hoc.
package migration

import (
	"fmt"

	"github.com/jhoicas/catalogo-inventario/internal/domain/schema"
	"github.com/jhoicas/catalogo-inventario/internal/store"
)

// Run estado de una corrida de un paso. En apply acumula los ids creados por
// las siembras; en revert se reconstruye desde el journal, de modo que la
// reversión borra exactamente los registros que el paso creó (por identidad,
// nunca por coincidencia de valores).
type Run struct {
	Seeded map[string][]int64 // entidad -> ids, en orden de creación
}

func newRun() *Run {
	return &Run{Seeded: make(map[string][]int64)}
}

// Operation una operación estructural con su inversa exacta.
type Operation interface {
	Apply(st *store.Store, run *Run) error
	Revert(st *store.Store, run *Run) error
	// Describe forma corta para logs y el comando status.
	Describe() string
}

// CreateEntity crea un tipo de entidad; su reversa lo elimina con todos sus
// registros.
type CreateEntity struct {
	Entity *schema.Entity
}

func (op CreateEntity) Apply(st *store.Store, _ *Run) error {
	return st.AddEntity(op.Entity)
}

func (op CreateEntity) Revert(st *store.Store, _ *Run) error {
	return st.DropEntity(op.Entity.Name)
}

func (op CreateEntity) Describe() string {
	return fmt.Sprintf("crear entidad %s", op.Entity.Name)
}

// AddField añade un campo con backfill del default declarado; su reversa lo
// elimina junto con sus valores.
type AddField struct {
	Entity string
	Field  schema.Field
}

func (op AddField) Apply(st *store.Store, _ *Run) error {
	return st.AddField(op.Entity, op.Field)
}

func (op AddField) Revert(st *store.Store, _ *Run) error {
	return st.DropField(op.Entity, op.Field.Name)
}

func (op AddField) Describe() string {
	return fmt.Sprintf("añadir campo %s.%s", op.Entity, op.Field.Name)
}

// AddReference añade un campo de referencia nullable con política
// detach-on-delete; su reversa lo elimina.
type AddReference struct {
	Entity string
	Field  string
	Target string
}

func (op AddReference) Apply(st *store.Store, _ *Run) error {
	return st.AddField(op.Entity, schema.Field{
		Name:     op.Field,
		Kind:     schema.Reference,
		Target:   op.Target,
		OnDelete: schema.Detach,
	})
}

func (op AddReference) Revert(st *store.Store, _ *Run) error {
	return st.DropField(op.Entity, op.Field)
}

func (op AddReference) Describe() string {
	return fmt.Sprintf("añadir referencia %s.%s -> %s", op.Entity, op.Field, op.Target)
}

// SeedRow una fila a sembrar. Refs enlaza campos de referencia a filas
// sembradas antes en el mismo paso, por su clave declarativa.
type SeedRow struct {
	Entity string
	Key    string // clave local al paso, solo para resolver Refs
	Fields map[string]any
	Refs   map[string]string // campo -> Key de una fila anterior
}

// SeedRecords siembra filas con valores literales. En apply registra en el
// journal los ids creados; su reversa borra exactamente esos ids y nada más,
// de modo que registros ajenos con los mismos valores sobreviven.
type SeedRecords struct {
	Rows []SeedRow
}

func (op SeedRecords) Apply(st *store.Store, run *Run) error {
	byKey := make(map[string]int64, len(op.Rows))
	for _, row := range op.Rows {
		fields := make(map[string]any, len(row.Fields)+len(row.Refs))
		for k, v := range row.Fields {
			fields[k] = v
		}
		for field, key := range row.Refs {
			id, ok := byKey[key]
			if !ok {
				return fmt.Errorf("siembra: la fila %q referencia la clave desconocida %q", row.Key, key)
			}
			fields[field] = id
		}
		rec, err := st.Create(row.Entity, fields)
		if err != nil {
			return fmt.Errorf("siembra de %s %q: %w", row.Entity, row.Key, err)
		}
		if row.Key != "" {
			byKey[row.Key] = rec.ID
		}
		run.Seeded[row.Entity] = append(run.Seeded[row.Entity], rec.ID)
	}
	return nil
}

func (op SeedRecords) Revert(st *store.Store, run *Run) error {
	// En orden inverso de siembra; el detach hace el orden tolerante, pero
	// así la reversión es el espejo exacto del apply.
	for i := len(op.Rows) - 1; i >= 0; i-- {
		entity := op.Rows[i].Entity
		ids := run.Seeded[entity]
		if len(ids) == 0 {
			continue
		}
		id := ids[len(ids)-1]
		run.Seeded[entity] = ids[:len(ids)-1]
		if err := st.Delete(entity, id); err != nil {
			return fmt.Errorf("revertir siembra de %s id=%d: %w", entity, id, err)
		}
	}
	return nil
}

func (op SeedRecords) Describe() string {
	return fmt.Sprintf("sembrar %d registros", len(op.Rows))
}

// FieldDefault codifica un default tipado en la definición del campo, para
// que el store lo aplique tanto en el backfill como en creaciones futuras.
func FieldDefault(f schema.Field, v any) schema.Field {
	enc, err := schema.EncodeValue(f, v)
	if err != nil {
		panic(fmt.Sprintf("default inválido para %s: %v", f.Name, err))
	}
	f.Default = &enc
	return f
}
