// Package store implementa el almacén de registros del catálogo: un store en
// memoria dirigido por esquema, con integridad referencial detach-on-delete y
// persistencia por snapshot JSON. El esquema es mutable porque la cadena de
// migraciones lo reescribe en tiempo de ejecución.
package store

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/catalogo-inventario/internal/domain"
	"github.com/jhoicas/catalogo-inventario/internal/domain/schema"
)

// Record un registro persistido: id asignado por el store + valores canónicos
// por campo (nil/ausente = sin valor).
type Record struct {
	ID     int64
	Fields map[string]any
}

// Get devuelve el valor de un campo (nil si no está poblado).
func (r Record) Get(field string) any { return r.Fields[field] }

// String la forma de presentación de todo registro del catálogo es su nombre.
func (r Record) String() string {
	if s, ok := r.Fields["name"].(string); ok {
		return s
	}
	return fmt.Sprintf("#%d", r.ID)
}

func (r Record) clone() Record {
	c := Record{ID: r.ID, Fields: make(map[string]any, len(r.Fields))}
	for k, v := range r.Fields {
		c.Fields[k] = v
	}
	return c
}

// AppliedMigration entrada del journal de migraciones: qué paso se aplicó,
// cuándo, y qué registros sembró (para poder revertirlo por identidad exacta,
// nunca por coincidencia de valores).
type AppliedMigration struct {
	ID        string             `json:"id"` // uuid de la corrida
	Version   int                `json:"version"`
	Name      string             `json:"name"`
	AppliedAt time.Time          `json:"applied_at"`
	Seeded    map[string][]int64 `json:"seeded,omitempty"` // entidad -> ids creados por el paso
}

// Store almacén en memoria. Todas las operaciones se serializan en el mutex:
// un lector nunca observa un borrado sin su cascada de detach, ni un esquema
// a medio migrar.
type Store struct {
	mu      sync.RWMutex
	log     zerolog.Logger
	schema  *schema.Schema
	records map[string]map[int64]Record
	nextID  map[string]int64
	version int
	journal []AppliedMigration
}

// Option configura el Store al construirlo.
type Option func(*Store)

// WithLogger inyecta el logger estructurado (por defecto, Nop).
func WithLogger(log zerolog.Logger) Option {
	return func(s *Store) { s.log = log }
}

// New crea un store vacío en la versión 0 del esquema.
func New(opts ...Option) *Store {
	s := &Store{
		log:     zerolog.Nop(),
		schema:  schema.New(),
		records: make(map[string]map[int64]Record),
		nextID:  make(map[string]int64),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Version versión actual del esquema (número de pasos aplicados).
func (s *Store) Version() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Journal copia del journal de migraciones aplicadas, en orden de aplicación.
func (s *Store) Journal() []AppliedMigration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]AppliedMigration, len(s.journal))
	copy(out, s.journal)
	return out
}

// Schema devuelve la definición vigente de una entidad.
func (s *Store) Schema(entity string) (*schema.Entity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.schema.Entity(entity)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownEntity, entity)
	}
	return e.Clone(), nil
}

// EntityNames nombres de entidad del esquema vigente, en orden estable.
func (s *Store) EntityNames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.schema.EntityNames()
}

// Create valida los campos contra el esquema, asigna un id nuevo (monótono,
// jamás reutilizado) y el created_at si la entidad lo define, y persiste el
// registro. Devuelve el registro persistido.
func (s *Store) Create(entity string, fields map[string]any) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	def, ok := s.schema.Entity(entity)
	if !ok {
		return Record{}, fmt.Errorf("%w: %s", domain.ErrUnknownEntity, entity)
	}
	if err := s.checkKnownFields(def, fields); err != nil {
		return Record{}, err
	}

	rec := Record{Fields: make(map[string]any, len(def.Fields))}
	now := time.Now().UTC()
	for _, f := range def.Fields {
		v, supplied := fields[f.Name]
		switch {
		case f.Kind == schema.Timestamp:
			if supplied {
				// created_at lo asigna el store, exactamente una vez.
				return Record{}, &domain.ValidationError{Entity: entity, Field: f.Name,
					Reason: "lo asigna el store al crear; no puede suministrarse ni modificarse"}
			}
			rec.Fields[f.Name] = now
			continue
		case !supplied && f.Default != nil:
			dv, err := schema.DecodeValue(f, *f.Default)
			if err != nil {
				return Record{}, fmt.Errorf("default de %s.%s: %w", entity, f.Name, err)
			}
			rec.Fields[f.Name] = dv
			continue
		}
		nv, err := schema.Normalize(entity, f, v)
		if err != nil {
			return Record{}, err
		}
		if nv == nil {
			continue
		}
		if f.Kind == schema.Reference {
			if err := s.checkReference(entity, f, nv.(int64)); err != nil {
				return Record{}, err
			}
		}
		rec.Fields[f.Name] = nv
	}

	s.nextID[entity]++
	rec.ID = s.nextID[entity]
	s.records[entity][rec.ID] = rec
	s.log.Debug().Str("entity", entity).Int64("id", rec.ID).Msg("registro creado")
	return rec.clone(), nil
}

// Get devuelve el registro por id.
func (s *Store) Get(entity string, id int64) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	recs, ok := s.records[entity]
	if !ok {
		return Record{}, fmt.Errorf("%w: %s", domain.ErrUnknownEntity, entity)
	}
	rec, ok := recs[id]
	if !ok {
		return Record{}, &domain.NotFoundError{Entity: entity, ID: id}
	}
	return rec.clone(), nil
}

// Update aplica los campos suministrados sobre el registro, con la misma
// validación que Create. created_at es inmutable; un campo desconocido o un
// valor inválido rechazan la operación completa sin tocar el registro.
func (s *Store) Update(entity string, id int64, fields map[string]any) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	def, ok := s.schema.Entity(entity)
	if !ok {
		return Record{}, fmt.Errorf("%w: %s", domain.ErrUnknownEntity, entity)
	}
	rec, ok := s.records[entity][id]
	if !ok {
		return Record{}, &domain.NotFoundError{Entity: entity, ID: id}
	}
	if err := s.checkKnownFields(def, fields); err != nil {
		return Record{}, err
	}

	updated := rec.clone()
	for name, v := range fields {
		f, _ := def.Field(name)
		if f.Kind == schema.Timestamp {
			// Inmutable: también en nil, que de otro modo limpiaría el campo.
			return Record{}, &domain.ValidationError{Entity: entity, Field: name,
				Reason: "lo asigna el store al crear; no puede suministrarse ni modificarse"}
		}
		nv, err := schema.Normalize(entity, f, v)
		if err != nil {
			return Record{}, err
		}
		if nv == nil {
			delete(updated.Fields, name)
			continue
		}
		if f.Kind == schema.Reference {
			if err := s.checkReference(entity, f, nv.(int64)); err != nil {
				return Record{}, err
			}
		}
		updated.Fields[name] = nv
	}
	s.records[entity][id] = updated
	return updated.clone(), nil
}

// Delete elimina el registro y, en la misma sección crítica, limpia toda
// referencia entrante (detach): los dependientes sobreviven con la referencia
// en nil. Jamás borra en cascada.
func (s *Store) Delete(entity string, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deleteLocked(entity, id)
}

func (s *Store) deleteLocked(entity string, id int64) error {
	recs, ok := s.records[entity]
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrUnknownEntity, entity)
	}
	if _, ok := recs[id]; !ok {
		return &domain.NotFoundError{Entity: entity, ID: id}
	}
	delete(recs, id)

	detached := 0
	for _, name := range s.schema.EntityNames() {
		def, _ := s.schema.Entity(name)
		for _, ref := range def.References() {
			if ref.Target != entity {
				continue
			}
			for rid, rec := range s.records[name] {
				if v, ok := rec.Fields[ref.Name].(int64); ok && v == id {
					c := rec.clone()
					delete(c.Fields, ref.Name)
					s.records[name][rid] = c
					detached++
				}
			}
		}
	}
	s.log.Debug().Str("entity", entity).Int64("id", id).Int("detached", detached).Msg("registro borrado")
	return nil
}

// checkKnownFields rechaza campos que el esquema vigente no define.
func (s *Store) checkKnownFields(def *schema.Entity, fields map[string]any) error {
	for name := range fields {
		if _, ok := def.Field(name); !ok {
			return fmt.Errorf("%w: %s.%s", domain.ErrUnknownField, def.Name, name)
		}
	}
	return nil
}

// checkReference exige que el registro referenciado exista al momento de
// escribir la referencia.
func (s *Store) checkReference(entity string, f schema.Field, id int64) error {
	if _, ok := s.records[f.Target][id]; !ok {
		return &domain.ValidationError{Entity: entity, Field: f.Name,
			Reason: fmt.Sprintf("%s id=%d no existe", f.Target, id)}
	}
	return nil
}

// sortedIDs ids de la entidad en orden ascendente (orden de creación, ya que
// los ids son monótonos).
func (s *Store) sortedIDs(entity string) []int64 {
	ids := make([]int64, 0, len(s.records[entity]))
	for id := range s.records[entity] {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
