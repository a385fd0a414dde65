package store

import (
	"fmt"

	"github.com/jhoicas/catalogo-inventario/internal/domain/schema"
)

// Operaciones estructurales del esquema. Solo la cadena de migraciones debe
// invocarlas; alterar el esquema por fuera de la cadena es comportamiento
// indefinido. Se asume que las migraciones corren en exclusiva (sin
// mutaciones concurrentes de registros), pero igual toman el write-lock para
// que ningún lector observe un esquema a medio cambiar.

// AddEntity crea un tipo de entidad nuevo, sin registros y con el contador de
// ids en cero.
func (s *Store) AddEntity(def *schema.Entity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.schema.AddEntity(def); err != nil {
		return err
	}
	s.records[def.Name] = make(map[int64]Record)
	s.nextID[def.Name] = 0
	s.log.Info().Str("entity", def.Name).Msg("entidad creada")
	return nil
}

// DropEntity elimina el tipo de entidad con todos sus registros y su contador
// de ids. Falla si otra entidad aún lo referencia (primero debe eliminarse el
// campo de referencia).
func (s *Store) DropEntity(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.schema.DropEntity(name); err != nil {
		return err
	}
	delete(s.records, name)
	delete(s.nextID, name)
	s.log.Info().Str("entity", name).Msg("entidad eliminada")
	return nil
}

// AddField añade el campo a la entidad y hace backfill del default declarado
// en todos los registros existentes. Sin default, los registros quedan con el
// campo sin poblar (válido solo si el campo no es requerido).
func (s *Store) AddField(entity string, f schema.Field) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if f.Required && f.Default == nil && len(s.records[entity]) > 0 {
		return fmt.Errorf("campo requerido %s.%s sin default: backfill imposible", entity, f.Name)
	}
	if err := s.schema.AddField(entity, f); err != nil {
		return err
	}
	if f.Default != nil {
		dv, err := schema.DecodeValue(f, *f.Default)
		if err != nil {
			// El esquema ya cambió: revertirlo para no dejar un cambio parcial.
			_ = s.schema.DropField(entity, f.Name)
			return fmt.Errorf("default de %s.%s: %w", entity, f.Name, err)
		}
		for id, rec := range s.records[entity] {
			c := rec.clone()
			c.Fields[f.Name] = dv
			s.records[entity][id] = c
		}
	}
	s.log.Info().Str("entity", entity).Str("field", f.Name).Int("backfilled", len(s.records[entity])).Msg("campo añadido")
	return nil
}

// DropField elimina el campo de la entidad y su valor de todos los registros.
func (s *Store) DropField(entity, field string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.schema.DropField(entity, field); err != nil {
		return err
	}
	for id, rec := range s.records[entity] {
		if _, ok := rec.Fields[field]; !ok {
			continue
		}
		c := rec.clone()
		delete(c.Fields, field)
		s.records[entity][id] = c
	}
	s.log.Info().Str("entity", entity).Str("field", field).Msg("campo eliminado")
	return nil
}

// CommitStep registra un paso aplicado en el journal y avanza la versión.
func (s *Store) CommitStep(entry AppliedMigration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.journal = append(s.journal, entry)
	s.version = entry.Version
}

// RollbackStep saca del journal el último paso aplicado y regresa la versión.
func (s *Store) RollbackStep() (AppliedMigration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.journal) == 0 {
		return AppliedMigration{}, fmt.Errorf("journal vacío: no hay paso que revertir")
	}
	last := s.journal[len(s.journal)-1]
	s.journal = s.journal[:len(s.journal)-1]
	s.version = last.Version - 1
	return last, nil
}
