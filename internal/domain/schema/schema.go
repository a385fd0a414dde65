// Package schema modela el esquema del catálogo como datos, no como structs:
// la cadena de migraciones crea y elimina entidades y campos en tiempo de
// ejecución, así que las definiciones deben poder mutar con ella.
package schema

import (
	"fmt"
	"sort"
)

// Kind tipo lógico de un campo.
type Kind string

const (
	Text           Kind = "text"            // texto corto
	LongText       Kind = "long_text"       // texto largo, opcional por convención
	Email          Kind = "email"           // texto con formato de email válido
	Decimal        Kind = "decimal"         // decimal exacto, 10 dígitos / 2 decimales
	NonNegativeInt Kind = "nonnegative_int" // entero >= 0
	Timestamp      Kind = "timestamp"       // asignado por el store al crear; inmutable
	Reference      Kind = "reference"       // referencia nullable a otra entidad
)

// OnDelete política de integridad referencial al borrar el registro destino.
type OnDelete string

const (
	// Detach limpia la referencia en los registros dependientes; nunca los
	// borra ni bloquea el borrado del destino.
	Detach OnDelete = "detach"
)

// Field definición de un campo de una entidad.
type Field struct {
	Name       string   `json:"name"`
	Kind       Kind     `json:"kind"`
	Required   bool     `json:"required,omitempty"`
	MaxLen     int      `json:"max_len,omitempty"` // 0 = sin límite
	Searchable bool     `json:"searchable,omitempty"`
	Default    *string  `json:"default,omitempty"`   // codificado con EncodeValue; aplica al crear y al backfill
	Target     string   `json:"target,omitempty"`    // entidad destino (solo Reference)
	OnDelete   OnDelete `json:"on_delete,omitempty"` // política al borrar el destino (solo Reference)
}

// Entity definición de un tipo de registro: nombre y campos ordenados.
// El campo "name" es la forma de presentación de todo registro del catálogo.
type Entity struct {
	Name   string  `json:"name"`
	Fields []Field `json:"fields"`
}

// Field busca un campo por nombre.
func (e *Entity) Field(name string) (Field, bool) {
	for _, f := range e.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// SearchableFields devuelve los campos marcados para búsqueda por texto.
func (e *Entity) SearchableFields() []Field {
	var out []Field
	for _, f := range e.Fields {
		if f.Searchable {
			out = append(out, f)
		}
	}
	return out
}

// References devuelve los campos de tipo Reference de la entidad.
func (e *Entity) References() []Field {
	var out []Field
	for _, f := range e.Fields {
		if f.Kind == Reference {
			out = append(out, f)
		}
	}
	return out
}

// Clone devuelve una copia independiente de la definición; mutarla nunca
// alcanza al esquema vigente.
func (e *Entity) Clone() *Entity {
	c := &Entity{Name: e.Name, Fields: make([]Field, len(e.Fields))}
	copy(c.Fields, e.Fields)
	return c
}

// Schema conjunto de definiciones de entidad vigentes en una versión dada.
type Schema struct {
	entities map[string]*Entity
}

// New crea un esquema vacío (versión 0 de la cadena).
func New() *Schema {
	return &Schema{entities: make(map[string]*Entity)}
}

// Entity devuelve la definición de una entidad, o false si no existe.
func (s *Schema) Entity(name string) (*Entity, bool) {
	e, ok := s.entities[name]
	return e, ok
}

// Has indica si la entidad existe en el esquema actual.
func (s *Schema) Has(name string) bool {
	_, ok := s.entities[name]
	return ok
}

// EntityNames devuelve los nombres de entidad en orden estable.
func (s *Schema) EntityNames() []string {
	names := make([]string, 0, len(s.entities))
	for n := range s.entities {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// AddEntity registra una entidad nueva.
func (s *Schema) AddEntity(e *Entity) error {
	if _, ok := s.entities[e.Name]; ok {
		return fmt.Errorf("entidad %q ya existe en el esquema", e.Name)
	}
	for _, f := range e.Fields {
		if err := s.checkField(e.Name, f); err != nil {
			return err
		}
	}
	s.entities[e.Name] = e.Clone()
	return nil
}

// DropEntity elimina una entidad. Falla si otra entidad aún la referencia.
func (s *Schema) DropEntity(name string) error {
	if _, ok := s.entities[name]; !ok {
		return fmt.Errorf("entidad %q no existe en el esquema", name)
	}
	for _, other := range s.entities {
		if other.Name == name {
			continue
		}
		for _, f := range other.References() {
			if f.Target == name {
				return fmt.Errorf("entidad %q aún referenciada por %s.%s", name, other.Name, f.Name)
			}
		}
	}
	delete(s.entities, name)
	return nil
}

// AddField añade un campo a una entidad existente.
func (s *Schema) AddField(entity string, f Field) error {
	e, ok := s.entities[entity]
	if !ok {
		return fmt.Errorf("entidad %q no existe en el esquema", entity)
	}
	if _, ok := e.Field(f.Name); ok {
		return fmt.Errorf("campo %s.%s ya existe", entity, f.Name)
	}
	if err := s.checkField(entity, f); err != nil {
		return err
	}
	e.Fields = append(e.Fields, f)
	return nil
}

// DropField elimina un campo de una entidad existente.
func (s *Schema) DropField(entity, field string) error {
	e, ok := s.entities[entity]
	if !ok {
		return fmt.Errorf("entidad %q no existe en el esquema", entity)
	}
	for i, f := range e.Fields {
		if f.Name == field {
			e.Fields = append(e.Fields[:i], e.Fields[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("campo %s.%s no existe", entity, field)
}

// checkField valida la consistencia estructural de un campo nuevo.
// Las referencias solo pueden apuntar a entidades ya presentes (o a la propia
// entidad en creación) y siempre son nullable con política Detach.
func (s *Schema) checkField(entity string, f Field) error {
	if f.Kind != Reference {
		return nil
	}
	if f.Target == "" {
		return fmt.Errorf("referencia %s.%s sin entidad destino", entity, f.Name)
	}
	if f.Target != entity && !s.Has(f.Target) {
		return fmt.Errorf("referencia %s.%s apunta a entidad inexistente %q", entity, f.Name, f.Target)
	}
	if f.Required {
		return fmt.Errorf("referencia %s.%s debe ser nullable", entity, f.Name)
	}
	if f.OnDelete != Detach {
		return fmt.Errorf("referencia %s.%s requiere política detach", entity, f.Name)
	}
	return nil
}

// Entities devuelve las definiciones en orden estable de nombre (para
// serializar snapshots de forma determinista).
func (s *Schema) Entities() []*Entity {
	out := make([]*Entity, 0, len(s.entities))
	for _, n := range s.EntityNames() {
		out = append(out, s.entities[n].Clone())
	}
	return out
}

// Restore reconstruye un esquema desde definiciones serializadas.
func Restore(entities []*Entity) (*Schema, error) {
	s := New()
	for _, e := range entities {
		s.entities[e.Name] = e.Clone()
	}
	// Verificación diferida: al restaurar, las referencias cruzadas pueden
	// llegar en cualquier orden, así que se validan al final.
	for _, e := range s.entities {
		for _, f := range e.References() {
			if !s.Has(f.Target) {
				return nil, fmt.Errorf("snapshot inconsistente: %s.%s referencia entidad %q", e.Name, f.Name, f.Target)
			}
		}
	}
	return s, nil
}
