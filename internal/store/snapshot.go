package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jhoicas/catalogo-inventario/internal/domain/schema"
)

// Snapshot es la representación serializable del estado completo del store:
// versión del esquema, definiciones de entidad, registros, contadores de id y
// journal de migraciones. Es el único formato persistido; los valores se
// codifican como texto estable por campo (schema.EncodeValue).
type Snapshot struct {
	Version  int                         `json:"version"`
	Entities []*schema.Entity            `json:"entities"`
	NextID   map[string]int64            `json:"next_id"`
	Records  map[string][]RecordSnapshot `json:"records"`
	Journal  []AppliedMigration          `json:"journal,omitempty"`
}

// RecordSnapshot un registro serializado; los campos sin valor se omiten.
type RecordSnapshot struct {
	ID     int64             `json:"id"`
	Fields map[string]string `json:"fields"`
}

// Snapshot captura el estado actual bajo el read-lock.
func (s *Store) Snapshot() (*Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := &Snapshot{
		Version:  s.version,
		Entities: s.schema.Entities(),
		NextID:   make(map[string]int64, len(s.nextID)),
		Records:  make(map[string][]RecordSnapshot, len(s.records)),
		Journal:  append([]AppliedMigration(nil), s.journal...),
	}
	for name, n := range s.nextID {
		snap.NextID[name] = n
	}
	for _, name := range s.schema.EntityNames() {
		def, _ := s.schema.Entity(name)
		rows := make([]RecordSnapshot, 0, len(s.records[name]))
		for _, id := range s.sortedIDs(name) {
			rec := s.records[name][id]
			row := RecordSnapshot{ID: id, Fields: make(map[string]string, len(rec.Fields))}
			for _, f := range def.Fields {
				v, ok := rec.Fields[f.Name]
				if !ok || v == nil {
					continue
				}
				enc, err := schema.EncodeValue(f, v)
				if err != nil {
					return nil, fmt.Errorf("serializar %s id=%d campo %s: %w", name, id, f.Name, err)
				}
				row.Fields[f.Name] = enc
			}
			rows = append(rows, row)
		}
		snap.Records[name] = rows
	}
	return snap, nil
}

// Restore reconstruye un store desde un snapshot.
func Restore(snap *Snapshot, opts ...Option) (*Store, error) {
	sch, err := schema.Restore(snap.Entities)
	if err != nil {
		return nil, err
	}
	s := New(opts...)
	s.schema = sch
	s.version = snap.Version
	s.journal = append([]AppliedMigration(nil), snap.Journal...)
	for name, n := range snap.NextID {
		s.nextID[name] = n
	}
	for name, rows := range snap.Records {
		def, ok := sch.Entity(name)
		if !ok {
			return nil, fmt.Errorf("snapshot inconsistente: registros de entidad desconocida %q", name)
		}
		s.records[name] = make(map[int64]Record, len(rows))
		for _, row := range rows {
			rec := Record{ID: row.ID, Fields: make(map[string]any, len(row.Fields))}
			for fname, enc := range row.Fields {
				f, ok := def.Field(fname)
				if !ok {
					return nil, fmt.Errorf("snapshot inconsistente: campo %s.%s no definido", name, fname)
				}
				v, err := schema.DecodeValue(f, enc)
				if err != nil {
					return nil, fmt.Errorf("deserializar %s id=%d campo %s: %w", name, row.ID, fname, err)
				}
				rec.Fields[fname] = v
			}
			if rec.ID > s.nextID[name] {
				// Defensa ante snapshots con contador atrasado: jamás reutilizar ids.
				s.nextID[name] = rec.ID
			}
			s.records[name][rec.ID] = rec
		}
	}
	// Entidades sin registros en el snapshot igual necesitan su mapa.
	for _, name := range sch.EntityNames() {
		if s.records[name] == nil {
			s.records[name] = make(map[int64]Record)
		}
	}
	return s, nil
}

// Save escribe el snapshot como JSON en path (escritura atómica vía rename).
func (s *Store) Save(path string) error {
	snap, err := s.Snapshot()
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("serializar snapshot: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("crear directorio de snapshot: %w", err)
	}
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("escribir snapshot: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("publicar snapshot: %w", err)
	}
	s.log.Info().Str("path", path).Int("version", snap.Version).Msg("snapshot guardado")
	return nil
}

// Load lee un snapshot desde path. Si el archivo no existe devuelve un store
// vacío en versión 0 (primera corrida).
func Load(path string, opts ...Option) (*Store, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return New(opts...), nil
	}
	if err != nil {
		return nil, fmt.Errorf("leer snapshot: %w", err)
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parsear snapshot: %w", err)
	}
	return Restore(&snap, opts...)
}
