package migration

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/catalogo-inventario/internal/domain"
	"github.com/jhoicas/catalogo-inventario/internal/store"
)

// Step un paso versionado de la cadena. Es válido aplicarlo solo cuando el
// store está exactamente en Version-1, y revertirlo solo desde Version.
type Step struct {
	Version    int
	Name       string
	Operations []Operation
}

// PrecedingVersion la versión desde la que el paso puede aplicarse.
func (s *Step) PrecedingVersion() int { return s.Version - 1 }

// Status estado de la cadena frente a un store dado.
type Status struct {
	CurrentVersion    int   `json:"current_version"`
	PendingVersions   []int `json:"pending_versions"`
	TotalSteps        int   `json:"total_steps"`
	HasPendingChanges bool  `json:"has_pending_changes"`
}

// Chain cadena lineal de pasos: versiones contiguas 1..N, cada paso con
// exactamente un predecesor y un sucesor. Sin ramas ni merges.
type Chain struct {
	steps []*Step
	log   zerolog.Logger
}

// ChainOption configura la cadena.
type ChainOption func(*Chain)

// WithLogger inyecta el logger estructurado (por defecto, Nop).
func WithLogger(log zerolog.Logger) ChainOption {
	return func(c *Chain) { c.log = log }
}

// NewChain construye la cadena validando que los pasos formen la secuencia
// contigua 1..N.
func NewChain(steps []*Step, opts ...ChainOption) (*Chain, error) {
	for i, s := range steps {
		if s.Version != i+1 {
			return nil, fmt.Errorf("cadena no lineal: el paso %q tiene versión %d, se esperaba %d", s.Name, s.Version, i+1)
		}
	}
	c := &Chain{steps: steps, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// MaxVersion la versión final de la cadena.
func (c *Chain) MaxVersion() int { return len(c.steps) }

// Steps los pasos en orden.
func (c *Chain) Steps() []*Step { return c.steps }

// Apply aplica el paso si y solo si el store está en su versión precedente.
// En éxito avanza la versión y registra la corrida en el journal con un uuid
// y los ids sembrados; ante secuencia inválida no toca nada. Si una operación
// falla a mitad del paso, las ya aplicadas se deshacen en orden inverso: el
// store vuelve a la versión precedente, sin cambios parciales.
func (c *Chain) Apply(st *store.Store, step *Step) error {
	if have := st.Version(); have != step.PrecedingVersion() {
		return &domain.MigrationSequenceError{Step: step.Name, Have: have, Want: step.PrecedingVersion()}
	}
	run := newRun()
	for i, op := range step.Operations {
		c.log.Debug().Int("version", step.Version).Str("step", step.Name).Str("op", op.Describe()).Msg("aplicando operación")
		if err := op.Apply(st, run); err != nil {
			for j := i - 1; j >= 0; j-- {
				prev := step.Operations[j]
				if rerr := prev.Revert(st, run); rerr != nil {
					c.log.Error().Str("step", step.Name).Str("op", prev.Describe()).Err(rerr).
						Msg("deshacer operación ya aplicada del paso fallido")
				}
			}
			return fmt.Errorf("aplicar %s (%s): %w", step.Name, op.Describe(), err)
		}
	}
	entry := store.AppliedMigration{
		ID:        uuid.NewString(),
		Version:   step.Version,
		Name:      step.Name,
		AppliedAt: time.Now().UTC(),
	}
	if len(run.Seeded) > 0 {
		entry.Seeded = run.Seeded
	}
	st.CommitStep(entry)
	c.log.Info().Int("version", step.Version).Str("step", step.Name).Msg("migración aplicada")
	return nil
}

// Revert revierte el paso si y solo si el store está exactamente en su
// versión. Las operaciones se deshacen en orden inverso; las siembras se
// borran por los ids registrados en el journal al aplicar.
func (c *Chain) Revert(st *store.Store, step *Step) error {
	if have := st.Version(); have != step.Version {
		return &domain.MigrationSequenceError{Step: step.Name, Have: have, Want: step.Version}
	}
	journal := st.Journal()
	if len(journal) == 0 || journal[len(journal)-1].Version != step.Version {
		return fmt.Errorf("%w: el journal no registra el paso %q como último aplicado", domain.ErrMigrationSequence, step.Name)
	}
	run := newRun()
	for entity, ids := range journal[len(journal)-1].Seeded {
		run.Seeded[entity] = append([]int64(nil), ids...)
	}
	for i := len(step.Operations) - 1; i >= 0; i-- {
		op := step.Operations[i]
		c.log.Debug().Int("version", step.Version).Str("step", step.Name).Str("op", op.Describe()).Msg("revirtiendo operación")
		if err := op.Revert(st, run); err != nil {
			return fmt.Errorf("revertir %s (%s): %w", step.Name, op.Describe(), err)
		}
	}
	if _, err := st.RollbackStep(); err != nil {
		return err
	}
	c.log.Info().Int("version", step.Version).Str("step", step.Name).Msg("migración revertida")
	return nil
}

// MigrateTo lleva el store a la versión objetivo aplicando o revirtiendo
// pasos en secuencia estricta. Objetivos fuera de [0, MaxVersion] fallan con
// error de secuencia sin tocar el store.
func (c *Chain) MigrateTo(st *store.Store, target int) error {
	if target < 0 || target > c.MaxVersion() {
		return fmt.Errorf("%w: versión objetivo %d fuera de rango [0, %d]", domain.ErrMigrationSequence, target, c.MaxVersion())
	}
	if v := st.Version(); v > c.MaxVersion() {
		return fmt.Errorf("%w: el store está en versión %d, por encima del máximo %d de la cadena", domain.ErrMigrationSequence, v, c.MaxVersion())
	}
	for st.Version() < target {
		if err := c.Apply(st, c.steps[st.Version()]); err != nil {
			return err
		}
	}
	for st.Version() > target {
		if err := c.Revert(st, c.steps[st.Version()-1]); err != nil {
			return err
		}
	}
	return nil
}

// Up aplica todos los pasos pendientes hasta la versión final.
func (c *Chain) Up(st *store.Store) error {
	return c.MigrateTo(st, c.MaxVersion())
}

// Down revierte exactamente un paso.
func (c *Chain) Down(st *store.Store) error {
	v := st.Version()
	if v == 0 {
		return fmt.Errorf("%w: el esquema ya está en la versión 0", domain.ErrMigrationSequence)
	}
	return c.Revert(st, c.steps[v-1])
}

// Status resume el estado de la cadena frente al store.
func (c *Chain) Status(st *store.Store) Status {
	v := st.Version()
	var pending []int
	for _, s := range c.steps {
		if s.Version > v {
			pending = append(pending, s.Version)
		}
	}
	return Status{
		CurrentVersion:    v,
		PendingVersions:   pending,
		TotalSteps:        len(c.steps),
		HasPendingChanges: len(pending) > 0,
	}
}
