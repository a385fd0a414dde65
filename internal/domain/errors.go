package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas). Los handlers y CLIs los
// traducen a códigos HTTP / exit codes; el resto del código usa errors.Is/As.
var (
	ErrValidation        = errors.New("entrada inválida")
	ErrNotFound          = errors.New("registro no encontrado")
	ErrMigrationSequence = errors.New("secuencia de migración inválida")
	ErrUnknownEntity     = errors.New("tipo de entidad desconocido")
	ErrUnknownField      = errors.New("campo desconocido")
)

// ValidationError describe qué campo de qué entidad violó su restricción.
// Envuelve ErrValidation para que errors.Is(err, ErrValidation) funcione.
type ValidationError struct {
	Entity string
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validación: %s.%s: %s", e.Entity, e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NotFoundError identifica el registro inexistente referenciado.
type NotFoundError struct {
	Entity string
	ID     int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s id=%d no encontrado", e.Entity, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// MigrationSequenceError señala un paso aplicado/revertido contra la versión
// equivocada del esquema. Have es la versión actual del store; Want la que el
// paso exige. Es fatal para la corrida de migración: la versión no cambia.
type MigrationSequenceError struct {
	Step string
	Have int
	Want int
}

func (e *MigrationSequenceError) Error() string {
	return fmt.Sprintf("migración %s: esquema en versión %d, se requiere %d", e.Step, e.Have, e.Want)
}

func (e *MigrationSequenceError) Unwrap() error { return ErrMigrationSequence }
