package statement

import (
	"errors"
	"fmt"

	"github.com/brunooviedo/estadodecuenta/internal/domain"
)

var (
	// ErrDivisionByZeroConfig is returned when a percentage of a zero available balance is requested.
	ErrDivisionByZeroConfig = errors.New("available balance is zero: percentage spent is undefined")
	// ErrInvalidDayOfMonth is returned for days outside 1..31.
	ErrInvalidDayOfMonth = errors.New("day of month must be between 1 and 31")
	// ErrNegativeBalance is returned when the available balance input is below zero.
	ErrNegativeBalance = errors.New("available balance must not be negative")
	// ErrInvalidConfig wraps pipeline parameter validation failures.
	ErrInvalidConfig = errors.New("invalid pipeline configuration")
)

// UnreadableDocumentError means the payload is not a spreadsheet we can open.
type UnreadableDocumentError struct {
	Engine string
	Err    error
}

func (e *UnreadableDocumentError) Error() string {
	if e.Engine == "" {
		return fmt.Sprintf("unreadable document: %v", e.Err)
	}
	return fmt.Sprintf("unreadable %s document: %v", e.Engine, e.Err)
}

func (e *UnreadableDocumentError) Unwrap() error { return e.Err }

// Hint returns the guidance shown to the user.
func (e *UnreadableDocumentError) Hint() string {
	return "Verifique que el archivo sea una planilla .xls, .xlsx o .csv válida y que no esté abierto en otro programa"
}

// MissingColumnError means a required field could not be located in the sheet.
type MissingColumnError struct {
	Field domain.Field
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("required column %s could not be resolved", e.Field)
}

func (e *MissingColumnError) Hint() string {
	return fmt.Sprintf("No se encontró la columna obligatoria '%s': revise el encabezado, el rango de columnas y la estrategia de lectura", e.Field)
}

// InsufficientRowsError means too few data rows remain after the header skip.
type InsufficientRowsError struct {
	Actual   int
	Expected int
}

func (e *InsufficientRowsError) Error() string {
	return fmt.Sprintf("insufficient data rows: got %d, need at least %d", e.Actual, e.Expected)
}

func (e *InsufficientRowsError) Hint() string {
	return fmt.Sprintf("La planilla tiene %d fila(s) de datos después del encabezado, mínimo %d: revise la cantidad de filas a omitir", e.Actual, e.Expected)
}

// Hinter is implemented by document-level errors that carry user guidance.
type Hinter interface {
	Hint() string
}

// IsDocumentError reports whether err aborts a run because of the uploaded document itself.
func IsDocumentError(err error) bool {
	var unreadable *UnreadableDocumentError
	var missing *MissingColumnError
	var rows *InsufficientRowsError
	return errors.As(err, &unreadable) || errors.As(err, &missing) || errors.As(err, &rows)
}
