package loader

import (
	"errors"
	"fmt"
)

var (
	// ErrSourceNotFound is returned when the source path does not resolve.
	ErrSourceNotFound = errors.New("source not found")

	// ErrSchemaMismatch is the class of every *SchemaError.
	ErrSchemaMismatch = errors.New("schema mismatch")
)

// SchemaError describes why a source does not fit the expected schema.
// Row is the 1-based spreadsheet row (the header is row 1); it is 0 for
// errors that concern the file as a whole.
type SchemaError struct {
	Row    int
	Column string
	Value  string
	Reason string
}

func (e *SchemaError) Error() string {
	switch {
	case e.Row > 0 && e.Column != "":
		return fmt.Sprintf("schema mismatch: row %d column %q: %s (value %q)", e.Row, e.Column, e.Reason, e.Value)
	case e.Column != "":
		return fmt.Sprintf("schema mismatch: column %q: %s", e.Column, e.Reason)
	default:
		return "schema mismatch: " + e.Reason
	}
}

// Unwrap lets errors.Is(err, ErrSchemaMismatch) match.
func (e *SchemaError) Unwrap() error { return ErrSchemaMismatch }
