package core

import (
	"fmt"
	"strings"
)

// ValidationError represents an error found while validating a value.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error in %s: %s", e.Field, e.Message)
}

// SchemaError reports required tables or columns missing from a result file.
// It is fatal to loading.
type SchemaError struct {
	Source  string
	Missing []string // "TABLE" or "TABLE.COLUMN"
	Err     error
}

func (e *SchemaError) Error() string {
	if len(e.Missing) == 0 && e.Err != nil {
		return fmt.Sprintf("schema error in %s: %v", e.Source, e.Err)
	}
	return fmt.Sprintf("schema error in %s: missing %s", e.Source, strings.Join(e.Missing, ", "))
}

func (e *SchemaError) Unwrap() error {
	return e.Err
}

// NotFoundError reports that no row matched a selection. Callers decide how to
// surface it; it never leaves partial state behind.
type NotFoundError struct {
	What string // "peptide", "feature", "precursor", ...
	Key  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.What, e.Key)
}
