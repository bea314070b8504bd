// Package validate holds the shared field-level validation error type used by
// the team, shift, and leave packages. Validation failures are always reported
// per field so the UI can highlight each offending input independently.
package validate

import (
	"fmt"
	"strings"
)

// FieldError describes a validation failure on a single named field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Errors is an ordered list of field errors. A nil or empty list means valid.
type Errors []FieldError

// Add appends a field error and returns the extended list.
func (v Errors) Add(field, message string) Errors {
	return append(v, FieldError{Field: field, Message: message})
}

// Valid reports whether no field errors were recorded.
func (v Errors) Valid() bool {
	return len(v) == 0
}

func (v Errors) Error() string {
	if len(v) == 0 {
		return "valid"
	}
	parts := make([]string, len(v))
	for i, e := range v {
		parts[i] = e.Error()
	}
	return strings.Join(parts, "; ")
}

// Has reports whether an error was recorded for the given field.
func (v Errors) Has(field string) bool {
	for _, e := range v {
		if e.Field == field {
			return true
		}
	}
	return false
}
