package types

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrValidation       = errors.New("validation error")
	ErrPermissionDenied = errors.New("permission denied")
	ErrNotFound         = errors.New("not found")
	ErrConflict         = errors.New("conflict")
	ErrUnauthorized     = errors.New("unauthorized")
)

// FieldErrors carries per-field messages and classifies as either
// ErrValidation or ErrConflict.
type FieldErrors struct {
	kind   error
	Fields map[string]string
}

func NewValidationError() *FieldErrors {
	return &FieldErrors{kind: ErrValidation, Fields: map[string]string{}}
}

func NewConflictError() *FieldErrors {
	return &FieldErrors{kind: ErrConflict, Fields: map[string]string{}}
}

// Add records the first message for field; later messages are ignored.
func (e *FieldErrors) Add(field, message string) *FieldErrors {
	if _, exists := e.Fields[field]; !exists {
		e.Fields[field] = message
	}
	return e
}

func (e *FieldErrors) Has(field string) bool {
	_, ok := e.Fields[field]
	return ok
}

func (e *FieldErrors) Empty() bool {
	return len(e.Fields) == 0
}

// OrNil returns nil when no field failed so callers can `return errs.OrNil()`.
func (e *FieldErrors) OrNil() error {
	if e.Empty() {
		return nil
	}
	return e
}

func (e *FieldErrors) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for key := range e.Fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", key, e.Fields[key]))
	}
	return fmt.Sprintf("%s: %s", e.kind, strings.Join(parts, "; "))
}

func (e *FieldErrors) Unwrap() error {
	return e.kind
}

func Validation(field, message string) error {
	return NewValidationError().Add(field, message)
}

func Conflict(field, message string) error {
	return NewConflictError().Add(field, message)
}

// AsFieldErrors extracts the field map from err, if it carries one.
func AsFieldErrors(err error) (map[string]string, bool) {
	var fieldErrs *FieldErrors
	if errors.As(err, &fieldErrs) {
		return fieldErrs.Fields, true
	}
	return nil, false
}
