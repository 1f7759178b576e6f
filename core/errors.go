package core

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// PersistenceHint is shown to users whenever the workbook cannot be read or written.
const PersistenceHint = "close the file in the other program and retry"

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string
	Error string
}

type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err != nil {
		return err.Err.Error()
	}
	msgs := make([]string, 0, len(err.Fields))
	for _, fld := range err.Fields {
		msgs = append(msgs, fld.Field+": "+fld.Error)
	}
	return strings.Join(msgs, "; ")
}

// PersistenceError reports a failed load or save of the whole workbook.
// The in-memory document is left as it was before the failed operation.
type PersistenceError struct {
	Op   string // load | save
	Path string
	Err  error
}

func NewPersistenceError(op, path string, err error) error {
	return &PersistenceError{Op: op, Path: path, Err: err}
}

func (err *PersistenceError) Error() string {
	return fmt.Sprintf("%s %s: %v", err.Op, err.Path, err.Err)
}

func (err *PersistenceError) Unwrap() error { return err.Err }

// Hint returns the remediation users should be shown.
func (err *PersistenceError) Hint() string { return PersistenceHint }

func IsPersistence(err error) bool {
	var pErr *PersistenceError
	return errors.As(err, &pErr)
}

func IsValidation(err error) bool {
	var vErr *ValidationError
	return errors.As(err, &vErr)
}
