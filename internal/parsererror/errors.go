// Package parsererror defines the error taxonomy shared by the SMS parser,
// the persistence layer and the manual-entry validation.
package parsererror

import (
	"errors"
	"fmt"
)

// Rejection reasons returned (wrapped in a ParseError) by the SMS parser.
var (
	ErrNotBankSender     = errors.New("sender is not a known bank")
	ErrAmountNotFound    = errors.New("no positive amount found")
	ErrDirectionNotFound = errors.New("no debit or credit keyword found")
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// ParseError reports why a message could not be turned into a transaction draft.
type ParseError struct {
	Parser string
	Field  string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: failed to parse %s='%s': %v",
		e.Parser, e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// IsUnparseable reports whether err is an expected parser rejection rather than a failure.
func IsUnparseable(err error) bool {
	var parseErr *ParseError
	return errors.As(err, &parseErr)
}

// ValidationError represents input rejected at the validation boundary.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}

// StorageError wraps an I/O failure of the persistence store.
type StorageError struct {
	Operation string
	Err       error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s failed: %v", e.Operation, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// Storage wraps err in a StorageError unless it is nil or already ErrNotFound.
func Storage(operation string, err error) error {
	if err == nil || errors.Is(err, ErrNotFound) {
		return err
	}
	return &StorageError{Operation: operation, Err: err}
}
