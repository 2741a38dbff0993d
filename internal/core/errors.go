package core

import (
	"errors"
	"strconv"
)

var (
	// ErrValidation matches every *ValidationError through errors.Is.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound matches every *NotFoundError through errors.Is.
	ErrNotFound = errors.New("transaction not found")

	ErrEmptyCategory = errors.New("category cannot be empty")
	ErrEmptyDate     = errors.New("date cannot be empty")
	ErrInvalidAmount = errors.New("amount must be a number")
	ErrInvalidKind   = errors.New("kind must be Income or Expense")

	ErrNoSelection = errors.New("no transaction selected")
	ErrOutOfRange  = errors.New("index out of range")
	ErrUnknownID   = errors.New("unknown transaction id")
)

// ValidationError reports a rejected input field. The ledger is never
// modified when one is returned.
type ValidationError struct {
	Field string
	Err   error
}

func newValidationError(field string, err error) *ValidationError {
	return &ValidationError{Field: field, Err: err}
}

func (e *ValidationError) Error() string {
	return "invalid " + e.Field + ": " + e.Err.Error()
}

func (e *ValidationError) Unwrap() []error {
	return []error{ErrValidation, e.Err}
}

// NotFoundError reports a removal that did not resolve to a transaction.
type NotFoundError struct {
	Ref    string // index or identifier as supplied by the caller
	Reason error
}

// NewIndexNotFoundError builds the error returned for a bad position.
func NewIndexNotFoundError(index int, reason error) *NotFoundError {
	return &NotFoundError{Ref: strconv.Itoa(index), Reason: reason}
}

// NewIDNotFoundError builds the error returned for an unknown identifier.
func NewIDNotFoundError(id string) *NotFoundError {
	return &NotFoundError{Ref: id, Reason: ErrUnknownID}
}

func (e *NotFoundError) Error() string {
	if errors.Is(e.Reason, ErrNoSelection) {
		return e.Reason.Error()
	}
	return ErrNotFound.Error() + " (" + e.Ref + "): " + e.Reason.Error()
}

func (e *NotFoundError) Unwrap() []error {
	return []error{ErrNotFound, e.Reason}
}

// IsValidation reports whether err carries a *ValidationError.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsNotFound reports whether err carries a *NotFoundError.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
