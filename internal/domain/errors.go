package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrMissingField  = errors.New("missing required field")
	ErrInvalidField  = errors.New("invalid field")
	ErrDuplicateCode = errors.New("product code already exists")
	ErrPersistence   = errors.New("persistence failure")

	ErrProductNotFound = fmt.Errorf("product %w", ErrNotFound)
	ErrCartNotFound    = fmt.Errorf("cart %w", ErrNotFound)
	// ErrProductExists is reported by the file store when both the code and the title are already taken.
	ErrProductExists = fmt.Errorf("product already exists: %w", ErrDuplicateCode)
)

// PersistenceError wraps a storage driver failure. It matches ErrPersistence and unwraps to the cause.
type PersistenceError struct {
	Op  string
	Err error
}

func NewPersistenceError(op string, err error) error {
	return &PersistenceError{Op: op, Err: err}
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func (e *PersistenceError) Is(target error) bool { return target == ErrPersistence }
