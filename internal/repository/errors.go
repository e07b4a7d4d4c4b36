package repository

import "errors"

var (
	// ErrNotFound is returned when the requested row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when a conditional update matched no rows,
	// meaning the record moved to another state concurrently.
	ErrConflict = errors.New("state conflict")

	// ErrSoldOut is returned when a quantity decrement would go negative.
	ErrSoldOut = errors.New("sold out")

	// ErrDuplicate is returned when a unique constraint is violated.
	ErrDuplicate = errors.New("duplicate record")
)
