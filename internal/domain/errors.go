package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors shared by services, repositories and controllers.
var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("authorization required")
	ErrForbidden    = errors.New("forbidden")
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidFilter is matched by every *FilterError.
	ErrInvalidFilter = errors.New("invalid filter")

	// ErrConflict groups errors a client can act on (already registered, sold out).
	ErrConflict          = errors.New("conflict")
	ErrAlreadyRegistered = fmt.Errorf("%w: you have already registered for this conference", ErrConflict)
	ErrSoldOut           = fmt.Errorf("%w: there are no seats available", ErrConflict)
)

// FilterError reports a filter that could not be validated or coerced.
type FilterError struct {
	Field  string
	Reason string
}

func (e *FilterError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid filter: %s", e.Reason)
	}
	return fmt.Sprintf("invalid filter (%s): %s", e.Field, e.Reason)
}

// Is makes errors.Is(err, ErrInvalidFilter) true for any *FilterError.
func (e *FilterError) Is(target error) bool {
	return target == ErrInvalidFilter
}
