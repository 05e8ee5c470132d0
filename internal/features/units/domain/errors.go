package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidLength is returned when a scanned code is not exactly CodeLength characters.
	ErrInvalidLength = errors.New("invalid code length")
	// ErrInvalidDate is returned when the expiration field is not a calendar date.
	ErrInvalidDate = errors.New("invalid expiration date")

	// ErrDuplicateUnit is returned when intake targets a key that is already registered.
	ErrDuplicateUnit = errors.New("unit already registered")
	// ErrUnitNotFound is returned when a unit has not been registered yet.
	ErrUnitNotFound = errors.New("unit not found")
	// ErrInvalidTransition is returned when the unit status does not allow the operation.
	ErrInvalidTransition = errors.New("invalid transition")
	// ErrConflict is returned when a conditional write lost against a concurrent writer.
	ErrConflict = errors.New("concurrent modification")
	// ErrForbidden is returned when a privileged operation is attempted by a regular actor.
	ErrForbidden = errors.New("operation requires an admin actor")
	// ErrPlaceRequired is returned when checkout has no destination.
	ErrPlaceRequired = errors.New("destination place is required")
	// ErrInvalidStatus is returned for an unknown status value.
	ErrInvalidStatus = errors.New("invalid status")
	// ErrEmptyEdit is returned when an admin edit sets neither status nor place.
	ErrEmptyEdit = errors.New("admin edit changes nothing")
	// ErrInvalidQuery is returned for an unknown filter, sort field, direction or view.
	ErrInvalidQuery = errors.New("invalid query")
)

// ParseError reports why a scanned code could not be decoded.
type ParseError struct {
	// Kind is ErrInvalidLength or ErrInvalidDate.
	Kind error
	// Length is the character count of the rejected input.
	Length int
	// Field holds the raw expiration field for date failures.
	Field string
}

func (e *ParseError) Error() string {
	if errors.Is(e.Kind, ErrInvalidDate) {
		return fmt.Sprintf("parse code: %v %q", e.Kind, e.Field)
	}
	return fmt.Sprintf("parse code: %v: got %d, want %d", e.Kind, e.Length, CodeLength)
}

func (e *ParseError) Unwrap() error { return e.Kind }

// TransitionError carries the context needed to render a rejected operation.
type TransitionError struct {
	Op  Operation
	Key string
	// Status is the current status of the unit, empty when it does not exist.
	Status Status
	Err    error
}

func (e *TransitionError) Error() string {
	if e.Status == "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Key, e.Err)
	}
	return fmt.Sprintf("%s %s (status %s): %v", e.Op, e.Key, e.Status, e.Err)
}

func (e *TransitionError) Unwrap() error { return e.Err }

func transitionErr(op Operation, key string, status Status, err error) error {
	return &TransitionError{Op: op, Key: key, Status: status, Err: err}
}
