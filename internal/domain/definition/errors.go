package definition

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned by services when a keyed lookup matched nothing.
	// Repositories signal absence with a nil result instead.
	ErrNotFound = errors.New("process definition not found")
	// ErrConstraintViolation indicates a write would break a uniqueness invariant.
	ErrConstraintViolation = errors.New("process definition constraint violation")
	// ErrStoreUnavailable indicates the backing store could not be reached or timed out.
	ErrStoreUnavailable = errors.New("process definition store unavailable")
	// ErrInvalidArgument indicates a malformed request rejected before any query.
	ErrInvalidArgument = errors.New("invalid argument")
)

// Constraint names shared by every store's schema.
const (
	ConstraintCode        = "process_definitions_code_key"
	ConstraintProjectName = "process_definitions_project_name_key"
	ConstraintLogVersion  = "process_definition_logs_code_version_key"
)

// ConstraintError reports which uniqueness constraint a write violated.
type ConstraintError struct {
	Constraint string
	Err        error
}

func (e *ConstraintError) Error() string {
	if e.Constraint == "" {
		return ErrConstraintViolation.Error()
	}
	return fmt.Sprintf("%s: %s", ErrConstraintViolation.Error(), e.Constraint)
}

func (e *ConstraintError) Is(target error) bool {
	return target == ErrConstraintViolation
}

func (e *ConstraintError) Unwrap() error { return e.Err }

// NewConstraintError wraps a driver error as a constraint violation.
func NewConstraintError(constraint string, err error) error {
	return &ConstraintError{Constraint: constraint, Err: err}
}

// InvalidArgumentf returns an error matching ErrInvalidArgument.
func InvalidArgumentf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

// Unavailable wraps err so that it matches ErrStoreUnavailable.
func Unavailable(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
}
