package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/sahil-lab/realEstate/internal/store"
)

var (
	// ErrNotFound means the addressed record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrForbidden means the actor's role does not permit the operation.
	ErrForbidden = errors.New("forbidden")
	// ErrConflict means the write collides with existing state.
	ErrConflict = errors.New("conflict")
	// ErrInvalidInput means the request failed validation.
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnavailable means an optional backend (e.g. image storage) is not configured.
	ErrUnavailable = errors.New("unavailable")
)

// invalidInput wraps ErrInvalidInput with a client-facing message.
func invalidInput(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// forbidden wraps ErrForbidden with a reason.
func forbidden(reason string) error {
	return fmt.Errorf("%w: %s", ErrForbidden, reason)
}

// translateStoreErr maps store sentinels onto service errors and wraps
// anything else with op.
func translateStoreErr(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrNotFound):
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	case errors.Is(err, store.ErrDuplicate):
		return fmt.Errorf("%s: %w", op, ErrConflict)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

// Clock returns the current time. Services stamp records with it.
type Clock func() time.Time

// SystemClock is the wall clock in UTC at the millisecond precision MongoDB stores.
func SystemClock() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}
