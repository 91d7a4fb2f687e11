package leave

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds returned by every core operation. Typed errors below match
// their kind through errors.Is, so callers can switch on the sentinel and
// still reach the payload with errors.As.
var (
	ErrValidation              = errors.New("validation failed")
	ErrBlackoutViolation       = errors.New("dates fall inside a blackout period")
	ErrInsufficientEntitlement = errors.New("insufficient entitlement")
	ErrInvalidState            = errors.New("request is not in a state that permits this transition")
	ErrUnauthorized            = errors.New("approver has no authority over the requester")
	ErrNotFound                = errors.New("not found")
	ErrStorageTimeout          = errors.New("storage timeout")
	ErrStorageConflict         = errors.New("storage conflict")
)

type ValidationError struct {
	Field  string
	Reason string
}

func Invalid(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation failed: " + e.Reason
	}
	return fmt.Sprintf("validation failed: %s %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// BlockingPeriod is the part of a blackout period reported back to callers.
type BlockingPeriod struct {
	ID     string    `json:"id"`
	Name   string    `json:"name"`
	Reason string    `json:"reason"`
	Range  DateRange `json:"range"`
}

type BlackoutViolationError struct {
	Periods []BlockingPeriod
}

func (e *BlackoutViolationError) Error() string {
	names := make([]string, 0, len(e.Periods))
	for _, p := range e.Periods {
		names = append(names, p.Name)
	}
	return fmt.Sprintf("dates fall inside blackout period(s): %s", strings.Join(names, ", "))
}

func (e *BlackoutViolationError) Is(target error) bool { return target == ErrBlackoutViolation }

type InsufficientEntitlementError struct {
	Total     float64
	Taken     float64
	Pending   float64
	Requested float64
}

func (e *InsufficientEntitlementError) Remaining() float64 {
	return e.Total - e.Taken - e.Pending
}

func (e *InsufficientEntitlementError) Error() string {
	return fmt.Sprintf("insufficient entitlement: requested %.1f day(s), %.1f remaining of %.1f",
		e.Requested, e.Remaining(), e.Total)
}

func (e *InsufficientEntitlementError) Is(target error) bool {
	return target == ErrInsufficientEntitlement
}

// IsTransient reports whether err is an infrastructure failure that is safe
// to retry as a whole operation.
func IsTransient(err error) bool {
	return errors.Is(err, ErrStorageTimeout) || errors.Is(err, ErrStorageConflict)
}
