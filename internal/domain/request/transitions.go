package request

import (
	"fmt"
	"time"

	"leave-engine/internal/domain/leave"
)

var transitions = map[Status][]Status{
	StatusDraft:    {StatusPending, StatusCancelled},
	StatusPending:  {StatusApproved, StatusRejected, StatusCancelled},
	StatusApproved: {StatusCancelled},
}

func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusPending, StatusApproved, StatusRejected, StatusCancelled:
		return true
	}
	return false
}

func (s Status) Terminal() bool { return s == StatusRejected || s == StatusCancelled }

func (s Status) CanTransition(to Status) bool {
	for _, next := range transitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// Transition moves the request to the target status or returns an error
// wrapping leave.ErrInvalidState, leaving the request untouched.
func (r *HolidayRequest) Transition(to Status, at time.Time) error {
	if !r.Status.CanTransition(to) {
		return fmt.Errorf("%s -> %s: %w", r.Status, to, leave.ErrInvalidState)
	}
	r.Status = to
	r.StateUpdatedAt = at.UTC()
	if to == StatusPending {
		ts := at.UTC()
		r.SubmittedAt = &ts
	}
	return nil
}

// Editable reports whether dates and flags may still change.
func (r *HolidayRequest) Editable() bool { return r.Status == StatusDraft }
