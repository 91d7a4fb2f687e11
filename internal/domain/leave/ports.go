package leave

import "context"

// Collaborators owned outside the engine. The engine only reads from the
// first three and publishes to the notifier.

type Authorizer interface {
	IsManagerOf(ctx context.Context, approverID, userID string) (bool, error)
}

type Directory interface {
	// DepartmentOf returns "" for staff outside any department.
	DepartmentOf(ctx context.Context, userID string) (string, error)
	// ManagerOf returns "" when the user has no manager on record.
	ManagerOf(ctx context.Context, userID string) (string, error)
}

type JobConflict struct {
	Description string    `json:"description"`
	Range       DateRange `json:"date_range"`
}

type Scheduler interface {
	JobAssignments(ctx context.Context, userID string, r DateRange) ([]JobConflict, error)
}

type EventType string

const (
	EventSubmitted EventType = "request.submitted"
	EventApproved  EventType = "request.approved"
	EventRejected  EventType = "request.rejected"
	EventCancelled EventType = "request.cancelled"
)

type Event struct {
	Type        EventType `json:"type"`
	RequestID   string    `json:"request_id"`
	RecipientID string    `json:"recipient_id"`
}

// Notifier delivery is fire-and-forget; callers log failures and move on.
type Notifier interface {
	Notify(ctx context.Context, e Event) error
}
