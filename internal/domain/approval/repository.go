package approval

import "context"

type Repository interface {
	Create(ctx context.Context, a *Approval) error
	// ListByRequestID returns approvals in decision order.
	ListByRequestID(ctx context.Context, requestID string) ([]Approval, error)
}
