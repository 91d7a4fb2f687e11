package entitlement

import "context"

type Repository interface {
	Create(ctx context.Context, e *Entitlement) error
	// GetForUpdate locks the row for the rest of the transaction.
	GetForUpdate(ctx context.Context, k Key) (*Entitlement, error)
	// Update writes the counters if the stored version still matches and
	// bumps it; a stale version yields leave.ErrStorageConflict.
	Update(ctx context.Context, e *Entitlement) error
	ListByUser(ctx context.Context, userID string, year int) ([]Entitlement, error)
}
