package request

import "context"

type Repository interface {
	Create(ctx context.Context, r *HolidayRequest) error
	// GetByRequestID loads the request with its approvals.
	GetByRequestID(ctx context.Context, requestID string) (*HolidayRequest, error)
	// GetByRequestIDForUpdate also locks the row until the transaction ends.
	GetByRequestIDForUpdate(ctx context.Context, requestID string) (*HolidayRequest, error)
	// Update is guarded by Version; a stale copy yields leave.ErrStorageConflict.
	Update(ctx context.Context, r *HolidayRequest) error
	// ListByUser returns newest first; an empty status means all.
	ListByUser(ctx context.Context, userID string, status Status) ([]HolidayRequest, error)
}
