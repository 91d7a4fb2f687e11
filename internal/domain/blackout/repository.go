package blackout

import (
	"context"

	"leave-engine/internal/domain/leave"
)

type Repository interface {
	Create(ctx context.Context, p *Period) error
	// ListOverlapping returns every period intersecting r, whatever its scope.
	ListOverlapping(ctx context.Context, r leave.DateRange) ([]Period, error)
}
