package holidaytype

import "context"

type Repository interface {
	Create(ctx context.Context, t *HolidayType) error
	GetByTypeID(ctx context.Context, typeID string) (*HolidayType, error)
}
