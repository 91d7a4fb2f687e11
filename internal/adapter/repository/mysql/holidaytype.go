package mysql

import (
	"context"

	"gorm.io/gorm"

	domain "leave-engine/internal/domain/holidaytype"
)

type HolidayTypeRepository struct{ db *gorm.DB }

func NewHolidayTypeRepository(db *gorm.DB) *HolidayTypeRepository {
	return &HolidayTypeRepository{db: db}
}

func (r *HolidayTypeRepository) Create(ctx context.Context, t *domain.HolidayType) error {
	return translate(r.db.WithContext(ctx).Create(t).Error, "create holiday type "+t.Code)
}

func (r *HolidayTypeRepository) GetByTypeID(ctx context.Context, typeID string) (*domain.HolidayType, error) {
	var out domain.HolidayType
	if err := r.db.WithContext(ctx).Where("type_id = ?", typeID).First(&out).Error; err != nil {
		return nil, translate(err, "holiday type "+typeID)
	}
	return &out, nil
}
