package mysql

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "leave-engine/internal/domain/entitlement"
	"leave-engine/internal/domain/leave"
)

type EntitlementRepository struct{ db *gorm.DB }

func NewEntitlementRepository(db *gorm.DB) *EntitlementRepository {
	return &EntitlementRepository{db: db}
}

// Create fails with leave.ErrStorageConflict when another transaction opened
// the same (user, type, year) row first.
func (r *EntitlementRepository) Create(ctx context.Context, e *domain.Entitlement) error {
	e.Version = 1
	return translate(r.db.WithContext(ctx).Create(e).Error, "create entitlement "+e.Key().String())
}

func (r *EntitlementRepository) GetForUpdate(ctx context.Context, k domain.Key) (*domain.Entitlement, error) {
	var out domain.Entitlement
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ? AND holiday_type_id = ? AND year = ?", k.UserID, k.HolidayTypeID, k.Year).
		First(&out).Error
	if err != nil {
		return nil, translate(err, "entitlement "+k.String())
	}
	return &out, nil
}

func (r *EntitlementRepository) Update(ctx context.Context, e *domain.Entitlement) error {
	oldVersion := e.Version
	res := r.db.WithContext(ctx).
		Model(&domain.Entitlement{}).
		Where("user_id = ? AND holiday_type_id = ? AND year = ? AND version = ?", e.UserID, e.HolidayTypeID, e.Year, oldVersion).
		Updates(map[string]interface{}{
			"total_days":   e.TotalDays,
			"days_taken":   e.DaysTaken,
			"days_pending": e.DaysPending,
			"version":      oldVersion + 1,
		})
	if res.Error != nil {
		return translate(res.Error, "update entitlement "+e.Key().String())
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("entitlement %s at version %d: %w", e.Key(), oldVersion, leave.ErrStorageConflict)
	}
	e.Version = oldVersion + 1
	return nil
}

func (r *EntitlementRepository) ListByUser(ctx context.Context, userID string, year int) ([]domain.Entitlement, error) {
	q := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if year != 0 {
		q = q.Where("year = ?", year)
	}
	var out []domain.Entitlement
	if err := q.Order("year ASC, holiday_type_id ASC").Find(&out).Error; err != nil {
		return nil, translate(err, "entitlements of "+userID)
	}
	return out, nil
}
