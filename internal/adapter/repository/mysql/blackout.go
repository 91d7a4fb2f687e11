package mysql

import (
	"context"

	"gorm.io/gorm"

	domain "leave-engine/internal/domain/blackout"
	"leave-engine/internal/domain/leave"
)

type BlackoutRepository struct{ db *gorm.DB }

func NewBlackoutRepository(db *gorm.DB) *BlackoutRepository { return &BlackoutRepository{db: db} }

func (r *BlackoutRepository) Create(ctx context.Context, p *domain.Period) error {
	if err := p.Validate(); err != nil {
		return err
	}
	return translate(r.db.WithContext(ctx).Create(p).Error, "create blackout "+p.Name)
}

func (r *BlackoutRepository) ListOverlapping(ctx context.Context, rng leave.DateRange) ([]domain.Period, error) {
	var out []domain.Period
	err := r.db.WithContext(ctx).
		Where("start_date <= ? AND end_date >= ?", rng.End, rng.Start).
		Order("start_date ASC, id ASC").
		Find(&out).Error
	if err != nil {
		return nil, translate(err, "blackouts")
	}
	return out, nil
}
