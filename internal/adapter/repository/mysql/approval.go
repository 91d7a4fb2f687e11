package mysql

import (
	"context"

	"gorm.io/gorm"

	domain "leave-engine/internal/domain/approval"
)

type ApprovalRepository struct{ db *gorm.DB }

func NewApprovalRepository(db *gorm.DB) *ApprovalRepository { return &ApprovalRepository{db: db} }

func (r *ApprovalRepository) Create(ctx context.Context, a *domain.Approval) error {
	return translate(r.db.WithContext(ctx).Create(a).Error, "create approval")
}

func (r *ApprovalRepository) ListByRequestID(ctx context.Context, requestID string) ([]domain.Approval, error) {
	var out []domain.Approval
	err := approvalsInOrder(r.db.WithContext(ctx)).
		Where("request_id = ?", requestID).
		Find(&out).Error
	if err != nil {
		return nil, translate(err, "approvals of "+requestID)
	}
	return out, nil
}
