package mysql

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"leave-engine/internal/domain/leave"
	domain "leave-engine/internal/domain/request"
)

type RequestRepository struct{ db *gorm.DB }

func NewRequestRepository(db *gorm.DB) *RequestRepository { return &RequestRepository{db: db} }

func approvalsInOrder(db *gorm.DB) *gorm.DB { return db.Order("level ASC, decided_at ASC, id ASC") }

func (r *RequestRepository) Create(ctx context.Context, req *domain.HolidayRequest) error {
	req.Version = 1
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(req).Error
	return translate(err, "create request "+req.RequestID)
}

func (r *RequestRepository) GetByRequestID(ctx context.Context, requestID string) (*domain.HolidayRequest, error) {
	var out domain.HolidayRequest
	err := r.db.WithContext(ctx).
		Preload("Approvals", approvalsInOrder).
		Where("request_id = ?", requestID).
		First(&out).Error
	if err != nil {
		return nil, translate(err, "request "+requestID)
	}
	return &out, nil
}

// GetByRequestIDForUpdate must run inside a transaction. Approvals are read
// in a second statement so the lock covers only the request row.
func (r *RequestRepository) GetByRequestIDForUpdate(ctx context.Context, requestID string) (*domain.HolidayRequest, error) {
	var out domain.HolidayRequest
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("request_id = ?", requestID).
		First(&out).Error
	if err != nil {
		return nil, translate(err, "lock request "+requestID)
	}
	err = approvalsInOrder(r.db.WithContext(ctx)).
		Where("request_id = ?", requestID).
		Find(&out.Approvals).Error
	if err != nil {
		return nil, translate(err, "approvals of "+requestID)
	}
	return &out, nil
}

func (r *RequestRepository) Update(ctx context.Context, req *domain.HolidayRequest) error {
	oldVersion := req.Version
	res := r.db.WithContext(ctx).
		Model(&domain.HolidayRequest{}).
		Where("request_id = ? AND version = ?", req.RequestID, oldVersion).
		Updates(map[string]interface{}{
			"holiday_type_id":  req.HolidayTypeID,
			"start_date":       req.StartDate,
			"end_date":         req.EndDate,
			"start_half_day":   req.StartHalfDay,
			"end_half_day":     req.EndHalfDay,
			"total_days":       req.TotalDays,
			"reason":           req.Reason,
			"status":           req.Status,
			"submitted_at":     req.SubmittedAt,
			"state_updated_at": req.StateUpdatedAt,
			"version":          oldVersion + 1,
		})
	if res.Error != nil {
		return translate(res.Error, "update request "+req.RequestID)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("request %s at version %d: %w", req.RequestID, oldVersion, leave.ErrStorageConflict)
	}
	req.Version = oldVersion + 1
	return nil
}

func (r *RequestRepository) ListByUser(ctx context.Context, userID string, status domain.Status) ([]domain.HolidayRequest, error) {
	q := r.db.WithContext(ctx).
		Preload("Approvals", approvalsInOrder).
		Where("user_id = ?", userID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var out []domain.HolidayRequest
	if err := q.Order("start_date DESC, id DESC").Find(&out).Error; err != nil {
		return nil, translate(err, "requests of "+userID)
	}
	return out, nil
}
