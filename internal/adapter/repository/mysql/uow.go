package mysql

import (
	"context"

	"gorm.io/gorm"

	"leave-engine/internal/domain/request"
	"leave-engine/internal/domain/uow"
)

type GormUoW struct{ db *gorm.DB }

func NewGormUoW(db *gorm.DB) *GormUoW { return &GormUoW{db: db} }

// NewRepos binds every repository to db, which may be a transaction.
func NewRepos(db *gorm.DB) uow.Repos {
	return uow.Repos{
		Requests:     &RequestRepository{db: db},
		Approvals:    &ApprovalRepository{db: db},
		Entitlements: &EntitlementRepository{db: db},
		HolidayTypes: &HolidayTypeRepository{db: db},
		Blackouts:    &BlackoutRepository{db: db},
	}
}

func (u *GormUoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	err := u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepos(tx))
	})
	return translate(err, "transaction")
}

func (u *GormUoW) WithinRequestTx(ctx context.Context, requestID string, fn func(r uow.Repos, req *request.HolidayRequest) error) error {
	err := u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := NewRepos(tx)
		// lock the request row up-front so concurrent transitions serialise
		req, err := r.Requests.GetByRequestIDForUpdate(ctx, requestID)
		if err != nil {
			return err
		}
		return fn(r, req)
	})
	return translate(err, "transaction")
}
