package uow

import (
	"context"

	"leave-engine/internal/domain/approval"
	"leave-engine/internal/domain/blackout"
	"leave-engine/internal/domain/entitlement"
	"leave-engine/internal/domain/holidaytype"
	"leave-engine/internal/domain/request"
)

type Repos struct {
	Requests     request.Repository
	Approvals    approval.Repository
	Entitlements entitlement.Repository
	HolidayTypes holidaytype.Repository
	Blackouts    blackout.Repository
}

type UnitOfWork interface {
	// plain tx
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// lock the request row first, then pass it in
	WithinRequestTx(ctx context.Context, requestID string, fn func(r Repos, req *request.HolidayRequest) error) error
}
