package uowmock

import (
	"context"
	"errors"

	"leave-engine/internal/domain/request"
	"leave-engine/internal/domain/uow"
)

// Ensure compile-time compliance
var _ uow.UnitOfWork = (*UoW)(nil)

var errUnimplemented = errors.New("uowmock: method not implemented")

// UoW is a function-backed mock that satisfies uow.UnitOfWork.
// Fill in the function fields you need in a test; unfilled ones return errUnimplemented.
type UoW struct {
	WithinTxFn        func(ctx context.Context, fn func(r uow.Repos) error) error
	WithinRequestTxFn func(ctx context.Context, requestID string, fn func(r uow.Repos, req *request.HolidayRequest) error) error
}

// Passthrough runs both flavours directly against repos, loading the locked
// request through repos.Requests.
func Passthrough(repos uow.Repos) *UoW {
	return &UoW{
		WithinTxFn: func(ctx context.Context, fn func(uow.Repos) error) error {
			return fn(repos)
		},
		WithinRequestTxFn: func(ctx context.Context, requestID string, fn func(uow.Repos, *request.HolidayRequest) error) error {
			req, err := repos.Requests.GetByRequestIDForUpdate(ctx, requestID)
			if err != nil {
				return err
			}
			return fn(repos, req)
		},
	}
}

func (m *UoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	if m.WithinTxFn != nil {
		return m.WithinTxFn(ctx, fn)
	}
	return errUnimplemented
}

func (m *UoW) WithinRequestTx(ctx context.Context, requestID string, fn func(r uow.Repos, req *request.HolidayRequest) error) error {
	if m.WithinRequestTxFn != nil {
		return m.WithinRequestTxFn(ctx, requestID, fn)
	}
	return errUnimplemented
}
