package requestmock

import (
	"context"
	"errors"

	"leave-engine/internal/domain/request"
)

var _ request.Repository = (*Repo)(nil)

var errUnimplemented = errors.New("requestmock: method not implemented")

// Repo is a function-backed mock; unset fields return errUnimplemented.
type Repo struct {
	CreateFn                  func(ctx context.Context, r *request.HolidayRequest) error
	GetByRequestIDFn          func(ctx context.Context, requestID string) (*request.HolidayRequest, error)
	GetByRequestIDForUpdateFn func(ctx context.Context, requestID string) (*request.HolidayRequest, error)
	UpdateFn                  func(ctx context.Context, r *request.HolidayRequest) error
	ListByUserFn              func(ctx context.Context, userID string, status request.Status) ([]request.HolidayRequest, error)
}

func (m *Repo) Create(ctx context.Context, r *request.HolidayRequest) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, r)
	}
	return errUnimplemented
}

func (m *Repo) GetByRequestID(ctx context.Context, requestID string) (*request.HolidayRequest, error) {
	if m.GetByRequestIDFn != nil {
		return m.GetByRequestIDFn(ctx, requestID)
	}
	return nil, errUnimplemented
}

func (m *Repo) GetByRequestIDForUpdate(ctx context.Context, requestID string) (*request.HolidayRequest, error) {
	if m.GetByRequestIDForUpdateFn != nil {
		return m.GetByRequestIDForUpdateFn(ctx, requestID)
	}
	return nil, errUnimplemented
}

func (m *Repo) Update(ctx context.Context, r *request.HolidayRequest) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, r)
	}
	return errUnimplemented
}

func (m *Repo) ListByUser(ctx context.Context, userID string, status request.Status) ([]request.HolidayRequest, error) {
	if m.ListByUserFn != nil {
		return m.ListByUserFn(ctx, userID, status)
	}
	return nil, errUnimplemented
}
