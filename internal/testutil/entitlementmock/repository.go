package entitlementmock

import (
	"context"
	"errors"

	"leave-engine/internal/domain/entitlement"
)

var _ entitlement.Repository = (*Repo)(nil)

var errUnimplemented = errors.New("entitlementmock: method not implemented")

type Repo struct {
	CreateFn       func(ctx context.Context, e *entitlement.Entitlement) error
	GetForUpdateFn func(ctx context.Context, k entitlement.Key) (*entitlement.Entitlement, error)
	UpdateFn       func(ctx context.Context, e *entitlement.Entitlement) error
	ListByUserFn   func(ctx context.Context, userID string, year int) ([]entitlement.Entitlement, error)
}

func (m *Repo) Create(ctx context.Context, e *entitlement.Entitlement) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, e)
	}
	return errUnimplemented
}

func (m *Repo) GetForUpdate(ctx context.Context, k entitlement.Key) (*entitlement.Entitlement, error) {
	if m.GetForUpdateFn != nil {
		return m.GetForUpdateFn(ctx, k)
	}
	return nil, errUnimplemented
}

func (m *Repo) Update(ctx context.Context, e *entitlement.Entitlement) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, e)
	}
	return errUnimplemented
}

func (m *Repo) ListByUser(ctx context.Context, userID string, year int) ([]entitlement.Entitlement, error) {
	if m.ListByUserFn != nil {
		return m.ListByUserFn(ctx, userID, year)
	}
	return nil, errUnimplemented
}
