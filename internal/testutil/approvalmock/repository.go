package approvalmock

import (
	"context"
	"errors"

	"leave-engine/internal/domain/approval"
)

var _ approval.Repository = (*Repo)(nil)

var errUnimplemented = errors.New("approvalmock: method not implemented")

type Repo struct {
	CreateFn          func(ctx context.Context, a *approval.Approval) error
	ListByRequestIDFn func(ctx context.Context, requestID string) ([]approval.Approval, error)
}

func (m *Repo) Create(ctx context.Context, a *approval.Approval) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, a)
	}
	return errUnimplemented
}

func (m *Repo) ListByRequestID(ctx context.Context, requestID string) ([]approval.Approval, error) {
	if m.ListByRequestIDFn != nil {
		return m.ListByRequestIDFn(ctx, requestID)
	}
	return nil, errUnimplemented
}
