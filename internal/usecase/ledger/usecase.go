package ledger

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"leave-engine/internal/domain/entitlement"
	"leave-engine/internal/domain/leave"
	"leave-engine/internal/usecase/dto"
)

// Ledger moves days between an entitlement's pending and taken counters. The
// mutating methods take the repository of the caller's transaction, so a
// counter change commits or rolls back together with the status change that
// caused it.
type Ledger struct {
	entitlements entitlement.Repository
	log          *zap.Logger
}

func New(entitlements entitlement.Repository, log *zap.Logger) *Ledger {
	return &Ledger{entitlements: entitlements, log: log.Named("ledger")}
}

// Reserve holds days as pending. A missing row is opened with limit as its
// total (nil means unlimited).
func (l *Ledger) Reserve(ctx context.Context, repo entitlement.Repository, k entitlement.Key, days float64, limit *float64) (*entitlement.Entitlement, error) {
	e, err := repo.GetForUpdate(ctx, k)
	if errors.Is(err, leave.ErrNotFound) {
		e, err = l.open(ctx, repo, k, limit)
	}
	if err != nil {
		return nil, err
	}
	return l.apply(ctx, repo, e, "reserve", days, e.Reserve)
}

// Settle converts pending days into taken days on approval.
func (l *Ledger) Settle(ctx context.Context, repo entitlement.Repository, k entitlement.Key, days float64) (*entitlement.Entitlement, error) {
	return l.mutate(ctx, repo, k, "settle", days, (*entitlement.Entitlement).Settle)
}

// Release drops pending days on rejection or cancellation of a pending request.
func (l *Ledger) Release(ctx context.Context, repo entitlement.Repository, k entitlement.Key, days float64) (*entitlement.Entitlement, error) {
	return l.mutate(ctx, repo, k, "release", days, (*entitlement.Entitlement).Release)
}

// Reverse gives back taken days when an approved request is cancelled.
func (l *Ledger) Reverse(ctx context.Context, repo entitlement.Repository, k entitlement.Key, days float64) (*entitlement.Entitlement, error) {
	return l.mutate(ctx, repo, k, "reverse", days, (*entitlement.Entitlement).Reverse)
}

// Balances lists a user's entitlements for a year; year 0 means every year.
func (l *Ledger) Balances(ctx context.Context, userID string, year int) ([]dto.EntitlementDTO, error) {
	if userID == "" {
		return nil, leave.Invalid("user_id", "is required")
	}
	rows, err := l.entitlements.ListByUser(ctx, userID, year)
	if err != nil {
		return nil, err
	}
	out := make([]dto.EntitlementDTO, 0, len(rows))
	for _, e := range rows {
		out = append(out, dto.FromEntitlement(e))
	}
	return out, nil
}

func (l *Ledger) open(ctx context.Context, repo entitlement.Repository, k entitlement.Key, limit *float64) (*entitlement.Entitlement, error) {
	e := &entitlement.Entitlement{
		UserID:        k.UserID,
		HolidayTypeID: k.HolidayTypeID,
		Year:          k.Year,
		TotalDays:     limit,
	}
	if err := repo.Create(ctx, e); err != nil {
		return nil, err
	}
	l.log.Info("entitlement opened", zap.Stringer("key", k), zap.Bool("unlimited", limit == nil))
	// re-read under lock so the row carries what storage assigned
	return repo.GetForUpdate(ctx, k)
}

func (l *Ledger) mutate(ctx context.Context, repo entitlement.Repository, k entitlement.Key, op string, days float64, fn func(*entitlement.Entitlement, float64) error) (*entitlement.Entitlement, error) {
	e, err := repo.GetForUpdate(ctx, k)
	if errors.Is(err, leave.ErrNotFound) {
		return nil, fmt.Errorf("%s %s: no entitlement row: %w", op, k, entitlement.ErrCorrupt)
	}
	if err != nil {
		return nil, err
	}
	return l.apply(ctx, repo, e, op, days, func(d float64) error { return fn(e, d) })
}

func (l *Ledger) apply(ctx context.Context, repo entitlement.Repository, e *entitlement.Entitlement, op string, days float64, fn func(float64) error) (*entitlement.Entitlement, error) {
	if err := fn(days); err != nil {
		if errors.Is(err, entitlement.ErrCorrupt) {
			l.log.Error("entitlement counters out of step",
				zap.String("op", op), zap.Stringer("key", e.Key()), zap.Float64("days", days),
				zap.Float64("taken", e.DaysTaken), zap.Float64("pending", e.DaysPending))
		}
		return nil, err
	}
	if err := repo.Update(ctx, e); err != nil {
		return nil, err
	}
	l.log.Debug("entitlement updated",
		zap.String("op", op), zap.Stringer("key", e.Key()), zap.Float64("days", days),
		zap.Float64("taken", e.DaysTaken), zap.Float64("pending", e.DaysPending))
	return e, nil
}
