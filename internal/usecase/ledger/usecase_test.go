package ledger

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"leave-engine/internal/domain/entitlement"
	"leave-engine/internal/domain/leave"
	"leave-engine/internal/domain/uow"
	"leave-engine/internal/testutil/entitlementmock"
	"leave-engine/internal/testutil/memstore"
)

func f(v float64) *float64 { return &v }

var key = entitlement.Key{UserID: "u-1", HolidayTypeID: "annual", Year: 2025}

func setup() (*Ledger, *memstore.Store) {
	store := memstore.New()
	return New(store.Repos().Entitlements, zap.NewNop()), store
}

func TestReserve_OpensMissingRowWithLimit(t *testing.T) {
	l, store := setup()
	err := store.WithinTx(context.Background(), func(r uow.Repos) error {
		_, err := l.Reserve(context.Background(), r.Entitlements, key, 3, f(20))
		return err
	})
	if err != nil {
		t.Fatalf("Reserve: %v", err)
	}
	e, ok := store.Entitlement(key)
	if !ok {
		t.Fatal("row not created")
	}
	if *e.TotalDays != 20 || e.DaysPending != 3 || e.DaysTaken != 0 {
		t.Fatalf("unexpected row: %+v", e)
	}
}

func TestReserve_Insufficient(t *testing.T) {
	l, store := setup()
	store.PutEntitlement(entitlement.Entitlement{UserID: "u-1", HolidayTypeID: "annual", Year: 2025, TotalDays: f(20), DaysTaken: 18, Version: 1})

	err := store.WithinTx(context.Background(), func(r uow.Repos) error {
		_, err := l.Reserve(context.Background(), r.Entitlements, key, 3, f(20))
		return err
	})
	var ie *leave.InsufficientEntitlementError
	if !errors.As(err, &ie) {
		t.Fatalf("want InsufficientEntitlementError, got %v", err)
	}
	if ie.Remaining() != 2 || ie.Requested != 3 {
		t.Fatalf("unexpected detail: %+v", ie)
	}
	e, _ := store.Entitlement(key)
	if e.DaysPending != 0 {
		t.Fatalf("pending moved on failure: %+v", e)
	}
}

func TestReserve_UnlimitedStillTracks(t *testing.T) {
	l, store := setup()
	err := store.WithinTx(context.Background(), func(r uow.Repos) error {
		_, err := l.Reserve(context.Background(), r.Entitlements, key, 400, nil)
		return err
	})
	if err != nil {
		t.Fatalf("Reserve: %v", err)
	}
	e, _ := store.Entitlement(key)
	if !e.Unlimited() || e.DaysPending != 400 {
		t.Fatalf("unexpected row: %+v", e)
	}
}

func TestSettleReleaseReverse(t *testing.T) {
	l, store := setup()
	store.PutEntitlement(entitlement.Entitlement{UserID: "u-1", HolidayTypeID: "annual", Year: 2025, TotalDays: f(20), DaysTaken: 2, DaysPending: 5, Version: 1})
	ctx := context.Background()

	err := store.WithinTx(ctx, func(r uow.Repos) error {
		if _, err := l.Settle(ctx, r.Entitlements, key, 3); err != nil {
			return err
		}
		if _, err := l.Release(ctx, r.Entitlements, key, 2); err != nil {
			return err
		}
		_, err := l.Reverse(ctx, r.Entitlements, key, 1)
		return err
	})
	if err != nil {
		t.Fatalf("tx: %v", err)
	}
	e, _ := store.Entitlement(key)
	if e.DaysTaken != 4 || e.DaysPending != 0 {
		t.Fatalf("want taken=4 pending=0, got %+v", e)
	}
	if e.Version != 4 {
		t.Fatalf("want version 4 after three updates, got %d", e.Version)
	}
}

func TestSettle_MissingRowIsCorrupt(t *testing.T) {
	l, store := setup()
	err := store.WithinTx(context.Background(), func(r uow.Repos) error {
		_, err := l.Settle(context.Background(), r.Entitlements, key, 1)
		return err
	})
	if !errors.Is(err, entitlement.ErrCorrupt) {
		t.Fatalf("want ErrCorrupt, got %v", err)
	}
}

func TestRelease_UnderflowRollsBack(t *testing.T) {
	l, store := setup()
	store.PutEntitlement(entitlement.Entitlement{UserID: "u-1", HolidayTypeID: "annual", Year: 2025, TotalDays: f(20), DaysPending: 1, Version: 1})
	ctx := context.Background()

	err := store.WithinTx(ctx, func(r uow.Repos) error {
		if _, err := l.Reserve(ctx, r.Entitlements, key, 2, f(20)); err != nil {
			return err
		}
		_, err := l.Release(ctx, r.Entitlements, key, 5)
		return err
	})
	if !errors.Is(err, entitlement.ErrCorrupt) {
		t.Fatalf("want ErrCorrupt, got %v", err)
	}
	e, _ := store.Entitlement(key)
	if e.DaysPending != 1 {
		t.Fatalf("reserve inside failed tx must roll back, got pending=%v", e.DaysPending)
	}
}

func TestUpdateConflictSurfaces(t *testing.T) {
	repo := &entitlementmock.Repo{
		GetForUpdateFn: func(context.Context, entitlement.Key) (*entitlement.Entitlement, error) {
			return &entitlement.Entitlement{UserID: "u-1", HolidayTypeID: "annual", Year: 2025, TotalDays: f(20), Version: 3}, nil
		},
		UpdateFn: func(context.Context, *entitlement.Entitlement) error {
			return leave.ErrStorageConflict
		},
	}
	l := New(repo, zap.NewNop())
	_, err := l.Reserve(context.Background(), repo, key, 1, f(20))
	if !errors.Is(err, leave.ErrStorageConflict) {
		t.Fatalf("want ErrStorageConflict, got %v", err)
	}
}

func TestBalances(t *testing.T) {
	l, store := setup()
	store.PutEntitlement(entitlement.Entitlement{UserID: "u-1", HolidayTypeID: "annual", Year: 2025, TotalDays: f(20), DaysTaken: 5, DaysPending: 2})
	store.PutEntitlement(entitlement.Entitlement{UserID: "u-1", HolidayTypeID: "unpaid", Year: 2025})
	store.PutEntitlement(entitlement.Entitlement{UserID: "u-1", HolidayTypeID: "annual", Year: 2024, TotalDays: f(20)})
	store.PutEntitlement(entitlement.Entitlement{UserID: "u-2", HolidayTypeID: "annual", Year: 2025, TotalDays: f(20)})

	got, err := l.Balances(context.Background(), "u-1", 2025)
	if err != nil {
		t.Fatalf("Balances: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("want 2 rows, got %d", len(got))
	}
	if got[0].HolidayTypeID != "annual" || *got[0].DaysRemaining != 13 {
		t.Fatalf("unexpected annual balance: %+v", got[0])
	}
	if got[1].TotalDays != nil || got[1].DaysRemaining != nil {
		t.Fatalf("unlimited should have nil totals: %+v", got[1])
	}

	if _, err := l.Balances(context.Background(), "", 2025); !errors.Is(err, leave.ErrValidation) {
		t.Fatalf("want ErrValidation, got %v", err)
	}
}
