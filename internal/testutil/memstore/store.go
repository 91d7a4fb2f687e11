// Package memstore is an in-memory uow.UnitOfWork. Transactions are fully
// serialised and roll back by restoring a snapshot, which is enough to drive
// usecases and their concurrency tests without a database.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"leave-engine/internal/domain/approval"
	"leave-engine/internal/domain/blackout"
	"leave-engine/internal/domain/entitlement"
	"leave-engine/internal/domain/holidaytype"
	"leave-engine/internal/domain/leave"
	"leave-engine/internal/domain/request"
	"leave-engine/internal/domain/uow"
)

var _ uow.UnitOfWork = (*Store)(nil)

type data struct {
	requests     map[string]request.HolidayRequest
	approvals    []approval.Approval
	entitlements map[entitlement.Key]entitlement.Entitlement
	types        map[string]holidaytype.HolidayType
	blackouts    []blackout.Period
}

func (d data) clone() data {
	out := data{
		requests:     make(map[string]request.HolidayRequest, len(d.requests)),
		approvals:    append([]approval.Approval(nil), d.approvals...),
		entitlements: make(map[entitlement.Key]entitlement.Entitlement, len(d.entitlements)),
		types:        make(map[string]holidaytype.HolidayType, len(d.types)),
		blackouts:    append([]blackout.Period(nil), d.blackouts...),
	}
	for k, v := range d.requests {
		out.requests[k] = v
	}
	for k, v := range d.entitlements {
		out.entitlements[k] = v
	}
	for k, v := range d.types {
		out.types[k] = v
	}
	return out
}

type Store struct {
	mu sync.Mutex
	d  data

	// FailNextCommit, when set, makes the next transaction roll back with it.
	FailNextCommit error
}

func New() *Store {
	return &Store{d: data{
		requests:     map[string]request.HolidayRequest{},
		entitlements: map[entitlement.Key]entitlement.Entitlement{},
		types:        map[string]holidaytype.HolidayType{},
	}}
}

// Repos returns repositories that each take the store lock per call.
func (s *Store) Repos() uow.Repos { return s.repos(false) }

func (s *Store) repos(inTx bool) uow.Repos {
	return uow.Repos{
		Requests:     &requestRepo{s: s, inTx: inTx},
		Approvals:    &approvalRepo{s: s, inTx: inTx},
		Entitlements: &entitlementRepo{s: s, inTx: inTx},
		HolidayTypes: &typeRepo{s: s, inTx: inTx},
		Blackouts:    &blackoutRepo{s: s, inTx: inTx},
	}
}

func (s *Store) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", leave.ErrStorageTimeout, err)
	}

	snapshot := s.d.clone()
	err := fn(s.repos(true))
	if err == nil && s.FailNextCommit != nil {
		err, s.FailNextCommit = s.FailNextCommit, nil
	}
	if err != nil {
		s.d = snapshot
		return err
	}
	return nil
}

func (s *Store) WithinRequestTx(ctx context.Context, requestID string, fn func(r uow.Repos, req *request.HolidayRequest) error) error {
	return s.WithinTx(ctx, func(r uow.Repos) error {
		req, err := r.Requests.GetByRequestIDForUpdate(ctx, requestID)
		if err != nil {
			return err
		}
		return fn(r, req)
	})
}

func (s *Store) lock(inTx bool) func() {
	if inTx {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

// Seeding helpers for tests.

func (s *Store) PutHolidayType(t holidaytype.HolidayType) {
	defer s.lock(false)()
	s.d.types[t.TypeID] = t
}

func (s *Store) PutBlackout(p blackout.Period) {
	defer s.lock(false)()
	s.d.blackouts = append(s.d.blackouts, p)
}

func (s *Store) PutEntitlement(e entitlement.Entitlement) {
	defer s.lock(false)()
	s.d.entitlements[e.Key()] = e
}

// Entitlement returns a copy of the stored row.
func (s *Store) Entitlement(k entitlement.Key) (entitlement.Entitlement, bool) {
	defer s.lock(false)()
	e, ok := s.d.entitlements[k]
	return e, ok
}

func (s *Store) ApprovalCount(requestID string) int {
	defer s.lock(false)()
	n := 0
	for _, a := range s.d.approvals {
		if a.RequestID == requestID {
			n++
		}
	}
	return n
}

type requestRepo struct {
	s    *Store
	inTx bool
}

func (r *requestRepo) Create(ctx context.Context, req *request.HolidayRequest) error {
	defer r.s.lock(r.inTx)()
	if _, ok := r.s.d.requests[req.RequestID]; ok {
		return fmt.Errorf("request %s: %w", req.RequestID, leave.ErrStorageConflict)
	}
	req.Version = 1
	stored := *req
	stored.Approvals = nil
	r.s.d.requests[req.RequestID] = stored
	return nil
}

func (r *requestRepo) load(requestID string) (*request.HolidayRequest, error) {
	stored, ok := r.s.d.requests[requestID]
	if !ok {
		return nil, fmt.Errorf("request %s: %w", requestID, leave.ErrNotFound)
	}
	out := stored
	out.Approvals = nil
	for _, a := range r.s.d.approvals {
		if a.RequestID == requestID {
			out.Approvals = append(out.Approvals, a)
		}
	}
	return &out, nil
}

func (r *requestRepo) GetByRequestID(ctx context.Context, requestID string) (*request.HolidayRequest, error) {
	defer r.s.lock(r.inTx)()
	return r.load(requestID)
}

func (r *requestRepo) GetByRequestIDForUpdate(ctx context.Context, requestID string) (*request.HolidayRequest, error) {
	return r.GetByRequestID(ctx, requestID)
}

func (r *requestRepo) Update(ctx context.Context, req *request.HolidayRequest) error {
	defer r.s.lock(r.inTx)()
	stored, ok := r.s.d.requests[req.RequestID]
	if !ok {
		return fmt.Errorf("request %s: %w", req.RequestID, leave.ErrNotFound)
	}
	if stored.Version != req.Version {
		return fmt.Errorf("request %s: %w", req.RequestID, leave.ErrStorageConflict)
	}
	req.Version++
	next := *req
	next.Approvals = nil
	r.s.d.requests[req.RequestID] = next
	return nil
}

func (r *requestRepo) ListByUser(ctx context.Context, userID string, status request.Status) ([]request.HolidayRequest, error) {
	defer r.s.lock(r.inTx)()
	var out []request.HolidayRequest
	for id, stored := range r.s.d.requests {
		if stored.UserID != userID || (status != "" && stored.Status != status) {
			continue
		}
		req, _ := r.load(id)
		out = append(out, *req)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].StartDate.Equal(out[j].StartDate) {
			return out[i].RequestID > out[j].RequestID
		}
		return out[i].StartDate.After(out[j].StartDate)
	})
	return out, nil
}

type approvalRepo struct {
	s    *Store
	inTx bool
}

func (r *approvalRepo) Create(ctx context.Context, a *approval.Approval) error {
	defer r.s.lock(r.inTx)()
	r.s.d.approvals = append(r.s.d.approvals, *a)
	return nil
}

func (r *approvalRepo) ListByRequestID(ctx context.Context, requestID string) ([]approval.Approval, error) {
	defer r.s.lock(r.inTx)()
	var out []approval.Approval
	for _, a := range r.s.d.approvals {
		if a.RequestID == requestID {
			out = append(out, a)
		}
	}
	return out, nil
}

type entitlementRepo struct {
	s    *Store
	inTx bool
}

func (r *entitlementRepo) Create(ctx context.Context, e *entitlement.Entitlement) error {
	defer r.s.lock(r.inTx)()
	k := e.Key()
	if _, ok := r.s.d.entitlements[k]; ok {
		return fmt.Errorf("entitlement %s: %w", k, leave.ErrStorageConflict)
	}
	e.Version = 1
	r.s.d.entitlements[k] = *e
	return nil
}

func (r *entitlementRepo) GetForUpdate(ctx context.Context, k entitlement.Key) (*entitlement.Entitlement, error) {
	defer r.s.lock(r.inTx)()
	e, ok := r.s.d.entitlements[k]
	if !ok {
		return nil, fmt.Errorf("entitlement %s: %w", k, leave.ErrNotFound)
	}
	return &e, nil
}

func (r *entitlementRepo) Update(ctx context.Context, e *entitlement.Entitlement) error {
	defer r.s.lock(r.inTx)()
	k := e.Key()
	stored, ok := r.s.d.entitlements[k]
	if !ok {
		return fmt.Errorf("entitlement %s: %w", k, leave.ErrNotFound)
	}
	if stored.Version != e.Version {
		return fmt.Errorf("entitlement %s: %w", k, leave.ErrStorageConflict)
	}
	e.Version++
	r.s.d.entitlements[k] = *e
	return nil
}

func (r *entitlementRepo) ListByUser(ctx context.Context, userID string, year int) ([]entitlement.Entitlement, error) {
	defer r.s.lock(r.inTx)()
	var out []entitlement.Entitlement
	for k, e := range r.s.d.entitlements {
		if k.UserID == userID && (year == 0 || k.Year == year) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		return out[i].HolidayTypeID < out[j].HolidayTypeID
	})
	return out, nil
}

type typeRepo struct {
	s    *Store
	inTx bool
}

func (r *typeRepo) Create(ctx context.Context, t *holidaytype.HolidayType) error {
	defer r.s.lock(r.inTx)()
	r.s.d.types[t.TypeID] = *t
	return nil
}

func (r *typeRepo) GetByTypeID(ctx context.Context, typeID string) (*holidaytype.HolidayType, error) {
	defer r.s.lock(r.inTx)()
	t, ok := r.s.d.types[typeID]
	if !ok {
		return nil, fmt.Errorf("holiday type %s: %w", typeID, leave.ErrNotFound)
	}
	return &t, nil
}

type blackoutRepo struct {
	s    *Store
	inTx bool
}

func (r *blackoutRepo) Create(ctx context.Context, p *blackout.Period) error {
	defer r.s.lock(r.inTx)()
	r.s.d.blackouts = append(r.s.d.blackouts, *p)
	return nil
}

func (r *blackoutRepo) ListOverlapping(ctx context.Context, rng leave.DateRange) ([]blackout.Period, error) {
	defer r.s.lock(r.inTx)()
	var out []blackout.Period
	for _, p := range r.s.d.blackouts {
		if p.Range().Overlaps(rng) {
			out = append(out, p)
		}
	}
	return out, nil
}
