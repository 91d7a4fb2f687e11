package request

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	domainApproval "leave-engine/internal/domain/approval"
	"leave-engine/internal/domain/blackout"
	"leave-engine/internal/domain/entitlement"
	"leave-engine/internal/domain/holidaytype"
	"leave-engine/internal/domain/leave"
	domainRequest "leave-engine/internal/domain/request"
	"leave-engine/internal/domain/uow"
	"leave-engine/internal/usecase/approval"
	"leave-engine/internal/usecase/conflict"
	"leave-engine/internal/usecase/dto"
	"leave-engine/internal/usecase/events"
	"leave-engine/internal/usecase/ledger"
	"leave-engine/internal/usecase/txrun"
	"leave-engine/pkg/id"
)

// Usecase drives a request through DRAFT, PENDING and CANCELLED. Decisions
// belong to the approval coordinator, which Submit also uses for holiday
// types that need no sign-off.
type Usecase struct {
	repos      uow.Repos
	uow        uow.UnitOfWork
	ledger     *ledger.Ledger
	approvals  *approval.Coordinator
	authorizer leave.Authorizer
	directory  leave.Directory
	conflicts  *conflict.Detector
	events     *events.Dispatcher
	run        txrun.Runner
	now        func() time.Time
	log        *zap.Logger
}

func NewUsecase(d Deps) *Usecase {
	now := d.Now
	if now == nil {
		now = time.Now
	}
	return &Usecase{
		repos:      d.Repos,
		uow:        d.UoW,
		ledger:     d.Ledger,
		approvals:  d.Approvals,
		authorizer: d.Authorizer,
		directory:  d.Directory,
		conflicts:  d.Conflicts,
		events:     d.Events,
		run:        d.Runner,
		now:        now,
		log:        d.Log.Named("request"),
	}
}

// Create stores a DRAFT. Blackouts and job conflicts are reported, not
// enforced, until Submit.
func (u *Usecase) Create(ctx context.Context, in DraftInput) (*dto.RequestDTO, error) {
	if strings.TrimSpace(in.UserID) == "" {
		return nil, leave.Invalid("user_id", "is required")
	}
	rng, days, err := u.validateDraft(ctx, in)
	if err != nil {
		return nil, err
	}

	now := u.now().UTC()
	req := &domainRequest.HolidayRequest{
		RequestID:      id.NewID32(),
		UserID:         in.UserID,
		HolidayTypeID:  in.HolidayTypeID,
		StartDate:      rng.Start,
		EndDate:        rng.End,
		StartHalfDay:   in.StartHalfDay,
		EndHalfDay:     in.EndHalfDay,
		TotalDays:      days,
		Reason:         strings.TrimSpace(in.Reason),
		Status:         domainRequest.StatusDraft,
		StateUpdatedAt: now,
	}
	err = u.run.Do(ctx, func(ctx context.Context) error {
		return u.uow.WithinTx(ctx, func(r uow.Repos) error {
			return r.Requests.Create(ctx, req)
		})
	})
	if err != nil {
		return nil, err
	}
	u.log.Info("draft created", zap.String("request_id", req.RequestID), zap.String("user_id", req.UserID), zap.Float64("days", days))
	return u.withAdvice(ctx, req), nil
}

// EditDraft replaces the dates, flags, type and reason of the owner's DRAFT
// and recomputes its length.
func (u *Usecase) EditDraft(ctx context.Context, requestID string, in DraftInput) (*dto.RequestDTO, error) {
	rng, days, err := u.validateDraft(ctx, in)
	if err != nil {
		return nil, err
	}

	var out *domainRequest.HolidayRequest
	err = u.run.Do(ctx, func(ctx context.Context) error {
		return u.uow.WithinRequestTx(ctx, requestID, func(r uow.Repos, req *domainRequest.HolidayRequest) error {
			if err := ownedBy(req, in.UserID); err != nil {
				return err
			}
			if !req.Editable() {
				return fmt.Errorf("edit %s request: %w", req.Status, leave.ErrInvalidState)
			}
			req.HolidayTypeID = in.HolidayTypeID
			req.StartDate, req.EndDate = rng.Start, rng.End
			req.StartHalfDay, req.EndHalfDay = in.StartHalfDay, in.EndHalfDay
			req.TotalDays = days
			req.Reason = strings.TrimSpace(in.Reason)
			if err := r.Requests.Update(ctx, req); err != nil {
				return err
			}
			out = req
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	u.log.Info("draft edited", zap.String("request_id", requestID), zap.Float64("days", days))
	return u.withAdvice(ctx, out), nil
}

// Preview evaluates a candidate range without writing anything.
func (u *Usecase) Preview(ctx context.Context, in DraftInput) (*dto.PreviewDTO, error) {
	rng, err := leave.NewDateRange(in.StartDate, in.EndDate)
	if err != nil {
		return nil, err
	}
	days, err := leave.WorkingDays(rng, in.StartHalfDay, in.EndHalfDay)
	if err != nil {
		return nil, err
	}
	out := &dto.PreviewDTO{TotalDays: days}
	if in.UserID == "" {
		return out, nil
	}
	out.Blackouts = u.blackoutWarnings(ctx, in.UserID, rng)
	out.Blocked = len(out.Blackouts) > 0
	out.Conflicts, out.ConflictsChecked = u.surface(ctx, in.UserID, rng)
	return out, nil
}

// Submit moves the owner's DRAFT to PENDING and reserves its days. For
// holiday types that need no approval the request is approved in the same
// transaction.
func (u *Usecase) Submit(ctx context.Context, requestID, userID string) (*dto.RequestDTO, error) {
	if userID == "" {
		return nil, leave.Invalid("user_id", "is required")
	}
	var dept string
	err := u.run.Do(ctx, func(ctx context.Context) error {
		var err error
		dept, err = u.directory.DepartmentOf(ctx, userID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("department of %s: %w", userID, err)
	}

	var out *domainRequest.HolidayRequest
	err = u.run.Do(ctx, func(ctx context.Context) error {
		return u.uow.WithinRequestTx(ctx, requestID, func(r uow.Repos, req *domainRequest.HolidayRequest) error {
			if err := ownedBy(req, userID); err != nil {
				return err
			}
			if !req.Status.CanTransition(domainRequest.StatusPending) {
				return fmt.Errorf("submit %s request: %w", req.Status, leave.ErrInvalidState)
			}
			if req.HolidayTypeID == "" {
				return leave.Invalid("holiday_type_id", "is required")
			}
			rng, err := leave.NewDateRange(req.StartDate, req.EndDate)
			if err != nil {
				return err
			}
			days, err := leave.WorkingDays(rng, req.StartHalfDay, req.EndHalfDay)
			if err != nil {
				return err
			}
			req.TotalDays = days

			ht, err := activeType(ctx, r.HolidayTypes, req.HolidayTypeID)
			if err != nil {
				return err
			}
			periods, err := r.Blackouts.ListOverlapping(ctx, rng)
			if err != nil {
				return err
			}
			if err := blackout.Check(periods, dept, rng); err != nil {
				return err
			}

			k := entitlement.Key{UserID: req.UserID, HolidayTypeID: req.HolidayTypeID, Year: req.EntitlementYear()}
			if _, err := u.ledger.Reserve(ctx, r.Entitlements, k, days, ht.MaxDaysPerYear); err != nil {
				return err
			}
			if err := req.Transition(domainRequest.StatusPending, u.now()); err != nil {
				return err
			}
			if err := r.Requests.Update(ctx, req); err != nil {
				return err
			}

			if !ht.RequiresApproval {
				system := domainApproval.Approval{
					ApproverID: domainApproval.SystemApprover,
					Decision:   domainApproval.DecisionApproved,
					Comments:   "approval not required for " + ht.Code,
				}
				if err := u.approvals.Apply(ctx, r, req, system); err != nil {
					return err
				}
			}
			out = req
			return nil
		})
	})
	if err != nil {
		u.log.Info("submit refused", zap.String("request_id", requestID), zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	u.log.Info("request submitted",
		zap.String("request_id", out.RequestID),
		zap.String("status", string(out.Status)),
		zap.Float64("days", out.TotalDays))
	if out.Status == domainRequest.StatusPending {
		u.events.Send(ctx, leave.Event{Type: leave.EventSubmitted, RequestID: out.RequestID, RecipientID: u.managerOf(ctx, out.UserID)})
	} else {
		u.events.Send(ctx, u.approvals.Outcome(out)...)
	}

	res := dto.FromRequest(out)
	res.Conflicts, res.ConflictsChecked = u.surface(ctx, out.UserID, out.Range())
	return res, nil
}

// Cancel withdraws the owner's request, returning reserved or taken days.
func (u *Usecase) Cancel(ctx context.Context, requestID, userID string) (*dto.RequestDTO, error) {
	var (
		out  *domainRequest.HolidayRequest
		from domainRequest.Status
	)
	err := u.run.Do(ctx, func(ctx context.Context) error {
		return u.uow.WithinRequestTx(ctx, requestID, func(r uow.Repos, req *domainRequest.HolidayRequest) error {
			if err := ownedBy(req, userID); err != nil {
				return err
			}
			from = req.Status
			if err := req.Transition(domainRequest.StatusCancelled, u.now()); err != nil {
				return err
			}

			k := entitlement.Key{UserID: req.UserID, HolidayTypeID: req.HolidayTypeID, Year: req.EntitlementYear()}
			switch from {
			case domainRequest.StatusPending:
				if _, err := u.ledger.Release(ctx, r.Entitlements, k, req.TotalDays); err != nil {
					return err
				}
			case domainRequest.StatusApproved:
				if _, err := u.ledger.Reverse(ctx, r.Entitlements, k, req.TotalDays); err != nil {
					return err
				}
			}
			if err := r.Requests.Update(ctx, req); err != nil {
				return err
			}
			out = req
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	u.log.Info("request cancelled", zap.String("request_id", requestID), zap.String("from", string(from)))
	if from != domainRequest.StatusDraft {
		u.events.Send(ctx, leave.Event{Type: leave.EventCancelled, RequestID: out.RequestID, RecipientID: u.managerOf(ctx, out.UserID)})
	}
	return dto.FromRequest(out), nil
}

// Get returns a request to its owner or to someone managing the owner.
func (u *Usecase) Get(ctx context.Context, requestID, actorID string) (*dto.RequestDTO, error) {
	req, err := u.visible(ctx, requestID, actorID)
	if err != nil {
		return nil, err
	}
	return dto.FromRequest(req), nil
}

// ListMine returns the actor's own requests, newest first.
func (u *Usecase) ListMine(ctx context.Context, userID string, status domainRequest.Status) ([]dto.RequestDTO, error) {
	if userID == "" {
		return nil, leave.Invalid("user_id", "is required")
	}
	if status != "" && !status.Valid() {
		return nil, leave.Invalid("status", "is not a known status")
	}
	var rows []domainRequest.HolidayRequest
	err := u.run.Do(ctx, func(ctx context.Context) error {
		var err error
		rows, err = u.repos.Requests.ListByUser(ctx, userID, status)
		return err
	})
	if err != nil {
		return nil, err
	}
	out := make([]dto.RequestDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *dto.FromRequest(&rows[i]))
	}
	return out, nil
}

// Conflicts lists job assignments overlapping the request's dates.
func (u *Usecase) Conflicts(ctx context.Context, requestID, actorID string) ([]leave.JobConflict, error) {
	req, err := u.visible(ctx, requestID, actorID)
	if err != nil {
		return nil, err
	}
	var out []leave.JobConflict
	err = u.run.Do(ctx, func(ctx context.Context) error {
		var err error
		out, err = u.conflicts.FindConflicts(ctx, req.UserID, req.Range())
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (u *Usecase) validateDraft(ctx context.Context, in DraftInput) (leave.DateRange, float64, error) {
	if strings.TrimSpace(in.HolidayTypeID) == "" {
		return leave.DateRange{}, 0, leave.Invalid("holiday_type_id", "is required")
	}
	rng, err := leave.NewDateRange(in.StartDate, in.EndDate)
	if err != nil {
		return leave.DateRange{}, 0, err
	}
	days, err := leave.WorkingDays(rng, in.StartHalfDay, in.EndHalfDay)
	if err != nil {
		return leave.DateRange{}, 0, err
	}
	err = u.run.Do(ctx, func(ctx context.Context) error {
		_, err := activeType(ctx, u.repos.HolidayTypes, in.HolidayTypeID)
		return err
	})
	if err != nil {
		return leave.DateRange{}, 0, err
	}
	return rng, days, nil
}

func (u *Usecase) visible(ctx context.Context, requestID, actorID string) (*domainRequest.HolidayRequest, error) {
	if actorID == "" {
		return nil, fmt.Errorf("missing actor: %w", leave.ErrUnauthorized)
	}
	var req *domainRequest.HolidayRequest
	err := u.run.Do(ctx, func(ctx context.Context) error {
		var err error
		req, err = u.repos.Requests.GetByRequestID(ctx, requestID)
		return err
	})
	if err != nil {
		return nil, err
	}
	if req.UserID == actorID {
		return req, nil
	}
	var ok bool
	err = u.run.Do(ctx, func(ctx context.Context) error {
		var err error
		ok, err = u.authorizer.IsManagerOf(ctx, actorID, req.UserID)
		return err
	})
	if err != nil {
		return nil, err
	}
	if !ok {
		// not yours and not your report: indistinguishable from absent
		return nil, fmt.Errorf("request %s: %w", requestID, leave.ErrNotFound)
	}
	return req, nil
}

// withAdvice attaches the non-binding blackout and conflict findings shown
// while a request is still a draft.
func (u *Usecase) withAdvice(ctx context.Context, req *domainRequest.HolidayRequest) *dto.RequestDTO {
	out := dto.FromRequest(req)
	out.Blackouts = u.blackoutWarnings(ctx, req.UserID, req.Range())
	out.Conflicts, out.ConflictsChecked = u.surface(ctx, req.UserID, req.Range())
	return out
}

// surface runs the advisory conflict lookup under the store deadline.
func (u *Usecase) surface(ctx context.Context, userID string, rng leave.DateRange) (conflicts []leave.JobConflict, checked bool) {
	_ = u.run.Do(ctx, func(ctx context.Context) error {
		conflicts, checked = u.conflicts.Surface(ctx, userID, rng)
		return nil
	})
	return conflicts, checked
}

func (u *Usecase) blackoutWarnings(ctx context.Context, userID string, rng leave.DateRange) []leave.BlockingPeriod {
	var dept string
	err := u.run.Do(ctx, func(ctx context.Context) error {
		var err error
		dept, err = u.directory.DepartmentOf(ctx, userID)
		return err
	})
	if err != nil {
		u.log.Warn("department lookup failed", zap.String("user_id", userID), zap.Error(err))
		return nil
	}
	var periods []blackout.Period
	err = u.run.Do(ctx, func(ctx context.Context) error {
		var err error
		periods, err = u.repos.Blackouts.ListOverlapping(ctx, rng)
		return err
	})
	if err != nil {
		u.log.Warn("blackout lookup failed", zap.String("user_id", userID), zap.Error(err))
		return nil
	}
	return blackout.Blocking(periods, dept, rng)
}

func (u *Usecase) managerOf(ctx context.Context, userID string) string {
	var m string
	err := u.run.Do(ctx, func(ctx context.Context) error {
		var err error
		m, err = u.directory.ManagerOf(ctx, userID)
		return err
	})
	if err != nil {
		u.log.Warn("manager lookup failed", zap.String("user_id", userID), zap.Error(err))
		return ""
	}
	return m
}

func activeType(ctx context.Context, repo holidaytype.Repository, typeID string) (*holidaytype.HolidayType, error) {
	ht, err := repo.GetByTypeID(ctx, typeID)
	if errors.Is(err, leave.ErrNotFound) {
		return nil, leave.Invalid("holiday_type_id", "does not exist")
	}
	if err != nil {
		return nil, err
	}
	if !ht.IsActive {
		return nil, leave.Invalid("holiday_type_id", "is inactive")
	}
	return ht, nil
}

func ownedBy(req *domainRequest.HolidayRequest, userID string) error {
	if userID == "" || req.UserID != userID {
		return fmt.Errorf("request %s belongs to another user: %w", req.RequestID, leave.ErrUnauthorized)
	}
	return nil
}
