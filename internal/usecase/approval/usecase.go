package approval

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	domainApproval "leave-engine/internal/domain/approval"
	"leave-engine/internal/domain/entitlement"
	"leave-engine/internal/domain/leave"
	"leave-engine/internal/domain/request"
	"leave-engine/internal/domain/uow"
	"leave-engine/internal/usecase/conflict"
	"leave-engine/internal/usecase/dto"
	"leave-engine/internal/usecase/events"
	"leave-engine/internal/usecase/ledger"
	"leave-engine/internal/usecase/txrun"
	"leave-engine/pkg/id"
)

// Coordinator records approver decisions on pending requests and settles
// the entitlement ledger in the same transaction.
type Coordinator struct {
	requests   request.Repository
	uow        uow.UnitOfWork
	ledger     *ledger.Ledger
	authorizer leave.Authorizer
	conflicts  *conflict.Detector
	events     *events.Dispatcher
	run        txrun.Runner
	levels     int
	now        func() time.Time
	log        *zap.Logger
}

func NewCoordinator(d Deps) *Coordinator {
	levels := d.Levels
	if levels < 1 {
		levels = 1
	}
	now := d.Now
	if now == nil {
		now = time.Now
	}
	return &Coordinator{
		requests:   d.Repos.Requests,
		uow:        d.UoW,
		ledger:     d.Ledger,
		authorizer: d.Authorizer,
		conflicts:  d.Conflicts,
		events:     d.Events,
		run:        d.Runner,
		levels:     levels,
		now:        now,
		log:        d.Log.Named("approval"),
	}
}

// Decide approves or rejects a PENDING request. The returned request carries
// the outcome and any job conflicts the approver should weigh.
func (c *Coordinator) Decide(ctx context.Context, in DecideInput) (*dto.RequestDTO, error) {
	if in.ApproverID == "" {
		return nil, fmt.Errorf("missing approver: %w", leave.ErrUnauthorized)
	}
	if !in.Decision.Valid() {
		return nil, leave.Invalid("decision", "must be APPROVED or REJECTED")
	}
	comments := strings.TrimSpace(in.Comments)

	var current *request.HolidayRequest
	err := c.run.Do(ctx, func(ctx context.Context) error {
		var err error
		current, err = c.requests.GetByRequestID(ctx, in.RequestID)
		return err
	})
	if err != nil {
		return nil, err
	}
	if current.Status != request.StatusPending {
		return nil, fmt.Errorf("decide on %s request: %w", current.Status, leave.ErrInvalidState)
	}
	err = c.run.Do(ctx, func(ctx context.Context) error {
		return c.authorize(ctx, in.ApproverID, current.UserID)
	})
	if err != nil {
		return nil, err
	}
	if in.Decision == domainApproval.DecisionRejected && comments == "" {
		return nil, leave.Invalid("comments", "are required when rejecting")
	}

	var out *request.HolidayRequest
	err = c.run.Do(ctx, func(ctx context.Context) error {
		return c.uow.WithinRequestTx(ctx, in.RequestID, func(r uow.Repos, req *request.HolidayRequest) error {
			a := domainApproval.Approval{
				ApproverID: in.ApproverID,
				Decision:   in.Decision,
				Comments:   comments,
			}
			if err := c.Apply(ctx, r, req, a); err != nil {
				return err
			}
			out = req
			return nil
		})
	})
	if err != nil {
		c.log.Info("decision refused",
			zap.String("request_id", in.RequestID),
			zap.String("approver_id", in.ApproverID),
			zap.String("decision", string(in.Decision)),
			zap.Error(err))
		return nil, err
	}

	c.log.Info("decision recorded",
		zap.String("request_id", out.RequestID),
		zap.String("approver_id", in.ApproverID),
		zap.String("decision", string(in.Decision)),
		zap.String("status", string(out.Status)))
	c.events.Send(ctx, c.Outcome(out)...)

	res := dto.FromRequest(out)
	_ = c.run.Do(ctx, func(ctx context.Context) error {
		res.Conflicts, res.ConflictsChecked = c.conflicts.Surface(ctx, out.UserID, out.Range())
		return nil
	})
	return res, nil
}

// Apply records one decision on a locked PENDING request inside the
// caller's transaction: the approval row, the status change and the ledger
// movement commit together. An approval below the final level leaves the
// request PENDING.
func (c *Coordinator) Apply(ctx context.Context, r uow.Repos, req *request.HolidayRequest, a domainApproval.Approval) error {
	if req.Status != request.StatusPending {
		return fmt.Errorf("decide on %s request: %w", req.Status, leave.ErrInvalidState)
	}
	if a.Decision == domainApproval.DecisionRejected && strings.TrimSpace(a.Comments) == "" {
		return leave.Invalid("comments", "are required when rejecting")
	}
	for _, prior := range req.Approvals {
		if prior.ApproverID == a.ApproverID {
			return fmt.Errorf("%s already decided at level %d: %w", a.ApproverID, prior.Level, leave.ErrInvalidState)
		}
	}

	now := c.now().UTC()
	a.ApprovalID = id.NewID32()
	a.RequestID = req.RequestID
	a.Level = len(req.Approvals) + 1
	a.DecidedAt = now
	if err := r.Approvals.Create(ctx, &a); err != nil {
		return err
	}
	req.Approvals = append(req.Approvals, a)

	k := entitlement.Key{UserID: req.UserID, HolidayTypeID: req.HolidayTypeID, Year: req.EntitlementYear()}
	switch {
	case a.Decision == domainApproval.DecisionRejected:
		if err := req.Transition(request.StatusRejected, now); err != nil {
			return err
		}
		if _, err := c.ledger.Release(ctx, r.Entitlements, k, req.TotalDays); err != nil {
			return err
		}
	case a.Level >= c.levels || a.ApproverID == domainApproval.SystemApprover:
		if err := req.Transition(request.StatusApproved, now); err != nil {
			return err
		}
		if _, err := c.ledger.Settle(ctx, r.Entitlements, k, req.TotalDays); err != nil {
			return err
		}
	default:
		req.StateUpdatedAt = now
	}
	return r.Requests.Update(ctx, req)
}

// Outcome lists the notifications owed for a request's current status.
func (c *Coordinator) Outcome(req *request.HolidayRequest) []leave.Event {
	switch req.Status {
	case request.StatusApproved:
		return []leave.Event{{Type: leave.EventApproved, RequestID: req.RequestID, RecipientID: req.UserID}}
	case request.StatusRejected:
		return []leave.Event{{Type: leave.EventRejected, RequestID: req.RequestID, RecipientID: req.UserID}}
	}
	return nil
}

func (c *Coordinator) authorize(ctx context.Context, approverID, userID string) error {
	if approverID == userID {
		return fmt.Errorf("%s deciding own request: %w", approverID, leave.ErrUnauthorized)
	}
	ok, err := c.authorizer.IsManagerOf(ctx, approverID, userID)
	if err != nil {
		return fmt.Errorf("authorize %s over %s: %w", approverID, userID, err)
	}
	if !ok {
		return fmt.Errorf("%s over %s: %w", approverID, userID, leave.ErrUnauthorized)
	}
	return nil
}
