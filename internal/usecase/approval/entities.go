package approval

import (
	"time"

	"go.uber.org/zap"

	domainApproval "leave-engine/internal/domain/approval"
	"leave-engine/internal/domain/leave"
	"leave-engine/internal/domain/uow"
	"leave-engine/internal/usecase/conflict"
	"leave-engine/internal/usecase/events"
	"leave-engine/internal/usecase/ledger"
	"leave-engine/internal/usecase/txrun"
)

type DecideInput struct {
	RequestID  string
	ApproverID string
	Decision   domainApproval.Decision
	Comments   string
}

// Deps wires a Coordinator. Repos serve reads outside a transaction.
type Deps struct {
	Repos      uow.Repos
	UoW        uow.UnitOfWork
	Ledger     *ledger.Ledger
	Authorizer leave.Authorizer
	Conflicts  *conflict.Detector
	Events     *events.Dispatcher
	Runner     txrun.Runner
	// Levels is the number of approvals a request needs; values below 1 mean 1.
	Levels int
	Now    func() time.Time
	Log    *zap.Logger
}
