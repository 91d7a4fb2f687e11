package request

import (
	"time"

	"go.uber.org/zap"

	"leave-engine/internal/domain/leave"
	"leave-engine/internal/domain/uow"
	"leave-engine/internal/usecase/approval"
	"leave-engine/internal/usecase/conflict"
	"leave-engine/internal/usecase/events"
	"leave-engine/internal/usecase/ledger"
	"leave-engine/internal/usecase/txrun"
)

// DraftInput carries the editable fields of a request. Dates are calendar
// days; any time of day is dropped.
type DraftInput struct {
	UserID        string
	HolidayTypeID string
	StartDate     time.Time
	EndDate       time.Time
	StartHalfDay  bool
	EndHalfDay    bool
	Reason        string
}

type Deps struct {
	Repos      uow.Repos
	UoW        uow.UnitOfWork
	Ledger     *ledger.Ledger
	Approvals  *approval.Coordinator
	Authorizer leave.Authorizer
	Directory  leave.Directory
	Conflicts  *conflict.Detector
	Events     *events.Dispatcher
	Runner     txrun.Runner
	Now        func() time.Time
	Log        *zap.Logger
}
