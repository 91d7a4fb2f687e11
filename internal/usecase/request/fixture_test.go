package request

import (
	"testing"
	"time"

	"go.uber.org/zap"

	"leave-engine/internal/domain/blackout"
	"leave-engine/internal/domain/entitlement"
	"leave-engine/internal/domain/holidaytype"
	"leave-engine/internal/domain/leave"
	"leave-engine/internal/testutil/memstore"
	"leave-engine/internal/testutil/portmock"
	"leave-engine/internal/usecase/approval"
	"leave-engine/internal/usecase/conflict"
	"leave-engine/internal/usecase/events"
	"leave-engine/internal/usecase/ledger"
	"leave-engine/internal/usecase/txrun"
)

const (
	typeAnnual   = "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	typeSick     = "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
	typeRetired  = "cccccccccccccccccccccccccccccccc"
	annualLimit  = 20.0
	fixtureYear  = 2025
	ownerAlice   = "alice"
	ownerBob     = "bob"
	managerMgr   = "mgr"
	strangerEve  = "eve"
	departmentEn = "eng"
)

var fixedNow = time.Date(2025, 2, 10, 9, 0, 0, 0, time.UTC)

type fixture struct {
	store    *memstore.Store
	uc       *Usecase
	coord    *approval.Coordinator
	notifier *portmock.Notifier
	events   *events.Dispatcher
	sched    *portmock.Scheduler
	dir      *portmock.Directory
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memstore.New()
	limit := annualLimit
	store.PutHolidayType(holidaytype.HolidayType{TypeID: typeAnnual, Code: "AL", Name: "Annual", RequiresApproval: true, MaxDaysPerYear: &limit, IsActive: true})
	store.PutHolidayType(holidaytype.HolidayType{TypeID: typeSick, Code: "SL", Name: "Sick", RequiresApproval: false, IsActive: true})
	store.PutHolidayType(holidaytype.HolidayType{TypeID: typeRetired, Code: "OLD", Name: "Retired", RequiresApproval: true, IsActive: false})

	log := zap.NewNop()
	repos := store.Repos()
	led := ledger.New(repos.Entitlements, log)
	auth := &portmock.Authorizer{Reports: map[string][]string{managerMgr: {ownerAlice, ownerBob}}}
	dir := &portmock.Directory{
		Departments: map[string]string{ownerAlice: departmentEn, ownerBob: "ops"},
		Managers:    map[string]string{ownerAlice: managerMgr, ownerBob: managerMgr},
	}
	sched := &portmock.Scheduler{Jobs: map[string][]leave.JobConflict{}}
	notifier := &portmock.Notifier{}
	detector := conflict.NewDetector(sched, log)
	dispatcher := events.NewDispatcher(notifier, log)
	now := func() time.Time { return fixedNow }
	runner := txrun.Runner{Timeout: time.Second, Attempts: 3}

	coord := approval.NewCoordinator(approval.Deps{
		Repos: repos, UoW: store, Ledger: led, Authorizer: auth,
		Conflicts: detector, Events: dispatcher, Runner: runner, Now: now, Log: log,
	})
	uc := NewUsecase(Deps{
		Repos: repos, UoW: store, Ledger: led, Approvals: coord, Authorizer: auth,
		Directory: dir, Conflicts: detector, Events: dispatcher, Runner: runner, Now: now, Log: log,
	})
	return &fixture{store: store, uc: uc, coord: coord, notifier: notifier, events: dispatcher, sched: sched, dir: dir}
}

// sent waits for background deliveries and returns what was published.
func (f *fixture) sent() []leave.Event {
	f.events.Wait()
	return f.notifier.Events()
}

func day(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := leave.ParseDate(s)
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func draft(t *testing.T, user, typeID, start, end string) DraftInput {
	return DraftInput{UserID: user, HolidayTypeID: typeID, StartDate: day(t, start), EndDate: day(t, end), Reason: "trip"}
}

func (f *fixture) balance(user, typeID string) entitlement.Entitlement {
	e, _ := f.store.Entitlement(entitlement.Key{UserID: user, HolidayTypeID: typeID, Year: fixtureYear})
	return e
}

func (f *fixture) blackout(t *testing.T, id, start, end string, dept string) {
	p := blackout.Period{PeriodID: id, Name: id, StartDate: day(t, start), EndDate: day(t, end), Reason: "freeze"}
	if dept == "" {
		p.AppliesToAll = true
	} else {
		p.DepartmentID = &dept
	}
	f.store.PutBlackout(p)
}
