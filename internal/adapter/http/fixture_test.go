package http

import (
	"bytes"
	"encoding/json"
	stdhttp "net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"leave-engine/internal/adapter/middleware"
	"leave-engine/internal/domain/blackout"
	"leave-engine/internal/domain/holidaytype"
	"leave-engine/internal/domain/leave"
	"leave-engine/internal/testutil/memstore"
	"leave-engine/internal/testutil/portmock"
	"leave-engine/internal/usecase/approval"
	"leave-engine/internal/usecase/conflict"
	"leave-engine/internal/usecase/events"
	"leave-engine/internal/usecase/ledger"
	"leave-engine/internal/usecase/request"
	"leave-engine/internal/usecase/txrun"
)

const (
	typeAnnual = "0a1e5a0c4d2b4f7e9c3d1a2b3c4d5e6f"
	typeSick   = "1b2f6b1d5e3c4081ad4e2b3c4d5e6f70"
	alice      = "alice"
	manager    = "mgr"
	eve        = "eve"
)

var (
	testSecret = []byte("test-secret-0123456789")
	fixedNow   = time.Date(2025, 2, 10, 9, 0, 0, 0, time.UTC)
)

type server struct {
	e        *echo.Echo
	store    *memstore.Store
	sched    *portmock.Scheduler
	notifier *portmock.Notifier
	events   *events.Dispatcher
}

// newServer wires the real usecases over the in-memory store and mounts the
// routes behind JWT auth. idem may be nil.
func newServer(t *testing.T, idem echo.MiddlewareFunc) *server {
	t.Helper()
	store := memstore.New()
	limit := 20.0
	store.PutHolidayType(holidaytype.HolidayType{TypeID: typeAnnual, Code: "ANNUAL", Name: "Annual", RequiresApproval: true, MaxDaysPerYear: &limit, IsActive: true})
	store.PutHolidayType(holidaytype.HolidayType{TypeID: typeSick, Code: "SICK", Name: "Sick", IsActive: true})

	log := zap.NewNop()
	repos := store.Repos()
	led := ledger.New(repos.Entitlements, log)
	auth := &portmock.Authorizer{Reports: map[string][]string{manager: {alice}}}
	dir := &portmock.Directory{
		Departments: map[string]string{alice: "eng"},
		Managers:    map[string]string{alice: manager},
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
	uc := request.NewUsecase(request.Deps{
		Repos: repos, UoW: store, Ledger: led, Approvals: coord, Authorizer: auth,
		Directory: dir, Conflicts: detector, Events: dispatcher, Runner: runner, Now: now, Log: log,
	})

	ents := NewEntitlementHandler(led, log)
	ents.now = now

	e := echo.New()
	e.HideBanner = true
	e.Validator = NewValidator()
	Register(e, Handlers{
		Health:       NewHandler(nil),
		Requests:     NewRequestHandler(uc, log),
		Approvals:    NewApprovalHandler(coord, log),
		Entitlements: ents,
	}, middleware.JWTAuth(testSecret), idem)

	return &server{e: e, store: store, sched: sched, notifier: notifier, events: dispatcher}
}

// sent waits for background deliveries and returns what was published.
func (s *server) sent() []leave.Event {
	s.events.Wait()
	return s.notifier.Events()
}

func (s *server) blackout(t *testing.T, id, start, end string) {
	t.Helper()
	sd, _ := leave.ParseDate(start)
	ed, _ := leave.ParseDate(end)
	s.store.PutBlackout(blackout.Period{PeriodID: id, Name: id, StartDate: sd, EndDate: ed, Reason: "year-end freeze", AppliesToAll: true})
}

func mustJSON(v any) *bytes.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

// do sends body as JSON: a string is sent verbatim, anything else is marshalled.
func (s *server) do(t *testing.T, method, path, actor string, body any, hdr map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var rd *bytes.Reader
	switch b := body.(type) {
	case nil:
		rd = bytes.NewReader(nil)
	case string:
		rd = bytes.NewReader([]byte(b))
	default:
		rd = mustJSON(b)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if actor != "" {
		tok, err := middleware.IssueToken(testSecret, actor, time.Minute)
		if err != nil {
			t.Fatalf("IssueToken: %v", err)
		}
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+tok)
	}
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("bad json: %v; raw=%s", err, rec.Body.String())
	}
	return v
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("status = %d, want %d; body=%s", rec.Code, want, rec.Body.String())
	}
}

func draftBody(start, end string) map[string]any {
	return map[string]any{
		"holiday_type_id": typeAnnual,
		"start_date":      start,
		"end_date":        end,
		"start_half_day":  false,
		"end_half_day":    false,
		"reason":          "family trip",
	}
}

// createDraft posts a draft for alice and returns its id.
func (s *server) createDraft(t *testing.T, start, end string) string {
	t.Helper()
	rec := s.do(t, stdhttp.MethodPost, "/requests", alice, draftBody(start, end), nil)
	expectStatus(t, rec, stdhttp.StatusCreated)
	return decode[requestView](t, rec).RequestID
}

type requestView struct {
	RequestID string  `json:"request_id"`
	Status    string  `json:"status"`
	TotalDays float64 `json:"total_days"`
	Approvals []struct {
		ApproverID string `json:"approver_id"`
		Decision   string `json:"decision"`
		Level      int    `json:"level"`
	} `json:"approvals"`
	Conflicts []struct {
		Description string `json:"description"`
	} `json:"conflicts"`
	Blackouts []struct {
		ID string `json:"id"`
	} `json:"blackouts"`
	ConflictsChecked bool `json:"conflicts_checked"`
}
