package conflict

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"leave-engine/internal/domain/leave"
	"leave-engine/internal/testutil/portmock"
)

func rng(t *testing.T, s, e string) leave.DateRange {
	t.Helper()
	start, err := leave.ParseDate(s)
	if err != nil {
		t.Fatal(err)
	}
	end, err := leave.ParseDate(e)
	if err != nil {
		t.Fatal(err)
	}
	return leave.DateRange{Start: start, End: end}
}

func TestFindConflicts_FiltersAndOrders(t *testing.T) {
	sched := &portmock.Scheduler{Jobs: map[string][]leave.JobConflict{
		"u-1": {
			{Description: "site visit", Range: rng(t, "2025-03-05", "2025-03-06")},
			{Description: "outside", Range: rng(t, "2025-04-01", "2025-04-02")},
			{Description: "install", Range: rng(t, "2025-02-27", "2025-03-03")},
		},
	}}
	d := NewDetector(sched, zap.NewNop())

	got, err := d.FindConflicts(context.Background(), "u-1", rng(t, "2025-03-03", "2025-03-07"))
	if err != nil {
		t.Fatalf("FindConflicts: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("want 2 conflicts, got %+v", got)
	}
	if got[0].Description != "install" || got[1].Description != "site visit" {
		t.Fatalf("unexpected order: %+v", got)
	}
}

func TestFindConflicts_NoneIsEmptyNotError(t *testing.T) {
	d := NewDetector(&portmock.Scheduler{}, zap.NewNop())
	got, err := d.FindConflicts(context.Background(), "u-1", leave.DateRange{Start: time.Now(), End: time.Now()})
	if err != nil || len(got) != 0 {
		t.Fatalf("got=%v err=%v", got, err)
	}
}

func TestSurface_SchedulerDown(t *testing.T) {
	d := NewDetector(&portmock.Scheduler{Err: errors.New("scheduler down")}, zap.NewNop())
	got, checked := d.Surface(context.Background(), "u-1", rng(t, "2025-03-03", "2025-03-07"))
	if checked || got != nil {
		t.Fatalf("want unchecked, got %v %v", got, checked)
	}

	var nilDetector *Detector
	if _, checked := nilDetector.Surface(context.Background(), "u-1", rng(t, "2025-03-03", "2025-03-07")); checked {
		t.Fatal("nil detector must report unchecked")
	}
}
