package conflict

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"leave-engine/internal/domain/leave"
)

// Detector reports job assignments that overlap a leave range. Its output
// is advisory and never blocks a transition.
type Detector struct {
	scheduler leave.Scheduler
	log       *zap.Logger
}

func NewDetector(s leave.Scheduler, log *zap.Logger) *Detector {
	return &Detector{scheduler: s, log: log.Named("conflict")}
}

// FindConflicts returns overlapping assignments ordered by start date.
func (d *Detector) FindConflicts(ctx context.Context, userID string, r leave.DateRange) ([]leave.JobConflict, error) {
	jobs, err := d.scheduler.JobAssignments(ctx, userID, r)
	if err != nil {
		return nil, err
	}
	out := make([]leave.JobConflict, 0, len(jobs))
	for _, j := range jobs {
		if j.Range.Overlaps(r) {
			out = append(out, j)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Range.Start.Before(out[j].Range.Start) })
	return out, nil
}

// Surface is FindConflicts for callers that must not fail on it: a
// scheduler error is logged and reported through checked=false.
func (d *Detector) Surface(ctx context.Context, userID string, r leave.DateRange) (conflicts []leave.JobConflict, checked bool) {
	if d == nil || d.scheduler == nil {
		return nil, false
	}
	conflicts, err := d.FindConflicts(ctx, userID, r)
	if err != nil {
		d.log.Warn("job conflict lookup failed", zap.String("user_id", userID), zap.Error(err))
		return nil, false
	}
	return conflicts, true
}
