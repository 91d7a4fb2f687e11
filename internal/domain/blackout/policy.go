package blackout

import "leave-engine/internal/domain/leave"

// Blocking collects every period that intersects r and applies to the
// department. It never stops at the first hit.
func Blocking(periods []Period, departmentID string, r leave.DateRange) []leave.BlockingPeriod {
	var out []leave.BlockingPeriod
	for _, p := range periods {
		if !p.Covers(departmentID) || !p.Range().Overlaps(r) {
			continue
		}
		out = append(out, leave.BlockingPeriod{
			ID:     p.PeriodID,
			Name:   p.Name,
			Reason: p.Reason,
			Range:  p.Range(),
		})
	}
	return out
}

func IsBlocked(periods []Period, departmentID string, r leave.DateRange) bool {
	return len(Blocking(periods, departmentID, r)) > 0
}

// Check returns a *leave.BlackoutViolationError listing every blocking period.
func Check(periods []Period, departmentID string, r leave.DateRange) error {
	if hits := Blocking(periods, departmentID, r); len(hits) > 0 {
		return &leave.BlackoutViolationError{Periods: hits}
	}
	return nil
}
