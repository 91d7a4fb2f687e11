package leave

import (
	"encoding/json"
	"fmt"
	"time"
)

const DateLayout = "2006-01-02"

// MaxSpanDays caps one request at a leap year of calendar days, inclusive.
const MaxSpanDays = 366

// DateRange is an inclusive span of calendar days. Both ends are normalised
// to midnight UTC.
type DateRange struct {
	Start time.Time
	End   time.Time
}

func NewDateRange(start, end time.Time) (DateRange, error) {
	r := DateRange{Start: Day(start), End: Day(end)}
	if r.Start.IsZero() {
		return DateRange{}, Invalid("start_date", "is required")
	}
	if r.End.IsZero() {
		return DateRange{}, Invalid("end_date", "is required")
	}
	if r.End.Before(r.Start) {
		return DateRange{}, Invalid("end_date", "must not be before start_date")
	}
	return r, nil
}

// Day truncates t to its calendar date in UTC. The zero time stays zero.
func Day(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}

// Overlaps is inclusive on both ends.
func (r DateRange) Overlaps(o DateRange) bool {
	return !o.Start.After(r.End) && !r.Start.After(o.End)
}

func (r DateRange) Contains(t time.Time) bool {
	d := Day(t)
	return !d.Before(r.Start) && !d.After(r.End)
}

// SpanDays is the number of calendar days in r, both ends included.
func (r DateRange) SpanDays() int {
	return int(r.End.Sub(r.Start).Hours()/24) + 1
}

func (r DateRange) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Start string `json:"start"`
		End   string `json:"end"`
	}{r.Start.Format(DateLayout), r.End.Format(DateLayout)})
}

// WorkingDays counts Monday to Friday in r and takes half a day off for each
// half-day flag. The half-day deduction applies even when that boundary is a
// weekend. Public holidays are not excluded. Ranges longer than MaxSpanDays
// are rejected.
func WorkingDays(r DateRange, startHalf, endHalf bool) (float64, error) {
	if r.Start.IsZero() || r.End.IsZero() || r.End.Before(r.Start) {
		return 0, Invalid("dates", "must form a range with start_date <= end_date")
	}
	if r.SpanDays() > MaxSpanDays {
		return 0, Invalid("dates", fmt.Sprintf("must not span more than %d days", MaxSpanDays))
	}
	var days float64
	for d := r.Start; !d.After(r.End); d = d.AddDate(0, 0, 1) {
		switch d.Weekday() {
		case time.Saturday, time.Sunday:
		default:
			days++
		}
	}
	if startHalf {
		days -= 0.5
	}
	if endHalf {
		days -= 0.5
	}
	if days <= 0 {
		return 0, Invalid("dates", "must cover at least half a working day")
	}
	return days, nil
}
