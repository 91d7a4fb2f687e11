package dto

import (
	"time"

	"leave-engine/internal/domain/approval"
	"leave-engine/internal/domain/entitlement"
	"leave-engine/internal/domain/leave"
	"leave-engine/internal/domain/request"
)

type ApprovalDTO struct {
	ApprovalID string    `json:"approval_id"`
	ApproverID string    `json:"approver_id"`
	Decision   string    `json:"decision"`
	Comments   string    `json:"comments,omitempty"`
	Level      int       `json:"level"`
	DecidedAt  time.Time `json:"decided_at"`
}

// RequestDTO is what every request operation hands back, so callers render
// from the return value instead of re-fetching.
type RequestDTO struct {
	RequestID     string        `json:"request_id"`
	UserID        string        `json:"user_id"`
	HolidayTypeID string        `json:"holiday_type_id"`
	StartDate     string        `json:"start_date"`
	EndDate       string        `json:"end_date"`
	StartHalfDay  bool          `json:"start_half_day"`
	EndHalfDay    bool          `json:"end_half_day"`
	TotalDays     float64       `json:"total_days"`
	Reason        string        `json:"reason"`
	Status        string        `json:"status"`
	SubmittedAt   *time.Time    `json:"submitted_at,omitempty"`
	Approvals     []ApprovalDTO `json:"approvals"`

	// Informational only; neither blocks anything on a draft.
	Conflicts        []leave.JobConflict    `json:"conflicts,omitempty"`
	ConflictsChecked bool                   `json:"conflicts_checked"`
	Blackouts        []leave.BlockingPeriod `json:"blackouts,omitempty"`
}

type PreviewDTO struct {
	TotalDays        float64                `json:"total_days"`
	Blocked          bool                   `json:"blocked"`
	Blackouts        []leave.BlockingPeriod `json:"blackouts,omitempty"`
	Conflicts        []leave.JobConflict    `json:"conflicts,omitempty"`
	ConflictsChecked bool                   `json:"conflicts_checked"`
}

type EntitlementDTO struct {
	HolidayTypeID string   `json:"holiday_type_id"`
	Year          int      `json:"year"`
	TotalDays     *float64 `json:"total_days"`
	DaysTaken     float64  `json:"days_taken"`
	DaysPending   float64  `json:"days_pending"`
	DaysRemaining *float64 `json:"days_remaining"`
}

func FromApproval(a approval.Approval) ApprovalDTO {
	return ApprovalDTO{
		ApprovalID: a.ApprovalID,
		ApproverID: a.ApproverID,
		Decision:   string(a.Decision),
		Comments:   a.Comments,
		Level:      a.Level,
		DecidedAt:  a.DecidedAt,
	}
}

func FromRequest(r *request.HolidayRequest) *RequestDTO {
	out := &RequestDTO{
		RequestID:     r.RequestID,
		UserID:        r.UserID,
		HolidayTypeID: r.HolidayTypeID,
		StartDate:     r.StartDate.Format(leave.DateLayout),
		EndDate:       r.EndDate.Format(leave.DateLayout),
		StartHalfDay:  r.StartHalfDay,
		EndHalfDay:    r.EndHalfDay,
		TotalDays:     r.TotalDays,
		Reason:        r.Reason,
		Status:        string(r.Status),
		SubmittedAt:   r.SubmittedAt,
		Approvals:     make([]ApprovalDTO, 0, len(r.Approvals)),
	}
	for _, a := range r.Approvals {
		out.Approvals = append(out.Approvals, FromApproval(a))
	}
	return out
}

func FromEntitlement(e entitlement.Entitlement) EntitlementDTO {
	return EntitlementDTO{
		HolidayTypeID: e.HolidayTypeID,
		Year:          e.Year,
		TotalDays:     e.TotalDays,
		DaysTaken:     e.DaysTaken,
		DaysPending:   e.DaysPending,
		DaysRemaining: e.Remaining(),
	}
}
