package request

import (
	"time"

	"leave-engine/internal/domain/approval"
	"leave-engine/internal/domain/leave"
)

type Status string

const (
	StatusDraft     Status = "DRAFT"
	StatusPending   Status = "PENDING"
	StatusApproved  Status = "APPROVED"
	StatusRejected  Status = "REJECTED"
	StatusCancelled Status = "CANCELLED"
)

// Table: holiday_requests. TotalDays is stored when computed and never
// recalculated on read.
type HolidayRequest struct {
	ID             uint64     `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	RequestID      string     `gorm:"column:request_id;type:char(32);not null;uniqueIndex:ux_holiday_requests_request_id" json:"id"`
	UserID         string     `gorm:"column:user_id;size:64;not null;index:idx_holiday_requests_user_status" json:"user_id"`
	HolidayTypeID  string     `gorm:"column:holiday_type_id;type:char(32);not null" json:"holiday_type_id"`
	StartDate      time.Time  `gorm:"column:start_date;type:date;not null" json:"start_date"`
	EndDate        time.Time  `gorm:"column:end_date;type:date;not null" json:"end_date"`
	StartHalfDay   bool       `gorm:"column:start_half_day;not null;default:false" json:"start_half_day"`
	EndHalfDay     bool       `gorm:"column:end_half_day;not null;default:false" json:"end_half_day"`
	TotalDays      float64    `gorm:"column:total_days;type:decimal(6,2);not null" json:"total_days"`
	Reason         string     `gorm:"column:reason;type:text" json:"reason"`
	Status         Status     `gorm:"column:status;size:16;not null;default:'DRAFT';index:idx_holiday_requests_user_status" json:"status"`
	SubmittedAt    *time.Time `gorm:"column:submitted_at" json:"submitted_at,omitempty"`
	StateUpdatedAt time.Time  `gorm:"column:state_updated_at" json:"state_updated_at"`
	Version        int        `gorm:"column:version;not null;default:1" json:"-"`
	CreatedAt      time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	Approvals []approval.Approval `gorm:"foreignKey:RequestID;references:RequestID" json:"approvals"`
}

func (HolidayRequest) TableName() string { return "holiday_requests" }

func (r *HolidayRequest) Range() leave.DateRange {
	return leave.DateRange{Start: leave.Day(r.StartDate), End: leave.Day(r.EndDate)}
}

// EntitlementYear selects the yearly entitlement a request draws from: the
// year its first day falls in.
func (r *HolidayRequest) EntitlementYear() int { return r.StartDate.Year() }

// LastApproval is the decision that currently determines the outcome.
func (r *HolidayRequest) LastApproval() *approval.Approval {
	if len(r.Approvals) == 0 {
		return nil
	}
	return &r.Approvals[len(r.Approvals)-1]
}
