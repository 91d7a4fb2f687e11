package blackout

import (
	"time"

	"leave-engine/internal/domain/leave"
)

// Table: blackout_periods
type Period struct {
	ID           uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	PeriodID     string    `gorm:"column:period_id;type:char(32);not null;uniqueIndex:ux_blackout_periods_period_id" json:"id"`
	Name         string    `gorm:"column:name;size:100;not null" json:"name"`
	StartDate    time.Time `gorm:"column:start_date;type:date;not null;index:idx_blackout_periods_range" json:"start_date"`
	EndDate      time.Time `gorm:"column:end_date;type:date;not null;index:idx_blackout_periods_range" json:"end_date"`
	Reason       string    `gorm:"column:reason;type:text" json:"reason"`
	AppliesToAll bool      `gorm:"column:applies_to_all;not null;default:false" json:"applies_to_all"`
	DepartmentID *string   `gorm:"column:department_id;size:64;index" json:"department_id,omitempty"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Period) TableName() string { return "blackout_periods" }

func (p Period) Range() leave.DateRange {
	return leave.DateRange{Start: leave.Day(p.StartDate), End: leave.Day(p.EndDate)}
}

// Validate enforces start <= end and that a period is either global or
// scoped to exactly one department.
func (p Period) Validate() error {
	if p.Name == "" {
		return leave.Invalid("name", "is required")
	}
	if _, err := leave.NewDateRange(p.StartDate, p.EndDate); err != nil {
		return err
	}
	hasDept := p.DepartmentID != nil && *p.DepartmentID != ""
	if p.AppliesToAll && hasDept {
		return leave.Invalid("department_id", "must be empty when the period applies to all departments")
	}
	if !p.AppliesToAll && !hasDept {
		return leave.Invalid("department_id", "is required unless the period applies to all departments")
	}
	return nil
}

func (p Period) IsActive(now time.Time) bool { return p.Range().Contains(now) }

func (p Period) Covers(departmentID string) bool {
	if p.AppliesToAll {
		return true
	}
	return departmentID != "" && p.DepartmentID != nil && *p.DepartmentID == departmentID
}
