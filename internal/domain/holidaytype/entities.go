package holidaytype

import "time"

// Table: holiday_types. Rows are deactivated, never deleted, once a request
// references them. The booleans carry no gorm default: false must survive Create.
type HolidayType struct {
	ID               uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	TypeID           string    `gorm:"column:type_id;type:char(32);not null;uniqueIndex:ux_holiday_types_type_id" json:"id"`
	Code             string    `gorm:"column:code;size:10;not null;uniqueIndex:ux_holiday_types_code" json:"code"`
	Name             string    `gorm:"column:name;size:100;not null" json:"name"`
	Color            string    `gorm:"column:color;size:16" json:"color"`
	RequiresApproval bool      `gorm:"column:requires_approval;not null" json:"requires_approval"`
	MaxDaysPerYear   *float64  `gorm:"column:max_days_per_year;type:decimal(6,2)" json:"max_days_per_year,omitempty"`
	IsActive         bool      `gorm:"column:is_active;not null" json:"is_active"`
	CreatedAt        time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (HolidayType) TableName() string { return "holiday_types" }
