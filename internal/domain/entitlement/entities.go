package entitlement

import (
	"errors"
	"fmt"
	"time"

	"leave-engine/internal/domain/leave"
)

// ErrCorrupt means a ledger operation would drive a counter negative. It is
// raised only when persisted data disagrees with the request lifecycle.
var ErrCorrupt = errors.New("entitlement counters would become negative")

type Key struct {
	UserID        string
	HolidayTypeID string
	Year          int
}

func (k Key) String() string { return fmt.Sprintf("%s/%s/%d", k.UserID, k.HolidayTypeID, k.Year) }

// Table: holiday_entitlements (one row per user, holiday type and year)
type Entitlement struct {
	ID            uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	UserID        string    `gorm:"column:user_id;size:64;not null;uniqueIndex:ux_entitlements_key,priority:1" json:"user_id"`
	HolidayTypeID string    `gorm:"column:holiday_type_id;type:char(32);not null;uniqueIndex:ux_entitlements_key,priority:2" json:"holiday_type_id"`
	Year          int       `gorm:"column:year;not null;uniqueIndex:ux_entitlements_key,priority:3" json:"year"`
	TotalDays     *float64  `gorm:"column:total_days;type:decimal(6,2)" json:"total_days,omitempty"`
	DaysTaken     float64   `gorm:"column:days_taken;type:decimal(6,2);not null;default:0" json:"days_taken"`
	DaysPending   float64   `gorm:"column:days_pending;type:decimal(6,2);not null;default:0" json:"days_pending"`
	Version       int       `gorm:"column:version;not null;default:1" json:"-"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Entitlement) TableName() string { return "holiday_entitlements" }

func (e *Entitlement) Key() Key {
	return Key{UserID: e.UserID, HolidayTypeID: e.HolidayTypeID, Year: e.Year}
}

func (e *Entitlement) Unlimited() bool { return e.TotalDays == nil }

// Remaining is nil for unlimited entitlements.
func (e *Entitlement) Remaining() *float64 {
	if e.TotalDays == nil {
		return nil
	}
	r := *e.TotalDays - e.DaysTaken - e.DaysPending
	return &r
}

// Reserve places a pending hold. Unlimited entitlements always succeed and
// still track the hold so that settlement keeps the counters consistent.
func (e *Entitlement) Reserve(days float64) error {
	if days <= 0 {
		return leave.Invalid("days", "must be positive")
	}
	if e.TotalDays != nil && e.DaysTaken+e.DaysPending+days > *e.TotalDays {
		return &leave.InsufficientEntitlementError{
			Total:     *e.TotalDays,
			Taken:     e.DaysTaken,
			Pending:   e.DaysPending,
			Requested: days,
		}
	}
	e.DaysPending += days
	return nil
}

func (e *Entitlement) Settle(days float64) error {
	if e.DaysPending < days {
		return fmt.Errorf("settle %.1f on %s with %.1f pending: %w", days, e.Key(), e.DaysPending, ErrCorrupt)
	}
	e.DaysPending -= days
	e.DaysTaken += days
	return nil
}

func (e *Entitlement) Release(days float64) error {
	if e.DaysPending < days {
		return fmt.Errorf("release %.1f on %s with %.1f pending: %w", days, e.Key(), e.DaysPending, ErrCorrupt)
	}
	e.DaysPending -= days
	return nil
}

func (e *Entitlement) Reverse(days float64) error {
	if e.DaysTaken < days {
		return fmt.Errorf("reverse %.1f on %s with %.1f taken: %w", days, e.Key(), e.DaysTaken, ErrCorrupt)
	}
	e.DaysTaken -= days
	return nil
}
