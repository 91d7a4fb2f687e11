package mysql

import (
	"context"

	"gorm.io/gorm"

	"leave-engine/internal/domain/approval"
	"leave-engine/internal/domain/blackout"
	"leave-engine/internal/domain/entitlement"
	"leave-engine/internal/domain/holidaytype"
	"leave-engine/internal/domain/request"
)

// Models lists every table the engine reads or writes, in creation order.
func Models() []interface{} {
	return []interface{}{
		&holidaytype.HolidayType{},
		&request.HolidayRequest{},
		&approval.Approval{},
		&entitlement.Entitlement{},
		&blackout.Period{},
		&StaffMember{},
		&JobAssignment{},
	}
}

// AutoMigrate builds the schema from the models. MySQL deployments use the
// SQL migrations instead; this serves sqlite.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}

func ptr(f float64) *float64 { return &f }

// DefaultHolidayTypes mirrors migrations/000002_seed_holiday_types.
func DefaultHolidayTypes() []holidaytype.HolidayType {
	return []holidaytype.HolidayType{
		{TypeID: "0a1e5a0c4d2b4f7e9c3d1a2b3c4d5e6f", Code: "ANNUAL", Name: "Annual leave", Color: "#2E7D32", RequiresApproval: true, MaxDaysPerYear: ptr(20), IsActive: true},
		{TypeID: "1b2f6b1d5e3c4081ad4e2b3c4d5e6f70", Code: "SICK", Name: "Sick leave", Color: "#C62828", IsActive: true},
		{TypeID: "2c307c2e6f4d4192be5f3c4d5e6f7081", Code: "UNPAID", Name: "Unpaid leave", Color: "#616161", RequiresApproval: true, IsActive: true},
	}
}

// SeedHolidayTypes inserts the default types that are missing, matched by code.
func SeedHolidayTypes(ctx context.Context, db *gorm.DB) error {
	for _, t := range DefaultHolidayTypes() {
		t := t
		err := db.WithContext(ctx).Where(holidaytype.HolidayType{Code: t.Code}).FirstOrCreate(&t).Error
		if err != nil {
			return translate(err, "seed holiday type "+t.Code)
		}
	}
	return nil
}
