package http

import (
	stdhttp "net/http"
	"testing"

	"leave-engine/internal/domain/entitlement"
)

func TestEntitlements_List(t *testing.T) {
	s := newServer(t, nil)
	total := 20.0
	s.store.PutEntitlement(entitlement.Entitlement{UserID: alice, HolidayTypeID: typeAnnual, Year: 2025, TotalDays: &total, DaysTaken: 5, DaysPending: 2, Version: 1})
	s.store.PutEntitlement(entitlement.Entitlement{UserID: alice, HolidayTypeID: typeSick, Year: 2025, DaysTaken: 1, Version: 1})
	s.store.PutEntitlement(entitlement.Entitlement{UserID: alice, HolidayTypeID: typeAnnual, Year: 2024, TotalDays: &total, DaysTaken: 20, Version: 1})

	type entitlementView struct {
		HolidayTypeID string   `json:"holiday_type_id"`
		Year          int      `json:"year"`
		DaysRemaining *float64 `json:"days_remaining"`
	}
	type listView struct {
		Year         int               `json:"year"`
		Entitlements []entitlementView `json:"entitlements"`
	}

	// defaults to the current year
	got := decode[listView](t, s.do(t, stdhttp.MethodGet, "/entitlements", alice, nil, nil))
	if got.Year != 2025 || len(got.Entitlements) != 2 {
		t.Fatalf("current year = %+v", got)
	}
	for _, e := range got.Entitlements {
		switch e.HolidayTypeID {
		case typeAnnual:
			if e.DaysRemaining == nil || *e.DaysRemaining != 13 {
				t.Fatalf("annual remaining = %v, want 13", e.DaysRemaining)
			}
		case typeSick:
			if e.DaysRemaining != nil {
				t.Fatalf("unlimited type has remaining %v", *e.DaysRemaining)
			}
		}
	}

	got = decode[listView](t, s.do(t, stdhttp.MethodGet, "/entitlements?year=2024", alice, nil, nil))
	if got.Year != 2024 || len(got.Entitlements) != 1 {
		t.Fatalf("2024 = %+v", got)
	}

	if other := decode[listView](t, s.do(t, stdhttp.MethodGet, "/entitlements", eve, nil, nil)); len(other.Entitlements) != 0 {
		t.Fatalf("eve sees %d rows", len(other.Entitlements))
	}

	for _, bad := range []string{"abc", "25", "-1"} {
		expectStatus(t, s.do(t, stdhttp.MethodGet, "/entitlements?year="+bad, alice, nil, nil), stdhttp.StatusUnprocessableEntity)
	}
}
