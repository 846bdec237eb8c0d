package services

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wayfern/wayfern-backend/internal/clients/flightdata"
	"github.com/wayfern/wayfern-backend/internal/repos"
	"github.com/wayfern/wayfern-backend/internal/types"
)

// failingUpdateRepo wraps a real repo but refuses every field update.
type failingUpdateRepo struct {
	repos.TripPlanRepo
	err error
}

func (r *failingUpdateRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error {
	return r.err
}

func seedFlightPlan(t *testing.T, r testRepos, mutate func(*types.TripPlan)) *types.TripPlan {
	t.Helper()
	plan := &types.TripPlan{
		ID:          uuid.New(),
		AccessCode:  "FLYTEST1",
		Destination: "Lisbon, Portugal",
		NumDays:     3,
		WakeTime:    "08:00",
		BedTime:     "22:00",
		TripPurpose: types.TripPurposeLeisure,
		EnergyLevel: types.EnergyBalanced,
		PartyAdults: 2,
	}
	if mutate != nil {
		mutate(plan)
	}
	if _, err := r.plan.Create(context.Background(), nil, []*types.TripPlan{plan}); err != nil {
		t.Fatalf("create plan: %v", err)
	}
	return plan
}

func lisbonArrival() *flightdata.FlightDetails {
	return &flightdata.FlightDetails{
		FlightNumber:         "TA 101",
		Airline:              "TAP Air Portugal",
		DepartureAirport:     "JFK",
		DepartureAirportName: "John F. Kennedy International",
		DepartureTime:        "2026-06-01T08:05:00Z",
		ArrivalAirport:       "LIS",
		ArrivalAirportName:   "Humberto Delgado Airport",
		ArrivalTime:          "2026-06-01T14:30:00Z",
	}
}

func TestAutofillFillsEmptyFlightFields(t *testing.T) {
	log := testLogger(t)
	db := testDB(t)
	r := newTestRepos(db, log)
	plan := seedFlightPlan(t, r, func(p *types.TripPlan) {
		p.ArrivalFlightNumber = " ta 101 "
		p.DepartureFlightNumber = "TA202"
	})

	departure := &flightdata.FlightDetails{
		FlightNumber:         "TA202",
		Airline:              "TAP Air Portugal",
		DepartureAirport:     "LIS",
		DepartureAirportName: "Humberto Delgado Airport",
		DepartureTime:        "2026-06-08T10:15:00",
	}
	flights := &fakeFlightLookup{details: map[string]*flightdata.FlightDetails{
		"TA 101": lisbonArrival(),
		"TA202":  departure,
	}}
	svc := NewFlightAutofillService(log, flights, r.plan, nil)

	changed := svc.Autofill(context.Background(), plan)
	wantChanged := []string{
		"arrival_airline", "arrival_airport", "arrival_datetime",
		"departure_airline", "departure_airport", "departure_datetime",
	}
	if !reflect.DeepEqual(changed, wantChanged) {
		t.Fatalf("changed fields: want=%v got=%v", wantChanged, changed)
	}
	if got := flights.lookupCount(); got != 2 {
		t.Fatalf("lookups: want=2 got=%d", got)
	}

	if plan.ArrivalAirline != "TAP Air Portugal" {
		t.Fatalf("arrival airline: got=%q", plan.ArrivalAirline)
	}
	if plan.ArrivalAirport != "Humberto Delgado Airport (LIS)" {
		t.Fatalf("arrival airport: got=%q", plan.ArrivalAirport)
	}
	wantArrival := time.Date(2026, time.June, 1, 14, 30, 0, 0, time.UTC)
	if plan.ArrivalDatetime == nil || !plan.ArrivalDatetime.Equal(wantArrival) {
		t.Fatalf("arrival datetime: want=%v got=%v", wantArrival, plan.ArrivalDatetime)
	}
	if plan.DepartureAirport != "Humberto Delgado Airport (LIS)" {
		t.Fatalf("departure airport: got=%q", plan.DepartureAirport)
	}
	if plan.DepartureDatetime == nil {
		t.Fatalf("departure datetime not filled")
	}

	stored := loadPlan(t, r, plan.ID)
	if stored.ArrivalAirline != "TAP Air Portugal" || stored.DepartureAirline != "TAP Air Portugal" {
		t.Fatalf("persisted airlines: got=%q,%q", stored.ArrivalAirline, stored.DepartureAirline)
	}
	if stored.ArrivalDatetime == nil || !stored.ArrivalDatetime.Equal(wantArrival) {
		t.Fatalf("persisted arrival datetime: want=%v got=%v", wantArrival, stored.ArrivalDatetime)
	}
}

func TestAutofillPreservesTravelerValues(t *testing.T) {
	log := testLogger(t)
	db := testDB(t)
	r := newTestRepos(db, log)
	plan := seedFlightPlan(t, r, func(p *types.TripPlan) {
		p.ArrivalFlightNumber = "TA 101"
		p.ArrivalAirline = "My Charter Airline"
	})

	flights := &fakeFlightLookup{details: map[string]*flightdata.FlightDetails{
		"TA 101": lisbonArrival(),
	}}
	svc := NewFlightAutofillService(log, flights, r.plan, nil)

	changed := svc.Autofill(context.Background(), plan)
	wantChanged := []string{"arrival_airport", "arrival_datetime"}
	if !reflect.DeepEqual(changed, wantChanged) {
		t.Fatalf("changed fields: want=%v got=%v", wantChanged, changed)
	}
	if plan.ArrivalAirline != "My Charter Airline" {
		t.Fatalf("traveler airline overwritten: got=%q", plan.ArrivalAirline)
	}
	if stored := loadPlan(t, r, plan.ID); stored.ArrivalAirline != "My Charter Airline" {
		t.Fatalf("persisted airline: got=%q", stored.ArrivalAirline)
	}
}

func TestAutofillSkipsCompletedDirections(t *testing.T) {
	log := testLogger(t)
	db := testDB(t)
	r := newTestRepos(db, log)
	arrivalTime := time.Date(2026, time.June, 1, 14, 30, 0, 0, time.UTC)
	plan := seedFlightPlan(t, r, func(p *types.TripPlan) {
		p.ArrivalFlightNumber = "TA 101"
		p.ArrivalAirline = "TAP Air Portugal"
		p.ArrivalAirport = "Humberto Delgado Airport (LIS)"
		p.ArrivalDatetime = &arrivalTime
	})

	flights := &fakeFlightLookup{details: map[string]*flightdata.FlightDetails{
		"TA 101": lisbonArrival(),
	}}
	svc := NewFlightAutofillService(log, flights, r.plan, nil)

	if changed := svc.Autofill(context.Background(), plan); len(changed) != 0 {
		t.Fatalf("changed fields: want=none got=%v", changed)
	}
	if got := flights.lookupCount(); got != 0 {
		t.Fatalf("lookups for a complete direction: want=0 got=%d", got)
	}
}

func TestAutofillFailuresAreIndependent(t *testing.T) {
	log := testLogger(t)
	db := testDB(t)
	r := newTestRepos(db, log)
	plan := seedFlightPlan(t, r, func(p *types.TripPlan) {
		p.ArrivalFlightNumber = "TA 101"
		p.DepartureFlightNumber = "ZZ999"
	})

	// Only the arrival flight resolves; the departure lookup misses.
	flights := &fakeFlightLookup{details: map[string]*flightdata.FlightDetails{
		"TA 101": lisbonArrival(),
	}}
	svc := NewFlightAutofillService(log, flights, r.plan, nil)

	changed := svc.Autofill(context.Background(), plan)
	wantChanged := []string{"arrival_airline", "arrival_airport", "arrival_datetime"}
	if !reflect.DeepEqual(changed, wantChanged) {
		t.Fatalf("changed fields: want=%v got=%v", wantChanged, changed)
	}
	stored := loadPlan(t, r, plan.ID)
	if stored.ArrivalAirline == "" {
		t.Fatalf("arrival fields not persisted")
	}
	if stored.DepartureAirline != "" || stored.DepartureAirport != "" || stored.DepartureDatetime != nil {
		t.Fatalf("departure fields changed despite failed lookup")
	}
}

func TestAutofillSwallowsLookupErrors(t *testing.T) {
	log := testLogger(t)
	db := testDB(t)
	r := newTestRepos(db, log)
	plan := seedFlightPlan(t, r, func(p *types.TripPlan) {
		p.ArrivalFlightNumber = "TA 101"
	})

	flights := &fakeFlightLookup{err: errors.New("upstream rate limited")}
	svc := NewFlightAutofillService(log, flights, r.plan, nil)

	if changed := svc.Autofill(context.Background(), plan); len(changed) != 0 {
		t.Fatalf("changed fields: want=none got=%v", changed)
	}
	if stored := loadPlan(t, r, plan.ID); stored.ArrivalAirline != "" || stored.ArrivalDatetime != nil {
		t.Fatalf("fields changed despite lookup error")
	}
}

func TestAutofillReportsNothingWhenPersistFails(t *testing.T) {
	log := testLogger(t)
	db := testDB(t)
	r := newTestRepos(db, log)
	plan := seedFlightPlan(t, r, func(p *types.TripPlan) {
		p.ArrivalFlightNumber = "TA 101"
	})

	flights := &fakeFlightLookup{details: map[string]*flightdata.FlightDetails{
		"TA 101": lisbonArrival(),
	}}
	failing := &failingUpdateRepo{TripPlanRepo: r.plan, err: errors.New("database offline")}
	svc := NewFlightAutofillService(log, flights, failing, nil)

	if changed := svc.Autofill(context.Background(), plan); len(changed) != 0 {
		t.Fatalf("changed fields: want=none got=%v", changed)
	}
	if stored := loadPlan(t, r, plan.ID); stored.ArrivalAirline != "" {
		t.Fatalf("row updated despite persist failure")
	}
}

func TestAutofillWithoutClientOrPlan(t *testing.T) {
	log := testLogger(t)
	db := testDB(t)
	r := newTestRepos(db, log)
	plan := seedFlightPlan(t, r, func(p *types.TripPlan) {
		p.ArrivalFlightNumber = "TA 101"
	})

	svc := NewFlightAutofillService(log, nil, r.plan, nil)
	if changed := svc.Autofill(context.Background(), plan); changed != nil {
		t.Fatalf("changed without a client: want=nil got=%v", changed)
	}

	flights := &fakeFlightLookup{}
	svc = NewFlightAutofillService(log, flights, r.plan, nil)
	if changed := svc.Autofill(context.Background(), nil); changed != nil {
		t.Fatalf("changed for a nil plan: want=nil got=%v", changed)
	}
	if got := flights.lookupCount(); got != 0 {
		t.Fatalf("lookups for a nil plan: want=0 got=%d", got)
	}
}
