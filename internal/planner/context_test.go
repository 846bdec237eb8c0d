package planner

import (
	"strings"
	"testing"
	"time"

	"github.com/wayfern/wayfern-backend/internal/types"
)

func datePtr(y int, m time.Month, d int) *time.Time {
	dt := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &dt
}

func dateTimePtr(y int, m time.Month, d, hh, mm int) *time.Time {
	dt := time.Date(y, m, d, hh, mm, 0, 0, time.UTC)
	return &dt
}

func floatPtr(v float64) *float64 { return &v }

func TestDeriveNumDays(t *testing.T) {
	cases := []struct {
		name      string
		start     *time.Time
		end       *time.Time
		requested int
		want      int
	}{
		{
			name:      "dates_win_over_requested",
			start:     datePtr(2026, time.June, 1),
			end:       datePtr(2026, time.June, 3),
			requested: 10,
			want:      3,
		},
		{
			name:      "single_day_span",
			start:     datePtr(2026, time.June, 1),
			end:       datePtr(2026, time.June, 1),
			requested: 0,
			want:      1,
		},
		{
			name:      "requested_used_without_dates",
			requested: 5,
			want:      5,
		},
		{
			name:      "zero_clamps_to_minimum",
			requested: 0,
			want:      MinTripDays,
		},
		{
			name:      "oversized_requested_clamps",
			requested: 99,
			want:      MaxTripDays,
		},
		{
			name:  "oversized_span_clamps",
			start: datePtr(2026, time.June, 1),
			end:   datePtr(2026, time.July, 20),
			want:  MaxTripDays,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := DeriveNumDays(tc.start, tc.end, tc.requested); got != tc.want {
				t.Fatalf("DeriveNumDays: want=%d got=%d", tc.want, got)
			}
		})
	}
}

func TestBuildContextLandOnlyTrip(t *testing.T) {
	plan := &types.TripPlan{
		Destination:      "Lisbon",
		NumDays:          3,
		PartyAdults:      2,
		PartyChildren:    1,
		WakeTime:         "08:00",
		BedTime:          "22:00",
		TripPurpose:      types.TripPurposeLeisure,
		EnergyLevel:      types.EnergyBalanced,
		IncludeBreakfast: true,
		IncludeDinner:    true,
	}

	pctx := BuildContext(plan, nil, nil, nil)

	if pctx.Party != "2 adults and 1 child" {
		t.Fatalf("party: got=%q", pctx.Party)
	}
	wantMeals := "breakfast, dinner (schedule meal stops only for these selections)"
	if pctx.Meals != wantMeals {
		t.Fatalf("meals: want=%q got=%q", wantMeals, pctx.Meals)
	}
	if pctx.OverallBudget != "Flexible" {
		t.Fatalf("overall budget: got=%q", pctx.OverallBudget)
	}
	if pctx.BreakWindows != "None" {
		t.Fatalf("break windows: got=%q", pctx.BreakWindows)
	}
	if pctx.FlightBlock != "No flights provided." {
		t.Fatalf("flight block: got=%q", pctx.FlightBlock)
	}
	if pctx.HasArrival || pctx.HasDeparture {
		t.Fatalf("flight presence: got arrival=%v departure=%v", pctx.HasArrival, pctx.HasDeparture)
	}
	if len(pctx.ExcludedDays) != 0 {
		t.Fatalf("excluded days: got=%v", pctx.ExcludedDays)
	}
	if pctx.WakeNote != "" {
		t.Fatalf("wake note: got=%q", pctx.WakeNote)
	}
	if pctx.OverridesBlock != "None supplied; use the global wake/bed times." {
		t.Fatalf("overrides block: got=%q", pctx.OverridesBlock)
	}
	if pctx.DateRange != "" || pctx.Season != "" {
		t.Fatalf("date fields without dates: range=%q season=%q", pctx.DateRange, pctx.Season)
	}

	wantHotel := "Traveler will arrange their own lodging; do not recommend or invent a hotel."
	if pctx.Hotel != wantHotel {
		t.Fatalf("hotel summary: got=%q", pctx.Hotel)
	}
	guidance := strings.Join(pctx.Guidance, "\n")
	if !strings.Contains(guidance, "leave the accommodation object null") {
		t.Fatalf("guidance missing lodging line: %q", guidance)
	}
	if !strings.Contains(guidance, "fully land-based") {
		t.Fatalf("guidance missing land-based line: %q", guidance)
	}
}

func TestBuildContextFlightsControlEdgeDays(t *testing.T) {
	plan := &types.TripPlan{
		Destination:         "Lisbon",
		NumDays:             3,
		PartyAdults:         1,
		WakeTime:            "08:00",
		BedTime:             "22:00",
		ArrivalAirline:      "TAP Air Portugal",
		ArrivalFlightNumber: "tp210",
		ArrivalAirport:      "LIS",
		ArrivalDatetime:     dateTimePtr(2026, time.June, 1, 14, 30),

		DepartureFlightNumber: "TP211",
		DepartureAirport:      "LIS",
		DepartureDatetime:     dateTimePtr(2026, time.June, 3, 9, 0),
	}
	days := []*types.TripDay{
		{DayNumber: 1, WakeOverride: "06:00"},
		{DayNumber: 2, BedOverride: "23:00"},
		{DayNumber: 3, WakeOverride: "05:00"},
	}

	pctx := BuildContext(plan, days, nil, nil)

	if !pctx.HasArrival || !pctx.HasDeparture {
		t.Fatalf("flight presence: got arrival=%v departure=%v", pctx.HasArrival, pctx.HasDeparture)
	}
	if len(pctx.ExcludedDays) != 2 || pctx.ExcludedDays[0] != 1 || pctx.ExcludedDays[1] != 3 {
		t.Fatalf("excluded days: want=[1 3] got=%v", pctx.ExcludedDays)
	}

	wantArrival := "- TAP Air Portugal Flight TP210 arrives at LIS, on June 01 at 02:30 PM."
	wantDeparture := "- Flight TP211 departs from LIS, on June 03 at 09:00 AM."
	lines := strings.Split(pctx.FlightBlock, "\n")
	if len(lines) != 2 {
		t.Fatalf("flight block lines: got=%d (%q)", len(lines), pctx.FlightBlock)
	}
	if lines[0] != wantArrival {
		t.Fatalf("arrival line: want=%q got=%q", wantArrival, lines[0])
	}
	if lines[1] != wantDeparture {
		t.Fatalf("departure line: want=%q got=%q", wantDeparture, lines[1])
	}

	wantNote := "Ignore typical wake/bed expectations on Day 1 (arrival day) and Day 3 (departure day) because flights dictate those schedules."
	if pctx.WakeNote != wantNote {
		t.Fatalf("wake note: want=%q got=%q", wantNote, pctx.WakeNote)
	}

	// Overrides for the arrival and departure days are dropped; day 2 keeps
	// its bed override and inherits the global wake time.
	if strings.Contains(pctx.OverridesBlock, "Day 1") || strings.Contains(pctx.OverridesBlock, "Day 3") {
		t.Fatalf("overrides block kept an excluded day: %q", pctx.OverridesBlock)
	}
	if !strings.Contains(pctx.OverridesBlock, "- Day 2: wake at 08:00, bed by 23:00") {
		t.Fatalf("overrides block missing day 2: %q", pctx.OverridesBlock)
	}
	if !strings.Contains(pctx.OverridesBlock, "flights override wake/bed windows") {
		t.Fatalf("overrides block missing exclusion note: %q", pctx.OverridesBlock)
	}

	guidance := strings.Join(pctx.Guidance, "\n")
	if !strings.Contains(guidance, `"Arrival Flight" block`) {
		t.Fatalf("guidance missing arrival block line: %q", guidance)
	}
	if !strings.Contains(guidance, "departure flight, leaving a buffer") {
		t.Fatalf("guidance missing departure line: %q", guidance)
	}
}

func TestBuildContextBudgetsAndBreaks(t *testing.T) {
	plan := &types.TripPlan{
		Destination: "Kyoto",
		NumDays:     3,
		PartyAdults: 2,
		WakeTime:    "07:00",
		BedTime:     "23:00",
	}
	breaks := []*types.BreakWindow{
		{StartTime: "13:00", EndTime: "14:00", Purpose: "nap"},
		{StartTime: "18:00", EndTime: "18:30"},
	}
	budgets := []*types.BudgetAllocation{
		{Category: types.BudgetCategoryFoodAndDining, Amount: 300},
		{Category: types.BudgetCategoryOther, CustomLabel: "Tea ceremony", Amount: 150},
	}

	pctx := BuildContext(plan, nil, breaks, budgets)

	wantBreaks := "13:00-14:00 (nap), 18:00-18:30"
	if pctx.BreakWindows != wantBreaks {
		t.Fatalf("break windows: want=%q got=%q", wantBreaks, pctx.BreakWindows)
	}
	if len(pctx.BudgetLines) != 2 {
		t.Fatalf("budget lines: got=%d", len(pctx.BudgetLines))
	}
	wantFood := "Food & Dining: $300.00 total (about $100.00 per day)"
	if pctx.BudgetLines[0] != wantFood {
		t.Fatalf("food budget line: want=%q got=%q", wantFood, pctx.BudgetLines[0])
	}
	wantCustom := "Tea ceremony: $150.00 total (about $50.00 per day)"
	if pctx.BudgetLines[1] != wantCustom {
		t.Fatalf("custom budget line: want=%q got=%q", wantCustom, pctx.BudgetLines[1])
	}
}

func TestBuildContextHotelBranches(t *testing.T) {
	withDetails := &types.TripPlan{
		NumDays:      2,
		PartyAdults:  2,
		HotelName:    "Hotel Mundial",
		HotelCheckIn: dateTimePtr(2026, time.June, 1, 15, 0),
		// Auto-suggest is ignored once the traveler supplied details.
		AutoSuggestHotel: true,
	}
	pctx := BuildContext(withDetails, nil, nil, nil)
	if pctx.Hotel != "Hotel Mundial | Check-in June 01 at 03:00 PM" {
		t.Fatalf("hotel with details: got=%q", pctx.Hotel)
	}
	if !pctx.HotelHasDetails || pctx.HotelNeedsSuggestion {
		t.Fatalf("hotel flags: hasDetails=%v needsSuggestion=%v", pctx.HotelHasDetails, pctx.HotelNeedsSuggestion)
	}

	suggest := &types.TripPlan{
		NumDays:          2,
		PartyAdults:      2,
		AutoSuggestHotel: true,
		OverallBudgetMax: floatPtr(2500),
	}
	pctx = BuildContext(suggest, nil, nil, nil)
	want := "Need Wayfern to recommend a 2 adults hotel within the $2500.00 budget."
	if pctx.Hotel != want {
		t.Fatalf("hotel suggestion: want=%q got=%q", want, pctx.Hotel)
	}
	if pctx.HotelHasDetails || !pctx.HotelNeedsSuggestion {
		t.Fatalf("hotel flags: hasDetails=%v needsSuggestion=%v", pctx.HotelHasDetails, pctx.HotelNeedsSuggestion)
	}
	guidance := strings.Join(pctx.Guidance, "\n")
	if !strings.Contains(guidance, "choose a realistic hotel") {
		t.Fatalf("guidance missing suggestion line: %q", guidance)
	}
}

func TestBuildContextDatesAndSeason(t *testing.T) {
	plan := &types.TripPlan{
		Destination: "Oslo",
		NumDays:     3,
		PartyAdults: 1,
		StartDate:   datePtr(2026, time.January, 10),
		EndDate:     datePtr(2026, time.January, 12),
	}
	pctx := BuildContext(plan, nil, nil, nil)
	if pctx.DateRange != "January 10, 2026 through January 12, 2026" {
		t.Fatalf("date range: got=%q", pctx.DateRange)
	}
	if pctx.Season != "Travel month: January (expect winter conditions)." {
		t.Fatalf("season: got=%q", pctx.Season)
	}
}

func TestBuildContextDayNotes(t *testing.T) {
	plan := &types.TripPlan{NumDays: 3, PartyAdults: 1, WakeTime: "08:00", BedTime: "22:00"}
	days := []*types.TripDay{
		{DayNumber: 1},
		{DayNumber: 2, Notes: "Fado night", MustDo: "Tram 28", WakeOverride: "07:00"},
		{DayNumber: 3, Date: datePtr(2026, time.June, 3), Constraints: "No long walks"},
	}

	pctx := BuildContext(plan, days, nil, nil)

	if len(pctx.DayNotes) != 2 {
		t.Fatalf("day notes: got=%d (%v)", len(pctx.DayNotes), pctx.DayNotes)
	}
	wantSecond := "Day 2: Fado night; Must-do: Tram 28; Custom wake/bed: 07:00 / same"
	if pctx.DayNotes[0] != wantSecond {
		t.Fatalf("day 2 note: want=%q got=%q", wantSecond, pctx.DayNotes[0])
	}
	wantThird := "Day 3 (2026-06-03): Constraints: No long walks"
	if pctx.DayNotes[1] != wantThird {
		t.Fatalf("day 3 note: want=%q got=%q", wantThird, pctx.DayNotes[1])
	}
}
