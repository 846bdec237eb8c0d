package planner

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/wayfern/wayfern-backend/internal/types"
)

const (
	MinTripDays = 1
	MaxTripDays = 30
)

// Context carries every derived block of trip information that feeds the
// generation prompt. All fields are plain values computed up front, so the
// same stored trip always yields the same context.
type Context struct {
	Destination   string
	DateRange     string
	NumDays       int
	Party         string
	WakeTime      string
	BedTime       string
	TripPurpose   string
	EnergyLevel   string
	OverallBudget string

	Meals         string
	DietaryNotes  string
	MobilityNotes string
	Downtime      bool
	BreakWindows  string
	BudgetLines   []string

	FlightBlock  string
	WakeNote     string
	HasArrival   bool
	HasDeparture bool
	ExcludedDays []int

	Hotel                string
	HotelHasDetails      bool
	HotelNeedsSuggestion bool
	Season               string

	Guidance       []string
	OverridesBlock string
	DayNotes       []string
}

// BuildContext derives the prompt context for a stored trip. It never
// touches the database or the clock; everything comes from its arguments.
func BuildContext(plan *types.TripPlan, days []*types.TripDay, breaks []*types.BreakWindow, budgets []*types.BudgetAllocation) Context {
	hasArrival := plan.ArrivalDatetime != nil || plan.ArrivalAirport != "" || plan.ArrivalFlightNumber != ""
	hasDeparture := plan.DepartureDatetime != nil || plan.DepartureAirport != "" || plan.DepartureFlightNumber != ""

	pctx := Context{
		Destination:   plan.Destination,
		DateRange:     formatDateRange(plan.StartDate, plan.EndDate),
		NumDays:       plan.NumDays,
		Party:         summarizeParty(plan.PartyAdults, plan.PartyChildren),
		WakeTime:      plan.WakeTime,
		BedTime:       plan.BedTime,
		TripPurpose:   plan.TripPurpose,
		EnergyLevel:   plan.EnergyLevel,
		OverallBudget: formatOverallBudget(plan.OverallBudgetMax),
		Meals:         mealsLine(plan),
		DietaryNotes:  strings.TrimSpace(plan.DietaryNotes),
		MobilityNotes: strings.TrimSpace(plan.MobilityNotes),
		Downtime:      plan.DowntimeRequired,
		BreakWindows:  breakWindowsLine(breaks),
		BudgetLines:   budgetLines(budgets, plan.NumDays),
		HasArrival:    hasArrival,
		HasDeparture:  hasDeparture,
	}

	pctx.FlightBlock = flightBlock(plan)
	pctx.WakeNote = wakeNote(plan.NumDays, hasArrival, hasDeparture)
	pctx.ExcludedDays = excludedDays(plan.NumDays, hasArrival, hasDeparture)
	pctx.Hotel, pctx.HotelHasDetails, pctx.HotelNeedsSuggestion = hotelSummary(plan)
	pctx.Season = seasonHint(plan.StartDate, plan.EndDate)
	pctx.OverridesBlock = overridesBlock(plan, days, pctx.ExcludedDays)
	pctx.DayNotes = dayNoteLines(days)
	pctx.Guidance = guidanceLines(plan, hasArrival, hasDeparture, pctx.HotelHasDetails, pctx.HotelNeedsSuggestion)
	return pctx
}

// DeriveNumDays resolves the trip length. When both dates are present the
// inclusive span wins; otherwise the requested value is used. The result is
// always clamped to [MinTripDays, MaxTripDays].
func DeriveNumDays(start, end *time.Time, requested int) int {
	n := requested
	if start != nil && end != nil {
		n = int(end.Sub(*start).Hours()/24) + 1
	}
	if n < MinTripDays {
		return MinTripDays
	}
	if n > MaxTripDays {
		return MaxTripDays
	}
	return n
}

func formatDateRange(start, end *time.Time) string {
	switch {
	case start != nil && end != nil:
		return fmt.Sprintf("%s through %s", start.Format("January 02, 2006"), end.Format("January 02, 2006"))
	case start != nil:
		return fmt.Sprintf("Start date: %s", start.Format("January 02, 2006"))
	case end != nil:
		return fmt.Sprintf("End date: %s", end.Format("January 02, 2006"))
	default:
		return ""
	}
}

func summarizeParty(adults, children int) string {
	if adults < 1 {
		adults = 1
	}
	summary := fmt.Sprintf("%d adult", adults)
	if adults != 1 {
		summary += "s"
	}
	if children > 0 {
		summary += fmt.Sprintf(" and %d child", children)
		if children != 1 {
			summary += "ren"
		}
	}
	return summary
}

func formatOverallBudget(max *float64) string {
	if max == nil {
		return "Flexible"
	}
	return fmt.Sprintf("$%.2f", *max)
}

func mealsLine(plan *types.TripPlan) string {
	var selections []string
	if plan.IncludeBreakfast {
		selections = append(selections, "breakfast")
	}
	if plan.IncludeLunch {
		selections = append(selections, "lunch")
	}
	if plan.IncludeDinner {
		selections = append(selections, "dinner")
	}
	if len(selections) == 0 {
		return "No planned meals; skip dedicated meal stops unless explicitly requested elsewhere"
	}
	return fmt.Sprintf("%s (schedule meal stops only for these selections)", strings.Join(selections, ", "))
}

func breakWindowsLine(breaks []*types.BreakWindow) string {
	if len(breaks) == 0 {
		return "None"
	}
	parts := make([]string, 0, len(breaks))
	for _, b := range breaks {
		window := fmt.Sprintf("%s-%s", b.StartTime, b.EndTime)
		if b.Purpose != "" {
			window = fmt.Sprintf("%s (%s)", window, b.Purpose)
		}
		parts = append(parts, window)
	}
	return strings.Join(parts, ", ")
}

// budgetLines renders one line per bucket with the per-day share spelled
// out. When the trip length is unknown the raw amount stands alone.
func budgetLines(budgets []*types.BudgetAllocation, numDays int) []string {
	lines := make([]string, 0, len(budgets))
	for _, b := range budgets {
		if numDays > 0 {
			perDay := b.Amount / float64(numDays)
			lines = append(lines, fmt.Sprintf("%s: $%.2f total (about $%.2f per day)", b.Label(), b.Amount, perDay))
			continue
		}
		lines = append(lines, fmt.Sprintf("%s: $%.2f", b.Label(), b.Amount))
	}
	return lines
}

func flightLine(direction string, dt *time.Time, airport, airline, number string) string {
	if dt == nil && airport == "" && airline == "" && number == "" {
		return ""
	}
	normalized := strings.ToUpper(number)
	var prefix string
	switch {
	case airline != "" && normalized != "":
		prefix = fmt.Sprintf("%s Flight %s", airline, normalized)
	case airline != "":
		prefix = fmt.Sprintf("%s Flight", airline)
	case normalized != "":
		prefix = fmt.Sprintf("Flight %s", normalized)
	default:
		prefix = "Flight"
	}
	verb := "arrives at"
	if direction == "departure" {
		verb = "departs from"
	}
	var suffixParts []string
	if airport != "" {
		suffixParts = append(suffixParts, fmt.Sprintf("%s %s", verb, airport))
	}
	if dt != nil {
		suffixParts = append(suffixParts, fmt.Sprintf("on %s", dt.Format("January 02 at 03:04 PM")))
	}
	if len(suffixParts) == 0 {
		return fmt.Sprintf("- %s.", prefix)
	}
	return fmt.Sprintf("- %s %s.", prefix, strings.Join(suffixParts, ", "))
}

func flightBlock(plan *types.TripPlan) string {
	var lines []string
	if line := flightLine("arrival", plan.ArrivalDatetime, plan.ArrivalAirport, plan.ArrivalAirline, plan.ArrivalFlightNumber); line != "" {
		lines = append(lines, line)
	}
	if line := flightLine("departure", plan.DepartureDatetime, plan.DepartureAirport, plan.DepartureAirline, plan.DepartureFlightNumber); line != "" {
		lines = append(lines, line)
	}
	if len(lines) == 0 {
		return "No flights provided."
	}
	return strings.Join(lines, "\n")
}

func wakeNote(numDays int, hasArrival, hasDeparture bool) string {
	if !hasArrival && !hasDeparture {
		return ""
	}
	var impacted []string
	if hasArrival {
		impacted = append(impacted, "Day 1 (arrival day)")
	}
	if hasDeparture && numDays > 0 {
		impacted = append(impacted, fmt.Sprintf("Day %d (departure day)", numDays))
	}
	return fmt.Sprintf("Ignore typical wake/bed expectations on %s because flights dictate those schedules.", strings.Join(impacted, " and "))
}

// excludedDays lists the day numbers whose wake/bed overrides are dropped
// because a flight controls that day's schedule. Sorted ascending.
func excludedDays(numDays int, hasArrival, hasDeparture bool) []int {
	set := map[int]struct{}{}
	if hasArrival {
		set[1] = struct{}{}
	}
	if hasDeparture && numDays > 0 {
		set[numDays] = struct{}{}
	}
	days := make([]int, 0, len(set))
	for d := range set {
		days = append(days, d)
	}
	sort.Ints(days)
	return days
}

func hotelSummary(plan *types.TripPlan) (string, bool, bool) {
	hasDetails := plan.HotelAddress != "" || plan.HotelName != "" || plan.HotelCheckIn != nil || plan.HotelCheckOut != nil
	needsSuggestion := plan.AutoSuggestHotel && !hasDetails
	switch {
	case hasDetails:
		var parts []string
		if plan.HotelAddress != "" {
			parts = append(parts, plan.HotelAddress)
		}
		if plan.HotelName != "" {
			parts = append(parts, plan.HotelName)
		}
		if plan.HotelCheckIn != nil {
			parts = append(parts, fmt.Sprintf("Check-in %s", plan.HotelCheckIn.Format("January 02 at 03:04 PM")))
		}
		if plan.HotelCheckOut != nil {
			parts = append(parts, fmt.Sprintf("Check-out %s", plan.HotelCheckOut.Format("January 02 at 03:04 PM")))
		}
		return strings.Join(parts, " | "), hasDetails, needsSuggestion
	case needsSuggestion:
		budget := "Flexible"
		if plan.OverallBudgetMax != nil {
			budget = fmt.Sprintf("%.2f", *plan.OverallBudgetMax)
		}
		return fmt.Sprintf("Need Wayfern to recommend a %s hotel within the $%s budget.", summarizeParty(plan.PartyAdults, plan.PartyChildren), budget), hasDetails, needsSuggestion
	default:
		return "Traveler will arrange their own lodging; do not recommend or invent a hotel.", hasDetails, needsSuggestion
	}
}

func seasonHint(start, end *time.Time) string {
	ref := start
	if ref == nil {
		ref = end
	}
	if ref == nil {
		return ""
	}
	month := ref.Format("January")
	switch ref.Month() {
	case time.December, time.January, time.February:
		return fmt.Sprintf("Travel month: %s (expect winter conditions).", month)
	case time.March, time.April, time.May:
		return fmt.Sprintf("Travel month: %s (spring shoulder season).", month)
	case time.June, time.July, time.August:
		return fmt.Sprintf("Travel month: %s (peak summer weather).", month)
	default:
		return fmt.Sprintf("Travel month: %s (autumn conditions).", month)
	}
}

func overridesBlock(plan *types.TripPlan, days []*types.TripDay, excluded []int) string {
	excludedSet := map[int]struct{}{}
	for _, d := range excluded {
		excludedSet[d] = struct{}{}
	}
	var lines []string
	for _, day := range days {
		if _, skip := excludedSet[day.DayNumber]; skip {
			continue
		}
		if day.WakeOverride == "" && day.BedOverride == "" {
			continue
		}
		wake := day.WakeOverride
		if wake == "" {
			wake = plan.WakeTime
		}
		bed := day.BedOverride
		if bed == "" {
			bed = plan.BedTime
		}
		lines = append(lines, fmt.Sprintf("- Day %d: wake at %s, bed by %s", day.DayNumber, wake, bed))
	}
	if len(lines) == 0 {
		return "None supplied; use the global wake/bed times."
	}
	block := strings.Join(lines, "\n")
	if len(excluded) > 0 {
		block += "\n(Arrival/departure days are omitted because flights override wake/bed windows.)"
	}
	return block
}

// dayFragments collects the traveler's free-text preferences for one day in
// a stable order.
func dayFragments(day *types.TripDay, overrideText string) []string {
	var fragments []string
	if day.Notes != "" {
		fragments = append(fragments, day.Notes)
	}
	if day.MustDo != "" {
		fragments = append(fragments, fmt.Sprintf("Must-do: %s", day.MustDo))
	}
	if day.Constraints != "" {
		fragments = append(fragments, fmt.Sprintf("Constraints: %s", day.Constraints))
	}
	if overrideText != "" {
		fragments = append(fragments, overrideText)
	}
	return fragments
}

func customWakeBedText(day *types.TripDay) string {
	if day.WakeOverride == "" && day.BedOverride == "" {
		return ""
	}
	wake := day.WakeOverride
	if wake == "" {
		wake = "same"
	}
	bed := day.BedOverride
	if bed == "" {
		bed = "same"
	}
	return fmt.Sprintf("Custom wake/bed: %s / %s", wake, bed)
}

func dayNoteLines(days []*types.TripDay) []string {
	var lines []string
	for _, day := range days {
		fragments := dayFragments(day, customWakeBedText(day))
		if len(fragments) == 0 {
			continue
		}
		joined := strings.Join(fragments, "; ")
		if day.Date != nil {
			lines = append(lines, fmt.Sprintf("Day %d (%s): %s", day.DayNumber, day.Date.Format("2006-01-02"), joined))
		} else {
			lines = append(lines, fmt.Sprintf("Day %d: %s", day.DayNumber, joined))
		}
	}
	return lines
}

func guidanceLines(plan *types.TripPlan, hasArrival, hasDeparture, hasHotelDetails, needsHotelSuggestion bool) []string {
	var lines []string
	if hasArrival {
		lines = append(lines,
			`Day 1 must begin with an "Arrival Flight" block summarizing the airline, flight number, arrival airport, and arrival time (omit PNR). Ignore the typical wake/bed windows for this day.`,
			"Even if overrides are configured, do not enforce wake/bed times on the arrival day; anchor the schedule around the flight.")
	}
	if hasHotelDetails {
		checkIn := "the typical afternoon check-in window"
		if plan.HotelCheckIn != nil {
			checkIn = plan.HotelCheckIn.Format("03:04 PM")
		}
		label := plan.HotelName
		if label == "" {
			label = plan.HotelAddress
		}
		if label == "" {
			label = "the hotel"
		}
		lines = append(lines, fmt.Sprintf(`Include a dedicated "Check in at %s" block timed near %s, and remind travelers to wind down or return there when appropriate.`, label, checkIn))
	} else if needsHotelSuggestion {
		lines = append(lines, "No hotel was provided, so choose a realistic hotel that fits the party size and budget ceiling, mention it explicitly before the first full day, include a nightly price range in the cost_estimate field, and respect its check-in/out windows.")
	}
	if hasDeparture {
		lines = append(lines, "On the final day ignore typical wake/bed times and instead shape the schedule around the departure flight, leaving a buffer of at least one hour beforehand.")
	}
	if !hasHotelDetails && !needsHotelSuggestion {
		lines = append(lines, "The traveler will secure their own lodging; leave the accommodation object null and avoid naming or recommending any hotel.")
	}
	if hasArrival || hasDeparture {
		lines = append(lines, "Do not schedule activities before the arrival flight lands or within 1 hour of the departure flight; mention this buffer in your plan if applicable.")
	} else {
		lines = append(lines, "Flights were not provided, so treat the trip as fully land-based with no arrival/departure buffers.")
	}
	return lines
}
