package planner

import (
	"fmt"
	"strings"
)

// outputContract is the literal response shape shown to the model. The
// normalizer accepts looser variants, but the contract keeps well-behaved
// responses in canonical form from the start.
const outputContract = `{
  "accommodation": {
    "name": "Hotel name",
    "description": "Why this hotel suits the trip",
    "cost_estimate": "$180-$220 per night",
    "place_query": "Hotel name and city"
  },
  "days": [
    {
      "day_number": 1,
      "title": "Arrival & Exploration",
      "activities": [
        {
          "time": "9:00 AM",
          "name": "Activity name",
          "description": "Brief description",
          "duration": "2 hours",
          "cost_estimate": "$50",
          "must_do": false,
          "place_query": "Specific venue name and city",
          "requires_place": true
        }
      ]
    }
  ]
}`

// AssemblePrompt renders the generation prompt from a built context. The
// section order is fixed; identical contexts produce identical prompts.
func AssemblePrompt(pctx Context) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Create a detailed travel itinerary for %s.\n\n", pctx.Destination)

	b.WriteString("Trip profile:\n")
	dates := pctx.DateRange
	if dates == "" {
		dates = "Not specified"
	}
	fmt.Fprintf(&b, "- Dates: %s\n", dates)
	unit := "days"
	if pctx.NumDays == 1 {
		unit = "day"
	}
	fmt.Fprintf(&b, "- Trip length: %d %s\n", pctx.NumDays, unit)
	fmt.Fprintf(&b, "- Party: %s\n", pctx.Party)
	fmt.Fprintf(&b, "- Trip purpose: %s\n", pctx.TripPurpose)
	fmt.Fprintf(&b, "- Energy level: %s\n", pctx.EnergyLevel)
	fmt.Fprintf(&b, "- Overall budget ceiling: %s\n\n", pctx.OverallBudget)

	b.WriteString("Daily rhythm and meals:\n")
	fmt.Fprintf(&b, "- Wake up time: %s\n", pctx.WakeTime)
	fmt.Fprintf(&b, "- Bed time: %s\n", pctx.BedTime)
	fmt.Fprintf(&b, "- Break windows: %s\n", pctx.BreakWindows)
	fmt.Fprintf(&b, "- Meals: %s\n", pctx.Meals)
	if pctx.DietaryNotes != "" {
		fmt.Fprintf(&b, "- Dietary notes: %s\n", pctx.DietaryNotes)
	}
	if pctx.MobilityNotes != "" {
		fmt.Fprintf(&b, "- Mobility notes: %s\n", pctx.MobilityNotes)
	}
	if pctx.Downtime {
		b.WriteString("- Downtime: build unscheduled downtime into every day.\n")
	}
	b.WriteString("\n")

	b.WriteString("Logistics:\n")
	b.WriteString("Flights:\n")
	b.WriteString(pctx.FlightBlock)
	b.WriteString("\n")
	if pctx.WakeNote != "" {
		b.WriteString(pctx.WakeNote)
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "Hotel / lodging: %s\n", pctx.Hotel)
	if pctx.Season != "" {
		b.WriteString(pctx.Season)
		b.WriteString("\n")
	}
	budget := strings.Join(pctx.BudgetLines, ", ")
	if budget == "" {
		budget = "Flexible"
	}
	fmt.Fprintf(&b, "Budget categories: %s\n\n", budget)

	b.WriteString("Additional guidance:\n")
	for _, line := range pctx.Guidance {
		fmt.Fprintf(&b, "- %s\n", line)
	}
	b.WriteString("\n")

	b.WriteString("Per-day wake/bed overrides:\n")
	b.WriteString(pctx.OverridesBlock)
	b.WriteString("\n\n")

	if len(pctx.DayNotes) > 0 {
		b.WriteString("User preferences for specific days:\n")
		b.WriteString(strings.Join(pctx.DayNotes, "\n"))
		b.WriteString("\n\n")
	}

	b.WriteString("Respond with a single JSON object in exactly this structure:\n")
	b.WriteString(outputContract)
	b.WriteString("\n\n")

	b.WriteString("Rules:\n")
	for i, rule := range promptRules() {
		fmt.Fprintf(&b, "%d. %s\n", i+1, rule)
	}

	return b.String()
}
