package planner

import (
	"strings"
	"time"

	"github.com/wayfern/wayfern-backend/internal/types"
)

// vaguePlaceTokens disqualify a place_query from venue lookup; they describe
// an area rather than one findable place.
var vaguePlaceTokens = []string{
	"near hotel",
	"downtown",
	"city center",
	"city centre",
	"historic area",
	"old town",
	"waterfront",
	"main square",
}

// DayOverrideView mirrors the traveler's stored preferences for one day,
// displayed beside the generated schedule.
type DayOverrideView struct {
	Date         *time.Time `json:"date,omitempty"`
	Notes        string     `json:"notes,omitempty"`
	MustDo       string     `json:"must_do,omitempty"`
	Constraints  string     `json:"constraints,omitempty"`
	WakeOverride string     `json:"wake_override,omitempty"`
	BedOverride  string     `json:"bed_override,omitempty"`
}

// DayView is one generated day joined with the matching submission day.
type DayView struct {
	Day
	FormDay     *DayOverrideView `json:"form_day,omitempty"`
	NoteSummary string           `json:"note_summary,omitempty"`
}

// RequiresPlace reports whether a place_query should drive a venue lookup.
// Empty values, "not required" style refusals, and area descriptions do not
// qualify.
func RequiresPlace(placeQuery string) bool {
	q := strings.ToLower(strings.TrimSpace(placeQuery))
	if q == "" {
		return false
	}
	if strings.Contains(q, "not req") {
		return false
	}
	for _, token := range vaguePlaceTokens {
		if strings.Contains(q, token) {
			return false
		}
	}
	return true
}

// EnrichForDisplay joins generated days with the traveler's per-day
// preferences and recomputes each activity's requires_place flag from its
// place_query, overriding whatever the model claimed.
func EnrichForDisplay(p Payload, overrides []*types.TripDay) []DayView {
	byNumber := make(map[int]*types.TripDay, len(overrides))
	for _, o := range overrides {
		byNumber[o.DayNumber] = o
	}
	views := make([]DayView, 0, len(p.Days))
	for _, day := range p.Days {
		view := DayView{Day: day}
		view.Activities = make([]Activity, len(day.Activities))
		for i, act := range day.Activities {
			act.RequiresPlace = RequiresPlace(act.PlaceQuery)
			view.Activities[i] = act
		}
		if o, ok := byNumber[day.DayNumber]; ok {
			view.FormDay = &DayOverrideView{
				Date:         o.Date,
				Notes:        o.Notes,
				MustDo:       o.MustDo,
				Constraints:  o.Constraints,
				WakeOverride: o.WakeOverride,
				BedOverride:  o.BedOverride,
			}
			view.NoteSummary = strings.Join(dayFragments(o, customWakeBedText(o)), "; ")
		}
		views = append(views, view)
	}
	return views
}
