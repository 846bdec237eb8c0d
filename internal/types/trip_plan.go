package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	TripPurposeLeisure   = "leisure"
	TripPurposeFamily    = "family"
	TripPurposeAdventure = "adventure"
	TripPurposeRelaxed   = "relaxed"
	TripPurposeBusiness  = "business"
)

const (
	EnergyEasy     = "easy"
	EnergyBalanced = "balanced"
	EnergyHigh     = "high"
)

// TripPlan is the root record for one trip submission. The access code is
// the only identifier handed out to callers; the row ID stays internal.
// GeneratedPayload is null until a generation attempt succeeds.
type TripPlan struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"-"`
	AccessCode  string    `gorm:"size:8;uniqueIndex" json:"access_code"`
	Destination string    `gorm:"size:255;not null" json:"destination"`

	StartDate *time.Time `gorm:"type:date" json:"start_date,omitempty"`
	EndDate   *time.Time `gorm:"type:date" json:"end_date,omitempty"`
	NumDays   int        `gorm:"not null;default:1" json:"num_days"`

	WakeTime string `gorm:"size:5;not null" json:"wake_time"`
	BedTime  string `gorm:"size:5;not null" json:"bed_time"`

	TripPurpose string `gorm:"size:32;not null;default:leisure" json:"trip_purpose"`
	EnergyLevel string `gorm:"size:16;not null;default:balanced" json:"energy_level"`

	PartyAdults   int `gorm:"not null;default:1" json:"party_adults"`
	PartyChildren int `gorm:"not null;default:0" json:"party_children"`

	IncludeBreakfast bool `gorm:"not null;default:true" json:"include_breakfast"`
	IncludeLunch     bool `gorm:"not null;default:true" json:"include_lunch"`
	IncludeDinner    bool `gorm:"not null;default:true" json:"include_dinner"`

	DietaryNotes     string `json:"dietary_notes"`
	MobilityNotes    string `json:"mobility_notes"`
	DowntimeRequired bool   `gorm:"not null;default:false" json:"downtime_required"`

	HotelName        string     `gorm:"size:255" json:"hotel_name"`
	HotelAddress     string     `gorm:"size:255" json:"hotel_address"`
	HotelCheckIn     *time.Time `json:"hotel_check_in,omitempty"`
	HotelCheckOut    *time.Time `json:"hotel_check_out,omitempty"`
	AutoSuggestHotel bool       `gorm:"not null;default:false" json:"auto_suggest_hotel"`

	ArrivalFlightNumber string     `gorm:"size:16" json:"arrival_flight_number"`
	ArrivalAirline      string     `gorm:"size:128" json:"arrival_airline"`
	ArrivalAirport      string     `gorm:"size:128" json:"arrival_airport"`
	ArrivalDatetime     *time.Time `json:"arrival_datetime,omitempty"`

	DepartureFlightNumber string     `gorm:"size:16" json:"departure_flight_number"`
	DepartureAirline      string     `gorm:"size:128" json:"departure_airline"`
	DepartureAirport      string     `gorm:"size:128" json:"departure_airport"`
	DepartureDatetime     *time.Time `json:"departure_datetime,omitempty"`

	OverallBudgetMax *float64 `json:"overall_budget_max,omitempty"`

	GeneratedPayload datatypes.JSON `json:"generated_payload,omitempty"`

	CreatedAt time.Time      `gorm:"not null;index" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (TripPlan) TableName() string {
	return "trip_plan"
}

// HasGeneratedPayload reports whether a generation attempt has persisted an
// itinerary for this plan. Readiness is derived from the payload column only.
func (p *TripPlan) HasGeneratedPayload() bool {
	return len(p.GeneratedPayload) > 0
}
