package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TripDay holds the traveler's optional per-day preferences captured at
// submission time. One row per (plan, day number).
type TripDay struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"-"`
	TripPlanID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:uniq_trip_day_number" json:"-"`

	DayNumber int        `gorm:"not null;uniqueIndex:uniq_trip_day_number" json:"day_number"`
	Date      *time.Time `gorm:"type:date" json:"date,omitempty"`

	Notes        string `json:"notes"`
	MustDo       string `json:"must_do"`
	Constraints  string `json:"constraints"`
	WakeOverride string `gorm:"size:5" json:"wake_override"`
	BedOverride  string `gorm:"size:5" json:"bed_override"`

	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (TripDay) TableName() string {
	return "trip_day"
}
