package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BreakWindow is a recurring daily pause the generated schedule must keep
// free, for example a midday rest or a medication window.
type BreakWindow struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"-"`
	TripPlanID uuid.UUID `gorm:"type:uuid;not null;index" json:"-"`

	StartTime string `gorm:"size:5;not null" json:"start_time"`
	EndTime   string `gorm:"size:5;not null" json:"end_time"`
	Purpose   string `gorm:"size:64" json:"purpose"`

	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (BreakWindow) TableName() string {
	return "break_window"
}
