package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	BudgetCategoryAccommodation  = "Accommodation"
	BudgetCategoryTransportation = "Transportation"
	BudgetCategoryFoodAndDining  = "Food & Dining"
	BudgetCategoryActivities     = "Activities"
	BudgetCategoryShopping       = "Shopping"
	BudgetCategoryOther          = "Other"
)

// BudgetCategories lists the accepted category values in display order.
var BudgetCategories = []string{
	BudgetCategoryAccommodation,
	BudgetCategoryTransportation,
	BudgetCategoryFoodAndDining,
	BudgetCategoryActivities,
	BudgetCategoryShopping,
	BudgetCategoryOther,
}

// BudgetAllocation is one spending bucket for the trip. The Other category
// may carry a custom label supplied by the traveler.
type BudgetAllocation struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"-"`
	TripPlanID uuid.UUID `gorm:"type:uuid;not null;index" json:"-"`

	Category    string  `gorm:"size:50;not null" json:"category"`
	CustomLabel string  `gorm:"size:100" json:"custom_label"`
	Amount      float64 `gorm:"not null;default:0" json:"amount"`

	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (BudgetAllocation) TableName() string {
	return "budget_allocation"
}

// Label is the display name for this bucket. Other falls back to the
// custom label when one was provided.
func (b *BudgetAllocation) Label() string {
	if b.Category == BudgetCategoryOther && b.CustomLabel != "" {
		return b.CustomLabel
	}
	return b.Category
}
