package app

import (
	"gorm.io/gorm"

	"github.com/wayfern/wayfern-backend/internal/logger"
	"github.com/wayfern/wayfern-backend/internal/repos"
)

type Repos struct {
	TripPlan         repos.TripPlanRepo
	TripDay          repos.TripDayRepo
	BreakWindow      repos.BreakWindowRepo
	BudgetAllocation repos.BudgetAllocationRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		TripPlan:         repos.NewTripPlanRepo(db, log),
		TripDay:          repos.NewTripDayRepo(db, log),
		BreakWindow:      repos.NewBreakWindowRepo(db, log),
		BudgetAllocation: repos.NewBudgetAllocationRepo(db, log),
	}
}
