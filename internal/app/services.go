package app

import (
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/wayfern/wayfern-backend/internal/logger"
	"github.com/wayfern/wayfern-backend/internal/observability"
	"github.com/wayfern/wayfern-backend/internal/services"
)

type Services struct {
	AccessCodes services.AccessCodeService
	Generator   services.ItineraryGenerationService
	Autofill    services.FlightAutofillService
	TripPlan    services.TripPlanService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, repos Repos, clients Clients, metrics *observability.Metrics) (Services, error) {
	log.Info("Wiring services...")

	accessCodes := services.NewAccessCodeService(log, repos.TripPlan, metrics)

	var policy services.ExecPolicy
	switch strings.ToLower(strings.TrimSpace(cfg.GenerationMode)) {
	case "inline":
		policy = services.InlinePolicy{}
	case "", "background":
		policy = services.BackgroundPolicy{Timeout: cfg.GenerationTimeout}
	default:
		return Services{}, fmt.Errorf("unknown GENERATION_MODE %q", cfg.GenerationMode)
	}

	generator := services.NewItineraryGenerationService(
		log,
		repos.TripPlan,
		repos.TripDay,
		repos.BreakWindow,
		repos.BudgetAllocation,
		clients.OpenAI,
		policy,
		metrics,
	)

	autofill := services.NewFlightAutofillService(log, clients.Flights, repos.TripPlan, metrics)

	tripPlan := services.NewTripPlanService(
		db,
		log,
		repos.TripPlan,
		repos.TripDay,
		repos.BreakWindow,
		repos.BudgetAllocation,
		accessCodes,
		autofill,
		generator,
		metrics,
	)

	return Services{
		AccessCodes: accessCodes,
		Generator:   generator,
		Autofill:    autofill,
		TripPlan:    tripPlan,
	}, nil
}
