package app

import (
	"github.com/wayfern/wayfern-backend/internal/handlers"
	"github.com/wayfern/wayfern-backend/internal/logger"
)

type Handlers struct {
	Trip   *handlers.TripHandler
	Flight *handlers.FlightHandler
}

func wireHandlers(log *logger.Logger, services Services, clients Clients) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Trip:   handlers.NewTripHandler(services.TripPlan),
		Flight: handlers.NewFlightHandler(clients.Flights),
	}
}
