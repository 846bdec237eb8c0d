package app

import (
	"github.com/gin-gonic/gin"

	"github.com/wayfern/wayfern-backend/internal/logger"
	"github.com/wayfern/wayfern-backend/internal/observability"
	"github.com/wayfern/wayfern-backend/internal/server"
)

func wireRouter(handlers Handlers, log *logger.Logger, metrics *observability.Metrics) *gin.Engine {
	return server.NewRouter(server.RouterConfig{
		TripHandler:   handlers.Trip,
		FlightHandler: handlers.Flight,
		Log:           log,
		Metrics:       metrics,
	})
}
