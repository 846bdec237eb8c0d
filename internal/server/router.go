package server

import (
  "github.com/gin-gonic/gin"
  "go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

  "github.com/wayfern/wayfern-backend/internal/handlers"
  "github.com/wayfern/wayfern-backend/internal/logger"
  "github.com/wayfern/wayfern-backend/internal/middleware"
  "github.com/wayfern/wayfern-backend/internal/observability"
)

type RouterConfig struct {
  TripHandler   *handlers.TripHandler
  FlightHandler *handlers.FlightHandler

  Log     *logger.Logger
  Metrics *observability.Metrics
}

func NewRouter(cfg RouterConfig) *gin.Engine {
  router := gin.Default()

  router.Use(middleware.CORS())
  router.Use(otelgin.Middleware("wayfern-backend"))
  router.Use(middleware.AttachTraceContext())
  if cfg.Log != nil {
    router.Use(middleware.RequestLogger(cfg.Log))
  }
  router.Use(middleware.Metrics(cfg.Metrics))

  // Health
  router.GET("/healthcheck", handlers.HealthCheck)

  api := router.Group("/api")
  {
    // Trips
    if cfg.TripHandler != nil {
      api.POST("/trips", cfg.TripHandler.Create)
      api.GET("/trips/:code", cfg.TripHandler.Detail)
      api.GET("/trips/:code/status", cfg.TripHandler.Status)

      // Access code lookup lives outside /trips because the :code
      // wildcard above would swallow a literal segment.
      api.POST("/access", cfg.TripHandler.Find)
      api.GET("/access", cfg.TripHandler.Find)
    }

    // Flights
    if cfg.FlightHandler != nil {
      api.POST("/flights/lookup", cfg.FlightHandler.Lookup)
    }
  }

  return router
}
