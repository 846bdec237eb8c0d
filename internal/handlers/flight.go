package handlers

import (
  "errors"
  "net/http"

  "github.com/gin-gonic/gin"

  "github.com/wayfern/wayfern-backend/internal/clients/flightdata"
)

type FlightHandler struct {
  flights flightdata.Client
}

func NewFlightHandler(flights flightdata.Client) *FlightHandler {
  return &FlightHandler{flights: flights}
}

// POST /api/flights/lookup
func (fh *FlightHandler) Lookup(c *gin.Context) {
  if fh.flights == nil {
    c.JSON(http.StatusServiceUnavailable, gin.H{"error": "flight lookup is not configured"})
    return
  }

  var req struct {
    FlightNumber string `json:"flight_number"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
    return
  }
  if req.FlightNumber == "" {
    c.JSON(http.StatusBadRequest, gin.H{"error": "flight number is required"})
    return
  }

  details, err := fh.flights.Lookup(c.Request.Context(), req.FlightNumber)
  if err != nil {
    if errors.Is(err, flightdata.ErrFlightNotFound) {
      c.JSON(http.StatusNotFound, gin.H{"error": "no flight found for that number"})
      return
    }
    c.JSON(http.StatusBadGateway, gin.H{"error": "flight lookup unavailable"})
    return
  }
  c.JSON(http.StatusOK, details)
}
