package services

import (
  "context"
  "errors"
  "fmt"
  "strings"
  "time"

  "golang.org/x/sync/errgroup"

  "github.com/wayfern/wayfern-backend/internal/clients/flightdata"
  "github.com/wayfern/wayfern-backend/internal/logger"
  "github.com/wayfern/wayfern-backend/internal/observability"
  "github.com/wayfern/wayfern-backend/internal/repos"
  "github.com/wayfern/wayfern-backend/internal/types"
)

// FlightAutofillService fills in airline, airport, and datetime fields
// from a flight-data lookup when the traveler supplied only a flight
// number. It only ever writes fields the traveler left empty, and a
// lookup failure on one direction never blocks the other.
type FlightAutofillService interface {
  // Autofill runs both directions and returns the names of the fields
  // it changed. Lookup failures are logged and swallowed.
  Autofill(ctx context.Context, plan *types.TripPlan) []string
}

type flightAutofillService struct {
  log      *logger.Logger
  flights  flightdata.Client
  planRepo repos.TripPlanRepo
  metrics  *observability.Metrics
}

func NewFlightAutofillService(
  baseLog *logger.Logger,
  flights flightdata.Client,
  planRepo repos.TripPlanRepo,
  metrics *observability.Metrics,
) FlightAutofillService {
  serviceLog := baseLog.With("service", "FlightAutofillService")
  return &flightAutofillService{
    log:      serviceLog,
    flights:  flights,
    planRepo: planRepo,
    metrics:  metrics,
  }
}

func (s *flightAutofillService) Autofill(ctx context.Context, plan *types.TripPlan) []string {
  if plan == nil {
    return nil
  }
  if s.flights == nil {
    s.log.Debug("Flight data client not configured, skipping autofill")
    return nil
  }

  var arrivalChanged, departureChanged []string
  g, gctx := errgroup.WithContext(ctx)
  g.Go(func() error {
    arrivalChanged = s.fillArrival(gctx, plan)
    return nil
  })
  g.Go(func() error {
    departureChanged = s.fillDeparture(gctx, plan)
    return nil
  })
  _ = g.Wait()

  changed := make([]string, 0, len(arrivalChanged)+len(departureChanged))
  changed = append(changed, arrivalChanged...)
  changed = append(changed, departureChanged...)
  return changed
}

func (s *flightAutofillService) fillArrival(ctx context.Context, plan *types.TripPlan) []string {
  number := strings.ToUpper(strings.TrimSpace(plan.ArrivalFlightNumber))
  if number == "" {
    return nil
  }
  if plan.ArrivalAirline != "" && plan.ArrivalAirport != "" && plan.ArrivalDatetime != nil {
    return nil
  }

  details, err := s.flights.Lookup(ctx, number)
  if err != nil {
    s.logLookupFailure("arrival", number, err)
    return nil
  }

  updates := map[string]interface{}{}
  var changed []string
  if plan.ArrivalAirline == "" && details.Airline != "" {
    plan.ArrivalAirline = details.Airline
    updates["arrival_airline"] = details.Airline
    changed = append(changed, "arrival_airline")
  }
  if plan.ArrivalAirport == "" {
    if label := airportLabel(details.ArrivalAirportName, details.ArrivalAirport); label != "" {
      plan.ArrivalAirport = label
      updates["arrival_airport"] = label
      changed = append(changed, "arrival_airport")
    }
  }
  if plan.ArrivalDatetime == nil {
    if ts := parseFlightTime(details.ArrivalTime); ts != nil {
      plan.ArrivalDatetime = ts
      updates["arrival_datetime"] = ts
      changed = append(changed, "arrival_datetime")
    }
  }
  return s.persist(ctx, plan, "arrival", updates, changed)
}

func (s *flightAutofillService) fillDeparture(ctx context.Context, plan *types.TripPlan) []string {
  number := strings.ToUpper(strings.TrimSpace(plan.DepartureFlightNumber))
  if number == "" {
    return nil
  }
  if plan.DepartureAirline != "" && plan.DepartureAirport != "" && plan.DepartureDatetime != nil {
    return nil
  }

  details, err := s.flights.Lookup(ctx, number)
  if err != nil {
    s.logLookupFailure("departure", number, err)
    return nil
  }

  updates := map[string]interface{}{}
  var changed []string
  if plan.DepartureAirline == "" && details.Airline != "" {
    plan.DepartureAirline = details.Airline
    updates["departure_airline"] = details.Airline
    changed = append(changed, "departure_airline")
  }
  if plan.DepartureAirport == "" {
    if label := airportLabel(details.DepartureAirportName, details.DepartureAirport); label != "" {
      plan.DepartureAirport = label
      updates["departure_airport"] = label
      changed = append(changed, "departure_airport")
    }
  }
  if plan.DepartureDatetime == nil {
    if ts := parseFlightTime(details.DepartureTime); ts != nil {
      plan.DepartureDatetime = ts
      updates["departure_datetime"] = ts
      changed = append(changed, "departure_datetime")
    }
  }
  return s.persist(ctx, plan, "departure", updates, changed)
}

func (s *flightAutofillService) persist(
  ctx context.Context,
  plan *types.TripPlan,
  direction string,
  updates map[string]interface{},
  changed []string,
) []string {
  if len(updates) == 0 {
    return nil
  }
  if err := s.planRepo.UpdateFields(ctx, nil, plan.ID, updates); err != nil {
    s.metrics.IncFlightAutofill(direction, "persist_error")
    s.log.Warn("Failed to persist flight autofill",
      "trip_plan_id", plan.ID,
      "direction", direction,
      "error", err,
    )
    return nil
  }
  s.metrics.IncFlightAutofill(direction, "filled")
  s.log.Info("Flight details autofilled",
    "trip_plan_id", plan.ID,
    "direction", direction,
    "fields", changed,
  )
  return changed
}

func (s *flightAutofillService) logLookupFailure(direction, number string, err error) {
  if errors.Is(err, flightdata.ErrFlightNotFound) {
    s.metrics.IncFlightAutofill(direction, "not_found")
    s.log.Debug("Flight not found during autofill", "direction", direction, "flight_number", number)
    return
  }
  s.metrics.IncFlightAutofill(direction, "error")
  s.log.Warn("Flight lookup failed during autofill",
    "direction", direction,
    "flight_number", number,
    "error", err,
  )
}

// airportLabel prefers "Name (CODE)", then name alone, then code alone.
func airportLabel(name, code string) string {
  name = strings.TrimSpace(name)
  code = strings.TrimSpace(code)
  switch {
  case name != "" && code != "":
    return fmt.Sprintf("%s (%s)", name, code)
  case name != "":
    return name
  default:
    return code
  }
}

var flightTimeLayouts = []string{
  time.RFC3339,
  "2006-01-02T15:04:05",
  "2006-01-02T15:04:05Z0700",
}

func parseFlightTime(value string) *time.Time {
  value = strings.TrimSpace(value)
  if value == "" {
    return nil
  }
  for _, layout := range flightTimeLayouts {
    if ts, err := time.Parse(layout, value); err == nil {
      return &ts
    }
  }
  return nil
}
