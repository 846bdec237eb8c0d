package services

import (
  "context"
  "fmt"
  "sort"
  "strings"
  "time"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/wayfern/wayfern-backend/internal/logger"
  "github.com/wayfern/wayfern-backend/internal/observability"
  "github.com/wayfern/wayfern-backend/internal/planner"
  "github.com/wayfern/wayfern-backend/internal/repos"
  "github.com/wayfern/wayfern-backend/internal/types"
)

const (
  dateLayout  = "2006-01-02"
  clockLayout = "15:04"

  defaultWakeTime = "08:00"
  defaultBedTime  = "22:00"
)

// DayInput is one optional per-day preference row from the submission.
type DayInput struct {
  DayNumber    int    `json:"day_number"`
  Date         string `json:"date"`
  Notes        string `json:"notes"`
  MustDo       string `json:"must_do"`
  Constraints  string `json:"constraints"`
  WakeOverride string `json:"wake_override"`
  BedOverride  string `json:"bed_override"`
}

// BreakInput is one recurring daily break window from the submission.
type BreakInput struct {
  StartTime string `json:"start_time"`
  EndTime   string `json:"end_time"`
  Purpose   string `json:"purpose"`
}

// BudgetInput is one budget bucket from the submission. Rows with a nil
// amount are dropped rather than rejected.
type BudgetInput struct {
  Category    string   `json:"category"`
  CustomLabel string   `json:"custom_label"`
  Amount      *float64 `json:"amount"`
}

// CreateTripPlanInput is the full trip submission. Dates use YYYY-MM-DD,
// clock fields use HH:MM, and datetimes use RFC 3339.
type CreateTripPlanInput struct {
  Destination string `json:"destination"`

  StartDate string `json:"start_date"`
  EndDate   string `json:"end_date"`
  NumDays   int    `json:"num_days"`

  WakeTime string `json:"wake_time"`
  BedTime  string `json:"bed_time"`

  TripPurpose string `json:"trip_purpose"`
  EnergyLevel string `json:"energy_level"`

  PartyAdults   int `json:"party_adults"`
  PartyChildren int `json:"party_children"`

  IncludeBreakfast *bool `json:"include_breakfast"`
  IncludeLunch     *bool `json:"include_lunch"`
  IncludeDinner    *bool `json:"include_dinner"`

  DietaryNotes     string `json:"dietary_notes"`
  MobilityNotes    string `json:"mobility_notes"`
  DowntimeRequired bool   `json:"downtime_required"`

  HotelName        string `json:"hotel_name"`
  HotelAddress     string `json:"hotel_address"`
  HotelCheckIn     string `json:"hotel_check_in"`
  HotelCheckOut    string `json:"hotel_check_out"`
  AutoSuggestHotel bool   `json:"auto_suggest_hotel"`

  ArrivalFlightNumber string `json:"arrival_flight_number"`
  ArrivalAirline      string `json:"arrival_airline"`
  ArrivalAirport      string `json:"arrival_airport"`
  ArrivalDatetime     string `json:"arrival_datetime"`

  DepartureFlightNumber string `json:"departure_flight_number"`
  DepartureAirline      string `json:"departure_airline"`
  DepartureAirport      string `json:"departure_airport"`
  DepartureDatetime     string `json:"departure_datetime"`

  OverallBudgetMax *float64 `json:"overall_budget_max"`

  Days    []DayInput    `json:"days"`
  Breaks  []BreakInput  `json:"breaks"`
  Budgets []BudgetInput `json:"budgets"`
}

// TripPlanDetail is everything a viewer needs to render one itinerary.
// Days is nil while generation is pending or after a corrupt payload.
type TripPlanDetail struct {
  Plan          *types.TripPlan           `json:"trip"`
  Days          []planner.DayView         `json:"days"`
  Accommodation interface{}               `json:"accommodation"`
  Breaks        []*types.BreakWindow      `json:"breaks"`
  Budgets       []*types.BudgetAllocation `json:"budgets"`
  IsGenerating  bool                      `json:"is_generating"`
}

type TripPlanService interface {
  // Create validates and persists a submission, then kicks off flight
  // autofill and itinerary generation. The returned plan carries its
  // freshly minted access code.
  Create(ctx context.Context, input CreateTripPlanInput) (*types.TripPlan, error)

  // FindByAccessCode resolves a viewer-supplied code. Codes are
  // normalized to upper case before lookup. Returns ErrNotFound when
  // nothing matches.
  FindByAccessCode(ctx context.Context, accessCode string) (*types.TripPlan, error)

  // Detail loads the plan plus its stored itinerary joined with the
  // traveler's per-day preferences.
  Detail(ctx context.Context, accessCode string) (*TripPlanDetail, error)

  // Status reports whether generation is still pending for the plan.
  Status(ctx context.Context, accessCode string) (bool, error)
}

type tripPlanService struct {
  db          *gorm.DB
  log         *logger.Logger
  planRepo    repos.TripPlanRepo
  dayRepo     repos.TripDayRepo
  breakRepo   repos.BreakWindowRepo
  budgetRepo  repos.BudgetAllocationRepo
  accessCodes AccessCodeService
  autofill    FlightAutofillService
  generator   ItineraryGenerationService
  metrics     *observability.Metrics
}

func NewTripPlanService(
  db *gorm.DB,
  baseLog *logger.Logger,
  planRepo repos.TripPlanRepo,
  dayRepo repos.TripDayRepo,
  breakRepo repos.BreakWindowRepo,
  budgetRepo repos.BudgetAllocationRepo,
  accessCodes AccessCodeService,
  autofill FlightAutofillService,
  generator ItineraryGenerationService,
  metrics *observability.Metrics,
) TripPlanService {
  serviceLog := baseLog.With("service", "TripPlanService")
  return &tripPlanService{
    db:          db,
    log:         serviceLog,
    planRepo:    planRepo,
    dayRepo:     dayRepo,
    breakRepo:   breakRepo,
    budgetRepo:  budgetRepo,
    accessCodes: accessCodes,
    autofill:    autofill,
    generator:   generator,
    metrics:     metrics,
  }
}

// submission is a fully validated create request ready to persist.
type submission struct {
  plan    *types.TripPlan
  days    []*types.TripDay
  breaks  []*types.BreakWindow
  budgets []*types.BudgetAllocation
}

func (s *tripPlanService) Create(ctx context.Context, input CreateTripPlanInput) (*types.TripPlan, error) {
  sub, err := s.buildSubmission(input)
  if err != nil {
    return nil, err
  }

  code, err := s.accessCodes.Generate(ctx)
  if err != nil {
    return nil, fmt.Errorf("assign access code: %w", err)
  }
  sub.plan.AccessCode = code

  err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    if _, err := s.planRepo.Create(ctx, tx, []*types.TripPlan{sub.plan}); err != nil {
      return fmt.Errorf("create trip plan: %w", err)
    }
    for _, day := range sub.days {
      day.TripPlanID = sub.plan.ID
    }
    for _, window := range sub.breaks {
      window.TripPlanID = sub.plan.ID
    }
    for _, budget := range sub.budgets {
      budget.TripPlanID = sub.plan.ID
    }
    if len(sub.days) > 0 {
      if _, err := s.dayRepo.Create(ctx, tx, sub.days); err != nil {
        return fmt.Errorf("create trip days: %w", err)
      }
    }
    if len(sub.breaks) > 0 {
      if _, err := s.breakRepo.Create(ctx, tx, sub.breaks); err != nil {
        return fmt.Errorf("create break windows: %w", err)
      }
    }
    if len(sub.budgets) > 0 {
      if _, err := s.budgetRepo.Create(ctx, tx, sub.budgets); err != nil {
        return fmt.Errorf("create budget allocations: %w", err)
      }
    }
    return nil
  })
  if err != nil {
    return nil, err
  }
  s.metrics.IncTripCreated()
  s.log.Info("Trip plan created",
    "trip_plan_id", sub.plan.ID,
    "access_code", sub.plan.AccessCode,
    "destination", sub.plan.Destination,
  )

  if s.autofill != nil {
    s.autofill.Autofill(ctx, sub.plan)
  }
  if s.generator != nil {
    if err := s.generator.Schedule(ctx, sub.plan.ID); err != nil {
      s.log.Warn("Failed to schedule itinerary generation",
        "trip_plan_id", sub.plan.ID,
        "error", err,
      )
    }
  }
  return sub.plan, nil
}

func (s *tripPlanService) FindByAccessCode(ctx context.Context, accessCode string) (*types.TripPlan, error) {
  code := strings.ToUpper(strings.TrimSpace(accessCode))
  if code == "" {
    verr := newValidationError()
    verr.add("access_code", "please enter an access code")
    return nil, verr
  }
  plan, err := s.planRepo.GetByAccessCode(ctx, nil, code)
  if err != nil {
    return nil, fmt.Errorf("look up access code: %w", err)
  }
  if plan == nil {
    return nil, ErrNotFound
  }
  return plan, nil
}

func (s *tripPlanService) Detail(ctx context.Context, accessCode string) (*TripPlanDetail, error) {
  plan, err := s.FindByAccessCode(ctx, accessCode)
  if err != nil {
    return nil, err
  }

  days, err := s.dayRepo.GetByTripPlanID(ctx, nil, plan.ID)
  if err != nil {
    return nil, fmt.Errorf("load trip days: %w", err)
  }
  breaks, err := s.breakRepo.GetByTripPlanID(ctx, nil, plan.ID)
  if err != nil {
    return nil, fmt.Errorf("load break windows: %w", err)
  }
  budgets, err := s.budgetRepo.GetByTripPlanID(ctx, nil, plan.ID)
  if err != nil {
    return nil, fmt.Errorf("load budget allocations: %w", err)
  }

  detail := &TripPlanDetail{
    Plan:         plan,
    Breaks:       breaks,
    Budgets:      budgets,
    IsGenerating: !plan.HasGeneratedPayload(),
  }
  if plan.HasGeneratedPayload() {
    payload, err := planner.Normalize(plan.GeneratedPayload)
    if err != nil {
      s.log.Error("Stored itinerary payload is corrupt",
        "trip_plan_id", plan.ID,
        "error", err,
      )
    } else {
      detail.Days = planner.EnrichForDisplay(payload, days)
      detail.Accommodation = payload.Accommodation
    }
  }
  return detail, nil
}

func (s *tripPlanService) Status(ctx context.Context, accessCode string) (bool, error) {
  plan, err := s.FindByAccessCode(ctx, accessCode)
  if err != nil {
    return false, err
  }
  return !plan.HasGeneratedPayload(), nil
}

// buildSubmission validates the whole input and reports every problem at
// once. Nothing is persisted unless the entire submission is valid.
func (s *tripPlanService) buildSubmission(input CreateTripPlanInput) (*submission, error) {
  verr := newValidationError()

  destination := strings.TrimSpace(input.Destination)
  if destination == "" {
    verr.add("destination", "destination is required")
  }

  startDate := parseDate(input.StartDate, "start_date", verr)
  endDate := parseDate(input.EndDate, "end_date", verr)
  if startDate != nil && endDate != nil && endDate.Before(*startDate) {
    verr.add("end_date", "end date must be on or after the start date")
  }

  numDays := input.NumDays
  if startDate == nil || endDate == nil {
    if numDays != 0 && (numDays < planner.MinTripDays || numDays > planner.MaxTripDays) {
      verr.add("num_days", fmt.Sprintf("number of days must be between %d and %d", planner.MinTripDays, planner.MaxTripDays))
    }
  }
  numDays = planner.DeriveNumDays(startDate, endDate, numDays)

  wakeTime := parseClockWithDefault(input.WakeTime, defaultWakeTime, "wake_time", verr)
  bedTime := parseClockWithDefault(input.BedTime, defaultBedTime, "bed_time", verr)

  purpose := strings.TrimSpace(input.TripPurpose)
  if purpose == "" {
    purpose = types.TripPurposeLeisure
  }
  switch purpose {
  case types.TripPurposeLeisure, types.TripPurposeFamily, types.TripPurposeAdventure,
    types.TripPurposeRelaxed, types.TripPurposeBusiness:
  default:
    verr.add("trip_purpose", fmt.Sprintf("unknown trip purpose %q", purpose))
  }

  energy := strings.TrimSpace(input.EnergyLevel)
  if energy == "" {
    energy = types.EnergyBalanced
  }
  switch energy {
  case types.EnergyEasy, types.EnergyBalanced, types.EnergyHigh:
  default:
    verr.add("energy_level", fmt.Sprintf("unknown energy level %q", energy))
  }

  adults := input.PartyAdults
  if adults == 0 {
    adults = 1
  }
  if adults < 0 {
    verr.add("party_adults", "party size cannot be negative")
  }
  children := input.PartyChildren
  if children < 0 {
    verr.add("party_children", "party size cannot be negative")
  }

  if input.OverallBudgetMax != nil && *input.OverallBudgetMax < 0 {
    verr.add("overall_budget_max", "budget ceiling cannot be negative")
  }

  hotelCheckIn := parseDatetime(input.HotelCheckIn, "hotel_check_in", verr)
  hotelCheckOut := parseDatetime(input.HotelCheckOut, "hotel_check_out", verr)
  arrivalDatetime := parseDatetime(input.ArrivalDatetime, "arrival_datetime", verr)
  departureDatetime := parseDatetime(input.DepartureDatetime, "departure_datetime", verr)

  days := buildDays(input.Days, numDays, verr)
  breaks := buildBreaks(input.Breaks, verr)
  budgets := buildBudgets(input.Budgets, verr)

  if !verr.ok() {
    return nil, verr
  }

  plan := &types.TripPlan{
    ID:          uuid.New(),
    Destination: destination,

    StartDate: startDate,
    EndDate:   endDate,
    NumDays:   numDays,

    WakeTime: wakeTime,
    BedTime:  bedTime,

    TripPurpose: purpose,
    EnergyLevel: energy,

    PartyAdults:   adults,
    PartyChildren: children,

    IncludeBreakfast: boolOrDefault(input.IncludeBreakfast, true),
    IncludeLunch:     boolOrDefault(input.IncludeLunch, true),
    IncludeDinner:    boolOrDefault(input.IncludeDinner, true),

    DietaryNotes:     strings.TrimSpace(input.DietaryNotes),
    MobilityNotes:    strings.TrimSpace(input.MobilityNotes),
    DowntimeRequired: input.DowntimeRequired,

    HotelName:        strings.TrimSpace(input.HotelName),
    HotelAddress:     strings.TrimSpace(input.HotelAddress),
    HotelCheckIn:     hotelCheckIn,
    HotelCheckOut:    hotelCheckOut,
    AutoSuggestHotel: input.AutoSuggestHotel,

    ArrivalFlightNumber: strings.ToUpper(strings.TrimSpace(input.ArrivalFlightNumber)),
    ArrivalAirline:      strings.TrimSpace(input.ArrivalAirline),
    ArrivalAirport:      strings.TrimSpace(input.ArrivalAirport),
    ArrivalDatetime:     arrivalDatetime,

    DepartureFlightNumber: strings.ToUpper(strings.TrimSpace(input.DepartureFlightNumber)),
    DepartureAirline:      strings.TrimSpace(input.DepartureAirline),
    DepartureAirport:      strings.TrimSpace(input.DepartureAirport),
    DepartureDatetime:     departureDatetime,

    OverallBudgetMax: input.OverallBudgetMax,
  }
  return &submission{plan: plan, days: days, breaks: breaks, budgets: budgets}, nil
}

func buildDays(inputs []DayInput, numDays int, verr *ValidationError) []*types.TripDay {
  seen := map[int]bool{}
  var days []*types.TripDay
  for i, in := range inputs {
    field := fmt.Sprintf("days[%d]", i)
    if dayInputEmpty(in) {
      continue
    }
    if in.DayNumber < 1 || in.DayNumber > numDays {
      verr.add(field, fmt.Sprintf("day number %d is outside the trip", in.DayNumber))
      continue
    }
    if seen[in.DayNumber] {
      verr.add(field, fmt.Sprintf("day %d appears more than once", in.DayNumber))
      continue
    }
    seen[in.DayNumber] = true

    day := &types.TripDay{
      ID:          uuid.New(),
      DayNumber:   in.DayNumber,
      Notes:       strings.TrimSpace(in.Notes),
      MustDo:      strings.TrimSpace(in.MustDo),
      Constraints: strings.TrimSpace(in.Constraints),
    }
    if date := strings.TrimSpace(in.Date); date != "" {
      ts, err := time.Parse(dateLayout, date)
      if err != nil {
        verr.add(field, "date must use the YYYY-MM-DD format")
        continue
      }
      day.Date = &ts
    }
    if wake := strings.TrimSpace(in.WakeOverride); wake != "" {
      if !validClock(wake) {
        verr.add(field, "wake override must use the HH:MM format")
        continue
      }
      day.WakeOverride = wake
    }
    if bed := strings.TrimSpace(in.BedOverride); bed != "" {
      if !validClock(bed) {
        verr.add(field, "bed override must use the HH:MM format")
        continue
      }
      day.BedOverride = bed
    }
    days = append(days, day)
  }
  sort.Slice(days, func(i, j int) bool { return days[i].DayNumber < days[j].DayNumber })
  return days
}

func dayInputEmpty(in DayInput) bool {
  return strings.TrimSpace(in.Date) == "" &&
    strings.TrimSpace(in.Notes) == "" &&
    strings.TrimSpace(in.MustDo) == "" &&
    strings.TrimSpace(in.Constraints) == "" &&
    strings.TrimSpace(in.WakeOverride) == "" &&
    strings.TrimSpace(in.BedOverride) == ""
}

func buildBreaks(inputs []BreakInput, verr *ValidationError) []*types.BreakWindow {
  var windows []*types.BreakWindow
  for i, in := range inputs {
    field := fmt.Sprintf("breaks[%d]", i)
    start := strings.TrimSpace(in.StartTime)
    end := strings.TrimSpace(in.EndTime)
    if start == "" && end == "" {
      continue
    }
    if start == "" || end == "" {
      verr.add(field, "break windows need both a start and an end time")
      continue
    }
    if !validClock(start) || !validClock(end) {
      verr.add(field, "break times must use the HH:MM format")
      continue
    }
    windows = append(windows, &types.BreakWindow{
      ID:        uuid.New(),
      StartTime: start,
      EndTime:   end,
      Purpose:   strings.TrimSpace(in.Purpose),
    })
  }
  return windows
}

func buildBudgets(inputs []BudgetInput, verr *ValidationError) []*types.BudgetAllocation {
  var budgets []*types.BudgetAllocation
  for i, in := range inputs {
    field := fmt.Sprintf("budgets[%d]", i)
    category := strings.TrimSpace(in.Category)
    if category == "" && in.Amount == nil {
      continue
    }
    if !validBudgetCategory(category) {
      verr.add(field, fmt.Sprintf("unknown budget category %q", category))
      continue
    }
    if in.Amount == nil {
      continue
    }
    if *in.Amount < 0 {
      verr.add(field, "budget amounts cannot be negative")
      continue
    }
    budgets = append(budgets, &types.BudgetAllocation{
      ID:          uuid.New(),
      Category:    category,
      CustomLabel: strings.TrimSpace(in.CustomLabel),
      Amount:      *in.Amount,
    })
  }
  return budgets
}

func validBudgetCategory(category string) bool {
  for _, known := range types.BudgetCategories {
    if category == known {
      return true
    }
  }
  return false
}

func parseDate(value, field string, verr *ValidationError) *time.Time {
  value = strings.TrimSpace(value)
  if value == "" {
    return nil
  }
  ts, err := time.Parse(dateLayout, value)
  if err != nil {
    verr.add(field, "date must use the YYYY-MM-DD format")
    return nil
  }
  return &ts
}

func parseDatetime(value, field string, verr *ValidationError) *time.Time {
  value = strings.TrimSpace(value)
  if value == "" {
    return nil
  }
  ts, err := time.Parse(time.RFC3339, value)
  if err != nil {
    verr.add(field, "datetime must use the RFC 3339 format")
    return nil
  }
  return &ts
}

func parseClockWithDefault(value, fallback, field string, verr *ValidationError) string {
  value = strings.TrimSpace(value)
  if value == "" {
    return fallback
  }
  if !validClock(value) {
    verr.add(field, "time must use the HH:MM format")
    return fallback
  }
  return value
}

func validClock(value string) bool {
  _, err := time.Parse(clockLayout, value)
  return err == nil
}

func boolOrDefault(v *bool, def bool) bool {
  if v == nil {
    return def
  }
  return *v
}
