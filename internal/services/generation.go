package services

import (
  "context"
  "encoding/json"
  "fmt"
  "sync"
  "time"

  "github.com/google/uuid"
  "gorm.io/datatypes"

  "github.com/wayfern/wayfern-backend/internal/logger"
  "github.com/wayfern/wayfern-backend/internal/observability"
  "github.com/wayfern/wayfern-backend/internal/planner"
  "github.com/wayfern/wayfern-backend/internal/repos"
)

// GenerationBackend produces the raw model response for a prompt.
type GenerationBackend interface {
  Complete(ctx context.Context, prompt string) (string, error)
}

// ItineraryGenerationService owns the generation lifecycle for a plan.
// There is no stored status column: a plan is ready exactly when its
// generated_payload is non-null, and pending otherwise. Failed attempts
// write nothing, which leaves the plan pending and eligible for another
// attempt.
type ItineraryGenerationService interface {
  // Schedule starts at most one generation attempt for the plan. Plans
  // that already hold a payload, and plans with an attempt in flight,
  // are left alone.
  Schedule(ctx context.Context, planID uuid.UUID) error
}

type itineraryGenerationService struct {
  log        *logger.Logger
  planRepo   repos.TripPlanRepo
  dayRepo    repos.TripDayRepo
  breakRepo  repos.BreakWindowRepo
  budgetRepo repos.BudgetAllocationRepo
  backend    GenerationBackend
  policy     ExecPolicy
  metrics    *observability.Metrics

  mu          sync.Mutex
  outstanding map[uuid.UUID]struct{}
}

func NewItineraryGenerationService(
  baseLog *logger.Logger,
  planRepo repos.TripPlanRepo,
  dayRepo repos.TripDayRepo,
  breakRepo repos.BreakWindowRepo,
  budgetRepo repos.BudgetAllocationRepo,
  backend GenerationBackend,
  policy ExecPolicy,
  metrics *observability.Metrics,
) ItineraryGenerationService {
  serviceLog := baseLog.With("service", "ItineraryGenerationService")
  return &itineraryGenerationService{
    log:         serviceLog,
    planRepo:    planRepo,
    dayRepo:     dayRepo,
    breakRepo:   breakRepo,
    budgetRepo:  budgetRepo,
    backend:     backend,
    policy:      policy,
    metrics:     metrics,
    outstanding: make(map[uuid.UUID]struct{}),
  }
}

func (s *itineraryGenerationService) Schedule(ctx context.Context, planID uuid.UUID) error {
  if planID == uuid.Nil {
    return nil
  }
  plans, err := s.planRepo.GetByIDs(ctx, nil, []uuid.UUID{planID})
  if err != nil {
    return fmt.Errorf("load trip plan: %w", err)
  }
  if len(plans) == 0 {
    s.log.Warn("Schedule called for unknown trip plan", "trip_plan_id", planID)
    return nil
  }
  if plans[0].HasGeneratedPayload() {
    s.log.Debug("Trip plan already has an itinerary, skipping", "trip_plan_id", planID)
    return nil
  }

  s.mu.Lock()
  if _, inFlight := s.outstanding[planID]; inFlight {
    s.mu.Unlock()
    s.log.Debug("Generation attempt already in flight, skipping", "trip_plan_id", planID)
    return nil
  }
  s.outstanding[planID] = struct{}{}
  s.mu.Unlock()

  s.policy.Run(ctx, func(runCtx context.Context) {
    defer s.clear(planID)
    s.runAttempt(runCtx, planID)
  })
  return nil
}

func (s *itineraryGenerationService) clear(planID uuid.UUID) {
  s.mu.Lock()
  delete(s.outstanding, planID)
  s.mu.Unlock()
}

func (s *itineraryGenerationService) runAttempt(ctx context.Context, planID uuid.UUID) {
  log := s.log.With("trip_plan_id", planID)
  started := time.Now()
  fail := func(stage string, err error) {
    s.metrics.ObserveGeneration(stage, time.Since(started))
    log.Warn("Itinerary generation attempt failed", "stage", stage, "error", err)
  }

  plans, err := s.planRepo.GetByIDs(ctx, nil, []uuid.UUID{planID})
  if err != nil {
    fail("load", err)
    return
  }
  if len(plans) == 0 {
    log.Warn("Trip plan disappeared before generation")
    return
  }
  plan := plans[0]
  if plan.HasGeneratedPayload() {
    log.Debug("Itinerary already present, nothing to do")
    return
  }

  days, err := s.dayRepo.GetByTripPlanID(ctx, nil, planID)
  if err != nil {
    fail("load", err)
    return
  }
  breaks, err := s.breakRepo.GetByTripPlanID(ctx, nil, planID)
  if err != nil {
    fail("load", err)
    return
  }
  budgets, err := s.budgetRepo.GetByTripPlanID(ctx, nil, planID)
  if err != nil {
    fail("load", err)
    return
  }

  pctx := planner.BuildContext(plan, days, breaks, budgets)
  prompt := planner.AssemblePrompt(pctx)

  raw, err := s.backend.Complete(ctx, prompt)
  if err != nil {
    fail("generate", err)
    return
  }

  payload, err := planner.Normalize([]byte(raw))
  if err != nil {
    fail("normalize", err)
    return
  }
  buf, err := json.Marshal(payload)
  if err != nil {
    fail("normalize", err)
    return
  }

  if err := s.planRepo.UpdateFields(ctx, nil, planID, map[string]interface{}{
    "generated_payload": datatypes.JSON(buf),
  }); err != nil {
    fail("persist", err)
    return
  }
  s.metrics.ObserveGeneration("success", time.Since(started))
  log.Info("Itinerary generated", "days", len(payload.Days))
}
