package repos

import (
  "context"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/wayfern/wayfern-backend/internal/logger"
  "github.com/wayfern/wayfern-backend/internal/types"
)

type BudgetAllocationRepo interface {
  Create(ctx context.Context, tx *gorm.DB, allocations []*types.BudgetAllocation) ([]*types.BudgetAllocation, error)
  GetByTripPlanID(ctx context.Context, tx *gorm.DB, tripPlanID uuid.UUID) ([]*types.BudgetAllocation, error)
}

type budgetAllocationRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewBudgetAllocationRepo(db *gorm.DB, baseLog *logger.Logger) BudgetAllocationRepo {
  repoLog := baseLog.With("repo", "BudgetAllocationRepo")
  return &budgetAllocationRepo{db: db, log: repoLog}
}

func (r *budgetAllocationRepo) Create(ctx context.Context, tx *gorm.DB, allocations []*types.BudgetAllocation) ([]*types.BudgetAllocation, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  if len(allocations) == 0 {
    return []*types.BudgetAllocation{}, nil
  }
  if err := transaction.WithContext(ctx).Create(&allocations).Error; err != nil {
    return nil, err
  }
  return allocations, nil
}

func (r *budgetAllocationRepo) GetByTripPlanID(ctx context.Context, tx *gorm.DB, tripPlanID uuid.UUID) ([]*types.BudgetAllocation, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  var results []*types.BudgetAllocation
  if tripPlanID == uuid.Nil {
    return results, nil
  }
  if err := transaction.WithContext(ctx).
    Where("trip_plan_id = ?", tripPlanID).
    Order("category ASC").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}
