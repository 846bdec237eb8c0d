package repos

import (
  "context"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/wayfern/wayfern-backend/internal/logger"
  "github.com/wayfern/wayfern-backend/internal/types"
)

type BreakWindowRepo interface {
  Create(ctx context.Context, tx *gorm.DB, windows []*types.BreakWindow) ([]*types.BreakWindow, error)
  GetByTripPlanID(ctx context.Context, tx *gorm.DB, tripPlanID uuid.UUID) ([]*types.BreakWindow, error)
}

type breakWindowRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewBreakWindowRepo(db *gorm.DB, baseLog *logger.Logger) BreakWindowRepo {
  repoLog := baseLog.With("repo", "BreakWindowRepo")
  return &breakWindowRepo{db: db, log: repoLog}
}

func (r *breakWindowRepo) Create(ctx context.Context, tx *gorm.DB, windows []*types.BreakWindow) ([]*types.BreakWindow, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  if len(windows) == 0 {
    return []*types.BreakWindow{}, nil
  }
  if err := transaction.WithContext(ctx).Create(&windows).Error; err != nil {
    return nil, err
  }
  return windows, nil
}

func (r *breakWindowRepo) GetByTripPlanID(ctx context.Context, tx *gorm.DB, tripPlanID uuid.UUID) ([]*types.BreakWindow, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  var results []*types.BreakWindow
  if tripPlanID == uuid.Nil {
    return results, nil
  }
  if err := transaction.WithContext(ctx).
    Where("trip_plan_id = ?", tripPlanID).
    Order("start_time ASC").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}
