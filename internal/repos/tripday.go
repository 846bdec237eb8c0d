package repos

import (
  "context"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/wayfern/wayfern-backend/internal/logger"
  "github.com/wayfern/wayfern-backend/internal/types"
)

type TripDayRepo interface {
  Create(ctx context.Context, tx *gorm.DB, days []*types.TripDay) ([]*types.TripDay, error)
  GetByTripPlanID(ctx context.Context, tx *gorm.DB, tripPlanID uuid.UUID) ([]*types.TripDay, error)
}

type tripDayRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewTripDayRepo(db *gorm.DB, baseLog *logger.Logger) TripDayRepo {
  repoLog := baseLog.With("repo", "TripDayRepo")
  return &tripDayRepo{db: db, log: repoLog}
}

func (r *tripDayRepo) Create(ctx context.Context, tx *gorm.DB, days []*types.TripDay) ([]*types.TripDay, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  if len(days) == 0 {
    return []*types.TripDay{}, nil
  }
  if err := transaction.WithContext(ctx).Create(&days).Error; err != nil {
    return nil, err
  }
  return days, nil
}

func (r *tripDayRepo) GetByTripPlanID(ctx context.Context, tx *gorm.DB, tripPlanID uuid.UUID) ([]*types.TripDay, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  var results []*types.TripDay
  if tripPlanID == uuid.Nil {
    return results, nil
  }
  if err := transaction.WithContext(ctx).
    Where("trip_plan_id = ?", tripPlanID).
    Order("day_number ASC").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}
