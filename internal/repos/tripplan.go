package repos

import (
  "context"
  "time"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/wayfern/wayfern-backend/internal/logger"
  "github.com/wayfern/wayfern-backend/internal/types"
)

type TripPlanRepo interface {
  Create(ctx context.Context, tx *gorm.DB, plans []*types.TripPlan) ([]*types.TripPlan, error)
  GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.TripPlan, error)

  // Lookup by the traveler-facing access code. Callers are expected to
  // normalize the code before calling; matching here is exact.
  GetByAccessCode(ctx context.Context, tx *gorm.DB, accessCode string) (*types.TripPlan, error)
  AccessCodeExists(ctx context.Context, tx *gorm.DB, accessCode string) (bool, error)

  // Plans persisted without an access code, oldest first. Used by the
  // backfill command.
  ListMissingAccessCodes(ctx context.Context, tx *gorm.DB, limit int) ([]*types.TripPlan, error)

  UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error
}

type tripPlanRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewTripPlanRepo(db *gorm.DB, baseLog *logger.Logger) TripPlanRepo {
  repoLog := baseLog.With("repo", "TripPlanRepo")
  return &tripPlanRepo{db: db, log: repoLog}
}

func (r *tripPlanRepo) Create(ctx context.Context, tx *gorm.DB, plans []*types.TripPlan) ([]*types.TripPlan, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  if len(plans) == 0 {
    return []*types.TripPlan{}, nil
  }
  if err := transaction.WithContext(ctx).Create(&plans).Error; err != nil {
    return nil, err
  }
  return plans, nil
}

func (r *tripPlanRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.TripPlan, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  var results []*types.TripPlan
  if len(ids) == 0 {
    return results, nil
  }
  if err := transaction.WithContext(ctx).
    Where("id IN ?", ids).
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (r *tripPlanRepo) GetByAccessCode(ctx context.Context, tx *gorm.DB, accessCode string) (*types.TripPlan, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  if accessCode == "" {
    return nil, nil
  }

  var plan types.TripPlan
  err := transaction.WithContext(ctx).
    Where("access_code = ?", accessCode).
    Limit(1).
    Find(&plan).Error
  if err != nil {
    return nil, err
  }
  if plan.ID == uuid.Nil {
    return nil, nil
  }
  return &plan, nil
}

func (r *tripPlanRepo) AccessCodeExists(ctx context.Context, tx *gorm.DB, accessCode string) (bool, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  if accessCode == "" {
    return false, nil
  }
  var count int64
  if err := transaction.WithContext(ctx).
    Model(&types.TripPlan{}).
    Where("access_code = ?", accessCode).
    Count(&count).Error; err != nil {
    return false, err
  }
  return count > 0, nil
}

func (r *tripPlanRepo) ListMissingAccessCodes(ctx context.Context, tx *gorm.DB, limit int) ([]*types.TripPlan, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  if limit <= 0 {
    limit = 100
  }
  var results []*types.TripPlan
  if err := transaction.WithContext(ctx).
    Where("access_code IS NULL OR access_code = ?", "").
    Order("created_at ASC").
    Limit(limit).
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (r *tripPlanRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  if id == uuid.Nil {
    return nil
  }
  if updates == nil {
    updates = map[string]interface{}{}
  }
  if _, ok := updates["updated_at"]; !ok {
    updates["updated_at"] = time.Now()
  }
  return transaction.WithContext(ctx).
    Model(&types.TripPlan{}).
    Where("id = ?", id).
    Updates(updates).Error
}
