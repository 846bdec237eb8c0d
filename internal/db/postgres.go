package db

import (
  "fmt"
  "gorm.io/driver/postgres"
  "gorm.io/gorm"
  "github.com/wayfern/wayfern-backend/internal/types"
  "github.com/wayfern/wayfern-backend/internal/utils"
  "github.com/wayfern/wayfern-backend/internal/logger"
)

type PostgresService struct {
  db *gorm.DB
  log *logger.Logger
}

func NewPostgresService(log *logger.Logger) (*PostgresService, error) {
  serviceLog := log.With("service", "PostgresService")

  log.Info("Loading environment variables...")
  postgresHost := utils.GetEnv("POSTGRES_HOST", "localhost", log)
  postgresPort := utils.GetEnv("POSTGRES_PORT", "5432", log)
  postgresUser := utils.GetEnv("POSTGRES_USER", "postgres", log)
  postgresPassword := utils.GetEnv("POSTGRES_PASSWORD", "", log)
  postgresName := utils.GetEnv("POSTGRES_NAME", "wayfern", log)
  log.Debug("Environment variables loaded")

  dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", postgresUser, postgresPassword, postgresHost, postgresPort, postgresName)

  log.Info("Connecting to Postgres...")
  db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
    DisableForeignKeyConstraintWhenMigrating: true,
  })
  if err != nil {
    log.Error("Failed to connect to Postgres", "error", err)
    return nil, fmt.Errorf("Failed to connect to Postgres: %w", err)
  }

  if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error; err != nil {
    log.Error("Failed to enable uuid-ossp extension", "error", err)
    return nil, fmt.Errorf("Failed to enable uuid-ossp extension: %w", err)
  }
  log.Info("uuid-ossp extension enabled")

  return &PostgresService{db: db, log: serviceLog}, nil
}

func (s *PostgresService) AutoMigrateAll() error {
  s.log.Info("Auto migrating postgres tables...")
  err := s.db.AutoMigrate(
    &types.TripPlan{},
    &types.TripDay{},
    &types.BreakWindow{},
    &types.BudgetAllocation{},
  )
  if err != nil {
    s.log.Error("Auto migration failed for postgres tables", "error", err)
    return err
  }
  s.log.Info("Configuring foreign key relationships for postgres tables...")
  for _, table := range []string{"trip_day", "break_window", "budget_allocation"} {
    constraint := fmt.Sprintf("fk_%s_trip_plan_id", table)
    if err := s.db.Exec(fmt.Sprintf(`
      ALTER TABLE %q DROP CONSTRAINT IF EXISTS %q
    `, table, constraint)).Error; err != nil {
      return fmt.Errorf("Failed to reset %s: %w", constraint, err)
    }
    if err := s.db.Exec(fmt.Sprintf(`
      ALTER TABLE %q
      ADD CONSTRAINT %q
      FOREIGN KEY ("trip_plan_id")
      REFERENCES "trip_plan"("id")
      ON DELETE CASCADE
    `, table, constraint)).Error; err != nil {
      return fmt.Errorf("Failed to add %s: %w", constraint, err)
    }
  }
  return nil
}

func (s *PostgresService) DB() *gorm.DB {
  return s.db
}
