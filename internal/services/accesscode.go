package services

import (
  "context"
  "crypto/rand"
  "errors"
  "fmt"
  "math/big"

  "github.com/wayfern/wayfern-backend/internal/logger"
  "github.com/wayfern/wayfern-backend/internal/observability"
  "github.com/wayfern/wayfern-backend/internal/repos"
)

const (
  accessCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
  AccessCodeLength   = 8
  maxCodeAttempts    = 100
)

// ErrCodeSpaceExhausted is returned when no unused access code was found
// within the attempt bound.
var ErrCodeSpaceExhausted = errors.New("access code attempts exhausted")

// AccessCodeService mints the short codes travelers use to retrieve their
// trips. Codes are uppercase letters and digits, unique across plans.
type AccessCodeService interface {
  Generate(ctx context.Context) (string, error)
}

type accessCodeService struct {
  log      *logger.Logger
  planRepo repos.TripPlanRepo
  metrics  *observability.Metrics
}

func NewAccessCodeService(baseLog *logger.Logger, planRepo repos.TripPlanRepo, metrics *observability.Metrics) AccessCodeService {
  serviceLog := baseLog.With("service", "AccessCodeService")
  return &accessCodeService{log: serviceLog, planRepo: planRepo, metrics: metrics}
}

func (s *accessCodeService) Generate(ctx context.Context) (string, error) {
  for attempt := 0; attempt < maxCodeAttempts; attempt++ {
    code, err := randomCode()
    if err != nil {
      return "", fmt.Errorf("generate access code: %w", err)
    }
    exists, err := s.planRepo.AccessCodeExists(ctx, nil, code)
    if err != nil {
      return "", fmt.Errorf("check access code: %w", err)
    }
    if !exists {
      return code, nil
    }
    s.metrics.IncAccessCodeCollision()
    s.log.Debug("Access code collision, retrying", "attempt", attempt+1)
  }
  s.log.Error("Could not find a free access code", "attempts", maxCodeAttempts)
  return "", ErrCodeSpaceExhausted
}

func randomCode() (string, error) {
  buf := make([]byte, AccessCodeLength)
  alphabetSize := big.NewInt(int64(len(accessCodeAlphabet)))
  for i := range buf {
    n, err := rand.Int(rand.Reader, alphabetSize)
    if err != nil {
      return "", err
    }
    buf[i] = accessCodeAlphabet[n.Int64()]
  }
  return string(buf), nil
}
