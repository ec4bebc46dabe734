package services

import (
  "context"
  "crypto/rand"
  "fmt"
  "math/big"
  "time"

  "gorm.io/gorm"

  "github.com/uofg-market/marketplace-backend/internal/logger"
  "github.com/uofg-market/marketplace-backend/internal/repos"
  "github.com/uofg-market/marketplace-backend/internal/types"
)

type OTPService interface {
  // Issue creates a one-time code bound to the user and returns the
  // plaintext exactly once. Callers must capture it for dispatch; it is
  // never returned again.
  Issue(ctx context.Context, tx *gorm.DB, user *types.User) (string, error)
}

type otpService struct {
  db          *gorm.DB
  log         *logger.Logger
  otpRepo     repos.OneTimeCodeRepo
}

func NewOTPService(db *gorm.DB, log *logger.Logger, otpRepo repos.OneTimeCodeRepo) OTPService {
  serviceLog := log.With("service", "OTPService")
  return &otpService{db: db, log: serviceLog, otpRepo: otpRepo}
}

func (os *otpService) Issue(ctx context.Context, tx *gorm.DB, user *types.User) (string, error) {
  os.log.Info("Starting Issue OneTimeCode now...", "userID", user.ID)

  code, err := generateCode()
  if err != nil {
    os.log.Warn("Failed to generate one-time code, Cannot proceed. Returning error.", "error", err)
    return "", fmt.Errorf("failed to generate one-time code: %w", err)
  }

  otc := types.OneTimeCode{
    UserID:    user.ID,
    Code:      code,
    CreatedAt: time.Now(),
  }
  if _, cErr := os.otpRepo.Create(ctx, tx, []types.OneTimeCode{otc}); cErr != nil {
    os.log.Warn("Failed to persist one-time code, Cannot proceed. Returning error.", "error", cErr)
    return "", fmt.Errorf("failed to persist one-time code: %w", cErr)
  }
  os.log.Info("Successfully issued one-time code", "userID", user.ID)
  return code, nil
}

// generateCode draws a uniform 6 digit decimal code. Leading zeros are
// preserved, so every value in 000000-999999 is equiprobable.
func generateCode() (string, error) {
  n, err := rand.Int(rand.Reader, big.NewInt(1000000))
  if err != nil {
    return "", err
  }
  return fmt.Sprintf("%06d", n.Int64()), nil
}
