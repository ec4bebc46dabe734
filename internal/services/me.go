package services

import (
  "context"
  "fmt"

  "github.com/google/uuid"

  "github.com/uofg-market/marketplace-backend/internal/apperror"
  "github.com/uofg-market/marketplace-backend/internal/logger"
  "github.com/uofg-market/marketplace-backend/internal/repos"
  "github.com/uofg-market/marketplace-backend/internal/requestdata"
  "github.com/uofg-market/marketplace-backend/internal/types"
)

type MeService interface {
  GetMe(ctx context.Context) (*types.User, error)
}

type meService struct {
  log      *logger.Logger
  userRepo repos.UserRepo
}

func NewMeService(log *logger.Logger, userRepo repos.UserRepo) MeService {
  serviceLog := log.With("service", "MeService")
  return &meService{log: serviceLog, userRepo: userRepo}
}

func (ms *meService) GetMe(ctx context.Context) (*types.User, error) {
  ms.log.Info("Starting GetMe now...")

  rd := requestdata.GetRequestData(ctx)
  if rd == nil || rd.UserID == uuid.Nil {
    ms.log.Warn("Request Data not set in context, Cannot proceed.")
    return nil, apperror.AuthFailed("Missing or invalid token")
  }

  users, err := ms.userRepo.GetByIDs(ctx, nil, []uuid.UUID{rd.UserID})
  if err != nil {
    ms.log.Warn("Failed to fetch user, Cannot proceed. Returning error.", "error", err)
    return nil, fmt.Errorf("failed to fetch user: %w", err)
  }
  if len(users) == 0 {
    return nil, apperror.AuthFailed("Missing or invalid token")
  }
  return users[0], nil
}
