package services

import (
  "context"
  "testing"
  "time"

  "github.com/google/uuid"
  "github.com/stretchr/testify/assert"
  "github.com/stretchr/testify/require"

  "github.com/uofg-market/marketplace-backend/internal/logger"
  "github.com/uofg-market/marketplace-backend/internal/types"
)

func TestGenerateCodeIsAlwaysSixDigits(t *testing.T) {
  for i := 0; i < 500; i++ {
    code, err := generateCode()
    require.NoError(t, err)
    require.Len(t, code, 6, "leading zeros must be preserved")
    for _, r := range code {
      require.True(t, r >= '0' && r <= '9', "code %q contains a non-digit", code)
    }
  }
}

func TestIssuePersistsAndReturnsPlaintextOnce(t *testing.T) {
  db := newTestDB(t)
  otpRepo := newFakeOneTimeCodeRepo()
  service := NewOTPService(db, logger.NewNop(), otpRepo)
  user := &types.User{ID: uuid.New(), Email: "2715513L@student.gla.ac.uk"}

  code, err := service.Issue(context.Background(), nil, user)
  require.NoError(t, err)
  require.Len(t, code, 6)

  stored, sErr := otpRepo.GetLatestByUserID(context.Background(), nil, user.ID)
  require.NoError(t, sErr)
  require.NotNil(t, stored)
  assert.Equal(t, code, stored.Code)
  assert.WithinDuration(t, time.Now(), stored.CreatedAt, 5*time.Second)
}

func TestIssueLatestCodeWinsAfterReissue(t *testing.T) {
  db := newTestDB(t)
  otpRepo := newFakeOneTimeCodeRepo()
  service := NewOTPService(db, logger.NewNop(), otpRepo)
  user := &types.User{ID: uuid.New(), Email: "2715513L@student.gla.ac.uk"}

  _, err := service.Issue(context.Background(), nil, user)
  require.NoError(t, err)
  otpRepo.ageLatestCodeFor(user.ID, time.Minute)

  second, err := service.Issue(context.Background(), nil, user)
  require.NoError(t, err)

  latest, _ := otpRepo.GetLatestByUserID(context.Background(), nil, user.ID)
  require.NotNil(t, latest)
  assert.Equal(t, second, latest.Code)
}
