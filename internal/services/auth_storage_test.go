package services

import (
  "context"
  "errors"
  "testing"
  "time"

  "github.com/stretchr/testify/assert"
  "github.com/stretchr/testify/require"
  "gorm.io/driver/sqlite"
  "gorm.io/gorm"
  gormlogger "gorm.io/gorm/logger"

  "github.com/uofg-market/marketplace-backend/internal/logger"
  "github.com/uofg-market/marketplace-backend/internal/repos"
)

// newRegistrationTestDB opens an in-memory database carrying real user and
// one-time code tables, so the registration flow can be exercised through
// the real repos instead of the map-backed fakes. The tables are created by
// hand because the model tags lean on postgres defaults.
func newRegistrationTestDB(t *testing.T) *gorm.DB {
  t.Helper()
  db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
  if err != nil {
    t.Fatalf("failed to open test db: %v", err)
  }
  sqlDB, err := db.DB()
  require.NoError(t, err)
  // A second pooled connection would see its own empty in-memory database.
  sqlDB.SetMaxOpenConns(1)
  for _, ddl := range []string{
    `CREATE TABLE "user" (
      "id" text PRIMARY KEY,
      "created_at" datetime,
      "updated_at" datetime,
      "deleted_at" datetime,
      "email" text NOT NULL,
      "password" text NOT NULL,
      "phone_number" text,
      "active" numeric NOT NULL DEFAULT false
    )`,
    `CREATE TABLE "one_time_code" (
      "id" text PRIMARY KEY,
      "created_at" datetime,
      "updated_at" datetime,
      "deleted_at" datetime,
      "user_id" text NOT NULL,
      "code" text NOT NULL
    )`,
  } {
    require.NoError(t, db.Exec(ddl).Error)
  }
  return db
}

type registrationStorageFixture struct {
  db       *gorm.DB
  service  AuthService
  userRepo repos.UserRepo
  otpRepo  repos.OneTimeCodeRepo
  email    *fakeEmailService
}

func newRegistrationStorageFixture(t *testing.T) *registrationStorageFixture {
  t.Helper()
  db := newRegistrationTestDB(t)
  log := logger.NewNop()
  userRepo := repos.NewUserRepo(db, log)
  otpRepo := repos.NewOneTimeCodeRepo(db, log)
  tokenRepo := newFakeUserTokenRepo()
  email := &fakeEmailService{}
  otpService := NewOTPService(db, log, otpRepo)
  service := NewAuthService(db, log, userRepo, otpRepo, tokenRepo, otpService, email, testJWTSecret, 15*time.Minute, 24*time.Hour)
  return &registrationStorageFixture{db: db, service: service, userRepo: userRepo, otpRepo: otpRepo, email: email}
}

func (fx *registrationStorageFixture) codeRowCount(t *testing.T) int64 {
  t.Helper()
  var count int64
  require.NoError(t, fx.db.Raw(`SELECT count(*) FROM "one_time_code"`).Scan(&count).Error)
  return count
}

func TestRegisterPersistsUserAndCodeThroughRealStorage(t *testing.T) {
  fx := newRegistrationStorageFixture(t)
  ctx := context.Background()

  require.NoError(t, fx.service.Register(ctx, "2715513l@student.gla.ac.uk", "secret-pass"))

  user, err := fx.userRepo.GetByEmailCI(ctx, nil, "2715513L@student.gla.ac.uk")
  require.NoError(t, err)
  require.NotNil(t, user)
  assert.False(t, user.Active)

  code, err := fx.otpRepo.GetLatestByUserID(ctx, nil, user.ID)
  require.NoError(t, err)
  require.NotNil(t, code)
  assert.Len(t, code.Code, 6)
}

func TestRegisterRollsBackStorageWhenDispatchFails(t *testing.T) {
  fx := newRegistrationStorageFixture(t)
  ctx := context.Background()
  fx.email.failErr = errors.New("sendgrid unavailable")

  err := fx.service.Register(ctx, "2715513l@student.gla.ac.uk", "secret-pass")
  require.Error(t, err)

  user, err := fx.userRepo.GetByEmailCI(ctx, nil, "2715513l@student.gla.ac.uk")
  require.NoError(t, err)
  assert.Nil(t, user, "failed dispatch must not leave a dormant account behind")
  assert.Zero(t, fx.codeRowCount(t))

  // With nothing persisted the address is free to register again.
  fx.email.failErr = nil
  require.NoError(t, fx.service.Register(ctx, "2715513l@student.gla.ac.uk", "secret-pass"))
  assert.Len(t, fx.email.sent, 1)
}
