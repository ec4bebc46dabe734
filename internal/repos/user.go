package repos

import (
    "context"
    "errors"

    "github.com/google/uuid"
    "gorm.io/gorm"

    "github.com/uofg-market/marketplace-backend/internal/logger"
    "github.com/uofg-market/marketplace-backend/internal/types"
)

type UserRepo interface {
    // CREATE
    Create(ctx context.Context, tx *gorm.DB, users []*types.User) ([]*types.User, error)

    // READ
    GetByIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) ([]*types.User, error)
    // GetByEmailCI resolves a user by case-insensitive identity match.
    GetByEmailCI(ctx context.Context, tx *gorm.DB, email string) (*types.User, error)
    EmailExistsCI(ctx context.Context, tx *gorm.DB, email string) (bool, error)

    // PARTIAL UPDATE
    SetActive(ctx context.Context, tx *gorm.DB, userID uuid.UUID, active bool) error

    // FULL (HARD) DELETE
    FullDeleteByIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) error
}

type userRepo struct {
    db  *gorm.DB
    log *logger.Logger
}

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo {
    // Add a repo field for consistent logs
    repoLog := baseLog.With("repo", "UserRepo")
    return &userRepo{db: db, log: repoLog}
}

// ----------------------------------------------------------------
// CREATE
// ----------------------------------------------------------------

func (ur *userRepo) Create(ctx context.Context, tx *gorm.DB, users []*types.User) ([]*types.User, error) {
    ur.log.Info("Starting Create Users now...")

    transaction := tx
    if transaction == nil {
        transaction = ur.db
        ur.log.Debug("Transaction is nil, using ur.db instead")
    }

    if len(users) == 0 {
        ur.log.Debug("Users array is empty, returning empty slice", "count", 0)
        return []*types.User{}, nil
    }
    ur.log.Debug("Users array has items", "count", len(users))

    if err := transaction.WithContext(ctx).Create(&users).Error; err != nil {
        ur.log.Error("Failed to create users", "error", err)
        return nil, err
    }
    ur.log.Info("Successfully created users", "count", len(users))
    return users, nil
}

// ----------------------------------------------------------------
// READ
// ----------------------------------------------------------------

func (ur *userRepo) GetByIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) ([]*types.User, error) {
    ur.log.Info("Starting GetByIDs for Users now...")

    transaction := tx
    if transaction == nil {
        transaction = ur.db
        ur.log.Debug("Transaction is nil, using ur.db instead")
    }

    var results []*types.User
    if len(userIDs) == 0 {
        ur.log.Debug("No UserIDs provided, returning empty slice")
        return results, nil
    }

    if err := transaction.WithContext(ctx).
        Where("id IN ?", userIDs).
        Find(&results).Error; err != nil {
        ur.log.Error("Failed to fetch users by IDs", "error", err)
        return nil, err
    }
    ur.log.Info("Successfully fetched users by IDs", "count", len(results))
    return results, nil
}

func (ur *userRepo) GetByEmailCI(ctx context.Context, tx *gorm.DB, email string) (*types.User, error) {
    ur.log.Info("Starting GetByEmailCI for User now...")

    transaction := tx
    if transaction == nil {
        transaction = ur.db
        ur.log.Debug("Transaction is nil, using ur.db instead")
    }

    var user types.User
    if err := transaction.WithContext(ctx).
        Where("LOWER(email) = LOWER(?)", email).
        First(&user).Error; err != nil {
        if errors.Is(err, gorm.ErrRecordNotFound) {
            ur.log.Debug("No user found for email", "email", email)
            return nil, nil
        }
        ur.log.Error("Failed to fetch user by email", "error", err)
        return nil, err
    }
    ur.log.Info("Successfully fetched user by email")
    return &user, nil
}

func (ur *userRepo) EmailExistsCI(ctx context.Context, tx *gorm.DB, email string) (bool, error) {
    ur.log.Info("Starting EmailExistsCI for User now...")

    transaction := tx
    if transaction == nil {
        transaction = ur.db
        ur.log.Debug("Transaction is nil, using ur.db instead")
    }

    var count int64
    if err := transaction.WithContext(ctx).
        Model(&types.User{}).
        Where("LOWER(email) = LOWER(?)", email).
        Count(&count).Error; err != nil {
        ur.log.Error("Failed to count users by email", "error", err)
        return false, err
    }
    ur.log.Debug("Counted users by email", "count", count)
    return count > 0, nil
}

// ----------------------------------------------------------------
// PARTIAL UPDATE
// ----------------------------------------------------------------

func (ur *userRepo) SetActive(ctx context.Context, tx *gorm.DB, userID uuid.UUID, active bool) error {
    ur.log.Info("Starting SetActive for User now...", "userID", userID, "active", active)

    transaction := tx
    if transaction == nil {
        transaction = ur.db
        ur.log.Debug("Transaction is nil, using ur.db instead")
    }

    if userID == uuid.Nil {
        ur.log.Debug("userID is nil, skipping SetActive")
        return nil
    }

    if err := transaction.WithContext(ctx).
        Model(&types.User{}).
        Where("id = ?", userID).
        Update("active", active).Error; err != nil {
        ur.log.Error("Failed to update user active flag", "error", err)
        return err
    }
    ur.log.Info("Successfully updated user active flag", "userID", userID)
    return nil
}

// ----------------------------------------------------------------
// FULL (HARD) DELETE
// ----------------------------------------------------------------

func (ur *userRepo) FullDeleteByIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) error {
    ur.log.Info("Starting FullDeleteByIDs for Users now...")

    transaction := tx
    if transaction == nil {
        transaction = ur.db
    }

    if len(userIDs) == 0 {
        ur.log.Debug("No user IDs provided, skipping full delete")
        return nil
    }

    if err := transaction.WithContext(ctx).
        Unscoped().
        Where("id IN (?)", userIDs).
        Delete(&types.User{}).Error; err != nil {
        ur.log.Error("Failed to FULL delete users by IDs", "error", err)
        return err
    }
    ur.log.Info("Successfully FULL deleted users by IDs", "count", len(userIDs))
    return nil
}
