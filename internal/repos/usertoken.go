package repos

import (
    "context"

    "github.com/google/uuid"
    "gorm.io/gorm"

    "github.com/uofg-market/marketplace-backend/internal/logger"
    "github.com/uofg-market/marketplace-backend/internal/types"
)

type UserTokenRepo interface {
    // CREATE
    Create(ctx context.Context, tx *gorm.DB, tokens []*types.UserToken) ([]*types.UserToken, error)

    // READ
    GetByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) ([]*types.UserToken, error)
    GetByAccessTokens(ctx context.Context, tx *gorm.DB, accessTokens []string) ([]*types.UserToken, error)
    GetByRefreshTokens(ctx context.Context, tx *gorm.DB, refreshTokens []string) ([]*types.UserToken, error)

    // FULL (HARD) DELETE
    FullDeleteByTokens(ctx context.Context, tx *gorm.DB, tokens []*types.UserToken) error
}

type userTokenRepo struct {
    db  *gorm.DB
    log *logger.Logger
}

func NewUserTokenRepo(db *gorm.DB, baseLog *logger.Logger) UserTokenRepo {
    repoLog := baseLog.With("repo", "UserTokenRepo")
    return &userTokenRepo{db: db, log: repoLog}
}

// ----------------------------------------------------------------
// CREATE
// ----------------------------------------------------------------

func (utr *userTokenRepo) Create(ctx context.Context, tx *gorm.DB, tokens []*types.UserToken) ([]*types.UserToken, error) {
    utr.log.Info("Starting Create UserTokens now...")

    transaction := tx
    if transaction == nil {
        transaction = utr.db
        utr.log.Debug("Transaction is nil, using utr.db")
    }

    if len(tokens) == 0 {
        utr.log.Debug("No UserTokens provided, returning empty slice")
        return []*types.UserToken{}, nil
    }

    if err := transaction.WithContext(ctx).Create(&tokens).Error; err != nil {
        utr.log.Error("Failed to create user tokens", "error", err)
        return nil, err
    }
    utr.log.Info("Successfully created user tokens", "count", len(tokens))
    return tokens, nil
}

// ----------------------------------------------------------------
// READ
// ----------------------------------------------------------------

func (utr *userTokenRepo) GetByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) ([]*types.UserToken, error) {
    utr.log.Info("Starting GetByUserIDs for UserTokens now...")

    transaction := tx
    if transaction == nil {
        transaction = utr.db
        utr.log.Debug("Transaction is nil, using utr.db")
    }

    var results []*types.UserToken
    if len(userIDs) == 0 {
        utr.log.Debug("No UserIDs provided, returning empty slice")
        return results, nil
    }

    if err := transaction.WithContext(ctx).
        Where("user_id IN ?", userIDs).
        Find(&results).Error; err != nil {
        utr.log.Error("Failed to fetch user tokens by user IDs", "error", err)
        return nil, err
    }
    utr.log.Info("Successfully fetched user tokens by user IDs", "count", len(results))
    return results, nil
}

func (utr *userTokenRepo) GetByAccessTokens(ctx context.Context, tx *gorm.DB, accessTokens []string) ([]*types.UserToken, error) {
    utr.log.Info("Starting GetByAccessTokens for UserTokens now...")

    transaction := tx
    if transaction == nil {
        transaction = utr.db
        utr.log.Debug("Transaction is nil, using utr.db")
    }

    var results []*types.UserToken
    if len(accessTokens) == 0 {
        utr.log.Debug("No access tokens provided, returning empty slice")
        return results, nil
    }

    if err := transaction.WithContext(ctx).
        Where("access_token IN ?", accessTokens).
        Find(&results).Error; err != nil {
        utr.log.Error("Failed to fetch user tokens by access tokens", "error", err)
        return nil, err
    }
    utr.log.Info("Successfully fetched user tokens by access tokens", "count", len(results))
    return results, nil
}

func (utr *userTokenRepo) GetByRefreshTokens(ctx context.Context, tx *gorm.DB, refreshTokens []string) ([]*types.UserToken, error) {
    utr.log.Info("Starting GetByRefreshTokens for UserTokens now...")

    transaction := tx
    if transaction == nil {
        transaction = utr.db
        utr.log.Debug("Transaction is nil, using utr.db")
    }

    var results []*types.UserToken
    if len(refreshTokens) == 0 {
        utr.log.Debug("No refresh tokens provided, returning empty slice")
        return results, nil
    }

    if err := transaction.WithContext(ctx).
        Where("refresh_token IN ?", refreshTokens).
        Find(&results).Error; err != nil {
        utr.log.Error("Failed to fetch user tokens by refresh tokens", "error", err)
        return nil, err
    }
    utr.log.Info("Successfully fetched user tokens by refresh tokens", "count", len(results))
    return results, nil
}

// ----------------------------------------------------------------
// FULL (HARD) DELETE
// ----------------------------------------------------------------

func (utr *userTokenRepo) FullDeleteByTokens(ctx context.Context, tx *gorm.DB, tokens []*types.UserToken) error {
    utr.log.Info("Starting FullDeleteByTokens for UserTokens now...")

    transaction := tx
    if transaction == nil {
        transaction = utr.db
    }

    if len(tokens) == 0 {
        utr.log.Debug("No user tokens provided, skipping full delete")
        return nil
    }

    var ids []uuid.UUID
    for _, t := range tokens {
        if t != nil {
            ids = append(ids, t.ID)
        }
    }

    if err := transaction.WithContext(ctx).
        Unscoped().
        Where("id IN (?)", ids).
        Delete(&types.UserToken{}).Error; err != nil {
        utr.log.Error("Failed to FULL delete user tokens", "error", err)
        return err
    }
    utr.log.Info("Successfully FULL deleted user tokens", "count", len(ids))
    return nil
}
