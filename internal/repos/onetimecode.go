package repos

import (
    "context"
    "errors"

    "github.com/google/uuid"
    "gorm.io/gorm"

    "github.com/uofg-market/marketplace-backend/internal/logger"
    "github.com/uofg-market/marketplace-backend/internal/types"
)

type OneTimeCodeRepo interface {
    // CREATE
    Create(ctx context.Context, tx *gorm.DB, otCodes []types.OneTimeCode) ([]types.OneTimeCode, error)

    // READ
    // GetLatestByUserID returns the most recently created code for the
    // user, or nil when the user has no codes at all.
    GetLatestByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.OneTimeCode, error)

    // FULL (HARD) DELETE
    FullDeleteByIDs(ctx context.Context, tx *gorm.DB, otCodeIDs []uuid.UUID) error
}

type oneTimeCodeRepo struct {
    db  *gorm.DB
    log *logger.Logger
}

func NewOneTimeCodeRepo(db *gorm.DB, baseLog *logger.Logger) OneTimeCodeRepo {
    repoLog := baseLog.With("repo", "OneTimeCodeRepo")
    return &oneTimeCodeRepo{db: db, log: repoLog}
}

// ----------------------------------------------------------------
// CREATE
// ----------------------------------------------------------------

func (ocr *oneTimeCodeRepo) Create(ctx context.Context, tx *gorm.DB, otCodes []types.OneTimeCode) ([]types.OneTimeCode, error) {
    ocr.log.Info("Starting Create OneTimeCodes now...")

    transaction := tx
    if transaction == nil {
        transaction = ocr.db
        ocr.log.Debug("Transaction is nil, using ocr.db")
    }

    if len(otCodes) == 0 {
        ocr.log.Debug("No OneTimeCodes provided, returning empty slice")
        return []types.OneTimeCode{}, nil
    }
    ocr.log.Debug("OneTimeCodes provided", "count", len(otCodes))

    if err := transaction.WithContext(ctx).Create(&otCodes).Error; err != nil {
        ocr.log.Error("Failed to create one-time codes", "error", err)
        return nil, err
    }
    ocr.log.Info("Successfully created one-time codes", "count", len(otCodes))
    return otCodes, nil
}

// ----------------------------------------------------------------
// READ
// ----------------------------------------------------------------

func (ocr *oneTimeCodeRepo) GetLatestByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.OneTimeCode, error) {
    ocr.log.Info("Starting GetLatestByUserID for OneTimeCode now...")

    transaction := tx
    if transaction == nil {
        transaction = ocr.db
        ocr.log.Debug("Transaction is nil, using ocr.db")
    }

    if userID == uuid.Nil {
        ocr.log.Debug("userID is nil, returning nil code")
        return nil, nil
    }

    var otc types.OneTimeCode
    if err := transaction.WithContext(ctx).
        Where("user_id = ?", userID).
        Order("created_at DESC").
        First(&otc).Error; err != nil {
        if errors.Is(err, gorm.ErrRecordNotFound) {
            ocr.log.Debug("No one-time codes found for user", "userID", userID)
            return nil, nil
        }
        ocr.log.Error("Failed to fetch latest one-time code for user", "error", err)
        return nil, err
    }
    ocr.log.Info("Successfully fetched latest one-time code for user", "userID", userID)
    return &otc, nil
}

// ----------------------------------------------------------------
// FULL (HARD) DELETE
// ----------------------------------------------------------------

func (ocr *oneTimeCodeRepo) FullDeleteByIDs(ctx context.Context, tx *gorm.DB, otCodeIDs []uuid.UUID) error {
    ocr.log.Info("Starting FullDeleteByIDs for OneTimeCodes now...")

    transaction := tx
    if transaction == nil {
        transaction = ocr.db
    }

    if len(otCodeIDs) == 0 {
        ocr.log.Debug("No one-time code IDs provided, skipping full delete")
        return nil
    }
    ocr.log.Debug("Full deleting by one-time code IDs", "count", len(otCodeIDs))

    if err := transaction.WithContext(ctx).
        Unscoped().
        Where("id IN (?)", otCodeIDs).
        Delete(&types.OneTimeCode{}).Error; err != nil {
        ocr.log.Error("Failed to FULL delete one-time codes by IDs", "error", err)
        return err
    }
    ocr.log.Info("Successfully FULL deleted one-time codes by IDs", "count", len(otCodeIDs))
    return nil
}
