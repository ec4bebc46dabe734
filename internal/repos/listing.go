package repos

import (
    "context"
    "errors"

    "github.com/google/uuid"
    "gorm.io/gorm"

    "github.com/uofg-market/marketplace-backend/internal/logger"
    "github.com/uofg-market/marketplace-backend/internal/types"
)

// ListingFilter narrows GetAll. A nil UserID means no ownership scoping.
type ListingFilter struct {
    UserID *uuid.UUID
}

type ListingRepo interface {
    // CREATE
    Create(ctx context.Context, tx *gorm.DB, listings []*types.Listing) ([]*types.Listing, error)

    // READ
    GetAll(ctx context.Context, tx *gorm.DB, filter ListingFilter) ([]*types.Listing, error)
    GetByID(ctx context.Context, tx *gorm.DB, listingID uuid.UUID) (*types.Listing, error)

    // FULL UPDATE
    Update(ctx context.Context, tx *gorm.DB, listings []*types.Listing) ([]*types.Listing, error)

    // FULL (HARD) DELETE
    FullDeleteByIDs(ctx context.Context, tx *gorm.DB, listingIDs []uuid.UUID) error
}

type listingRepo struct {
    db  *gorm.DB
    log *logger.Logger
}

func NewListingRepo(db *gorm.DB, baseLog *logger.Logger) ListingRepo {
    repoLog := baseLog.With("repo", "ListingRepo")
    return &listingRepo{db: db, log: repoLog}
}

func (lr *listingRepo) Create(ctx context.Context, tx *gorm.DB, listings []*types.Listing) ([]*types.Listing, error) {
    lr.log.Info("Starting Create Listings now...")

    transaction := tx
    if transaction == nil {
        transaction = lr.db
        lr.log.Debug("Transaction is nil, using lr.db")
    }

    if len(listings) == 0 {
        lr.log.Debug("No listings provided, returning empty slice")
        return []*types.Listing{}, nil
    }

    if err := transaction.WithContext(ctx).Create(&listings).Error; err != nil {
        lr.log.Error("Failed to create listings", "error", err)
        return nil, err
    }
    lr.log.Info("Successfully created listings", "count", len(listings))
    return listings, nil
}

func (lr *listingRepo) GetAll(ctx context.Context, tx *gorm.DB, filter ListingFilter) ([]*types.Listing, error) {
    lr.log.Info("Starting GetAll for Listings now...")

    transaction := tx
    if transaction == nil {
        transaction = lr.db
        lr.log.Debug("Transaction is nil, using lr.db")
    }

    query := transaction.WithContext(ctx).
        Preload("User").
        Preload("Category").
        Preload("Comments").
        Preload("Comments.User").
        Order("created_at DESC")
    if filter.UserID != nil {
        lr.log.Debug("Scoping listings to owner", "userID", *filter.UserID)
        query = query.Where("user_id = ?", *filter.UserID)
    }

    var results []*types.Listing
    if err := query.Find(&results).Error; err != nil {
        lr.log.Error("Failed to fetch listings", "error", err)
        return nil, err
    }
    lr.log.Info("Successfully fetched listings", "count", len(results))
    return results, nil
}

func (lr *listingRepo) GetByID(ctx context.Context, tx *gorm.DB, listingID uuid.UUID) (*types.Listing, error) {
    lr.log.Info("Starting GetByID for Listing now...")

    transaction := tx
    if transaction == nil {
        transaction = lr.db
        lr.log.Debug("Transaction is nil, using lr.db")
    }

    var listing types.Listing
    if err := transaction.WithContext(ctx).
        Preload("User").
        Preload("Category").
        Preload("Comments").
        Preload("Comments.User").
        Where("id = ?", listingID).
        First(&listing).Error; err != nil {
        if errors.Is(err, gorm.ErrRecordNotFound) {
            lr.log.Debug("No listing found for ID", "listingID", listingID)
            return nil, nil
        }
        lr.log.Error("Failed to fetch listing by ID", "error", err)
        return nil, err
    }
    lr.log.Info("Successfully fetched listing by ID", "listingID", listingID)
    return &listing, nil
}

func (lr *listingRepo) Update(ctx context.Context, tx *gorm.DB, listings []*types.Listing) ([]*types.Listing, error) {
    lr.log.Info("Starting Update for Listings now...")

    transaction := tx
    if transaction == nil {
        transaction = lr.db
        lr.log.Debug("Transaction is nil, using lr.db")
    }

    if len(listings) == 0 {
        lr.log.Debug("No listings provided, returning empty slice")
        return listings, nil
    }

    for i := range listings {
        if err := transaction.WithContext(ctx).Save(listings[i]).Error; err != nil {
            lr.log.Error("Failed to update listing", "error", err)
            return nil, err
        }
    }
    lr.log.Info("Successfully updated listings", "count", len(listings))
    return listings, nil
}

func (lr *listingRepo) FullDeleteByIDs(ctx context.Context, tx *gorm.DB, listingIDs []uuid.UUID) error {
    lr.log.Info("Starting FullDeleteByIDs for Listings now...")

    transaction := tx
    if transaction == nil {
        transaction = lr.db
    }

    if len(listingIDs) == 0 {
        lr.log.Debug("No listing IDs provided, skipping full delete")
        return nil
    }

    if err := transaction.WithContext(ctx).
        Unscoped().
        Where("id IN (?)", listingIDs).
        Delete(&types.Listing{}).Error; err != nil {
        lr.log.Error("Failed to FULL delete listings by IDs", "error", err)
        return err
    }
    lr.log.Info("Successfully FULL deleted listings by IDs", "count", len(listingIDs))
    return nil
}
