package repos

import (
    "context"
    "errors"

    "github.com/google/uuid"
    "gorm.io/gorm"

    "github.com/uofg-market/marketplace-backend/internal/logger"
    "github.com/uofg-market/marketplace-backend/internal/types"
)

// CommentFilter narrows GetAll. A nil ListingID returns all comments.
type CommentFilter struct {
    ListingID *uuid.UUID
}

type CommentRepo interface {
    // CREATE
    Create(ctx context.Context, tx *gorm.DB, comments []*types.Comment) ([]*types.Comment, error)

    // READ
    GetAll(ctx context.Context, tx *gorm.DB, filter CommentFilter) ([]*types.Comment, error)
    GetByID(ctx context.Context, tx *gorm.DB, commentID uuid.UUID) (*types.Comment, error)

    // FULL (HARD) DELETE
    FullDeleteByIDs(ctx context.Context, tx *gorm.DB, commentIDs []uuid.UUID) error
}

type commentRepo struct {
    db  *gorm.DB
    log *logger.Logger
}

func NewCommentRepo(db *gorm.DB, baseLog *logger.Logger) CommentRepo {
    repoLog := baseLog.With("repo", "CommentRepo")
    return &commentRepo{db: db, log: repoLog}
}

func (cr *commentRepo) Create(ctx context.Context, tx *gorm.DB, comments []*types.Comment) ([]*types.Comment, error) {
    cr.log.Info("Starting Create Comments now...")

    transaction := tx
    if transaction == nil {
        transaction = cr.db
        cr.log.Debug("Transaction is nil, using cr.db")
    }

    if len(comments) == 0 {
        cr.log.Debug("No comments provided, returning empty slice")
        return []*types.Comment{}, nil
    }

    if err := transaction.WithContext(ctx).Create(&comments).Error; err != nil {
        cr.log.Error("Failed to create comments", "error", err)
        return nil, err
    }
    cr.log.Info("Successfully created comments", "count", len(comments))
    return comments, nil
}

func (cr *commentRepo) GetAll(ctx context.Context, tx *gorm.DB, filter CommentFilter) ([]*types.Comment, error) {
    cr.log.Info("Starting GetAll for Comments now...")

    transaction := tx
    if transaction == nil {
        transaction = cr.db
        cr.log.Debug("Transaction is nil, using cr.db")
    }

    query := transaction.WithContext(ctx).
        Preload("User").
        Order("created_at DESC")
    if filter.ListingID != nil {
        cr.log.Debug("Scoping comments to listing", "listingID", *filter.ListingID)
        query = query.Where("listing_id = ?", *filter.ListingID)
    }

    var results []*types.Comment
    if err := query.Find(&results).Error; err != nil {
        cr.log.Error("Failed to fetch comments", "error", err)
        return nil, err
    }
    cr.log.Info("Successfully fetched comments", "count", len(results))
    return results, nil
}

func (cr *commentRepo) GetByID(ctx context.Context, tx *gorm.DB, commentID uuid.UUID) (*types.Comment, error) {
    cr.log.Info("Starting GetByID for Comment now...")

    transaction := tx
    if transaction == nil {
        transaction = cr.db
        cr.log.Debug("Transaction is nil, using cr.db")
    }

    var comment types.Comment
    if err := transaction.WithContext(ctx).
        Preload("User").
        Where("id = ?", commentID).
        First(&comment).Error; err != nil {
        if errors.Is(err, gorm.ErrRecordNotFound) {
            cr.log.Debug("No comment found for ID", "commentID", commentID)
            return nil, nil
        }
        cr.log.Error("Failed to fetch comment by ID", "error", err)
        return nil, err
    }
    cr.log.Info("Successfully fetched comment by ID", "commentID", commentID)
    return &comment, nil
}

func (cr *commentRepo) FullDeleteByIDs(ctx context.Context, tx *gorm.DB, commentIDs []uuid.UUID) error {
    cr.log.Info("Starting FullDeleteByIDs for Comments now...")

    transaction := tx
    if transaction == nil {
        transaction = cr.db
    }

    if len(commentIDs) == 0 {
        cr.log.Debug("No comment IDs provided, skipping full delete")
        return nil
    }

    if err := transaction.WithContext(ctx).
        Unscoped().
        Where("id IN (?)", commentIDs).
        Delete(&types.Comment{}).Error; err != nil {
        cr.log.Error("Failed to FULL delete comments by IDs", "error", err)
        return err
    }
    cr.log.Info("Successfully FULL deleted comments by IDs", "count", len(commentIDs))
    return nil
}
