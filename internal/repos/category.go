package repos

import (
    "context"
    "errors"

    "github.com/google/uuid"
    "gorm.io/gorm"

    "github.com/uofg-market/marketplace-backend/internal/logger"
    "github.com/uofg-market/marketplace-backend/internal/types"
)

type CategoryRepo interface {
    // CREATE
    Create(ctx context.Context, tx *gorm.DB, categories []*types.Category) ([]*types.Category, error)

    // READ
    GetAll(ctx context.Context, tx *gorm.DB) ([]*types.Category, error)
    GetByID(ctx context.Context, tx *gorm.DB, categoryID uuid.UUID) (*types.Category, error)

    // FULL UPDATE
    Update(ctx context.Context, tx *gorm.DB, categories []*types.Category) ([]*types.Category, error)

    // FULL (HARD) DELETE
    FullDeleteByIDs(ctx context.Context, tx *gorm.DB, categoryIDs []uuid.UUID) error
}

type categoryRepo struct {
    db  *gorm.DB
    log *logger.Logger
}

func NewCategoryRepo(db *gorm.DB, baseLog *logger.Logger) CategoryRepo {
    repoLog := baseLog.With("repo", "CategoryRepo")
    return &categoryRepo{db: db, log: repoLog}
}

func (cr *categoryRepo) Create(ctx context.Context, tx *gorm.DB, categories []*types.Category) ([]*types.Category, error) {
    cr.log.Info("Starting Create Categories now...")

    transaction := tx
    if transaction == nil {
        transaction = cr.db
        cr.log.Debug("Transaction is nil, using cr.db")
    }

    if len(categories) == 0 {
        cr.log.Debug("No categories provided, returning empty slice")
        return []*types.Category{}, nil
    }

    if err := transaction.WithContext(ctx).Create(&categories).Error; err != nil {
        cr.log.Error("Failed to create categories", "error", err)
        return nil, err
    }
    cr.log.Info("Successfully created categories", "count", len(categories))
    return categories, nil
}

func (cr *categoryRepo) GetAll(ctx context.Context, tx *gorm.DB) ([]*types.Category, error) {
    cr.log.Info("Starting GetAll for Categories now...")

    transaction := tx
    if transaction == nil {
        transaction = cr.db
        cr.log.Debug("Transaction is nil, using cr.db")
    }

    var results []*types.Category
    if err := transaction.WithContext(ctx).
        Order("name ASC").
        Find(&results).Error; err != nil {
        cr.log.Error("Failed to fetch all categories", "error", err)
        return nil, err
    }
    cr.log.Info("Successfully fetched all categories", "count", len(results))
    return results, nil
}

func (cr *categoryRepo) GetByID(ctx context.Context, tx *gorm.DB, categoryID uuid.UUID) (*types.Category, error) {
    cr.log.Info("Starting GetByID for Category now...")

    transaction := tx
    if transaction == nil {
        transaction = cr.db
        cr.log.Debug("Transaction is nil, using cr.db")
    }

    var category types.Category
    if err := transaction.WithContext(ctx).
        Where("id = ?", categoryID).
        First(&category).Error; err != nil {
        if errors.Is(err, gorm.ErrRecordNotFound) {
            cr.log.Debug("No category found for ID", "categoryID", categoryID)
            return nil, nil
        }
        cr.log.Error("Failed to fetch category by ID", "error", err)
        return nil, err
    }
    cr.log.Info("Successfully fetched category by ID", "categoryID", categoryID)
    return &category, nil
}

func (cr *categoryRepo) Update(ctx context.Context, tx *gorm.DB, categories []*types.Category) ([]*types.Category, error) {
    cr.log.Info("Starting Update for Categories now...")

    transaction := tx
    if transaction == nil {
        transaction = cr.db
        cr.log.Debug("Transaction is nil, using cr.db")
    }

    if len(categories) == 0 {
        cr.log.Debug("No categories provided, returning empty slice")
        return categories, nil
    }

    for i := range categories {
        if err := transaction.WithContext(ctx).Save(categories[i]).Error; err != nil {
            cr.log.Error("Failed to update category", "error", err)
            return nil, err
        }
    }
    cr.log.Info("Successfully updated categories", "count", len(categories))
    return categories, nil
}

func (cr *categoryRepo) FullDeleteByIDs(ctx context.Context, tx *gorm.DB, categoryIDs []uuid.UUID) error {
    cr.log.Info("Starting FullDeleteByIDs for Categories now...")

    transaction := tx
    if transaction == nil {
        transaction = cr.db
    }

    if len(categoryIDs) == 0 {
        cr.log.Debug("No category IDs provided, skipping full delete")
        return nil
    }

    if err := transaction.WithContext(ctx).
        Unscoped().
        Where("id IN (?)", categoryIDs).
        Delete(&types.Category{}).Error; err != nil {
        cr.log.Error("Failed to FULL delete categories by IDs", "error", err)
        return err
    }
    cr.log.Info("Successfully FULL deleted categories by IDs", "count", len(categoryIDs))
    return nil
}
