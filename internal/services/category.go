package services

import (
  "context"
  "fmt"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/uofg-market/marketplace-backend/internal/apperror"
  "github.com/uofg-market/marketplace-backend/internal/logger"
  "github.com/uofg-market/marketplace-backend/internal/normalization"
  "github.com/uofg-market/marketplace-backend/internal/repos"
  "github.com/uofg-market/marketplace-backend/internal/types"
)

type CategoryService interface {
  GetAll(ctx context.Context) ([]*types.Category, error)
  GetByID(ctx context.Context, categoryID uuid.UUID) (*types.Category, error)
  Create(ctx context.Context, name string) (*types.Category, error)
  Update(ctx context.Context, categoryID uuid.UUID, name string) (*types.Category, error)
  Delete(ctx context.Context, categoryID uuid.UUID) error
}

type categoryService struct {
  db           *gorm.DB
  log          *logger.Logger
  categoryRepo repos.CategoryRepo
}

func NewCategoryService(db *gorm.DB, log *logger.Logger, categoryRepo repos.CategoryRepo) CategoryService {
  serviceLog := log.With("service", "CategoryService")
  return &categoryService{db: db, log: serviceLog, categoryRepo: categoryRepo}
}

func (cs *categoryService) GetAll(ctx context.Context) ([]*types.Category, error) {
  return cs.categoryRepo.GetAll(ctx, nil)
}

func (cs *categoryService) GetByID(ctx context.Context, categoryID uuid.UUID) (*types.Category, error) {
  category, err := cs.categoryRepo.GetByID(ctx, nil, categoryID)
  if err != nil {
    return nil, fmt.Errorf("failed to fetch category: %w", err)
  }
  if category == nil {
    return nil, apperror.New(apperror.ErrCodeNotFound, "Category not found")
  }
  return category, nil
}

func (cs *categoryService) Create(ctx context.Context, name string) (*types.Category, error) {
  cs.log.Info("Starting Create Category now...")

  parsedName := normalization.ParseInputString(name)
  if parsedName == "" {
    cs.log.Warn("Category name missing, Cannot proceed.")
    return nil, apperror.BadRequest("Category name required")
  }
  category := &types.Category{ID: uuid.New(), Name: parsedName}
  created, err := cs.categoryRepo.Create(ctx, nil, []*types.Category{category})
  if err != nil {
    cs.log.Warn("Failed to create category, Cannot proceed. Returning error.", "error", err)
    return nil, fmt.Errorf("failed to create category: %w", err)
  }
  return created[0], nil
}

func (cs *categoryService) Update(ctx context.Context, categoryID uuid.UUID, name string) (*types.Category, error) {
  cs.log.Info("Starting Update Category now...", "categoryID", categoryID)

  parsedName := normalization.ParseInputString(name)
  if parsedName == "" {
    cs.log.Warn("Category name missing, Cannot proceed.")
    return nil, apperror.BadRequest("Category name required")
  }
  category, err := cs.GetByID(ctx, categoryID)
  if err != nil {
    return nil, err
  }
  category.Name = parsedName
  updated, uErr := cs.categoryRepo.Update(ctx, nil, []*types.Category{category})
  if uErr != nil {
    cs.log.Warn("Failed to update category, Cannot proceed. Returning error.", "error", uErr)
    return nil, fmt.Errorf("failed to update category: %w", uErr)
  }
  return updated[0], nil
}

func (cs *categoryService) Delete(ctx context.Context, categoryID uuid.UUID) error {
  cs.log.Info("Starting Delete Category now...", "categoryID", categoryID)

  if _, err := cs.GetByID(ctx, categoryID); err != nil {
    return err
  }
  if err := cs.categoryRepo.FullDeleteByIDs(ctx, nil, []uuid.UUID{categoryID}); err != nil {
    cs.log.Warn("Failed to delete category, Cannot proceed. Returning error.", "error", err)
    return fmt.Errorf("failed to delete category: %w", err)
  }
  return nil
}
