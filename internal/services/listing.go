package services

import (
  "context"
  "fmt"
  "strconv"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/uofg-market/marketplace-backend/internal/apperror"
  "github.com/uofg-market/marketplace-backend/internal/logger"
  "github.com/uofg-market/marketplace-backend/internal/normalization"
  "github.com/uofg-market/marketplace-backend/internal/repos"
  "github.com/uofg-market/marketplace-backend/internal/requestdata"
  "github.com/uofg-market/marketplace-backend/internal/types"
)

// ListingInput carries the client-writable listing fields. The owner is
// always taken from the request identity, never from the payload.
type ListingInput struct {
  Title       string
  Description string
  Price       string
  Status      string
  PhoneNumber string
  CategoryID  *uuid.UUID
}

type ListingService interface {
  GetAll(ctx context.Context, mineOnly bool) ([]*types.Listing, error)
  GetByID(ctx context.Context, listingID uuid.UUID) (*types.Listing, error)
  Create(ctx context.Context, input ListingInput) (*types.Listing, error)
  Update(ctx context.Context, listingID uuid.UUID, input ListingInput) (*types.Listing, error)
  Delete(ctx context.Context, listingID uuid.UUID) error
}

type listingService struct {
  db           *gorm.DB
  log          *logger.Logger
  listingRepo  repos.ListingRepo
  categoryRepo repos.CategoryRepo
}

func NewListingService(db *gorm.DB, log *logger.Logger, listingRepo repos.ListingRepo, categoryRepo repos.CategoryRepo) ListingService {
  serviceLog := log.With("service", "ListingService")
  return &listingService{db: db, log: serviceLog, listingRepo: listingRepo, categoryRepo: categoryRepo}
}

func (ls *listingService) GetAll(ctx context.Context, mineOnly bool) ([]*types.Listing, error) {
  filter := repos.ListingFilter{}
  if mineOnly {
    rd := requestdata.GetRequestData(ctx)
    if rd == nil || rd.UserID == uuid.Nil {
      ls.log.Warn("my=true requires an authenticated caller, Cannot proceed.")
      return nil, apperror.AuthFailed("Missing or invalid token")
    }
    userID := rd.UserID
    filter.UserID = &userID
  }
  return ls.listingRepo.GetAll(ctx, nil, filter)
}

func (ls *listingService) GetByID(ctx context.Context, listingID uuid.UUID) (*types.Listing, error) {
  listing, err := ls.listingRepo.GetByID(ctx, nil, listingID)
  if err != nil {
    return nil, fmt.Errorf("failed to fetch listing: %w", err)
  }
  if listing == nil {
    return nil, apperror.New(apperror.ErrCodeNotFound, "Listing not found")
  }
  return listing, nil
}

func (ls *listingService) Create(ctx context.Context, input ListingInput) (*types.Listing, error) {
  ls.log.Info("Starting Create Listing now...")

  rd := requestdata.GetRequestData(ctx)
  if rd == nil || rd.UserID == uuid.Nil {
    ls.log.Warn("Request Data not set in context, Cannot proceed.")
    return nil, apperror.AuthFailed("Missing or invalid token")
  }
  if vErr := ls.validateInput(ctx, &input); vErr != nil {
    return nil, vErr
  }

  listing := &types.Listing{
    ID:          uuid.New(),
    UserID:      rd.UserID,
    CategoryID:  input.CategoryID,
    Title:       input.Title,
    Description: input.Description,
    Price:       input.Price,
    Status:      input.Status,
    PhoneNumber: input.PhoneNumber,
  }
  created, cErr := ls.listingRepo.Create(ctx, nil, []*types.Listing{listing})
  if cErr != nil {
    ls.log.Warn("Failed to create listing, Cannot proceed. Returning error.", "error", cErr)
    return nil, fmt.Errorf("failed to create listing: %w", cErr)
  }
  return ls.GetByID(ctx, created[0].ID)
}

func (ls *listingService) Update(ctx context.Context, listingID uuid.UUID, input ListingInput) (*types.Listing, error) {
  ls.log.Info("Starting Update Listing now...", "listingID", listingID)

  listing, oErr := ls.ownedListing(ctx, listingID)
  if oErr != nil {
    return nil, oErr
  }
  if vErr := ls.validateInput(ctx, &input); vErr != nil {
    return nil, vErr
  }

  listing.Title = input.Title
  listing.Description = input.Description
  listing.Price = input.Price
  listing.Status = input.Status
  listing.PhoneNumber = input.PhoneNumber
  listing.CategoryID = input.CategoryID
  if _, uErr := ls.listingRepo.Update(ctx, nil, []*types.Listing{listing}); uErr != nil {
    ls.log.Warn("Failed to update listing, Cannot proceed. Returning error.", "error", uErr)
    return nil, fmt.Errorf("failed to update listing: %w", uErr)
  }
  return ls.GetByID(ctx, listingID)
}

func (ls *listingService) Delete(ctx context.Context, listingID uuid.UUID) error {
  ls.log.Info("Starting Delete Listing now...", "listingID", listingID)

  if _, oErr := ls.ownedListing(ctx, listingID); oErr != nil {
    return oErr
  }
  if err := ls.listingRepo.FullDeleteByIDs(ctx, nil, []uuid.UUID{listingID}); err != nil {
    ls.log.Warn("Failed to delete listing, Cannot proceed. Returning error.", "error", err)
    return fmt.Errorf("failed to delete listing: %w", err)
  }
  return nil
}

// ownedListing resolves a listing and refuses callers that do not own it.
func (ls *listingService) ownedListing(ctx context.Context, listingID uuid.UUID) (*types.Listing, error) {
  rd := requestdata.GetRequestData(ctx)
  if rd == nil || rd.UserID == uuid.Nil {
    ls.log.Warn("Request Data not set in context, Cannot proceed.")
    return nil, apperror.AuthFailed("Missing or invalid token")
  }
  listing, err := ls.GetByID(ctx, listingID)
  if err != nil {
    return nil, err
  }
  if listing.UserID != rd.UserID {
    ls.log.Warn("Caller does not own listing, Cannot proceed.")
    return nil, apperror.New(apperror.ErrCodeForbidden, "You do not own this listing")
  }
  return listing, nil
}

func (ls *listingService) validateInput(ctx context.Context, input *ListingInput) error {
  input.Title = normalization.ParseInputString(input.Title)
  input.Description = normalization.ParseInputString(input.Description)
  input.Price = normalization.ParseInputString(input.Price)
  input.Status = normalization.ParseInputString(input.Status)
  input.PhoneNumber = normalization.ParseInputString(input.PhoneNumber)

  if input.Title == "" {
    return apperror.BadRequest("Listing title required")
  }
  if input.Description == "" {
    return apperror.BadRequest("Listing description required")
  }
  if input.PhoneNumber == "" {
    return apperror.BadRequest("Listing phone number required")
  }
  if _, err := strconv.ParseFloat(input.Price, 64); err != nil {
    return apperror.BadRequest("Listing price must be a number")
  }
  if input.Status == "" {
    input.Status = types.ListingStatusAvailable
  }
  if input.Status != types.ListingStatusAvailable && input.Status != types.ListingStatusSold {
    return apperror.BadRequest("Listing status must be available or sold")
  }
  if input.CategoryID != nil {
    category, cErr := ls.categoryRepo.GetByID(ctx, nil, *input.CategoryID)
    if cErr != nil {
      return fmt.Errorf("failed to fetch category: %w", cErr)
    }
    if category == nil {
      return apperror.BadRequest("Category not found")
    }
  }
  return nil
}
