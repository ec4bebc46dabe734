package services

import (
  "bytes"
  "context"
  "fmt"
  "image/png"

  "github.com/disintegration/imaging"
  "github.com/google/uuid"
  "github.com/h2non/filetype"
  "gorm.io/gorm"

  "github.com/uofg-market/marketplace-backend/internal/apperror"
  "github.com/uofg-market/marketplace-backend/internal/logger"
  "github.com/uofg-market/marketplace-backend/internal/repos"
  "github.com/uofg-market/marketplace-backend/internal/requestdata"
  "github.com/uofg-market/marketplace-backend/internal/types"
)

// Uploaded listing photos get bounded to this before storage.
const listingImageMaxDim = 1280

type ListingImageService interface {
  // UploadListingImage validates, resizes and stores a photo for a
  // listing owned by the caller, then persists the bucket key and
  // public URL on the listing.
  UploadListingImage(ctx context.Context, listingID uuid.UUID, data []byte) (*types.Listing, error)
}

type listingImageService struct {
  db            *gorm.DB
  log           *logger.Logger
  listingRepo   repos.ListingRepo
  bucketService BucketService
}

func NewListingImageService(db *gorm.DB, log *logger.Logger, listingRepo repos.ListingRepo, bucketService BucketService) ListingImageService {
  serviceLog := log.With("service", "ListingImageService")
  return &listingImageService{
    db:            db,
    log:           serviceLog,
    listingRepo:   listingRepo,
    bucketService: bucketService,
  }
}

func (ls *listingImageService) UploadListingImage(ctx context.Context, listingID uuid.UUID, data []byte) (*types.Listing, error) {
  ls.log.Info("Starting UploadListingImage now...", "listingID", listingID)

  rd := requestdata.GetRequestData(ctx)
  if rd == nil || rd.UserID == uuid.Nil {
    ls.log.Warn("Request Data not set in context, Cannot proceed.")
    return nil, apperror.AuthFailed("Missing or invalid token")
  }
  if ls.bucketService == nil {
    ls.log.Warn("BucketService not configured, Cannot proceed.")
    return nil, apperror.New(apperror.ErrCodeInternal, "image uploads are not available")
  }

  //1) Resolve listing and check ownership
  listing, fErr := ls.listingRepo.GetByID(ctx, nil, listingID)
  if fErr != nil {
    ls.log.Warn("Failed to fetch listing, Cannot proceed. Returning error.", "error", fErr)
    return nil, fmt.Errorf("failed to fetch listing: %w", fErr)
  }
  if listing == nil {
    ls.log.Warn("No listing found for ID, Cannot proceed.")
    return nil, apperror.New(apperror.ErrCodeNotFound, "Listing not found")
  }
  if listing.UserID != rd.UserID {
    ls.log.Warn("Caller does not own listing, Cannot proceed.")
    return nil, apperror.New(apperror.ErrCodeForbidden, "You do not own this listing")
  }

  //2) Sniff the payload; only real image bytes are accepted
  if len(data) == 0 {
    return nil, apperror.BadRequest("Image file required")
  }
  kind, kErr := filetype.Match(data)
  if kErr != nil || kind == filetype.Unknown || kind.MIME.Type != "image" {
    ls.log.Warn("Uploaded payload is not a recognized image.")
    return nil, apperror.BadRequest("File must be an image")
  }

  //3) Decode and bound the dimensions
  img, dErr := imaging.Decode(bytes.NewReader(data))
  if dErr != nil {
    ls.log.Warn("Failed to decode uploaded image, Cannot proceed.", "error", dErr)
    return nil, apperror.BadRequest("File must be an image")
  }
  img = imaging.Fit(img, listingImageMaxDim, listingImageMaxDim, imaging.Lanczos)

  var buf bytes.Buffer
  if eErr := png.Encode(&buf, img); eErr != nil {
    ls.log.Warn("Failed to re-encode listing image, Cannot proceed. Returning error.", "error", eErr)
    return nil, fmt.Errorf("failed to encode listing image: %w", eErr)
  }

  //4) Upload and persist the key/URL
  oldKey := listing.ImageBucketKey
  bucketKey := fmt.Sprintf("listing_images/%s.png", listing.ID.String())
  if err := ls.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    if uErr := ls.bucketService.UploadFile(ctx, tx, bucketKey, bytes.NewReader(buf.Bytes())); uErr != nil {
      ls.log.Warn("Failed to upload listing image, Cannot proceed. Returning error.", "error", uErr)
      return fmt.Errorf("failed to upload listing image: %w", uErr)
    }
    listing.ImageBucketKey = bucketKey
    listing.ImageURL = ls.bucketService.GetPublicURL(bucketKey)
    if _, sErr := ls.listingRepo.Update(ctx, tx, []*types.Listing{listing}); sErr != nil {
      ls.log.Warn("Failed to save listing image reference, Cannot proceed. Returning error.", "error", sErr)
      return fmt.Errorf("failed to save listing image reference: %w", sErr)
    }
    return nil
  }); err != nil {
    return nil, err
  }

  // A replaced object under a different key is cleaned up best effort.
  if oldKey != "" && oldKey != bucketKey {
    if dErr := ls.bucketService.DeleteFile(ctx, oldKey); dErr != nil {
      ls.log.Warn("Failed to delete previous listing image", "error", dErr)
    }
  }
  return listing, nil
}
