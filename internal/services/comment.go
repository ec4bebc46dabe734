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
  "github.com/uofg-market/marketplace-backend/internal/requestdata"
  "github.com/uofg-market/marketplace-backend/internal/types"
)

type CommentService interface {
  GetAll(ctx context.Context, listingID *uuid.UUID) ([]*types.Comment, error)
  GetByID(ctx context.Context, commentID uuid.UUID) (*types.Comment, error)
  Create(ctx context.Context, listingID uuid.UUID, text string) (*types.Comment, error)
  Delete(ctx context.Context, commentID uuid.UUID) error
}

type commentService struct {
  db          *gorm.DB
  log         *logger.Logger
  commentRepo repos.CommentRepo
  listingRepo repos.ListingRepo
}

func NewCommentService(db *gorm.DB, log *logger.Logger, commentRepo repos.CommentRepo, listingRepo repos.ListingRepo) CommentService {
  serviceLog := log.With("service", "CommentService")
  return &commentService{db: db, log: serviceLog, commentRepo: commentRepo, listingRepo: listingRepo}
}

func (cs *commentService) GetAll(ctx context.Context, listingID *uuid.UUID) ([]*types.Comment, error) {
  return cs.commentRepo.GetAll(ctx, nil, repos.CommentFilter{ListingID: listingID})
}

func (cs *commentService) GetByID(ctx context.Context, commentID uuid.UUID) (*types.Comment, error) {
  comment, err := cs.commentRepo.GetByID(ctx, nil, commentID)
  if err != nil {
    return nil, fmt.Errorf("failed to fetch comment: %w", err)
  }
  if comment == nil {
    return nil, apperror.New(apperror.ErrCodeNotFound, "Comment not found")
  }
  return comment, nil
}

func (cs *commentService) Create(ctx context.Context, listingID uuid.UUID, text string) (*types.Comment, error) {
  cs.log.Info("Starting Create Comment now...", "listingID", listingID)

  rd := requestdata.GetRequestData(ctx)
  if rd == nil || rd.UserID == uuid.Nil {
    cs.log.Warn("Request Data not set in context, Cannot proceed.")
    return nil, apperror.AuthFailed("Missing or invalid token")
  }

  text = normalization.ParseInputString(text)
  if text == "" {
    return nil, apperror.BadRequest("Comment text required")
  }

  listing, lErr := cs.listingRepo.GetByID(ctx, nil, listingID)
  if lErr != nil {
    return nil, fmt.Errorf("failed to fetch listing: %w", lErr)
  }
  if listing == nil {
    return nil, apperror.New(apperror.ErrCodeNotFound, "Listing not found")
  }

  comment := &types.Comment{
    ID:        uuid.New(),
    UserID:    rd.UserID,
    ListingID: listingID,
    Text:      text,
  }
  created, cErr := cs.commentRepo.Create(ctx, nil, []*types.Comment{comment})
  if cErr != nil {
    cs.log.Warn("Failed to create comment, Cannot proceed. Returning error.", "error", cErr)
    return nil, fmt.Errorf("failed to create comment: %w", cErr)
  }
  return cs.GetByID(ctx, created[0].ID)
}

func (cs *commentService) Delete(ctx context.Context, commentID uuid.UUID) error {
  cs.log.Info("Starting Delete Comment now...", "commentID", commentID)

  rd := requestdata.GetRequestData(ctx)
  if rd == nil || rd.UserID == uuid.Nil {
    cs.log.Warn("Request Data not set in context, Cannot proceed.")
    return apperror.AuthFailed("Missing or invalid token")
  }

  comment, err := cs.GetByID(ctx, commentID)
  if err != nil {
    return err
  }
  if comment.UserID != rd.UserID {
    cs.log.Warn("Caller does not own comment, Cannot proceed.")
    return apperror.New(apperror.ErrCodeForbidden, "You do not own this comment")
  }

  if dErr := cs.commentRepo.FullDeleteByIDs(ctx, nil, []uuid.UUID{commentID}); dErr != nil {
    cs.log.Warn("Failed to delete comment, Cannot proceed. Returning error.", "error", dErr)
    return fmt.Errorf("failed to delete comment: %w", dErr)
  }
  return nil
}
