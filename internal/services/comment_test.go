package services

import (
  "context"
  "testing"

  "github.com/google/uuid"
  "github.com/stretchr/testify/assert"
  "github.com/stretchr/testify/require"

  "github.com/uofg-market/marketplace-backend/internal/apperror"
  "github.com/uofg-market/marketplace-backend/internal/logger"
  "github.com/uofg-market/marketplace-backend/internal/types"
)

type commentFixture struct {
  service     CommentService
  commentRepo *fakeCommentRepo
  listingRepo *fakeListingRepo
}

func newCommentFixture(t *testing.T) *commentFixture {
  t.Helper()
  db := newTestDB(t)
  commentRepo := newFakeCommentRepo()
  listingRepo := newFakeListingRepo()
  service := NewCommentService(db, logger.NewNop(), commentRepo, listingRepo)
  return &commentFixture{service: service, commentRepo: commentRepo, listingRepo: listingRepo}
}

func (fx *commentFixture) seedListing(t *testing.T, ownerID uuid.UUID) *types.Listing {
  t.Helper()
  listing := &types.Listing{ID: uuid.New(), UserID: ownerID, Title: "Desk lamp"}
  _, err := fx.listingRepo.Create(context.Background(), nil, []*types.Listing{listing})
  require.NoError(t, err)
  return listing
}

func TestCreateCommentTakesAuthorFromContext(t *testing.T) {
  fx := newCommentFixture(t)
  listing := fx.seedListing(t, uuid.New())
  authorID := uuid.New()

  comment, err := fx.service.Create(ctxForUser(authorID), listing.ID, "  Is this still available?  ")
  require.NoError(t, err)
  assert.Equal(t, authorID, comment.UserID)
  assert.Equal(t, listing.ID, comment.ListingID)
  assert.Equal(t, "Is this still available?", comment.Text, "text is trimmed before storage")
}

func TestCreateCommentRequiresAuthAndText(t *testing.T) {
  fx := newCommentFixture(t)
  listing := fx.seedListing(t, uuid.New())

  _, err := fx.service.Create(context.Background(), listing.ID, "hello")
  require.Error(t, err)
  assert.True(t, apperror.IsAuthFailed(err))

  _, err = fx.service.Create(ctxForUser(uuid.New()), listing.ID, "   ")
  require.Error(t, err)
  assert.True(t, apperror.IsBadRequest(err))
}

func TestCreateCommentOnMissingListing(t *testing.T) {
  fx := newCommentFixture(t)

  _, err := fx.service.Create(ctxForUser(uuid.New()), uuid.New(), "hello")
  require.Error(t, err)
  assert.True(t, apperror.IsNotFound(err))
}

func TestGetAllCommentsFiltersByListing(t *testing.T) {
  fx := newCommentFixture(t)
  first := fx.seedListing(t, uuid.New())
  second := fx.seedListing(t, uuid.New())
  authorID := uuid.New()

  _, err := fx.service.Create(ctxForUser(authorID), first.ID, "on the first")
  require.NoError(t, err)
  _, err = fx.service.Create(ctxForUser(authorID), second.ID, "on the second")
  require.NoError(t, err)

  all, aErr := fx.service.GetAll(context.Background(), nil)
  require.NoError(t, aErr)
  assert.Len(t, all, 2)

  scoped, sErr := fx.service.GetAll(context.Background(), &first.ID)
  require.NoError(t, sErr)
  require.Len(t, scoped, 1)
  assert.Equal(t, first.ID, scoped[0].ListingID)
}

func TestDeleteCommentOwnerOnly(t *testing.T) {
  fx := newCommentFixture(t)
  listing := fx.seedListing(t, uuid.New())
  authorID := uuid.New()
  comment, err := fx.service.Create(ctxForUser(authorID), listing.ID, "sold?")
  require.NoError(t, err)

  dErr := fx.service.Delete(ctxForUser(uuid.New()), comment.ID)
  require.Error(t, dErr)
  assert.True(t, apperror.IsForbidden(dErr))

  require.NoError(t, fx.service.Delete(ctxForUser(authorID), comment.ID))

  _, gErr := fx.service.GetByID(context.Background(), comment.ID)
  require.Error(t, gErr)
  assert.True(t, apperror.IsNotFound(gErr))
}
