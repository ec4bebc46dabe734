package services

import (
  "context"
  "sort"
  "strings"
  "testing"
  "time"

  "github.com/google/uuid"
  "gorm.io/driver/sqlite"
  "gorm.io/gorm"
  "gorm.io/gorm/logger"

  "github.com/uofg-market/marketplace-backend/internal/repos"
  "github.com/uofg-market/marketplace-backend/internal/types"
)

// newTestDB returns a throwaway in-memory database. The fakes below
// hold the actual data; the handle only backs transaction begin/commit.
func newTestDB(t *testing.T) *gorm.DB {
  t.Helper()
  db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
  if err != nil {
    t.Fatalf("failed to open test db: %v", err)
  }
  return db
}

//----------------------------------------------------------------------------------------------------------------------
// Fake repositories
//----------------------------------------------------------------------------------------------------------------------

type fakeUserRepo struct {
  users map[uuid.UUID]*types.User
}

func newFakeUserRepo() *fakeUserRepo {
  return &fakeUserRepo{users: make(map[uuid.UUID]*types.User)}
}

func (f *fakeUserRepo) Create(ctx context.Context, tx *gorm.DB, users []*types.User) ([]*types.User, error) {
  for _, u := range users {
    if u.ID == uuid.Nil {
      u.ID = uuid.New()
    }
    f.users[u.ID] = u
  }
  return users, nil
}

func (f *fakeUserRepo) GetByIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) ([]*types.User, error) {
  var out []*types.User
  for _, id := range userIDs {
    if u, ok := f.users[id]; ok {
      out = append(out, u)
    }
  }
  return out, nil
}

func (f *fakeUserRepo) GetByEmailCI(ctx context.Context, tx *gorm.DB, email string) (*types.User, error) {
  for _, u := range f.users {
    if strings.EqualFold(u.Email, email) {
      return u, nil
    }
  }
  return nil, nil
}

func (f *fakeUserRepo) EmailExistsCI(ctx context.Context, tx *gorm.DB, email string) (bool, error) {
  u, _ := f.GetByEmailCI(ctx, tx, email)
  return u != nil, nil
}

func (f *fakeUserRepo) SetActive(ctx context.Context, tx *gorm.DB, userID uuid.UUID, active bool) error {
  if u, ok := f.users[userID]; ok {
    u.Active = active
  }
  return nil
}

func (f *fakeUserRepo) FullDeleteByIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) error {
  for _, id := range userIDs {
    delete(f.users, id)
  }
  return nil
}

type fakeOneTimeCodeRepo struct {
  codes map[uuid.UUID]types.OneTimeCode
}

func newFakeOneTimeCodeRepo() *fakeOneTimeCodeRepo {
  return &fakeOneTimeCodeRepo{codes: make(map[uuid.UUID]types.OneTimeCode)}
}

func (f *fakeOneTimeCodeRepo) Create(ctx context.Context, tx *gorm.DB, otCodes []types.OneTimeCode) ([]types.OneTimeCode, error) {
  for i := range otCodes {
    if otCodes[i].ID == uuid.Nil {
      otCodes[i].ID = uuid.New()
    }
    f.codes[otCodes[i].ID] = otCodes[i]
  }
  return otCodes, nil
}

func (f *fakeOneTimeCodeRepo) GetLatestByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.OneTimeCode, error) {
  var matching []types.OneTimeCode
  for _, c := range f.codes {
    if c.UserID == userID {
      matching = append(matching, c)
    }
  }
  if len(matching) == 0 {
    return nil, nil
  }
  sort.Slice(matching, func(i, j int) bool {
    return matching[i].CreatedAt.After(matching[j].CreatedAt)
  })
  latest := matching[0]
  return &latest, nil
}

func (f *fakeOneTimeCodeRepo) FullDeleteByIDs(ctx context.Context, tx *gorm.DB, otCodeIDs []uuid.UUID) error {
  for _, id := range otCodeIDs {
    delete(f.codes, id)
  }
  return nil
}

// latestCodeFor digs out the stored plaintext, standing in for reading
// the verification email.
func (f *fakeOneTimeCodeRepo) latestCodeFor(userID uuid.UUID) string {
  c, _ := f.GetLatestByUserID(context.Background(), nil, userID)
  if c == nil {
    return ""
  }
  return c.Code
}

// ageLatestCodeFor backdates the newest code so expiry paths can be
// exercised without a clock abstraction.
func (f *fakeOneTimeCodeRepo) ageLatestCodeFor(userID uuid.UUID, age time.Duration) {
  c, _ := f.GetLatestByUserID(context.Background(), nil, userID)
  if c == nil {
    return
  }
  stored := f.codes[c.ID]
  stored.CreatedAt = stored.CreatedAt.Add(-age)
  f.codes[c.ID] = stored
}

type fakeUserTokenRepo struct {
  tokens map[uuid.UUID]*types.UserToken
}

func newFakeUserTokenRepo() *fakeUserTokenRepo {
  return &fakeUserTokenRepo{tokens: make(map[uuid.UUID]*types.UserToken)}
}

func (f *fakeUserTokenRepo) Create(ctx context.Context, tx *gorm.DB, tokens []*types.UserToken) ([]*types.UserToken, error) {
  for _, tok := range tokens {
    if tok.ID == uuid.Nil {
      tok.ID = uuid.New()
    }
    f.tokens[tok.ID] = tok
  }
  return tokens, nil
}

func (f *fakeUserTokenRepo) GetByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) ([]*types.UserToken, error) {
  var out []*types.UserToken
  for _, tok := range f.tokens {
    for _, id := range userIDs {
      if tok.UserID == id {
        out = append(out, tok)
      }
    }
  }
  return out, nil
}

func (f *fakeUserTokenRepo) GetByAccessTokens(ctx context.Context, tx *gorm.DB, accessTokens []string) ([]*types.UserToken, error) {
  var out []*types.UserToken
  for _, tok := range f.tokens {
    for _, at := range accessTokens {
      if tok.AccessToken == at {
        out = append(out, tok)
      }
    }
  }
  return out, nil
}

func (f *fakeUserTokenRepo) GetByRefreshTokens(ctx context.Context, tx *gorm.DB, refreshTokens []string) ([]*types.UserToken, error) {
  var out []*types.UserToken
  for _, tok := range f.tokens {
    for _, rt := range refreshTokens {
      if tok.RefreshToken == rt {
        out = append(out, tok)
      }
    }
  }
  return out, nil
}

func (f *fakeUserTokenRepo) FullDeleteByTokens(ctx context.Context, tx *gorm.DB, tokens []*types.UserToken) error {
  for _, tok := range tokens {
    delete(f.tokens, tok.ID)
  }
  return nil
}

type fakeCategoryRepo struct {
  categories map[uuid.UUID]*types.Category
}

func newFakeCategoryRepo() *fakeCategoryRepo {
  return &fakeCategoryRepo{categories: make(map[uuid.UUID]*types.Category)}
}

func (f *fakeCategoryRepo) Create(ctx context.Context, tx *gorm.DB, categories []*types.Category) ([]*types.Category, error) {
  for _, c := range categories {
    if c.ID == uuid.Nil {
      c.ID = uuid.New()
    }
    f.categories[c.ID] = c
  }
  return categories, nil
}

func (f *fakeCategoryRepo) GetAll(ctx context.Context, tx *gorm.DB) ([]*types.Category, error) {
  var out []*types.Category
  for _, c := range f.categories {
    out = append(out, c)
  }
  sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
  return out, nil
}

func (f *fakeCategoryRepo) GetByID(ctx context.Context, tx *gorm.DB, categoryID uuid.UUID) (*types.Category, error) {
  return f.categories[categoryID], nil
}

func (f *fakeCategoryRepo) Update(ctx context.Context, tx *gorm.DB, categories []*types.Category) ([]*types.Category, error) {
  for _, c := range categories {
    f.categories[c.ID] = c
  }
  return categories, nil
}

func (f *fakeCategoryRepo) FullDeleteByIDs(ctx context.Context, tx *gorm.DB, categoryIDs []uuid.UUID) error {
  for _, id := range categoryIDs {
    delete(f.categories, id)
  }
  return nil
}

type fakeListingRepo struct {
  listings map[uuid.UUID]*types.Listing
}

func newFakeListingRepo() *fakeListingRepo {
  return &fakeListingRepo{listings: make(map[uuid.UUID]*types.Listing)}
}

func (f *fakeListingRepo) Create(ctx context.Context, tx *gorm.DB, listings []*types.Listing) ([]*types.Listing, error) {
  for _, l := range listings {
    if l.ID == uuid.Nil {
      l.ID = uuid.New()
    }
    f.listings[l.ID] = l
  }
  return listings, nil
}

func (f *fakeListingRepo) GetAll(ctx context.Context, tx *gorm.DB, filter repos.ListingFilter) ([]*types.Listing, error) {
  var out []*types.Listing
  for _, l := range f.listings {
    if filter.UserID != nil && l.UserID != *filter.UserID {
      continue
    }
    out = append(out, l)
  }
  sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
  return out, nil
}

func (f *fakeListingRepo) GetByID(ctx context.Context, tx *gorm.DB, listingID uuid.UUID) (*types.Listing, error) {
  return f.listings[listingID], nil
}

func (f *fakeListingRepo) Update(ctx context.Context, tx *gorm.DB, listings []*types.Listing) ([]*types.Listing, error) {
  for _, l := range listings {
    f.listings[l.ID] = l
  }
  return listings, nil
}

func (f *fakeListingRepo) FullDeleteByIDs(ctx context.Context, tx *gorm.DB, listingIDs []uuid.UUID) error {
  for _, id := range listingIDs {
    delete(f.listings, id)
  }
  return nil
}

type fakeCommentRepo struct {
  comments map[uuid.UUID]*types.Comment
}

func newFakeCommentRepo() *fakeCommentRepo {
  return &fakeCommentRepo{comments: make(map[uuid.UUID]*types.Comment)}
}

func (f *fakeCommentRepo) Create(ctx context.Context, tx *gorm.DB, comments []*types.Comment) ([]*types.Comment, error) {
  for _, c := range comments {
    if c.ID == uuid.Nil {
      c.ID = uuid.New()
    }
    f.comments[c.ID] = c
  }
  return comments, nil
}

func (f *fakeCommentRepo) GetAll(ctx context.Context, tx *gorm.DB, filter repos.CommentFilter) ([]*types.Comment, error) {
  var out []*types.Comment
  for _, c := range f.comments {
    if filter.ListingID != nil && c.ListingID != *filter.ListingID {
      continue
    }
    out = append(out, c)
  }
  sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
  return out, nil
}

func (f *fakeCommentRepo) GetByID(ctx context.Context, tx *gorm.DB, commentID uuid.UUID) (*types.Comment, error) {
  return f.comments[commentID], nil
}

func (f *fakeCommentRepo) FullDeleteByIDs(ctx context.Context, tx *gorm.DB, commentIDs []uuid.UUID) error {
  for _, id := range commentIDs {
    delete(f.comments, id)
  }
  return nil
}

//----------------------------------------------------------------------------------------------------------------------
// Fake email service
//----------------------------------------------------------------------------------------------------------------------

type sentEmail struct {
  To        string
  Subject   string
  PlainText string
  HTML      string
  EmailType string
}

type fakeEmailService struct {
  sent    []sentEmail
  failErr error
}

func (f *fakeEmailService) SendEmail(ctx context.Context, toEmail string, subject string, plainText string, htmlContent string, emailType string) error {
  if f.failErr != nil {
    return f.failErr
  }
  f.sent = append(f.sent, sentEmail{
    To:        toEmail,
    Subject:   subject,
    PlainText: plainText,
    HTML:      htmlContent,
    EmailType: emailType,
  })
  return nil
}
