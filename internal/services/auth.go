package services

import (
  "context"
  "fmt"
  "time"

  "github.com/golang-jwt/jwt/v5"
  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/uofg-market/marketplace-backend/internal/apperror"
  "github.com/uofg-market/marketplace-backend/internal/logger"
  "github.com/uofg-market/marketplace-backend/internal/normalization"
  "github.com/uofg-market/marketplace-backend/internal/repos"
  "github.com/uofg-market/marketplace-backend/internal/requestdata"
  "github.com/uofg-market/marketplace-backend/internal/templates"
  "github.com/uofg-market/marketplace-backend/internal/types"
  "github.com/uofg-market/marketplace-backend/internal/utils"
)

type JWTClaims struct {
  jwt.RegisteredClaims
  Email       string      `json:"email,omitempty"`
}

type AuthService interface {
  // Register validates and normalizes the email, creates a dormant
  // account and emails it a one-time code. The account row, the code
  // row and the outbound email all land together or not at all.
  Register(ctx context.Context, email, password string) error

  // VerifyOTP checks the most recent code for the claimed email and
  // activates the account on success, consuming the code.
  VerifyOTP(ctx context.Context, email, otp string) error

  Login(ctx context.Context, email, password string) (string, string, error)
  Refresh(ctx context.Context) (string, string, error)
  Logout(ctx context.Context) error

  SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)

  GetAccessTTL() time.Duration
}

type authService struct {
  db                *gorm.DB
  log               *logger.Logger
  userRepo          repos.UserRepo
  otpRepo           repos.OneTimeCodeRepo
  userTokenRepo     repos.UserTokenRepo
  otpService        OTPService
  emailService      EmailService
  jwtSecretKey      string
  accessTTL         time.Duration
  refreshTTL        time.Duration
}

func NewAuthService(
  db                *gorm.DB,
  log               *logger.Logger,
  userRepo          repos.UserRepo,
  otpRepo           repos.OneTimeCodeRepo,
  userTokenRepo     repos.UserTokenRepo,
  otpService        OTPService,
  emailService      EmailService,
  jwtSecretKey      string,
  accessTTL         time.Duration,
  refreshTTL        time.Duration,
) AuthService {
  serviceLog := log.With("service", "AuthService")
  return &authService{
    db:            db,
    log:           serviceLog,
    userRepo:      userRepo,
    otpRepo:       otpRepo,
    userTokenRepo: userTokenRepo,
    otpService:    otpService,
    emailService:  emailService,
    jwtSecretKey:  jwtSecretKey,
    accessTTL:     accessTTL,
    refreshTTL:    refreshTTL,
  }
}

//----------------------------------------------------------------------------------------------------------------------
// Register
//----------------------------------------------------------------------------------------------------------------------

func (as *authService) Register(ctx context.Context, rawEmail, rawPassword string) error {
  as.log.Info("Starting Register now...")

  //1) Required fields
  password := normalization.ParseInputString(rawPassword)
  if normalization.ParseInputString(rawEmail) == "" || password == "" {
    as.log.Warn("Email or password missing, Cannot proceed.")
    return apperror.BadRequest("Email and password required")
  }

  //2) Normalize Email (university domains only)
  email, nErr := normalization.NormalizeUniversityEmail(rawEmail)
  if nErr != nil {
    as.log.Warn("Email failed university normalization, Cannot proceed.", "error", nErr)
    return apperror.BadRequest("Only University of Glasgow emails are allowed")
  }

  //3) Duplicate Check (case-insensitive; the LOWER(email) unique index
  //   backs this up at the storage layer)
  exists, eErr := as.userRepo.EmailExistsCI(ctx, nil, email)
  if eErr != nil {
    as.log.Warn("Failed to check email existence, Cannot proceed. Returning error.", "error", eErr)
    return fmt.Errorf("failed checking email existence: %w", eErr)
  }
  if exists {
    as.log.Warn("Email is already registered, Cannot proceed.")
    return apperror.BadRequest("This email is already registered")
  }

  //4) Build the dormant user
  user := &types.User{
    ID:       uuid.New(),
    Email:    email,
    Password: password,
    Active:   false,
  }
  if hErr := utils.HashPassword(as.log, user); hErr != nil {
    return hErr
  }

  //5) Transaction Body: account + code + email stand or fall together,
  //   so a failed dispatch never strands a dormant account with no code.
  return as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    createdUsers, cErr := as.userRepo.Create(ctx, tx, []*types.User{user})
    if cErr != nil {
      as.log.Warn("Failed to create user, Cannot proceed. Returning error.", "error", cErr)
      return fmt.Errorf("failed to create user: %w", cErr)
    }
    if len(createdUsers) == 0 {
      as.log.Warn("No user was created, Cannot proceed.")
      return fmt.Errorf("failed to create user in DB")
    }

    code, oErr := as.otpService.Issue(ctx, tx, user)
    if oErr != nil {
      return oErr
    }

    htmlBody, tErr := templates.RenderVerificationHTML(templates.VerificationEmailData{Code: code})
    if tErr != nil {
      as.log.Warn("Failed to render verification email, Cannot proceed. Returning error.", "error", tErr)
      return fmt.Errorf("failed to render verification email: %w", tErr)
    }
    plainText := fmt.Sprintf("Your verification code is: %s", code)
    if sErr := as.emailService.SendEmail(ctx, email, "UofG Marketplace Verification Code", plainText, htmlBody, "verification"); sErr != nil {
      as.log.Warn("Failed to send verification email, rolling back registration.", "error", sErr)
      return fmt.Errorf("failed to send verification email: %w", sErr)
    }
    return nil
  })
}

//----------------------------------------------------------------------------------------------------------------------
// VerifyOTP
//----------------------------------------------------------------------------------------------------------------------

func (as *authService) VerifyOTP(ctx context.Context, rawEmail, rawOTP string) error {
  as.log.Info("Starting VerifyOTP now...")

  //1) Required fields
  email := normalization.ParseInputString(rawEmail)
  otp := normalization.ParseInputString(rawOTP)
  if email == "" || otp == "" {
    as.log.Warn("Email or OTP missing, Cannot proceed.")
    return apperror.BadRequest("Email and OTP required")
  }

  //2) Resolve account and its most recent code. Both misses collapse
  //   into one generic message so registered emails cannot be probed.
  user, uErr := as.userRepo.GetByEmailCI(ctx, nil, email)
  if uErr != nil {
    as.log.Warn("Failed to fetch user by email, Cannot proceed. Returning error.", "error", uErr)
    return fmt.Errorf("failed to fetch user by email: %w", uErr)
  }
  if user == nil {
    as.log.Warn("No user found for email, Cannot proceed.")
    return apperror.BadRequest("Invalid request")
  }
  otc, oErr := as.otpRepo.GetLatestByUserID(ctx, nil, user.ID)
  if oErr != nil {
    as.log.Warn("Failed to fetch latest one-time code, Cannot proceed. Returning error.", "error", oErr)
    return fmt.Errorf("failed to fetch latest one-time code: %w", oErr)
  }
  if otc == nil {
    as.log.Warn("No one-time code found for user, Cannot proceed.")
    return apperror.BadRequest("Invalid request")
  }

  //3) Match before expiry: a wrong code reads "Invalid OTP" even when
  //   it is also stale.
  if otc.Code != otp {
    as.log.Warn("Supplied OTP does not match stored code, Cannot proceed.")
    return apperror.BadRequest("Invalid OTP")
  }

  //4) Expiry
  if !otc.Valid(time.Now()) {
    as.log.Warn("One-time code is expired, Cannot proceed.")
    return apperror.BadRequest("OTP expired")
  }

  //5) Activate and consume atomically
  return as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    if aErr := as.userRepo.SetActive(ctx, tx, user.ID, true); aErr != nil {
      as.log.Warn("Failed to activate user, Cannot proceed. Returning error.", "error", aErr)
      return fmt.Errorf("failed to activate user: %w", aErr)
    }
    if dErr := as.otpRepo.FullDeleteByIDs(ctx, tx, []uuid.UUID{otc.ID}); dErr != nil {
      as.log.Warn("Failed to delete consumed one-time code, Cannot proceed. Returning error.", "error", dErr)
      return fmt.Errorf("failed to delete consumed one-time code: %w", dErr)
    }
    return nil
  })
}

//----------------------------------------------------------------------------------------------------------------------
// Login
//----------------------------------------------------------------------------------------------------------------------

func (as *authService) Login(ctx context.Context, rawEmail, rawPassword string) (string, string, error) {
  as.log.Info("Starting Login now...")

  //1) Required fields
  password := normalization.ParseInputString(rawPassword)
  if normalization.ParseInputString(rawEmail) == "" || password == "" {
    as.log.Warn("Email or password missing, Cannot proceed.")
    return "", "", apperror.AuthFailed("Email and password required")
  }

  //2) Same normalization as registration, so incidental case maps to
  //   the same identity.
  email, nErr := normalization.NormalizeUniversityEmail(rawEmail)
  if nErr != nil {
    as.log.Warn("Email failed university normalization, Cannot proceed.", "error", nErr)
    return "", "", apperror.AuthFailed("Invalid university email")
  }

  //3) Resolve account
  user, uErr := as.userRepo.GetByEmailCI(ctx, nil, email)
  if uErr != nil {
    as.log.Warn("Failure to retrieve user by email, Cannot proceed. Returning error.", "error", uErr)
    return "", "", fmt.Errorf("error retrieving user by email: %w", uErr)
  }
  if user == nil {
    as.log.Warn("Invalid email, no user returned.")
    return "", "", apperror.AuthFailed("Invalid credentials")
  }

  //4) Activation gate comes before the password check: a dormant
  //   account is refused even with correct credentials. The specific
  //   message is fine here since registration already confirmed the
  //   address to this user.
  if !user.Active {
    as.log.Warn("User is not active yet, Cannot proceed.")
    return "", "", apperror.AuthFailed("Please verify your email first")
  }

  //5) Credential check
  if !utils.CheckPassword(user.Password, password) {
    as.log.Warn("Invalid password, user password and hash dont match, Cannot proceed.")
    return "", "", apperror.AuthFailed("Invalid credentials")
  }

  //6) Issue token pair
  var accessToken string
  var refreshToken string
  if err := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    foundTokens, fTErr := as.userTokenRepo.GetByUserIDs(ctx, tx, []uuid.UUID{user.ID})
    if fTErr != nil {
      as.log.Warn("Failed to check existing user tokens, Cannot proceed. Returning error.", "error", fTErr)
      return fmt.Errorf("failed to check existing user tokens: %w", fTErr)
    }
    if len(foundTokens) > 0 {
      if dTErr := as.userTokenRepo.FullDeleteByTokens(ctx, tx, foundTokens); dTErr != nil {
        as.log.Warn("Failed to delete previous user tokens, Cannot proceed. Returning error.", "error", dTErr)
        return fmt.Errorf("failed to delete previous user tokens: %w", dTErr)
      }
    }
    tok, genErr := as.generateAccessToken(user)
    if genErr != nil {
      as.log.Warn("Generate Access Token Error, Cannot proceed. Returning error.", "error", genErr)
      return fmt.Errorf("generate access token error: %w", genErr)
    }
    accessToken = tok
    refreshToken = uuid.New().String()
    expiresAt := time.Now().Add(as.refreshTTL)
    userToken := types.UserToken{
      ID:           uuid.New(),
      UserID:       user.ID,
      AccessToken:  accessToken,
      RefreshToken: refreshToken,
      ExpiresAt:    expiresAt,
    }
    _, cTErr := as.userTokenRepo.Create(ctx, tx, []*types.UserToken{&userToken})
    if cTErr != nil {
      as.log.Warn("Create User Token Error, Cannot proceed. Returning error.", "error", cTErr)
      return fmt.Errorf("create user token error: %w", cTErr)
    }
    return nil
  }); err != nil {
    return "", "", err
  }
  return accessToken, refreshToken, nil
}

//----------------------------------------------------------------------------------------------------------------------
// Refresh, Logout
//----------------------------------------------------------------------------------------------------------------------

func (as *authService) Refresh(ctx context.Context) (string, string, error) {
  rd := requestdata.GetRequestData(ctx)
  if rd == nil {
    as.log.Warn("No Request Data found in context, Cannot proceed.")
    return "", "", apperror.AuthFailed("Missing or invalid token")
  }
  if rd.RefreshToken == "" {
    as.log.Warn("RefreshToken in Request Data is an empty string, Cannot proceed.")
    return "", "", apperror.AuthFailed("Missing refresh token")
  }

  var accessToken string
  var newRefreshTokenStr string
  err := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    foundTokens, fTErr := as.userTokenRepo.GetByRefreshTokens(ctx, tx, []string{rd.RefreshToken})
    if fTErr != nil {
      as.log.Warn("Error fetching refresh token, Cannot proceed. Returning error.", "error", fTErr)
      return fmt.Errorf("error fetching refresh token: %w", fTErr)
    }
    if len(foundTokens) == 0 {
      as.log.Warn("No user token found for refresh token, Cannot proceed.")
      return apperror.AuthFailed("Invalid refresh token")
    }
    existingToken := foundTokens[0]

    if existingToken.ExpiresAt.Before(time.Now()) {
      if dTErr := as.userTokenRepo.FullDeleteByTokens(ctx, tx, []*types.UserToken{existingToken}); dTErr != nil {
        as.log.Warn("Refresh token expired, error deleting expired refresh token.", "error", dTErr)
        return fmt.Errorf("refresh token expired, error deleting: %w", dTErr)
      }
      as.log.Warn("Refresh Token Expired, Cannot proceed.")
      return apperror.AuthFailed("Refresh token expired")
    }
    users, uErr := as.userRepo.GetByIDs(ctx, tx, []uuid.UUID{existingToken.UserID})
    if uErr != nil {
      as.log.Warn("Failed to load user for refresh, Cannot proceed. Returning error.", "error", uErr)
      return fmt.Errorf("failed to load user for refresh: %w", uErr)
    }
    if len(users) == 0 {
      as.log.Warn("No user found for the given refresh token, Cannot proceed.")
      return apperror.AuthFailed("Invalid refresh token")
    }
    user := users[0]
    tok, genErr := as.generateAccessToken(user)
    if genErr != nil {
      as.log.Warn("Failed to generate new access token, Cannot proceed. Returning error.", "error", genErr)
      return fmt.Errorf("failed to generate new access token: %w", genErr)
    }
    accessToken = tok
    newRefreshTokenStr = uuid.New().String()
    newExpiresAt := time.Now().Add(as.refreshTTL)
    newUserToken := types.UserToken{
      ID:           uuid.New(),
      UserID:       user.ID,
      AccessToken:  tok,
      RefreshToken: newRefreshTokenStr,
      ExpiresAt:    newExpiresAt,
    }
    _, cErr := as.userTokenRepo.Create(ctx, tx, []*types.UserToken{&newUserToken})
    if cErr != nil {
      as.log.Warn("Failed to create new user token, Cannot proceed. Returning error.", "error", cErr)
      return fmt.Errorf("failed to create new user token: %w", cErr)
    }
    if dErr := as.userTokenRepo.FullDeleteByTokens(ctx, tx, []*types.UserToken{existingToken}); dErr != nil {
      as.log.Warn("Failed to remove old refresh token, Cannot proceed. Returning error.", "error", dErr)
      return fmt.Errorf("failed to remove old refresh token: %w", dErr)
    }
    return nil
  })
  if err != nil {
    return "", "", err
  }
  return accessToken, newRefreshTokenStr, nil
}

func (as *authService) Logout(ctx context.Context) error {
  rd := requestdata.GetRequestData(ctx)
  if rd == nil {
    as.log.Warn("No Request Data found in context, Cannot proceed.")
    return apperror.AuthFailed("Missing or invalid token")
  }
  if rd.TokenString == "" {
    as.log.Warn("TokenString in Request Data is an empty string, Cannot proceed.")
    return apperror.AuthFailed("Missing or invalid token")
  }
  return as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    foundTokens, fTErr := as.userTokenRepo.GetByAccessTokens(ctx, tx, []string{rd.TokenString})
    if fTErr != nil {
      as.log.Warn("Error finding user token from token string, Cannot proceed. Returning error.", "error", fTErr)
      return fmt.Errorf("error finding user token from token string: %w", fTErr)
    }
    if len(foundTokens) == 0 {
      as.log.Debug("No stored user token for access token, nothing to delete")
      return nil
    }
    if tDErr := as.userTokenRepo.FullDeleteByTokens(ctx, tx, foundTokens); tDErr != nil {
      as.log.Warn("Error deleting user token, Cannot proceed. Returning error.", "error", tDErr)
      return fmt.Errorf("error deleting user token: %w", tDErr)
    }
    return nil
  })
}

//----------------------------------------------------------------------------------------------------------------------
// Tokens
//----------------------------------------------------------------------------------------------------------------------

func (as *authService) generateAccessToken(user *types.User) (string, error) {
  claims := JWTClaims{
    RegisteredClaims: jwt.RegisteredClaims{
      Subject:   user.ID.String(),
      ExpiresAt: jwt.NewNumericDate(time.Now().Add(as.accessTTL)),
      IssuedAt:  jwt.NewNumericDate(time.Now()),
    },
    Email: user.Email,
  }
  token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
  return token.SignedString([]byte(as.jwtSecretKey))
}

func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
  if tokenString == "" {
    return ctx, nil
  }
  parsedToken, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
    return []byte(as.jwtSecretKey), nil
  })
  if err != nil {
    return ctx, fmt.Errorf("failed to parse token: %w", err)
  }
  claims, ok := parsedToken.Claims.(*JWTClaims)
  if !ok || !parsedToken.Valid {
    return ctx, fmt.Errorf("invalid or expired JWT token")
  }
  userID, err := uuid.Parse(claims.Subject)
  if err != nil {
    return ctx, fmt.Errorf("invalid user ID in token: %w", err)
  }
  var refreshTokenStr string
  foundTokens, fTErr := as.userTokenRepo.GetByAccessTokens(ctx, nil, []string{tokenString})
  if fTErr != nil {
    as.log.Warn("Error fetching user token by access token, Cannot proceed. Returning error.", "error", fTErr)
    return ctx, fmt.Errorf("failed to fetch user token by access token: %w", fTErr)
  }
  if len(foundTokens) > 0 {
    refreshTokenStr = foundTokens[0].RefreshToken
  }
  rd := &requestdata.RequestData{
    TokenString:  tokenString,
    RefreshToken: refreshTokenStr,
    UserID:       userID,
    Email:        claims.Email,
  }
  ctx = requestdata.WithRequestData(ctx, rd)
  return ctx, nil
}

func (as *authService) GetAccessTTL() time.Duration {
  return as.accessTTL
}
