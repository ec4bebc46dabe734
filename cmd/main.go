package main

import (
  "fmt"
  "os"
  "strings"
  "time"

  libredis "github.com/redis/go-redis/v9"

  "github.com/uofg-market/marketplace-backend/internal/db"
  "github.com/uofg-market/marketplace-backend/internal/handlers"
  "github.com/uofg-market/marketplace-backend/internal/logger"
  "github.com/uofg-market/marketplace-backend/internal/middleware"
  "github.com/uofg-market/marketplace-backend/internal/repos"
  "github.com/uofg-market/marketplace-backend/internal/server"
  "github.com/uofg-market/marketplace-backend/internal/services"
  "github.com/uofg-market/marketplace-backend/internal/utils"
)

func main() {
  // Logger Setup
  logMode := os.Getenv("LOG_MODE")
  if logMode == "" {
    logMode = "development"
  }
  log, err := logger.New(logMode)
  if err != nil {
    fmt.Printf("failed to init logger: %v\n", err)
    os.Exit(1)
  }
  defer log.Sync()

  // Environment Variables
  log.Info("Attempting to load environment variables for Main now...")
  jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
  accessTokenTTL := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
  refreshTokenTTL := utils.GetEnvAsInt("REFRESH_TOKEN_TTL", 86400, log)
  redisAddress := utils.GetEnv("REDIS_ADDRESS", "", log)
  redisPassword := utils.GetEnv("REDIS_PASSWORD", "", log)
  allowedOrigins := utils.GetEnv("ALLOWED_ORIGINS", "", log)
  log.Debug("Environment variables loaded for Main :)",
    "accessTokenTTL", accessTokenTTL,
    "refreshTokenTTL", refreshTokenTTL,
    "redisAddress", redisAddress,
  )

  // Postgres Setup
  log.Info("Setting Up Postgres from Main now...")
  postgresService, err := db.NewPostgresService(log)
  if err != nil {
    log.Error("Fatal error: DB init failed", "error", err)
    os.Exit(1)
  }
  if err = postgresService.AutoMigrateAll(); err != nil {
    log.Warn("Postgres auto migration failed", "error", err)
  }
  thePG := postgresService.DB()
  log.Info("Postgres Setup From Main Successful :)")

  // Repositories Setup
  log.Info("Setting Up Repositories from Main now...")
  userRepo := repos.NewUserRepo(thePG, log)
  otpRepo := repos.NewOneTimeCodeRepo(thePG, log)
  userTokenRepo := repos.NewUserTokenRepo(thePG, log)
  categoryRepo := repos.NewCategoryRepo(thePG, log)
  listingRepo := repos.NewListingRepo(thePG, log)
  commentRepo := repos.NewCommentRepo(thePG, log)
  log.Info("Repositories Set Up From Main Successful :)")

  // Redis Setup (rate limit counters; optional)
  var redisClient *libredis.Client
  if redisAddress != "" {
    log.Info("Setting Up Redis From Main now...")
    redisClient = libredis.NewClient(&libredis.Options{
      Addr:     redisAddress,
      Password: redisPassword,
    })
    log.Info("Redis Set Up From Main Successful :)")
  }

  // Services Setup
  log.Info("Setting up Services from Main now...")
  emailService, err := services.NewEmailService(log)
  if err != nil {
    log.Error("Fatal error: Cannot init EmailService", "error", err)
    os.Exit(1)
  }
  bucketService, err := services.NewBucketService(log)
  if err != nil {
    log.Warn("Could not init BucketService, image uploads disabled", "error", err)
  }
  otpService := services.NewOTPService(thePG, log, otpRepo)
  authService := services.NewAuthService(thePG, log, userRepo, otpRepo, userTokenRepo, otpService, emailService, jwtSecretKey, time.Duration(accessTokenTTL)*time.Second, time.Duration(refreshTokenTTL)*time.Second)
  meService := services.NewMeService(log, userRepo)
  categoryService := services.NewCategoryService(thePG, log, categoryRepo)
  listingService := services.NewListingService(thePG, log, listingRepo, categoryRepo)
  listingImageService := services.NewListingImageService(thePG, log, listingRepo, bucketService)
  commentService := services.NewCommentService(thePG, log, commentRepo, listingRepo)
  log.Info("Services Set Up From Main Successful :)")

  //  Handler Setup
  log.Info("Setting Up Handlers from Main now...")
  authHandler := handlers.NewAuthHandler(authService)
  meHandler := handlers.NewMeHandler(meService)
  categoryHandler := handlers.NewCategoryHandler(categoryService)
  listingHandler := handlers.NewListingHandler(listingService, listingImageService)
  commentHandler := handlers.NewCommentHandler(commentService)
  log.Info("Handlers Set Up From Main Successful :)")

  // MiddleWare Setup
  log.Info("Setting Up Middleware from Main now...")
  authMiddleware := middleware.NewAuthMiddleware(log, authService)
  rateLimitMiddleware, err := middleware.NewRateLimitMiddleware(log, redisClient)
  if err != nil {
    log.Error("Fatal error: Cannot init RateLimitMiddleware", "error", err)
    os.Exit(1)
  }
  log.Info("Middleware Set Up From Main Successful :)")

  // Router Setup
  log.Info("Setting Up Router from Main now...")
  var origins []string
  if allowedOrigins != "" {
    origins = strings.Split(allowedOrigins, ",")
  }
  router := server.NewRouter(server.RouterConfig{
    AuthHandler:          authHandler,
    AuthMiddleware:       authMiddleware,
    RateLimitMiddleware:  rateLimitMiddleware,
    MeHandler:            meHandler,
    CategoryHandler:      categoryHandler,
    ListingHandler:       listingHandler,
    CommentHandler:       commentHandler,
    AllowedOrigins:       origins,
  })
  log.Info("Router Set Up From Main Successful :)")

  port := utils.GetEnv("PORT", "8080", log)
  fmt.Printf("Server listening on :%s\n", port)
  if err := router.Run(":" + port); err != nil {
    log.Warn("Server failed: %v", err)
  }
}
