package server

import (
  "time"

  "github.com/gin-contrib/cors"
  "github.com/gin-gonic/gin"

  "github.com/uofg-market/marketplace-backend/internal/handlers"
  "github.com/uofg-market/marketplace-backend/internal/middleware"
)

type RouterConfig struct {
  AuthHandler           *handlers.AuthHandler
  AuthMiddleware        *middleware.AuthMiddleware
  RateLimitMiddleware   *middleware.RateLimitMiddleware
  MeHandler             *handlers.MeHandler
  CategoryHandler       *handlers.CategoryHandler
  ListingHandler        *handlers.ListingHandler
  CommentHandler        *handlers.CommentHandler
  AllowedOrigins        []string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
  router := gin.Default()

  //-----------------------------------------
  // Cors Setup
  //-----------------------------------------
  allowedOrigins := cfg.AllowedOrigins
  if len(allowedOrigins) == 0 {
    allowedOrigins = []string{
        "http://localhost:3000",
        "https://uofgmarket.co.uk",
        "https://www.uofgmarket.co.uk",
    }
  }
  router.Use(cors.New(cors.Config{
    AllowOrigins:     allowedOrigins,
    AllowMethods:     []string{"GET","POST","PUT","DELETE","PATCH","OPTIONS"},
    AllowHeaders:     []string{"Authorization","Content-Type","X-Requested-With"},
    AllowCredentials: true,
  }))

  //-----------------------------------------
  // Health Routes
  //-----------------------------------------
  router.GET("/healthz", handlers.Healthz)

  //-----------------------------------------
  // Public Routes
  //-----------------------------------------
  api := router.Group("/api")
  {
    // Registration and verification absorb brute force attempts, so
    // they get tighter limits than the rest of the API.
    api.POST("/register", cfg.RateLimitMiddleware.Limit(5, time.Minute), cfg.AuthHandler.Register)
    api.POST("/verify-otp", cfg.RateLimitMiddleware.Limit(10, time.Minute), cfg.AuthHandler.VerifyOTP)
    api.POST("/token", cfg.RateLimitMiddleware.Limit(10, time.Minute), cfg.AuthHandler.Token)

    api.GET("/categories", cfg.CategoryHandler.GetAll)
    api.GET("/categories/:id", cfg.CategoryHandler.GetByID)

    api.GET("/listings", cfg.AuthMiddleware.OptionalAuth(), cfg.ListingHandler.GetAll)
    api.GET("/listings/:id", cfg.ListingHandler.GetByID)

    api.GET("/comments", cfg.CommentHandler.GetAll)
  }

  //------------------------------------------
  // Protected Routes
  //------------------------------------------
  protected := api.Group("/")
  protected.Use(cfg.AuthMiddleware.RequireAuth())
  protected.POST("/token/refresh", cfg.AuthHandler.Refresh)
  protected.POST("/logout", cfg.AuthHandler.Logout)

  //ME
  protected.GET("/me", cfg.MeHandler.GetMe)

  //Categories
  protected.POST("/categories", cfg.CategoryHandler.Create)
  protected.PUT("/categories/:id", cfg.CategoryHandler.Update)
  protected.DELETE("/categories/:id", cfg.CategoryHandler.Delete)

  //Listings
  protected.POST("/listings", cfg.ListingHandler.Create)
  protected.PUT("/listings/:id", cfg.ListingHandler.Update)
  protected.PATCH("/listings/:id", cfg.ListingHandler.Update)
  protected.DELETE("/listings/:id", cfg.ListingHandler.Delete)
  protected.POST("/listings/:id/image", cfg.ListingHandler.UploadImage)

  //Comments
  protected.POST("/comments", cfg.CommentHandler.Create)
  protected.DELETE("/comments/:id", cfg.CommentHandler.Delete)

  return router
}
