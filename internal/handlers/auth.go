package handlers

import (
  "net/http"

  "github.com/gin-gonic/gin"

  "github.com/uofg-market/marketplace-backend/internal/apperror"
  "github.com/uofg-market/marketplace-backend/internal/services"
)

type AuthHandler struct {
  authService     services.AuthService
}

func NewAuthHandler(authService services.AuthService) *AuthHandler {
  return &AuthHandler{authService: authService}
}

func (ah *AuthHandler) Register(c *gin.Context) {
  var req struct {
    Email       string      `json:"email"`
    Password    string      `json:"password"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password required"})
    return
  }
  if err := ah.authService.Register(c.Request.Context(), req.Email, req.Password); err != nil {
    c.JSON(apperror.Status(err), gin.H{"error": apperror.Message(err)})
    return
  }
  c.JSON(http.StatusCreated, gin.H{"message": "OTP has been sent to your university email"})
}

func (ah *AuthHandler) VerifyOTP(c *gin.Context) {
  var req struct {
    Email       string      `json:"email"`
    OTP         string      `json:"otp"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "Email and OTP required"})
    return
  }
  if err := ah.authService.VerifyOTP(c.Request.Context(), req.Email, req.OTP); err != nil {
    c.JSON(apperror.Status(err), gin.H{"error": apperror.Message(err)})
    return
  }
  c.JSON(http.StatusOK, gin.H{"message": "Account verified successfully"})
}

// Token is the login endpoint. The credential field is named username
// for client compatibility but always carries the university email.
func (ah *AuthHandler) Token(c *gin.Context) {
  var req struct {
    Username    string      `json:"username"`
    Password    string      `json:"password"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusUnauthorized, gin.H{"error": "Email and password required"})
    return
  }
  accessToken, refreshToken, err := ah.authService.Login(c.Request.Context(), req.Username, req.Password)
  if err != nil {
    c.JSON(apperror.Status(err), gin.H{"error": apperror.Message(err)})
    return
  }
  accessTTL := ah.authService.GetAccessTTL()
  expiresIn := int(accessTTL.Seconds())

  c.JSON(http.StatusOK, gin.H{"access": accessToken, "refresh": refreshToken, "expires_in": expiresIn})
}

func (ah *AuthHandler) Refresh(c *gin.Context) {
  accessToken, refreshToken, err := ah.authService.Refresh(c.Request.Context())
  if err != nil {
    c.JSON(apperror.Status(err), gin.H{"error": apperror.Message(err)})
    return
  }
  accessTTL := ah.authService.GetAccessTTL()
  expiresIn := int(accessTTL.Seconds())

  c.JSON(http.StatusOK, gin.H{"access": accessToken, "refresh": refreshToken, "expires_in": expiresIn})
}

func (ah *AuthHandler) Logout(c *gin.Context) {
  if err := ah.authService.Logout(c.Request.Context()); err != nil {
    c.JSON(apperror.Status(err), gin.H{"error": apperror.Message(err)})
    return
  }
  c.JSON(http.StatusOK, gin.H{"message": "logged out successfully"})
}
