package handlers

import (
  "net/http"

  "github.com/gin-gonic/gin"

  "github.com/uofg-market/marketplace-backend/internal/apperror"
  "github.com/uofg-market/marketplace-backend/internal/services"
)

type MeHandler struct {
  meService       services.MeService
}

func NewMeHandler(meService services.MeService) *MeHandler {
  return &MeHandler{meService: meService}
}

func (mh *MeHandler) GetMe(c *gin.Context) {
  user, err := mh.meService.GetMe(c.Request.Context())
  if err != nil {
    c.JSON(apperror.Status(err), gin.H{"error": apperror.Message(err)})
    return
  }
  c.JSON(http.StatusOK, gin.H{"user": user.Public()})
}
