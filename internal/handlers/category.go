package handlers

import (
  "net/http"

  "github.com/gin-gonic/gin"
  "github.com/google/uuid"

  "github.com/uofg-market/marketplace-backend/internal/apperror"
  "github.com/uofg-market/marketplace-backend/internal/services"
)

type CategoryHandler struct {
  categoryService services.CategoryService
}

func NewCategoryHandler(categoryService services.CategoryService) *CategoryHandler {
  return &CategoryHandler{categoryService: categoryService}
}

func (ch *CategoryHandler) GetAll(c *gin.Context) {
  categories, err := ch.categoryService.GetAll(c.Request.Context())
  if err != nil {
    c.JSON(apperror.Status(err), gin.H{"error": apperror.Message(err)})
    return
  }
  c.JSON(http.StatusOK, gin.H{"categories": categories})
}

func (ch *CategoryHandler) GetByID(c *gin.Context) {
  categoryID, err := uuid.Parse(c.Param("id"))
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category id"})
    return
  }
  category, gErr := ch.categoryService.GetByID(c.Request.Context(), categoryID)
  if gErr != nil {
    c.JSON(apperror.Status(gErr), gin.H{"error": apperror.Message(gErr)})
    return
  }
  c.JSON(http.StatusOK, gin.H{"category": category})
}

func (ch *CategoryHandler) Create(c *gin.Context) {
  var req struct {
    Name        string      `json:"name"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
    return
  }
  category, cErr := ch.categoryService.Create(c.Request.Context(), req.Name)
  if cErr != nil {
    c.JSON(apperror.Status(cErr), gin.H{"error": apperror.Message(cErr)})
    return
  }
  c.JSON(http.StatusCreated, gin.H{"category": category})
}

func (ch *CategoryHandler) Update(c *gin.Context) {
  categoryID, err := uuid.Parse(c.Param("id"))
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category id"})
    return
  }
  var req struct {
    Name        string      `json:"name"`
  }
  if bErr := c.ShouldBindJSON(&req); bErr != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
    return
  }
  category, uErr := ch.categoryService.Update(c.Request.Context(), categoryID, req.Name)
  if uErr != nil {
    c.JSON(apperror.Status(uErr), gin.H{"error": apperror.Message(uErr)})
    return
  }
  c.JSON(http.StatusOK, gin.H{"category": category})
}

func (ch *CategoryHandler) Delete(c *gin.Context) {
  categoryID, err := uuid.Parse(c.Param("id"))
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category id"})
    return
  }
  if dErr := ch.categoryService.Delete(c.Request.Context(), categoryID); dErr != nil {
    c.JSON(apperror.Status(dErr), gin.H{"error": apperror.Message(dErr)})
    return
  }
  c.JSON(http.StatusOK, gin.H{"message": "category deleted successfully"})
}
