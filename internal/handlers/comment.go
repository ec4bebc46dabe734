package handlers

import (
  "net/http"

  "github.com/gin-gonic/gin"
  "github.com/google/uuid"

  "github.com/uofg-market/marketplace-backend/internal/apperror"
  "github.com/uofg-market/marketplace-backend/internal/services"
)

type CommentHandler struct {
  commentService  services.CommentService
}

func NewCommentHandler(commentService services.CommentService) *CommentHandler {
  return &CommentHandler{commentService: commentService}
}

func (ch *CommentHandler) GetAll(c *gin.Context) {
  var listingID *uuid.UUID
  if rawListingID := c.Query("listing"); rawListingID != "" {
    parsed, err := uuid.Parse(rawListingID)
    if err != nil {
      c.JSON(http.StatusBadRequest, gin.H{"error": "invalid listing id"})
      return
    }
    listingID = &parsed
  }
  comments, err := ch.commentService.GetAll(c.Request.Context(), listingID)
  if err != nil {
    c.JSON(apperror.Status(err), gin.H{"error": apperror.Message(err)})
    return
  }
  c.JSON(http.StatusOK, gin.H{"comments": comments})
}

func (ch *CommentHandler) Create(c *gin.Context) {
  var req struct {
    ListingID   string      `json:"listing"`
    Text        string      `json:"text"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
    return
  }
  listingID, pErr := uuid.Parse(req.ListingID)
  if pErr != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid listing id"})
    return
  }
  comment, cErr := ch.commentService.Create(c.Request.Context(), listingID, req.Text)
  if cErr != nil {
    c.JSON(apperror.Status(cErr), gin.H{"error": apperror.Message(cErr)})
    return
  }
  c.JSON(http.StatusCreated, gin.H{"comment": comment})
}

func (ch *CommentHandler) Delete(c *gin.Context) {
  commentID, err := uuid.Parse(c.Param("id"))
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid comment id"})
    return
  }
  if dErr := ch.commentService.Delete(c.Request.Context(), commentID); dErr != nil {
    c.JSON(apperror.Status(dErr), gin.H{"error": apperror.Message(dErr)})
    return
  }
  c.JSON(http.StatusOK, gin.H{"message": "comment deleted successfully"})
}
