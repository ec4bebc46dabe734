package handlers

import (
  "io"
  "net/http"

  "github.com/gin-gonic/gin"
  "github.com/google/uuid"

  "github.com/uofg-market/marketplace-backend/internal/apperror"
  "github.com/uofg-market/marketplace-backend/internal/services"
)

// Uploads above this size are rejected before sniffing.
const maxListingImageBytes = 10 << 20

type ListingHandler struct {
  listingService      services.ListingService
  listingImageService services.ListingImageService
}

func NewListingHandler(listingService services.ListingService, listingImageService services.ListingImageService) *ListingHandler {
  return &ListingHandler{listingService: listingService, listingImageService: listingImageService}
}

type listingRequest struct {
  Title       string      `json:"title"`
  Description string      `json:"description"`
  Price       string      `json:"price"`
  Status      string      `json:"status"`
  PhoneNumber string      `json:"phone_number"`
  CategoryID  string      `json:"category_id"`
}

func (req *listingRequest) toInput() (services.ListingInput, bool) {
  input := services.ListingInput{
    Title:       req.Title,
    Description: req.Description,
    Price:       req.Price,
    Status:      req.Status,
    PhoneNumber: req.PhoneNumber,
  }
  if req.CategoryID != "" {
    categoryID, err := uuid.Parse(req.CategoryID)
    if err != nil {
      return input, false
    }
    input.CategoryID = &categoryID
  }
  return input, true
}

func (lh *ListingHandler) GetAll(c *gin.Context) {
  mineOnly := c.Query("my") == "true"
  listings, err := lh.listingService.GetAll(c.Request.Context(), mineOnly)
  if err != nil {
    c.JSON(apperror.Status(err), gin.H{"error": apperror.Message(err)})
    return
  }
  c.JSON(http.StatusOK, gin.H{"listings": listings})
}

func (lh *ListingHandler) GetByID(c *gin.Context) {
  listingID, err := uuid.Parse(c.Param("id"))
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid listing id"})
    return
  }
  listing, gErr := lh.listingService.GetByID(c.Request.Context(), listingID)
  if gErr != nil {
    c.JSON(apperror.Status(gErr), gin.H{"error": apperror.Message(gErr)})
    return
  }
  c.JSON(http.StatusOK, gin.H{"listing": listing})
}

func (lh *ListingHandler) Create(c *gin.Context) {
  var req listingRequest
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
    return
  }
  input, ok := req.toInput()
  if !ok {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category id"})
    return
  }
  listing, cErr := lh.listingService.Create(c.Request.Context(), input)
  if cErr != nil {
    c.JSON(apperror.Status(cErr), gin.H{"error": apperror.Message(cErr)})
    return
  }
  c.JSON(http.StatusCreated, gin.H{"listing": listing})
}

func (lh *ListingHandler) Update(c *gin.Context) {
  listingID, err := uuid.Parse(c.Param("id"))
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid listing id"})
    return
  }
  var req listingRequest
  if bErr := c.ShouldBindJSON(&req); bErr != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
    return
  }
  input, ok := req.toInput()
  if !ok {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category id"})
    return
  }
  listing, uErr := lh.listingService.Update(c.Request.Context(), listingID, input)
  if uErr != nil {
    c.JSON(apperror.Status(uErr), gin.H{"error": apperror.Message(uErr)})
    return
  }
  c.JSON(http.StatusOK, gin.H{"listing": listing})
}

func (lh *ListingHandler) Delete(c *gin.Context) {
  listingID, err := uuid.Parse(c.Param("id"))
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid listing id"})
    return
  }
  if dErr := lh.listingService.Delete(c.Request.Context(), listingID); dErr != nil {
    c.JSON(apperror.Status(dErr), gin.H{"error": apperror.Message(dErr)})
    return
  }
  c.JSON(http.StatusOK, gin.H{"message": "listing deleted successfully"})
}

// UploadImage accepts a multipart "image" file, hands the raw bytes to
// the image service and returns the refreshed listing.
func (lh *ListingHandler) UploadImage(c *gin.Context) {
  listingID, err := uuid.Parse(c.Param("id"))
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid listing id"})
    return
  }
  fileHeader, fErr := c.FormFile("image")
  if fErr != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "image file required"})
    return
  }
  if fileHeader.Size > maxListingImageBytes {
    c.JSON(http.StatusBadRequest, gin.H{"error": "image file too large"})
    return
  }
  file, oErr := fileHeader.Open()
  if oErr != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read image file"})
    return
  }
  defer file.Close()
  data, rErr := io.ReadAll(io.LimitReader(file, maxListingImageBytes))
  if rErr != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read image file"})
    return
  }
  listing, uErr := lh.listingImageService.UploadListingImage(c.Request.Context(), listingID, data)
  if uErr != nil {
    c.JSON(apperror.Status(uErr), gin.H{"error": apperror.Message(uErr)})
    return
  }
  c.JSON(http.StatusOK, gin.H{"listing": listing})
}
