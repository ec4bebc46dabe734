package services

import (
  "context"
  "fmt"
  "io"
  "os"

  "cloud.google.com/go/storage"
  "google.golang.org/api/option"
  "gorm.io/gorm"

  "github.com/uofg-market/marketplace-backend/internal/logger"
)

type BucketService interface {
  UploadFile(ctx context.Context, tx *gorm.DB, bucketKey string, reader io.Reader) error
  DeleteFile(ctx context.Context, bucketKey string) error
  GetPublicURL(bucketKey string) string
}

type bucketService struct {
  log         *logger.Logger
  client      *storage.Client
  bucketName  string
}

func NewBucketService(log *logger.Logger) (BucketService, error) {
  serviceLog := log.With("service", "BucketService")
  bucketName := os.Getenv("GCS_BUCKET_NAME")
  if bucketName == "" {
    return nil, fmt.Errorf("Missing GCS_BUCKET_NAME environment variable")
  }
  var opts []option.ClientOption
  if credsFile := os.Getenv("GCS_CREDENTIALS_FILE"); credsFile != "" {
    opts = append(opts, option.WithCredentialsFile(credsFile))
  }
  client, err := storage.NewClient(context.Background(), opts...)
  if err != nil {
    return nil, fmt.Errorf("Failed to create GCS client: %w", err)
  }
  return &bucketService{
    log:        serviceLog,
    client:     client,
    bucketName: bucketName,
  }, nil
}

func (bs *bucketService) UploadFile(ctx context.Context, tx *gorm.DB, bucketKey string, reader io.Reader) error {
  bs.log.Info("Starting UploadFile now...", "bucketKey", bucketKey)

  writer := bs.client.Bucket(bs.bucketName).Object(bucketKey).NewWriter(ctx)
  if _, err := io.Copy(writer, reader); err != nil {
    _ = writer.Close()
    bs.log.Warn("Failed to write object to bucket", "error", err)
    return fmt.Errorf("failed to write object %q: %w", bucketKey, err)
  }
  if err := writer.Close(); err != nil {
    bs.log.Warn("Failed to finalize object write", "error", err)
    return fmt.Errorf("failed to finalize object %q: %w", bucketKey, err)
  }
  bs.log.Info("Successfully uploaded object", "bucketKey", bucketKey)
  return nil
}

func (bs *bucketService) DeleteFile(ctx context.Context, bucketKey string) error {
  bs.log.Info("Starting DeleteFile now...", "bucketKey", bucketKey)

  if err := bs.client.Bucket(bs.bucketName).Object(bucketKey).Delete(ctx); err != nil {
    bs.log.Warn("Failed to delete object from bucket", "error", err)
    return fmt.Errorf("failed to delete object %q: %w", bucketKey, err)
  }
  bs.log.Info("Successfully deleted object", "bucketKey", bucketKey)
  return nil
}

func (bs *bucketService) GetPublicURL(bucketKey string) string {
  return fmt.Sprintf("https://storage.googleapis.com/%s/%s", bs.bucketName, bucketKey)
}
