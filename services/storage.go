package services

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"document-review-api/config"
	"document-review-api/logger"

	"github.com/redis/go-redis/v9"
)

// ReportFolder is the storage folder review reports are uploaded under.
const ReportFolder = "review-reports"

// ReportURLTTL is the lifetime of presigned report links handed to clients.
const ReportURLTTL = 60 * time.Minute

// Storage is the object store holding review reports.
type Storage interface {
	// Upload stores data under folder and returns the object path to persist.
	Upload(ctx context.Context, data []byte, folder, filename string) (string, error)
	PresignedURL(ctx context.Context, folder, objectPath string, ttl time.Duration) (string, error)
	Delete(ctx context.Context, folder, objectPath string) error
}

// objectKey joins folder and objectPath unless objectPath already carries the folder.
func objectKey(folder, objectPath string) string {
	objectPath = strings.TrimPrefix(objectPath, "/")
	folder = strings.Trim(folder, "/")
	if folder == "" || strings.HasPrefix(objectPath, folder+"/") {
		return objectPath
	}
	return path.Join(folder, objectPath)
}

// StorageSettings selects and configures the object store backend.
type StorageSettings struct {
	Provider        string
	Bucket          string
	Region          string
	Endpoint        string
	CredentialsFile string
	PresignCacheTTL time.Duration
}

func LoadStorageSettings() StorageSettings {
	return StorageSettings{
		Provider:        strings.ToLower(config.EnvString("STORAGE_PROVIDER", "s3")),
		Bucket:          config.EnvString("STORAGE_BUCKET", ""),
		Region:          config.EnvString("AWS_REGION", "us-east-1"),
		Endpoint:        config.EnvString("S3_ENDPOINT", ""),
		CredentialsFile: config.EnvString("GCS_CREDENTIALS_FILE", ""),
		PresignCacheTTL: time.Duration(config.EnvInt("PRESIGN_CACHE_TTL_MINUTES", 30)) * time.Minute,
	}
}

// NewStorage builds the configured backend, wrapped with a presigned URL cache when a redis
// client is supplied.
func NewStorage(ctx context.Context, settings StorageSettings, rdb *redis.Client, log *logger.Logger) (Storage, error) {
	if settings.Bucket == "" {
		return nil, fmt.Errorf("missing env var STORAGE_BUCKET")
	}

	var (
		store Storage
		err   error
	)
	switch settings.Provider {
	case "s3", "":
		store, err = NewS3Storage(ctx, S3StorageConfig{
			Bucket:   settings.Bucket,
			Region:   settings.Region,
			Endpoint: settings.Endpoint,
		})
	case "gcs":
		store, err = NewGCSStorage(ctx, GCSStorageConfig{
			Bucket:          settings.Bucket,
			CredentialsFile: settings.CredentialsFile,
		}, log)
	default:
		return nil, fmt.Errorf("unknown storage provider %q", settings.Provider)
	}
	if err != nil {
		return nil, err
	}

	log.Info("object storage initialized", "provider", settings.Provider, "bucket", settings.Bucket, "presign_cache", rdb != nil)
	if rdb == nil {
		return store, nil
	}
	return NewPresignCache(store, rdb, settings.PresignCacheTTL, log), nil
}
