package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"document-review-api/logger"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// GCSStorage keeps review reports in a Google Cloud Storage bucket.
type GCSStorage struct {
	log    *logger.Logger
	client *storage.Client
	bucket string
}

type GCSStorageConfig struct {
	Bucket          string
	CredentialsFile string
}

func NewGCSStorage(ctx context.Context, cfg GCSStorageConfig, log *logger.Logger) (*GCSStorage, error) {
	opts := []option.ClientOption{option.WithScopes(storage.ScopeReadWrite)}
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	return &GCSStorage{
		log:    log.With("service", "GCSStorage"),
		client: client,
		bucket: cfg.Bucket,
	}, nil
}

func (g *GCSStorage) Upload(ctx context.Context, data []byte, folder, filename string) (string, error) {
	key := objectKey(folder, filename)
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	w := g.client.Bucket(g.bucket).Object(key).NewWriter(ctx)
	w.ContentType = contentTypeFor(key)
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("failed to write data to GCS: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to close GCS writer: %w", err)
	}
	return key, nil
}

func (g *GCSStorage) PresignedURL(ctx context.Context, folder, objectPath string, ttl time.Duration) (string, error) {
	key := objectKey(folder, objectPath)
	url, err := g.client.Bucket(g.bucket).SignedURL(key, &storage.SignedURLOptions{
		Scheme:  storage.SigningSchemeV4,
		Method:  "GET",
		Expires: time.Now().Add(ttl),
	})
	if err != nil {
		return "", fmt.Errorf("gcs sign %s failed: %w", key, err)
	}
	return url, nil
}

func (g *GCSStorage) Delete(ctx context.Context, folder, objectPath string) error {
	key := objectKey(folder, objectPath)
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	err := g.client.Bucket(g.bucket).Object(key).Delete(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		g.log.Warn("object already gone", "key", key)
		return nil
	}
	if err != nil {
		return fmt.Errorf("gcs delete %s failed: %w", key, err)
	}
	return nil
}
