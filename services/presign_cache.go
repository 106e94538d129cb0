package services

import (
	"context"
	"errors"
	"time"

	"document-review-api/logger"

	"github.com/redis/go-redis/v9"
)

// PresignCache reuses presigned report URLs across listings. Redis is an accelerator only:
// any redis failure falls through to the wrapped store.
type PresignCache struct {
	Storage
	rdb *redis.Client
	ttl time.Duration
	log *logger.Logger
}

func NewPresignCache(inner Storage, rdb *redis.Client, ttl time.Duration, log *logger.Logger) *PresignCache {
	return &PresignCache{
		Storage: inner,
		rdb:     rdb,
		ttl:     ttl,
		log:     log.With("service", "PresignCache"),
	}
}

func presignCacheKey(folder, objectPath string) string {
	return "review:presign:" + objectKey(folder, objectPath)
}

// cacheTTL keeps cached links well inside their signed lifetime.
func (c *PresignCache) cacheTTL(urlTTL time.Duration) time.Duration {
	limit := urlTTL / 2
	if c.ttl > 0 && c.ttl < limit {
		return c.ttl
	}
	return limit
}

func (c *PresignCache) PresignedURL(ctx context.Context, folder, objectPath string, ttl time.Duration) (string, error) {
	key := presignCacheKey(folder, objectPath)

	cached, err := c.rdb.Get(ctx, key).Result()
	switch {
	case err == nil && cached != "":
		return cached, nil
	case err != nil && !errors.Is(err, redis.Nil):
		c.log.Warn("presign cache read failed", "key", key, "error", err)
	}

	url, err := c.Storage.PresignedURL(ctx, folder, objectPath, ttl)
	if err != nil {
		return "", err
	}

	if exp := c.cacheTTL(ttl); exp > 0 {
		if err := c.rdb.Set(ctx, key, url, exp).Err(); err != nil {
			c.log.Warn("presign cache write failed", "key", key, "error", err)
		}
	}
	return url, nil
}

func (c *PresignCache) Delete(ctx context.Context, folder, objectPath string) error {
	if err := c.rdb.Del(ctx, presignCacheKey(folder, objectPath)).Err(); err != nil {
		c.log.Warn("presign cache evict failed", "error", err)
	}
	return c.Storage.Delete(ctx, folder, objectPath)
}
