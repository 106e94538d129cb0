package services

import (
	"context"
	"testing"
	"time"

	"document-review-api/logger"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unreachableRedis(t *testing.T) *redis.Client {
	t.Helper()
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func TestPresignCacheFallsBackWhenRedisIsDown(t *testing.T) {
	inner := newFakeStorage()
	cache := NewPresignCache(inner, unreachableRedis(t), 10*time.Minute, logger.NewNop())
	ctx := context.Background()

	path, err := cache.Upload(ctx, samplePDF, ReportFolder, "review_x_notes.pdf")
	require.NoError(t, err)
	assert.Equal(t, "review-reports/review_x_notes.pdf", path)

	url, err := cache.PresignedURL(ctx, ReportFolder, path, ReportURLTTL)
	require.NoError(t, err)
	assert.Equal(t, "https://storage.test/review-reports/review_x_notes.pdf?ttl=1h0m0s", url)

	require.NoError(t, cache.Delete(ctx, ReportFolder, path))
	assert.Equal(t, []string{"review-reports/review_x_notes.pdf"}, inner.deleted)
}

func TestPresignCacheTTLStaysInsideLinkLifetime(t *testing.T) {
	c := &PresignCache{ttl: 10 * time.Minute}
	assert.Equal(t, 10*time.Minute, c.cacheTTL(time.Hour))
	assert.Equal(t, 5*time.Minute, c.cacheTTL(10*time.Minute))

	c.ttl = 0
	assert.Equal(t, 30*time.Minute, c.cacheTTL(time.Hour))
}

func TestObjectKey(t *testing.T) {
	assert.Equal(t, "review-reports/a.pdf", objectKey("review-reports", "a.pdf"))
	assert.Equal(t, "review-reports/a.pdf", objectKey("review-reports", "review-reports/a.pdf"))
	assert.Equal(t, "review-reports/a.pdf", objectKey("/review-reports/", "/a.pdf"))
	assert.Equal(t, "a.pdf", objectKey("", "a.pdf"))
}
