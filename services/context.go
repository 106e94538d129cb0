package services

import (
	"context"
	"time"
)

// persistentContext keeps request values but survives request cancellation, for cleanup and
// notifications that run after the response is decided.
func persistentContext(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return context.WithoutCancel(ctx)
}

func detachedTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(persistentContext(ctx), d)
}
