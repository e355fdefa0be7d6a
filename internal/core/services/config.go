package services

import (
	"context"
	"time"
)

// callContext bounds a single external call. A non-positive timeout
// only adds cancellation.
func callContext(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}
