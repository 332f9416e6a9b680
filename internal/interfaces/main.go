package interfaces

import (
	"context"

	"github.com/go-redis/redis_rate/v10"
)

// Limiter throttles flag submissions per user key.
type Limiter interface {
	Allow(ctx context.Context, key string, limit redis_rate.Limit) error
}
