// internal/cache/results.go
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"support-copilot/internal/common/logger"
	"support-copilot/internal/models"
)

// ResultCache memoizes classification results by ticket description so
// identical tickets skip the cascade. Misses and redis failures look the same
// to callers: no cached result.
type ResultCache struct {
	redis  *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

func NewResultCache(client *redis.Client, ttl time.Duration, log logger.Logger) *ResultCache {
	return &ResultCache{
		redis:  client,
		ttl:    ttl,
		logger: log,
	}
}

func cacheKey(description string) string {
	sum := sha256.Sum256([]byte(description))
	return "classification:" + hex.EncodeToString(sum[:])
}

func (c *ResultCache) Get(ctx context.Context, description string) (models.ClassificationResult, bool) {
	val, err := c.redis.Get(ctx, cacheKey(description)).Result()
	if err != nil {
		if err != redis.Nil {
			c.logger.WithError(err).Warn("Result cache lookup failed", nil)
		}
		return models.ClassificationResult{}, false
	}

	var result models.ClassificationResult
	if err := json.Unmarshal([]byte(val), &result); err != nil {
		c.logger.WithError(err).Warn("Result cache entry corrupt", nil)
		return models.ClassificationResult{}, false
	}
	return result, true
}

func (c *ResultCache) Set(ctx context.Context, description string, result models.ClassificationResult) {
	data, err := json.Marshal(result)
	if err != nil {
		return
	}
	if err := c.redis.Set(ctx, cacheKey(description), data, c.ttl).Err(); err != nil {
		c.logger.WithError(err).Warn("Result cache store failed", nil)
	}
}
