package repository

import (
	"context"
	"edu_quiz_backend/internal/model"
	"edu_quiz_backend/pkg/logger"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const testCacheKeyPrefix = "quiz:test:"

// TestCache keeps whole test aggregates. Questions never change after creation, so
// entries only need dropping when test metadata changes.
type TestCache interface {
	Get(ctx context.Context, id string) (*model.Test, bool)
	Set(ctx context.Context, test *model.Test)
	Delete(ctx context.Context, id string)
}

// NewTestCache returns a Redis backed cache, or a no-op cache when rdb is nil.
func NewTestCache(rdb *redis.Client, ttl time.Duration) TestCache {
	if rdb == nil {
		return noopTestCache{}
	}
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &RedisTestCache{Client: rdb, TTL: ttl}
}

type RedisTestCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func (c *RedisTestCache) Get(ctx context.Context, id string) (*model.Test, bool) {
	val, err := c.Client.Get(ctx, testCacheKeyPrefix+id).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		logger.Log.Warn("test cache read failed", zap.String("testId", id), zap.Error(err))
		return nil, false
	}
	var test model.Test
	if err := json.Unmarshal(val, &test); err != nil {
		logger.Log.Warn("test cache entry corrupt", zap.String("testId", id), zap.Error(err))
		c.Delete(ctx, id)
		return nil, false
	}
	return &test, true
}

func (c *RedisTestCache) Set(ctx context.Context, test *model.Test) {
	data, err := json.Marshal(test)
	if err != nil {
		return
	}
	if err := c.Client.Set(ctx, testCacheKeyPrefix+test.ID, data, c.TTL).Err(); err != nil {
		logger.Log.Warn("test cache write failed", zap.String("testId", test.ID), zap.Error(err))
	}
}

func (c *RedisTestCache) Delete(ctx context.Context, id string) {
	if err := c.Client.Del(ctx, testCacheKeyPrefix+id).Err(); err != nil {
		logger.Log.Warn("test cache delete failed", zap.String("testId", id), zap.Error(err))
	}
}

type noopTestCache struct{}

func (noopTestCache) Get(context.Context, string) (*model.Test, bool) { return nil, false }
func (noopTestCache) Set(context.Context, *model.Test)                {}
func (noopTestCache) Delete(context.Context, string)                  {}
