package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/forem/forem-sub028/internal/feed"
	"github.com/forem/forem-sub028/internal/model"

	"github.com/redis/go-redis/v9"
)

// RedisPageCache shares computed pages across processes. Every failure is
// a miss; the cache must never fail a request.
type RedisPageCache struct {
	rdb *redis.Client
}

func NewRedisPageCache(rdb *redis.Client) *RedisPageCache {
	return &RedisPageCache{rdb: rdb}
}

func pageKey(key string) string {
	return fmt.Sprintf("feedpage:%s", key)
}

func (c *RedisPageCache) Get(ctx context.Context, key string) (model.FeedPage, bool) {
	b, err := c.rdb.Get(ctx, pageKey(key)).Bytes()
	if err != nil {
		return model.FeedPage{}, false
	}
	var page model.FeedPage
	if err := json.Unmarshal(b, &page); err != nil {
		return model.FeedPage{}, false
	}
	return page, true
}

func (c *RedisPageCache) Put(ctx context.Context, key string, page model.FeedPage, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	b, err := json.Marshal(page)
	if err != nil {
		return
	}
	_ = c.rdb.Set(ctx, pageKey(key), b, ttl).Err()
}

var _ feed.PageCache = (*RedisPageCache)(nil)
