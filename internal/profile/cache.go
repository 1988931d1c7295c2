package profile

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// cacheKeyPrefix 下的键存储各平台抓取成功的Profile快照
const cacheKeyPrefix = "profile:cache:"

// Cache 是抓取结果的Redis缓存。
// 只缓存成功结果；缓存层自身的故障只会退化为缓存未命中，
// 绝不影响抓取路径。
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewCache(rdb *redis.Client, ttl time.Duration) *Cache {
	return &Cache{rdb: rdb, ttl: ttl}
}

func cacheKey(platform Platform, handle string) string {
	return cacheKeyPrefix + string(platform) + ":" + handle
}

// Get 返回缓存中的Profile，未命中或缓存不可用时返回 (nil, false)
func (c *Cache) Get(ctx context.Context, platform Platform, handle string) (*Profile, bool) {
	raw, err := c.rdb.Get(ctx, cacheKey(platform, handle)).Bytes()
	if err != nil {
		if err != redis.Nil {
			fmt.Printf("读取Profile缓存失败: %v\n", err)
		}
		return nil, false
	}
	var p Profile
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, false
	}
	return &p, true
}

// Set 把抓取成功的Profile写入缓存，写入失败只记日志
func (c *Cache) Set(ctx context.Context, platform Platform, handle string, p *Profile) {
	raw, err := json.Marshal(p)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, cacheKey(platform, handle), raw, c.ttl).Err(); err != nil {
		fmt.Printf("写入Profile缓存失败: %v\n", err)
	}
}
