package profile

import (
	"time"

	"github.com/cptrack/cptrack-backend/internal/platform/config"
	"github.com/cptrack/cptrack-backend/internal/platform/httpclient"
	"github.com/redis/go-redis/v9"
)

// Module 聚合了profile模块对外暴露的组件
type Module struct {
	Service *Service
	Handler *Handler
}

// NewModule 组装profile模块：
// 共享的出站HTTP客户端、三个平台抓取器、可选的Redis缓存和编排器。
func NewModule(cfg config.FetcherConfig, rdb *redis.Client, loadHandles HandlesLoader) *Module {
	client := httpclient.NewClient(time.Duration(cfg.TimeoutSeconds) * time.Second)

	fetchers := []Fetcher{
		NewCodeforcesFetcher(client),
		NewLeetcodeFetcher(client, cfg.Leetcode),
		NewCodechefFetcher(client),
	}

	var cache *Cache
	if rdb != nil && cfg.CacheTTLSeconds > 0 {
		cache = NewCache(rdb, time.Duration(cfg.CacheTTLSeconds)*time.Second)
	}

	svc := NewService(fetchers, cache)
	return &Module{
		Service: svc,
		Handler: NewHandler(svc, loadHandles),
	}
}
