package profile

import (
	"context"
	"fmt"
	"sync"
)

// Service 是抓取编排器：按平台持有抓取器实例，
// 对一个用户配置的所有平台并发抓取，各槽位独立成败。
type Service struct {
	fetchers map[Platform]Fetcher
	cache    *Cache
}

// NewService 用一组抓取器构建编排器，cache可以为nil表示不缓存
func NewService(fetchers []Fetcher, cache *Cache) *Service {
	registry := make(map[Platform]Fetcher, len(fetchers))
	for _, f := range fetchers {
		registry[f.Platform()] = f
	}
	return &Service{fetchers: registry, cache: cache}
}

// FetchProfile 抓取单个平台的资料。
// 所有失败都收敛为Outcome中的错误值，本方法自身永不panic。
func (s *Service) FetchProfile(ctx context.Context, platform Platform, handle string) *Outcome {
	fetcher, ok := s.fetchers[platform]
	if !ok {
		return &Outcome{Err: fmt.Errorf("未注册的平台: %s", platform)}
	}

	if s.cache != nil {
		if cached, ok := s.cache.Get(ctx, platform, handle); ok {
			return &Outcome{Profile: cached}
		}
	}

	p, err := fetcher.FetchProfile(ctx, handle)
	if err != nil {
		return &Outcome{Err: err}
	}

	if s.cache != nil {
		s.cache.Set(ctx, platform, handle, p)
	}
	return &Outcome{Profile: p}
}

// AggregateProfiles 对配置了用户名的平台并发抓取并汇总。
// 某个平台失败不会拖延、取消或污染其他平台的结果；
// 未配置用户名的槽位保持nil。所有请求结算后才返回。
func (s *Service) AggregateProfiles(ctx context.Context, handles Handles) *Aggregate {
	agg := &Aggregate{}

	slots := []struct {
		platform Platform
		handle   string
		target   **Outcome
	}{
		{PlatformCodeforces, handles.Codeforces, &agg.Codeforces},
		{PlatformLeetcode, handles.Leetcode, &agg.Leetcode},
		{PlatformCodechef, handles.Codechef, &agg.Codechef},
	}

	var wg sync.WaitGroup
	for _, slot := range slots {
		if slot.handle == "" {
			continue
		}
		wg.Add(1)
		go func(platform Platform, handle string, target **Outcome) {
			defer wg.Done()
			*target = s.FetchProfile(ctx, platform, handle)
		}(slot.platform, slot.handle, slot.target)
	}
	wg.Wait()

	return agg
}
