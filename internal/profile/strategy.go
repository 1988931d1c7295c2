package profile

import (
	"context"
	"errors"
	"fmt"
	"regexp"
)

// --- 策略层错误分类 ---
// 这些错误都只在降级链内部流转，用于决定是否继续尝试下一个策略，
// 不会穿透到抓取器之外。

var (
	// ErrBlocked 表示上游返回了挑战页、异常短的响应或非200状态
	ErrBlocked = errors.New("上游响应疑似被反爬拦截")
	// ErrShapeNotFound 表示响应解析成功但预期的数据结构缺失
	ErrShapeNotFound = errors.New("响应中找不到预期的数据结构")
	// ErrNoSignal 表示策略调用成功但没有产出任何有效信号
	ErrNoSignal = errors.New("策略结果不包含有效数据")
)

// Fetcher 是单个平台抓取器的统一契约。
// FetchProfile 只会返回 (profile, nil) 或 (nil, err)，
// 返回错误即spec意义上的终态错误对象，永不panic。
type Fetcher interface {
	Platform() Platform
	FetchProfile(ctx context.Context, handle string) (*Profile, error)
}

// strategy 是降级链中的一环：一种具体的数据提取方式
type strategy struct {
	name string
	run  func(ctx context.Context, handle string) (*Profile, error)
}

// runChain 按固定顺序依次尝试各策略，直到某个结果"足够好"。
// 策略自身的失败（网络错误、被拦截、解析失败）只是链的推进条件；
// 全部耗尽时返回带平台名的终态错误。
func runChain(ctx context.Context, platform Platform, handle string, chain []strategy) (*Profile, error) {
	for _, s := range chain {
		p, err := s.run(ctx, handle)
		if err != nil {
			continue
		}
		if hasSignal(p) {
			return p, nil
		}
		// 调用在技术上成功了，但没有任何可用信号，继续降级
	}
	return nil, fmt.Errorf("Failed to fetch %s data", platform)
}

// hasSignal 是链的提前接受谓词：
// 至少要有一个实质性信号（积分、一条比赛成绩或解题数）才算成功。
func hasSignal(p *Profile) bool {
	if p == nil {
		return false
	}
	return p.CurrentRating != nil || len(p.TopContests) > 0 || p.SolvedCount != nil
}

// challengeMarkers 匹配常见的反爬挑战页特征
var challengeMarkers = regexp.MustCompile(`(?i)Attention Required|Cloudflare|cf-error`)

// looksBlocked 判断一次HTML抓取是否撞上了反爬防御。
// 异常短的页面通常是挑战页或错误页，按拦截处理而不是去解析垃圾。
func looksBlocked(statusCode int, body []byte, minBodySize int) bool {
	if statusCode != 200 {
		return true
	}
	if len(body) < minBodySize {
		return true
	}
	return challengeMarkers.Match(body)
}
