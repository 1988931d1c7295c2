package contest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cptrack/cptrack-backend/internal/platform/httpclient"
	"gorm.io/gorm"
)

// feedEntry 是聚合源feed里单场比赛的原始结构，时间和时长单位都是毫秒
type feedEntry struct {
	Site      string `json:"site"`
	Title     string `json:"title"`
	StartTime int64  `json:"startTime"`
	Duration  int64  `json:"duration"`
	EndTime   int64  `json:"endTime"`
	URL       string `json:"url"`
}

// Service 是比赛摄取管道：拉取聚合源的近期比赛列表，
// 按 (name, platform) 去重后只插入新条目，可以安全地重复调用。
type Service struct {
	repo    *Repository
	client  *httpclient.Client
	feedURL string
}

func NewService(repo *Repository, client *httpclient.Client, feedURL string) *Service {
	return &Service{repo: repo, client: client, feedURL: feedURL}
}

// IngestUpcoming 执行一轮摄取。
// feed级别的失败（网络错误、无法解析）中止本轮并返回错误，
// 本轮已插入的条目保留；去重检查保证重试是幂等的。
// 单条插入失败只记日志并继续，不影响其余条目。
func (s *Service) IngestUpcoming(ctx context.Context) error {
	resp, err := s.client.Get(ctx, s.feedURL, nil)
	if err != nil {
		return fmt.Errorf("拉取比赛feed失败: %w", err)
	}
	if !resp.OK() {
		return fmt.Errorf("比赛feed返回异常状态码: %d", resp.StatusCode)
	}

	var entries []feedEntry
	if err := json.Unmarshal(resp.Body, &entries); err != nil {
		return fmt.Errorf("比赛feed无法解析: %w", err)
	}

	inserted := 0
	for _, e := range entries {
		exists, err := s.repo.ExistsByIdentity(ctx, e.Title, e.Site)
		if err != nil {
			fmt.Printf("比赛存在性检查失败 (%s/%s): %v\n", e.Site, e.Title, err)
			continue
		}
		if exists {
			continue
		}

		record := &Contest{
			Name:      e.Title,
			Platform:  e.Site,
			StartTime: time.UnixMilli(e.StartTime),
			EndTime:   time.UnixMilli(e.EndTime),
			// 毫秒换算为分钟，整数向下取整
			DurationMinutes: int(e.Duration / 60000),
			Link:            e.URL,
		}
		if err := s.repo.Create(ctx, record); err != nil {
			// 并发摄取在存在性检查后撞上唯一索引属于预期情况
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				continue
			}
			fmt.Printf("比赛插入失败 (%s/%s): %v\n", e.Site, e.Title, err)
			continue
		}
		inserted++
	}

	fmt.Printf("比赛摄取完成: feed共 %d 场，新插入 %d 场。\n", len(entries), inserted)
	return nil
}

// Upcoming 返回尚未开始的比赛，按开始时间升序
func (s *Service) Upcoming(ctx context.Context) ([]Contest, error) {
	return s.repo.Upcoming(ctx, time.Now())
}
