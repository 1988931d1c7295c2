package profile

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/cptrack/cptrack-backend/internal/platform/httpclient"
)

const (
	codeforcesAPIBase    = "https://codeforces.com/api"
	codeforcesMirrorBase = "https://cp-rating-api.vercel.app"
	verdictAccepted      = "OK"
)

// --- Codeforces官方API的响应模型 ---

type cfUserInfo struct {
	Handle    string  `json:"handle"`
	Rank      *string `json:"rank"`
	Rating    *int    `json:"rating"`
	MaxRating *int    `json:"maxRating"`
}

type cfRatingChange struct {
	ContestName             string `json:"contestName"`
	Rank                    int    `json:"rank"`
	NewRating               int    `json:"newRating"`
	RatingUpdateTimeSeconds int64  `json:"ratingUpdateTimeSeconds"`
}

type cfSubmission struct {
	Verdict string `json:"verdict"`
	Problem struct {
		ContestID int    `json:"contestId"`
		Index     string `json:"index"`
	} `json:"problem"`
}

type cfProblem struct {
	ContestID int    `json:"contestId"`
	Index     string `json:"index"`
	Rating    *int   `json:"rating"`
}

// --- 公共镜像API的响应模型 ---

type cfMirrorData struct {
	Username  string `json:"username"`
	Rating    *int   `json:"rating"`
	MaxRating *int   `json:"maxRating"`
}

// CodeforcesFetcher 通过官方REST API抓取数据，
// API不可用时降级到低保真的公共镜像。
type CodeforcesFetcher struct {
	client     *httpclient.Client
	apiBase    string
	mirrorBase string
}

func NewCodeforcesFetcher(client *httpclient.Client) *CodeforcesFetcher {
	return &CodeforcesFetcher{
		client:     client,
		apiBase:    codeforcesAPIBase,
		mirrorBase: codeforcesMirrorBase,
	}
}

func (f *CodeforcesFetcher) Platform() Platform {
	return PlatformCodeforces
}

func (f *CodeforcesFetcher) FetchProfile(ctx context.Context, handle string) (*Profile, error) {
	return runChain(ctx, PlatformCodeforces, handle, []strategy{
		{name: "official-api", run: f.fetchFromAPI},
		{name: "mirror-api", run: f.fetchFromMirror},
	})
}

// getAPIResult 请求官方API的一个端点并解出result字段。
// 官方API在业务失败时返回200之外的状态码和status=FAILED，两者都按策略失败处理。
func (f *CodeforcesFetcher) getAPIResult(ctx context.Context, path string, result any) error {
	resp, err := f.client.Get(ctx, f.apiBase+path, nil)
	if err != nil {
		return err
	}
	if !resp.OK() {
		return fmt.Errorf("%w: 状态码 %d", ErrBlocked, resp.StatusCode)
	}
	var envelope struct {
		Status string          `json:"status"`
		Result json.RawMessage `json:"result"`
	}
	if err := json.Unmarshal(resp.Body, &envelope); err != nil {
		return fmt.Errorf("%w: %v", ErrShapeNotFound, err)
	}
	if envelope.Status != "OK" {
		return fmt.Errorf("%w: API status=%s", ErrShapeNotFound, envelope.Status)
	}
	return json.Unmarshal(envelope.Result, result)
}

// fetchFromAPI 并发请求四个相互独立的官方端点，
// 任何一个失败都视为本策略整体失败。
func (f *CodeforcesFetcher) fetchFromAPI(ctx context.Context, handle string) (*Profile, error) {
	var (
		users         []cfUserInfo
		ratingChanges []cfRatingChange
		submissions   []cfSubmission
		problemSet    struct {
			Problems []cfProblem `json:"problems"`
		}
	)

	escaped := url.QueryEscape(handle)
	calls := []struct {
		path   string
		result any
	}{
		{"/user.info?handles=" + escaped, &users},
		{"/user.rating?handle=" + escaped, &ratingChanges},
		{"/user.status?handle=" + escaped, &submissions},
		{"/problemset.problems", &problemSet},
	}

	var wg sync.WaitGroup
	errs := make([]error, len(calls))
	for i, call := range calls {
		wg.Add(1)
		go func(i int, path string, result any) {
			defer wg.Done()
			errs[i] = f.getAPIResult(ctx, path, result)
		}(i, call.path, call.result)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	var info cfUserInfo
	if len(users) > 0 {
		info = users[0]
	}
	username := info.Handle
	if username == "" {
		username = handle
	}

	// 已解题 = 有AC判定的 (contestId, index) 去重集合
	solvedSet := make(map[string]struct{})
	for _, s := range submissions {
		if s.Verdict == verdictAccepted && s.Problem.ContestID != 0 && s.Problem.Index != "" {
			solvedSet[fmt.Sprintf("%d-%s", s.Problem.ContestID, s.Problem.Index)] = struct{}{}
		}
	}

	// 用全站题目表做难度映射；没有难度标定的题不计入难度桶
	ratingByProblem := make(map[string]int)
	for _, p := range problemSet.Problems {
		if p.ContestID != 0 && p.Index != "" && p.Rating != nil {
			ratingByProblem[fmt.Sprintf("%d-%s", p.ContestID, p.Index)] = *p.Rating
		}
	}

	var buckets DifficultyCount
	for key := range solvedSet {
		r, ok := ratingByProblem[key]
		if !ok {
			continue
		}
		switch {
		case r <= 1200:
			buckets.Easy++
		case r >= 1800:
			buckets.Hard++
		default:
			buckets.Medium++
		}
	}

	results := make([]ContestResult, 0, len(ratingChanges))
	graph := make([]RatingPoint, 0, len(ratingChanges))
	for _, c := range ratingChanges {
		t := time.Unix(c.RatingUpdateTimeSeconds, 0)
		results = append(results, ContestResult{
			ContestName: c.ContestName,
			Rank:        c.Rank,
			Rating:      intPtr(c.NewRating),
			Time:        &t,
		})
		graph = append(graph, RatingPoint{Rating: c.NewRating, Time: t})
	}

	return &Profile{
		Platform:         PlatformCodeforces,
		Username:         username,
		Title:            info.Rank,
		CurrentRating:    info.Rating,
		MaxRating:        info.MaxRating,
		SolvedCount:      intPtr(len(solvedSet)),
		DifficultySolved: &buckets,
		ContestCount:     intPtr(len(ratingChanges)),
		TopContests:      topContestsByRank(results),
		RatingGraph:      graph,
		ProfileURL:       "https://codeforces.com/profile/" + handle,
	}, nil
}

// fetchFromMirror 只能拿到积分级别的数据，作为官方API被限流时的兜底
func (f *CodeforcesFetcher) fetchFromMirror(ctx context.Context, handle string) (*Profile, error) {
	resp, err := f.client.Get(ctx, f.mirrorBase+"/codeforces/"+url.PathEscape(handle), nil)
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, fmt.Errorf("%w: 状态码 %d", ErrBlocked, resp.StatusCode)
	}

	var data cfMirrorData
	if err := json.Unmarshal(resp.Body, &data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrShapeNotFound, err)
	}

	username := data.Username
	if username == "" {
		username = handle
	}

	return &Profile{
		Platform:      PlatformCodeforces,
		Username:      username,
		CurrentRating: data.Rating,
		MaxRating:     data.MaxRating,
		TopContests:   []ContestResult{},
		RatingGraph:   []RatingPoint{},
		ProfileURL:    "https://codeforces.com/profile/" + handle,
	}, nil
}
