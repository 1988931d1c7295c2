package profile

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/url"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/cptrack/cptrack-backend/internal/platform/config"
	"github.com/cptrack/cptrack-backend/internal/platform/httpclient"
	"github.com/cptrack/cptrack-backend/pkg/jsontree"
)

const (
	leetcodeBase       = "https://leetcode.com"
	leetcodeMirrorBase = "https://alfa-leetcode-api.onrender.com"
)

// leetcodeQuery 一次性取回提交统计、比赛排名和比赛历史
const leetcodeQuery = `
	query userProfile($username: String!) {
		matchedUser(username: $username) {
			username
			submitStats: submitStatsGlobal {
				acSubmissionNum { difficulty count }
			}
		}
		userContestRanking(username: $username) {
			rating
			topPercentage
			attendedContestsCount
			globalRanking
		}
		userContestRankingHistory(username: $username) {
			contest
			startTime
			ranking
			rating
		}
	}
`

type lcSubmissionNum struct {
	Difficulty string `json:"difficulty"`
	Count      int    `json:"count"`
}

type lcContestRanking struct {
	Rating                *float64 `json:"rating"`
	AttendedContestsCount *int     `json:"attendedContestsCount"`
	GlobalRanking         *int     `json:"globalRanking"`
}

type lcHistoryEntry struct {
	Contest   string   `json:"contest"`
	StartTime int64    `json:"startTime"`
	Ranking   *int     `json:"ranking"`
	Rating    *float64 `json:"rating"`
}

// LeetcodeFetcher 依次尝试GraphQL、页面内嵌JSON抓取、公共镜像三种策略。
// GraphQL质量最高但经常要求会话凭证；页面抓取靠jsontree的形状搜索
// 抵抗Next.js数据结构的漂移；镜像只有解题数，用来保底。
type LeetcodeFetcher struct {
	client      *httpclient.Client
	base        string
	mirrorBase  string
	credentials config.LeetcodeConfig
}

func NewLeetcodeFetcher(client *httpclient.Client, credentials config.LeetcodeConfig) *LeetcodeFetcher {
	return &LeetcodeFetcher{
		client:      client,
		base:        leetcodeBase,
		mirrorBase:  leetcodeMirrorBase,
		credentials: credentials,
	}
}

func (f *LeetcodeFetcher) Platform() Platform {
	return PlatformLeetcode
}

func (f *LeetcodeFetcher) FetchProfile(ctx context.Context, handle string) (*Profile, error) {
	return runChain(ctx, PlatformLeetcode, handle, []strategy{
		{name: "graphql", run: f.fetchFromGraphQL},
		{name: "page-scrape", run: f.fetchFromProfilePage},
		{name: "mirror-api", run: f.fetchFromMirror},
	})
}

func (f *LeetcodeFetcher) profileURL(handle string) string {
	return leetcodeBase + "/u/" + url.PathEscape(handle) + "/"
}

// --- 策略1: GraphQL ---

func (f *LeetcodeFetcher) graphqlHeaders() map[string]string {
	headers := map[string]string{
		"Accept":  "application/json",
		"Origin":  f.base,
		"Referer": f.base + "/",
	}
	cookie := ""
	if f.credentials.Session != "" {
		cookie = "LEETCODE_SESSION=" + f.credentials.Session
	}
	if f.credentials.CSRF != "" {
		if cookie != "" {
			cookie += "; "
		}
		cookie += "csrftoken=" + f.credentials.CSRF
		headers["x-csrftoken"] = f.credentials.CSRF
	}
	if cookie != "" {
		headers["Cookie"] = cookie
	}
	if f.credentials.Region != "" {
		headers["LeetCode-Preferred-Region"] = f.credentials.Region
	}
	return headers
}

func (f *LeetcodeFetcher) fetchFromGraphQL(ctx context.Context, handle string) (*Profile, error) {
	payload, err := json.Marshal(map[string]any{
		"query":     leetcodeQuery,
		"variables": map[string]string{"username": handle},
	})
	if err != nil {
		return nil, err
	}

	resp, err := f.client.PostJSON(ctx, f.base+"/graphql", payload, f.graphqlHeaders())
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, fmt.Errorf("%w: 状态码 %d", ErrBlocked, resp.StatusCode)
	}

	var body struct {
		Data struct {
			MatchedUser *struct {
				Username    string `json:"username"`
				SubmitStats struct {
					ACSubmissionNum []lcSubmissionNum `json:"acSubmissionNum"`
				} `json:"submitStats"`
			} `json:"matchedUser"`
			UserContestRanking        *lcContestRanking `json:"userContestRanking"`
			UserContestRankingHistory []lcHistoryEntry  `json:"userContestRankingHistory"`
		} `json:"data"`
	}
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrShapeNotFound, err)
	}
	if body.Data.MatchedUser == nil {
		return nil, fmt.Errorf("%w: matchedUser为空", ErrShapeNotFound)
	}

	ac := body.Data.MatchedUser.SubmitStats.ACSubmissionNum
	username := body.Data.MatchedUser.Username
	if username == "" {
		username = handle
	}

	p := &Profile{
		Platform:    PlatformLeetcode,
		Username:    username,
		SolvedCount: intPtr(acCount(ac, "All")),
		DifficultySolved: &DifficultyCount{
			Easy:   acCount(ac, "Easy"),
			Medium: acCount(ac, "Medium"),
			Hard:   acCount(ac, "Hard"),
		},
		ProfileURL: f.profileURL(handle),
	}
	f.applyContestHistory(p, body.Data.UserContestRanking, body.Data.UserContestRankingHistory)
	return p, nil
}

func acCount(nums []lcSubmissionNum, difficulty string) int {
	for _, n := range nums {
		if n.Difficulty == difficulty {
			return n.Count
		}
	}
	return 0
}

// applyContestHistory 把比赛排名和历史归一化进Profile，
// GraphQL和页面抓取两个策略共用这段逻辑。
func (f *LeetcodeFetcher) applyContestHistory(p *Profile, ranking *lcContestRanking, history []lcHistoryEntry) {
	results := make([]ContestResult, 0, len(history))
	graph := make([]RatingPoint, 0, len(history))
	for _, h := range history {
		t := time.Unix(h.StartTime, 0)
		rounded := 0
		if h.Rating != nil {
			rounded = int(math.Round(*h.Rating))
		}
		graph = append(graph, RatingPoint{Rating: rounded, Time: t})
		if h.Ranking == nil {
			continue
		}
		var contestRating *int
		if h.Rating != nil {
			contestRating = intPtr(rounded)
		}
		results = append(results, ContestResult{
			ContestName: h.Contest,
			Rank:        *h.Ranking,
			Rating:      contestRating,
			Time:        &t,
		})
	}

	p.TopContests = topContestsByRank(results)
	p.RatingGraph = graph
	p.MaxRating = maxRatingOf(graph)

	if ranking != nil {
		if ranking.Rating != nil {
			p.CurrentRating = intPtr(int(math.Round(*ranking.Rating)))
		}
		p.GlobalRank = ranking.GlobalRanking
		if ranking.AttendedContestsCount != nil {
			p.ContestCount = ranking.AttendedContestsCount
			return
		}
	}
	if len(history) > 0 {
		p.ContestCount = intPtr(len(history))
	}
}

// --- 策略2: 个人主页内嵌JSON ---

// fetchFromProfilePage 抓取个人主页并在__NEXT_DATA__里按形状搜索数据。
// 不依赖固定的JSON路径，上游改版只要结构本身还在就能找到。
func (f *LeetcodeFetcher) fetchFromProfilePage(ctx context.Context, handle string) (*Profile, error) {
	pageURL := f.base + "/u/" + url.PathEscape(handle) + "/"
	resp, err := f.client.Get(ctx, pageURL, map[string]string{"Referer": f.base + "/"})
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, fmt.Errorf("%w: 状态码 %d", ErrBlocked, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrShapeNotFound, err)
	}
	raw := doc.Find("#__NEXT_DATA__").First().Text()
	if raw == "" {
		return nil, fmt.Errorf("%w: 页面中没有__NEXT_DATA__", ErrShapeNotFound)
	}

	var tree any
	if err := json.Unmarshal([]byte(raw), &tree); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrShapeNotFound, err)
	}

	// 提交统计节点：带acSubmissionNum数组且元素携带difficulty字段
	statsNode, _ := jsontree.FindFirst(tree, func(v any) bool {
		m := jsontree.AsMap(v)
		if m == nil {
			return false
		}
		arr := jsontree.AsArray(m["acSubmissionNum"])
		if len(arr) == 0 {
			return false
		}
		first := jsontree.AsMap(arr[0])
		return first != nil && jsontree.String(first, "difficulty") != ""
	})

	userNode, _ := jsontree.FindFirst(tree, func(v any) bool {
		m := jsontree.AsMap(v)
		return m != nil && jsontree.String(m, "username") != ""
	})

	rankingNode, _ := jsontree.FindFirst(tree, func(v any) bool {
		m := jsontree.AsMap(v)
		if m == nil {
			return false
		}
		_, hasRating := m["rating"]
		_, hasGlobal := m["globalRanking"]
		return hasRating || hasGlobal
	})

	historyNode, _ := jsontree.FindFirst(tree, func(v any) bool {
		arr := jsontree.AsArray(v)
		if len(arr) == 0 {
			return false
		}
		first := jsontree.AsMap(arr[0])
		if first == nil {
			return false
		}
		_, hasStart := first["startTime"]
		_, hasRanking := first["ranking"]
		return jsontree.String(first, "contest") != "" && hasStart && hasRanking
	})

	username := handle
	if m := jsontree.AsMap(userNode); m != nil {
		username = jsontree.String(m, "username")
	}

	p := &Profile{
		Platform:   PlatformLeetcode,
		Username:   username,
		ProfileURL: f.profileURL(handle),
	}

	if m := jsontree.AsMap(statsNode); m != nil {
		counts := &DifficultyCount{}
		var all int
		for _, item := range jsontree.AsArray(m["acSubmissionNum"]) {
			entry := jsontree.AsMap(item)
			if entry == nil {
				continue
			}
			count := 0
			if n, ok := jsontree.Number(entry, "count"); ok {
				count = int(n)
			}
			switch jsontree.String(entry, "difficulty") {
			case "All":
				all = count
			case "Easy":
				counts.Easy = count
			case "Medium":
				counts.Medium = count
			case "Hard":
				counts.Hard = count
			}
		}
		p.DifficultySolved = counts
		if all > 0 {
			p.SolvedCount = intPtr(all)
		}
	}

	var ranking *lcContestRanking
	if m := jsontree.AsMap(rankingNode); m != nil {
		ranking = &lcContestRanking{
			AttendedContestsCount: jsontree.Int(m, "attendedContestsCount"),
			GlobalRanking:         jsontree.Int(m, "globalRanking"),
		}
		if r, ok := jsontree.Number(m, "rating"); ok {
			ranking.Rating = &r
		}
	}

	var history []lcHistoryEntry
	for _, item := range jsontree.AsArray(historyNode) {
		m := jsontree.AsMap(item)
		if m == nil {
			continue
		}
		entry := lcHistoryEntry{
			Contest: jsontree.String(m, "contest"),
			Ranking: jsontree.Int(m, "ranking"),
		}
		if n, ok := jsontree.Number(m, "startTime"); ok {
			entry.StartTime = int64(n)
		}
		if r, ok := jsontree.Number(m, "rating"); ok {
			entry.Rating = &r
		}
		history = append(history, entry)
	}

	f.applyContestHistory(p, ranking, history)
	return p, nil
}

// --- 策略3: 公共镜像 ---

// fetchFromMirror 只有解题数，保证前两个策略全挂时界面不至于全空
func (f *LeetcodeFetcher) fetchFromMirror(ctx context.Context, handle string) (*Profile, error) {
	resp, err := f.client.Get(ctx, f.mirrorBase+"/"+url.PathEscape(handle), nil)
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, fmt.Errorf("%w: 状态码 %d", ErrBlocked, resp.StatusCode)
	}

	var data struct {
		TotalSolved      *int `json:"totalSolved"`
		TotalSolvedCount *int `json:"totalSolvedCount"`
		EasySolved       *int `json:"easySolved"`
		MediumSolved     *int `json:"mediumSolved"`
		HardSolved       *int `json:"hardSolved"`
	}
	if err := json.Unmarshal(resp.Body, &data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrShapeNotFound, err)
	}

	solved := data.TotalSolved
	if solved == nil {
		solved = data.TotalSolvedCount
	}

	var buckets *DifficultyCount
	if data.EasySolved != nil || data.MediumSolved != nil || data.HardSolved != nil {
		buckets = &DifficultyCount{}
		if data.EasySolved != nil {
			buckets.Easy = *data.EasySolved
		}
		if data.MediumSolved != nil {
			buckets.Medium = *data.MediumSolved
		}
		if data.HardSolved != nil {
			buckets.Hard = *data.HardSolved
		}
	}

	return &Profile{
		Platform:         PlatformLeetcode,
		Username:         handle,
		SolvedCount:      solved,
		DifficultySolved: buckets,
		TopContests:      []ContestResult{},
		RatingGraph:      []RatingPoint{},
		ProfileURL:       f.profileURL(handle),
	}, nil
}
