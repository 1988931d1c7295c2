package profile

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/cptrack/cptrack-backend/internal/platform/httpclient"
)

const (
	codechefBase       = "https://www.codechef.com"
	codechefMirrorBase = "https://cp-rating-api.vercel.app"

	// CodeChef的正常个人主页远大于5KB，更小的响应几乎总是挑战页
	codechefMinPageSize = 5000
)

// CodechefFetcher 先做HTML抓取，被反爬拦截或页面改版时降级到公共镜像。
// CodeChef没有难度标注，difficultySolved恒为null。
type CodechefFetcher struct {
	client     *httpclient.Client
	base       string
	mirrorBase string
}

func NewCodechefFetcher(client *httpclient.Client) *CodechefFetcher {
	return &CodechefFetcher{
		client:     client,
		base:       codechefBase,
		mirrorBase: codechefMirrorBase,
	}
}

func (f *CodechefFetcher) Platform() Platform {
	return PlatformCodechef
}

func (f *CodechefFetcher) FetchProfile(ctx context.Context, handle string) (*Profile, error) {
	return runChain(ctx, PlatformCodechef, handle, []strategy{
		{name: "page-scrape", run: f.fetchFromProfilePage},
		{name: "mirror-api", run: f.fetchFromMirror},
	})
}

func (f *CodechefFetcher) profileURL(handle string) string {
	return codechefBase + "/users/" + handle
}

// --- 策略1: HTML抓取 ---

var codechefScrapeHeaders = map[string]string{
	"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
	"Accept-Language": "en-US,en;q=0.9",
	"Referer":         codechefBase + "/",
	"Cache-Control":   "no-cache",
	"Pragma":          "no-cache",
}

func (f *CodechefFetcher) fetchFromProfilePage(ctx context.Context, handle string) (*Profile, error) {
	resp, err := f.client.Get(ctx, f.base+"/users/"+handle, codechefScrapeHeaders)
	if err != nil {
		return nil, err
	}
	// 挑战页按拦截处理，不去解析垃圾字段
	if looksBlocked(resp.StatusCode, resp.Body, codechefMinPageSize) {
		return nil, fmt.Errorf("%w: 状态码 %d, 响应 %d 字节", ErrBlocked, resp.StatusCode, len(resp.Body))
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrShapeNotFound, err)
	}

	text := func(selector string) string {
		return strings.TrimSpace(doc.Find(selector).First().Text())
	}
	firstNonEmpty := func(selectors ...string) string {
		for _, sel := range selectors {
			if s := text(sel); s != "" {
				return s
			}
		}
		return ""
	}

	username := firstNonEmpty(".h2-style", ".user-details h1")
	if username == "" {
		username = handle
	}

	currentRating := parseLooseInt(text(".rating-number"))

	var title *string
	if stars := text(".rating-star"); stars != "" {
		title = strPtr(stars)
	}

	maxRating := firstNumberIn(firstNonEmpty(
		"section.rating-data-section .rating-header small",
		".rating-header small",
	))

	var globalRank, countryRank any
	if s := firstNonEmpty(
		"section.rating-data-section .rating-ranks ul li:nth-child(1) strong",
		".rating-ranks li:nth-child(1) strong",
	); s != "" {
		globalRank = s
	}
	if s := firstNonEmpty(
		"section.rating-data-section .rating-ranks ul li:nth-child(2) strong",
		".rating-ranks li:nth-child(2) strong",
	); s != "" {
		countryRank = s
	}

	solvedCount := f.scrapeSolvedCount(doc)

	// 比赛表按行解析，数字列先剥掉非数字字符再转换
	var contests []ContestResult
	doc.Find("table.rating-table tbody tr").Each(func(_ int, row *goquery.Selection) {
		cols := row.Find("td")
		if cols.Length() < 4 {
			return
		}
		rank := parseLooseInt(cols.Eq(1).Text())
		if rank == nil {
			return
		}
		contests = append(contests, ContestResult{
			ContestName: strings.TrimSpace(cols.Eq(0).Text()),
			Rank:        *rank,
			Rating:      parseLooseInt(cols.Eq(3).Text()),
		})
	})

	var contestCount *int
	if len(contests) > 0 {
		contestCount = intPtr(len(contests))
	}

	return &Profile{
		Platform:      PlatformCodechef,
		Username:      username,
		Title:         title,
		CurrentRating: currentRating,
		MaxRating:     maxRating,
		GlobalRank:    globalRank,
		CountryRank:   countryRank,
		SolvedCount:   solvedCount,
		ContestCount:  contestCount,
		TopContests:   topContestsByRank(contests),
		RatingGraph:   []RatingPoint{},
		ProfileURL:    f.profileURL(handle),
	}, nil
}

// scrapeSolvedCount 优先读"Fully Solved"标题里的数字，
// 页面没有这个标题时退而求其次，把各分类徽章上的数字加总。
func (f *CodechefFetcher) scrapeSolvedCount(doc *goquery.Document) *int {
	var solved *int
	doc.Find("section.problems-solved h5, .content h5").EachWithBreak(func(_ int, h *goquery.Selection) bool {
		if !strings.Contains(strings.ToLower(h.Text()), "fully solved") {
			return true
		}
		solved = firstNumberIn(h.Text())
		return false
	})
	if solved != nil {
		return solved
	}

	sum := 0
	doc.Find("section.problems-solved .badge, .content .badge").Each(func(_ int, badge *goquery.Selection) {
		if n := parseLooseInt(badge.Text()); n != nil {
			sum += *n
		}
	})
	if sum == 0 {
		return nil
	}
	return &sum
}

// --- 策略2: 公共镜像 ---

type ccMirrorContest struct {
	Name string `json:"name"`
	Rank *int   `json:"rank"`
}

type ccMirrorData struct {
	Username       string            `json:"username"`
	Rating         *int              `json:"rating"`
	Stars          *string           `json:"stars"`
	GlobalRank     any               `json:"globalRank"`
	CountryRank    any               `json:"countryRank"`
	ProblemsSolved *int              `json:"problemsSolved"`
	Participation  *int              `json:"participation"`
	Contests       []ccMirrorContest `json:"contests"`
}

func (f *CodechefFetcher) fetchFromMirror(ctx context.Context, handle string) (*Profile, error) {
	resp, err := f.client.Get(ctx, f.mirrorBase+"/codechef/"+handle, nil)
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, fmt.Errorf("%w: 状态码 %d", ErrBlocked, resp.StatusCode)
	}

	var data ccMirrorData
	if err := json.Unmarshal(resp.Body, &data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrShapeNotFound, err)
	}

	username := data.Username
	if username == "" {
		username = handle
	}

	var contests []ContestResult
	for _, c := range data.Contests {
		if c.Rank == nil {
			continue
		}
		name := c.Name
		if name == "" {
			name = "Contest"
		}
		contests = append(contests, ContestResult{ContestName: name, Rank: *c.Rank})
	}

	contestCount := data.Participation
	if contestCount == nil && len(data.Contests) > 0 {
		contestCount = intPtr(len(data.Contests))
	}

	return &Profile{
		Platform:      PlatformCodechef,
		Username:      username,
		Title:         data.Stars,
		CurrentRating: data.Rating,
		GlobalRank:    data.GlobalRank,
		CountryRank:   data.CountryRank,
		SolvedCount:   data.ProblemsSolved,
		ContestCount:  contestCount,
		TopContests:   topContestsByRank(contests),
		RatingGraph:   []RatingPoint{},
		ProfileURL:    f.profileURL(handle),
	}, nil
}
