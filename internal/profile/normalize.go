package profile

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// maxTopContests 是topContests字段的长度上限
const maxTopContests = 5

var nonDigits = regexp.MustCompile(`[^\d]`)

// topContestsByRank 对比赛成绩按名次升序做稳定排序并截断到上限。
// 稳定排序保证名次相同时保留来源顺序。
func topContestsByRank(results []ContestResult) []ContestResult {
	sorted := make([]ContestResult, len(results))
	copy(sorted, results)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Rank < sorted[j].Rank
	})
	if len(sorted) > maxTopContests {
		sorted = sorted[:maxTopContests]
	}
	return sorted
}

// parseLooseInt 从可能混有千分位逗号、井号等杂质的文本中解析整数。
// 解析不出数字时返回nil，绝不panic。
func parseLooseInt(s string) *int {
	digits := nonDigits.ReplaceAllString(strings.TrimSpace(s), "")
	if digits == "" {
		return nil
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return nil
	}
	return &n
}

// firstNumberIn 提取文本中出现的第一段连续数字
func firstNumberIn(s string) *int {
	loc := regexp.MustCompile(`\d+`).FindString(s)
	if loc == "" {
		return nil
	}
	n, err := strconv.Atoi(loc)
	if err != nil {
		return nil
	}
	return &n
}

// maxRatingOf 在积分历史中求最大值，作为来源未单独报告maxRating时的推算值。
// 历史为空或全为0时返回nil而不是0。
func maxRatingOf(graph []RatingPoint) *int {
	max := 0
	for _, p := range graph {
		if p.Rating > max {
			max = p.Rating
		}
	}
	if max == 0 {
		return nil
	}
	return &max
}

func intPtr(n int) *int {
	return &n
}

func strPtr(s string) *string {
	return &s
}
