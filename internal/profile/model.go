package profile

import (
	"encoding/json"
	"time"
)

// Platform 是受支持的外部平台的封闭枚举
type Platform string

const (
	PlatformCodeforces Platform = "Codeforces"
	PlatformLeetcode   Platform = "LeetCode"
	PlatformCodechef   Platform = "CodeChef"
)

// DifficultyCount 是按难度划分的已解题数
type DifficultyCount struct {
	Easy   int `json:"easy"`
	Medium int `json:"medium"`
	Hard   int `json:"hard"`
}

// ContestResult 是一场比赛中的单次成绩
type ContestResult struct {
	ContestName string     `json:"contestName"`
	Rank        int        `json:"rank"`
	Rating      *int       `json:"rating"`
	Time        *time.Time `json:"time"`
}

// RatingPoint 是积分曲线上的一个采样点，按来源的时间顺序排列
type RatingPoint struct {
	Rating int       `json:"rating"`
	Time   time.Time `json:"time"`
}

// Profile 是所有平台抓取结果统一收敛到的规范结构。
// 凡是来源无法确定的数值字段一律保持nil，绝不伪造0，
// 唯一的例外是语义上就是计数的字段（如已解题数的难度桶）。
//
// GlobalRank和CountryRank可能是数字也可能是来源页面上的文本标签，
// 因此使用any承载。
type Profile struct {
	Platform         Platform         `json:"platform"`
	Username         string           `json:"username"`
	Title            *string          `json:"title"`
	CurrentRating    *int             `json:"currentRating"`
	MaxRating        *int             `json:"maxRating"`
	GlobalRank       any              `json:"globalRank"`
	CountryRank      any              `json:"countryRank"`
	SolvedCount      *int             `json:"solvedCount"`
	DifficultySolved *DifficultyCount `json:"difficultySolved"`
	ContestCount     *int             `json:"contestCount"`
	TopContests      []ContestResult  `json:"topContests"`
	RatingGraph      []RatingPoint    `json:"ratingGraph"`
	ProfileURL       string           `json:"profileUrl"`
}

// Outcome 是单个平台的最终结果：Profile与错误二者取其一，永不混合。
// 序列化后要么是完整的Profile对象，要么是 {"error": "..."}。
type Outcome struct {
	Profile *Profile
	Err     error
}

// MarshalJSON 实现了Outcome的二选一序列化
func (o *Outcome) MarshalJSON() ([]byte, error) {
	if o.Err != nil {
		return json.Marshal(map[string]string{"error": o.Err.Error()})
	}
	return json.Marshal(o.Profile)
}

// Handles 是一个用户在各平台配置的可选用户名，空串表示未配置
type Handles struct {
	Codeforces string
	Leetcode   string
	Codechef   string
}

// Aggregate 是一次聚合抓取的完整结果。
// 每个槽位独立结算：未配置用户名的槽位为nil。
type Aggregate struct {
	Codeforces *Outcome `json:"codeforces"`
	Leetcode   *Outcome `json:"leetcode"`
	Codechef   *Outcome `json:"codechef"`
}
