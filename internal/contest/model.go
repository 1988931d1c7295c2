package contest

import (
	"time"

	"gorm.io/gorm"
)

// Contest 定义了数据库中一场比赛的持久化模型。
// (Name, Platform) 是去重身份：同一比赛绝不存两行。
// 复合唯一索引把这条存储层不变量显式写进了表结构，
// 即使两次摄取并发竞争存在性检查，数据库也会拒绝第二次插入。
type Contest struct {
	// gorm.Model 包含 ID, CreatedAt, UpdatedAt, DeletedAt
	gorm.Model

	// Name 是比赛在来源平台上的标题
	Name string `gorm:"uniqueIndex:idx_contest_identity;not null" json:"name"`

	// Platform 是举办比赛的平台名，例如 "codeforces"
	Platform string `gorm:"uniqueIndex:idx_contest_identity;not null" json:"platform"`

	// StartTime / EndTime 是比赛的起止时间
	StartTime time.Time `gorm:"index" json:"startTime"`
	EndTime   time.Time `json:"endTime"`

	// DurationMinutes 是比赛时长（分钟），由来源的毫秒值向下取整换算
	DurationMinutes int `json:"duration"`

	// Link 是比赛页面的链接
	Link string `json:"link"`
}
