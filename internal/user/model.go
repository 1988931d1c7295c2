package user

import (
	"time"

	"gorm.io/gorm"
)

// User 定义了用户在数据库中的持久化模型。
// 用户由客户端Cookie里的UUID标识，这里只存各平台的用户名配置。
type User struct {
	// UUID 是用户的主键，来自客户端Cookie。
	UUID string `gorm:"primarykey;type:varchar(36)"`

	// 三个平台的用户名均为可选配置，空串表示未配置
	CodeforcesHandle string `json:"codeforcesHandle"`
	LeetcodeHandle   string `json:"leetcodeHandle"`
	CodechefHandle   string `json:"codechefHandle"`

	// 部分gorm.Model，由GORM自动管理
	CreatedAt time.Time      `json:"-"`
	UpdatedAt time.Time      `json:"-"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
