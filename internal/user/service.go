package user

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Service 封装了用户配置的读写。数据库句柄由构造时注入。
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// GetByUUID 按UUID查找用户，found为false表示该用户还没有保存过任何配置
func (s *Service) GetByUUID(ctx context.Context, uuidStr string) (*User, bool, error) {
	var u User
	err := s.db.WithContext(ctx).First(&u, "uuid = ?", uuidStr).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("查询用户失败: %w", err)
	}
	return &u, true, nil
}

// UpdateHandles 保存用户的平台用户名配置，用户不存在时创建。
// 三个字段整体覆盖，允许传空串来清除某个平台的配置。
func (s *Service) UpdateHandles(ctx context.Context, uuidStr, codeforces, leetcode, codechef string) error {
	u := User{UUID: uuidStr}
	tx := s.db.WithContext(ctx)
	if err := tx.FirstOrCreate(&u, User{UUID: uuidStr}).Error; err != nil {
		return fmt.Errorf("无法创建用户: %w", err)
	}
	err := tx.Model(&u).
		Select("codeforces_handle", "leetcode_handle", "codechef_handle").
		Updates(User{
			CodeforcesHandle: codeforces,
			LeetcodeHandle:   leetcode,
			CodechefHandle:   codechef,
		}).Error
	if err != nil {
		return fmt.Errorf("无法更新用户配置: %w", err)
	}
	return nil
}
