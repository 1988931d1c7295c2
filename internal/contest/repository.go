package contest

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// Repository 封装了contest表的持久化操作。
// 数据库句柄由构造时注入，不依赖任何全局状态。
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ExistsByIdentity 按 (name, platform) 去重身份检查比赛是否已入库
func (r *Repository) ExistsByIdentity(ctx context.Context, name, platform string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Contest{}).
		Where("name = ? AND platform = ?", name, platform).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create 插入一条新比赛记录。表上的复合唯一索引保证并发插入不会产生重复行。
func (r *Repository) Create(ctx context.Context, c *Contest) error {
	return r.db.WithContext(ctx).Create(c).Error
}

// Upcoming 返回开始时间晚于now的所有比赛，按开始时间升序
func (r *Repository) Upcoming(ctx context.Context, now time.Time) ([]Contest, error) {
	var contests []Contest
	err := r.db.WithContext(ctx).
		Where("start_time > ?", now).
		Order("start_time asc").
		Find(&contests).Error
	return contests, err
}
