package contest

import (
	"fmt"

	"github.com/cptrack/cptrack-backend/internal/platform/httpclient"
	"gorm.io/gorm"
)

// Module 聚合了contest模块对外暴露的组件
type Module struct {
	Service *Service
	Handler *Handler
}

// NewModule 迁移contest表结构并组装摄取管道
func NewModule(db *gorm.DB, client *httpclient.Client, feedURL string) (*Module, error) {
	if err := db.AutoMigrate(&Contest{}); err != nil {
		return nil, fmt.Errorf("无法迁移contest表: %w", err)
	}
	fmt.Println("Contest数据库表迁移成功。")

	svc := NewService(NewRepository(db), client, feedURL)
	return &Module{
		Service: svc,
		Handler: NewHandler(svc),
	}, nil
}
