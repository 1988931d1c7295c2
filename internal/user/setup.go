package user

import (
	"fmt"

	"gorm.io/gorm"
)

// Module 聚合了user模块对外暴露的组件
type Module struct {
	Service *Service
	Handler *Handler
}

// NewModule 迁移user表结构并组装模块
func NewModule(db *gorm.DB) (*Module, error) {
	if err := db.AutoMigrate(&User{}); err != nil {
		return nil, fmt.Errorf("无法迁移user表: %w", err)
	}
	fmt.Println("User数据库表迁移成功。")

	svc := NewService(db)
	return &Module{
		Service: svc,
		Handler: NewHandler(svc),
	}, nil
}
