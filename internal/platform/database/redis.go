package database

import (
	"context"
	"fmt"

	"github.com/cptrack/cptrack-backend/internal/platform/config"
	"github.com/redis/go-redis/v9"
)

// NewRedis 初始化与Redis数据库的连接
// 返回的客户端由调用方注入到需要缓存的模块中
func NewRedis(cfg config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// 使用Ping命令来测试连接是否成功
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		return nil, fmt.Errorf("无法连接到Redis: %w", err)
	}

	fmt.Println("Redis 连接成功！")
	return rdb, nil
}
