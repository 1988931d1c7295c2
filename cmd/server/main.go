package main

import (
	"context"
	"fmt"
	"time"

	"github.com/cptrack/cptrack-backend/api"
	"github.com/cptrack/cptrack-backend/internal/contest"
	"github.com/cptrack/cptrack-backend/internal/platform/config"
	"github.com/cptrack/cptrack-backend/internal/platform/database"
	"github.com/cptrack/cptrack-backend/internal/platform/httpclient"
	"github.com/cptrack/cptrack-backend/internal/profile"
	"github.com/cptrack/cptrack-backend/internal/user"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		panic(fmt.Sprintf("加载配置失败: %v", err))
	}

	db, err := database.New(cfg.Database)
	if err != nil {
		panic(fmt.Sprintf("初始化数据库失败: %v", err))
	}

	// Redis不可用时只损失Profile缓存，服务本体照常启动
	rdb, err := database.NewRedis(cfg.Database.Redis)
	if err != nil {
		fmt.Printf("警告: Redis不可用，Profile缓存已禁用: %v\n", err)
		rdb = nil
	}

	client := httpclient.NewClient(time.Duration(cfg.Fetcher.TimeoutSeconds) * time.Second)

	userModule, err := user.NewModule(db)
	if err != nil {
		panic(fmt.Sprintf("初始化user模块失败: %v", err))
	}

	contestModule, err := contest.NewModule(db, client, cfg.Contests.FeedURL)
	if err != nil {
		panic(fmt.Sprintf("初始化contest模块失败: %v", err))
	}

	profileModule := profile.NewModule(cfg.Fetcher, rdb,
		func(ctx context.Context, userID string) (profile.Handles, bool, error) {
			u, found, err := userModule.Service.GetByUUID(ctx, userID)
			if err != nil || !found {
				return profile.Handles{}, found, err
			}
			return profile.Handles{
				Codeforces: u.CodeforcesHandle,
				Leetcode:   u.LeetcodeHandle,
				Codechef:   u.CodechefHandle,
			}, true, nil
		})

	// 启动时异步执行一轮比赛摄取；摄取是幂等的，失败只记日志不影响服务
	go func() {
		if err := contestModule.Service.IngestUpcoming(context.Background()); err != nil {
			fmt.Printf("启动时比赛摄取失败: %v\n", err)
		}
	}()

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.Cors.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api.SetupRoutes(r, &api.Handlers{
		Profile: profileModule.Handler,
		Contest: contestModule.Handler,
		User:    userModule.Handler,
	})

	fmt.Printf("服务器已准备就绪，开始监听 %s\n", cfg.Server.Address)
	if err := r.Run(cfg.Server.Address); err != nil {
		panic("Failed to start server: " + err.Error())
	}
}
